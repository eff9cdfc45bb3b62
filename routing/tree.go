// Copyright (c) 2026, The OTNS Authors.
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the
//    names of its contributors may be used to endorse or promote products
//    derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

// Package routing builds ephemeral shortest-hop spanning trees over the mesh neighbor graph and
// extracts routes from them, either directly (ideal) or forced through a DODAG root (RPL style).
package routing

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/openthread/ot-lowpan-sim/logger"
	"github.com/openthread/ot-lowpan-sim/mesh"
	. "github.com/openthread/ot-lowpan-sim/types"
)

const noParent = -1

// TreeNode is a single entry of a RoutingTree. Parent and Children are indices into the tree.
type TreeNode struct {
	Node     NodeId
	Parent   int
	Children []int
	Depth    int
}

// RoutingTree is a rooted tree built for a single query and never mutated afterwards.
// All tree nodes are stored in one array; index 0 is the root.
type RoutingTree struct {
	nodes []TreeNode
	index map[NodeId]int
}

// BuildTree builds a breadth-first spanning tree rooted at root over the outgoing links of the
// current neighbor graph. The depth of each tree node equals its shortest hop count from root.
// Nodes not reachable from root are absent from the tree. Order among same-depth candidates is
// unspecified.
func BuildTree(ns *mesh.NodeSet, root NodeId) (*RoutingTree, error) {
	if !ns.Contains(root) {
		return nil, errors.Wrapf(mesh.ErrNodeNotFound, "tree root %d", root)
	}

	tree := &RoutingTree{
		nodes: []TreeNode{{Node: root, Parent: noParent}},
		index: map[NodeId]int{root: 0},
	}

	frontier := []int{0}
	for len(frontier) > 0 {
		var next []int
		for _, idx := range frontier {
			payload := ns.Get(tree.nodes[idx].Node)
			for _, nb := range payload.Neighbors() {
				if _, visited := tree.index[nb]; visited {
					continue
				}
				if !ns.Contains(nb) {
					logger.Warnf("%s has stale neighbor %d", payload, nb)
					continue
				}
				next = append(next, tree.attach(idx, nb))
			}
		}
		frontier = next
	}

	logger.Debugf("built routing tree at %d: %d of %d nodes, depth %d", root, tree.Len(), ns.Len(), tree.MaxDepth())
	return tree, nil
}

func (t *RoutingTree) attach(parent int, id NodeId) int {
	idx := len(t.nodes)
	t.nodes = append(t.nodes, TreeNode{
		Node:   id,
		Parent: parent,
		Depth:  t.nodes[parent].Depth + 1,
	})
	t.nodes[parent].Children = append(t.nodes[parent].Children, idx)
	t.index[id] = idx
	return idx
}

func (t *RoutingTree) Root() NodeId {
	return t.nodes[0].Node
}

// Len returns the number of nodes in the tree, root included.
func (t *RoutingTree) Len() int {
	return len(t.nodes)
}

func (t *RoutingTree) Contains(id NodeId) bool {
	_, ok := t.index[id]
	return ok
}

// Depth returns the hop count from the root to id, or -1 if id is not in the tree.
func (t *RoutingTree) Depth(id NodeId) int {
	idx, ok := t.index[id]
	if !ok {
		return -1
	}
	return t.nodes[idx].Depth
}

func (t *RoutingTree) MaxDepth() int {
	depth := 0
	for _, tn := range t.nodes {
		if tn.Depth > depth {
			depth = tn.Depth
		}
	}
	return depth
}

// Parent returns the parent of id. ok is false for the root and for nodes not in the tree.
func (t *RoutingTree) Parent(id NodeId) (parent NodeId, ok bool) {
	idx, found := t.index[id]
	if !found || t.nodes[idx].Parent == noParent {
		return InvalidNodeId, false
	}
	return t.nodes[t.nodes[idx].Parent].Node, true
}

// Children returns the child node ids of id in the order they were attached.
func (t *RoutingTree) Children(id NodeId) []NodeId {
	idx, ok := t.index[id]
	if !ok {
		return nil
	}
	children := make([]NodeId, 0, len(t.nodes[idx].Children))
	for _, c := range t.nodes[idx].Children {
		children = append(children, t.nodes[c].Node)
	}
	return children
}

// Parents returns the parent of every non-root node.
func (t *RoutingTree) Parents() map[NodeId]NodeId {
	parents := make(map[NodeId]NodeId, len(t.nodes)-1)
	for _, tn := range t.nodes[1:] {
		parents[tn.Node] = t.nodes[tn.Parent].Node
	}
	return parents
}

// Nodes returns all tree nodes in breadth-first order.
func (t *RoutingTree) Nodes() []TreeNode {
	return t.nodes
}

// String renders the tree one node per line, indented by depth.
func (t *RoutingTree) String() string {
	var sb strings.Builder
	t.writeNode(&sb, 0)
	return sb.String()
}

func (t *RoutingTree) writeNode(sb *strings.Builder, idx int) {
	tn := &t.nodes[idx]
	_, _ = fmt.Fprintf(sb, "%sNode %d\n", strings.Repeat("  ", tn.Depth), tn.Node)
	for _, c := range tn.Children {
		t.writeNode(sb, c)
	}
}

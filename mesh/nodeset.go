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

package mesh

import (
	"sort"

	"github.com/pkg/errors"

	. "github.com/openthread/ot-lowpan-sim/types"
)

var (
	ErrNodeNotFound = errors.New("node not found")
	ErrNodeExists   = errors.New("node already exists")
)

// NodeSet is the arena owning all nodes of a mesh. Nodes refer to each other by NodeId only.
// It is not safe for concurrent use.
type NodeSet struct {
	nodes map[NodeId]*Node
}

func NewNodeSet() *NodeSet {
	return &NodeSet{
		nodes: map[NodeId]*Node{},
	}
}

// Add adds a node to the set. The caller must run UpdateConnectivity afterwards.
func (ns *NodeSet) Add(node *Node) error {
	if _, ok := ns.nodes[node.Id]; ok {
		return errors.Wrapf(ErrNodeExists, "node %d", node.Id)
	}
	ns.nodes[node.Id] = node
	return nil
}

// Remove removes a node from the set and purges it from the neighbor set of every remaining node.
func (ns *NodeSet) Remove(id NodeId) (*Node, error) {
	node, ok := ns.nodes[id]
	if !ok {
		return nil, errors.Wrapf(ErrNodeNotFound, "node %d", id)
	}
	delete(ns.nodes, id)
	for _, other := range ns.nodes {
		other.removeNeighbor(id)
	}
	node.neighbors = map[NodeId]struct{}{}
	return node, nil
}

// Clear removes all nodes.
func (ns *NodeSet) Clear() {
	ns.nodes = map[NodeId]*Node{}
}

// Get returns the node with the given id, or nil if not present.
func (ns *NodeSet) Get(id NodeId) *Node {
	return ns.nodes[id]
}

func (ns *NodeSet) Contains(id NodeId) bool {
	_, ok := ns.nodes[id]
	return ok
}

func (ns *NodeSet) Len() int {
	return len(ns.nodes)
}

// Ids returns a sorted array of NodeIds.
func (ns *NodeSet) Ids() []NodeId {
	ids := make([]NodeId, 0, len(ns.nodes))
	for id := range ns.nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// VisitNodesInOrder calls cb for every node, in order of NodeId.
func (ns *NodeSet) VisitNodesInOrder(cb func(node *Node)) {
	for _, id := range ns.Ids() {
		cb(ns.nodes[id])
	}
}

// Links returns the current neighbor relation of all nodes.
func (ns *NodeSet) Links() LinkTable {
	lt := make(LinkTable, len(ns.nodes))
	for id, node := range ns.nodes {
		lt[id] = node.Neighbors()
	}
	return lt
}

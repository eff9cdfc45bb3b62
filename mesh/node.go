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
	"fmt"
	"sort"

	"github.com/openthread/ot-lowpan-sim/radiomodel"
	. "github.com/openthread/ot-lowpan-sim/types"
)

// Node is a positioned, ranged radio node with a set of outgoing neighbors. Neighbors are stored
// as NodeId handles into the owning NodeSet.
type Node struct {
	radiomodel.RadioNode
	Name string

	neighbors map[NodeId]struct{}
}

// NewNode creates a new node from the given config. The id is taken from nodeid, not from cfg.ID.
func NewNode(nodeid NodeId, cfg *NodeConfig) *Node {
	return &Node{
		RadioNode: *radiomodel.NewRadioNode(nodeid, cfg.X, cfg.Y, cfg.RadioRange),
		Name:      cfg.Name,
		neighbors: map[NodeId]struct{}{},
	}
}

// Equal returns true if both nodes have equal id, name, range and position. It is a field
// comparison: two distinct Node instances can be Equal.
func (node *Node) Equal(other *Node) bool {
	if node == other {
		return true
	}
	if node == nil || other == nil {
		return false
	}
	return node.Id == other.Id && node.Name == other.Name && node.RadioRange == other.RadioRange &&
		node.Pos == other.Pos
}

// Neighbors returns the ids of all nodes reachable from this node, sorted.
func (node *Node) Neighbors() []NodeId {
	nbs := make([]NodeId, 0, len(node.neighbors))
	for id := range node.neighbors {
		nbs = append(nbs, id)
	}
	sort.Ints(nbs)
	return nbs
}

func (node *Node) HasNeighbor(id NodeId) bool {
	_, ok := node.neighbors[id]
	return ok
}

func (node *Node) NumNeighbors() int {
	return len(node.neighbors)
}

// addNeighbor returns true if the link was not present before.
func (node *Node) addNeighbor(id NodeId) bool {
	if _, ok := node.neighbors[id]; ok {
		return false
	}
	node.neighbors[id] = struct{}{}
	return true
}

// removeNeighbor returns true if the link was present before.
func (node *Node) removeNeighbor(id NodeId) bool {
	if _, ok := node.neighbors[id]; !ok {
		return false
	}
	delete(node.neighbors, id)
	return true
}

func (node *Node) String() string {
	return fmt.Sprintf("Node %d", node.Id)
}

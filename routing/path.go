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

package routing

import (
	. "github.com/openthread/ot-lowpan-sim/types"
)

// ShortestPath returns the minimum-length path from the tree root to dst. ok is false if dst is
// not in the tree, which is a normal outcome for partitioned graphs. When several candidates
// have equal length the one returned is unspecified.
func ShortestPath(tree *RoutingTree, dst NodeId) (route Route, ok bool) {
	route = tree.findPath(0, dst, make(Route, 0, tree.MaxDepth()+1))
	return route, route != nil
}

func (t *RoutingTree) findPath(idx int, dst NodeId, path Route) Route {
	path = append(path, t.nodes[idx].Node)
	if t.nodes[idx].Node == dst {
		return append(Route(nil), path...)
	}

	var best Route
	for _, c := range t.nodes[idx].Children {
		candidate := t.findPath(c, dst, path)
		if candidate == nil {
			continue
		}
		if len(candidate) == 2 {
			return candidate
		}
		if best == nil || len(candidate) < len(best) {
			best = candidate
		}
	}
	return best
}

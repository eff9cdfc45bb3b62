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
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/openthread/ot-lowpan-sim/logger"
	"github.com/openthread/ot-lowpan-sim/mesh"
	. "github.com/openthread/ot-lowpan-sim/types"
)

// Route is an ordered list of nodes from source to destination, both inclusive.
type Route []NodeId

// HopCount returns the number of links traversed along the route.
func (r Route) HopCount() int {
	if len(r) == 0 {
		return 0
	}
	return len(r) - 1
}

func (r Route) String() string {
	if len(r) == 0 {
		return "unreachable"
	}
	parts := make([]string, len(r))
	for i, id := range r {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, " -> ")
}

// IdealRoute returns the true shortest route from src to dst under the current neighbor graph.
// ok is false (with a nil error) if dst cannot be reached. A non-nil error means src or dst is
// not in the node set.
func IdealRoute(ns *mesh.NodeSet, src, dst NodeId) (route Route, ok bool, err error) {
	if err = checkNodes(ns, src, dst); err != nil {
		return nil, false, err
	}
	tree, err := BuildTree(ns, src)
	if err != nil {
		return nil, false, err
	}
	route, ok = ShortestPath(tree, dst)
	logger.Debugf("ideal route %d -> %d: %v", src, dst, route)
	return route, ok, nil
}

// RouteViaRoot returns the RPL-style route from src to dst that passes through the DODAG root:
// the shortest path from src up to root followed by the shortest path from root down to dst.
// If either leg is unreachable the whole route is. A non-nil error means src, dst or root is not
// in the node set.
//
// The two legs are joined as they are, so the route may visit a node twice when both legs pass
// through it (e.g. 1 -> 2 -> 4 -> 2 -> 3 with root 4). Its hop count includes the repeated hops,
// which is the detour the root imposes.
func RouteViaRoot(ns *mesh.NodeSet, src, dst, root NodeId) (route Route, ok bool, err error) {
	if err = checkNodes(ns, src, dst, root); err != nil {
		return nil, false, err
	}

	upTree, err := BuildTree(ns, src)
	if err != nil {
		return nil, false, err
	}
	up, ok := ShortestPath(upTree, root)
	if !ok {
		logger.Debugf("rpl route %d -> %d: root %d unreachable from source", src, dst, root)
		return nil, false, nil
	}

	downTree, err := BuildTree(ns, root)
	if err != nil {
		return nil, false, err
	}
	down, ok := ShortestPath(downTree, dst)
	if !ok {
		logger.Debugf("rpl route %d -> %d: destination unreachable from root %d", src, dst, root)
		return nil, false, nil
	}

	route = make(Route, 0, len(up)+len(down)-1)
	route = append(route, up...)
	route = append(route, down[1:]...)
	logger.Debugf("rpl route %d -> %d via %d: %v", src, dst, root, route)
	return route, true, nil
}

func checkNodes(ns *mesh.NodeSet, ids ...NodeId) error {
	for _, id := range ids {
		if !ns.Contains(id) {
			return errors.Wrapf(mesh.ErrNodeNotFound, "node %d", id)
		}
	}
	return nil
}

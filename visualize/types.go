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

package visualize

import (
	. "github.com/openthread/ot-lowpan-sim/types"
)

// Visualizer observes the simulation. All methods are called from the simulation goroutine, in
// the order the corresponding mutations happen.
type Visualizer interface {
	Init()
	Run()
	Stop()

	SetController(ctrl SimulationController)

	AddNode(nodeid NodeId, cfg *NodeConfig)
	DeleteNode(nodeid NodeId)
	SetNodePos(nodeid NodeId, x, y int)
	SetNodeRange(nodeid NodeId, radioRange int)
	SetNodeName(nodeid NodeId, name string)
	SetRadioModel(model RadioModelType)

	// OnConnectivityUpdate is called after every connectivity pass with the resulting links.
	OnConnectivityUpdate(links LinkTable)

	// ShowRoute is called with the result of a route query. route is nil if unreachable.
	ShowRoute(kind string, route []NodeId)

	// ShowDodag is called with the parent of every node in a DODAG tree built at root.
	ShowDodag(root NodeId, parents map[NodeId]NodeId)
}

// SimulationController lets a Visualizer with user input manipulate the simulation.
type SimulationController interface {
	CtrlAddNode(x, y int) error
	CtrlDeleteNode(nodeid NodeId) error
	CtrlMoveNodeTo(nodeid NodeId, x, y int) error
	CtrlSetNodeRange(nodeid NodeId, radioRange int) error
	CtrlSetRadioModel(name string) error
}

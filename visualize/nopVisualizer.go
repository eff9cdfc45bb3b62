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

type nopVisualizer struct{}

func NewNopVisualizer() Visualizer {
	return nopVisualizer{}
}

func (nv nopVisualizer) Init() {
}

func (nv nopVisualizer) Run() {
}

func (nv nopVisualizer) Stop() {
}

func (nv nopVisualizer) SetController(SimulationController) {
}

func (nv nopVisualizer) AddNode(NodeId, *NodeConfig) {
}

func (nv nopVisualizer) DeleteNode(NodeId) {
}

func (nv nopVisualizer) SetNodePos(NodeId, int, int) {
}

func (nv nopVisualizer) SetNodeRange(NodeId, int) {
}

func (nv nopVisualizer) SetNodeName(NodeId, string) {
}

func (nv nopVisualizer) SetRadioModel(RadioModelType) {
}

func (nv nopVisualizer) OnConnectivityUpdate(LinkTable) {
}

func (nv nopVisualizer) ShowRoute(string, []NodeId) {
}

func (nv nopVisualizer) ShowDodag(NodeId, map[NodeId]NodeId) {
}

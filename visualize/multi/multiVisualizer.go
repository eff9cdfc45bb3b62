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

package visualize_multi

import (
	. "github.com/openthread/ot-lowpan-sim/types"
	"github.com/openthread/ot-lowpan-sim/visualize"
)

type MultiVisualizer struct {
	vs []visualize.Visualizer
}

// NewMultiVisualizer creates a new Visualizer that multiplexes to multiple Visualizers.
func NewMultiVisualizer(vs ...visualize.Visualizer) *MultiVisualizer {
	return &MultiVisualizer{vs: vs}
}

func (mv *MultiVisualizer) AddVisualizer(vs ...visualize.Visualizer) {
	mv.vs = append(mv.vs, vs...)
}

func (mv *MultiVisualizer) Init() {
	for _, v := range mv.vs {
		v.Init()
	}
}

// Run runs the first Visualizer in the calling goroutine and all others in their own.
func (mv *MultiVisualizer) Run() {
	if len(mv.vs) == 0 {
		return
	}
	for i := 1; i < len(mv.vs); i++ {
		go mv.vs[i].Run()
	}
	mv.vs[0].Run()
}

func (mv *MultiVisualizer) Stop() {
	for _, v := range mv.vs {
		v.Stop()
	}
}

func (mv *MultiVisualizer) SetController(ctrl visualize.SimulationController) {
	for _, v := range mv.vs {
		v.SetController(ctrl)
	}
}

func (mv *MultiVisualizer) AddNode(nodeid NodeId, cfg *NodeConfig) {
	for _, v := range mv.vs {
		v.AddNode(nodeid, cfg)
	}
}

func (mv *MultiVisualizer) DeleteNode(nodeid NodeId) {
	for _, v := range mv.vs {
		v.DeleteNode(nodeid)
	}
}

func (mv *MultiVisualizer) SetNodePos(nodeid NodeId, x, y int) {
	for _, v := range mv.vs {
		v.SetNodePos(nodeid, x, y)
	}
}

func (mv *MultiVisualizer) SetNodeRange(nodeid NodeId, radioRange int) {
	for _, v := range mv.vs {
		v.SetNodeRange(nodeid, radioRange)
	}
}

func (mv *MultiVisualizer) SetNodeName(nodeid NodeId, name string) {
	for _, v := range mv.vs {
		v.SetNodeName(nodeid, name)
	}
}

func (mv *MultiVisualizer) SetRadioModel(model RadioModelType) {
	for _, v := range mv.vs {
		v.SetRadioModel(model)
	}
}

func (mv *MultiVisualizer) OnConnectivityUpdate(links LinkTable) {
	for _, v := range mv.vs {
		v.OnConnectivityUpdate(links)
	}
}

func (mv *MultiVisualizer) ShowRoute(kind string, route []NodeId) {
	for _, v := range mv.vs {
		v.ShowRoute(kind, route)
	}
}

func (mv *MultiVisualizer) ShowDodag(root NodeId, parents map[NodeId]NodeId) {
	for _, v := range mv.vs {
		v.ShowDodag(root, parents)
	}
}

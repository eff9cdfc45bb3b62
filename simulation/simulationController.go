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

package simulation

import (
	"github.com/openthread/ot-lowpan-sim/logger"
	. "github.com/openthread/ot-lowpan-sim/types"
	"github.com/openthread/ot-lowpan-sim/visualize"
)

type simulationController struct {
	sim *Simulation
}

func (sc *simulationController) CtrlAddNode(x, y int) error {
	sim := sc.sim
	nodeCfg := sim.cfg.NewNodeConfig()
	nodeCfg.X, nodeCfg.Y = x, y
	nodeCfg.IsAutoPlaced = false

	sim.PostAsync(false, func() {
		logger.Infof("CtrlAddNode: %+v", nodeCfg)
		if _, err := sim.AddNode(&nodeCfg); err != nil {
			logger.Errorf("add node failed: %v", err)
		}
	})
	return nil
}

func (sc *simulationController) CtrlDeleteNode(nodeid NodeId) error {
	sim := sc.sim
	sim.PostAsync(false, func() {
		_ = sim.DeleteNode(nodeid)
	})
	return nil
}

func (sc *simulationController) CtrlMoveNodeTo(nodeid NodeId, x, y int) error {
	sim := sc.sim
	sim.PostAsync(true, func() {
		_ = sim.MoveNodeTo(nodeid, x, y)
	})
	return nil
}

func (sc *simulationController) CtrlSetNodeRange(nodeid NodeId, radioRange int) error {
	sim := sc.sim
	sim.PostAsync(true, func() {
		_ = sim.SetNodeRange(nodeid, radioRange)
	})
	return nil
}

func (sc *simulationController) CtrlSetRadioModel(name string) error {
	modelType, err := ParseRadioModelType(name)
	if err != nil {
		return err
	}
	sim := sc.sim
	sim.PostAsync(false, func() {
		sim.SetRadioModel(modelType)
	})
	return nil
}

type readonlySimulationController struct {
}

func (r readonlySimulationController) CtrlAddNode(x, y int) error {
	return ErrReadOnly
}

func (r readonlySimulationController) CtrlDeleteNode(nodeid NodeId) error {
	return ErrReadOnly
}

func (r readonlySimulationController) CtrlMoveNodeTo(nodeid NodeId, x, y int) error {
	return ErrReadOnly
}

func (r readonlySimulationController) CtrlSetNodeRange(nodeid NodeId, radioRange int) error {
	return ErrReadOnly
}

func (r readonlySimulationController) CtrlSetRadioModel(name string) error {
	return ErrReadOnly
}

func NewSimulationController(sim *Simulation) visualize.SimulationController {
	if !sim.cfg.ReadOnly {
		return &simulationController{sim}
	} else {
		return readonlySimulationController{}
	}
}

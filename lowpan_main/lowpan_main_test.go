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

package lowpan_main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openthread/ot-lowpan-sim/progctx"
	"github.com/openthread/ot-lowpan-sim/simulation"
	"github.com/openthread/ot-lowpan-sim/types"
)

func TestCreateSimulationAndTopology(t *testing.T) {
	args = MainArgs{
		RadioModel:  "real",
		RadioRange:  80,
		FieldWidth:  500,
		FieldHeight: 400,
		Seed:        7,
		Preset:      "linear",
	}
	ctx := progctx.New(context.Background())
	sim := createSimulation(ctx)
	assert.Equal(t, types.RadioModelAsymmetric, sim.GetConfig().RadioModel)
	assert.Equal(t, 80, sim.GetConfig().DefaultRadioRange)
	assert.Equal(t, 500, sim.GetConfig().FieldWidth)

	preset, err := simulation.GetPreset("linear")
	require.Nil(t, err)
	loadInitialTopology(sim)
	assert.Equal(t, len(preset.Nodes), sim.Nodes().Len())

	fn := filepath.Join(t.TempDir(), "net.yaml")
	require.Nil(t, sim.SaveFile(fn))
	args.Preset = ""
	args.ConfigFile = fn
	sim.DeleteAllNodes()
	loadInitialTopology(sim)
	assert.Equal(t, len(preset.Nodes), sim.Nodes().Len())

	go sim.Run()
	<-sim.Started
	snapshot, err := topologySnapshot(sim)()
	require.Nil(t, err)
	assert.Equal(t, len(preset.Nodes), len(snapshot.(simulation.YamlConfigFile).Nodes))

	ctx.Cancel(nil)
	ctx.Wait()
	_, err = topologySnapshot(sim)()
	assert.Equal(t, simulation.ErrSimulationStopped, err)
}

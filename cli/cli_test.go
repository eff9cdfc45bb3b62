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

package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/openthread/ot-lowpan-sim/logger"
	"github.com/openthread/ot-lowpan-sim/progctx"
	"github.com/openthread/ot-lowpan-sim/simulation"
	. "github.com/openthread/ot-lowpan-sim/types"
)

func TestParseBytes(t *testing.T) {
	var cmd Command
	assert.NotNil(t, ParseBytes([]byte("wrongcmd"), &cmd))

	cmd = Command{}
	assert.Nil(t, ParseBytes([]byte("add"), &cmd))
	assert.NotNil(t, cmd.Add)
	cmd = Command{}
	assert.Nil(t, ParseBytes([]byte("add x 100 y 200"), &cmd))
	assert.True(t, *cmd.Add.X == 100 && *cmd.Add.Y == 200)
	cmd = Command{}
	assert.Nil(t, ParseBytes([]byte("add id 100"), &cmd))
	assert.Equal(t, 100, cmd.Add.Id.Val)
	cmd = Command{}
	assert.Nil(t, ParseBytes([]byte("add rr 1234"), &cmd))
	assert.Equal(t, 1234, cmd.Add.RadioRange.Val)
	cmd = Command{}
	assert.Nil(t, ParseBytes([]byte("add name \"my node\" x 1 y 2 id 3 rr 1234"), &cmd))
	assert.Equal(t, "my node", cmd.Add.Name.Val)
	cmd = Command{}
	assert.Nil(t, ParseBytes([]byte("add rr 1234 id 3 y 2 x 1 name gw"), &cmd))
	assert.Equal(t, "gw", cmd.Add.Name.Val)

	assert.True(t, ParseBytes([]byte("clear"), &Command{}) == nil)

	cmd = Command{}
	assert.True(t, ParseBytes([]byte("del 1"), &cmd) == nil && cmd.Del != nil)
	cmd = Command{}
	assert.True(t, ParseBytes([]byte("del 1 2 3"), &cmd) == nil && len(cmd.Del.Nodes) == 3)
	cmd = Command{}
	assert.True(t, ParseBytes([]byte("del 2-5"), &cmd) == nil && cmd.Del.Nodes[0].IdRange == 5)
	cmd = Command{}
	assert.True(t, ParseBytes([]byte("del all"), &cmd) == nil && cmd.Del.Nodes[0].All != nil)
	assert.NotNil(t, ParseBytes([]byte("del"), &Command{}))

	cmd = Command{}
	assert.Nil(t, ParseBytes([]byte("move 1 200 300"), &cmd))
	assert.Equal(t, MoveCmd{Node: 1, X: 200, Y: 300}, *cmd.Move)
	assert.NotNil(t, ParseBytes([]byte("move 1 200"), &Command{}))

	cmd = Command{}
	assert.Nil(t, ParseBytes([]byte("update 4 rr 50 name foo"), &cmd))
	assert.Equal(t, 4, cmd.Update.Node)
	assert.Equal(t, 50, cmd.Update.RadioRange.Val)
	assert.Equal(t, "foo", cmd.Update.Name.Val)
	assert.Nil(t, cmd.Update.X)
	assert.NotNil(t, ParseBytes([]byte("update 4"), &Command{}))

	for _, dir := range []string{"up", "down", "left", "right", "rr+", "rr-"} {
		cmd = Command{}
		assert.Nil(t, ParseBytes([]byte("step 2 "+dir), &cmd), dir)
		assert.Equal(t, dir, cmd.Step.Dir)
		assert.Nil(t, cmd.Step.Count)
	}
	cmd = Command{}
	assert.Nil(t, ParseBytes([]byte("step 2 left 3"), &cmd))
	assert.Equal(t, 3, *cmd.Step.Count)
	assert.NotNil(t, ParseBytes([]byte("step 2 sideways"), &Command{}))

	cmd = Command{}
	assert.True(t, ParseBytes([]byte("nodes"), &cmd) == nil && cmd.Nodes != nil && cmd.Node == nil)
	cmd = Command{}
	assert.True(t, ParseBytes([]byte("node 1"), &cmd) == nil && cmd.Node != nil && cmd.Nodes == nil)
	cmd = Command{}
	assert.True(t, ParseBytes([]byte("neighbors 1"), &cmd) == nil && cmd.Neighbors.Node == 1)
	cmd = Command{}
	assert.True(t, ParseBytes([]byte("nb 2"), &cmd) == nil && cmd.Neighbors.Node == 2)
	assert.True(t, ParseBytes([]byte("links"), &Command{}) == nil)
	assert.True(t, ParseBytes([]byte("stats"), &Command{}) == nil)

	cmd = Command{}
	assert.Nil(t, ParseBytes([]byte("route 1 3"), &cmd))
	assert.Nil(t, cmd.Route.Root)
	cmd = Command{}
	assert.Nil(t, ParseBytes([]byte("route 1 3 via 4"), &cmd))
	assert.Equal(t, 4, *cmd.Route.Root)
	cmd = Command{}
	assert.Nil(t, ParseBytes([]byte("compare 1 3 4"), &cmd))
	assert.Equal(t, CompareCmd{Src: 1, Dst: 3, Root: 4}, *cmd.Compare)
	assert.NotNil(t, ParseBytes([]byte("compare 1 3"), &Command{}))
	cmd = Command{}
	assert.True(t, ParseBytes([]byte("dodag 7"), &cmd) == nil && cmd.Dodag.Root == 7)

	cmd = Command{}
	assert.True(t, ParseBytes([]byte("radiomodel"), &cmd) == nil && cmd.RadioModel.Model == "")
	cmd = Command{}
	assert.True(t, ParseBytes([]byte("radiomodel asym"), &cmd) == nil && cmd.RadioModel.Model == "asym")

	cmd = Command{}
	assert.True(t, ParseBytes([]byte("preset"), &cmd) == nil && cmd.Preset.Name == "")
	cmd = Command{}
	assert.True(t, ParseBytes([]byte("preset linear"), &cmd) == nil && cmd.Preset.Name == "linear")
	cmd = Command{}
	assert.True(t, ParseBytes([]byte("preset middle-earth"), &cmd) == nil && cmd.Preset.Name == "middle-earth")
	cmd = Command{}
	assert.True(t, ParseBytes([]byte("preset \"middle-earth\""), &cmd) == nil && cmd.Preset.Name == "middle-earth")

	cmd = Command{}
	assert.True(t, ParseBytes([]byte("save \"a/b.yaml\""), &cmd) == nil && cmd.Save.File == "a/b.yaml")
	cmd = Command{}
	assert.True(t, ParseBytes([]byte("load \"b.yaml\""), &cmd) == nil && cmd.Load.File == "b.yaml")
	assert.NotNil(t, ParseBytes([]byte("save"), &Command{}))

	cmd = Command{}
	assert.True(t, ParseBytes([]byte("scatter 10"), &cmd) == nil && cmd.Scatter.Count == 10)
	cmd = Command{}
	assert.True(t, ParseBytes([]byte("scatter 10 rr 80"), &cmd) == nil && cmd.Scatter.RadioRange.Val == 80)

	assert.True(t, ParseBytes([]byte("log"), &Command{}) == nil)
	assert.True(t, ParseBytes([]byte("log debug"), &Command{}) == nil)
	assert.NotNil(t, ParseBytes([]byte("log verbose"), &Command{}))
	assert.True(t, ParseBytes([]byte("help"), &Command{}) == nil)
	assert.True(t, ParseBytes([]byte("help route"), &Command{}) == nil)
	assert.True(t, ParseBytes([]byte("exit"), &Command{}) == nil)
}

func TestGetUniqueAndSorted(t *testing.T) {
	s := getUniqueAndSorted([]NodeSelector{{Id: 3}, {Id: 1}, {Id: 3}, {Id: 2, IdRange: 4}, {Id: 2}})
	assert.Equal(t, []NodeSelector{{Id: 1}, {Id: 2, IdRange: 4}, {Id: 3}}, s)

	all := NodeSelector{All: &AllFlag{}}
	assert.Equal(t, []NodeSelector{all}, getUniqueAndSorted([]NodeSelector{{Id: 3}, all}))
}

func TestExpandSelectors(t *testing.T) {
	existing := []NodeId{1, 2, 4, 7}
	assert.Equal(t, []NodeId{2, 9}, expandSelectors([]NodeSelector{{Id: 9}, {Id: 2}}, existing))
	assert.Equal(t, []NodeId{2, 4}, expandSelectors([]NodeSelector{{Id: 2, IdRange: 5}}, existing))
	assert.Equal(t, existing, expandSelectors([]NodeSelector{{All: &AllFlag{}}}, existing))
	assert.Equal(t, []NodeId{}, expandSelectors([]NodeSelector{{Id: 5, IdRange: 6}}, existing))
}

func TestCountAsymmetricLinks(t *testing.T) {
	links := LinkTable{1: {2, 3}, 2: {1}, 3: {}}
	assert.Equal(t, 1, countAsymmetricLinks(links))
	assert.Equal(t, 0, countAsymmetricLinks(LinkTable{}))
}

type testRunner struct {
	t   *testing.T
	ctx *progctx.ProgCtx
	sim *simulation.Simulation
	rt  *CmdRunner
}

func newTestRunner(t *testing.T, cfg *simulation.Config) *testRunner {
	ctx := progctx.New(context.Background())
	sim, err := simulation.NewSimulation(ctx, cfg)
	require.Nil(t, err)
	go sim.Run()
	<-sim.Started
	t.Cleanup(func() {
		ctx.Cancel(nil)
		ctx.Wait()
	})
	return &testRunner{t: t, ctx: ctx, sim: sim, rt: NewCmdRunner(ctx, sim)}
}

// run executes a command and returns its output without the trailing status line.
func (tr *testRunner) run(cmdline string) (string, string) {
	var buf bytes.Buffer
	require.Nil(tr.t, tr.rt.RunCommand(cmdline, &buf))
	out := strings.TrimSuffix(buf.String(), "\n")
	idx := strings.LastIndex(out, "\n")
	return out[:idx+1], out[idx+1:]
}

func (tr *testRunner) mustRun(cmdline string) string {
	out, status := tr.run(cmdline)
	require.Equal(tr.t, "Done", status, "%s: %s", cmdline, out)
	return out
}

func TestRunTopologyCommands(t *testing.T) {
	tr := newTestRunner(t, nil)

	assert.Equal(t, "1\n", tr.mustRun("add x 100 y 100 rr 60"))
	assert.Equal(t, "2\n", tr.mustRun("add x 200 y 100 rr 60"))
	assert.Equal(t, "3\n", tr.mustRun("add x 300 y 100 rr 60"))
	assert.Equal(t, "10\n", tr.mustRun("add x 500 y 500 id 10 name far"))

	out, status := tr.run("add id 10")
	assert.True(t, strings.HasPrefix(status, "Error: "))
	assert.Equal(t, "", out)

	assert.Equal(t, "[1 3]\n", tr.mustRun("nb 2"))
	assert.Equal(t, "[]\n", tr.mustRun("neighbors 10"))
	assert.Equal(t, "1 -> [2]\n2 -> [1 3]\n3 -> [2]\n10 -> []\n", tr.mustRun("links"))

	nodes := tr.mustRun("nodes")
	assert.Equal(t, 4, strings.Count(nodes, "\n"))
	assert.Contains(t, nodes, "id=10\tname=far\tx=500\ty=500\trr=100\tneighbors=0")

	var info nodeInfo
	require.Nil(t, yaml.Unmarshal([]byte(tr.mustRun("node 2")), &info))
	assert.Equal(t, nodeInfo{Id: 2, Name: DefaultNodeName, Position: [2]int{200, 100}, RadioRange: 60,
		Neighbors: []NodeId{1, 3}}, info)
	_, status = tr.run("node 99")
	assert.Contains(t, status, "not found")

	tr.mustRun("move 3 600 100")
	assert.Equal(t, "[1]\n", tr.mustRun("nb 2"))
	tr.mustRun("update 3 x 300 name back")
	assert.Equal(t, "[1 3]\n", tr.mustRun("nb 2"))

	assert.Equal(t, "x=330\ty=100\trr=60\n", tr.mustRun("step 3 right"))
	assert.Equal(t, "x=330\ty=100\trr=70\n", tr.mustRun("step 3 rr+ 2"))

	tr.mustRun("del 10 3")
	assert.Equal(t, "1 -> [2]\n2 -> [1]\n", tr.mustRun("links"))
	_, status = tr.run("del 3")
	assert.True(t, strings.HasPrefix(status, "Error: "))

	tr.mustRun("clear")
	assert.Equal(t, "", tr.mustRun("nodes"))
	assert.Equal(t, "1\n", tr.mustRun("add"))
}

func TestRunRoutingCommands(t *testing.T) {
	tr := newTestRunner(t, nil)

	// 1 - 2 - 3 in a line, 4 hangs off 2
	tr.mustRun("add x 100 y 100 rr 60")
	tr.mustRun("add x 200 y 100 rr 60")
	tr.mustRun("add x 300 y 100 rr 60")
	tr.mustRun("add x 200 y 200 rr 60")
	tr.mustRun("add x 800 y 600 rr 20")

	assert.Equal(t, "1 -> 2 -> 3 (2 hops)\n", tr.mustRun("route 1 3"))
	assert.Equal(t, "1 -> 2 -> 4 -> 2 -> 3 (4 hops)\n", tr.mustRun("route 1 3 via 4"))
	assert.Equal(t, "unreachable\n", tr.mustRun("route 1 5"))
	assert.Equal(t, "ideal: 1 -> 2 -> 3 (2 hops)\nrpl:   1 -> 2 -> 4 -> 2 -> 3 (4 hops)\nstretch: 2\n",
		tr.mustRun("compare 1 3 4"))
	assert.Equal(t, "ideal: unreachable\nrpl:   unreachable\n", tr.mustRun("compare 1 5 2"))

	_, status := tr.run("route 1 9")
	assert.Contains(t, status, "not found")

	dodag := tr.mustRun("dodag 2")
	assert.True(t, strings.HasPrefix(dodag, "Node 2\n"))
	assert.Contains(t, dodag, "reached 4 of 5 nodes, max depth 1")
}

func TestRunSettingsCommands(t *testing.T) {
	tr := newTestRunner(t, nil)

	assert.Equal(t, "symmetric\n", tr.mustRun("radiomodel"))
	assert.Equal(t, "asymmetric\n", tr.mustRun("radiomodel real"))
	assert.Equal(t, "asymmetric\n", tr.mustRun("radiomodel"))
	_, status := tr.run("radiomodel bogus")
	assert.Contains(t, status, "not defined")

	// node 1 reaches node 2 but not vice versa
	tr.mustRun("add x 100 y 100 rr 150")
	tr.mustRun("add x 200 y 100 rr 50")
	var stats statsInfo
	require.Nil(t, yaml.Unmarshal([]byte(tr.mustRun("stats")), &stats))
	assert.Equal(t, statsInfo{RadioModel: "asymmetric", Nodes: 2, Links: 1, Asymmetric: 1, LastAdded: 1}, stats)

	presets := tr.mustRun("preset")
	assert.Equal(t, strings.Join(simulation.PresetNames(), "\n")+"\n", presets)
	tr.mustRun("preset middle-earth")
	preset, err := simulation.GetPreset("middle-earth")
	require.Nil(t, err)
	assert.Equal(t, len(preset.Nodes), strings.Count(tr.mustRun("nodes"), "\n"))
	_, status = tr.run("preset nowhere")
	assert.True(t, strings.HasPrefix(status, "Error: "))

	level := logger.GetLevel()
	defer logger.SetLevel(level)
	tr.mustRun("log warn")
	assert.Equal(t, "warn\n", tr.mustRun("log"))

	assert.Contains(t, tr.mustRun("help"), "route")
	assert.Contains(t, tr.mustRun("help route"), "route <src> <dst> [via <root>]")
	assert.Contains(t, tr.mustRun("help nosuchcmd"), "Non-existent command")
	assert.True(t, strings.HasPrefix(tr.mustRun("help nb"), "neighbors\n"))
	assert.Contains(t, tr.rt.CommandNames(), "scatter")
}

func TestRunFileCommands(t *testing.T) {
	tr := newTestRunner(t, nil)
	fn := filepath.Join(t.TempDir(), "net.yaml")

	tr.mustRun("add x 100 y 100 name a")
	tr.mustRun("add x 150 y 100 rr 70")
	tr.mustRun("save \"" + fn + "\"")
	_, err := os.Stat(fn)
	require.Nil(t, err)

	nodes := tr.mustRun("nodes")
	tr.mustRun("clear")
	tr.mustRun("load \"" + fn + "\"")
	assert.Equal(t, nodes, tr.mustRun("nodes"))

	_, status := tr.run("load \"" + filepath.Join(t.TempDir(), "missing.yaml") + "\"")
	assert.True(t, strings.HasPrefix(status, "Error: "))

	tr.mustRun("clear")
	assert.Equal(t, "[1 2 3]\n", tr.mustRun("scatter 3 rr 80"))
	assert.Equal(t, 3, strings.Count(tr.mustRun("nodes"), "rr=80"))
}

func TestReadOnlyRunner(t *testing.T) {
	cfg := simulation.DefaultConfig()
	cfg.ReadOnly = true
	tr := newTestRunner(t, cfg)

	for _, cmd := range []string{"add", "clear", "del 1", "move 1 1 1", "update 1 rr 5", "step 1 up",
		"load \"x.yaml\"", "scatter 2", "preset linear", "radiomodel asym"} {
		_, status := tr.run(cmd)
		assert.Equal(t, "Error: "+simulation.ErrReadOnly.Error(), status, cmd)
	}
	assert.Equal(t, "", tr.mustRun("nodes"))
	assert.Equal(t, "symmetric\n", tr.mustRun("radiomodel"))
	assert.NotEqual(t, "", tr.mustRun("preset"))
}

func TestExitCommand(t *testing.T) {
	tr := newTestRunner(t, nil)
	var buf bytes.Buffer
	_ = tr.rt.RunCommand("exit", &buf)
	tr.ctx.Wait()
	assert.True(t, tr.sim.IsStopped())
	assert.NotNil(t, tr.rt.RunCommand("nodes", &buf))
}

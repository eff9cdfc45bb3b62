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
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/openthread/ot-lowpan-sim/logger"
	"github.com/openthread/ot-lowpan-sim/mesh"
	"github.com/openthread/ot-lowpan-sim/progctx"
	"github.com/openthread/ot-lowpan-sim/routing"
	"github.com/openthread/ot-lowpan-sim/simulation"
	. "github.com/openthread/ot-lowpan-sim/types"
)

const (
	Prompt = "> "
)

type CommandContext struct {
	context.Context
	*Command
	rt     *CmdRunner
	err    error
	output io.Writer
}

func (cc *CommandContext) outputStr(msg string) {
	_, _ = fmt.Fprint(cc.output, msg)
}

func (cc *CommandContext) outputf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(cc.output, format, args...)
}

func (cc *CommandContext) errorf(format string, args ...interface{}) {
	cc.error(errors.Errorf(format, args...))
}

func (cc *CommandContext) error(err error) {
	if err != nil {
		if cc.err != nil { // if previous error, print it now and keep the last.
			cc.outputf("Error: %s\n", cc.err)
		}
		cc.err = err
	}
}

// Err returns the last error that occurred during command execution.
func (cc *CommandContext) Err() error {
	return cc.err
}

func (cc *CommandContext) outputItemsAsYaml(items interface{}) {
	var itemsYaml yaml.Node

	err := itemsYaml.Encode(items)
	logger.PanicIfError(err)

	for _, content := range itemsYaml.Content {
		content.Style = yaml.FlowStyle
	}

	data, err := yaml.Marshal(&itemsYaml)
	logger.PanicIfError(err)

	_, err = cc.output.Write(data)
	logger.PanicIfError(err)
}

type CmdRunner struct {
	sim  *simulation.Simulation
	ctx  *progctx.ProgCtx
	help Help
}

func NewCmdRunner(ctx *progctx.ProgCtx, sim *simulation.Simulation) *CmdRunner {
	return &CmdRunner{
		ctx:  ctx,
		sim:  sim,
		help: newHelp(),
	}
}

// RunCommand parses and executes a single CLI command line, writing all output to output.
func (rt *CmdRunner) RunCommand(cmdline string, output io.Writer) error {
	if rt.ctx.Err() == nil {
		cmd := Command{}

		if err := ParseBytes([]byte(cmdline), &cmd); err != nil {
			if _, err := fmt.Fprintf(output, "Error: %v\n", err); err != nil {
				return err
			}
		} else {
			rt.execute(&cmd, output)
		}
	}
	return rt.ctx.Err()
}

func (rt *CmdRunner) HandleCommand(cmdline string, output io.Writer) error {
	return rt.RunCommand(cmdline, output)
}

func (rt *CmdRunner) GetPrompt() string {
	return Prompt
}

func (rt *CmdRunner) execute(cmd *Command, output io.Writer) {
	cc := &CommandContext{
		Context: rt.ctx,
		Command: cmd,
		rt:      rt,
		output:  output,
	}

	defer func() {
		if cc.Err() != nil {
			cc.outputf("Error: %v\n", cc.Err())
		} else {
			cc.outputf("Done\n")
		}
	}()

	defer func() {
		rerr := recover()

		if rerr != nil {
			if err, ok := rerr.(error); ok {
				cc.err = errors.Wrapf(err, "panic: %v", err)
			} else {
				cc.err = errors.Errorf("panic: %v", rerr)
			}
		}
	}()

	if rt.sim.GetConfig().ReadOnly && isMutatingCommand(cmd) {
		cc.error(simulation.ErrReadOnly)
		return
	}

	if cmd.Add != nil {
		rt.executeAddNode(cc, cmd.Add)
	} else if cmd.Clear != nil {
		rt.executeClear(cc)
	} else if cmd.Compare != nil {
		rt.executeCompare(cc, cmd.Compare)
	} else if cmd.Del != nil {
		rt.executeDelNode(cc, cmd.Del)
	} else if cmd.Dodag != nil {
		rt.executeDodag(cc, cmd.Dodag)
	} else if cmd.Exit != nil {
		rt.executeExit(cc, cmd.Exit)
	} else if cmd.Help != nil {
		rt.executeHelp(cc, cmd.Help)
	} else if cmd.Links != nil {
		rt.executeLinks(cc)
	} else if cmd.Load != nil {
		rt.executeLoad(cc, cmd.Load)
	} else if cmd.LogLevel != nil {
		rt.executeLogLevel(cc, cmd.LogLevel)
	} else if cmd.Move != nil {
		rt.executeMoveNode(cc, cmd.Move)
	} else if cmd.Neighbors != nil {
		rt.executeNeighbors(cc, cmd.Neighbors)
	} else if cmd.Node != nil {
		rt.executeNode(cc, cmd.Node)
	} else if cmd.Nodes != nil {
		rt.executeLsNodes(cc)
	} else if cmd.Preset != nil {
		rt.executePreset(cc, cmd.Preset)
	} else if cmd.RadioModel != nil {
		rt.executeRadioModel(cc, cmd.RadioModel)
	} else if cmd.Route != nil {
		rt.executeRoute(cc, cmd.Route)
	} else if cmd.Save != nil {
		rt.executeSave(cc, cmd.Save)
	} else if cmd.Scatter != nil {
		rt.executeScatter(cc, cmd.Scatter)
	} else if cmd.Stats != nil {
		rt.executeStats(cc)
	} else if cmd.Step != nil {
		rt.executeStep(cc, cmd.Step)
	} else if cmd.Update != nil {
		rt.executeUpdate(cc, cmd.Update)
	} else {
		logger.Panicf("unimplemented command: %#v", cmd)
	}
}

func (rt *CmdRunner) postAsyncWait(cc *CommandContext, f func(sim *simulation.Simulation)) {
	done := make(chan struct{})
	if rt.sim.PostAsync(false, func() {
		defer close(done) // even if f() fails execution, 'done' should be closed.
		f(rt.sim)         // executing task (later) may set cc.err status if error occurs.
	}) {
		select {
		case <-done:
		case <-rt.ctx.Done():
			cc.error(simulation.ErrSimulationStopped)
		}
	} else {
		cc.error(simulation.ErrSimulationStopped) // report cc error if not accepted.
	}
}

func (rt *CmdRunner) executeAddNode(cc *CommandContext, cmd *AddCmd) {
	cfg := rt.sim.GetConfig().NewNodeConfig()
	if cmd.Name != nil {
		cfg.Name = cmd.Name.Val
	}
	if cmd.X != nil {
		cfg.X = *cmd.X
		cfg.IsAutoPlaced = false
	}
	if cmd.Y != nil {
		cfg.Y = *cmd.Y
		cfg.IsAutoPlaced = false
	}
	if cmd.Id != nil {
		cfg.ID = cmd.Id.Val
	}
	if cmd.RadioRange != nil {
		cfg.RadioRange = cmd.RadioRange.Val
	}

	var node *mesh.Node
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		var err error
		node, err = sim.AddNode(&cfg)
		cc.error(err)
	})
	if node != nil {
		cc.outputf("%d\n", node.Id)
	}
}

func (rt *CmdRunner) executeClear(cc *CommandContext) {
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		sim.DeleteAllNodes()
	})
}

func (rt *CmdRunner) executeDelNode(cc *CommandContext, cmd *DelCmd) {
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		for _, id := range expandSelectors(cmd.Nodes, sim.GetNodes()) {
			cc.error(sim.DeleteNode(id))
		}
	})
}

func (rt *CmdRunner) executeMoveNode(cc *CommandContext, cmd *MoveCmd) {
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		cc.error(sim.MoveNodeTo(cmd.Node, cmd.X, cmd.Y))
	})
}

func (rt *CmdRunner) executeUpdate(cc *CommandContext, cmd *UpdateCmd) {
	var name *string
	var rr *int
	if cmd.Name != nil {
		name = &cmd.Name.Val
	}
	if cmd.RadioRange != nil {
		rr = &cmd.RadioRange.Val
	}
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		cc.error(sim.UpdateNode(cmd.Node, name, cmd.X, cmd.Y, rr))
	})
}

func (rt *CmdRunner) executeStep(cc *CommandContext, cmd *StepCmd) {
	count := 1
	if cmd.Count != nil {
		count = *cmd.Count
	}
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		for i := 0; i < count && cc.Err() == nil; i++ {
			cc.error(sim.StepNode(cmd.Node, StepDirection(cmd.Dir)))
		}
		if node := sim.GetNode(cmd.Node); node != nil {
			cc.outputf("x=%d\ty=%d\trr=%d\n", node.Pos.X, node.Pos.Y, node.RadioRange)
		}
	})
}

func (rt *CmdRunner) executeLsNodes(cc *CommandContext) {
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		sim.Nodes().VisitNodesInOrder(func(node *mesh.Node) {
			cc.outputf("id=%d\tname=%s\tx=%d\ty=%d\trr=%d\tneighbors=%d\n", node.Id, node.Name,
				node.Pos.X, node.Pos.Y, node.RadioRange, node.NumNeighbors())
		})
	})
}

type nodeInfo struct {
	Id         NodeId   `yaml:"id"`
	Name       string   `yaml:"name"`
	Position   [2]int   `yaml:"pos,flow"`
	RadioRange int      `yaml:"rr"`
	Neighbors  []NodeId `yaml:"neighbors,flow"`
}

func (rt *CmdRunner) executeNode(cc *CommandContext, cmd *NodeCmd) {
	var info *nodeInfo
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		node := sim.GetNode(cmd.Node)
		if node == nil {
			cc.error(errors.Wrapf(mesh.ErrNodeNotFound, "node %d", cmd.Node))
			return
		}
		info = &nodeInfo{
			Id:         node.Id,
			Name:       node.Name,
			Position:   [2]int{node.Pos.X, node.Pos.Y},
			RadioRange: node.RadioRange,
			Neighbors:  node.Neighbors(),
		}
	})
	if info != nil {
		cc.outputItemsAsYaml(info)
	}
}

func (rt *CmdRunner) executeNeighbors(cc *CommandContext, cmd *NeighborsCmd) {
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		nbs, err := sim.Neighbors(cmd.Node)
		if err != nil {
			cc.error(err)
			return
		}
		cc.outputf("%s\n", formatIds(nbs))
	})
}

func (rt *CmdRunner) executeLinks(cc *CommandContext) {
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		links := sim.Links()
		for _, id := range sim.GetNodes() {
			cc.outputf("%d -> %s\n", id, formatIds(links[id]))
		}
	})
}

type statsInfo struct {
	RadioModel  string `yaml:"radiomodel"`
	Nodes       int    `yaml:"nodes"`
	Links       int    `yaml:"links"`
	Asymmetric  int    `yaml:"asym-links"`
	LastAdded   int    `yaml:"last-added"`
	LastRemoved int    `yaml:"last-removed"`
}

func (rt *CmdRunner) executeStats(cc *CommandContext) {
	var info statsInfo
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		links := sim.Links()
		last := sim.LastConnectivityStats()
		info = statsInfo{
			RadioModel:  sim.GetRadioModel().GetName(),
			Nodes:       sim.Nodes().Len(),
			Links:       links.NumLinks(),
			Asymmetric:  countAsymmetricLinks(links),
			LastAdded:   last.LinksAdded,
			LastRemoved: last.LinksRemoved,
		}
	})
	if cc.Err() == nil {
		cc.outputItemsAsYaml(info)
	}
}

func (rt *CmdRunner) executeRoute(cc *CommandContext, cmd *RouteCmd) {
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		var route routing.Route
		var ok bool
		var err error
		if cmd.Root != nil {
			route, ok, err = sim.RouteRpl(cmd.Src, cmd.Dst, *cmd.Root)
		} else {
			route, ok, err = sim.RouteIdeal(cmd.Src, cmd.Dst)
		}
		if err != nil {
			cc.error(err)
			return
		}
		cc.outputf("%s\n", formatRoute(route, ok))
	})
}

func (rt *CmdRunner) executeCompare(cc *CommandContext, cmd *CompareCmd) {
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		ideal, idealOk, err := sim.RouteIdeal(cmd.Src, cmd.Dst)
		if err != nil {
			cc.error(err)
			return
		}
		rpl, rplOk, err := sim.RouteRpl(cmd.Src, cmd.Dst, cmd.Root)
		if err != nil {
			cc.error(err)
			return
		}
		cc.outputf("ideal: %s\n", formatRoute(ideal, idealOk))
		cc.outputf("rpl:   %s\n", formatRoute(rpl, rplOk))
		if idealOk && rplOk {
			cc.outputf("stretch: %d\n", rpl.HopCount()-ideal.HopCount())
		}
	})
}

func (rt *CmdRunner) executeDodag(cc *CommandContext, cmd *DodagCmd) {
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		tree, err := sim.DodagTree(cmd.Root)
		if err != nil {
			cc.error(err)
			return
		}
		cc.outputStr(tree.String())
		cc.outputf("reached %d of %d nodes, max depth %d\n", tree.Len(), sim.Nodes().Len(), tree.MaxDepth())
	})
}

func (rt *CmdRunner) executeRadioModel(cc *CommandContext, cmd *RadioModelCmd) {
	if len(cmd.Model) == 0 {
		var name string
		rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
			name = sim.GetRadioModel().GetName()
		})
		cc.outputf("%v\n", name)
		return
	}

	modelType, err := ParseRadioModelType(cmd.Model)
	if err != nil {
		cc.errorf("radiomodel '%v' is not defined", cmd.Model)
		return
	}
	var name string
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		sim.SetRadioModel(modelType)
		name = sim.GetRadioModel().GetName()
	})
	cc.outputf("%v\n", name)
}

func (rt *CmdRunner) executePreset(cc *CommandContext, cmd *PresetCmd) {
	if len(cmd.Name) == 0 {
		for _, name := range simulation.PresetNames() {
			cc.outputf("%s\n", name)
		}
		return
	}
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		cc.error(sim.LoadPreset(cmd.Name))
	})
}

func (rt *CmdRunner) executeSave(cc *CommandContext, cmd *SaveCmd) {
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		cc.error(sim.SaveFile(cmd.File))
	})
}

func (rt *CmdRunner) executeLoad(cc *CommandContext, cmd *LoadCmd) {
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		cc.error(sim.LoadFile(cmd.File))
	})
}

func (rt *CmdRunner) executeScatter(cc *CommandContext, cmd *ScatterCmd) {
	rr := 0
	if cmd.RadioRange != nil {
		rr = cmd.RadioRange.Val
	}
	rt.postAsyncWait(cc, func(sim *simulation.Simulation) {
		added, err := sim.Scatter(cmd.Count, rr)
		cc.error(err)
		if len(added) > 0 {
			cc.outputf("%s\n", formatIds(added))
		}
	})
}

func (rt *CmdRunner) executeLogLevel(cc *CommandContext, cmd *LogLevelCmd) {
	if cmd.Level == "" {
		cc.outputf("%v\n", logger.GetLevelString(logger.GetLevel()))
		return
	}
	level, err := logger.ParseLevelString(cmd.Level)
	if err != nil {
		cc.error(err)
		return
	}
	logger.SetLevel(level)
}

func (rt *CmdRunner) executeExit(cc *CommandContext, cmd *ExitCmd) {
	// Stop cancels the program context, so the task is not waited for.
	if !rt.sim.PostAsync(false, rt.sim.Stop) {
		cc.error(simulation.ErrSimulationStopped)
	}
}

func (rt *CmdRunner) executeHelp(cc *CommandContext, cmd *HelpCmd) {
	if len(cmd.HelpTopic) > 0 {
		cc.outputStr(rt.help.outputCommandHelp(cmd.HelpTopic))
	} else {
		cc.outputStr(rt.help.outputGeneralHelp())
	}
}

func formatRoute(route routing.Route, ok bool) string {
	if !ok {
		return "unreachable"
	}
	return fmt.Sprintf("%s (%d hops)", route.String(), route.HopCount())
}

func formatIds(ids []NodeId) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// CommandNames returns the names of all documented commands, for tab completion.
func (rt *CmdRunner) CommandNames() []string {
	return rt.help.commandNames()
}

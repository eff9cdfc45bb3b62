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

// Package lowpan_main parses the command line and wires the simulation, CLI, visualizers and
// HTTP endpoints together.
package lowpan_main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/openthread/ot-lowpan-sim/cli"
	"github.com/openthread/ot-lowpan-sim/logger"
	"github.com/openthread/ot-lowpan-sim/metrics"
	"github.com/openthread/ot-lowpan-sim/prng"
	"github.com/openthread/ot-lowpan-sim/progctx"
	"github.com/openthread/ot-lowpan-sim/simulation"
	"github.com/openthread/ot-lowpan-sim/types"
	"github.com/openthread/ot-lowpan-sim/visualize"
	visualizeMulti "github.com/openthread/ot-lowpan-sim/visualize/multi"
	visualizeStatslog "github.com/openthread/ot-lowpan-sim/visualize/statslog"
	webSite "github.com/openthread/ot-lowpan-sim/web/site"
)

type MainArgs struct {
	LogLevel    string
	LogFile     string
	RadioModel  string
	RadioRange  int
	FieldWidth  int
	FieldHeight int
	Seed        int64
	ReadOnly    bool
	Preset      string
	ConfigFile  string
	ListenAddr  string
	StatsDir    string
	HistoryFile string
}

var (
	args MainArgs
)

func parseArgs() {
	flag.StringVar(&args.LogLevel, "log", "warn", "set logging level: trace, debug, info, note, warn, error, off.")
	flag.StringVar(&args.LogFile, "logfile", "", "also write the log to this file")
	flag.StringVar(&args.RadioModel, "radiomodel", "symmetric", "set the radio model: symmetric or asymmetric.")
	flag.IntVar(&args.RadioRange, "rr", types.DefaultRadioRange, "set the radio range of new nodes")
	flag.IntVar(&args.FieldWidth, "width", types.DefaultFieldWidth, "set the field width")
	flag.IntVar(&args.FieldHeight, "height", types.DefaultFieldHeight, "set the field height")
	flag.Int64Var(&args.Seed, "seed", 0, "set the random seed for scattered nodes (0 picks a time based seed)")
	flag.BoolVar(&args.ReadOnly, "readonly", false, "readonly simulation can not be manipulated")
	flag.StringVar(&args.Preset, "preset", "", "load a built-in topology at startup")
	flag.StringVar(&args.ConfigFile, "config", "", "load a YAML topology file at startup")
	flag.StringVar(&args.ListenAddr, "listen", "", "serve /metrics and /topology on this address, e.g. localhost:9100")
	flag.StringVar(&args.StatsDir, "stats", "", "write a CSV log of connectivity stats into this directory")
	flag.StringVar(&args.HistoryFile, "history", "", "keep the CLI command history in this file")

	flag.Parse()
}

func Main(ctx *progctx.ProgCtx, cliOptions *cli.CliOptions) {
	parseArgs()
	level, err := logger.ParseLevelString(args.LogLevel)
	logger.FatalIfError(err)
	logger.SetLevel(level)
	if args.LogFile != "" {
		logger.FatalIfError(logger.SetOutput([]string{"stderr", args.LogFile}))
	}

	prng.Init(args.Seed)
	logger.Debugf("random seed: %d", prng.RootSeed())

	handleSignals(ctx)

	sim := createSimulation(ctx)
	collector, err := metrics.NewCollector(prometheus.NewRegistry())
	logger.FatalIfError(err)
	sim.SetMetrics(collector)

	vis := visualizeMulti.NewMultiVisualizer(visualize.NewNopVisualizer())
	if args.StatsDir != "" {
		vis.AddVisualizer(visualizeStatslog.NewStatslogVisualizer(args.StatsDir, sim.GetConfig().Id))
	}
	vis.Init()
	sim.SetVisualizer(vis)

	loadInitialTopology(sim)

	if args.ListenAddr != "" {
		serveWeb(ctx, sim, collector)
	}

	if cliOptions == nil {
		cliOptions = cli.DefaultCliOptions()
	}
	if cliOptions.HistoryFile == "" {
		cliOptions.HistoryFile = args.HistoryFile
	}
	logger.SetStdoutCallback(cli.Cli)

	// closing stdin ends a readline call that is still blocking on exit
	ctx.Defer(func() {
		_ = os.Stdin.Close()
	})

	rt := cli.NewCmdRunner(ctx, sim)
	go sim.Run()
	go func() {
		err := cli.Cli.Run(rt, cliOptions)
		ctx.Cancel(errors.Wrapf(err, "console exit"))
	}()

	vis.Run() // visualize must run in the main thread

	logger.Debugf("waiting for simulation to stop gracefully ...")
	ctx.Wait()
}

func handleSignals(ctx *progctx.ProgCtx) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT, syscall.SIGHUP)

	ctx.WaitAdd("handleSignals", 1)
	go func() {
		defer logger.Debugf("handleSignals exit.")
		defer ctx.WaitDone("handleSignals")

		for {
			select {
			case sig := <-c:
				logger.Infof("signal received: %v", sig)
				ctx.Cancel(nil)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func createSimulation(ctx *progctx.ProgCtx) *simulation.Simulation {
	simcfg := simulation.DefaultConfig()

	modelType, err := types.ParseRadioModelType(args.RadioModel)
	logger.FatalIfError(err)
	simcfg.RadioModel = modelType
	simcfg.DefaultRadioRange = args.RadioRange
	simcfg.FieldWidth = args.FieldWidth
	simcfg.FieldHeight = args.FieldHeight
	simcfg.ReadOnly = args.ReadOnly
	simcfg.RandomSeed = prng.RootSeed()

	sim, err := simulation.NewSimulation(ctx, simcfg)
	logger.FatalIfError(err)
	return sim
}

// loadInitialTopology runs before the simulation goroutine starts, so it may call the simulation directly.
func loadInitialTopology(sim *simulation.Simulation) {
	if args.Preset != "" {
		if err := sim.LoadPreset(args.Preset); err != nil {
			logger.Errorf("load preset %s failed: %v", args.Preset, err)
		}
	}
	if args.ConfigFile != "" {
		if err := sim.LoadFile(args.ConfigFile); err != nil {
			logger.Errorf("load config %s failed: %v", args.ConfigFile, err)
		}
	}
}

func serveWeb(ctx *progctx.ProgCtx, sim *simulation.Simulation, collector *metrics.Collector) {
	server := webSite.NewServer(collector.Handler(), topologySnapshot(sim))
	ctx.Defer(server.StopServe)

	ctx.WaitAdd("webserver", 1)
	go func() {
		defer ctx.WaitDone("webserver")
		err := server.Serve(args.ListenAddr) // blocks until server.StopServe() called
		if err != nil && ctx.Err() == nil {
			logger.Errorf("webserver stopped unexpectedly: %+v, metrics won't be available!", err)
		}
	}()
}

func topologySnapshot(sim *simulation.Simulation) webSite.TopologyFunc {
	return func() (interface{}, error) {
		var cfg simulation.YamlConfigFile
		done := make(chan struct{})
		if !sim.PostAsync(false, func() {
			defer close(done)
			cfg = sim.ExportConfig()
		}) {
			return nil, simulation.ErrSimulationStopped
		}
		select {
		case <-done:
			return cfg, nil
		case <-sim.Context().Done():
			return nil, simulation.ErrSimulationStopped
		}
	}
}

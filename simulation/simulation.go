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
	"github.com/pkg/errors"

	"github.com/openthread/ot-lowpan-sim/idalloc"
	"github.com/openthread/ot-lowpan-sim/logger"
	"github.com/openthread/ot-lowpan-sim/mesh"
	"github.com/openthread/ot-lowpan-sim/metrics"
	"github.com/openthread/ot-lowpan-sim/prng"
	"github.com/openthread/ot-lowpan-sim/progctx"
	"github.com/openthread/ot-lowpan-sim/radiomodel"
	"github.com/openthread/ot-lowpan-sim/routing"
	. "github.com/openthread/ot-lowpan-sim/types"
	"github.com/openthread/ot-lowpan-sim/visualize"
)

// Simulation owns the mesh. All methods except PostAsync must be called from a single goroutine:
// the one executing Run, or the caller's own goroutine if Run is not used. Every mutation of the
// mesh is followed by a full connectivity pass before the method returns.
type Simulation struct {
	Started    chan struct{}
	ctx        *progctx.ProgCtx
	cfg        *Config
	stopped    bool
	nodes      *mesh.NodeSet
	radioModel radiomodel.RadioModel
	ids        *idalloc.Allocator
	vis        visualize.Visualizer
	metrics    *metrics.Collector
	nodePlacer *NodeAutoPlacer
	taskChan   chan func()
	lastStats  mesh.ConnectivityStats
}

func NewSimulation(ctx *progctx.ProgCtx, cfg *Config) (*Simulation, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Simulation{
		Started:    make(chan struct{}),
		ctx:        ctx,
		cfg:        cfg,
		nodes:      mesh.NewNodeSet(),
		radioModel: radiomodel.NewRadioModel(cfg.RadioModel),
		ids:        idalloc.NewAllocator(),
		vis:        visualize.NewNopVisualizer(),
		nodePlacer: NewNodeAutoPlacer(cfg.FieldWidth, cfg.FieldHeight),
		taskChan:   make(chan func(), 100),
	}
	if cfg.RandomSeed != 0 {
		prng.Init(cfg.RandomSeed)
	}
	return s, nil
}

// Run executes posted tasks until the program context is done.
func (s *Simulation) Run() {
	s.ctx.WaitAdd("simulation", 1)
	defer s.ctx.WaitDone("simulation")
	defer logger.Debugf("simulation exit.")
	defer s.Stop()

	close(s.Started)
	done := s.ctx.Done()
	for {
		select {
		case f := <-s.taskChan:
			s.handleTask(f)
		case <-done:
			return
		}
	}
}

func (s *Simulation) handleTask(f func()) {
	defer func() {
		if err := recover(); err != nil {
			logger.Errorf("simulation handle task failed: %+v", err)
		}
	}()
	f()
}

// PostAsync posts a task to be executed by the simulation goroutine. A trivial task is dropped
// if the task queue is full. It returns false if the task was not accepted.
func (s *Simulation) PostAsync(trivial bool, task func()) bool {
	if trivial {
		select {
		case s.taskChan <- task:
			return true
		default:
			return false
		}
	}
	select {
	case s.taskChan <- task:
		return true
	case <-s.ctx.Done():
		return false
	}
}

func (s *Simulation) Stop() {
	if s.stopped {
		return
	}
	logger.Infof("stopping simulation ...")
	s.stopped = true
	s.vis.Stop()
	s.ctx.Cancel("simulation-stop")
}

func (s *Simulation) IsStopped() bool {
	return s.stopped
}

func (s *Simulation) Context() *progctx.ProgCtx {
	return s.ctx
}

func (s *Simulation) GetConfig() *Config {
	return s.cfg
}

func (s *Simulation) SetVisualizer(vis visualize.Visualizer) {
	logger.AssertNotNil(vis)
	s.vis = vis
	vis.SetController(NewSimulationController(s))
	vis.SetRadioModel(s.radioModel.GetType())
}

func (s *Simulation) GetVisualizer() visualize.Visualizer {
	return s.vis
}

// SetMetrics sets the metrics collector. A nil collector disables metrics.
func (s *Simulation) SetMetrics(c *metrics.Collector) {
	s.metrics = c
}

// AddNode adds a node and runs a connectivity pass. A cfg.ID <= 0 selects the lowest free id.
// Auto-placed nodes get their position from the NodeAutoPlacer; all positions are clamped into the field.
func (s *Simulation) AddNode(cfg *NodeConfig) (*mesh.Node, error) {
	nodeid := cfg.ID
	if nodeid <= 0 {
		var err error
		if nodeid, err = s.ids.Next(); err != nil {
			return nil, err
		}
	} else if !s.ids.Claim(nodeid) {
		return nil, errors.Wrapf(mesh.ErrNodeExists, "node %d", nodeid)
	}

	if cfg.IsAutoPlaced {
		cfg.X, cfg.Y = s.nodePlacer.NextNodePosition()
	} else {
		s.nodePlacer.UpdateReference(cfg.X, cfg.Y)
	}
	cfg.X, cfg.Y = s.clampPosition(cfg.X, cfg.Y)
	if cfg.Name == "" {
		cfg.Name = s.cfg.DefaultNodeName
	}
	cfg.ID = nodeid

	node := mesh.NewNode(nodeid, cfg)
	if err := s.nodes.Add(node); err != nil {
		s.ids.Retire(nodeid)
		s.nodePlacer.ReuseNextNodePosition()
		return nil, err
	}
	cfg.RadioRange = node.RadioRange
	logger.Debugf("simulation:AddNode: %+v", *cfg)

	s.vis.AddNode(nodeid, cfg)
	s.updateConnectivity()
	return node, nil
}

// DeleteNode removes a node, purges it from all neighbor sets and retires its id.
func (s *Simulation) DeleteNode(nodeid NodeId) error {
	if _, err := s.nodes.Remove(nodeid); err != nil {
		return err
	}
	s.ids.Retire(nodeid)
	s.vis.DeleteNode(nodeid)
	s.updateConnectivity()
	return nil
}

// DeleteAllNodes removes all nodes and resets id allocation and auto-placement.
func (s *Simulation) DeleteAllNodes() {
	for _, nodeid := range s.nodes.Ids() {
		s.vis.DeleteNode(nodeid)
	}
	s.nodes.Clear()
	s.ids.Reset()
	s.nodePlacer.Reset()
	s.updateConnectivity()
}

func (s *Simulation) MoveNodeTo(nodeid NodeId, x, y int) error {
	node, err := s.getNode(nodeid)
	if err != nil {
		return err
	}
	x, y = s.clampPosition(x, y)
	node.SetNodePos(x, y)
	s.nodePlacer.UpdateReference(x, y)
	s.vis.SetNodePos(nodeid, x, y)
	s.updateConnectivity()
	return nil
}

// SetNodeRange sets the radio range of a node. A negative range is clamped to MinRadioRange.
func (s *Simulation) SetNodeRange(nodeid NodeId, radioRange int) error {
	node, err := s.getNode(nodeid)
	if err != nil {
		return err
	}
	node.SetRadioRange(radioRange)
	s.vis.SetNodeRange(nodeid, node.RadioRange)
	s.updateConnectivity()
	return nil
}

func (s *Simulation) SetNodeName(nodeid NodeId, name string) error {
	node, err := s.getNode(nodeid)
	if err != nil {
		return err
	}
	node.Name = name
	s.vis.SetNodeName(nodeid, name)
	s.updateConnectivity()
	return nil
}

// UpdateNode applies all given fields to a node and then runs a single connectivity pass. Nil
// fields are left unchanged.
func (s *Simulation) UpdateNode(nodeid NodeId, name *string, x, y, radioRange *int) error {
	node, err := s.getNode(nodeid)
	if err != nil {
		return err
	}
	if name != nil {
		node.Name = *name
		s.vis.SetNodeName(nodeid, *name)
	}
	if x != nil || y != nil {
		nx, ny := node.Pos.X, node.Pos.Y
		if x != nil {
			nx = *x
		}
		if y != nil {
			ny = *y
		}
		nx, ny = s.clampPosition(nx, ny)
		node.SetNodePos(nx, ny)
		s.vis.SetNodePos(nodeid, nx, ny)
	}
	if radioRange != nil {
		node.SetRadioRange(*radioRange)
		s.vis.SetNodeRange(nodeid, node.RadioRange)
	}
	s.updateConnectivity()
	return nil
}

// StepNode moves a node by PositionStep, or changes its radio range by RadioRangeStep. Up is
// towards smaller y. The range never shrinks below MinRadioRange.
func (s *Simulation) StepNode(nodeid NodeId, dir StepDirection) error {
	node, err := s.getNode(nodeid)
	if err != nil {
		return err
	}
	x, y := node.Pos.X, node.Pos.Y
	switch dir {
	case StepUp:
		return s.MoveNodeTo(nodeid, x, y-PositionStep)
	case StepDown:
		return s.MoveNodeTo(nodeid, x, y+PositionStep)
	case StepLeft:
		return s.MoveNodeTo(nodeid, x-PositionStep, y)
	case StepRight:
		return s.MoveNodeTo(nodeid, x+PositionStep, y)
	case StepRangeUp:
		return s.SetNodeRange(nodeid, node.RadioRange+RadioRangeStep)
	case StepRangeDown:
		rr := node.RadioRange - RadioRangeStep
		if rr < MinRadioRange {
			rr = MinRadioRange
		}
		return s.SetNodeRange(nodeid, rr)
	default:
		return errors.Wrapf(ErrInvalidStep, "%q", dir)
	}
}

// SetRadioModel switches the radio model and re-evaluates all links.
func (s *Simulation) SetRadioModel(modelType RadioModelType) {
	s.radioModel = radiomodel.NewRadioModel(modelType)
	s.vis.SetRadioModel(modelType)
	s.updateConnectivity()
}

func (s *Simulation) GetRadioModel() radiomodel.RadioModel {
	return s.radioModel
}

// GetNodes returns a sorted array of NodeIds.
func (s *Simulation) GetNodes() []NodeId {
	return s.nodes.Ids()
}

// GetNode returns the node with the given id, or nil.
func (s *Simulation) GetNode(nodeid NodeId) *mesh.Node {
	return s.nodes.Get(nodeid)
}

func (s *Simulation) Nodes() *mesh.NodeSet {
	return s.nodes
}

func (s *Simulation) Neighbors(nodeid NodeId) ([]NodeId, error) {
	node, err := s.getNode(nodeid)
	if err != nil {
		return nil, err
	}
	return node.Neighbors(), nil
}

func (s *Simulation) Links() LinkTable {
	return s.nodes.Links()
}

// LastConnectivityStats returns the stats of the most recent connectivity pass.
func (s *Simulation) LastConnectivityStats() mesh.ConnectivityStats {
	return s.lastStats
}

// RouteIdeal returns the shortest route from src to dst.
func (s *Simulation) RouteIdeal(src, dst NodeId) (routing.Route, bool, error) {
	route, ok, err := routing.IdealRoute(s.nodes, src, dst)
	s.metrics.ObserveRoute(metrics.RouteKindIdeal, route.HopCount(), ok, err)
	if err == nil {
		s.vis.ShowRoute(metrics.RouteKindIdeal, route)
	}
	return route, ok, err
}

// RouteRpl returns the route from src to dst forced through the DODAG root.
func (s *Simulation) RouteRpl(src, dst, root NodeId) (routing.Route, bool, error) {
	route, ok, err := routing.RouteViaRoot(s.nodes, src, dst, root)
	s.metrics.ObserveRoute(metrics.RouteKindRpl, route.HopCount(), ok, err)
	if err == nil {
		s.vis.ShowRoute(metrics.RouteKindRpl, route)
	}
	return route, ok, err
}

// DodagTree builds the DODAG rooted at root.
func (s *Simulation) DodagTree(root NodeId) (*routing.RoutingTree, error) {
	tree, err := routing.BuildTree(s.nodes, root)
	if err != nil {
		return nil, err
	}
	s.vis.ShowDodag(root, tree.Parents())
	return tree, nil
}

func (s *Simulation) getNode(nodeid NodeId) (*mesh.Node, error) {
	node := s.nodes.Get(nodeid)
	if node == nil {
		return nil, errors.Wrapf(mesh.ErrNodeNotFound, "node %d", nodeid)
	}
	return node, nil
}

func (s *Simulation) clampPosition(x, y int) (int, int) {
	return clamp(x, MinXY, s.cfg.FieldWidth-MinXY), clamp(y, MinXY, s.cfg.FieldHeight-MinXY)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (s *Simulation) updateConnectivity() {
	s.lastStats = mesh.UpdateConnectivity(s.nodes, s.radioModel)
	s.metrics.ObserveConnectivity(s.lastStats.NumNodes, s.lastStats.NumLinks, s.lastStats.LinksAdded,
		s.lastStats.LinksRemoved)
	s.vis.OnConnectivityUpdate(s.nodes.Links())
	if s.lastStats.Changed() {
		logger.Debugf("connectivity changed: +%d -%d links, %d links total", s.lastStats.LinksAdded,
			s.lastStats.LinksRemoved, s.lastStats.NumLinks)
	}
}

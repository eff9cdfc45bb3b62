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
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openthread/ot-lowpan-sim/mesh"
	"github.com/openthread/ot-lowpan-sim/metrics"
	"github.com/openthread/ot-lowpan-sim/prng"
	"github.com/openthread/ot-lowpan-sim/progctx"
	"github.com/openthread/ot-lowpan-sim/routing"
	. "github.com/openthread/ot-lowpan-sim/types"
	"github.com/openthread/ot-lowpan-sim/visualize"
)

func newTestSimulation(t *testing.T, cfg *Config) *Simulation {
	sim, err := NewSimulation(progctx.New(context.Background()), cfg)
	require.Nil(t, err)
	return sim
}

func addNodeAt(t *testing.T, sim *Simulation, x, y, rr int) NodeId {
	cfg := DefaultNodeConfig()
	cfg.IsAutoPlaced = false
	cfg.X, cfg.Y, cfg.RadioRange = x, y, rr
	node, err := sim.AddNode(&cfg)
	require.Nil(t, err)
	return node.Id
}

type routeRecorder struct {
	visualize.Visualizer
	routes  map[string][]NodeId
	dodags  map[NodeId]map[NodeId]NodeId
	updates int
}

func newRouteRecorder() *routeRecorder {
	return &routeRecorder{
		Visualizer: visualize.NewNopVisualizer(),
		routes:     map[string][]NodeId{},
		dodags:     map[NodeId]map[NodeId]NodeId{},
	}
}

func (rr *routeRecorder) ShowRoute(kind string, route []NodeId) {
	rr.routes[kind] = route
}

func (rr *routeRecorder) ShowDodag(root NodeId, parents map[NodeId]NodeId) {
	rr.dodags[root] = parents
}

func (rr *routeRecorder) OnConnectivityUpdate(LinkTable) {
	rr.updates++
}

func TestInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FieldWidth = 5
	_, err := NewSimulation(progctx.New(nil), cfg)
	assert.NotNil(t, err)

	cfg = DefaultConfig()
	cfg.DefaultRadioRange = -1
	_, err = NewSimulation(progctx.New(nil), cfg)
	assert.NotNil(t, err)
}

func TestAddNodeIds(t *testing.T) {
	sim := newTestSimulation(t, nil)

	assert.Equal(t, 1, addNodeAt(t, sim, 100, 100, 10))
	assert.Equal(t, 2, addNodeAt(t, sim, 200, 100, 10))
	assert.Equal(t, 3, addNodeAt(t, sim, 300, 100, 10))

	cfg := DefaultNodeConfig()
	cfg.ID = 2
	_, err := sim.AddNode(&cfg)
	assert.True(t, errors.Is(err, mesh.ErrNodeExists))

	cfg = DefaultNodeConfig()
	cfg.ID = 10
	node, err := sim.AddNode(&cfg)
	assert.Nil(t, err)
	assert.Equal(t, 10, node.Id)
	assert.Equal(t, DefaultNodeName, node.Name)

	// retired ids are reused lowest first
	assert.Nil(t, sim.DeleteNode(3))
	assert.Nil(t, sim.DeleteNode(1))
	assert.Equal(t, 1, addNodeAt(t, sim, 100, 100, 10))
	assert.Equal(t, 3, addNodeAt(t, sim, 300, 100, 10))
	assert.Equal(t, 4, addNodeAt(t, sim, 400, 100, 10))
	assert.Equal(t, []NodeId{1, 2, 3, 4, 10}, sim.GetNodes())

	sim.DeleteAllNodes()
	assert.Empty(t, sim.GetNodes())
	assert.Equal(t, 1, addNodeAt(t, sim, 100, 100, 10))
}

func TestAddNodeClampsPosition(t *testing.T) {
	sim := newTestSimulation(t, nil)
	id := addNodeAt(t, sim, -50, 5000, -3)
	node := sim.GetNode(id)
	assert.Equal(t, Position{X: MinXY, Y: DefaultFieldHeight - MinXY}, node.Pos)
	assert.Equal(t, MinRadioRange, node.RadioRange)
}

func TestAutoPlacement(t *testing.T) {
	sim := newTestSimulation(t, nil)
	cfg1 := sim.GetConfig().NewNodeConfig()
	n1, err := sim.AddNode(&cfg1)
	require.Nil(t, err)
	cfg2 := sim.GetConfig().NewNodeConfig()
	n2, err := sim.AddNode(&cfg2)
	require.Nil(t, err)

	assert.NotEqual(t, n1.Pos, n2.Pos)
	assert.Equal(t, n1.Pos.Y, n2.Pos.Y)
	assert.Equal(t, DefaultRadioRange, n2.Pos.X-n1.Pos.X)
	// default nodes a default range apart are linked
	assert.True(t, n1.HasNeighbor(n2.Id))
}

func TestConnectivityAfterMutations(t *testing.T) {
	sim := newTestSimulation(t, nil)
	rec := newRouteRecorder()
	sim.SetVisualizer(rec)

	a := addNodeAt(t, sim, 100, 100, 10)
	b := addNodeAt(t, sim, 115, 100, 10)
	c := addNodeAt(t, sim, 130, 100, 10)
	assert.Equal(t, 3, rec.updates)

	nbs, err := sim.Neighbors(b)
	assert.Nil(t, err)
	assert.Equal(t, []NodeId{a, c}, nbs)
	assert.Equal(t, 4, sim.LastConnectivityStats().NumLinks)

	assert.Nil(t, sim.MoveNodeTo(c, 500, 500))
	nbs, _ = sim.Neighbors(b)
	assert.Equal(t, []NodeId{a}, nbs)

	assert.Nil(t, sim.SetNodeRange(c, 600))
	nbs, _ = sim.Neighbors(b)
	assert.Equal(t, []NodeId{a, c}, nbs)

	assert.Nil(t, sim.DeleteNode(a))
	nbs, _ = sim.Neighbors(b)
	assert.Equal(t, []NodeId{c}, nbs)

	_, err = sim.Neighbors(a)
	assert.True(t, errors.Is(err, mesh.ErrNodeNotFound))
	assert.True(t, errors.Is(sim.DeleteNode(a), mesh.ErrNodeNotFound))
	assert.True(t, errors.Is(sim.MoveNodeTo(a, 1, 1), mesh.ErrNodeNotFound))
	assert.True(t, errors.Is(sim.SetNodeRange(a, 1), mesh.ErrNodeNotFound))
	assert.True(t, errors.Is(sim.SetNodeName(a, "x"), mesh.ErrNodeNotFound))
}

func TestSetNodeNameKeepsConnectivity(t *testing.T) {
	sim := newTestSimulation(t, nil)
	rec := newRouteRecorder()
	sim.SetVisualizer(rec)

	a := addNodeAt(t, sim, 100, 100, 10)
	b := addNodeAt(t, sim, 115, 100, 10)
	assert.Equal(t, 2, rec.updates)

	assert.Nil(t, sim.SetNodeName(a, "gateway"))
	assert.Equal(t, "gateway", sim.GetNode(a).Name)
	assert.Equal(t, 3, rec.updates)
	assert.False(t, sim.LastConnectivityStats().Changed())
	assert.Equal(t, []NodeId{b}, sim.GetNode(a).Neighbors())
	assert.Equal(t, []NodeId{a}, sim.GetNode(b).Neighbors())
}

func TestUpdateNode(t *testing.T) {
	sim := newTestSimulation(t, nil)
	a := addNodeAt(t, sim, 100, 100, 10)
	b := addNodeAt(t, sim, 300, 100, 10)
	assert.Empty(t, sim.GetNode(a).Neighbors())

	name, x, rr := "gateway", 120, 20
	assert.Nil(t, sim.UpdateNode(b, &name, &x, nil, &rr))
	node := sim.GetNode(b)
	assert.Equal(t, "gateway", node.Name)
	assert.Equal(t, Position{X: 120, Y: 100}, node.Pos)
	assert.Equal(t, 20, node.RadioRange)
	assert.Equal(t, []NodeId{b}, sim.GetNode(a).Neighbors())

	assert.True(t, errors.Is(sim.UpdateNode(99, &name, nil, nil, nil), mesh.ErrNodeNotFound))
}

func TestStepNode(t *testing.T) {
	sim := newTestSimulation(t, nil)
	id := addNodeAt(t, sim, 300, 300, 20)

	steps := []struct {
		dir StepDirection
		pos Position
		rr  int
	}{
		{StepUp, Position{X: 300, Y: 300 - PositionStep}, 20},
		{StepDown, Position{X: 300, Y: 300}, 20},
		{StepLeft, Position{X: 300 - PositionStep, Y: 300}, 20},
		{StepRight, Position{X: 300, Y: 300}, 20},
		{StepRangeUp, Position{X: 300, Y: 300}, 20 + RadioRangeStep},
		{StepRangeDown, Position{X: 300, Y: 300}, 20},
		{StepRangeDown, Position{X: 300, Y: 300}, 15},
		{StepRangeDown, Position{X: 300, Y: 300}, MinRadioRange},
		{StepRangeDown, Position{X: 300, Y: 300}, MinRadioRange},
	}
	for _, step := range steps {
		assert.Nil(t, sim.StepNode(id, step.dir))
		assert.Equal(t, step.pos, sim.GetNode(id).Pos, "after %s", step.dir)
		assert.Equal(t, step.rr, sim.GetNode(id).RadioRange, "after %s", step.dir)
	}

	assert.True(t, errors.Is(sim.StepNode(id, "sideways"), ErrInvalidStep))
	assert.True(t, errors.Is(sim.StepNode(42, StepUp), mesh.ErrNodeNotFound))

	// stepping against the field border keeps the node inside
	assert.Nil(t, sim.MoveNodeTo(id, MinXY, MinXY))
	assert.Nil(t, sim.StepNode(id, StepUp))
	assert.Nil(t, sim.StepNode(id, StepLeft))
	assert.Equal(t, Position{X: MinXY, Y: MinXY}, sim.GetNode(id).Pos)
}

func TestSetRadioModel(t *testing.T) {
	sim := newTestSimulation(t, nil)
	a := addNodeAt(t, sim, 100, 100, 20)
	b := addNodeAt(t, sim, 115, 100, 5)
	c := addNodeAt(t, sim, 130, 100, 20)

	assert.Equal(t, RadioModelSymmetric, sim.GetRadioModel().GetType())
	_, ok, err := sim.RouteIdeal(b, a)
	assert.Nil(t, err)
	assert.True(t, ok)

	sim.SetRadioModel(RadioModelAsymmetric)
	assert.Equal(t, RadioModelAsymmetric, sim.GetRadioModel().GetType())
	assert.True(t, sim.GetNode(a).HasNeighbor(b))
	assert.False(t, sim.GetNode(b).HasNeighbor(a))
	assert.True(t, sim.GetNode(c).HasNeighbor(b))

	route, ok, err := sim.RouteIdeal(b, a)
	assert.Nil(t, err)
	assert.False(t, ok)
	assert.Nil(t, route)

	tree, err := sim.DodagTree(b)
	assert.Nil(t, err)
	assert.Equal(t, 1, tree.Len())
}

func TestRoutesWithMetricsAndVisualizer(t *testing.T) {
	sim := newTestSimulation(t, nil)
	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg)
	require.Nil(t, err)
	sim.SetMetrics(collector)
	rec := newRouteRecorder()
	sim.SetVisualizer(rec)

	// 1 - 2 - 3 in a line, root 4 hanging off 2 only.
	n1 := addNodeAt(t, sim, 100, 100, 10)
	n2 := addNodeAt(t, sim, 120, 100, 10)
	n3 := addNodeAt(t, sim, 140, 100, 10)
	n4 := addNodeAt(t, sim, 120, 120, 10)
	assert.Equal(t, 4.0, testutil.ToFloat64(collector.ConnectivityPasses))
	assert.Equal(t, 4.0, testutil.ToFloat64(collector.Nodes))
	assert.Equal(t, 6.0, testutil.ToFloat64(collector.Links))

	ideal, ok, err := sim.RouteIdeal(n1, n3)
	assert.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, routing.Route{n1, n2, n3}, ideal)
	assert.Equal(t, []NodeId{n1, n2, n3}, rec.routes[metrics.RouteKindIdeal])

	rpl, ok, err := sim.RouteRpl(n1, n3, n4)
	assert.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, routing.Route{n1, n2, n4, n2, n3}, rpl)
	assert.Equal(t, []NodeId{n1, n2, n4, n2, n3}, rec.routes[metrics.RouteKindRpl])

	_, _, err = sim.RouteRpl(n1, n3, 99)
	assert.True(t, errors.Is(err, mesh.ErrNodeNotFound))

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.RouteQueries.WithLabelValues(metrics.RouteKindIdeal, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.RouteQueries.WithLabelValues(metrics.RouteKindRpl, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.RouteQueries.WithLabelValues(metrics.RouteKindRpl, "error")))

	_, err = sim.DodagTree(n4)
	assert.Nil(t, err)
	assert.Equal(t, map[NodeId]NodeId{n2: n4, n1: n2, n3: n2}, rec.dodags[n4])

	_, err = sim.DodagTree(99)
	assert.True(t, errors.Is(err, mesh.ErrNodeNotFound))
}

func TestPresets(t *testing.T) {
	names := PresetNames()
	assert.Equal(t, []string{"cluster", "linear", "matrix", "middle-earth", "sparse", "tree"}, names)

	sim := newTestSimulation(t, nil)
	for _, name := range names {
		assert.Nil(t, sim.LoadPreset(name), name)
		assert.NotEmpty(t, sim.GetNodes(), name)
	}

	assert.True(t, errors.Is(sim.LoadPreset("nowhere"), ErrUnknownPreset))
}

func TestPresetTopologies(t *testing.T) {
	sim := newTestSimulation(t, nil)

	require.Nil(t, sim.LoadPreset("linear"))
	route, ok, err := sim.RouteIdeal(1, 6)
	assert.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, routing.Route{1, 2, 3, 4, 5, 6}, route)
	route, ok, err = sim.RouteRpl(1, 2, 3)
	assert.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, routing.Route{1, 2, 3, 2}, route)

	require.Nil(t, sim.LoadPreset("matrix"))
	assert.Len(t, sim.GetNodes(), 12)
	route, ok, err = sim.RouteIdeal(1, 12)
	assert.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, 5, route.HopCount())

	require.Nil(t, sim.LoadPreset("tree"))
	tree, err := sim.DodagTree(1)
	require.Nil(t, err)
	assert.Equal(t, 7, tree.Len())
	assert.Equal(t, 2, tree.MaxDepth())
	assert.Equal(t, map[NodeId]NodeId{2: 1, 3: 1, 4: 2, 5: 2, 6: 3, 7: 3}, tree.Parents())

	require.Nil(t, sim.LoadPreset("middle-earth"))
	assert.Equal(t, []NodeId{1, 2, 3, 4, 5, 6}, sim.GetNodes())
	assert.Equal(t, "Isengard TA", sim.GetNode(1).Name)
	assert.Equal(t, 175, sim.GetNode(1).RadioRange)
	assert.Equal(t, DefaultRadioRange, sim.GetNode(6).RadioRange)
}

func TestSaveAndLoad(t *testing.T) {
	sim := newTestSimulation(t, nil)
	require.Nil(t, sim.LoadPreset("cluster"))
	sim.SetRadioModel(RadioModelAsymmetric)
	name := "renamed"
	require.Nil(t, sim.UpdateNode(3, &name, nil, nil, nil))

	fn := filepath.Join(t.TempDir(), "topo.yaml")
	require.Nil(t, sim.SaveFile(fn))

	sim2 := newTestSimulation(t, nil)
	require.Nil(t, sim2.LoadFile(fn))
	assert.Equal(t, RadioModelAsymmetric, sim2.GetRadioModel().GetType())
	assert.Equal(t, sim.GetNodes(), sim2.GetNodes())
	for _, id := range sim.GetNodes() {
		assert.True(t, sim.GetNode(id).Equal(sim2.GetNode(id)), "node %d", id)
		assert.Equal(t, sim.GetNode(id).Neighbors(), sim2.GetNode(id).Neighbors())
	}

	// loading the same file again conflicts on every id
	assert.NotNil(t, sim2.LoadFile(fn))
	assert.NotNil(t, sim2.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestImportWithOffsets(t *testing.T) {
	sim := newTestSimulation(t, nil)
	cfg, err := ParseConfig([]byte(`
network:
  rr: 40
  pos: [100, 200]
  base-id: 10
nodes:
  - {id: 1, pos: [0, 0]}
  - {id: 2, pos: [50, 0], rr: 15, name: second}
  - {id: -20, pos: [50, 0]}
`))
	require.Nil(t, err)
	assert.NotNil(t, sim.ImportConfig(cfg))

	assert.Equal(t, []NodeId{11, 12}, sim.GetNodes())
	n11, n12 := sim.GetNode(11), sim.GetNode(12)
	assert.Equal(t, Position{X: 100, Y: 200}, n11.Pos)
	assert.Equal(t, 40, n11.RadioRange)
	assert.Equal(t, Position{X: 150, Y: 200}, n12.Pos)
	assert.Equal(t, 15, n12.RadioRange)
	assert.Equal(t, "second", n12.Name)

	_, err = ParseConfig([]byte("nodes: {"))
	assert.NotNil(t, err)
}

func TestScatter(t *testing.T) {
	prng.Init(11)
	sim := newTestSimulation(t, nil)
	ids, err := sim.Scatter(25, 0)
	require.Nil(t, err)
	assert.Len(t, ids, 25)
	for _, id := range ids {
		node := sim.GetNode(id)
		assert.True(t, node.Pos.X >= MinXY && node.Pos.X <= DefaultFieldWidth-MinXY)
		assert.True(t, node.Pos.Y >= MinXY && node.Pos.Y <= DefaultFieldHeight-MinXY)
		assert.True(t, node.RadioRange >= MinRadioRange && node.RadioRange <= 2*DefaultRadioRange)
	}

	ids, err = sim.Scatter(3, 42)
	require.Nil(t, err)
	for _, id := range ids {
		assert.Equal(t, 42, sim.GetNode(id).RadioRange)
	}
}

func TestRunAndPostAsync(t *testing.T) {
	ctx := progctx.New(context.Background())
	sim, err := NewSimulation(ctx, nil)
	require.Nil(t, err)
	go sim.Run()
	<-sim.Started

	done := make(chan NodeId)
	sim.PostAsync(false, func() {
		cfg := sim.GetConfig().NewNodeConfig()
		node, err := sim.AddNode(&cfg)
		assert.Nil(t, err)
		done <- node.Id
	})
	select {
	case id := <-done:
		assert.Equal(t, 1, id)
	case <-time.After(5 * time.Second):
		t.Fatal("task not executed")
	}

	// a panicking task does not stop the simulation
	sim.PostAsync(false, func() { panic("boom") })
	sim.PostAsync(false, func() { done <- 0 })
	<-done

	ctx.Cancel(nil)
	ctx.Wait()
	assert.True(t, sim.IsStopped())

	// posting after exit does not block
	sim.PostAsync(false, func() {})
}

func TestSimulationController(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ReadOnly = true
	sim := newTestSimulation(t, cfg)
	ctrl := NewSimulationController(sim)
	assert.Equal(t, ErrReadOnly, ctrl.CtrlAddNode(100, 100))
	assert.Equal(t, ErrReadOnly, ctrl.CtrlDeleteNode(1))
	assert.Equal(t, ErrReadOnly, ctrl.CtrlMoveNodeTo(1, 1, 1))
	assert.Equal(t, ErrReadOnly, ctrl.CtrlSetNodeRange(1, 1))
	assert.Equal(t, ErrReadOnly, ctrl.CtrlSetRadioModel("asym"))

	ctx := progctx.New(context.Background())
	sim, err := NewSimulation(ctx, nil)
	require.Nil(t, err)
	go sim.Run()
	<-sim.Started
	ctrl = NewSimulationController(sim)
	assert.NotNil(t, ctrl.CtrlSetRadioModel("bogus"))
	assert.Nil(t, ctrl.CtrlAddNode(100, 100))
	assert.Nil(t, ctrl.CtrlSetRadioModel("asym"))

	done := make(chan struct{})
	var nodes []NodeId
	var model RadioModelType
	sim.PostAsync(false, func() {
		nodes = sim.GetNodes()
		model = sim.GetRadioModel().GetType()
		close(done)
	})
	<-done
	assert.Equal(t, []NodeId{1}, nodes)
	assert.Equal(t, RadioModelAsymmetric, model)

	ctx.Cancel(nil)
	ctx.Wait()
}

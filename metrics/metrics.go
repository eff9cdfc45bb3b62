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

// Package metrics exposes Prometheus metrics of the simulated mesh: connectivity passes, node and
// link counts, link churn and route queries.
package metrics

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	RouteKindIdeal = "ideal"
	RouteKindRpl   = "rpl"

	resultOk          = "ok"
	resultUnreachable = "unreachable"
	resultError       = "error"
)

// Collector holds all simulation metrics. A nil *Collector is valid and records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	ConnectivityPasses prometheus.Counter
	Nodes              prometheus.Gauge
	Links              prometheus.Gauge
	LinkChanges        *prometheus.CounterVec
	RouteQueries       *prometheus.CounterVec
	RouteHops          *prometheus.HistogramVec
}

// NewCollector registers the simulation metrics against reg, defaulting to the global Prometheus
// registry when nil. Registering twice against the same registry returns the existing collectors.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	passes, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lowpan_connectivity_passes_total",
		Help: "Total number of full connectivity recomputations.",
	}), "lowpan_connectivity_passes_total")
	if err != nil {
		return nil, err
	}
	nodes, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lowpan_nodes",
		Help: "Current number of nodes in the mesh.",
	}), "lowpan_nodes")
	if err != nil {
		return nil, err
	}
	links, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lowpan_links",
		Help: "Current number of directed links in the mesh.",
	}), "lowpan_links")
	if err != nil {
		return nil, err
	}
	changes, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lowpan_link_changes_total",
		Help: "Total number of directed links added or removed by connectivity passes.",
	}, []string{"change"}), "lowpan_link_changes_total")
	if err != nil {
		return nil, err
	}
	queries, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lowpan_route_queries_total",
		Help: "Total number of route queries, labeled by routing kind and result.",
	}, []string{"kind", "result"}), "lowpan_route_queries_total")
	if err != nil {
		return nil, err
	}
	hops, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lowpan_route_hops",
		Help:    "Hop count of found routes, labeled by routing kind.",
		Buckets: []float64{0, 1, 2, 3, 4, 5, 6, 8, 10, 15, 20},
	}, []string{"kind"}), "lowpan_route_hops")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:           gatherer,
		ConnectivityPasses: passes,
		Nodes:              nodes,
		Links:              links,
		LinkChanges:        changes,
		RouteQueries:       queries,
		RouteHops:          hops,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveConnectivity records the outcome of one connectivity pass.
func (c *Collector) ObserveConnectivity(numNodes, numLinks, linksAdded, linksRemoved int) {
	if c == nil {
		return
	}
	c.ConnectivityPasses.Inc()
	c.Nodes.Set(float64(numNodes))
	c.Links.Set(float64(numLinks))
	c.LinkChanges.WithLabelValues("added").Add(float64(linksAdded))
	c.LinkChanges.WithLabelValues("removed").Add(float64(linksRemoved))
}

// ObserveRoute records one route query. hops is only used when ok.
func (c *Collector) ObserveRoute(kind string, hops int, ok bool, err error) {
	if c == nil {
		return
	}
	switch {
	case err != nil:
		c.RouteQueries.WithLabelValues(kind, resultError).Inc()
	case !ok:
		c.RouteQueries.WithLabelValues(kind, resultUnreachable).Inc()
	default:
		c.RouteQueries.WithLabelValues(kind, resultOk).Inc()
		c.RouteHops.WithLabelValues(kind).Observe(float64(hops))
	}
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, errors.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, errors.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, errors.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, errors.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

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

// Package web_site serves the HTTP endpoints of a running simulation: Prometheus metrics and a
// YAML snapshot of the current topology.
package web_site

import (
	"net/http"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/openthread/ot-lowpan-sim/logger"
)

// TopologyFunc returns a YAML-encodable snapshot of the current topology.
type TopologyFunc func() (interface{}, error)

type Server struct {
	Started    chan struct{}
	mux        *http.ServeMux
	lock       sync.Mutex
	httpServer *http.Server
	canServe   bool
}

// NewServer creates a server. A nil metrics handler or topology func disables that endpoint.
func NewServer(metrics http.Handler, topology TopologyFunc) *Server {
	s := &Server{
		Started:  make(chan struct{}),
		mux:      http.NewServeMux(),
		canServe: true,
	}
	if metrics != nil {
		s.mux.Handle("/metrics", metrics)
	}
	if topology != nil {
		s.mux.HandleFunc("/topology", func(writer http.ResponseWriter, request *http.Request) {
			serveTopology(writer, topology)
		})
	}
	return s
}

func serveTopology(writer http.ResponseWriter, topology TopologyFunc) {
	snapshot, err := topology()
	if err != nil {
		logger.Debugf("topology snapshot failed: %v", err)
		http.Error(writer, err.Error(), http.StatusServiceUnavailable)
		return
	}
	data, err := yaml.Marshal(snapshot)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	writer.Header().Set("Content-Type", "application/yaml")
	_, _ = writer.Write(data)
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// Serve blocks until StopServe is called. It returns http.ErrServerClosed if StopServe was called first.
func (s *Server) Serve(listenAddr string) error {
	defer logger.Debugf("webserver exit.")

	s.lock.Lock()
	if !s.canServe {
		s.httpServer = nil
		s.lock.Unlock()
		close(s.Started)
		return http.ErrServerClosed
	}
	s.httpServer = &http.Server{Addr: listenAddr, Handler: s.mux}
	logger.Infof("webserver now serving on %s ...", listenAddr)
	defer logger.Debugf("webserver: httpServer.ListenAndServe() done")
	s.lock.Unlock()
	close(s.Started)
	return s.httpServer.ListenAndServe()
}

func (s *Server) StopServe() {
	logger.Debugf("requesting webserver to exit ...")
	s.lock.Lock()
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	s.canServe = false // prevent serving again in same execution.
	s.lock.Unlock()
}

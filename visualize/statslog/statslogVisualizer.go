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

package visualize_statslog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/openthread/ot-lowpan-sim/logger"
	. "github.com/openthread/ot-lowpan-sim/types"
	. "github.com/openthread/ot-lowpan-sim/visualize"
)

type statslogVisualizer struct {
	logFile       *os.File
	logFileName   string
	isFileEnabled bool
	startTime     time.Time
	stats         meshStats
	oldStats      meshStats
	written       bool

	nodes map[NodeId]struct{}
}

type meshStats struct {
	numNodes      int
	numLinks      int
	numAsymLinks  int
	numPartitions int
	numIsolated   int
}

// NewStatslogVisualizer creates a new Visualizer that writes a log of mesh stats to file. A log entry
// is added after every connectivity pass that changed the stats.
func NewStatslogVisualizer(outputDir string, simulationId int) Visualizer {
	return &statslogVisualizer{
		logFileName:   getStatsLogFileName(outputDir, simulationId),
		isFileEnabled: true,
		nodes:         make(map[NodeId]struct{}, 64),
	}
}

func (sv *statslogVisualizer) Init() {
	sv.startTime = time.Now()
	sv.createLogFile()
}

func (sv *statslogVisualizer) Run() {
	// no goroutine
}

func (sv *statslogVisualizer) Stop() {
	// add a final entry with final status
	sv.writeLogEntry(sv.stats)
	sv.close()
	logger.Debugf("statslogVisualizer stopped and CSV log file closed.")
}

func (sv *statslogVisualizer) SetController(SimulationController) {
}

func (sv *statslogVisualizer) AddNode(nodeid NodeId, _ *NodeConfig) {
	sv.nodes[nodeid] = struct{}{}
}

func (sv *statslogVisualizer) DeleteNode(nodeid NodeId) {
	delete(sv.nodes, nodeid)
}

func (sv *statslogVisualizer) SetNodePos(NodeId, int, int) {
}

func (sv *statslogVisualizer) SetNodeRange(NodeId, int) {
}

func (sv *statslogVisualizer) SetNodeName(NodeId, string) {
}

func (sv *statslogVisualizer) SetRadioModel(RadioModelType) {
}

func (sv *statslogVisualizer) OnConnectivityUpdate(links LinkTable) {
	sv.stats = calcStats(sv.nodes, links)
	if !sv.written || sv.stats != sv.oldStats {
		sv.writeLogEntry(sv.stats)
		sv.oldStats = sv.stats
		sv.written = true
	}
}

func (sv *statslogVisualizer) ShowRoute(string, []NodeId) {
}

func (sv *statslogVisualizer) ShowDodag(NodeId, map[NodeId]NodeId) {
}

func (sv *statslogVisualizer) createLogFile() {
	logger.AssertNil(sv.logFile)

	var err error
	_ = os.Remove(sv.logFileName)

	sv.logFile, err = os.OpenFile(sv.logFileName, os.O_CREATE|os.O_WRONLY, 0664)
	if err != nil {
		logger.Errorf("creating new stats log file %s failed: %+v", sv.logFileName, err)
		sv.isFileEnabled = false
		return
	}
	sv.writeLogFileHeader()
	logger.Debugf("Stats log file '%s' created.", sv.logFileName)
}

func (sv *statslogVisualizer) writeLogFileHeader() {
	// RFC 4180 CSV file: no leading or trailing spaces in header field names
	header := "timeSec,nNodes,nLinks,nAsymLinks,nPartitions,nIsolated"
	_ = sv.writeToLogFile(header)
}

func (sv *statslogVisualizer) writeLogEntry(stats meshStats) {
	timeSec := time.Since(sv.startTime).Seconds()
	entry := fmt.Sprintf("%12.6f, %3d,%3d,%3d,%3d,%3d", timeSec, stats.numNodes, stats.numLinks,
		stats.numAsymLinks, stats.numPartitions, stats.numIsolated)
	_ = sv.writeToLogFile(entry)
	logger.Debugf("statslog entry added: %s", entry)
}

func (sv *statslogVisualizer) writeToLogFile(line string) error {
	if !sv.isFileEnabled {
		return nil
	}
	_, err := sv.logFile.WriteString(line + "\n")
	if err != nil {
		sv.close()
		sv.isFileEnabled = false
		logger.Errorf("couldn't write to stats log file (%s), closing it", sv.logFileName)
	}
	return err
}

func (sv *statslogVisualizer) close() {
	if sv.logFile != nil {
		_ = sv.logFile.Close()
		sv.logFile = nil
		sv.isFileEnabled = false
	}
}

func getStatsLogFileName(outputDir string, simId int) string {
	return filepath.Join(outputDir, fmt.Sprintf("%d_stats.csv", simId))
}

func calcStats(nodes map[NodeId]struct{}, links LinkTable) meshStats {
	s := meshStats{
		numNodes:      len(nodes),
		numLinks:      links.NumLinks(),
		numPartitions: countPartitions(nodes, links),
	}
	for src, nbs := range links {
		for _, dst := range nbs {
			if !links.HasLink(dst, src) {
				s.numAsymLinks++
			}
		}
	}
	for id := range nodes {
		if len(links[id]) == 0 && !hasIncomingLink(links, id) {
			s.numIsolated++
		}
	}
	return s
}

func hasIncomingLink(links LinkTable, id NodeId) bool {
	for src := range links {
		if links.HasLink(src, id) {
			return true
		}
	}
	return false
}

// countPartitions counts the connected components of the mesh, ignoring link direction.
func countPartitions(nodes map[NodeId]struct{}, links LinkTable) int {
	adj := make(map[NodeId][]NodeId, len(nodes))
	for src, nbs := range links {
		for _, dst := range nbs {
			adj[src] = append(adj[src], dst)
			adj[dst] = append(adj[dst], src)
		}
	}

	visited := make(map[NodeId]struct{}, len(nodes))
	partitions := 0
	for id := range nodes {
		if _, ok := visited[id]; ok {
			continue
		}
		partitions++
		visited[id] = struct{}{}
		stack := []NodeId{id}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, nb := range adj[cur] {
				if _, ok := visited[nb]; !ok {
					visited[nb] = struct{}{}
					stack = append(stack, nb)
				}
			}
		}
	}
	return partitions
}

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
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/openthread/ot-lowpan-sim/logger"
	"github.com/openthread/ot-lowpan-sim/prng"
	. "github.com/openthread/ot-lowpan-sim/types"
)

// YamlConfigFile is the topology file format used by save, load and presets.
type YamlConfigFile struct {
	Network YamlNetworkConfig `yaml:"network"`
	Nodes   []YamlNodeConfig  `yaml:"nodes"`
}

type YamlNetworkConfig struct {
	RadioModel *string `yaml:"radiomodel,omitempty"`
	RadioRange *int    `yaml:"rr,omitempty"`
	Position   [2]int  `yaml:"pos,flow"`
	BaseId     *int    `yaml:"base-id,omitempty"`
}

type YamlNodeConfig struct {
	ID         int     `yaml:"id"`
	Name       *string `yaml:"name,omitempty"`
	Position   [2]int  `yaml:"pos,flow"`
	RadioRange *int    `yaml:"rr,omitempty"`
}

// ExportNetwork exports config info of network to a YAML-friendly object.
func (s *Simulation) ExportNetwork() YamlNetworkConfig {
	var rr *int = nil
	modelName := s.radioModel.GetName()

	// include radio-range if non-default
	if s.cfg.DefaultRadioRange != DefaultRadioRange {
		rr = &s.cfg.DefaultRadioRange
	}
	return YamlNetworkConfig{
		RadioModel: &modelName,
		RadioRange: rr,
		Position:   [2]int{0, 0}, // when exporting, always a 0-offset is used.
	}
}

// ExportNodes exports config/position info of all nodes to a YAML-friendly object.
func (s *Simulation) ExportNodes(nwConfig *YamlNetworkConfig) []YamlNodeConfig {
	defaultRange := DefaultRadioRange
	if nwConfig.RadioRange != nil {
		defaultRange = *nwConfig.RadioRange
	}

	res := make([]YamlNodeConfig, 0, s.nodes.Len())
	for _, nodeid := range s.nodes.Ids() {
		node := s.nodes.Get(nodeid)
		cfg := YamlNodeConfig{
			ID:       nodeid,
			Position: [2]int{node.Pos.X, node.Pos.Y},
		}
		// include name and radio-range if non-default
		if node.Name != s.cfg.DefaultNodeName {
			name := node.Name
			cfg.Name = &name
		}
		if node.RadioRange != defaultRange {
			rr := node.RadioRange
			cfg.RadioRange = &rr
		}
		res = append(res, cfg)
	}
	return res
}

// ExportConfig exports the whole topology.
func (s *Simulation) ExportConfig() YamlConfigFile {
	nw := s.ExportNetwork()
	return YamlConfigFile{
		Network: nw,
		Nodes:   s.ExportNodes(&nw),
	}
}

// ImportNodes adds all given nodes to the simulation. Nodes that can't be added are skipped and
// reported in the returned error.
func (s *Simulation) ImportNodes(nwConfig YamlNetworkConfig, nodes []YamlNodeConfig) error {
	allOk := true
	rr := s.cfg.DefaultRadioRange
	if nwConfig.RadioRange != nil {
		rr = *nwConfig.RadioRange
	}
	posOffset := nwConfig.Position
	nodeIdOffset := 0
	if nwConfig.BaseId != nil {
		nodeIdOffset = *nwConfig.BaseId
	}

	if nwConfig.RadioModel != nil {
		modelType, err := ParseRadioModelType(*nwConfig.RadioModel)
		if err != nil {
			return err
		}
		if modelType != s.radioModel.GetType() {
			s.SetRadioModel(modelType)
		}
	}

	for _, node := range nodes {
		cfg := s.cfg.NewNodeConfig()

		// fill config with entries from YAML 'node'
		cfg.ID = node.ID + nodeIdOffset
		cfg.RadioRange = rr
		if node.RadioRange != nil {
			cfg.RadioRange = *node.RadioRange
		}
		if node.Name != nil {
			cfg.Name = *node.Name
		}
		cfg.IsAutoPlaced = false
		cfg.X = node.Position[0] + posOffset[0]
		cfg.Y = node.Position[1] + posOffset[1]

		if cfg.ID <= 0 {
			logger.Warnf("Warn: invalid node id %d", cfg.ID)
			allOk = false
			continue
		}
		if _, err := s.AddNode(&cfg); err != nil {
			logger.Warnf("Warn: %s", err)
			allOk = false // continue trying to import remaining nodes
		}
	}

	if !allOk {
		return errors.Errorf("not all nodes could be imported - see error log above")
	}
	return nil
}

// ImportConfig adds the topology of a config file to the simulation.
func (s *Simulation) ImportConfig(cfg *YamlConfigFile) error {
	return s.ImportNodes(cfg.Network, cfg.Nodes)
}

// SaveFile writes the topology to a YAML file.
func (s *Simulation) SaveFile(filename string) error {
	cfg := s.ExportConfig()
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}
	if err = os.WriteFile(filename, data, 0644); err != nil {
		return errors.Wrapf(err, "save %s", filename)
	}
	return nil
}

// LoadFile adds the topology of a YAML file to the simulation.
func (s *Simulation) LoadFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrapf(err, "load %s", filename)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return errors.Wrapf(err, "load %s", filename)
	}
	return s.ImportConfig(cfg)
}

// ParseConfig parses a YAML topology.
func ParseConfig(data []byte) (*YamlConfigFile, error) {
	var cfg YamlConfigFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Scatter adds n nodes at random positions. A radioRange <= 0 gives each node a random range
// between MinRadioRange and twice the default range.
func (s *Simulation) Scatter(n int, radioRange int) ([]NodeId, error) {
	added := make([]NodeId, 0, n)
	for i := 0; i < n; i++ {
		cfg := s.cfg.NewNodeConfig()
		cfg.IsAutoPlaced = false
		cfg.X, cfg.Y = prng.NewPosition(MinXY, MinXY, s.cfg.FieldWidth-MinXY, s.cfg.FieldHeight-MinXY)
		if radioRange > 0 {
			cfg.RadioRange = radioRange
		} else {
			cfg.RadioRange = prng.NewRadioRange(MinRadioRange, 2*s.cfg.DefaultRadioRange)
		}
		node, err := s.AddNode(&cfg)
		if err != nil {
			return added, err
		}
		added = append(added, node.Id)
	}
	return added, nil
}

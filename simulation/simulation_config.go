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

	. "github.com/openthread/ot-lowpan-sim/types"
)

type Config struct {
	Id                int
	FieldWidth        int
	FieldHeight       int
	RadioModel        RadioModelType
	DefaultRadioRange int
	DefaultNodeName   string
	ReadOnly          bool
	RandomSeed        int64
}

func DefaultConfig() *Config {
	return &Config{
		Id:                0,
		FieldWidth:        DefaultFieldWidth,
		FieldHeight:       DefaultFieldHeight,
		RadioModel:        RadioModelSymmetric,
		DefaultRadioRange: DefaultRadioRange,
		DefaultNodeName:   DefaultNodeName,
		ReadOnly:          false,
		RandomSeed:        0,
	}
}

// Validate checks that the config describes a usable field.
func (cfg *Config) Validate() error {
	if cfg.FieldWidth <= 2*MinXY || cfg.FieldHeight <= 2*MinXY {
		return errors.Errorf("field size %dx%d too small", cfg.FieldWidth, cfg.FieldHeight)
	}
	if cfg.DefaultRadioRange < 0 {
		return errors.Errorf("negative default radio range %d", cfg.DefaultRadioRange)
	}
	return nil
}

// NewNodeConfig returns the config for a new auto-placed node with the simulation's defaults.
func (cfg *Config) NewNodeConfig() NodeConfig {
	nodeCfg := DefaultNodeConfig()
	nodeCfg.Name = cfg.DefaultNodeName
	nodeCfg.RadioRange = cfg.DefaultRadioRange
	return nodeCfg
}

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

// Package radiomodel implements the reachability predicates that turn node geometry into links.
package radiomodel

import (
	"github.com/pkg/errors"

	. "github.com/openthread/ot-lowpan-sim/types"
)

// RadioModel decides whether a node can reach another node, based on positions and radio ranges.
type RadioModel interface {
	// GetName returns the name of the radio model.
	GetName() string

	// GetType returns the RadioModelType that created this model.
	GetType() RadioModelType

	// IsSymmetric returns true if every link is bidirectional, i.e. links must be added and removed
	// in both directions at once.
	IsSymmetric() bool

	// CheckRadioReachable returns true if dst is reachable from src. src and dst must differ.
	CheckRadioReachable(src *RadioNode, dst *RadioNode) bool
}

// NewRadioModel creates a new RadioModel of the given type.
func NewRadioModel(modelType RadioModelType) RadioModel {
	switch modelType {
	case RadioModelAsymmetric:
		return &radioModelAsymmetric{Name: modelType.String()}
	default:
		return &radioModelSymmetric{Name: RadioModelSymmetric.String()}
	}
}

// NewRadioModelByName creates a new RadioModel by (any accepted) model name.
func NewRadioModelByName(modelName string) (RadioModel, error) {
	modelType, err := ParseRadioModelType(modelName)
	if err != nil {
		return nil, errors.Wrapf(err, "radio model")
	}
	return NewRadioModel(modelType), nil
}

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

package types

import (
	"fmt"
	"strings"
)

type NodeId = int

const (
	InvalidNodeId NodeId = 0
)

// Position is a 2-D integer coordinate on the simulation field, in field units/pixels.
type Position struct {
	X, Y int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

const (
	// DefaultRadioRange is the radio range of a new node if not specified otherwise.
	DefaultRadioRange = 100
	// MinRadioRange is the smallest radio range a node can have: half the node diameter.
	MinRadioRange = NodeDiameter / 2
	// RadioRangeStep is the range increment/decrement of a single range step.
	RadioRangeStep = 5
	// PositionStep is the distance a node moves in a single position step.
	PositionStep = 30
	// NodeDiameter is the displayed size of a node.
	NodeDiameter = 20
	// MinXY is the margin between a node and any field border.
	MinXY = 10

	DefaultFieldWidth  = 1000
	DefaultFieldHeight = 700
	DefaultNodeName    = "new_node"
)

// RadioModelType selects the reachability predicate used to derive the neighbor graph.
type RadioModelType int

const (
	// RadioModelSymmetric links two nodes when their radio discs intersect; links are always bidirectional.
	RadioModelSymmetric RadioModelType = iota
	// RadioModelAsymmetric links A to B when B lies inside A's radio disc; each direction is independent.
	RadioModelAsymmetric
)

func (t RadioModelType) String() string {
	switch t {
	case RadioModelSymmetric:
		return "symmetric"
	case RadioModelAsymmetric:
		return "asymmetric"
	default:
		return fmt.Sprintf("invalid(%d)", int(t))
	}
}

// ParseRadioModelType parses a radio model name. Besides the canonical names, the short forms
// and the historical names "easy" (symmetric) and "real" (asymmetric) are accepted.
func ParseRadioModelType(s string) (RadioModelType, error) {
	switch strings.ToLower(s) {
	case "symmetric", "sym", "easy", "a":
		return RadioModelSymmetric, nil
	case "asymmetric", "asym", "real", "realistic", "b":
		return RadioModelAsymmetric, nil
	default:
		return RadioModelSymmetric, fmt.Errorf("unknown radio model: %s", s)
	}
}

// StepDirection is a single-step mutation of a node's position or radio range.
type StepDirection string

const (
	StepUp        StepDirection = "up"
	StepDown      StepDirection = "down"
	StepLeft      StepDirection = "left"
	StepRight     StepDirection = "right"
	StepRangeUp   StepDirection = "rr+"
	StepRangeDown StepDirection = "rr-"
)

// LinkTable maps each node to its outgoing neighbors, sorted by NodeId.
type LinkTable map[NodeId][]NodeId

// NumLinks returns the number of directed links in the table.
func (lt LinkTable) NumLinks() int {
	n := 0
	for _, nbs := range lt {
		n += len(nbs)
	}
	return n
}

// HasLink returns true if the table contains the directed link src -> dst.
func (lt LinkTable) HasLink(src, dst NodeId) bool {
	for _, nb := range lt[src] {
		if nb == dst {
			return true
		}
	}
	return false
}

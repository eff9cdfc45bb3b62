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

package radiomodel

import (
	"math"
	"math/big"

	. "github.com/openthread/ot-lowpan-sim/types"
)

// RadioNode is the radio-relevant state of a single node, used by all radio models.
type RadioNode struct {
	Id NodeId

	// Pos is the node position in units/pixels.
	Pos Position

	// RadioRange is the radio range (radius) as configured for this node. Never negative.
	RadioRange int
}

func NewRadioNode(nodeid NodeId, x, y int, radioRange int) *RadioNode {
	rn := &RadioNode{
		Id:  nodeid,
		Pos: Position{X: x, Y: y},
	}
	rn.SetRadioRange(radioRange)
	return rn
}

func (rn *RadioNode) SetNodePos(x, y int) {
	rn.Pos = Position{X: x, Y: y}
}

// SetRadioRange sets the radio range. A negative range is clamped to MinRadioRange.
func (rn *RadioNode) SetRadioRange(radioRange int) {
	if radioRange < 0 {
		radioRange = MinRadioRange
	}
	rn.RadioRange = radioRange
}

// GetDistanceTo gets the distance to another RadioNode (in grid/pixel units).
func (rn *RadioNode) GetDistanceTo(other *RadioNode) (dist float64) {
	dx := float64(other.Pos.X - rn.Pos.X)
	dy := float64(other.Pos.Y - rn.Pos.Y)
	dist = math.Sqrt(dx*dx + dy*dy)
	return
}

// isWithinDistance checks dist(rn, other) <= r1 + r2 + ... exactly. Squares and sums of arbitrary
// int coordinates and ranges are compared as big integers so they never wrap.
func (rn *RadioNode) isWithinDistance(other *RadioNode, radioRanges ...int) bool {
	maxDist := new(big.Int)
	for _, r := range radioRanges {
		maxDist.Add(maxDist, big.NewInt(int64(r)))
	}
	if maxDist.Sign() < 0 {
		return false
	}
	dx := new(big.Int).Sub(big.NewInt(int64(other.Pos.X)), big.NewInt(int64(rn.Pos.X)))
	dy := new(big.Int).Sub(big.NewInt(int64(other.Pos.Y)), big.NewInt(int64(rn.Pos.Y)))
	distSq := new(big.Int).Mul(dx, dx)
	distSq.Add(distSq, dy.Mul(dy, dy))
	return distSq.Cmp(maxDist.Mul(maxDist, maxDist)) <= 0
}

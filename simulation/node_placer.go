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
	. "github.com/openthread/ot-lowpan-sim/types"
)

// NodeAutoPlacer picks positions for new nodes that were added without a position. It places
// nodes left to right in rows, continuing from the last explicitly placed node.
type NodeAutoPlacer struct {
	X, Y       int
	Xref, Yref int
	Xmax, Ymax int
	NodeDelta  int
	isReset    bool
}

func NewNodeAutoPlacer(fieldWidth, fieldHeight int) *NodeAutoPlacer {
	nap := &NodeAutoPlacer{
		Xmax:      fieldWidth - 2*MinXY,
		Ymax:      fieldHeight - 2*MinXY,
		NodeDelta: DefaultRadioRange,
	}
	nap.Reset()
	return nap
}

// Reset restarts placement at the top-left of the field.
func (nap *NodeAutoPlacer) Reset() {
	nap.Xref, nap.Yref = DefaultRadioRange, DefaultRadioRange
	nap.X, nap.Y = nap.Xref, nap.Yref
	nap.isReset = true
}

// UpdateReference updates the reference position of the NodeAutoPlacer to 'x', 'y'. It starts placing from there.
func (nap *NodeAutoPlacer) UpdateReference(x, y int) {
	nap.Xref = x
	nap.X = x
	nap.Yref = y
	nap.Y = y
	nap.isReset = false
}

// NextNodePosition lets the autoplacer pick the next position for a new node to be placed.
func (nap *NodeAutoPlacer) NextNodePosition() (int, int) {
	if !nap.isReset {
		nap.X += nap.NodeDelta
		if nap.X > nap.Xmax {
			nap.X = nap.Xref
			nap.Y += nap.NodeDelta
			if nap.Y > nap.Ymax {
				nap.Y = DefaultRadioRange
			}
		}
	}
	nap.isReset = false
	return nap.X, nap.Y
}

// ReuseNextNodePosition instructs the autoplacer to re-use the NextNodePosition() that was given out in the
// last call to this method.
func (nap *NodeAutoPlacer) ReuseNextNodePosition() {
	nap.isReset = true
}

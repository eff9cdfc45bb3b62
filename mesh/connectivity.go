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

package mesh

import (
	"github.com/openthread/ot-lowpan-sim/logger"
	"github.com/openthread/ot-lowpan-sim/radiomodel"
)

// ConnectivityStats summarizes one connectivity pass.
type ConnectivityStats struct {
	NumNodes     int
	NumPairs     int // ordered pairs evaluated
	NumLinks     int // directed links present after the pass
	LinksAdded   int
	LinksRemoved int
}

// Changed returns true if the pass added or removed any link.
func (cs ConnectivityStats) Changed() bool {
	return cs.LinksAdded > 0 || cs.LinksRemoved > 0
}

// UpdateConnectivity re-evaluates every ordered pair of distinct nodes with the radio model and
// updates all neighbor sets to match. Symmetric models add/remove both directions of a link at once;
// other models only touch the evaluated direction. The full O(n^2) recomputation is intended; it must
// run after every insertion, removal, move, range change or radio model change.
func UpdateConnectivity(ns *NodeSet, rm radiomodel.RadioModel) ConnectivityStats {
	logger.AssertNotNil(rm)
	symmetric := rm.IsSymmetric()
	stats := ConnectivityStats{NumNodes: ns.Len()}

	ids := ns.Ids()
	for _, srcId := range ids {
		src := ns.nodes[srcId]
		for _, dstId := range ids {
			if srcId == dstId {
				continue
			}
			dst := ns.nodes[dstId]
			stats.NumPairs++

			if rm.CheckRadioReachable(&src.RadioNode, &dst.RadioNode) {
				stats.LinksAdded += countTrue(src.addNeighbor(dstId))
				if symmetric {
					stats.LinksAdded += countTrue(dst.addNeighbor(srcId))
				}
			} else {
				stats.LinksRemoved += countTrue(src.removeNeighbor(dstId))
				if symmetric {
					stats.LinksRemoved += countTrue(dst.removeNeighbor(srcId))
				}
			}
		}
	}

	for _, id := range ids {
		stats.NumLinks += ns.nodes[id].NumNeighbors()
	}
	logger.Tracef("connectivity pass (%s): %+v", rm.GetName(), stats)
	return stats
}

func countTrue(b bool) int {
	if b {
		return 1
	}
	return 0
}

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

package cli

import (
	"sort"

	. "github.com/openthread/ot-lowpan-sim/types"
)

// isMutatingCommand returns true if the command changes the topology, radio model or any node.
func isMutatingCommand(cmd *Command) bool {
	return cmd.Add != nil || cmd.Clear != nil || cmd.Del != nil || cmd.Move != nil ||
		cmd.Update != nil || cmd.Step != nil || cmd.Load != nil || cmd.Scatter != nil ||
		(cmd.Preset != nil && len(cmd.Preset.Name) > 0) ||
		(cmd.RadioModel != nil && len(cmd.RadioModel.Model) > 0)
}

// getUniqueAndSorted returns a unique-ID'd and sorted version of []NodeSelector.
func getUniqueAndSorted(input []NodeSelector) []NodeSelector {
	u := make([]int, 0, len(input))
	m := make(map[int]NodeSelector, len(input))

	// find unique integers
	for _, ns := range input {
		if ns.All != nil { // if 'all' nodes are selected, return only the 'all' selector.
			return []NodeSelector{ns}
		}
		if nsExisting, ok := m[ns.Id]; ok {
			if nsExisting.IdRange > 0 || ns.IdRange == 0 {
				continue // only consider 1st occurrence of a given NodeId. Ranges have priority.
			}
		}
		m[ns.Id] = ns
	}

	// sort
	for id := range m {
		u = append(u, id)
	}
	sort.Ints(u)

	// output as []NodeSelector
	n := make([]NodeSelector, 0, len(u))
	for _, id := range u {
		n = append(n, m[id])
	}
	return n
}

// expandSelectors resolves selectors into a sorted list of unique node ids. Single ids are kept
// even if they do not exist, so the caller can report them; ranges and 'all' only select existing nodes.
func expandSelectors(input []NodeSelector, existing []NodeId) []NodeId {
	exists := make(map[NodeId]bool, len(existing))
	for _, id := range existing {
		exists[id] = true
	}

	ids := map[NodeId]struct{}{}
	for _, ns := range getUniqueAndSorted(input) {
		switch {
		case ns.All != nil:
			for _, id := range existing {
				ids[id] = struct{}{}
			}
		case ns.IdRange > 0:
			for id := ns.Id; id <= ns.IdRange; id++ {
				if exists[id] {
					ids[id] = struct{}{}
				}
			}
		default:
			ids[ns.Id] = struct{}{}
		}
	}

	res := make([]NodeId, 0, len(ids))
	for id := range ids {
		res = append(res, id)
	}
	sort.Ints(res)
	return res
}

// countAsymmetricLinks counts directed links whose reverse direction is absent.
func countAsymmetricLinks(links LinkTable) int {
	n := 0
	for src, nbs := range links {
		for _, dst := range nbs {
			if !links.HasLink(dst, src) {
				n++
			}
		}
	}
	return n
}

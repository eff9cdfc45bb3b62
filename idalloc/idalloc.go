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

// Package idalloc hands out node ids. Retired ids are reused lowest-first before new ids are created.
package idalloc

import (
	"fmt"
	"math"
	"sort"

	"github.com/pkg/errors"

	. "github.com/openthread/ot-lowpan-sim/types"
)

var ErrIdsExhausted = errors.New("node ids exhausted")

// Allocator is a free-list node id allocator. It is not safe for concurrent use.
type Allocator struct {
	first   NodeId
	next    NodeId
	max     NodeId
	retired []NodeId // sorted ascending
	inUse   map[NodeId]struct{}
	full    bool
}

// NewAllocator creates an allocator that hands out ids starting at 1.
func NewAllocator() *Allocator {
	return NewAllocatorWithRange(1, math.MaxInt)
}

// NewAllocatorWithRange creates an allocator for ids in [first, max].
func NewAllocatorWithRange(first, max NodeId) *Allocator {
	return &Allocator{
		first: first,
		next:  first,
		max:   max,
		inUse: map[NodeId]struct{}{},
	}
}

// Next returns the lowest retired id if any, else a never used id.
func (a *Allocator) Next() (NodeId, error) {
	if len(a.retired) > 0 {
		id := a.retired[0]
		a.retired = a.retired[1:]
		a.inUse[id] = struct{}{}
		return id, nil
	}
	for !a.full {
		id := a.next
		if a.next == a.max {
			a.full = true
		} else {
			a.next++
		}
		if _, ok := a.inUse[id]; ok {
			continue // claimed before via Claim()
		}
		a.inUse[id] = struct{}{}
		return id, nil
	}
	return InvalidNodeId, ErrIdsExhausted
}

// Claim marks a caller-chosen id as in use. Returns false if the id is already in use or out of range.
func (a *Allocator) Claim(id NodeId) bool {
	if id < a.first || id > a.max {
		return false
	}
	if _, ok := a.inUse[id]; ok {
		return false
	}
	if idx, found := a.findRetired(id); found {
		a.retired = append(a.retired[:idx], a.retired[idx+1:]...)
	}
	a.inUse[id] = struct{}{}
	return true
}

// Retire returns an id to the allocator so it can be handed out again.
func (a *Allocator) Retire(id NodeId) {
	if _, ok := a.inUse[id]; !ok {
		return
	}
	delete(a.inUse, id)
	if !a.full && id >= a.next {
		return // claimed beyond the counter; Next() will reach it anyway.
	}
	idx, _ := a.findRetired(id)
	a.retired = append(a.retired, 0)
	copy(a.retired[idx+1:], a.retired[idx:])
	a.retired[idx] = id
}

// Reset forgets all allocated and retired ids.
func (a *Allocator) Reset() {
	a.next = a.first
	a.full = false
	a.retired = nil
	a.inUse = map[NodeId]struct{}{}
}

// InUse returns the number of ids currently allocated or claimed.
func (a *Allocator) InUse() int {
	return len(a.inUse)
}

func (a *Allocator) findRetired(id NodeId) (int, bool) {
	idx := sort.SearchInts(a.retired, id)
	return idx, idx < len(a.retired) && a.retired[idx] == id
}

func (a *Allocator) String() string {
	return fmt.Sprintf("next: %d, retired: %v, inUse: %d", a.next, a.retired, len(a.inUse))
}

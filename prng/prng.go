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

// Package prng provides the seeded pseudo-random streams of the simulator. With a fixed root seed
// every random topology is reproducible.
package prng

import (
	"math/rand"
	"time"
)

var (
	rootSeed          int64
	positionGenerator *rand.Rand
	rangeGenerator    *rand.Rand
	unitRandGenerator *rand.Rand
)

func init() {
	Init(0)
}

// Init initializes the prng package, either with a fixed PRNG seed (seed != 0) or a 'random' time-based PRNG
// seed (if seed == 0). Each stream gets its own seed derived from the root seed.
func Init(seed int64) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rootSeed = seed

	seeder := rand.New(rand.NewSource(seed))
	positionGenerator = rand.New(rand.NewSource(seeder.Int63()))
	rangeGenerator = rand.New(rand.NewSource(seeder.Int63()))
	unitRandGenerator = rand.New(rand.NewSource(seeder.Int63()))
}

// RootSeed returns the seed the streams were last initialized with.
func RootSeed() int64 {
	return rootSeed
}

// NewPosition generates a random position in [minX, maxX] x [minY, maxY].
func NewPosition(minX, minY, maxX, maxY int) (x, y int) {
	x = minX + positionGenerator.Intn(maxX-minX+1)
	y = minY + positionGenerator.Intn(maxY-minY+1)
	return
}

// NewRadioRange generates a random radio range in [minRange, maxRange].
func NewRadioRange(minRange, maxRange int) int {
	if maxRange <= minRange {
		return minRange
	}
	return minRange + rangeGenerator.Intn(maxRange-minRange+1)
}

// NewUnitRandom generates a new random unit [0, 1) float, which can be used as a random probability.
func NewUnitRandom() float64 {
	return unitRandGenerator.Float64()
}

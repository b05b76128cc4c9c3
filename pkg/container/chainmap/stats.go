// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package chainmap

// Stats is a read-only snapshot of a table's shape and accumulated
// counters, intended for reporting and analysis tooling. Computing one
// traverses every chain.
type Stats struct {
	Size       uint64
	Capacity   uint64
	LoadFactor float64

	Collisions uint64
	Resizes    uint64
	TotalOps   uint64

	EmptySlots uint64
	MinChain   uint64
	MaxChain   uint64
	// MeanChain averages over all buckets and therefore equals the load
	// factor; MeanOccupied averages over non-empty chains only.
	MeanChain    float64
	MeanOccupied float64
}

// ChainLengths returns the length of the chain in each bucket.
func (ht *ChainMap[K, V]) ChainLengths() []uint64 {
	lengths := make([]uint64, len(ht.buckets))
	for i, head := range ht.buckets {
		var n uint64
		for e := head; e != nil; e = e.next {
			n++
		}
		lengths[i] = n
	}
	return lengths
}

func (ht *ChainMap[K, V]) Stats() Stats {
	st := Stats{
		Size:       ht.elemCnt,
		Capacity:   uint64(len(ht.buckets)),
		LoadFactor: ht.LoadFactor(),
		Collisions: ht.collisionCnt,
		Resizes:    ht.resizeCnt,
		TotalOps:   ht.opCnt,
	}

	var total, occupied uint64
	first := true
	for _, n := range ht.ChainLengths() {
		total += n
		if n == 0 {
			st.EmptySlots++
		} else {
			occupied++
		}
		if first || n < st.MinChain {
			st.MinChain = n
		}
		if n > st.MaxChain {
			st.MaxChain = n
		}
		first = false
	}
	st.MeanChain = float64(total) / float64(len(ht.buckets))
	if occupied > 0 {
		st.MeanOccupied = float64(total) / float64(occupied)
	}
	return st
}

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

import (
	"math/rand"
	"time"

	"github.com/matrixorigin/chainmap/pkg/common/moerr"
)

// New constructs an empty ChainMap using keyFn as the key-to-integer
// mapping. Without options the table starts with 16 buckets and resizes
// once the load factor passes 0.75.
func New[K comparable, V any](keyFn KeyFunc[K], opts ...Option) (*ChainMap[K, V], error) {
	if keyFn == nil {
		return nil, moerr.NewInvalidArg("key function", nil)
	}
	o := options{
		capacity:      kDefaultBucketCnt,
		maxLoadFactor: kDefaultMaxLoadFactor,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.capacity < 1 {
		return nil, moerr.NewBadConfig("initial capacity must be positive, got %d", o.capacity)
	}
	if uint64(o.capacity) > maxBucketCnt {
		return nil, moerr.NewBadConfig("initial capacity %d exceeds the bucket limit", o.capacity)
	}
	if o.maxLoadFactor <= 0 || o.maxLoadFactor > 1 {
		return nil, moerr.NewBadConfig("max load factor must be in (0, 1], got %v", o.maxLoadFactor)
	}
	if o.src == nil {
		o.src = rand.NewSource(time.Now().UnixNano())
	}
	ht := &ChainMap[K, V]{
		buckets:       make([]*entry[K, V], o.capacity),
		maxLoadFactor: o.maxLoadFactor,
		keyFn:         keyFn,
		rnd:           rand.New(o.src),
	}
	ht.rollHashParams()
	return ht, nil
}

// Insert adds the key/value pair, overwriting the value in place if the
// key is already present. It may grow the table; growth failing with
// ErrCapacityExceeded leaves the table untouched.
func (ht *ChainMap[K, V]) Insert(key K, value V) error {
	ht.opCnt++
	idx := ht.hash(key)
	head := ht.buckets[idx]
	for e := head; e != nil; e = e.next {
		if e.key == key {
			e.value = value
			return nil
		}
	}

	// The new entry may push the load factor over the threshold. Refuse
	// up front if the required resize cannot happen, so the failed
	// insert leaves no trace.
	if ht.needGrow(ht.elemCnt+1) && uint64(len(ht.buckets)) > maxBucketCnt/2 {
		return moerr.NewCapacityExceeded(maxBucketCnt)
	}

	if head != nil {
		ht.collisionCnt++
	}
	ht.buckets[idx] = &entry[K, V]{key: key, value: value, next: head}
	ht.elemCnt++

	if ht.needGrow(ht.elemCnt) {
		ht.rehash()
	}
	return nil
}

// Find returns the value stored under key, or (zero, false) if the key
// is absent.
func (ht *ChainMap[K, V]) Find(key K) (V, bool) {
	ht.opCnt++
	for e := ht.buckets[ht.hash(key)]; e != nil; e = e.next {
		if e.key == key {
			return e.value, true
		}
	}
	var zero V
	return zero, false
}

// Delete unlinks the entry stored under key and reports whether it was
// present. Delete never resizes.
func (ht *ChainMap[K, V]) Delete(key K) bool {
	ht.opCnt++
	idx := ht.hash(key)
	var prev *entry[K, V]
	for e := ht.buckets[idx]; e != nil; e = e.next {
		if e.key == key {
			if prev == nil {
				ht.buckets[idx] = e.next
			} else {
				prev.next = e.next
			}
			e.next = nil
			ht.elemCnt--
			return true
		}
		prev = e
	}
	return false
}

// Cardinality returns the number of entries in the table.
func (ht *ChainMap[K, V]) Cardinality() uint64 {
	return ht.elemCnt
}

// Capacity returns the current bucket count.
func (ht *ChainMap[K, V]) Capacity() uint64 {
	return uint64(len(ht.buckets))
}

// LoadFactor returns the ratio of entries to buckets.
func (ht *ChainMap[K, V]) LoadFactor() float64 {
	return float64(ht.elemCnt) / float64(len(ht.buckets))
}

func (ht *ChainMap[K, V]) hash(key K) uint64 {
	x := ht.keyFn(key) % kHashPrime
	return ((ht.a*x + ht.b) % kHashPrime) % uint64(len(ht.buckets))
}

func (ht *ChainMap[K, V]) needGrow(elemCnt uint64) bool {
	return float64(elemCnt)/float64(len(ht.buckets)) > ht.maxLoadFactor
}

func (ht *ChainMap[K, V]) rollHashParams() {
	ht.a = 1 + uint64(ht.rnd.Int63n(int64(kHashPrime-1)))
	ht.b = uint64(ht.rnd.Int63n(int64(kHashPrime)))
}

// rehash doubles the bucket array, draws fresh hash parameters and
// re-links every entry into its new chain. It runs to completion within
// the insert that triggered it; the old and new arrays are never
// observable at the same time.
func (ht *ChainMap[K, V]) rehash() {
	old := ht.buckets
	ht.buckets = make([]*entry[K, V], 2*len(old))
	ht.rollHashParams()
	ht.resizeCnt++

	for _, head := range old {
		for e := head; e != nil; {
			next := e.next
			idx := ht.hash(e.key)
			e.next = ht.buckets[idx]
			ht.buckets[idx] = e
			e = next
		}
	}
}

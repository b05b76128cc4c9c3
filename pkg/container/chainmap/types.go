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

// Package chainmap implements a hash table with separate chaining and
// universal hashing. Collisions are resolved by linking entries that
// share a bucket into a singly linked chain. The hash function is drawn
// from the family h(k) = ((a*x + b) mod p) mod m with fresh random
// (a, b) at construction and at every resize, which bounds the
// collision probability of any two distinct keys by 1/m.
//
// A ChainMap is not safe for concurrent use. Callers sharing one across
// goroutines must serialize access themselves.
package chainmap

import (
	"math/rand"
)

const (
	// kHashPrime is the modulus p of the universal hash family. It must
	// exceed every value a key function may return.
	kHashPrime uint64 = 1000000007

	kDefaultBucketCnt     = 16
	kDefaultMaxLoadFactor = 0.75
)

// maxBucketCnt is the largest bucket array a resize may allocate.
// Doubling past it fails with ErrCapacityExceeded. A variable so that
// internal tests can lower it to a reachable value.
var maxBucketCnt uint64 = 1 << 58

// KeyFunc maps a key to its integer representation for hashing. The
// mapping must be deterministic and should not collapse distinct keys
// systematically; values are reduced mod kHashPrime before use. A table
// captures its KeyFunc at construction and never changes it.
type KeyFunc[K comparable] func(K) uint64

type entry[K comparable, V any] struct {
	key   K
	value V
	next  *entry[K, V]
}

// ChainMap is a chained hash table over keys of type K and values of
// type V. The zero value is not usable; construct with New.
type ChainMap[K comparable, V any] struct {
	buckets       []*entry[K, V]
	elemCnt       uint64
	maxLoadFactor float64
	keyFn         KeyFunc[K]
	rnd           *rand.Rand

	// active universal hash parameters, re-rolled on every resize
	a uint64
	b uint64

	collisionCnt uint64
	resizeCnt    uint64
	opCnt        uint64
}

type options struct {
	capacity      int
	maxLoadFactor float64
	src           rand.Source
}

// Option configures a ChainMap at construction.
type Option func(*options)

// WithCapacity sets the initial bucket count. It must be positive.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithMaxLoadFactor sets the load-factor threshold that triggers a
// resize. It must lie in (0, 1].
func WithMaxLoadFactor(f float64) Option {
	return func(o *options) {
		o.maxLoadFactor = f
	}
}

// WithRandSource supplies the randomness used to draw hash parameters.
// Pass a fixed-seed source for deterministic layouts in tests.
func WithRandSource(src rand.Source) Option {
	return func(o *options) {
		o.src = src
	}
}

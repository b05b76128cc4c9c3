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
	"github.com/cespare/xxhash/v2"
	"golang.org/x/exp/constraints"
)

// StringKey folds a string into an integer by evaluating it as a base-31
// digit sequence mod kHashPrime. This is the canonical string mapping:
// structurally distinct strings yield distinct polynomials, so keys do
// not degenerate systematically.
func StringKey(s string) uint64 {
	var h uint64
	for i := 0; i < len(s); i++ {
		h = (h*31 + uint64(s[i])) % kHashPrime
	}
	return h
}

// IntKey maps an integer key through its two's-complement bit pattern
// reduced mod kHashPrime.
func IntKey[T constraints.Integer](v T) uint64 {
	return uint64(v) % kHashPrime
}

// StringHashKey maps a string through xxHash64 of its bytes. Preferred
// over StringKey for long or adversarially similar keys, at the cost of
// a fixed 64-bit intermediate.
func StringHashKey(s string) uint64 {
	return xxhash.Sum64String(s) % kHashPrime
}

// BytesHash maps an arbitrary byte slice through xxHash64. Composite
// key types can serialize themselves and delegate here.
func BytesHash(b []byte) uint64 {
	return xxhash.Sum64(b) % kHashPrime
}

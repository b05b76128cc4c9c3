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
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringKey(t *testing.T) {
	require.Equal(t, uint64(0), StringKey(""))
	require.Equal(t, uint64('a'), StringKey("a"))
	require.Equal(t, uint64('a')*31+uint64('b'), StringKey("ab"))

	// base-31 fold keeps structurally distinct strings apart
	require.NotEqual(t, StringKey("ab"), StringKey("ba"))
	require.Less(t, StringKey("some fairly long key to force modular reduction"), kHashPrime)
}

func TestIntKey(t *testing.T) {
	require.Equal(t, uint64(0), IntKey(int64(0)))
	require.Equal(t, uint64(123), IntKey(int32(123)))
	require.Less(t, IntKey(int64(-1)), kHashPrime)
	// same bit pattern, same mapping, every time
	require.Equal(t, IntKey(int64(-42)), IntKey(int64(-42)))
}

func TestBytesHash(t *testing.T) {
	require.Less(t, BytesHash([]byte("abc")), kHashPrime)
	require.Equal(t, BytesHash([]byte("abc")), BytesHash([]byte("abc")))
	require.NotEqual(t, BytesHash([]byte("abc")), BytesHash([]byte("abd")))
	require.Equal(t, StringHashKey("abc"), BytesHash([]byte("abc")))
}

func TestHashParamsInRange(t *testing.T) {
	for seed := int64(0); seed < 100; seed++ {
		ht, err := New[string, int](StringKey, WithRandSource(rand.NewSource(seed)))
		require.NoError(t, err)
		require.GreaterOrEqual(t, ht.a, uint64(1))
		require.Less(t, ht.a, kHashPrime)
		require.Less(t, ht.b, kHashPrime)
	}
}

// Universal hashing bounds the collision probability of two distinct
// keys by 1/m over the random draw of (a, b). Checked in aggregate over
// many independently parameterized tables.
func TestUniversalCollisionBound(t *testing.T) {
	const (
		trials = 10000
		m      = 64
	)
	pairs := [][2]string{
		{"key_1", "key_2"},
		{"aa", "ab"},
		{"", "x"},
		{"collision", "candidate"},
	}
	for _, pair := range pairs {
		collisions := 0
		for seed := int64(0); seed < trials; seed++ {
			ht, err := New[string, int](StringKey,
				WithCapacity(m), WithRandSource(rand.NewSource(seed)))
			require.NoError(t, err)
			if ht.hash(pair[0]) == ht.hash(pair[1]) {
				collisions++
			}
		}
		// expected at most trials/m = 156; allow generous slack
		require.Less(t, collisions, trials/m*3,
			"pair %v collides too often", pair)
	}
}

// With n keys in m buckets the mean chain length equals alpha = n/m and
// the longest chain stays short under the collision bound.
func TestChainLengthDistribution(t *testing.T) {
	const rows = 12288
	ht, err := New[string, int](StringKey,
		WithCapacity(16384), WithRandSource(rand.NewSource(1)))
	require.NoError(t, err)
	for i := 0; i < rows; i++ {
		require.NoError(t, ht.Insert(fmt.Sprintf("key_%d", i), i))
	}

	st := ht.Stats()
	require.Equal(t, uint64(0), st.Resizes)
	require.InDelta(t, st.LoadFactor, st.MeanChain, 1e-9)
	require.GreaterOrEqual(t, st.MeanOccupied, st.MeanChain)
	require.Less(t, st.MaxChain, uint64(16))
}

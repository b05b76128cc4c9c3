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
	"github.com/matrixorigin/chainmap/pkg/common/moerr"
)

// ChainMapIterator walks every entry of a ChainMap in unspecified
// order. The table must not be modified while an iterator is live.
type ChainMapIterator[K comparable, V any] struct {
	table *ChainMap[K, V]
	pos   uint64
	cur   *entry[K, V]
}

func (it *ChainMapIterator[K, V]) Init(ht *ChainMap[K, V]) {
	it.table = ht
	it.pos = 0
	it.cur = nil
}

// Next returns the next entry, or an ErrIteratorExhausted moerr once
// every entry has been visited.
func (it *ChainMapIterator[K, V]) Next() (key K, value V, err error) {
	for it.cur == nil {
		if it.pos >= uint64(len(it.table.buckets)) {
			err = moerr.NewIteratorExhausted()
			return
		}
		it.cur = it.table.buckets[it.pos]
		it.pos++
	}

	key, value = it.cur.key, it.cur.value
	it.cur = it.cur.next
	return
}

// Copyright 2021 - 2022 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package moerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewError(t *testing.T) {
	err := NewBadConfig("initial capacity must be positive, got %d", -1)
	require.Equal(t, ErrBadConfig, err.ErrorCode())
	require.Equal(t, "invalid configuration: initial capacity must be positive, got -1", err.Error())
	require.False(t, err.Succeeded())
}

func TestIsMoErrCode(t *testing.T) {
	require.True(t, IsMoErrCode(nil, Ok))
	require.False(t, IsMoErrCode(nil, ErrBadConfig))

	err := NewCapacityExceeded(1 << 62)
	require.True(t, IsMoErrCode(err, ErrCapacityExceeded))
	require.False(t, IsMoErrCode(err, ErrBadConfig))

	require.False(t, IsMoErrCode(errors.New("plain"), ErrInternal))
}

func TestUnknownCodePanics(t *testing.T) {
	require.Panics(t, func() {
		newError(ErrEnd)
	})
}

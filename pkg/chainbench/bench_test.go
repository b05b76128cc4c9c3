// Copyright 2022 Matrix Origin
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

package chainbench

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/chainmap/pkg/common/moerr"
	"github.com/matrixorigin/chainmap/pkg/config"
)

func testParams() *config.BenchParameters {
	p := config.NewDefaultBenchParameters()
	p.Sizes = []int{64, 256}
	p.Trials = 2
	p.Parallelism = 2
	p.SearchSamples = 32
	p.SweepLoadFactors = []float64{0.25, 0.75}
	p.Seed = 42
	return p
}

func TestNewRunner(t *testing.T) {
	_, err := NewRunner(nil)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArg))

	bad := testParams()
	bad.Trials = 0
	_, err = NewRunner(bad)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig))

	r, err := NewRunner(testParams())
	require.NoError(t, err)
	require.NotNil(t, r)
}

func TestRun(t *testing.T) {
	r, err := NewRunner(testParams())
	require.NoError(t, err)

	sizeResults, sweepResults, err := r.Run()
	require.NoError(t, err)
	require.Len(t, sizeResults, 2)
	require.Len(t, sweepResults, 2)

	for i, res := range sizeResults {
		require.Equal(t, testParams().Sizes[i], res.Size)
		require.Greater(t, res.InsertTotalMean, 0.0)
		require.Greater(t, res.SearchPerOpMean, 0.0)
		require.Greater(t, res.DeletePerOpMean, 0.0)
		// the resize controller keeps the final table under threshold
		require.LessOrEqual(t, res.LoadFactorMean, 0.75)
		require.Greater(t, res.ResizesMean, 0.0)
	}

	for i, res := range sweepResults {
		require.InDelta(t, testParams().SweepLoadFactors[i], res.LoadFactor, 0.01)
		require.Greater(t, res.SearchPerOp, 0.0)
		require.GreaterOrEqual(t, res.OccupiedChain, 1.0)
	}
	// longer chains as the sweep load factor rises
	require.GreaterOrEqual(t, sweepResults[1].OccupiedChain, sweepResults[0].OccupiedChain)
}

func TestWriteCSV(t *testing.T) {
	r, err := NewRunner(testParams())
	require.NoError(t, err)
	sizeResults, sweepResults, err := r.Run()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, WriteCSV(path, sizeResults, sweepResults))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	// header + one row per size + one per sweep point
	require.Len(t, rows, 1+len(sizeResults)+len(sweepResults))
	require.Equal(t, "suite", rows[0][0])
	require.Equal(t, "size", rows[1][0])
	require.Equal(t, "sweep", rows[len(rows)-1][0])
}

func TestWriteCSVBadPath(t *testing.T) {
	err := WriteCSV(filepath.Join(t.TempDir(), "missing", "results.csv"), nil, nil)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
}

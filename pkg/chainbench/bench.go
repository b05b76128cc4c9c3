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

// Package chainbench measures chainmap performance over configurable
// workloads: per-size insert/search/delete timings aggregated across
// trials, and a load-factor sweep relating search cost to chain length.
// Trials run concurrently on a worker pool; every trial owns a private
// table, so the single-threaded table contract holds.
package chainbench

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/panjf2000/ants/v2"

	"github.com/matrixorigin/chainmap/pkg/common/moerr"
	"github.com/matrixorigin/chainmap/pkg/config"
	"github.com/matrixorigin/chainmap/pkg/container/chainmap"
)

// SizeResult aggregates the trials of one benchmark size. Timings are
// seconds; per-op values are averaged over the sampled operations.
type SizeResult struct {
	Size int

	InsertTotalMean   float64
	InsertTotalStddev float64
	SearchPerOpMean   float64
	SearchPerOpP95    float64
	DeletePerOpMean   float64

	LoadFactorMean    float64
	OccupiedChainMean float64
	CollisionRateMean float64
	ResizesMean       float64
}

// SweepResult is one probed point of the load-factor sweep.
type SweepResult struct {
	LoadFactor    float64
	SearchPerOp   float64
	OccupiedChain float64
	MaxChain      uint64
}

type trialResult struct {
	insertTotal float64
	searchPerOp float64
	deletePerOp float64
	st          chainmap.Stats
}

// Runner executes the configured benchmark suites.
type Runner struct {
	params *config.BenchParameters
	seed   int64
}

func NewRunner(params *config.BenchParameters) (*Runner, error) {
	if params == nil {
		return nil, moerr.NewInvalidArg("bench parameters", nil)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	seed := params.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Runner{params: params, seed: seed}, nil
}

// Run executes the per-size suite followed by the load-factor sweep.
func (r *Runner) Run() ([]SizeResult, []SweepResult, error) {
	pool, err := ants.NewPool(r.params.Parallelism)
	if err != nil {
		return nil, nil, moerr.NewInternalError("cannot start worker pool: %v", err)
	}
	defer pool.Release()

	sizeResults := make([]SizeResult, 0, len(r.params.Sizes))
	for _, size := range r.params.Sizes {
		res, err := r.runSize(pool, size)
		if err != nil {
			return nil, nil, err
		}
		sizeResults = append(sizeResults, res)
	}

	sweepResults := make([]SweepResult, 0, len(r.params.SweepLoadFactors))
	for _, lf := range r.params.SweepLoadFactors {
		res, err := r.runSweepPoint(lf)
		if err != nil {
			return nil, nil, err
		}
		sweepResults = append(sweepResults, res)
	}
	return sizeResults, sweepResults, nil
}

func (r *Runner) runSize(pool *ants.Pool, size int) (SizeResult, error) {
	trials := make([]trialResult, r.params.Trials)
	errs := make([]error, r.params.Trials)

	var wg sync.WaitGroup
	for i := 0; i < r.params.Trials; i++ {
		i := i
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			trials[i], errs[i] = r.runTrial(size, r.seed+int64(size)*1000+int64(i))
		}); err != nil {
			wg.Done()
			errs[i] = moerr.NewInternalError("cannot submit trial: %v", err)
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return SizeResult{}, err
		}
	}
	return aggregate(size, trials)
}

// runTrial replays the canonical workload against a fresh table: bulk
// insert, sampled searches, then a sampled batch of deletes.
func (r *Runner) runTrial(size int, seed int64) (trialResult, error) {
	ht, err := chainmap.New[string, int](chainmap.StringKey,
		chainmap.WithCapacity(r.params.InitialCapacity),
		chainmap.WithMaxLoadFactor(r.params.MaxLoadFactor),
		chainmap.WithRandSource(rand.NewSource(seed)))
	if err != nil {
		return trialResult{}, err
	}

	keys := make([]string, size)
	for i := range keys {
		keys[i] = fmt.Sprintf("key_%d", i)
	}

	var res trialResult

	start := time.Now()
	for i, k := range keys {
		if err := ht.Insert(k, i); err != nil {
			return trialResult{}, err
		}
	}
	res.insertTotal = time.Since(start).Seconds()

	rnd := rand.New(rand.NewSource(seed + 1))
	searchKeys := sampleKeys(rnd, keys, r.params.SearchSamples)
	start = time.Now()
	for _, k := range searchKeys {
		ht.Find(k)
	}
	res.searchPerOp = time.Since(start).Seconds() / float64(len(searchKeys))

	deleteKeys := sampleKeys(rnd, keys, max(1, size/10))
	start = time.Now()
	for _, k := range deleteKeys {
		ht.Delete(k)
	}
	res.deletePerOp = time.Since(start).Seconds() / float64(len(deleteKeys))

	res.st = ht.Stats()
	return res, nil
}

func (r *Runner) runSweepPoint(lf float64) (SweepResult, error) {
	// Size the table so that inserting n elements lands exactly on the
	// target load factor without ever crossing the resize threshold.
	capacity := r.params.InitialCapacity
	for _, size := range r.params.Sizes {
		if size > capacity {
			capacity = size
		}
	}
	n := int(float64(capacity) * lf)
	if n < 1 {
		n = 1
	}

	ht, err := chainmap.New[string, int](chainmap.StringKey,
		chainmap.WithCapacity(capacity),
		chainmap.WithMaxLoadFactor(1.0),
		chainmap.WithRandSource(rand.NewSource(r.seed)))
	if err != nil {
		return SweepResult{}, err
	}

	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("key_%d", i)
		if err := ht.Insert(keys[i], i); err != nil {
			return SweepResult{}, err
		}
	}

	rnd := rand.New(rand.NewSource(r.seed + 1))
	searchKeys := sampleKeys(rnd, keys, r.params.SearchSamples)
	start := time.Now()
	for _, k := range searchKeys {
		ht.Find(k)
	}

	st := ht.Stats()
	return SweepResult{
		LoadFactor:    st.LoadFactor,
		SearchPerOp:   time.Since(start).Seconds() / float64(len(searchKeys)),
		OccupiedChain: st.MeanOccupied,
		MaxChain:      st.MaxChain,
	}, nil
}

func aggregate(size int, trials []trialResult) (SizeResult, error) {
	inserts := make([]float64, len(trials))
	searches := make([]float64, len(trials))
	deletes := make([]float64, len(trials))
	loadFactors := make([]float64, len(trials))
	occupied := make([]float64, len(trials))
	collisionRates := make([]float64, len(trials))
	resizes := make([]float64, len(trials))
	for i, tr := range trials {
		inserts[i] = tr.insertTotal
		searches[i] = tr.searchPerOp
		deletes[i] = tr.deletePerOp
		loadFactors[i] = tr.st.LoadFactor
		occupied[i] = tr.st.MeanOccupied
		resizes[i] = float64(tr.st.Resizes)
		if tr.st.TotalOps > 0 {
			collisionRates[i] = float64(tr.st.Collisions) / float64(tr.st.TotalOps)
		}
	}

	res := SizeResult{Size: size}
	var err error
	if res.InsertTotalMean, err = stats.Mean(inserts); err != nil {
		return res, moerr.NewInternalError("aggregate insert mean: %v", err)
	}
	if res.InsertTotalStddev, err = stats.StandardDeviation(inserts); err != nil {
		return res, moerr.NewInternalError("aggregate insert stddev: %v", err)
	}
	if res.SearchPerOpMean, err = stats.Mean(searches); err != nil {
		return res, moerr.NewInternalError("aggregate search mean: %v", err)
	}
	if res.SearchPerOpP95, err = stats.Percentile(searches, 95); err != nil {
		// Percentile needs more than one sample; fall back to the mean.
		res.SearchPerOpP95 = res.SearchPerOpMean
	}
	if res.DeletePerOpMean, err = stats.Mean(deletes); err != nil {
		return res, moerr.NewInternalError("aggregate delete mean: %v", err)
	}
	res.LoadFactorMean, _ = stats.Mean(loadFactors)
	res.OccupiedChainMean, _ = stats.Mean(occupied)
	res.CollisionRateMean, _ = stats.Mean(collisionRates)
	res.ResizesMean, _ = stats.Mean(resizes)
	return res, nil
}

func sampleKeys(rnd *rand.Rand, keys []string, n int) []string {
	if n >= len(keys) {
		return keys
	}
	sampled := make([]string, n)
	perm := rnd.Perm(len(keys))
	for i := 0; i < n; i++ {
		sampled[i] = keys[perm[i]]
	}
	return sampled
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Copyright 2021 Matrix Origin
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

package config

import (
	"github.com/BurntSushi/toml"

	"github.com/matrixorigin/chainmap/pkg/common/moerr"
	"github.com/matrixorigin/chainmap/pkg/logutil"
)

// BenchParameters drives the chainmap benchmark harness.
type BenchParameters struct {
	//table sizes to benchmark, in elements
	Sizes []int `toml:"sizes"`

	//trials per size; results are aggregated across trials
	Trials int `toml:"trials"`

	//trials running at the same time
	Parallelism int `toml:"parallelism"`

	//initial bucket count of each trial table
	InitialCapacity int `toml:"initialCapacity"`

	//resize threshold of each trial table
	MaxLoadFactor float64 `toml:"maxLoadFactor"`

	//load factors probed by the sweep, each in (0, 1]
	SweepLoadFactors []float64 `toml:"sweepLoadFactors"`

	//searches sampled per trial
	SearchSamples int `toml:"searchSamples"`

	//seed for deterministic runs; 0 means seed from the clock
	Seed int64 `toml:"seed"`

	//path of the CSV results file; empty disables the file
	ResultsFile string `toml:"resultsFile"`

	Log logutil.LogConfig `toml:"log"`
}

// NewDefaultBenchParameters returns the parameters used when no config
// file is given.
func NewDefaultBenchParameters() *BenchParameters {
	return &BenchParameters{
		Sizes:            []int{100, 500, 1000, 5000, 10000},
		Trials:           3,
		Parallelism:      2,
		InitialCapacity:  16,
		MaxLoadFactor:    0.75,
		SweepLoadFactors: []float64{0.1, 0.25, 0.5, 0.75, 0.9, 1.0},
		SearchSamples:    1000,
		Log:              logutil.LogConfig{Level: "info", Format: "console"},
	}
}

// LoadBenchParameters parses the toml file at path over the defaults.
func LoadBenchParameters(path string) (*BenchParameters, error) {
	params := NewDefaultBenchParameters()
	if _, err := toml.DecodeFile(path, params); err != nil {
		return nil, moerr.NewBadConfig("cannot parse %s: %v", path, err)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *BenchParameters) Validate() error {
	if len(p.Sizes) == 0 {
		return moerr.NewBadConfig("no benchmark sizes given")
	}
	for _, n := range p.Sizes {
		if n <= 0 {
			return moerr.NewBadConfig("benchmark size must be positive, got %d", n)
		}
	}
	if p.Trials <= 0 {
		return moerr.NewBadConfig("trials must be positive, got %d", p.Trials)
	}
	if p.Parallelism <= 0 {
		return moerr.NewBadConfig("parallelism must be positive, got %d", p.Parallelism)
	}
	if p.InitialCapacity <= 0 {
		return moerr.NewBadConfig("initial capacity must be positive, got %d", p.InitialCapacity)
	}
	if p.MaxLoadFactor <= 0 || p.MaxLoadFactor > 1 {
		return moerr.NewBadConfig("max load factor must be in (0, 1], got %v", p.MaxLoadFactor)
	}
	for _, lf := range p.SweepLoadFactors {
		if lf <= 0 || lf > 1 {
			return moerr.NewBadConfig("sweep load factor must be in (0, 1], got %v", lf)
		}
	}
	if p.SearchSamples <= 0 {
		return moerr.NewBadConfig("search samples must be positive, got %d", p.SearchSamples)
	}
	return nil
}

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

package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/matrixorigin/chainmap/pkg/chainbench"
	"github.com/matrixorigin/chainmap/pkg/config"
	"github.com/matrixorigin/chainmap/pkg/logutil"
)

var (
	configFile  = flag.String("config", "", "path of the benchmark configuration file")
	resultsFile = flag.String("results", "", "override the CSV results path")
)

func main() {
	flag.Parse()

	params := config.NewDefaultBenchParameters()
	if *configFile != "" {
		var err error
		params, err = config.LoadBenchParameters(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "chainmap-bench: %v\n", err)
			os.Exit(1)
		}
	}
	if *resultsFile != "" {
		params.ResultsFile = *resultsFile
	}

	logutil.SetupGlobalLogger(params.Log)
	logutil.Info("starting benchmark",
		zap.Ints("sizes", params.Sizes),
		zap.Int("trials", params.Trials),
		zap.Int("parallelism", params.Parallelism),
		zap.Int64("seed", params.Seed))

	runner, err := chainbench.NewRunner(params)
	if err != nil {
		logutil.Error("cannot build runner", zap.Error(err))
		os.Exit(1)
	}

	sizeResults, sweepResults, err := runner.Run()
	if err != nil {
		logutil.Error("benchmark failed", zap.Error(err))
		os.Exit(1)
	}

	chainbench.Report(sizeResults, sweepResults)
	if params.ResultsFile != "" {
		if err := chainbench.WriteCSV(params.ResultsFile, sizeResults, sweepResults); err != nil {
			logutil.Error("cannot write results file", zap.Error(err))
			os.Exit(1)
		}
		logutil.Info("results written", zap.String("file", params.ResultsFile))
	}
}

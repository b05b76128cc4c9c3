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
	"strconv"

	"go.uber.org/zap"

	"github.com/matrixorigin/chainmap/pkg/common/moerr"
	"github.com/matrixorigin/chainmap/pkg/logutil"
)

// Report logs one line per result through the global logger.
func Report(sizeResults []SizeResult, sweepResults []SweepResult) {
	for _, res := range sizeResults {
		logutil.Info("size benchmark",
			zap.Int("size", res.Size),
			zap.Float64("insertTotalSec", res.InsertTotalMean),
			zap.Float64("insertStddevSec", res.InsertTotalStddev),
			zap.Float64("searchPerOpSec", res.SearchPerOpMean),
			zap.Float64("searchP95Sec", res.SearchPerOpP95),
			zap.Float64("deletePerOpSec", res.DeletePerOpMean),
			zap.Float64("loadFactor", res.LoadFactorMean),
			zap.Float64("occupiedChain", res.OccupiedChainMean),
			zap.Float64("collisionRate", res.CollisionRateMean),
			zap.Float64("resizes", res.ResizesMean))
	}
	for _, res := range sweepResults {
		logutil.Info("load factor sweep",
			zap.Float64("loadFactor", res.LoadFactor),
			zap.Float64("searchPerOpSec", res.SearchPerOp),
			zap.Float64("occupiedChain", res.OccupiedChain),
			zap.Uint64("maxChain", res.MaxChain))
	}
}

// WriteCSV writes both result sets to one file for external plotting.
// Sweep rows carry a zero size, distinguishing the two suites.
func WriteCSV(path string, sizeResults []SizeResult, sweepResults []SweepResult) error {
	f, err := os.Create(path)
	if err != nil {
		return moerr.NewInvalidInput("cannot create results file %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"suite", "size", "load_factor",
		"insert_total_sec", "search_per_op_sec", "delete_per_op_sec",
		"occupied_chain", "collision_rate", "resizes", "max_chain",
	}
	if err := w.Write(header); err != nil {
		return moerr.NewInternalError("write results header: %v", err)
	}

	ff := func(v float64) string {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	for _, res := range sizeResults {
		row := []string{
			"size", strconv.Itoa(res.Size), ff(res.LoadFactorMean),
			ff(res.InsertTotalMean), ff(res.SearchPerOpMean), ff(res.DeletePerOpMean),
			ff(res.OccupiedChainMean), ff(res.CollisionRateMean), ff(res.ResizesMean), "",
		}
		if err := w.Write(row); err != nil {
			return moerr.NewInternalError("write results row: %v", err)
		}
	}
	for _, res := range sweepResults {
		row := []string{
			"sweep", "0", ff(res.LoadFactor),
			"", ff(res.SearchPerOp), "",
			ff(res.OccupiedChain), "", "", strconv.FormatUint(res.MaxChain, 10),
		}
		if err := w.Write(row); err != nil {
			return moerr.NewInternalError("write results row: %v", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return moerr.NewInternalError("flush results file: %v", err)
	}
	return nil
}

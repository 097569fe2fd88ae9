// Copyright 2024 The Fragplan Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package planner

import (
	"math"

	"github.com/pedia/dremio-oss/endpoint"
	"github.com/pedia/dremio-oss/operator"
)

// decideWidth applies the rules in order, returning the frozen
// width for w or a WIDTH_UNSATISFIABLE error if clamping empties the
// interval.
func decideWidth(w *wrapper, isRoot bool, params Params, active []endpoint.Endpoint) (int, error) {
	if isRoot {
		return 1, nil // the root fragment always runs as a single minor fragment
	}

	width := int(math.Ceil(w.stats.cost / float64(maxInt(params.SliceTarget, 1))))
	if width < 1 {
		width = 1
	}

	lo, hi := 1, math.MaxInt32
	if w.stats.minWidth > 0 {
		lo = w.stats.minWidth
	}
	if w.stats.maxWidth > 0 {
		hi = minInt(hi, w.stats.maxWidth)
	}
	hi = minInt(hi, params.MaxWidthPerNode*maxInt(len(active), 1))
	hi = minInt(hi, params.MaxGlobalWidth)

	if w.stats.distributionAffinity == operator.AffinityHard {
		eligible := countNonZeroAffinity(w.stats.affinity)
		hi = minInt(hi, maxInt(eligible, 0))
	}

	if lo > hi {
		return 0, newPlanSetupErrorf(ReasonWidthUnsatisfiable, w.fragment.MajorFragmentID,
			"width interval empty after clamping: min=%d cost-driven=%d max=%d (per-node=%d global=%d affinity-eligible=%v)",
			lo, width, hi, params.MaxWidthPerNode, params.MaxGlobalWidth, w.stats.distributionAffinity == operator.AffinityHard)
	}

	width = clampInt(width, lo, hi)
	if width < 1 {
		width = 1
	}
	return width, nil
}

func countNonZeroAffinity(affinity map[string]float64) int {
	n := 0
	for _, v := range affinity {
		if v > 0 {
			n++
		}
	}
	return n
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

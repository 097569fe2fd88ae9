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
	"github.com/pedia/dremio-oss/endpoint"
	"github.com/pedia/dremio-oss/fragment"
	"github.com/pedia/dremio-oss/operator"
)

// state tracks how far a Wrapper has progressed through the pipeline.
// Transitions are one-way; parallelizeOne uses this to make
// re-visiting an already-processed Wrapper (via a diamond in the
// dependency graph) a no-op instead of redoing work.
type state int

const (
	stateNew state = iota
	stateStatsCollected
	stateSized
	stateAssigned
)

// wrapper is the planner's mutable per-fragment state. Wrappers
// live in a PlanningSet's arena and refer to each other by integer id,
// never by pointer, which is what lets the dependency graph be a DAG
// over plain ints instead of a web of pointers that would need manual
// cycle-breaking.
type wrapper struct {
	id       int
	fragment *fragment.Fragment

	// dependencies holds ids of other wrappers in the same
	// PlanningSet that must be sized before this one.
	dependencies []int

	stats stats

	width int
	// assignedEndpoints is indexed by minor fragment id once width is
	// frozen; len(assignedEndpoints) == width.
	assignedEndpoints []endpoint.Endpoint

	// splitSets[m] is the scan splits assigned to minor fragment m,
	// computed once width and the fragment's scan splits are both
	// known. Read by Materialize.
	splitSets [][]operator.Split

	initialAllocation int64
	maxAllocation      int64

	state state
}

func (w *wrapper) isLeaf() bool {
	return w.fragment.IsLeaf()
}

// resetAllocation sets the allocation fields ahead of materializing
// one minor fragment. In this model the allocation bounds are
// fragment-wide (computed once by the stats collector), so every minor
// fragment gets the same memInitial/memMax from w.stats; these fields
// stay zero until the first reset.
func (w *wrapper) resetAllocation() {
	w.initialAllocation = w.stats.memInitial
	w.maxAllocation = w.stats.memMax
}

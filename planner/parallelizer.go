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
	"github.com/pedia/dremio-oss/operator"
)

// budget is the shared, query-wide bookkeeping the parallelizer
// threads through the dependency-ordered recursion: how much global
// width is left and how many minor fragments each node has
// already been handed by previously-sized fragments. It is owned
// by one getFragments call and never shared across invocations.
type budget struct {
	remainingGlobalWidth int
	perNodeUsed          map[string]int
}

func newBudget(params Params) *budget {
	return &budget{
		remainingGlobalWidth: params.MaxGlobalWidth,
		perNodeUsed:          make(map[string]int),
	}
}

func (b *budget) commit(width int, assigned []endpoint.Endpoint) {
	b.remainingGlobalWidth -= width
	for _, e := range assigned {
		b.perNodeUsed[e.Key()]++
	}
}

// parallelize sizes and assigns every wrapper reachable from roots, in
// dependency order: for each wrapper, its dependencies are
// parallelized first, then the wrapper's own stats/width/assignment
// are computed. It is idempotent per wrapper via the state check, so a
// diamond in the dependency graph costs nothing extra.
func parallelize(
	ps *PlanningSet,
	roots []*wrapper,
	nodeMap *endpoint.NodeMap,
	params Params,
	creator assignmentCreator,
	b *budget,
) error {
	for _, root := range roots {
		if err := parallelizeOne(root, ps, nodeMap, params, creator, b); err != nil {
			return err
		}
	}
	return nil
}

func parallelizeOne(
	w *wrapper,
	ps *PlanningSet,
	nodeMap *endpoint.NodeMap,
	params Params,
	creator assignmentCreator,
	b *budget,
) error {
	if w.state == stateAssigned {
		return nil
	}

	for _, depID := range w.dependencies {
		dep := ps.wrappers[depID]
		if err := parallelizeOne(dep, ps, nodeMap, params, creator, b); err != nil {
			return err
		}
	}

	w.stats = collectStats(w, nodeMap, ps)
	w.state = stateStatsCollected

	if err := checkHardAffinity(w, nodeMap); err != nil {
		return err
	}

	isRoot := w == ps.root
	localParams := params
	localParams.MaxGlobalWidth = maxInt(b.remainingGlobalWidth, 0)
	width, err := decideWidth(w, isRoot, localParams, nodeMap.Active())
	if err != nil {
		return err
	}
	w.width = width
	w.state = stateSized

	if len(eligibleEndpoints(w.stats, nodeMap.Active())) == 0 {
		return newPlanSetupErrorf(ReasonWidthUnsatisfiable, w.fragment.MajorFragmentID,
			"fragment %d has no eligible endpoint to run on", w.fragment.MajorFragmentID)
	}
	assigned, err := creator.assign(width, w.stats, nodeMap.Active(), params, b.perNodeUsed)
	if err != nil {
		return err
	}
	if len(assigned) != width {
		return newPlanSetupErrorf(ReasonWidthUnsatisfiable, w.fragment.MajorFragmentID,
			"fragment %d: only %d of %d minor fragments fit under the remaining per-node capacity",
			w.fragment.MajorFragmentID, len(assigned), width)
	}
	w.assignedEndpoints = assigned
	w.splitSets = distributeSplits(w.stats.splits, width)
	w.state = stateAssigned

	b.commit(width, assigned)
	return nil
}

// checkHardAffinity fails fast with UNAVAILABLE_PINNED_ENDPOINT when a
// HARD-affinity fragment names only endpoints that are no longer
// active, instead of letting that surface as the more generic
// WIDTH_UNSATISFIABLE once the eligible-endpoint count collapses to
// zero.
func checkHardAffinity(w *wrapper, nodeMap *endpoint.NodeMap) error {
	if w.stats.distributionAffinity != operator.AffinityHard {
		return nil
	}
	if len(w.stats.rawAffinity) == 0 {
		return nil // HARD with no declared targets at all; nothing to pin to.
	}
	if !w.stats.hasAvailablePinnedEndpoint(nodeMap) {
		return newPlanSetupErrorf(ReasonUnavailablePinnedEndpoint, w.fragment.MajorFragmentID,
			"fragment %d has HARD distribution affinity but none of its pinned endpoints are active",
			w.fragment.MajorFragmentID)
	}
	return nil
}

// distributeSplits round-robins a fragment's scan splits across its
// minor fragments once width is known, giving Materialize something
// concrete to hand each minor's scan operator.
func distributeSplits(splits []operator.Split, width int) [][]operator.Split {
	sets := make([][]operator.Split, width)
	for i, s := range splits {
		m := i % width
		sets[m] = append(sets[m], s)
	}
	return sets
}

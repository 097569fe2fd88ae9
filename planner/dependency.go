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

import "github.com/pedia/dremio-oss/fragment"

// buildDependencyGraph converts exchange-level dependency tags into a
// Wrapper-level partial order and returns the roots: the wrappers
// that do not appear in any other wrapper's dependency list,
// i.e. nothing needs them sized first. Sizing proceeds by recursing
// into a wrapper's dependencies before sizing the wrapper itself, so
// starting from these roots and recursing reaches every wrapper in a
// valid topological order.
func buildDependencyGraph(ps *PlanningSet) ([]*wrapper, error) {
	for _, w := range ps.all() {
		sending := w.fragment.Sending
		if sending == nil {
			continue
		}
		receiver := ps.getOrCreate(sending.Fragment)
		switch sending.Exchange.Dependency {
		case fragment.ReceiverDependsOnSender:
			receiver.dependencies = append(receiver.dependencies, w.id)
		case fragment.SenderDependsOnReceiver:
			w.dependencies = append(w.dependencies, receiver.id)
		case fragment.NoDependency:
			// no edge
		}
	}

	if err := detectCycle(ps); err != nil {
		return nil, err
	}

	isDependency := make(map[int]bool, ps.Len())
	for _, w := range ps.all() {
		for _, dep := range w.dependencies {
			isDependency[dep] = true
		}
	}

	var roots []*wrapper
	for _, w := range ps.all() {
		if !isDependency[w.id] {
			roots = append(roots, w)
		}
	}
	return roots, nil
}

// detectCycle rejects both genuine cycles and self-loops in the
// dependency graph.
func detectCycle(ps *PlanningSet) error {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	mark := make(map[int]int, ps.Len())

	var visit func(id int) error
	visit = func(id int) error {
		switch mark[id] {
		case done:
			return nil
		case visiting:
			w := ps.wrappers[id]
			return newPlanSetupErrorf(ReasonCycle, w.fragment.MajorFragmentID,
				"dependency cycle detected at fragment %d", w.fragment.MajorFragmentID)
		}
		mark[id] = visiting
		w := ps.wrappers[id]
		for _, dep := range w.dependencies {
			if dep == id {
				return newPlanSetupErrorf(ReasonCycle, w.fragment.MajorFragmentID,
					"fragment %d depends on itself", w.fragment.MajorFragmentID)
			}
			if err := visit(dep); err != nil {
				return err
			}
		}
		mark[id] = done
		return nil
	}

	for _, w := range ps.all() {
		if err := visit(w.id); err != nil {
			return err
		}
	}
	return nil
}

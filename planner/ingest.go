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

// ingest walks the fragment tree from root, allocating one Wrapper per
// reachable Fragment in a PlanningSet. Traversal follows each
// fragment's receiving exchange pairs (the fragments that feed into
// it), depth first; a Fragment still "in progress" on the current
// recursion stack being revisited indicates a cycle.
func ingest(root *fragment.Fragment) (*PlanningSet, error) {
	ps := newPlanningSet()
	visiting := make(map[*fragment.Fragment]bool)

	var walk func(f *fragment.Fragment) error
	walk = func(f *fragment.Fragment) error {
		if visiting[f] {
			return newPlanSetupErrorf(ReasonCycle, f.MajorFragmentID,
				"fragment %d revisited while still in progress", f.MajorFragmentID)
		}
		visiting[f] = true
		defer delete(visiting, f)

		ps.getOrCreate(f)
		for _, pair := range f.Receiving {
			if err := walk(pair.Fragment); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(root); err != nil {
		return nil, err
	}
	ps.root = ps.getOrCreate(root)
	return ps, nil
}

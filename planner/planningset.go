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

// PlanningSet is the mapping Fragment -> Wrapper, iterable in
// insertion order. It owns the wrapper arena for one getFragments call;
// nothing outside this package holds a Wrapper directly.
type PlanningSet struct {
	wrappers []*wrapper
	byFrag   map[*fragment.Fragment]int
	byMajor  map[int]*wrapper
	root     *wrapper
}

func newPlanningSet() *PlanningSet {
	return &PlanningSet{
		byFrag:  make(map[*fragment.Fragment]int),
		byMajor: make(map[int]*wrapper),
	}
}

// getOrCreate returns the Wrapper for f, creating it (and appending it
// to the arena, recording its position as its insertion order) on
// first lookup.
func (ps *PlanningSet) getOrCreate(f *fragment.Fragment) *wrapper {
	if idx, ok := ps.byFrag[f]; ok {
		return ps.wrappers[idx]
	}
	w := &wrapper{id: len(ps.wrappers), fragment: f}
	ps.byFrag[f] = w.id
	ps.wrappers = append(ps.wrappers, w)
	ps.byMajor[f.MajorFragmentID] = w
	return w
}

// Len reports how many fragments were reached from the root.
func (ps *PlanningSet) Len() int { return len(ps.wrappers) }

// all returns the wrappers in first-encounter (insertion) order.
func (ps *PlanningSet) all() []*wrapper { return ps.wrappers }

// wrapperByMajorID looks up a wrapper by its fragment's major id,
// used by materialization to resolve a Sender's or Receiver's opposite
// major fragment to that Wrapper's endpoint assignment, and by the
// stats collector to read a pinned opposite width.
func (ps *PlanningSet) wrapperByMajorID(majorID int) (*wrapper, bool) {
	w, ok := ps.byMajor[majorID]
	return w, ok
}

// MajorFragmentCount exposes the number of distinct major fragments in
// the set, mainly useful to callers sizing their own bookkeeping.
func (ps *PlanningSet) MajorFragmentCount() int { return len(ps.wrappers) }

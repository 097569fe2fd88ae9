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
	"github.com/google/uuid"

	"github.com/pedia/dremio-oss/endpoint"
	"github.com/pedia/dremio-oss/operator"
)

// emitRequest bundles the caller-supplied identity and payload fields
// the emitter stamps onto every PlanFragment.
type emitRequest struct {
	Options   OptionBlob
	Foreman   endpoint.Endpoint
	QueryID   uuid.UUID
	Session   SessionIdentity
	QueryInfo QueryContextInfo
	Codec     Codec
}

// emit produces one PlanFragment per (wrapper x minor id) pair, in
// PlanningSet order then ascending minor id. Every Wrapper must already
// be ASSIGNED; emit never partially returns — on the first error the
// whole call fails.
func emit(ps *PlanningSet, req emitRequest) ([]*PlanFragment, error) {
	var fragments []*PlanFragment

	for _, w := range ps.all() {
		isRoot := w == ps.root
		if isRoot && w.width != 1 {
			return nil, newForemanSetupError(w.fragment.MajorFragmentID,
				"root fragment must have width 1, got %d", w.width)
		}
		isLeaf := w.isLeaf()

		for minor := 0; minor < w.width; minor++ {
			w.resetAllocation()

			var splits []operator.Split
			if minor < len(w.splitSets) {
				splits = w.splitSets[minor]
			}
			materialized := materialize(w.fragment.Root, minor, splits, ps)
			// A non-root fragment is rooted at the Sender that feeds its
			// exchange, so a Sender is accepted as a fragment root too.
			if materialized.Kind != operator.KindFragmentRoot && materialized.Kind != operator.KindSender {
				return nil, newPlanSetupErrorf(ReasonRootTypeMismatch, w.fragment.MajorFragmentID,
					"materialized root for fragment %d minor %d has kind %v, want FragmentRoot or Sender",
					w.fragment.MajorFragmentID, minor, materialized.Kind)
			}

			fragmentBytes, err := marshal(w.fragment.MajorFragmentID, materialized, req.Codec)
			if err != nil {
				return nil, err
			}
			optionsBytes, err := marshal(w.fragment.MajorFragmentID, req.Options, req.Codec)
			if err != nil {
				return nil, err
			}

			fragments = append(fragments, &PlanFragment{
				Handle: Handle{
					QueryID:         req.QueryID,
					MajorFragmentID: w.fragment.MajorFragmentID,
					MinorFragmentID: minor,
				},
				Foreman:          req.Foreman,
				AssignedEndpoint: w.assignedEndpoints[minor],
				MemInitial:       w.initialAllocation,
				MemMax:           w.maxAllocation,
				FragmentBytes:    fragmentBytes,
				OptionsBytes:     optionsBytes,
				Credentials:      req.Session.Credentials,
				Collectors:       collectReceivers(materialized),
				Leaf:             isLeaf,
				Priority:         req.QueryInfo.Priority,
				Codec:            req.Codec,
			})
		}
	}

	return fragments, nil
}

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

// stats holds everything the stats collector derives for one fragment
// by walking its operator subtree once.
type stats struct {
	cost float64
	// maxWidth/minWidth of 0 means "unconstrained"; see foldMax/foldMin.
	maxWidth int
	minWidth int
	// affinity is keyed by endpoint.Key() and already projected onto
	// the active endpoint set: inactive endpoints never appear here.
	affinity map[string]float64
	// rawAffinity is the same sums before projection, used only to
	// tell "HARD-pinned to endpoints that are all inactive" apart from
	// "legitimately has zero affinity".
	rawAffinity          map[endpoint.Endpoint]float64
	distributionAffinity operator.DistributionAffinity
	memInitial           int64
	memMax               int64
	// splits is the flattened set of scan splits found anywhere in the
	// fragment's subtree, in encounter order.
	splits []operator.Split
}

// collectStats populates a fresh stats value by walking w's operator
// subtree once. ps resolves the wrapper on the other side of a
// PinnedToOppositeWidth Sender/Receiver; it must already have a frozen
// width, which the dependency-ordered recursion in parallelizer.go
// guarantees for the fragments that declare such a pin.
func collectStats(w *wrapper, nodeMap *endpoint.NodeMap, ps *PlanningSet) stats {
	s := stats{
		affinity:    make(map[string]float64),
		rawAffinity: make(map[endpoint.Endpoint]float64),
	}

	operator.Walk(w.fragment.Root, func(op *operator.Operator) {
		s.cost += op.Cost
		s.memInitial += op.MemInitial
		s.memMax += op.MemMax
		s.distributionAffinity = operator.Strongest(s.distributionAffinity, op.Affinity)

		if op.MaxWidthHint > 0 {
			s.maxWidth = foldMax(s.maxWidth, op.MaxWidthHint)
		}
		if op.MinWidthHint > 0 {
			s.minWidth = foldMin(s.minWidth, op.MinWidthHint)
		}
		if op.Kind == operator.KindScan {
			s.splits = append(s.splits, op.Splits...)
			if len(op.Splits) > 0 {
				s.maxWidth = foldMax(s.maxWidth, len(op.Splits))
			}
		}
		if op.PinnedToOppositeWidth && (op.Kind == operator.KindSender || op.Kind == operator.KindReceiver) {
			if opposite, ok := ps.wrapperByMajorID(op.OppositeMajorFragmentID); ok && opposite.state >= stateSized {
				s.maxWidth = foldMax(s.maxWidth, opposite.width)
				s.minWidth = foldMin(s.minWidth, opposite.width)
			}
		}
		for ep, weight := range op.AffinityHint {
			s.rawAffinity[ep] += weight
		}
	})

	for ep, weight := range s.rawAffinity {
		if nodeMap.IsActive(ep) {
			s.affinity[ep.Key()] += weight
		}
	}

	if s.minWidth == 0 {
		s.minWidth = 1
	}
	return s
}

// foldMax folds a new max-width hint into the running fragment-wide
// max-width: the narrowest of every max-width hint declared anywhere
// in the fragment's subtree wins. current == 0 means "no hint seen yet".
func foldMax(current, next int) int {
	if current == 0 || next < current {
		return next
	}
	return current
}

// foldMin folds a new min-width hint into the running fragment-wide
// min-width: the widest of every min-width hint declared anywhere in
// the fragment's subtree wins.
func foldMin(current, next int) int {
	if next > current {
		return next
	}
	return current
}

// hasAvailablePinnedEndpoint reports whether, for a HARD-affinity
// fragment, at least one of the raw (pre-projection) affinity targets
// is still part of the active endpoint set.
func (s stats) hasAvailablePinnedEndpoint(nodeMap *endpoint.NodeMap) bool {
	for ep := range s.rawAffinity {
		if nodeMap.IsActive(ep) {
			return true
		}
	}
	return false
}

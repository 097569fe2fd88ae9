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

// Package operator models the physical operator tree that hangs off
// each fragment, as a tagged-variant struct dispatched on Kind rather
// than an interface hierarchy: stats collection, collector extraction
// and materialization are all pure functions over this tree (one
// dispatch table apiece), matching how FlowSpec/ProcessorSpec-style
// wire records are shaped elsewhere in the ecosystem.
package operator

import "github.com/pedia/dremio-oss/endpoint"

// Kind discriminates the operator variants the planner cares about.
// Everything that isn't one of these scheduling-relevant kinds is
// KindGeneric: the planner walks through it without special handling,
// the same way StatsCollector's visitOp default case just recurses.
type Kind int

const (
	KindGeneric Kind = iota
	KindScan
	KindSender
	KindReceiver
	KindFragmentRoot
)

func (k Kind) String() string {
	switch k {
	case KindScan:
		return "Scan"
	case KindSender:
		return "Sender"
	case KindReceiver:
		return "Receiver"
	case KindFragmentRoot:
		return "FragmentRoot"
	default:
		return "Generic"
	}
}

// DistributionAffinity is the strength of an operator's placement
// preference. The zero value, None, is weakest; values compare in
// declared order: None ≺ Soft ≺ Hard.
type DistributionAffinity int

const (
	AffinityNone DistributionAffinity = iota
	AffinitySoft
	AffinityHard
)

// Strongest returns the stronger of a and b in the NONE ≺ SOFT ≺ HARD
// order.
func Strongest(a, b DistributionAffinity) DistributionAffinity {
	if b > a {
		return b
	}
	return a
}

// Split is one opaque unit of scannable work (e.g. a file range or a
// key-range chunk). The planner never looks inside a Split; it only
// counts them (for the scan's max-width hint) and distributes them
// across minor fragments at materialization time.
type Split struct {
	ID string
}

// IncomingMinorFragment names one upstream minor fragment a Receiver
// should expect data from, and the endpoint it runs on. Populated only
// on the materialized copy of a Receiver operator.
type IncomingMinorFragment struct {
	Endpoint    endpoint.Endpoint
	MinorFragID int
}

// Operator is one node of the physical operator tree. Only the fields
// relevant to the Kind in question are meaningful; this mirrors the
// oneof-style "Core" union on execinfrapb.ProcessorSpec, flattened into
// a single struct because our tree has far fewer variants.
type Operator struct {
	Kind     Kind
	Children []*Operator

	// Declared scheduling hints, read during stats collection.
	// Cost is this operator's own contribution (not its subtree's);
	// StatsCollector sums it across the whole fragment.
	Cost float64
	// MaxWidthHint/MinWidthHint of zero means "no constraint declared
	// by this operator"; see Stats.MaxWidth/MinWidth for how the
	// collector folds these across the fragment.
	MaxWidthHint int
	MinWidthHint int
	// AffinityHint is this operator's own per-endpoint weight
	// contribution, summed into the fragment's stats.
	AffinityHint map[endpoint.Endpoint]float64
	// Affinity is the distribution-affinity strength this operator
	// asserts for its fragment.
	Affinity DistributionAffinity
	// MemInitial/MemMax are this operator's own memory reservation
	// contribution, summed the same way Cost is.
	MemInitial int64
	MemMax     int64

	// Scan-only: the splits available to this scan. len(Splits) is
	// also this operator's MaxWidthHint.
	Splits []Split

	// Sender/Receiver-only.
	OppositeMajorFragmentID int
	Spooling                bool
	SupportsOutOfOrder      bool
	// PinnedToOppositeWidth marks a Sender or Receiver whose width must
	// equal the already-decided width of the fragment named by
	// OppositeMajorFragmentID (e.g. a broadcast sender fanning out to
	// exactly as many minors as its receiver ended up with). Only takes
	// effect when the dependency graph sizes the opposite fragment
	// first; collectStats reads the opposite wrapper's frozen width.
	PinnedToOppositeWidth bool

	// Materialization-only fields, set by Materialize and otherwise
	// zero. AssignedSplits holds the Splits this minor fragment's scan
	// is responsible for; DestinationMinor/Incoming hold the resolved
	// per-minor endpoint fan-out for senders and receivers.
	MinorFragmentID  int
	AssignedSplits   []Split
	DestinationMinor []endpoint.Endpoint
	Incoming         []IncomingMinorFragment
}

// Walk calls visit on op and every operator in its subtree, depth
// first, parent before children.
func Walk(op *Operator, visit func(*Operator)) {
	if op == nil {
		return
	}
	visit(op)
	for _, c := range op.Children {
		Walk(c, visit)
	}
}

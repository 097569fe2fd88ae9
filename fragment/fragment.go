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

// Package fragment defines the input plan tree: Fragments connected by
// ExchangePairs. This is the planner-facing view of the physical plan
// handed in by the caller; it does not know about widths or endpoints.
package fragment

import "github.com/pedia/dremio-oss/operator"

// ParallelizationDependency captures which side of an exchange must be
// sized before the other, per exchange.
type ParallelizationDependency int

const (
	// NoDependency means the exchange carries no parallelization
	// constraint between the two fragments it bridges.
	NoDependency ParallelizationDependency = iota
	// ReceiverDependsOnSender means the sender-side fragment must be
	// sized (and in cases like HARD affinity, assigned) before the
	// receiver-side fragment.
	ReceiverDependsOnSender
	// SenderDependsOnReceiver is the mirror image: the sender must
	// wait on the receiver, used e.g. by broadcast senders that fan
	// out to however many minor fragments the receiver ended up with.
	SenderDependsOnReceiver
)

func (d ParallelizationDependency) String() string {
	switch d {
	case ReceiverDependsOnSender:
		return "RECEIVER_DEPENDS_ON_SENDER"
	case SenderDependsOnReceiver:
		return "SENDER_DEPENDS_ON_RECEIVER"
	default:
		return "NONE"
	}
}

// Exchange is the operator pair bridging two fragments across the
// network. Only the scheduling-relevant facet is modeled here; the
// actual sender/receiver behavior lives on the operator tree (see the
// operator package's KindSender/KindReceiver nodes).
type Exchange struct {
	Dependency ParallelizationDependency
}

// ExchangePair is a directed edge (exchange, neighbor fragment), as
// seen from one side of the exchange.
type ExchangePair struct {
	Exchange Exchange
	Fragment *Fragment
}

// Fragment is one node of the input plan tree.
type Fragment struct {
	// MajorFragmentID is the plan-level identity; stable for the
	// lifetime of one getFragments call.
	MajorFragmentID int

	// Root is the root physical operator of this fragment's subtree.
	Root *operator.Operator

	// Sending is nil iff this fragment is the query root.
	Sending *ExchangePair

	// Receiving is empty iff this fragment is a leaf.
	Receiving []ExchangePair
}

// IsLeaf reports whether the fragment has no receiving exchanges.
func (f *Fragment) IsLeaf() bool {
	return len(f.Receiving) == 0
}

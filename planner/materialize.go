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

// materialize walks op producing a new tree where any node whose shape
// depends on the containing minor fragment is rewritten with minor and
// splits filled in: scans pick their split assignment, receivers
// resolve which upstream minor fragments (and endpoints) feed them,
// senders resolve which downstream minor fragments they fan out to.
// ps is used to look up the opposite fragment's Wrapper by major id.
func materialize(op *operator.Operator, minor int, splits []operator.Split, ps *PlanningSet) *operator.Operator {
	if op == nil {
		return nil
	}
	out := &operator.Operator{
		Kind:                    op.Kind,
		Cost:                    op.Cost,
		MaxWidthHint:            op.MaxWidthHint,
		MinWidthHint:            op.MinWidthHint,
		Affinity:                op.Affinity,
		MemInitial:              op.MemInitial,
		MemMax:                  op.MemMax,
		Splits:                  op.Splits,
		OppositeMajorFragmentID: op.OppositeMajorFragmentID,
		Spooling:                op.Spooling,
		SupportsOutOfOrder:      op.SupportsOutOfOrder,
		MinorFragmentID:         minor,
	}
	out.Children = make([]*operator.Operator, len(op.Children))
	for i, c := range op.Children {
		out.Children[i] = materialize(c, minor, splits, ps)
	}

	switch op.Kind {
	case operator.KindScan:
		out.AssignedSplits = splits
	case operator.KindReceiver:
		if sender, ok := ps.wrapperByMajorID(op.OppositeMajorFragmentID); ok {
			out.Incoming = incomingFrom(sender)
		}
	case operator.KindSender:
		if receiver, ok := ps.wrapperByMajorID(op.OppositeMajorFragmentID); ok {
			out.DestinationMinor = append([]endpoint.Endpoint(nil), receiver.assignedEndpoints...)
		}
	}
	return out
}

// incomingFrom builds the (endpoint, minorId) pairs a Receiver expects
// from the given sender Wrapper's full assignment.
func incomingFrom(sender *wrapper) []operator.IncomingMinorFragment {
	incoming := make([]operator.IncomingMinorFragment, len(sender.assignedEndpoints))
	for m, ep := range sender.assignedEndpoints {
		incoming[m] = operator.IncomingMinorFragment{Endpoint: ep, MinorFragID: m}
	}
	return incoming
}

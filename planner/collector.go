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

import "github.com/pedia/dremio-oss/operator"

// Collector is a per-receiver descriptor telling the worker which
// incoming minor fragments to expect and from which endpoints.
type Collector struct {
	OppositeMajorFragmentID int
	Spooling                bool
	SupportsOutOfOrder      bool
	Incoming                []operator.IncomingMinorFragment
}

// collectReceivers walks the materialized tree producing one Collector
// per Receiver operator.
func collectReceivers(root *operator.Operator) []Collector {
	var collectors []Collector
	operator.Walk(root, func(op *operator.Operator) {
		if op.Kind != operator.KindReceiver {
			return
		}
		collectors = append(collectors, Collector{
			OppositeMajorFragmentID: op.OppositeMajorFragmentID,
			Spooling:                op.Spooling,
			SupportsOutOfOrder:      op.SupportsOutOfOrder,
			Incoming:                op.Incoming,
		})
	})
	return collectors
}

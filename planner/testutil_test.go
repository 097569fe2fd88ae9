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
	"github.com/pedia/dremio-oss/fragment"
	"github.com/pedia/dremio-oss/operator"
)

// scanFragment builds a single-scan leaf fragment with the given
// major id and split count.
func scanFragment(majorID, splits int) *fragment.Fragment {
	ss := make([]operator.Split, splits)
	for i := range ss {
		ss[i] = operator.Split{ID: string(rune('a' + i))}
	}
	return &fragment.Fragment{
		MajorFragmentID: majorID,
		Root: &operator.Operator{
			Kind:   operator.KindSender,
			Splits: nil,
			Children: []*operator.Operator{
				{Kind: operator.KindScan, Splits: ss},
			},
		},
	}
}

// wireExchange connects sender -> receiver with dep, wiring both
// Sending and Receiving consistently.
func wireExchange(sender, receiver *fragment.Fragment, dep fragment.ParallelizationDependency) {
	ex := fragment.Exchange{Dependency: dep}
	sender.Sending = &fragment.ExchangePair{Exchange: ex, Fragment: receiver}
	receiver.Receiving = append(receiver.Receiving, fragment.ExchangePair{Exchange: ex, Fragment: sender})
}

// receiverRoot builds a query-root fragment whose operator tree is a
// FragmentRoot over one Receiver per sender, each tagged with the
// sender's OppositeMajorFragmentID.
func receiverRoot(majorID int, senders ...*fragment.Fragment) *fragment.Fragment {
	root := &operator.Operator{Kind: operator.KindFragmentRoot}
	for _, s := range senders {
		root.Children = append(root.Children, &operator.Operator{
			Kind:                    operator.KindReceiver,
			OppositeMajorFragmentID: s.MajorFragmentID,
		})
	}
	return &fragment.Fragment{MajorFragmentID: majorID, Root: root}
}

func ep(host string, port int32) endpoint.Endpoint {
	return endpoint.Endpoint{Host: host, Port: port}
}

func testParams() Params {
	p := DefaultParams()
	p.MaxWidthPerNode = 10
	p.MaxGlobalWidth = 100
	return p
}

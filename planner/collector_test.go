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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pedia/dremio-oss/operator"
)

func TestCollectReceiversNoneFound(t *testing.T) {
	root := &operator.Operator{Kind: operator.KindFragmentRoot, Children: []*operator.Operator{
		{Kind: operator.KindScan},
	}}
	require.Empty(t, collectReceivers(root))
}

func TestCollectReceiversOneEntryPerReceiver(t *testing.T) {
	root := &operator.Operator{
		Kind: operator.KindFragmentRoot,
		Children: []*operator.Operator{
			{Kind: operator.KindReceiver, OppositeMajorFragmentID: 1, Spooling: true},
			{Kind: operator.KindReceiver, OppositeMajorFragmentID: 2, SupportsOutOfOrder: true},
		},
	}
	collectors := collectReceivers(root)
	require.Len(t, collectors, 2)
	require.Equal(t, 1, collectors[0].OppositeMajorFragmentID)
	require.True(t, collectors[0].Spooling)
	require.Equal(t, 2, collectors[1].OppositeMajorFragmentID)
	require.True(t, collectors[1].SupportsOutOfOrder)
}

func TestCollectReceiversFindsNestedReceivers(t *testing.T) {
	root := &operator.Operator{
		Kind: operator.KindFragmentRoot,
		Children: []*operator.Operator{
			{Kind: operator.KindSender, Children: []*operator.Operator{
				{Kind: operator.KindReceiver, OppositeMajorFragmentID: 5},
			}},
		},
	}
	collectors := collectReceivers(root)
	require.Len(t, collectors, 1)
	require.Equal(t, 5, collectors[0].OppositeMajorFragmentID)
}

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
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pedia/dremio-oss/endpoint"
	"github.com/pedia/dremio-oss/fragment"
	"github.com/pedia/dremio-oss/operator"
)

func newTestPlanner(t *testing.T, params Params) *Planner {
	p, err := NewPlanner(params, nil, zap.NewNop())
	require.NoError(t, err)
	return p
}

func TestGetFragmentsTrivialSingleFragment(t *testing.T) {
	p := newTestPlanner(t, testParams())
	root := &fragment.Fragment{
		MajorFragmentID: 0,
		Root: &operator.Operator{
			Kind:     operator.KindFragmentRoot,
			Children: []*operator.Operator{{Kind: operator.KindScan}},
		},
	}

	fragments, err := p.GetFragments(context.Background(), Request{
		QueryID:         uuid.New(),
		RootFragment:    root,
		ActiveEndpoints: []endpoint.Endpoint{ep("n1", 9000)},
	})
	require.NoError(t, err)
	require.Len(t, fragments, 1)
	require.Equal(t, 0, fragments[0].Handle.MajorFragmentID)
	require.Equal(t, 0, fragments[0].Handle.MinorFragmentID)
	require.True(t, fragments[0].Leaf)
}

func TestGetFragmentsLinearTwoFragmentReceiverDependsOnSender(t *testing.T) {
	p := newTestPlanner(t, testParams())
	leaf := scanFragment(1, 1)
	leaf.Root.OppositeMajorFragmentID = 0
	root := receiverRoot(0, leaf)
	wireExchange(leaf, root, fragment.ReceiverDependsOnSender)

	fragments, err := p.GetFragments(context.Background(), Request{
		QueryID:         uuid.New(),
		RootFragment:    root,
		ActiveEndpoints: []endpoint.Endpoint{ep("n1", 9000)},
	})
	require.NoError(t, err)
	require.Len(t, fragments, 2) // root's one minor + leaf's one minor (cost 0 clamps to width 1)

	var majors []int
	for _, f := range fragments {
		majors = append(majors, f.Handle.MajorFragmentID)
	}
	require.ElementsMatch(t, []int{0, 1}, majors)
}

func TestGetFragmentsHardDistributionAffinityPinsEndpoint(t *testing.T) {
	pinned := ep("pinned", 9000)
	other := ep("other", 9001)
	root := &fragment.Fragment{
		MajorFragmentID: 0,
		Root: &operator.Operator{
			Kind: operator.KindFragmentRoot,
			Children: []*operator.Operator{{
				Kind:         operator.KindScan,
				Affinity:     operator.AffinityHard,
				AffinityHint: map[endpoint.Endpoint]float64{pinned: 1},
			}},
		},
	}

	p := newTestPlanner(t, testParams())
	fragments, err := p.GetFragments(context.Background(), Request{
		QueryID:         uuid.New(),
		RootFragment:    root,
		ActiveEndpoints: []endpoint.Endpoint{pinned, other},
	})
	require.NoError(t, err)
	require.Len(t, fragments, 1)
	require.Equal(t, pinned, fragments[0].AssignedEndpoint)
}

func TestGetFragmentsSenderDependsOnReceiverSizesReceiverFirst(t *testing.T) {
	leaf := scanFragment(1, 1)
	leaf.Root.OppositeMajorFragmentID = 0
	leaf.Root.PinnedToOppositeWidth = true
	root := receiverRoot(0, leaf)
	wireExchange(leaf, root, fragment.SenderDependsOnReceiver)

	p := newTestPlanner(t, testParams())
	fragments, err := p.GetFragments(context.Background(), Request{
		QueryID:         uuid.New(),
		RootFragment:    root,
		ActiveEndpoints: []endpoint.Endpoint{ep("n1", 9000)},
	})
	require.NoError(t, err)

	widthByMajor := map[int]int{}
	for _, f := range fragments {
		widthByMajor[f.Handle.MajorFragmentID]++
	}
	require.Equal(t, widthByMajor[0], widthByMajor[1]) // leaf pinned to root's width
}

func TestGetFragmentsGlobalCapMakesMinWidthUnsatisfiable(t *testing.T) {
	leaf := &fragment.Fragment{
		MajorFragmentID: 1,
		Root: &operator.Operator{
			Kind:         operator.KindSender,
			MinWidthHint: 10,
			Children:     []*operator.Operator{{Kind: operator.KindScan}},
		},
	}
	root := receiverRoot(0, leaf)
	wireExchange(leaf, root, fragment.ReceiverDependsOnSender)

	params := testParams()
	params.MaxGlobalWidth = 5

	p := newTestPlanner(t, params)
	_, err := p.GetFragments(context.Background(), Request{
		QueryID:         uuid.New(),
		RootFragment:    root,
		ActiveEndpoints: []endpoint.Endpoint{ep("n1", 9000)},
	})
	require.Error(t, err)
	var setupErr *PlanSetupError
	require.ErrorAs(t, err, &setupErr)
	require.Equal(t, ReasonWidthUnsatisfiable, setupErr.Reason)
	require.Equal(t, 1, setupErr.FragmentID)
}

func TestGetFragmentsUnavailablePinnedEndpoint(t *testing.T) {
	pinned := ep("gone", 9000)
	root := &fragment.Fragment{
		MajorFragmentID: 0,
		Root: &operator.Operator{
			Kind: operator.KindFragmentRoot,
			Children: []*operator.Operator{{
				Kind:         operator.KindScan,
				Affinity:     operator.AffinityHard,
				AffinityHint: map[endpoint.Endpoint]float64{pinned: 1},
			}},
		},
	}

	p := newTestPlanner(t, testParams())
	_, err := p.GetFragments(context.Background(), Request{
		QueryID:         uuid.New(),
		RootFragment:    root,
		ActiveEndpoints: []endpoint.Endpoint{ep("n1", 9000)}, // pinned endpoint not present
	})
	require.Error(t, err)
	var setupErr *PlanSetupError
	require.ErrorAs(t, err, &setupErr)
	require.Equal(t, ReasonUnavailablePinnedEndpoint, setupErr.Reason)
}

func TestGetFragmentsIsDeterministic(t *testing.T) {
	leaf := scanFragment(1, 2)
	leaf.Root.OppositeMajorFragmentID = 0
	root := receiverRoot(0, leaf)
	wireExchange(leaf, root, fragment.ReceiverDependsOnSender)

	p := newTestPlanner(t, testParams())
	queryID := uuid.New()
	req := Request{
		QueryID:         queryID,
		RootFragment:    root,
		ActiveEndpoints: []endpoint.Endpoint{ep("n1", 9000), ep("n2", 9001)},
	}

	first, err := p.GetFragments(context.Background(), req)
	require.NoError(t, err)
	second, err := p.GetFragments(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

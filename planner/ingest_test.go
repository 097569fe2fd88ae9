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

	"github.com/pedia/dremio-oss/fragment"
)

func TestIngestSingleFragment(t *testing.T) {
	root := &fragment.Fragment{MajorFragmentID: 0}
	ps, err := ingest(root)
	require.NoError(t, err)
	require.Equal(t, 1, ps.Len())
	require.Same(t, root, ps.root.fragment)
}

func TestIngestLinearChain(t *testing.T) {
	leaf := scanFragment(1, 2)
	root := receiverRoot(0, leaf)
	wireExchange(leaf, root, fragment.ReceiverDependsOnSender)

	ps, err := ingest(root)
	require.NoError(t, err)
	require.Equal(t, 2, ps.Len())

	w, ok := ps.wrapperByMajorID(1)
	require.True(t, ok)
	require.Same(t, leaf, w.fragment)
}

func TestIngestRejectsCycle(t *testing.T) {
	a := &fragment.Fragment{MajorFragmentID: 0}
	b := &fragment.Fragment{MajorFragmentID: 1}
	wireExchange(a, b, fragment.ReceiverDependsOnSender)
	wireExchange(b, a, fragment.ReceiverDependsOnSender)

	_, err := ingest(a)
	require.Error(t, err)
	var setupErr *PlanSetupError
	require.ErrorAs(t, err, &setupErr)
	require.Equal(t, ReasonCycle, setupErr.Reason)
}

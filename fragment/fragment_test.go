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

package fragment

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsLeaf(t *testing.T) {
	leaf := &Fragment{MajorFragmentID: 1}
	require.True(t, leaf.IsLeaf())

	nonLeaf := &Fragment{
		MajorFragmentID: 2,
		Receiving:       []ExchangePair{{Fragment: leaf}},
	}
	require.False(t, nonLeaf.IsLeaf())
}

func TestParallelizationDependencyString(t *testing.T) {
	require.Equal(t, "NONE", NoDependency.String())
	require.Equal(t, "RECEIVER_DEPENDS_ON_SENDER", ReceiverDependsOnSender.String())
	require.Equal(t, "SENDER_DEPENDS_ON_RECEIVER", SenderDependsOnReceiver.String())
}

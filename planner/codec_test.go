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

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/pedia/dremio-oss/operator"
)

func TestMarshalUnmarshalRoundTripNone(t *testing.T) {
	op := &operator.Operator{Kind: operator.KindScan, Cost: 3.5, AssignedSplits: []operator.Split{{ID: "a"}}}

	data, err := marshal(0, op, CodecNone)
	require.NoError(t, err)

	var got operator.Operator
	require.NoError(t, unmarshal(data, CodecNone, &got))
	require.True(t, cmp.Equal(*op, got))
}

func TestMarshalUnmarshalRoundTripSnappy(t *testing.T) {
	op := &operator.Operator{Kind: operator.KindSender, OppositeMajorFragmentID: 4}

	data, err := marshal(0, op, CodecSnappy)
	require.NoError(t, err)

	var got operator.Operator
	require.NoError(t, unmarshal(data, CodecSnappy, &got))
	require.True(t, cmp.Equal(*op, got))
}

func TestMarshalSnappyProducesDifferentBytesThanNone(t *testing.T) {
	op := map[string]string{"a": "b"}
	none, err := marshal(0, op, CodecNone)
	require.NoError(t, err)
	snappyBytes, err := marshal(0, op, CodecSnappy)
	require.NoError(t, err)
	require.NotEqual(t, none, snappyBytes)
}

func TestMarshalRejectsUnrecognizedCodec(t *testing.T) {
	_, err := marshal(7, map[string]string{}, Codec(99))
	require.Error(t, err)
	var setupErr *PlanSetupError
	require.ErrorAs(t, err, &setupErr)
	require.Equal(t, ReasonSerialization, setupErr.Reason)
	require.Equal(t, 7, setupErr.FragmentID)
}

func TestMarshalWrapsJSONFailureAsSerializationError(t *testing.T) {
	// A channel cannot be JSON-marshaled: this exercises the wrap path
	// rather than the unrecognized-codec path.
	_, err := marshal(3, make(chan int), CodecNone)
	require.Error(t, err)
	var setupErr *PlanSetupError
	require.ErrorAs(t, err, &setupErr)
	require.Equal(t, ReasonSerialization, setupErr.Reason)
}

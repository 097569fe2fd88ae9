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
	"encoding/json"

	"github.com/golang/snappy"
)

// marshal serializes v to JSON and, for CodecSnappy, compresses the
// result, producing the opaque byte blob PlanFragment carries. The
// JSON encoding itself is an implementation detail the caller never
// inspects; any stable encoding would do here, but JSON is what the
// original PhysicalPlanReader.writeJsonBytes produces, so it's what
// we use too.
func marshal(fragmentID int, v interface{}, codec Codec) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, wrapPlanSetupError(ReasonSerialization, fragmentID, err)
	}
	switch codec {
	case CodecSnappy:
		return snappy.Encode(nil, raw), nil
	case CodecNone:
		return raw, nil
	default:
		return nil, newPlanSetupErrorf(ReasonSerialization, fragmentID, "unrecognized codec %v", codec)
	}
}

// unmarshal reverses marshal, used by the round-trip test helpers.
func unmarshal(data []byte, codec Codec, v interface{}) error {
	raw := data
	if codec == CodecSnappy {
		decoded, err := snappy.Decode(nil, data)
		if err != nil {
			return err
		}
		raw = decoded
	}
	return json.Unmarshal(raw, v)
}

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

// Codec names the compression applied to the serialized plan and
// options blobs.
type Codec int

const (
	CodecNone Codec = iota
	CodecSnappy
)

func (c Codec) String() string {
	if c == CodecSnappy {
		return "SNAPPY"
	}
	return "NONE"
}

// Params bundles the parallelization parameters recognized by
// getFragments. They are validated once, eagerly, by NewPlanner;
// the per-query entry point never re-validates them.
type Params struct {
	// SliceTarget is the denominator of the cost-driven width formula.
	// Must be >= 1.
	SliceTarget int
	// MaxWidthPerNode upper-bounds minor fragments per endpoint. Must
	// be >= 1. Typically derived via DeriveMaxWidthPerNode.
	MaxWidthPerNode int
	// MaxGlobalWidth upper-bounds total minor fragments. Must be >= 1.
	MaxGlobalWidth int
	// AffinityFactor weighs affinity against uniform distribution in
	// balanced assignment. Must be in [0, 1].
	AffinityFactor float64
	// UseNewAssignmentCreator selects the balanced assignment policy
	// over the legacy round-robin one.
	UseNewAssignmentCreator bool
	// AssignmentCreatorBalanceFactor caps per-endpoint load in balanced
	// mode. Must be >= 1.0.
	AssignmentCreatorBalanceFactor float64
	// FragmentCodec selects the wire compression for emitted fragment
	// and options bytes.
	FragmentCodec Codec
}

// DefaultParams returns the smallest valid, uncompressed settings: a
// slice target of one time unit, a per-node and a global cap of one
// minor fragment each, an AffinityFactor of 0, and the legacy
// round-robin creator (which still orders endpoints by affinity).
// Callers overlay their own session-option-sourced values on top of
// this.
func DefaultParams() Params {
	return Params{
		SliceTarget:                    1,
		MaxWidthPerNode:                1,
		MaxGlobalWidth:                 1,
		AffinityFactor:                 0,
		UseNewAssignmentCreator:        false,
		AssignmentCreatorBalanceFactor: 1.5,
		FragmentCodec:                  CodecNone,
	}
}

// Validate checks that every field is within its declared range,
// returning *InvalidConfig for the first violation found. It is
// called once by NewPlanner, not on every getFragments call: config
// is validated at registration time, not at use time.
func (p Params) Validate() error {
	if p.SliceTarget < 1 {
		return newInvalidConfig("sliceTarget", "must be >= 1, got %d", p.SliceTarget)
	}
	if p.MaxWidthPerNode < 1 {
		return newInvalidConfig("maxWidthPerNode", "must be >= 1, got %d", p.MaxWidthPerNode)
	}
	if p.MaxGlobalWidth < 1 {
		return newInvalidConfig("maxGlobalWidth", "must be >= 1, got %d", p.MaxGlobalWidth)
	}
	if p.AffinityFactor < 0 || p.AffinityFactor > 1 {
		return newInvalidConfig("affinityFactor", "must be in [0, 1], got %f", p.AffinityFactor)
	}
	if p.AssignmentCreatorBalanceFactor < 1.0 {
		return newInvalidConfig("assignmentCreatorBalanceFactor", "must be >= 1.0, got %f", p.AssignmentCreatorBalanceFactor)
	}
	if p.FragmentCodec != CodecNone && p.FragmentCodec != CodecSnappy {
		return newInvalidConfig("fragmentCodec", "unrecognized codec %d", p.FragmentCodec)
	}
	return nil
}

// DeriveMaxWidthPerNode computes maxWidthPerNode from a node's average
// executor core count and a load-shedding factor in (0, 1]. Callers
// inject a fixed maxWidthFactor; the planner itself never reads live
// cluster load.
func DeriveMaxWidthPerNode(averageExecutorCores int, maxWidthFactor float64) int {
	w := int(float64(averageExecutorCores) * maxWidthFactor)
	if w < 1 {
		return 1
	}
	return w
}

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
	"github.com/google/uuid"

	"github.com/pedia/dremio-oss/endpoint"
)

// Handle is a PlanFragment's identity tuple.
type Handle struct {
	QueryID         uuid.UUID
	MajorFragmentID int
	MinorFragmentID int
}

// PlanFragment is the emitted output record.
type PlanFragment struct {
	Handle           Handle
	Foreman          endpoint.Endpoint
	AssignedEndpoint endpoint.Endpoint
	MemInitial       int64
	MemMax           int64
	FragmentBytes    []byte
	OptionsBytes     []byte
	Credentials      Credentials
	Collectors       []Collector
	Leaf             bool
	Priority         int32
	Codec            Codec
}

// Credentials is an opaque, caller-supplied identity blob (the session
// credentials of the user who launched the query); the parallelizer
// only threads it through, never inspects it.
type Credentials struct {
	UserName string
}

// SessionIdentity is the caller-supplied user-session context carried
// into each PlanFragment.
type SessionIdentity struct {
	Credentials Credentials
}

// QueryContextInfo carries query-wide metadata the caller wants
// stamped onto every PlanFragment, such as the dispatch priority.
type QueryContextInfo struct {
	Priority int32
}

// OptionBlob is the opaque session-option payload serialized alongside
// each fragment; the parallelizer only serializes whatever it's handed,
// never inspects it.
type OptionBlob map[string]string

// FunctionLookup is the external function-resolution collaborator.
// GetFragments accepts it on Request and defaults a nil value to a
// no-op lookup; the parallelizer never calls into it and does not pass
// it on to materialization.
type FunctionLookup interface {
	Lookup(name string) (found bool)
}

// noopFunctionLookup is used when a caller has nothing to resolve.
type noopFunctionLookup struct{}

func (noopFunctionLookup) Lookup(string) bool { return false }

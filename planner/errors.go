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
	"fmt"

	"github.com/cockroachdb/errors"
)

// Reason enumerates the PlanSetupError sub-reasons.
type Reason string

const (
	ReasonCycle                     Reason = "CYCLE"
	ReasonWidthUnsatisfiable        Reason = "WIDTH_UNSATISFIABLE"
	ReasonUnavailablePinnedEndpoint Reason = "UNAVAILABLE_PINNED_ENDPOINT"
	ReasonRootTypeMismatch          Reason = "ROOT_TYPE_MISMATCH"
	ReasonSerialization             Reason = "SERIALIZATION"
)

// PlanSetupError is fatal to the current parallelization call. It
// always carries the reason code and, when known, the major fragment
// id that triggered it, so the caller can translate it into a
// query-level failure referencing the offending fragment.
type PlanSetupError struct {
	Reason     Reason
	FragmentID int // -1 if not attributable to one fragment
	cause      error
}

func (e *PlanSetupError) Error() string {
	if e.FragmentID < 0 {
		return fmt.Sprintf("plan setup failed: %s: %s", e.Reason, e.detail())
	}
	return fmt.Sprintf("plan setup failed: %s (fragment %d): %s", e.Reason, e.FragmentID, e.detail())
}

func (e *PlanSetupError) detail() string {
	if e.cause == nil {
		return "no further detail"
	}
	return e.cause.Error()
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *PlanSetupError) Unwrap() error { return e.cause }

// newPlanSetupError builds a PlanSetupError with no fragment attached.
func newPlanSetupError(reason Reason, format string, args ...interface{}) *PlanSetupError {
	return &PlanSetupError{Reason: reason, FragmentID: -1, cause: errors.Newf(format, args...)}
}

// newPlanSetupErrorf attaches fragmentID to the error.
func newPlanSetupErrorf(reason Reason, fragmentID int, format string, args ...interface{}) *PlanSetupError {
	return &PlanSetupError{Reason: reason, FragmentID: fragmentID, cause: errors.Newf(format, args...)}
}

// wrapPlanSetupError wraps an underlying error (e.g. a json.Marshal
// failure) with a reason and fragment id for the SERIALIZATION case.
func wrapPlanSetupError(reason Reason, fragmentID int, cause error) *PlanSetupError {
	return &PlanSetupError{Reason: reason, FragmentID: fragmentID, cause: errors.Wrapf(cause, "%s", reason)}
}

// ForemanSetupError is raised for policy violations discovered at
// emission time, such as a root fragment whose width isn't 1.
type ForemanSetupError struct {
	Reason     string
	FragmentID int
	cause      error
}

func (e *ForemanSetupError) Error() string {
	return fmt.Sprintf("foreman setup failed (fragment %d): %s: %v", e.FragmentID, e.Reason, e.cause)
}

func (e *ForemanSetupError) Unwrap() error { return e.cause }

func newForemanSetupError(fragmentID int, format string, args ...interface{}) *ForemanSetupError {
	return &ForemanSetupError{Reason: "ROOT_WIDTH", FragmentID: fragmentID, cause: errors.Newf(format, args...)}
}

// InvalidConfig is returned eagerly, on planner construction, when a
// ParallelizationParameters field is out of its declared range.
type InvalidConfig struct {
	Field string
	cause error
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("invalid config field %q: %v", e.Field, e.cause)
}

func (e *InvalidConfig) Unwrap() error { return e.cause }

func newInvalidConfig(field, format string, args ...interface{}) *InvalidConfig {
	return &InvalidConfig{Field: field, cause: errors.Newf(format, args...)}
}

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

import "time"

// WorkUnit bundles the final fragment list the way plansDistributionComplete
// receives it.
type WorkUnit struct {
	Fragments []*PlanFragment
}

// Observer is the push-only, fire-and-forget capability interface.
// Implementations must not mutate planner state; the planner never
// waits on or inspects their return values.
type Observer interface {
	PlanParallelStart()
	PlanParallelized(ps *PlanningSet)
	PlanAssignmentTime(d time.Duration)
	PlanGenerationTime(d time.Duration)
	PlansDistributionComplete(wu WorkUnit)
}

// NoopObserver is the default, no-op Observer used by tests and by
// callers that don't care about planning telemetry.
type NoopObserver struct{}

func (NoopObserver) PlanParallelStart()                    {}
func (NoopObserver) PlanParallelized(*PlanningSet)          {}
func (NoopObserver) PlanAssignmentTime(time.Duration)       {}
func (NoopObserver) PlanGenerationTime(time.Duration)       {}
func (NoopObserver) PlansDistributionComplete(WorkUnit)     {}

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

// Package planner is the distributed query parallelizer: it turns a
// physical plan of fragments and exchanges into a concrete list of
// PlanFragments with assigned execution endpoints, ready for dispatch.
// This file is the single entry point that sequences the five-stage
// pipeline.
package planner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pedia/dremio-oss/endpoint"
	"github.com/pedia/dremio-oss/fragment"
)

// Planner is the entry point for one cluster's worth of
// parallelization calls. It holds only the configuration and
// collaborators that are immutable for the planner's lifetime;
// getFragments itself carries no state between calls and has no
// internal concurrency.
type Planner struct {
	params   Params
	observer Observer
	logger   *zap.Logger
}

// NewPlanner validates params eagerly (returning *InvalidConfig) and returns a
// Planner bound to observer and logger for its lifetime. A nil observer
// defaults to NoopObserver; a nil logger defaults to zap.NewNop().
func NewPlanner(params Params, observer Observer, logger *zap.Logger) (*Planner, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{params: params, observer: observer, logger: logger}, nil
}

// Request bundles getFragments' inputs.
type Request struct {
	Options         OptionBlob
	Foreman         endpoint.Endpoint
	QueryID         uuid.UUID
	ActiveEndpoints []endpoint.Endpoint
	RootFragment    *fragment.Fragment
	Session         SessionIdentity
	QueryInfo       QueryContextInfo
	FunctionCtx     FunctionLookup
}

// GetFragments runs the five-stage pipeline and returns the full
// PlanFragment list for req, or the first fatal error encountered. No
// partial list is ever returned.
func (p *Planner) GetFragments(ctx context.Context, req Request) ([]*PlanFragment, error) {
	if len(req.ActiveEndpoints) == 0 {
		p.logger.Warn("getFragments called with an empty active endpoint list; "+
			"affinity projection will be empty for every fragment",
			zap.String("queryId", req.QueryID.String()))
	}
	if req.FunctionCtx == nil {
		req.FunctionCtx = noopFunctionLookup{}
	}

	p.observer.PlanParallelStart()
	assignStart := timeNow()

	ps, err := ingest(req.RootFragment)
	if err != nil {
		return nil, err
	}
	roots, err := buildDependencyGraph(ps)
	if err != nil {
		return nil, err
	}

	nodeMap := endpoint.NewNodeMap(req.ActiveEndpoints)
	creator := p.assignmentCreator()
	b := newBudget(p.params)
	if err := parallelize(ps, roots, nodeMap, p.params, creator, b); err != nil {
		return nil, err
	}

	p.observer.PlanParallelized(ps)
	p.observer.PlanAssignmentTime(timeNow().Sub(assignStart))

	genStart := timeNow()
	fragments, err := emit(ps, emitRequest{
		Options:   req.Options,
		Foreman:   req.Foreman,
		QueryID:   req.QueryID,
		Session:   req.Session,
		QueryInfo: req.QueryInfo,
		Codec:     p.params.FragmentCodec,
	})
	if err != nil {
		return nil, err
	}
	p.observer.PlanGenerationTime(timeNow().Sub(genStart))
	p.observer.PlansDistributionComplete(WorkUnit{Fragments: fragments})

	return fragments, nil
}

func (p *Planner) assignmentCreator() assignmentCreator {
	if p.params.UseNewAssignmentCreator {
		return balancedCreator{}
	}
	return legacyCreator{}
}

// timeNow is a var, not a direct time.Now() call, purely so tests can
// substitute a deterministic clock without touching GetFragments'
// signature.
var timeNow = time.Now

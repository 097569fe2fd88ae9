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

// Package metrics backs planner.Observer with prometheus collectors,
// grounded on cortexproject/cortex's direct prometheus.NewHistogramVec
// usage in distributor/distributor.go: one histogram per phase,
// labeled by phase name, plus a counter for completed distributions.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pedia/dremio-oss/planner"
)

// Collector is a prometheus-backed planner.Observer. It is safe to
// register once per process and reuse across every getFragments call;
// the planner itself stays single-threaded per query, but nothing
// stops a server from running several queries' worth of Collector
// calls concurrently since prometheus collectors are themselves
// concurrency-safe.
type Collector struct {
	planPhaseDuration *prometheus.HistogramVec
	plansDistributed  prometheus.Counter
	fragmentsPerPlan  prometheus.Histogram
}

// NewCollector builds a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		planPhaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fragplan",
			Subsystem: "planner",
			Name:      "phase_duration_seconds",
			Help:      "Time spent in each parallelization phase.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"phase"}),
		plansDistributed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fragplan",
			Subsystem: "planner",
			Name:      "plans_distributed_total",
			Help:      "Number of completed plan distributions.",
		}),
		fragmentsPerPlan: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fragplan",
			Subsystem: "planner",
			Name:      "fragments_per_plan",
			Help:      "Number of PlanFragments emitted per getFragments call.",
			Buckets:   []float64{1, 2, 4, 8, 16, 32, 64, 128, 256},
		}),
	}
	reg.MustRegister(c.planPhaseDuration, c.plansDistributed, c.fragmentsPerPlan)
	return c
}

func (c *Collector) PlanParallelStart() {}

func (c *Collector) PlanParallelized(ps *planner.PlanningSet) {}

func (c *Collector) PlanAssignmentTime(d time.Duration) {
	c.planPhaseDuration.WithLabelValues("assignment").Observe(d.Seconds())
}

func (c *Collector) PlanGenerationTime(d time.Duration) {
	c.planPhaseDuration.WithLabelValues("generation").Observe(d.Seconds())
}

func (c *Collector) PlansDistributionComplete(wu planner.WorkUnit) {
	c.plansDistributed.Inc()
	c.fragmentsPerPlan.Observe(float64(len(wu.Fragments)))
}

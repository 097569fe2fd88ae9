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
	"math"
	"sort"

	"github.com/pedia/dremio-oss/endpoint"
	"github.com/pedia/dremio-oss/operator"
)

// assignmentCreator is the common capability both endpoint-assignment
// policies implement: (width, affinity, endpoints, params) -> endpoints.
// used is the per-node minor-fragment count already committed by previously-sized
// fragments in this same getFragments call; a creator must not push a
// node over params.MaxWidthPerNode once used[key] is added in, except
// for a HARD-pinned single eligible endpoint.
type assignmentCreator interface {
	assign(width int, st stats, active []endpoint.Endpoint, params Params, used map[string]int) ([]endpoint.Endpoint, error)
}

// eligibleEndpoints narrows active to the HARD-pinned set when the
// fragment's distribution affinity is HARD, else returns active
// unchanged. It assumes the UNAVAILABLE_PINNED_ENDPOINT check already
// ran (see checkHardAffinity in parallelizer.go).
func eligibleEndpoints(st stats, active []endpoint.Endpoint) []endpoint.Endpoint {
	if st.distributionAffinity != operator.AffinityHard {
		return active
	}
	out := make([]endpoint.Endpoint, 0, len(active))
	for _, e := range active {
		if st.affinity[e.Key()] > 0 {
			out = append(out, e)
		}
	}
	return out
}

// remainingCapacity returns how many more minor fragments e can take
// on before hitting params.MaxWidthPerNode, given what's already used
// by previously-sized fragments. HARD affinity with exactly one
// eligible endpoint bypasses the cap.
func remainingCapacity(e endpoint.Endpoint, params Params, used map[string]int, bypassCap bool) int {
	if bypassCap {
		return math.MaxInt32
	}
	return maxInt(params.MaxWidthPerNode-used[e.Key()], 0)
}

// legacyCreator implements the round-robin-with-affinity policy.
type legacyCreator struct{}

func (legacyCreator) assign(width int, st stats, active []endpoint.Endpoint, params Params, used map[string]int) ([]endpoint.Endpoint, error) {
	eligible := eligibleEndpoints(st, active)
	bypassCap := st.distributionAffinity == operator.AffinityHard && len(eligible) == 1

	sorted := append([]endpoint.Endpoint(nil), eligible...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return st.affinity[sorted[i].Key()] > st.affinity[sorted[j].Key()]
	})

	remaining := make([]int, len(sorted))
	for i, e := range sorted {
		remaining[i] = remainingCapacity(e, params, used, bypassCap)
	}

	assigned := make([]endpoint.Endpoint, 0, width)
	idx := 0
	for len(assigned) < width {
		tried := 0
		for remaining[idx] <= 0 && tried < len(sorted) {
			idx = (idx + 1) % len(sorted)
			tried++
		}
		// decideWidth clamps against the full per-node capacity, not
		// what earlier fragments already used, so every endpoint can be
		// at its cap here; stop short and let parallelizeOne reject the
		// short assignment.
		if tried >= len(sorted) {
			break
		}
		assigned = append(assigned, sorted[idx])
		remaining[idx]--
		idx = (idx + 1) % len(sorted)
	}
	return assigned, nil
}

// balancedCreator implements the affinity-weighted target + balance
// factor policy.
type balancedCreator struct{}

func (balancedCreator) assign(width int, st stats, active []endpoint.Endpoint, params Params, used map[string]int) ([]endpoint.Endpoint, error) {
	eligible := eligibleEndpoints(st, active)
	bypassCap := st.distributionAffinity == operator.AffinityHard && len(eligible) == 1
	n := len(eligible)

	totalAffinity := 0.0
	for _, e := range eligible {
		totalAffinity += st.affinity[e.Key()]
	}

	targets := make([]int, n)
	fracs := make([]float64, n)
	sumTargets := 0
	for i, e := range eligible {
		share := 1.0 / float64(n)
		if totalAffinity > 0 {
			share = st.affinity[e.Key()] / totalAffinity
		}
		raw := float64(width) * (params.AffinityFactor*share + (1-params.AffinityFactor)/float64(n))
		targets[i] = int(math.Round(raw))
		fracs[i] = raw - math.Floor(raw)
		sumTargets += targets[i]
	}

	adjustTargetsToWidth(targets, fracs, width, sumTargets)

	mean := float64(width) / float64(n)
	balanceCap := int(math.Ceil(mean * params.AssignmentCreatorBalanceFactor))
	enforceBalanceCap(targets, balanceCap)

	for i, e := range eligible {
		if !bypassCap {
			room := remainingCapacity(e, params, used, false)
			if targets[i] > room {
				excess := targets[i] - room
				targets[i] = room
				redistribute(targets, i, excess, eligible, params, used, bypassCap)
			}
		}
	}

	assigned := make([]endpoint.Endpoint, 0, width)
	for i, e := range eligible {
		for j := 0; j < targets[i]; j++ {
			assigned = append(assigned, e)
		}
	}
	// Rounding/capping can undershoot width by a handful of slots when
	// every endpoint is already near its cap; top up round-robin from
	// whichever eligible endpoints still have room.
	idx := 0
	for len(assigned) < width && n > 0 {
		e := eligible[idx%n]
		room := remainingCapacity(e, params, used, bypassCap) - countAssigned(assigned, e)
		if room > 0 {
			assigned = append(assigned, e)
		}
		idx++
		if idx > n*width+n {
			break // parallelizeOne rejects a short assignment; this just avoids spinning forever.
		}
	}
	return assigned, nil
}

func countAssigned(assigned []endpoint.Endpoint, e endpoint.Endpoint) int {
	n := 0
	for _, a := range assigned {
		if a == e {
			n++
		}
	}
	return n
}

// adjustTargetsToWidth nudges targets by ±1, on the endpoints with the
// largest (to increase) or smallest (to decrease) fractional remainder,
// until the sum matches width exactly.
func adjustTargetsToWidth(targets []int, fracs []float64, width, sum int) {
	type idxFrac struct {
		i    int
		frac float64
	}
	order := make([]idxFrac, len(targets))
	for i, f := range fracs {
		order[i] = idxFrac{i, f}
	}

	for sum < width {
		sort.Slice(order, func(a, b int) bool { return order[a].frac > order[b].frac })
		targets[order[0].i]++
		order[0].frac = -1 // already bumped this round
		sum++
	}
	for sum > width {
		sort.Slice(order, func(a, b int) bool { return order[a].frac < order[b].frac })
		if targets[order[0].i] > 0 {
			targets[order[0].i]--
			sum--
		}
		order[0].frac = 2 // already trimmed this round
	}
}

// enforceBalanceCap redistributes any excess above cap on an
// over-target endpoint to the least-loaded endpoint.
func enforceBalanceCap(targets []int, balanceCap int) {
	for i, t := range targets {
		if t <= balanceCap {
			continue
		}
		excess := t - balanceCap
		targets[i] = balanceCap
		for excess > 0 {
			least := leastLoaded(targets, i)
			targets[least]++
			excess--
		}
	}
}

func leastLoaded(targets []int, skip int) int {
	best := -1
	for i, t := range targets {
		if i == skip {
			continue
		}
		if best == -1 || t < targets[best] {
			best = i
		}
	}
	if best == -1 {
		return skip
	}
	return best
}

// redistribute hands excess slots taken off eligible[from] to the
// least-loaded endpoint that still has room under the per-node cap.
func redistribute(targets []int, from, excess int, eligible []endpoint.Endpoint, params Params, used map[string]int, bypassCap bool) {
	for excess > 0 {
		best := -1
		for i := range eligible {
			if i == from {
				continue
			}
			room := remainingCapacity(eligible[i], params, used, bypassCap) - targets[i]
			if room <= 0 {
				continue
			}
			if best == -1 || targets[i] < targets[best] {
				best = i
			}
		}
		if best == -1 {
			return // nowhere left with room; the top-up below may then fall short of width.
		}
		targets[best]++
		excess--
	}
}

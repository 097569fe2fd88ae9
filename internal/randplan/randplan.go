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

// Package randplan generates random, structurally valid fragment
// trees for planner property tests. Every tree it builds is acyclic by
// construction: only the root fragment receives, and the leaves it
// receives from receive from nothing, so there is nothing for the
// dependency-graph cycle detector to ever catch here — these trees
// exercise the happy path at scale, not the cycle-rejection path.
package randplan

import (
	"math/rand"

	"github.com/pedia/dremio-oss/endpoint"
	"github.com/pedia/dremio-oss/fragment"
	"github.com/pedia/dremio-oss/operator"
)

// Config bounds the shape of the generated tree.
type Config struct {
	// MaxFragments bounds the number of fragments in the tree,
	// including the root; the tree holds 1 + min(MaxFanIn,
	// MaxFragments-1) fragments. Values below 1 are treated as 1.
	MaxFragments int
	// MaxFanIn bounds how many senders feed the root fragment's
	// receivers.
	MaxFanIn int
	// MaxSplitsPerScan bounds the number of splits a leaf fragment's
	// scan operator carries.
	MaxSplitsPerScan int
	// HardAffinityChance is the probability, in [0, 1], that a
	// non-root fragment's sender declares HARD distribution affinity
	// pinned to one randomly chosen candidate endpoint.
	HardAffinityChance float64
	// Endpoints is the candidate pool affinity hints are drawn from.
	Endpoints []endpoint.Endpoint
}

// DefaultConfig returns a small, fast-to-build configuration suitable
// for most property tests.
func DefaultConfig() Config {
	return Config{
		MaxFragments:       8,
		MaxFanIn:           3,
		MaxSplitsPerScan:   4,
		HardAffinityChance: 0.1,
		Endpoints: []endpoint.Endpoint{
			{Host: "node-a", Port: 9000},
			{Host: "node-b", Port: 9000},
			{Host: "node-c", Port: 9000},
		},
	}
}

// Generate builds a random fragment tree with a single root fragment
// receiving from up to MaxFanIn leaf fragments, using rng for every
// random choice. Passing the same rng state (e.g.
// rand.New(rand.NewSource(seed))) to two calls produces the same tree.
func Generate(rng *rand.Rand, cfg Config) *fragment.Fragment {
	n := cfg.MaxFragments
	if n < 1 {
		n = 1
	}
	fanIn := cfg.MaxFanIn
	if fanIn > n-1 {
		fanIn = n - 1
	}
	if fanIn < 0 {
		fanIn = 0
	}

	majorID := 0
	nextID := func() int {
		id := majorID
		majorID++
		return id
	}

	root := &fragment.Fragment{MajorFragmentID: nextID()}
	rootOp := &operator.Operator{Kind: operator.KindFragmentRoot}
	root.Root = rootOp

	if fanIn == 0 {
		// No leaves requested: the root scans directly.
		rootOp.Children = []*operator.Operator{randomScan(rng, cfg)}
		return root
	}

	for i := 0; i < fanIn; i++ {
		leaf := &fragment.Fragment{MajorFragmentID: nextID(), Root: randomSenderSubtree(rng, cfg)}
		leaf.Root.OppositeMajorFragmentID = root.MajorFragmentID

		dep := fragment.ReceiverDependsOnSender
		if rng.Float64() < 0.5 {
			dep = fragment.SenderDependsOnReceiver
			// A sender waiting on its receiver is the canonical case for
			// pinning to the receiver's already-decided width (e.g. a
			// broadcast fan-out); exercise that path some of the time.
			if rng.Float64() < 0.5 {
				leaf.Root.PinnedToOppositeWidth = true
			}
		}
		exchange := fragment.Exchange{Dependency: dep}

		leaf.Sending = &fragment.ExchangePair{Exchange: exchange, Fragment: root}
		root.Receiving = append(root.Receiving, fragment.ExchangePair{Exchange: exchange, Fragment: leaf})

		receiverOp := &operator.Operator{
			Kind:                    operator.KindReceiver,
			OppositeMajorFragmentID: leaf.MajorFragmentID,
		}
		rootOp.Children = append(rootOp.Children, receiverOp)
	}
	return root
}

// randomSenderSubtree builds a leaf fragment body: a Sender operator
// over a scan.
func randomSenderSubtree(rng *rand.Rand, cfg Config) *operator.Operator {
	scan := randomScan(rng, cfg)
	sender := &operator.Operator{
		Kind:     operator.KindSender,
		Children: []*operator.Operator{scan},
	}
	if rng.Float64() < cfg.HardAffinityChance && len(cfg.Endpoints) > 0 {
		pinned := cfg.Endpoints[rng.Intn(len(cfg.Endpoints))]
		sender.Affinity = operator.AffinityHard
		sender.AffinityHint = map[endpoint.Endpoint]float64{pinned: 1}
	}
	return sender
}

// randomScan builds a leaf Scan operator with a random number of
// splits, always at least one so every leaf has something to
// distribute.
func randomScan(rng *rand.Rand, cfg Config) *operator.Operator {
	max := cfg.MaxSplitsPerScan
	if max < 1 {
		max = 1
	}
	n := 1 + rng.Intn(max)
	splits := make([]operator.Split, n)
	for i := range splits {
		splits[i] = operator.Split{ID: randSplitID(rng)}
	}
	return &operator.Operator{Kind: operator.KindScan, Splits: splits}
}

func randSplitID(rng *rand.Rand) string {
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, 8)
	for i := range b {
		b[i] = letters[rng.Intn(len(letters))]
	}
	return string(b)
}

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

// Package endpoint describes the opaque network identity the planner
// assigns minor fragments to, and the active-endpoint lookup the stats
// collector and width decision consult.
package endpoint

import (
	"fmt"
	"strconv"
	"strings"
)

// Endpoint is an opaque execution node identity. Two Endpoints are the
// same node iff all three fields compare equal; the FabricTag
// distinguishes multiple fabrics (e.g. separate data-transfer planes)
// fronted by the same host:port.
type Endpoint struct {
	Host      string
	Port      int32
	FabricTag string
}

// Key returns a value suitable for use as a map key or for stable
// comparisons; Endpoint itself is already comparable, but affinity maps
// are keyed by Key() throughout the planner so that zero-value
// FabricTags don't need special-casing at call sites.
func (e Endpoint) Key() string {
	return fmt.Sprintf("%s:%d#%s", e.Host, e.Port, e.FabricTag)
}

func (e Endpoint) String() string {
	if e.FabricTag == "" {
		return fmt.Sprintf("%s:%d", e.Host, e.Port)
	}
	return fmt.Sprintf("%s:%d#%s", e.Host, e.Port, e.FabricTag)
}

// MarshalText renders an Endpoint the same way String does, which lets
// encoding/json use it as an object key (e.g. AffinityHint maps) instead
// of rejecting the struct type outright.
func (e Endpoint) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText reverses MarshalText.
func (e *Endpoint) UnmarshalText(text []byte) error {
	s := string(text)
	host, rest, ok := strings.Cut(s, ":")
	if !ok {
		return fmt.Errorf("endpoint %q missing host:port separator", s)
	}
	portStr, fabricTag, _ := strings.Cut(rest, "#")
	port, err := strconv.ParseInt(portStr, 10, 32)
	if err != nil {
		return fmt.Errorf("endpoint %q has non-numeric port: %w", s, err)
	}
	e.Host = host
	e.Port = int32(port)
	e.FabricTag = fabricTag
	return nil
}

// NodeMap is a lookup structure built once per query from the active
// endpoint collection. It answers whether an endpoint is active
// and projects raw affinity data (which may reference endpoints that
// are no longer part of the cluster) onto the active set.
//
// NodeMap preserves the iteration order of the endpoints it was built
// from; that order is what makes round-robin assignment deterministic.
type NodeMap struct {
	order  []Endpoint
	active map[string]struct{}
}

// NewNodeMap builds a NodeMap from the supplied, already-ordered
// endpoint collection. An empty slice is accepted and produces a
// NodeMap where every endpoint is inactive; callers get an empty
// affinity projection rather than a construction error.
func NewNodeMap(active []Endpoint) *NodeMap {
	m := &NodeMap{
		order:  append([]Endpoint(nil), active...),
		active: make(map[string]struct{}, len(active)),
	}
	for _, e := range active {
		m.active[e.Key()] = struct{}{}
	}
	return m
}

// IsActive reports whether e is part of the active endpoint set.
func (m *NodeMap) IsActive(e Endpoint) bool {
	_, ok := m.active[e.Key()]
	return ok
}

// Active returns the active endpoints in their original iteration
// order. Callers must not mutate the returned slice.
func (m *NodeMap) Active() []Endpoint {
	return m.order
}

// ProjectAffinity drops entries from raw that do not name an active
// endpoint, leaving the per-endpoint weights for the nodes that remain
// eligible for placement.
func (m *NodeMap) ProjectAffinity(raw map[Endpoint]float64) map[string]float64 {
	projected := make(map[string]float64, len(raw))
	for e, w := range raw {
		if m.IsActive(e) {
			projected[e.Key()] += w
		}
	}
	return projected
}


/*
Package game
File: mechanics.go
Description:
    Lookup helpers for the static map: route durations between ports and
    resolving player-typed port names.
*/

package game

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// TravelDays returns the route duration between two ports.
// ok is false when the route is not in the table (unreachable).
func (c Config) TravelDays(from, to Port) (float64, bool) {
	for _, p := range c.Ports {
		if p.Name != from {
			continue
		}
		days, ok := p.Routes[to]
		return days, ok
	}
	return 0, false
}

// HasPort reports whether a port is on the map.
func (c Config) HasPort(p Port) bool {
	for _, candidate := range c.Ports {
		if candidate.Name == p {
			return true
		}
	}
	return false
}

// ParsePort resolves a player-typed name to a configured port. Matching is
// case-insensitive and tolerates small typos ("egpyt").
func ParsePort(name string, ports []Port) (Port, error) {
	token := strings.ToLower(strings.TrimSpace(name))
	if token == "" {
		return "", fmt.Errorf("empty port name")
	}

	type scored struct {
		port Port
		dist int
	}
	var prefix []Port
	var near []scored

	for _, p := range ports {
		cand := strings.ToLower(string(p))
		if cand == token {
			return p, nil
		}
		if len(token) >= 2 && strings.HasPrefix(cand, token) {
			prefix = append(prefix, p)
			continue
		}
		if dist := levenshtein.ComputeDistance(token, cand); dist <= typoLimit(len(cand)) {
			near = append(near, scored{port: p, dist: dist})
		}
	}

	if len(prefix) == 1 {
		return prefix[0], nil
	}
	if len(prefix) > 1 {
		return "", fmt.Errorf("port %q is ambiguous: %s", name, joinPorts(prefix))
	}
	if len(near) == 0 {
		return "", fmt.Errorf("unknown port %q", name)
	}

	sort.SliceStable(near, func(i, j int) bool { return near[i].dist < near[j].dist })
	if len(near) > 1 && near[0].dist == near[1].dist {
		return "", fmt.Errorf("unknown port %q (did you mean %s or %s?)", name, near[0].port, near[1].port)
	}
	return near[0].port, nil
}

func typoLimit(n int) int {
	if n <= 4 {
		return 1
	}
	return 2
}

func joinPorts(ports []Port) string {
	names := make([]string, len(ports))
	for i, p := range ports {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

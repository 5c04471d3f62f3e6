// Package domain contains the core release model and the pure logic of the publish engine.
package domain

import (
	"slices"
	"strings"
)

// SortPackages orders names so that every package follows the packages it depends on.
//
// edges maps a package to the names it depends on. Names outside the input set are
// ignored and a missing entry means the package has no dependencies. Ready packages
// are emitted in input order, so the result is deterministic for a given input.
//
// When the graph contains a cycle, ok is false, cycle describes one cycle path and
// ordered is the input order unchanged, so callers can still proceed.
func SortPackages(names []string, edges map[string][]string) (ordered []string, ok bool, cycle string) {
	if len(names) == 0 {
		return []string{}, true, ""
	}

	index := make(map[string]int, len(names))
	for i, name := range names {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	inDegree := make(map[string]int, len(index))
	dependents := make(map[string][]string, len(index))
	for name := range index {
		for _, dep := range dedupe(edges[name]) {
			if _, inSet := index[dep]; !inSet {
				continue
			}
			inDegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	// Ready queue kept sorted by input position.
	var ready []string
	for name := range index {
		if inDegree[name] == 0 {
			ready = append(ready, name)
		}
	}
	byIndex := func(a, b string) int { return index[a] - index[b] }
	slices.SortFunc(ready, byIndex)

	ordered = make([]string, 0, len(index))
	for len(ready) > 0 {
		next := ready[0]
		ready = ready[1:]
		ordered = append(ordered, next)

		for _, dependent := range dependents[next] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				pos, _ := slices.BinarySearchFunc(ready, dependent, byIndex)
				ready = slices.Insert(ready, pos, dependent)
			}
		}
	}

	if len(ordered) < len(index) {
		return slices.Clone(names), false, findCycle(names, index, edges, inDegree)
	}
	return ordered, true, ""
}

// findCycle walks the nodes left over by Kahn's algorithm and returns one cycle path.
func findCycle(names []string, index map[string]int, edges map[string][]string, inDegree map[string]int) string {
	visited := make(map[string]int) // 0: unvisited, 1: visiting, 2: visited
	var path []string
	var found string

	var visit func(u string) bool
	visit = func(u string) bool {
		visited[u] = 1
		path = append(path, u)
		for _, dep := range dedupe(edges[u]) {
			if _, inSet := index[dep]; !inSet {
				continue
			}
			if visited[dep] == 1 {
				found = buildCyclePath(path, dep)
				return true
			}
			if visited[dep] == 0 && visit(dep) {
				return true
			}
		}
		visited[u] = 2
		path = path[:len(path)-1]
		return false
	}

	for _, name := range names {
		if inDegree[name] > 0 && visited[name] == 0 && visit(name) {
			return found
		}
	}
	return "unresolvable dependency cycle"
}

func buildCyclePath(path []string, dep string) string {
	start := slices.Index(path, dep)
	if start < 0 {
		start = 0
	}
	parts := append(slices.Clone(path[start:]), dep)
	return strings.Join(parts, " -> ")
}

// Ranks groups an ordered list into dependency levels. Packages in the same rank do
// not depend on each other; rank n only depends on ranks below n.
func Ranks(ordered []string, edges map[string][]string) [][]string {
	inSet := make(map[string]bool, len(ordered))
	for _, name := range ordered {
		inSet[name] = true
	}

	level := make(map[string]int, len(ordered))
	var ranks [][]string
	for _, name := range ordered {
		rank := 0
		for _, dep := range edges[name] {
			if l, seen := level[dep]; seen && inSet[dep] && l+1 > rank {
				rank = l + 1
			}
		}
		level[name] = rank
		for len(ranks) <= rank {
			ranks = append(ranks, nil)
		}
		ranks[rank] = append(ranks[rank], name)
	}
	return ranks
}

// RestrictEdges drops every dependency that is not itself in names.
func RestrictEdges(names []string, deps map[string][]string) map[string][]string {
	inSet := make(map[string]bool, len(names))
	for _, name := range names {
		inSet[name] = true
	}

	edges := make(map[string][]string, len(names))
	for _, name := range names {
		for _, dep := range dedupe(deps[name]) {
			if inSet[dep] && dep != name {
				edges[name] = append(edges[name], dep)
			}
		}
	}
	return edges
}

func dedupe(values []string) []string {
	if len(values) < 2 {
		return values
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

package domain_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ship/internal/core/domain"
)

func TestSortPackages_RespectsDependencies(t *testing.T) {
	names := []string{"app", "ui", "core", "utils"}
	edges := map[string][]string{
		"app":  {"ui", "core"},
		"ui":   {"core", "utils"},
		"core": {"utils"},
	}

	ordered, ok, cycle := domain.SortPackages(names, edges)

	require.True(t, ok)
	assert.Empty(t, cycle)
	assert.Equal(t, []string{"utils", "core", "ui", "app"}, ordered)
	assertTopological(t, ordered, edges)
}

func TestSortPackages_TiesBrokenByInputOrder(t *testing.T) {
	names := []string{"c", "a", "b", "d"}
	edges := map[string][]string{
		"d": {"b"},
	}

	ordered, ok, _ := domain.SortPackages(names, edges)

	require.True(t, ok)
	assert.Equal(t, []string{"c", "a", "b", "d"}, ordered)

	// Deterministic across repeated calls.
	for range 10 {
		again, _, _ := domain.SortPackages(names, edges)
		assert.Equal(t, ordered, again)
	}
}

func TestSortPackages_ReleasedDependentKeepsInputPriority(t *testing.T) {
	names := []string{"x", "z", "y", "base"}
	edges := map[string][]string{
		"x": {"base"},
		"y": {"base"},
	}

	ordered, ok, _ := domain.SortPackages(names, edges)

	require.True(t, ok)
	assert.Equal(t, []string{"z", "base", "x", "y"}, ordered)
}

func TestSortPackages_IgnoresEdgesOutsideSet(t *testing.T) {
	names := []string{"b", "a"}
	edges := map[string][]string{
		"a": {"react", "lodash"},
		"b": {"a", "typescript"},
	}

	ordered, ok, _ := domain.SortPackages(names, edges)

	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, ordered)
}

func TestSortPackages_Cycle(t *testing.T) {
	names := []string{"a", "b", "c", "d"}
	edges := map[string][]string{
		"a": {"b"},
		"b": {"c"},
		"c": {"a"},
	}

	ordered, ok, cycle := domain.SortPackages(names, edges)

	assert.False(t, ok)
	assert.Equal(t, names, ordered, "cycle falls back to input order")
	assert.Equal(t, "a -> b -> c -> a", cycle)
}

func TestSortPackages_CycleDoesNotAliasInput(t *testing.T) {
	names := []string{"a", "b"}
	edges := map[string][]string{"a": {"b"}, "b": {"a"}}

	ordered, ok, _ := domain.SortPackages(names, edges)
	require.False(t, ok)

	ordered[0] = "mutated"
	assert.Equal(t, "a", names[0])
}

func TestSortPackages_Empty(t *testing.T) {
	ordered, ok, cycle := domain.SortPackages(nil, nil)

	assert.True(t, ok)
	assert.Empty(t, cycle)
	assert.NotNil(t, ordered)
	assert.Empty(t, ordered)
}

func TestSortPackages_DuplicateEdges(t *testing.T) {
	names := []string{"b", "a"}
	edges := map[string][]string{"b": {"a", "a"}}

	ordered, ok, _ := domain.SortPackages(names, edges)

	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, ordered)
}

func TestRanks(t *testing.T) {
	ordered := []string{"utils", "logger", "core", "ui", "app"}
	edges := map[string][]string{
		"core": {"utils"},
		"ui":   {"core", "logger"},
		"app":  {"ui"},
	}

	ranks := domain.Ranks(ordered, edges)

	assert.Equal(t, [][]string{
		{"utils", "logger"},
		{"core"},
		{"ui"},
		{"app"},
	}, ranks)
}

func TestRestrictEdges(t *testing.T) {
	deps := map[string][]string{
		"a": {"b", "react", "a", "b"},
		"b": {"typescript"},
		"z": {"a"},
	}

	edges := domain.RestrictEdges([]string{"a", "b"}, deps)

	assert.Equal(t, map[string][]string{"a": {"b"}}, edges)
}

func assertTopological(t *testing.T, ordered []string, edges map[string][]string) {
	t.Helper()
	for name, deps := range edges {
		for _, dep := range deps {
			if !slices.Contains(ordered, dep) {
				continue
			}
			assert.Less(t, slices.Index(ordered, dep), slices.Index(ordered, name),
				"%s must come before %s", dep, name)
		}
	}
}

package releases

import (
	"context"
	"slices"

	"go.trai.ch/ship/internal/core/domain"
)

// Static is a fixed release list, as given by flags or configuration.
type Static struct {
	releases []domain.Release
}

// NewStatic creates a Static source.
func NewStatic(releases []domain.Release) *Static {
	return &Static{releases: releases}
}

// Releases returns the configured list.
func (s *Static) Releases(context.Context, string, domain.PackageManager) ([]domain.Release, error) {
	return slices.Clone(s.releases), nil
}

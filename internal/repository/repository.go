// Package repository declares the storage interfaces the service layer
// depends on. Implementations live in subpackages (see sqlite).
package repository

import (
	"context"

	"github.com/sakif/discord-lookup/internal/model"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

type ListOptions struct {
	Limit  int
	Offset int
}

// Normalize clamps Limit into [1, MaxListLimit], using DefaultListLimit when
// unset, and floors Offset at 0.
func (o ListOptions) Normalize() ListOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultListLimit
	}
	if o.Limit > MaxListLimit {
		o.Limit = MaxListLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}

// LookupRepository stores the lookup history, newest first.
type LookupRepository interface {
	// Record assigns lookup.ID and, if zero, lookup.SearchedAt.
	Record(ctx context.Context, lookup *model.Lookup) error
	ListRecent(ctx context.Context, opts ListOptions) ([]model.Lookup, error)
}

// Package repository defines the mentor roster store interface and errors.
package repository

import (
	"context"

	"github.com/mentorverse/sensei/internal/domain/matching"
	"github.com/mentorverse/sensei/internal/domain/matchmaker"
	"github.com/mentorverse/sensei/internal/domain/model"
	"github.com/mentorverse/sensei/internal/domain/types"
)

// Store provides read/write access to the registered mentor roster.
type Store interface {
	// Upsert registers a mentor, or replaces the registration already
	// held under the same mentor ID. Returns true when the mentor was new
	// to the roster.
	Upsert(ctx context.Context, reg model.MentorRegistration, idx matching.MentorIndex) (bool, error)

	// Rank returns the roster position of a mentor, ranked by open
	// availability. Returns ErrNotFound if the mentor is unknown.
	Rank(ctx context.Context, mentorID string) (types.Entry, error)

	// TopN returns the n most available mentors, best first.
	TopN(ctx context.Context, n int) ([]types.Entry, error)

	// Pool returns every registered mentor paired with its precomputed
	// match index, in roster order.
	Pool(ctx context.Context) ([]matchmaker.PoolEntry, error)

	// Count returns the number of registered mentors.
	Count(ctx context.Context) int
}

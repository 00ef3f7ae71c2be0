package store

import (
	"context"

	"github.com/avoronova/tally/internal/domain"
)

// RecordStore is the persistence gateway the upload pipeline writes
// through. Implementations: the remote HTTP client and the local SQLite
// repository.
type RecordStore interface {
	// Search returns every persisted record whose Date equals one of the
	// given dates (an OR across per-date equality predicates).
	Search(ctx context.Context, dates []string) ([]Record, error)

	// Upsert writes the batch, using dedupFields for duplicate detection.
	// It must never leave two live records sharing the same natural key.
	Upsert(ctx context.Context, records []Record, dedupFields []string) error
}

// DirectoryProvider fetches the group/member snapshot. Called once per
// upload run; the result is read-only for the remainder of the session.
type DirectoryProvider interface {
	FetchGroups(ctx context.Context) (*domain.Directory, error)
}

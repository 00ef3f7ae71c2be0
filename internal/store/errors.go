package store

import "errors"

var (
	// ErrUnavailable indicates the record store could not be reached.
	ErrUnavailable = errors.New("record store unreachable")

	// ErrFetchFailed indicates the pre-merge read of existing records
	// failed; no upsert may be attempted on an unknown merge basis.
	ErrFetchFailed = errors.New("fetching existing records failed")

	// ErrUpsertFailed indicates the batch write was rejected or lost.
	ErrUpsertFailed = errors.New("upserting records failed")

	// ErrDirectoryUnavailable indicates the group directory could not be
	// fetched. Non-fatal: uploads proceed without group aggregation.
	ErrDirectoryUnavailable = errors.New("group directory unavailable")
)

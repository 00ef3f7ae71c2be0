package service

import (
	"context"
	"io"

	"github.com/avoronova/tally/internal/domain"
	"github.com/avoronova/tally/internal/importer"
)

// UploadOptions tunes one upload run.
type UploadOptions struct {
	// Verify enables the post-upsert visibility poll.
	Verify bool

	// ConfirmMerge, when set, is called before the upsert whenever the
	// batch would merge into existing records. It receives the number of
	// records that will be updated in place; returning false aborts the
	// run with ErrUploadDeclined. Exists because re-uploading the same
	// file sums slot counts on top of the previous run.
	ConfirmMerge func(updating int) bool
}

// UploadResult summarizes a completed (or declined) upload run.
type UploadResult struct {
	BatchID string
	Report  *importer.Report
	Dates   []string

	UserAggregates  int
	GroupAggregates int
	Created         int
	Updated         int

	// GroupsSkipped is set when the directory fetch failed and the run
	// proceeded with individual aggregation only.
	GroupsSkipped bool

	// Verified reports whether the visibility poll confirmed the write.
	// False with a nil error means verification was not requested.
	Verified bool
}

// InspectResult is the outcome of a dry run: classification and
// aggregation only, no store access.
type InspectResult struct {
	Report        *importer.Report
	Dates         []string
	Users         []*domain.Aggregate
	Groups        []*domain.Aggregate
	GroupsSkipped bool
}

// UploadService runs the ingest → classify → bucket → merge → upsert →
// verify pipeline. One file per invocation; callers serialize uploads.
type UploadService interface {
	Upload(ctx context.Context, file io.Reader, opts UploadOptions) (*UploadResult, error)
	Inspect(ctx context.Context, file io.Reader) (*InspectResult, error)
	Verify(ctx context.Context, date string) error
}

package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/avoronova/tally/internal/aggregate"
	"github.com/avoronova/tally/internal/domain"
	"github.com/avoronova/tally/internal/importer"
	"github.com/avoronova/tally/internal/store"
	"github.com/google/uuid"
)

type uploadService struct {
	records   store.RecordStore
	directory store.DirectoryProvider
	rules     importer.Rules
	poller    *Poller
	observer  StageObserver
}

// NewUploadService wires the upload pipeline. directory may be nil, which
// disables group aggregation entirely.
func NewUploadService(
	records store.RecordStore,
	directory store.DirectoryProvider,
	rules importer.Rules,
	poller *Poller,
	observers ...StageObserver,
) UploadService {
	return &uploadService{
		records:   records,
		directory: directory,
		rules:     rules,
		poller:    poller,
		observer:  stageObserverOrNoop(observers),
	}
}

func (s *uploadService) Upload(ctx context.Context, file io.Reader, opts UploadOptions) (*UploadResult, error) {
	batchID := uuid.New().String()
	result := &UploadResult{BatchID: batchID}

	report, err := s.parse(ctx, batchID, file)
	if err != nil {
		return nil, err
	}
	result.Report = report

	dir, dirSkipped := s.fetchDirectory(ctx, batchID)
	result.GroupsSkipped = dirSkipped

	batch := aggregate.Build(report.Rows, dir)
	result.Dates = batch.Dates()
	result.UserAggregates = len(batch.Users())
	result.GroupAggregates = len(batch.Groups())
	s.observe(ctx, batchID, "aggregate", time.Duration(0), nil, map[string]any{
		"users":  result.UserAggregates,
		"groups": result.GroupAggregates,
		"dates":  len(result.Dates),
	})

	if len(result.Dates) == 0 {
		// Nothing countable in the file; no store access needed.
		return result, nil
	}

	records, created, updated, err := s.reconcile(ctx, batchID, batch, opts, result)
	if err != nil {
		return nil, err
	}
	if records == nil {
		// Declined by the confirmation hook.
		return result, ErrUploadDeclined
	}
	result.Created = created
	result.Updated = updated

	start := time.Now()
	err = s.records.Upsert(ctx, records, []string{store.DedupField})
	s.observe(ctx, batchID, "upsert", time.Since(start), err, map[string]any{"records": len(records)})
	if err != nil {
		return nil, err
	}

	if !opts.Verify {
		return result, nil
	}

	// The upsert acknowledgment above is a precondition: polling never
	// starts before the write was accepted.
	start = time.Now()
	err = s.poller.Confirm(ctx, result.Dates[0])
	s.observe(ctx, batchID, "verify", time.Since(start), err, map[string]any{"date": result.Dates[0]})
	if err != nil {
		return result, err
	}
	result.Verified = true
	return result, nil
}

func (s *uploadService) Inspect(ctx context.Context, file io.Reader) (*InspectResult, error) {
	batchID := uuid.New().String()

	report, err := s.parse(ctx, batchID, file)
	if err != nil {
		return nil, err
	}

	dir, dirSkipped := s.fetchDirectory(ctx, batchID)
	batch := aggregate.Build(report.Rows, dir)

	return &InspectResult{
		Report:        report,
		Dates:         batch.Dates(),
		Users:         batch.Users(),
		Groups:        batch.Groups(),
		GroupsSkipped: dirSkipped,
	}, nil
}

func (s *uploadService) Verify(ctx context.Context, date string) error {
	return s.poller.Confirm(ctx, date)
}

func (s *uploadService) parse(ctx context.Context, batchID string, file io.Reader) (*importer.Report, error) {
	start := time.Now()
	report, err := importer.Parse(file, s.rules)
	fields := map[string]any{}
	if report != nil {
		fields["rows"] = report.Total
		fields["accepted"] = report.Accepted
	}
	s.observe(ctx, batchID, "parse", time.Since(start), err, fields)
	if err != nil {
		return nil, fmt.Errorf("parsing activity export: %w", err)
	}
	return report, nil
}

// fetchDirectory returns the group snapshot, or nil with skipped=true when
// the provider is missing or failing. Directory trouble never fails the
// batch; individual aggregation proceeds without the group side.
func (s *uploadService) fetchDirectory(ctx context.Context, batchID string) (*domain.Directory, bool) {
	if s.directory == nil {
		return nil, true
	}
	start := time.Now()
	dir, err := s.directory.FetchGroups(ctx)
	fields := map[string]any{}
	if dir != nil {
		fields["groups"] = len(dir.Groups)
	}
	s.observe(ctx, batchID, "directory", time.Since(start), err, fields)
	if err != nil {
		return nil, true
	}
	return dir, false
}

// reconcile fetches the persisted records for the batch's dates, merges
// the new aggregates into them by natural key, and returns the records to
// upsert. A nil record slice with a nil error means the confirmation hook
// declined the merge.
func (s *uploadService) reconcile(
	ctx context.Context,
	batchID string,
	batch *aggregate.Batch,
	opts UploadOptions,
	result *UploadResult,
) ([]store.Record, int, int, error) {
	start := time.Now()
	existing, err := s.records.Search(ctx, batch.Dates())
	s.observe(ctx, batchID, "fetch", time.Since(start), err, map[string]any{"existing": len(existing)})
	if err != nil {
		// Merge basis unknown: nothing may be written.
		return nil, 0, 0, err
	}

	index := make(map[string]store.Record, len(existing))
	for _, rec := range existing {
		index[rec.RecordType+"\x00"+rec.Name] = rec
	}

	aggregates := batch.All()
	updating := 0
	for _, a := range aggregates {
		if _, ok := index[string(a.Kind)+"\x00"+a.NaturalKey()]; ok {
			updating++
		}
	}

	if updating > 0 && opts.ConfirmMerge != nil && !opts.ConfirmMerge(updating) {
		return nil, 0, 0, nil
	}

	records := make([]store.Record, 0, len(aggregates))
	created, updated := 0, 0
	for _, a := range aggregates {
		if rec, ok := index[string(a.Kind)+"\x00"+a.NaturalKey()]; ok {
			if err := rec.MergeAggregate(a); err != nil {
				return nil, 0, 0, fmt.Errorf("%w: record %q: %v", store.ErrFetchFailed, rec.Name, err)
			}
			records = append(records, rec)
			updated++
			continue
		}
		records = append(records, store.FromAggregate(a))
		created++
	}

	s.observe(ctx, batchID, "merge", time.Duration(0), nil, map[string]any{
		"created": created,
		"updated": updated,
	})
	return records, created, updated, nil
}

func (s *uploadService) observe(ctx context.Context, batchID, stage string, d time.Duration, err error, fields map[string]any) {
	s.observer.ObserveStage(ctx, StageEvent{
		Batch:    batchID,
		Stage:    stage,
		Duration: d,
		Success:  err == nil,
		Err:      err,
		Fields:   fields,
	})
}

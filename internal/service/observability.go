package service

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// StageEvent captures lightweight execution telemetry for one stage of an
// upload run: parse, directory fetch, aggregate, fetch, merge, upsert, and
// each verification attempt.
type StageEvent struct {
	Batch    string
	Stage    string
	Duration time.Duration
	Success  bool
	Err      error
	Fields   map[string]any
}

// StageObserver receives upload stage events.
type StageObserver interface {
	ObserveStage(ctx context.Context, event StageEvent)
}

// NoopStageObserver ignores all events.
type NoopStageObserver struct{}

func (NoopStageObserver) ObserveStage(context.Context, StageEvent) {}

type logStageObserver struct {
	logger *slog.Logger
}

// NewLogStageObserver writes upload stage events to the provided writer.
func NewLogStageObserver(w io.Writer) StageObserver {
	if w == nil {
		return NoopStageObserver{}
	}
	return &logStageObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logStageObserver) ObserveStage(ctx context.Context, event StageEvent) {
	attrs := make([]any, 0, 8+len(event.Fields)*2)
	attrs = append(attrs,
		"batch", event.Batch,
		"stage", event.Stage,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	)
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.ErrorContext(ctx, "upload_stage", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "upload_stage", attrs...)
}

func stageObserverOrNoop(observers []StageObserver) StageObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopStageObserver{}
}

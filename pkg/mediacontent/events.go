package mediacontent

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// NoopEventSink discards all events.
type NoopEventSink struct{}

// NewNoopEventSink creates an event sink that does nothing.
func NewNoopEventSink() *NoopEventSink { return &NoopEventSink{} }

func (s *NoopEventSink) RecordCreated(ctx context.Context, record *Record) {}

func (s *NoopEventSink) RecordDeleted(ctx context.Context, recordID uuid.UUID, kind ContentKind) {}

func (s *NoopEventSink) AssetsCompensated(ctx context.Context, remoteRefs []string, cause error) {}

// SlogEventSink writes lifecycle events to a structured logger. It stands in
// for an external audit feed.
type SlogEventSink struct {
	log *slog.Logger
}

// NewSlogEventSink creates an event sink backed by log.
func NewSlogEventSink(log *slog.Logger) *SlogEventSink {
	return &SlogEventSink{log: log}
}

func (s *SlogEventSink) RecordCreated(ctx context.Context, record *Record) {
	s.log.Info("event: record created",
		"record_id", record.ID, "kind", record.Kind, "assets", len(record.Assets))
}

func (s *SlogEventSink) RecordDeleted(ctx context.Context, recordID uuid.UUID, kind ContentKind) {
	s.log.Info("event: record deleted", "record_id", recordID, "kind", kind)
}

func (s *SlogEventSink) AssetsCompensated(ctx context.Context, remoteRefs []string, cause error) {
	s.log.Warn("event: assets compensated", "remote_refs", remoteRefs, "cause", cause)
}

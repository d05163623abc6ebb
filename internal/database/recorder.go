package database

import (
	"context"
	"sync"
	"time"

	"FitCoach_V0.1/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
)

const (
	recordTimeout = 2 * time.Second
	recordBuffer  = 256
)

type queuedEvent struct {
	evt    domain.GenerationEvent
	logger *zerolog.Logger
}

// Recorder persists generation events from a single background writer.
// RecordGeneration only enqueues; when the queue is full the event is
// dropped. Write failures are logged so the audit trail never affects a
// response.
type Recorder struct {
	q      *Queries
	events chan queuedEvent
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewRecorder(q *Queries) *Recorder {
	return newRecorder(q, recordBuffer)
}

func newRecorder(q *Queries, buffer int) *Recorder {
	r := &Recorder{
		q:      q,
		events: make(chan queuedEvent, buffer),
		done:   make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *Recorder) RecordGeneration(ctx context.Context, evt domain.GenerationEvent) {
	logger := zerolog.Ctx(ctx)

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}

	select {
	case r.events <- queuedEvent{evt: evt, logger: logger}:
	default:
		logger.Warn().Str("kind", evt.Kind).Msg("Audit queue full, dropping generation event")
	}
}

// Close stops accepting events and waits for the queued ones to be written.
func (r *Recorder) Close() {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.events)
	}
	r.mu.Unlock()
	<-r.done
}

func (r *Recorder) run() {
	defer close(r.done)
	for qe := range r.events {
		r.write(qe)
	}
}

func (r *Recorder) write(qe queuedEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	evt := qe.evt
	params := InsertGenerationEventParams{
		ID:         pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Kind:       evt.Kind,
		Source:     evt.Source,
		Fallback:   evt.Fallback,
		DurationMs: evt.Duration.Milliseconds(),
		Error:      pgtype.Text{String: evt.Error, Valid: evt.Error != ""},
	}
	if _, err := r.q.InsertGenerationEvent(ctx, params); err != nil {
		qe.logger.Error().Err(err).Str("kind", evt.Kind).Msg("Failed to record generation event")
	}
}

package database

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"FitCoach_V0.1/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"
)

// fakeDB records statements and serves canned rows.
type fakeDB struct {
	sql     string
	args    []interface{}
	rows    []GenerationEvent
	scanErr error
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	f.sql, f.args = sql, args
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeDB) Query(_ context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	f.sql, f.args = sql, args
	return &fakeRows{rows: f.rows, idx: -1}, nil
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...interface{}) pgx.Row {
	f.sql, f.args = sql, args
	if f.scanErr != nil {
		return fakeRow{err: f.scanErr}
	}
	evt := GenerationEvent{
		ID:         args[0].(pgtype.UUID),
		Kind:       args[1].(string),
		Source:     args[2].(string),
		Fallback:   args[3].(bool),
		DurationMs: args[4].(int64),
		Error:      args[5].(pgtype.Text),
		CreatedAt:  pgtype.Timestamptz{Time: time.Unix(1700000000, 0), Valid: true},
	}
	return fakeRow{evt: evt}
}

type fakeRow struct {
	evt GenerationEvent
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return scanEvent(r.evt, dest)
}

type fakeRows struct {
	rows []GenerationEvent
	idx  int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx < len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	return scanEvent(r.rows[r.idx], dest)
}

func scanEvent(evt GenerationEvent, dest []any) error {
	if len(dest) != 7 {
		return errors.New("unexpected column count")
	}
	*dest[0].(*pgtype.UUID) = evt.ID
	*dest[1].(*string) = evt.Kind
	*dest[2].(*string) = evt.Source
	*dest[3].(*bool) = evt.Fallback
	*dest[4].(*int64) = evt.DurationMs
	*dest[5].(*pgtype.Text) = evt.Error
	*dest[6].(*pgtype.Timestamptz) = evt.CreatedAt
	return nil
}

func TestInsertGenerationEvent(t *testing.T) {
	db := &fakeDB{}
	q := New(db)

	got, err := q.InsertGenerationEvent(context.Background(), InsertGenerationEventParams{
		Kind:       domain.EventImage,
		Source:     "pexels",
		Fallback:   true,
		DurationMs: 120,
		Error:      pgtype.Text{String: "openrouter: no image", Valid: true},
	})
	require.NoError(t, err)
	require.Contains(t, db.sql, "INSERT INTO generation_events")
	require.Equal(t, "pexels", got.Source)
	require.True(t, got.Fallback)
	require.Equal(t, int64(120), got.DurationMs)
	require.True(t, got.CreatedAt.Valid)
}

func TestListRecentGenerationEvents(t *testing.T) {
	db := &fakeDB{rows: []GenerationEvent{
		{Kind: domain.EventPlan, Source: "gemini"},
		{Kind: domain.EventQuote, Source: "fallback", Fallback: true},
	}}

	events, err := New(db).ListRecentGenerationEvents(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "gemini", events[0].Source)
	require.True(t, events[1].Fallback)
	require.Contains(t, db.sql, "ORDER BY created_at DESC")
	require.Equal(t, []interface{}{int32(10)}, db.args)
}

func TestRecorderMapsEvent(t *testing.T) {
	db := &fakeDB{}
	rec := NewRecorder(New(db))

	rec.RecordGeneration(context.Background(), domain.GenerationEvent{
		Kind:     domain.EventSpeech,
		Source:   "elevenlabs",
		Duration: 1500 * time.Millisecond,
		Error:    "quota exceeded",
	})
	rec.Close()

	require.Len(t, db.args, 6)
	require.True(t, db.args[0].(pgtype.UUID).Valid)
	require.Equal(t, domain.EventSpeech, db.args[1])
	require.Equal(t, int64(1500), db.args[4])
	require.Equal(t, pgtype.Text{String: "quota exceeded", Valid: true}, db.args[5])
}

func TestRecorderEmptyErrorIsNull(t *testing.T) {
	db := &fakeDB{}
	rec := NewRecorder(New(db))
	rec.RecordGeneration(context.Background(), domain.GenerationEvent{Kind: domain.EventPlan, Source: "gemini"})
	rec.Close()
	require.False(t, db.args[5].(pgtype.Text).Valid)
}

func TestRecorderSwallowsWriteErrors(t *testing.T) {
	db := &fakeDB{scanErr: errors.New("connection reset")}
	require.NotPanics(t, func() {
		rec := NewRecorder(New(db))
		rec.RecordGeneration(context.Background(), domain.GenerationEvent{Kind: domain.EventPlan})
		rec.Close()
	})
}

// stallingDB blocks every insert until gate is closed.
type stallingDB struct {
	fakeDB
	entered chan struct{}
	gate    chan struct{}
	inserts atomic.Int32
}

func (s *stallingDB) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	if s.inserts.Add(1) == 1 {
		close(s.entered)
	}
	<-s.gate
	return s.fakeDB.QueryRow(ctx, sql, args...)
}

func TestRecorderDoesNotBlockOnSlowDatabase(t *testing.T) {
	db := &stallingDB{entered: make(chan struct{}), gate: make(chan struct{})}
	rec := newRecorder(New(db), 1)
	evt := domain.GenerationEvent{Kind: domain.EventImage, Source: "pexels"}

	rec.RecordGeneration(context.Background(), evt)
	<-db.entered

	start := time.Now()
	rec.RecordGeneration(context.Background(), evt) // queued
	rec.RecordGeneration(context.Background(), evt) // queue full, dropped
	require.Less(t, time.Since(start), time.Second)

	close(db.gate)
	rec.Close()
	require.EqualValues(t, 2, db.inserts.Load())

	require.NotPanics(t, func() {
		rec.RecordGeneration(context.Background(), evt)
		rec.Close()
	})
	require.EqualValues(t, 2, db.inserts.Load())
}

type stubStat struct {
	acquired, max int32
	empty         int64
}

func (s stubStat) TotalConns() int32              { return s.max }
func (s stubStat) IdleConns() int32               { return s.max - s.acquired }
func (s stubStat) AcquiredConns() int32           { return s.acquired }
func (s stubStat) MaxConns() int32                { return s.max }
func (s stubStat) AcquireCount() int64            { return 42 }
func (s stubStat) AcquireDuration() time.Duration { return 3 * time.Millisecond }
func (s stubStat) EmptyAcquireCount() int64       { return s.empty }
func (s stubStat) CanceledAcquireCount() int64    { return 0 }

func TestPoolHealth(t *testing.T) {
	healthy := poolHealth(stubStat{acquired: 1, max: 10})
	require.Equal(t, "up", healthy["status"])
	require.Equal(t, "10", healthy["max_conns"])
	require.Equal(t, "3", healthy["acquire_duration_ms"])
	require.NotContains(t, healthy, "message")

	busy := poolHealth(stubStat{acquired: 9, max: 10})
	require.Contains(t, busy["message"], "heavy load")

	starved := poolHealth(stubStat{acquired: 1, max: 10, empty: 2})
	require.Contains(t, starved["message"], "empty pool")
}

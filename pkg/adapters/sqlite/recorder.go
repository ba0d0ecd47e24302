package sqlite

import (
	"context"
	"fmt"

	"github.com/aretw0/pathway/pkg/domain"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS trace (
	run_id   TEXT    NOT NULL,
	seq      INTEGER NOT NULL,
	time     REAL    NOT NULL,
	agent_id TEXT    NOT NULL,
	from_slug TEXT   NOT NULL,
	to_slug  TEXT    NOT NULL,
	kind     TEXT    NOT NULL,
	PRIMARY KEY (run_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_trace_agent ON trace(run_id, agent_id);
`

// row mirrors the trace table.
type row struct {
	RunID   string  `db:"run_id"`
	Seq     int     `db:"seq"`
	Time    float64 `db:"time"`
	AgentID string  `db:"agent_id"`
	From    string  `db:"from_slug"`
	To      string  `db:"to_slug"`
	Kind    string  `db:"kind"`
}

// Recorder implements ports.TraceRecorder on SQLite.
type Recorder struct {
	db *sqlx.DB
}

// Open opens or creates the database at path. Use ":memory:" for a
// throwaway database.
func Open(path string) (*Recorder, error) {
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// A :memory: database lives per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Recorder{db: db}, nil
}

// Close closes the database connection.
func (r *Recorder) Close() error {
	return r.db.Close()
}

// Record appends one entry. Re-recording the same (run, seq) replaces it.
func (r *Recorder) Record(ctx context.Context, e domain.TraceEntry) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO trace (run_id, seq, time, agent_id, from_slug, to_slug, kind)
		VALUES (:run_id, :seq, :time, :agent_id, :from_slug, :to_slug, :kind)
		ON CONFLICT(run_id, seq) DO UPDATE SET
			time = excluded.time,
			agent_id = excluded.agent_id,
			from_slug = excluded.from_slug,
			to_slug = excluded.to_slug,
			kind = excluded.kind
	`, row{
		RunID:   e.RunID,
		Seq:     e.Seq,
		Time:    e.Time,
		AgentID: e.AgentID,
		From:    e.From,
		To:      e.To,
		Kind:    e.Kind.String(),
	})
	if err != nil {
		return fmt.Errorf("failed to record trace entry: %w", err)
	}
	return nil
}

// Trace returns the entries of a run ordered by sequence.
func (r *Recorder) Trace(ctx context.Context, runID string) ([]domain.TraceEntry, error) {
	var rows []row
	err := r.db.SelectContext(ctx, &rows,
		`SELECT run_id, seq, time, agent_id, from_slug, to_slug, kind
		 FROM trace WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trace: %w", err)
	}

	out := make([]domain.TraceEntry, 0, len(rows))
	for _, rw := range rows {
		kind, err := domain.ParseTransitionKind(rw.Kind)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.TraceEntry{
			RunID:   rw.RunID,
			Seq:     rw.Seq,
			Time:    rw.Time,
			AgentID: rw.AgentID,
			From:    rw.From,
			To:      rw.To,
			Kind:    kind,
		})
	}
	return out, nil
}

// Transitions counts fired movements per (from, to) pair for a run.
func (r *Recorder) Transitions(ctx context.Context, runID string) (map[[2]string]int, error) {
	var rows []struct {
		From  string `db:"from_slug"`
		To    string `db:"to_slug"`
		Count int    `db:"n"`
	}
	err := r.db.SelectContext(ctx, &rows,
		`SELECT from_slug, to_slug, COUNT(*) AS n
		 FROM trace WHERE run_id = ? GROUP BY from_slug, to_slug`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to count transitions: %w", err)
	}

	out := make(map[[2]string]int, len(rows))
	for _, rw := range rows {
		out[[2]string{rw.From, rw.To}] = rw.Count
	}
	return out, nil
}

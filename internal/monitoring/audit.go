// Package monitoring persists an audit trail of answered queries to SQLite.
package monitoring

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/helpdesk-ai/support-engine/internal/compose"
	"github.com/helpdesk-ai/support-engine/internal/observability"
)

const schema = `
CREATE TABLE IF NOT EXISTS query_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	question TEXT NOT NULL,
	topic TEXT NOT NULL,
	strategy TEXT NOT NULL,
	provenance TEXT NOT NULL DEFAULT '',
	latency_ms INTEGER NOT NULL,
	occurred_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_query_events_topic ON query_events(topic);
CREATE INDEX IF NOT EXISTS idx_query_events_occurred_at ON query_events(occurred_at);
`

// AuditLogger records answered queries in a local SQLite database. Writes
// are best effort: a failed insert is logged and dropped, never surfaced to
// the caller.
type AuditLogger struct {
	logger *observability.Logger
	db     *sql.DB
}

// NewAuditLogger opens (and if needed initializes) the audit database.
func NewAuditLogger(logger *observability.Logger, path string) (*AuditLogger, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init audit schema: %w", err)
	}
	return &AuditLogger{
		logger: logger.WithComponent("audit"),
		db:     db,
	}, nil
}

// Record inserts one query event.
func (a *AuditLogger) Record(ctx context.Context, e compose.AuditEvent) {
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO query_events (question, topic, strategy, provenance, latency_ms, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Question, e.Topic, e.Strategy, e.Provenance, e.Latency.Milliseconds(), time.Now().UTC(),
	)
	if err != nil {
		a.logger.Warn().Err(err).Msg("Audit insert failed")
	}
}

// RecentEvents returns the most recent events, newest first.
func (a *AuditLogger) RecentEvents(ctx context.Context, limit int) ([]StoredEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := a.db.QueryContext(ctx,
		`SELECT id, question, topic, strategy, provenance, latency_ms, occurred_at
		 FROM query_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []StoredEvent
	for rows.Next() {
		var e StoredEvent
		if err := rows.Scan(&e.ID, &e.Question, &e.Topic, &e.Strategy, &e.Provenance, &e.LatencyMs, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// StoredEvent is one persisted audit row.
type StoredEvent struct {
	ID         int64     `json:"id"`
	Question   string    `json:"question"`
	Topic      string    `json:"topic"`
	Strategy   string    `json:"strategy"`
	Provenance string    `json:"provenance"`
	LatencyMs  int64     `json:"latency_ms"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Close closes the underlying database.
func (a *AuditLogger) Close() error {
	return a.db.Close()
}

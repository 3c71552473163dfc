// Package postgres persists delivered events as a queryable audit trail.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"verso/pkg/hook"
)

// Provider appends every delivered event to the hook_events table. Rows are
// immutable once written; there is no update path.
type Provider struct {
	db *sql.DB
}

func New(db *sql.DB) *Provider {
	return &Provider{db: db}
}

func (p *Provider) Name() string { return "postgres" }

// Migrate creates the trail table when it does not exist yet. Field codes are
// stored inside the JSONB column so the schema never changes when the field
// vocabulary grows.
func (p *Provider) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS hook_events (
			id          UUID PRIMARY KEY,
			event_type  TEXT NOT NULL,
			occurred_at TIMESTAMPTZ NOT NULL,
			fields      JSONB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS hook_events_occurred_at_idx ON hook_events (occurred_at DESC);
	`
	if _, err := p.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("migrate hook_events: %w", err)
	}
	return nil
}

// Handle appends one event. Relayed events keep the envelope ID they arrived
// with, so an at-least-once redelivery hits the same primary key and the
// conflict clause makes the second append a no-op.
func (p *Provider) Handle(ctx context.Context, e hook.Event) error {
	env := hook.EncodeEvent(e)

	id, err := uuid.Parse(env.ID)
	if err != nil {
		return fmt.Errorf("parse event id %q: %w", env.ID, err)
	}

	fields, err := json.Marshal(env.Fields)
	if err != nil {
		return fmt.Errorf("marshal event fields: %w", err)
	}

	query := `
		INSERT INTO hook_events (id, event_type, occurred_at, fields)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := p.db.ExecContext(ctx, query, id, env.Type, e.Timestamp(), fields); err != nil {
		return fmt.Errorf("insert hook event: %w", err)
	}
	return nil
}

// Recent returns the newest events, most recent first. Rows are rebuilt
// through the envelope decoder, so anything that no longer parses against the
// current vocabulary surfaces as an error instead of silently mutating.
func (p *Provider) Recent(ctx context.Context, limit int) ([]hook.Event, error) {
	query := `
		SELECT id, event_type, occurred_at, fields
		FROM hook_events
		ORDER BY occurred_at DESC
		LIMIT $1
	`
	rows, err := p.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query hook events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ByBucket returns events touching one bucket, most recent first.
func (p *Provider) ByBucket(ctx context.Context, bucketID string, limit int) ([]hook.Event, error) {
	query := `
		SELECT id, event_type, occurred_at, fields
		FROM hook_events
		WHERE fields->>'BUCKET_ID' = $1
		ORDER BY occurred_at DESC
		LIMIT $2
	`
	rows, err := p.db.QueryContext(ctx, query, bucketID, limit)
	if err != nil {
		return nil, fmt.Errorf("query hook events by bucket: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]hook.Event, error) {
	var events []hook.Event

	for rows.Next() {
		var (
			id         uuid.UUID
			eventType  string
			occurredAt time.Time
			rawFields  []byte
		)
		if err := rows.Scan(&id, &eventType, &occurredAt, &rawFields); err != nil {
			return nil, fmt.Errorf("scan hook event: %w", err)
		}

		env := hook.Envelope{
			ID:        id.String(),
			Type:      eventType,
			Timestamp: occurredAt.Format(time.RFC3339Nano),
		}
		if err := json.Unmarshal(rawFields, &env.Fields); err != nil {
			return nil, fmt.Errorf("unmarshal hook event fields: %w", err)
		}

		event, err := env.Event()
		if err != nil {
			return nil, fmt.Errorf("rebuild hook event %s: %w", id, err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hook events: %w", err)
	}
	return events, nil
}

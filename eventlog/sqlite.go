package eventlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ctoken-xyz/go-ctoken/token"
)

// SQLiteStore persists events to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path. Use
// ":memory:" for an ephemeral store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		registry TEXT NOT NULL,
		seq INTEGER NOT NULL,
		type TEXT NOT NULL,
		token_id TEXT NOT NULL,
		from_addr TEXT NOT NULL DEFAULT '',
		to_addr TEXT NOT NULL DEFAULT '',
		ref_registry TEXT,
		ref_id TEXT,
		note TEXT NOT NULL DEFAULT '',
		at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_registry_seq
		ON events(registry, seq);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append persists one event.
func (s *SQLiteStore) Append(ctx context.Context, ev Event) error {
	var refRegistry, refID any
	if ev.Ref != nil {
		refRegistry = ev.Ref.Registry.String()
		refID = ev.Ref.ID.Hex()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events
			(id, registry, seq, type, token_id, from_addr, to_addr, ref_registry, ref_id, note, at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID.String(),
		ev.Registry.String(),
		ev.Seq,
		string(ev.Type),
		ev.TokenID.Hex(),
		string(ev.From),
		string(ev.To),
		refRegistry,
		refID,
		ev.Note,
		ev.At.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// Read returns a registry's events with Seq >= fromSeq, in sequence order.
func (s *SQLiteStore) Read(ctx context.Context, registry token.RegistryID, fromSeq uint64) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, registry, seq, type, token_id, from_addr, to_addr, ref_registry, ref_id, note, at
		FROM events
		WHERE registry = ? AND seq >= ?
		ORDER BY seq`,
		registry.String(), fromSeq,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func scanEvent(rows *sql.Rows) (Event, error) {
	var (
		ev                    Event
		idStr, regStr, typ    string
		tokenStr, at          string
		fromAddr, toAddr      string
		refRegistry, refID sql.NullString
		note                  string
	)
	err := rows.Scan(&idStr, &regStr, &ev.Seq, &typ, &tokenStr,
		&fromAddr, &toAddr, &refRegistry, &refID, &note, &at)
	if err != nil {
		return Event{}, fmt.Errorf("scan event: %w", err)
	}

	if ev.ID, err = uuid.Parse(idStr); err != nil {
		return Event{}, fmt.Errorf("scan event id: %w", err)
	}
	if ev.Registry, err = token.ParseRegistryID(regStr); err != nil {
		return Event{}, fmt.Errorf("scan event registry: %w", err)
	}
	if ev.TokenID, err = token.ParseID(tokenStr); err != nil {
		return Event{}, fmt.Errorf("scan event token: %w", err)
	}
	if ev.At, err = time.Parse(time.RFC3339Nano, at); err != nil {
		return Event{}, fmt.Errorf("scan event time: %w", err)
	}
	ev.Type = Type(typ)
	ev.From = token.Address(fromAddr)
	ev.To = token.Address(toAddr)
	ev.Note = note

	if refRegistry.Valid && refID.Valid {
		reg, err := token.ParseRegistryID(refRegistry.String)
		if err != nil {
			return Event{}, fmt.Errorf("scan event ref registry: %w", err)
		}
		id, err := token.ParseID(refID.String)
		if err != nil {
			return Event{}, fmt.Errorf("scan event ref id: %w", err)
		}
		ev.Ref = &token.Ref{Registry: reg, ID: id}
	}
	return ev, nil
}

// Registries lists every registry with at least one event, in the order
// the registries first appeared.
func (s *SQLiteStore) Registries(ctx context.Context) ([]token.RegistryID, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT registry FROM events GROUP BY registry ORDER BY MIN(rowid)`)
	if err != nil {
		return nil, fmt.Errorf("query registries: %w", err)
	}
	defer rows.Close()

	var out []token.RegistryID
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan registry: %w", err)
		}
		id, err := token.ParseRegistryID(s)
		if err != nil {
			return nil, fmt.Errorf("parse registry: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)

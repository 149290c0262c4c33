// Package store wraps SQLite persistence for targets, contacts, roster
// entries, and response events.
//
// One Store instance owns the writable database for the lifetime of the
// process. Mutating operations serialize through a single writer gate with
// a bounded wait; readers run concurrently and each read takes place in
// its own transaction, so no caller observes a partially applied write.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	sqlite "modernc.org/sqlite"

	"callsheet/internal/model"
)

// DefaultWriteWait bounds how long a mutating call blocks for the writer
// gate before surfacing ErrStoreUnavailable.
const DefaultWriteWait = 30 * time.Second

type Store struct {
	db        *sql.DB
	writer    chan struct{}
	writeWait time.Duration
	sb        sq.StatementBuilderType
}

// Open opens (creating if needed) the database at path and applies the
// schema. writeWait <= 0 falls back to DefaultWriteWait.
func Open(path string, writeWait time.Duration) (*Store, error) {
	if writeWait <= 0 {
		writeWait = DefaultWriteWait
	}
	// Pragmas ride the DSN so every pooled connection gets them; WAL lets
	// readers proceed while a write is in flight.
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)",
		path, writeWait.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", model.ErrStoreUnavailable, path, err)
	}
	s := &Store{
		db:        db,
		writer:    make(chan struct{}, 1),
		writeWait: writeWait,
		sb:        sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS daily_targets (
            date TEXT PRIMARY KEY,
            target INTEGER NOT NULL CHECK(target > 0)
        );`,
		`CREATE TABLE IF NOT EXISTS contacts (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL UNIQUE COLLATE NOCASE,
            origin_date TEXT NOT NULL,
            created_at TIMESTAMP NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS roster_entries (
            contact_id INTEGER NOT NULL REFERENCES contacts(id),
            date TEXT NOT NULL,
            created_at TIMESTAMP NOT NULL,
            PRIMARY KEY(contact_id, date)
        );`,
		`CREATE TABLE IF NOT EXISTS responses (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            contact_id INTEGER NOT NULL REFERENCES contacts(id),
            kind TEXT NOT NULL CHECK(kind IN ('A','B','C','NA','DNP')),
            date TEXT NOT NULL,
            created_at TIMESTAMP NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_responses_date ON responses(date);`,
		`CREATE INDEX IF NOT EXISTS idx_responses_contact ON responses(contact_id, date, id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("%w: migrate: %v", model.ErrStoreUnavailable, err)
		}
	}
	return nil
}

// acquireWriter blocks until the caller holds the single writer slot, the
// bounded wait elapses, or ctx is done.
func (s *Store) acquireWriter(ctx context.Context) (func(), error) {
	timer := time.NewTimer(s.writeWait)
	defer timer.Stop()
	select {
	case s.writer <- struct{}{}:
		return func() { <-s.writer }, nil
	case <-timer.C:
		return nil, fmt.Errorf("%w: writer busy after %s", model.ErrStoreUnavailable, s.writeWait)
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", model.ErrStoreUnavailable, ctx.Err())
	}
}

// wrapErr maps driver failures onto the package error taxonomy.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		code := serr.Code()
		// SQLITE_BUSY / SQLITE_LOCKED / SQLITE_CANTOPEN
		if code == 5 || code == 6 || code == 14 {
			return fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
		}
		// SQLITE_CONSTRAINT and its extended codes
		if code&0xff == 19 {
			return fmt.Errorf("%w: %v", model.ErrInvalidRequest, err)
		}
	}
	return fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
}

// Health returns an error if the database is not reachable.
func (s *Store) Health(ctx context.Context) error {
	var v int
	if err := s.db.QueryRowContext(ctx, `SELECT 1`).Scan(&v); err != nil {
		return fmt.Errorf("%w: health: %v", model.ErrStoreUnavailable, err)
	}
	return nil
}

// UpsertTarget sets or overwrites the daily target for a date.
func (s *Store) UpsertTarget(ctx context.Context, date model.Day, target int) error {
	release, err := s.acquireWriter(ctx)
	if err != nil {
		return err
	}
	defer release()

	query, args, err := s.sb.Insert("daily_targets").
		Columns("date", "target").
		Values(date.String(), target).
		Suffix("ON CONFLICT(date) DO UPDATE SET target = excluded.target").
		ToSql()
	if err != nil {
		return wrapErr(err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return wrapErr(err)
	}
	return nil
}

// GetTarget returns the target for a date, reporting absence via ok.
func (s *Store) GetTarget(ctx context.Context, date model.Day) (target int, ok bool, err error) {
	query, args, err := s.sb.Select("target").
		From("daily_targets").
		Where(sq.Eq{"date": date.String()}).
		ToSql()
	if err != nil {
		return 0, false, wrapErr(err)
	}
	switch err := s.db.QueryRowContext(ctx, query, args...).Scan(&target); err {
	case nil:
		return target, true, nil
	case sql.ErrNoRows:
		return 0, false, nil
	default:
		return 0, false, wrapErr(err)
	}
}

// EnsureContact returns the identity for name, creating it when absent,
// and records an appearance of the contact on date. Names are globally
// unique, case-insensitively, so a repeated call returns the existing
// identity. added reports whether a new appearance was recorded (false
// means the contact was already on that day's list).
func (s *Store) EnsureContact(ctx context.Context, name string, date model.Day, now time.Time) (id int64, added bool, err error) {
	release, err := s.acquireWriter(ctx)
	if err != nil {
		return 0, false, err
	}
	defer release()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, wrapErr(err)
	}
	defer tx.Rollback()

	id, err = s.contactID(ctx, tx, name)
	switch {
	case errors.Is(err, model.ErrNotFound):
		res, ierr := tx.ExecContext(ctx,
			`INSERT INTO contacts(name, origin_date, created_at) VALUES(?, ?, ?)`,
			name, date.String(), now)
		if ierr != nil {
			return 0, false, wrapErr(ierr)
		}
		id, _ = res.LastInsertId()
	case err != nil:
		return 0, false, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO roster_entries(contact_id, date, created_at) VALUES(?, ?, ?)`,
		id, date.String(), now)
	if err != nil {
		return 0, false, wrapErr(err)
	}
	n, _ := res.RowsAffected()
	if err := tx.Commit(); err != nil {
		return 0, false, wrapErr(err)
	}
	return id, n > 0, nil
}

// AppendResponse logs an immutable response event for an existing contact.
func (s *Store) AppendResponse(ctx context.Context, name string, kind model.Kind, date model.Day, now time.Time) (*model.ResponseEvent, error) {
	release, err := s.acquireWriter(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	id, err := s.contactID(ctx, s.db, name)
	if err != nil {
		return nil, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO responses(contact_id, kind, date, created_at) VALUES(?, ?, ?, ?)`,
		id, string(kind), date.String(), now)
	if err != nil {
		return nil, wrapErr(err)
	}
	eventID, _ := res.LastInsertId()
	return &model.ResponseEvent{ID: eventID, Name: name, Kind: kind, Date: date, CreatedAt: now}, nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) contactID(ctx context.Context, q querier, name string) (int64, error) {
	var id int64
	switch err := q.QueryRowContext(ctx, `SELECT id FROM contacts WHERE name = ?`, name).Scan(&id); err {
	case nil:
		return id, nil
	case sql.ErrNoRows:
		return 0, fmt.Errorf("%w: contact %q", model.ErrNotFound, name)
	default:
		return 0, wrapErr(err)
	}
}

// ListContacts returns every contact ever created, by creation order.
func (s *Store) ListContacts(ctx context.Context) ([]model.Contact, error) {
	query, args, err := s.sb.Select("id", "name", "origin_date", "created_at").
		From("contacts").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, wrapErr(err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()
	var contacts []model.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, wrapErr(rows.Err())
}

// ListResponses returns a contact's events in creation order.
func (s *Store) ListResponses(ctx context.Context, name string) ([]model.ResponseEvent, error) {
	id, err := s.contactID(ctx, s.db, name)
	if err != nil {
		return nil, err
	}
	query, args, err := s.responseSelect().
		Where(sq.Eq{"r.contact_id": id}).
		OrderBy("r.id ASC").
		ToSql()
	if err != nil {
		return nil, wrapErr(err)
	}
	return s.queryResponses(ctx, query, args)
}

// ListResponsesOnDate returns every event logged for a date, in creation
// order.
func (s *Store) ListResponsesOnDate(ctx context.Context, date model.Day) ([]model.ResponseEvent, error) {
	query, args, err := s.responseSelect().
		Where(sq.Eq{"r.date": date.String()}).
		OrderBy("r.id ASC").
		ToSql()
	if err != nil {
		return nil, wrapErr(err)
	}
	return s.queryResponses(ctx, query, args)
}

func (s *Store) responseSelect() sq.SelectBuilder {
	return s.sb.Select("r.id", "c.name", "r.kind", "r.date", "r.created_at").
		From("responses r").
		Join("contacts c ON c.id = r.contact_id")
}

func (s *Store) queryResponses(ctx context.Context, query string, args []any) ([]model.ResponseEvent, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()
	var events []model.ResponseEvent
	for rows.Next() {
		var (
			ev      model.ResponseEvent
			kind    string
			rawDate string
		)
		if err := rows.Scan(&ev.ID, &ev.Name, &kind, &rawDate, &ev.CreatedAt); err != nil {
			return nil, wrapErr(err)
		}
		ev.Kind = model.Kind(kind)
		if ev.Date, err = model.ParseDay(rawDate); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, wrapErr(rows.Err())
}

// Snapshot reads contacts, roster entries, and responses in one
// transaction so derivations see a consistent view.
func (s *Store) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, wrapErr(err)
	}
	defer tx.Rollback()

	snap := &model.Snapshot{
		Entries:   make(map[int64][]model.Day),
		Responses: make(map[int64][]model.ResponseEvent),
	}
	names := make(map[int64]string)

	rows, err := tx.QueryContext(ctx, `SELECT id, name, origin_date, created_at FROM contacts ORDER BY id ASC`)
	if err != nil {
		return nil, wrapErr(err)
	}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		snap.Contacts = append(snap.Contacts, c)
		names[c.ID] = c.Name
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err)
	}

	rows, err = tx.QueryContext(ctx, `SELECT contact_id, date FROM roster_entries ORDER BY contact_id, date ASC`)
	if err != nil {
		return nil, wrapErr(err)
	}
	for rows.Next() {
		var (
			id      int64
			rawDate string
		)
		if err := rows.Scan(&id, &rawDate); err != nil {
			rows.Close()
			return nil, wrapErr(err)
		}
		day, err := model.ParseDay(rawDate)
		if err != nil {
			rows.Close()
			return nil, err
		}
		snap.Entries[id] = append(snap.Entries[id], day)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err)
	}

	rows, err = tx.QueryContext(ctx, `SELECT id, contact_id, kind, date, created_at FROM responses ORDER BY id ASC`)
	if err != nil {
		return nil, wrapErr(err)
	}
	for rows.Next() {
		var (
			ev      model.ResponseEvent
			id      int64
			kind    string
			rawDate string
		)
		if err := rows.Scan(&ev.ID, &id, &kind, &rawDate, &ev.CreatedAt); err != nil {
			rows.Close()
			return nil, wrapErr(err)
		}
		ev.Name = names[id]
		ev.Kind = model.Kind(kind)
		if ev.Date, err = model.ParseDay(rawDate); err != nil {
			rows.Close()
			return nil, err
		}
		snap.Responses[id] = append(snap.Responses[id], ev)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, wrapErr(err)
	}
	return snap, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(r rowScanner) (model.Contact, error) {
	var (
		c       model.Contact
		rawDate string
	)
	if err := r.Scan(&c.ID, &c.Name, &rawDate, &c.CreatedAt); err != nil {
		return model.Contact{}, wrapErr(err)
	}
	day, err := model.ParseDay(rawDate)
	if err != nil {
		return model.Contact{}, err
	}
	c.OriginDate = day
	return c, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/lodging-booking/internal/calendar"
	"github.com/iliyamo/lodging-booking/internal/database"
	"github.com/iliyamo/lodging-booking/internal/model"
)

// activeClause matches rows that are not soft-deleted.  Rows created before
// the flag existed hold NULL and are active.
const activeClause = `(is_deleted IS NULL OR is_deleted = 0)`

const bookingColumns = `id, startdate, enddate, note, is_deleted, created_at, updated_at`

// BookingRepo provides persistence for the bookings table.  It never
// hard-deletes rows; release marks them with is_deleted.  All timestamps
// are written in UTC.
type BookingRepo struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB, dialect database.Dialect) *BookingRepo {
	return &BookingRepo{db: db, dialect: dialect}
}

// Insert stores a new active booking and returns its generated ID.
func (r *BookingRepo) Insert(ctx context.Context, b model.NewBooking) (uint64, error) {
	created := b.CreatedAt.UTC()
	var note any
	if b.Note != nil {
		note = *b.Note
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO bookings (startdate, enddate, note, is_deleted, created_at, updated_at) VALUES (?, ?, ?, 0, ?, ?)`,
		dateArg(b.StartDate), dateArg(b.EndDate), note, created, created)
	if err != nil {
		return 0, fmt.Errorf("insert booking: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert booking: %w", err)
	}
	return uint64(id), nil
}

// FetchActiveOverlapping returns the active bookings whose day range touches
// [from, to], ordered by start day then id.  A row with a single NULL date
// is treated as the one day it has; rows with both dates NULL never match.
func (r *BookingRepo) FetchActiveOverlapping(ctx context.Context, from, to calendar.Date) ([]model.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE ` + activeClause + `
		  AND (startdate IS NOT NULL OR enddate IS NOT NULL)
		  AND COALESCE(startdate, enddate) <= ?
		  AND COALESCE(enddate, startdate) >= ?
		ORDER BY COALESCE(startdate, enddate) ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, dateArg(to), dateArg(from))
	if err != nil {
		return nil, fmt.Errorf("fetch bookings: %w", err)
	}
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch bookings: %w", err)
	}
	return out, nil
}

// GetByID returns a booking regardless of its deleted flag.  ErrNotFound is
// returned when no row has the id.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, ErrNotFound
	}
	return b, err
}

// SoftDelete marks the given bookings deleted and returns the ids this call
// released.  Ids that are unknown or already deleted are left out, so a
// repeated or racing release gets an empty result.  The still-active rows
// are selected (and locked on MySQL) before one batch UPDATE changes them,
// all inside a transaction that is rolled back on any error.
func (r *BookingRepo) SoftDelete(ctx context.Context, ids []uint64, at time.Time) ([]uint64, error) {
	if len(ids) == 0 {
		return []uint64{}, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin release: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := `SELECT id FROM bookings WHERE id IN (` + placeholders(len(ids)) + `) AND ` + activeClause + ` ORDER BY id`
	if r.dialect == database.MySQL {
		q += ` FOR UPDATE`
	}
	rows, err := tx.QueryContext(ctx, q, idArgs(nil, ids)...)
	if err != nil {
		return nil, fmt.Errorf("lock bookings: %w", err)
	}
	released := make([]uint64, 0, len(ids))
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("lock bookings: %w", err)
		}
		released = append(released, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("lock bookings: %w", err)
	}
	if len(released) == 0 {
		return released, nil
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET is_deleted = 1, updated_at = ? WHERE id IN (`+placeholders(len(released))+`) AND `+activeClause,
		idArgs([]any{at.UTC()}, released)...)
	if err != nil {
		return nil, fmt.Errorf("release bookings: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("release bookings: %w", err)
	}
	if n != int64(len(released)) {
		return nil, fmt.Errorf("release bookings: updated %d of %d locked rows", n, len(released))
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit release: %w", err)
	}
	return released, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func idArgs(head []any, ids []uint64) []any {
	out := make([]any, 0, len(head)+len(ids))
	out = append(out, head...)
	for _, id := range ids {
		out = append(out, id)
	}
	return out
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(s rowScanner) (model.Booking, error) {
	var (
		b                  model.Booking
		start, end         nullDate
		note               sql.NullString
		deleted            sql.NullBool
		createdAt, updated utcTime
	)
	if err := s.Scan(&b.ID, &start, &end, &note, &deleted, &createdAt, &updated); err != nil {
		return model.Booking{}, err
	}
	b.StartDate = start.ptr()
	b.EndDate = end.ptr()
	if note.Valid {
		n := note.String
		b.Note = &n
	}
	b.IsDeleted = deleted.Valid && deleted.Bool
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updated.Time
	return b, nil
}

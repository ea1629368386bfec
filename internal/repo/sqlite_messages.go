package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/nurlansk/conversation-reports/internal/model"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// Open opens the SQLite messages database at path. The returned pool is
// shared by all report requests; callers close it on shutdown.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// modernc.org/sqlite serializes writes itself, but a single connection
	// keeps date() queries from racing schema changes in tests.
	db.SetMaxOpenConns(1)
	return db, nil
}

type SQLiteMessageRepo struct {
	db *sql.DB
}

func NewSQLiteMessageRepo(db *sql.DB) *SQLiteMessageRepo {
	return &SQLiteMessageRepo{db: db}
}

func (r *SQLiteMessageRepo) ListBetween(ctx context.Context, start, end time.Time) ([]model.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, message_id, language, address_id, from_phone, to_phone, msgGoodOrBad, message_type, text, date_time
		FROM messages
		WHERE date(date_time) BETWEEN ? AND ?
		ORDER BY id ASC
	`, start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(
			&m.ID,
			&m.MessageID,
			&m.Language,
			&m.AddressID,
			&m.FromPhone,
			&m.ToPhone,
			&m.GoodOrBad,
			&m.Type,
			&m.Text,
			&m.DateTime,
		); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *SQLiteMessageRepo) CountBetween(ctx context.Context, start, end time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM messages
		WHERE date(date_time) BETWEEN ? AND ?
	`, start.Format(dateLayout), end.Format(dateLayout)).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

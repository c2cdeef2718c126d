package source

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver.
)

const queryTimeout = 5 * time.Second

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLite reads items from one column of a SQLite table, in rowid order.
//
// The row count is taken once when the source is opened, so the sequence
// keeps a fixed length even if rows are added later.
type SQLite struct {
	db     *sql.DB
	path   string
	query  string
	length int
	mu     sync.Mutex
	err    error
}

// OpenSQLite opens the database at path and counts the rows of table.
func OpenSQLite(ctx context.Context, path, table, column string) (*SQLite, error) {
	err := validIdentifier("table", table)
	if err != nil {
		return nil, err
	}

	err = validIdentifier("column", column)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	var n int

	err = db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %q`, table)).Scan(&n)
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("count rows in %s: %w", table, err)
	}

	return &SQLite{
		db:     db,
		path:   path,
		length: n,
		query:  fmt.Sprintf(`SELECT %q FROM %q ORDER BY rowid LIMIT ? OFFSET ?`, column, table),
	}, nil
}

func validIdentifier(what, name string) error {
	if !identifierRe.MatchString(name) {
		return fmt.Errorf("%w: invalid %s name %q", ErrInvalidSpec, what, name)
	}

	return nil
}

func (s *SQLite) Len() int {
	return s.length
}

func (s *SQLite) At(i int) string {
	items := s.Range(i, i+1)
	if len(items) == 0 {
		return ""
	}

	return items[0]
}

// Range reads rows [lo, hi) with one query.
func (s *SQLite) Range(lo, hi int) []string {
	lo = max(lo, 0)
	hi = min(hi, s.length)

	if lo >= hi {
		return []string{}
	}

	out, err := s.queryRange(lo, hi)
	if err != nil {
		s.setErr(err)

		return make([]string, hi-lo)
	}

	return out
}

func (s *SQLite) queryRange(lo, hi int) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, s.query, hi-lo, lo)
	if err != nil {
		return nil, fmt.Errorf("query rows %d-%d: %w", lo, hi, err)
	}
	defer rows.Close() //nolint:errcheck // Read-only query.

	out := make([]string, 0, hi-lo)

	for rows.Next() {
		var v any

		err = rows.Scan(&v)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		out = append(out, formatValue(v))
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	// Rows deleted since open leave blanks rather than shifting the page.
	for len(out) < hi-lo {
		out = append(out, "")
	}

	return out, nil
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Err returns the most recent query error, if any. Items that could not be
// read are returned as empty strings.
func (s *SQLite) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.err
}

func (s *SQLite) setErr(err error) {
	slog.Error("read sqlite source", slog.String("path", s.path), slog.Any("error", err))

	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *SQLite) Close() error {
	err := s.db.Close()
	if err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	return nil
}

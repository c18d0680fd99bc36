package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/garnizeh/seekaclimb/internal/db"
	"github.com/garnizeh/seekaclimb/pkg/repository"
)

// SQLRepo implements the repository interfaces on top of the internal DB
// wrapper. The same SQL runs on SQLite and Postgres.
type SQLRepo struct {
	conn   *db.DB
	q      db.Querier
	logger *slog.Logger
}

// Ensure SQLRepo implements the public interfaces.
var _ repository.Store = (*SQLRepo)(nil)
var _ repository.RouteWriter = (*SQLRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *SQLRepo {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &SQLRepo{conn: conn, q: conn, logger: logger}
}

// InTx runs fn with a repository bound to a single transaction.
func (r *SQLRepo) InTx(ctx context.Context, fn func(repository.RouteWriter) error) error {
	return r.conn.WithTx(ctx, func(tx *db.Tx) error {
		return fn(&SQLRepo{conn: r.conn, q: tx, logger: r.logger})
	})
}

// insertReturningID runs an INSERT ... RETURNING id statement.
func (r *SQLRepo) insertReturningID(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, db.MapError(err)
	}

	return id, nil
}

// maxBulkRows bounds the rows per multi-row INSERT to stay well below the
// bind parameter limits of both drivers.
const maxBulkRows = 300

// bulkInsert writes rows into table with one multi-row INSERT per chunk.
func (r *SQLRepo) bulkInsert(ctx context.Context, table string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	tuple := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"
	head := "INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ") VALUES "

	for start := 0; start < len(rows); start += maxBulkRows {
		end := min(start+maxBulkRows, len(rows))
		chunk := rows[start:end]

		tuples := make([]string, len(chunk))
		args := make([]any, 0, len(chunk)*len(columns))
		for i, row := range chunk {
			tuples[i] = tuple
			args = append(args, row...)
		}

		if _, err := r.q.Exec(ctx, head+strings.Join(tuples, ", "), args...); err != nil {
			return err
		}
	}

	return nil
}

// notFound turns sql.ErrNoRows into the (nil, nil) convention of the getters.
func notFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// nullString converts an optional text field into a driver value.
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// likePattern builds a case-insensitive substring pattern for `LIKE ? ESCAPE '\'`.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}

package sqlrepo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/seekaclimb/pkg/models"
)

// CreateUser inserts u. A taken name fails with db.ErrDuplicateKey from the
// unique constraint on users.name.
func (r *SQLRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if u == nil {
		return 0, fmt.Errorf("user is nil")
	}

	return r.insertReturningID(ctx, `INSERT INTO users (name, password, pp_url) VALUES (?, ?, ?) RETURNING id`, u.Name, u.Password, nullString(u.PPURL))
}

func (r *SQLRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.q.QueryRow(ctx, `SELECT id, name, password, pp_url FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *SQLRepo) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	row := r.q.QueryRow(ctx, `SELECT id, name, password, pp_url FROM users WHERE name = ?`, name)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var pp sql.NullString
	if err := row.Scan(&u.ID, &u.Name, &u.Password, &pp); err != nil {
		if notFound(err) {
			return nil, nil
		}

		return nil, err
	}

	if pp.Valid {
		u.PPURL = &pp.String
	}

	return &u, nil
}

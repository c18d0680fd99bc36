package sqlrepo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/seekaclimb/pkg/models"
)

func (r *SQLRepo) CreatePlace(ctx context.Context, p *models.Place) (int64, error) {
	if p == nil {
		return 0, fmt.Errorf("place is nil")
	}

	return r.insertReturningID(ctx, `INSERT INTO places (name, lat, long, adresse, is_indoor) VALUES (?, ?, ?, ?, ?) RETURNING id`, p.Name, p.Lat, p.Long, nullString(p.Adresse), p.IsIndoor)
}

func (r *SQLRepo) GetPlace(ctx context.Context, id int64) (*models.Place, error) {
	row := r.q.QueryRow(ctx, `SELECT id, name, lat, long, adresse, is_indoor FROM places WHERE id = ?`, id)

	var p models.Place
	var adresse sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &p.Lat, &p.Long, &adresse, &p.IsIndoor); err != nil {
		if notFound(err) {
			return nil, nil
		}

		return nil, err
	}

	if adresse.Valid {
		p.Adresse = &adresse.String
	}

	return &p, nil
}

// SearchPlaces returns up to limit places whose name contains term, ignoring
// case, ordered by id.
func (r *SQLRepo) SearchPlaces(ctx context.Context, term string, limit int) ([]models.Place, error) {
	if limit <= 0 {
		limit = 5
	}

	rows, err := r.q.QueryRows(ctx, `SELECT id, name, lat, long, adresse, is_indoor FROM places WHERE LOWER(name) LIKE ? ESCAPE '\' ORDER BY id LIMIT ?`, likePattern(term), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Place
	for rows.Next() {
		var p models.Place
		var adresse sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &p.Lat, &p.Long, &adresse, &p.IsIndoor); err != nil {
			return nil, err
		}

		if adresse.Valid {
			v := adresse.String
			p.Adresse = &v
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

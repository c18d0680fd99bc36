package sqlrepo

import (
	"context"
	"fmt"

	"github.com/garnizeh/seekaclimb/pkg/models"
)

func (r *SQLRepo) CreateWall(ctx context.Context, w *models.Wall) (int64, error) {
	if w == nil {
		return 0, fmt.Errorf("wall is nil")
	}

	return r.insertReturningID(ctx, `INSERT INTO walls (place_id, picture_url, name) VALUES (?, ?, ?) RETURNING id`, w.PlaceID, w.PictureURL, w.Name)
}

func (r *SQLRepo) GetWall(ctx context.Context, id int64) (*models.Wall, error) {
	row := r.q.QueryRow(ctx, `SELECT id, place_id, picture_url, name FROM walls WHERE id = ?`, id)

	var w models.Wall
	if err := row.Scan(&w.ID, &w.PlaceID, &w.PictureURL, &w.Name); err != nil {
		if notFound(err) {
			return nil, nil
		}

		return nil, err
	}

	return &w, nil
}

func (r *SQLRepo) ListWallsByPlace(ctx context.Context, placeID int64, limit, offset int) ([]models.Wall, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.q.QueryRows(ctx, `SELECT id, place_id, picture_url, name FROM walls WHERE place_id = ? ORDER BY id LIMIT ? OFFSET ?`, placeID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Wall
	for rows.Next() {
		var w models.Wall
		if err := rows.Scan(&w.ID, &w.PlaceID, &w.PictureURL, &w.Name); err != nil {
			return nil, err
		}

		out = append(out, w)
	}

	return out, rows.Err()
}

func (r *SQLRepo) CountWallsByPlace(ctx context.Context, placeID int64) (int64, error) {
	var cnt int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM walls WHERE place_id = ?`, placeID).Scan(&cnt); err != nil {
		return 0, err
	}
	return cnt, nil
}

package sqlrepo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/seekaclimb/pkg/models"
)

const routeColumns = `id, grade, author_id, wall_id, place_id, name, note, is_boulder`

type scanner interface {
	Scan(dest ...any) error
}

func scanRoute(s scanner) (*models.Route, error) {
	var rt models.Route
	var note sql.NullString
	if err := s.Scan(&rt.ID, &rt.Grade, &rt.AuthorID, &rt.WallID, &rt.PlaceID, &rt.Name, &note, &rt.IsBoulder); err != nil {
		return nil, err
	}

	if note.Valid {
		rt.Note = &note.String
	}

	return &rt, nil
}

func (r *SQLRepo) CreateRoute(ctx context.Context, rt *models.Route) (int64, error) {
	if rt == nil {
		return 0, fmt.Errorf("route is nil")
	}

	return r.insertReturningID(ctx, `INSERT INTO routes (grade, author_id, wall_id, place_id, name, note, is_boulder) VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		rt.Grade, rt.AuthorID, rt.WallID, rt.PlaceID, rt.Name, nullString(rt.Note), rt.IsBoulder)
}

func (r *SQLRepo) GetRoute(ctx context.Context, id int64) (*models.Route, error) {
	rt, err := scanRoute(r.q.QueryRow(ctx, `SELECT `+routeColumns+` FROM routes WHERE id = ?`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}

		return nil, err
	}

	return rt, nil
}

// routeFilter builds the WHERE clause shared by the list and count queries.
func routeFilter(placeID int64, wallID *int64) (string, []any) {
	if wallID != nil {
		return ` WHERE place_id = ? AND wall_id = ?`, []any{placeID, *wallID}
	}
	return ` WHERE place_id = ?`, []any{placeID}
}

func (r *SQLRepo) ListRoutesByPlace(ctx context.Context, placeID int64, wallID *int64, limit, offset int) ([]models.Route, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	where, args := routeFilter(placeID, wallID)
	args = append(args, limit, offset)

	rows, err := r.q.QueryRows(ctx, `SELECT `+routeColumns+` FROM routes`+where+` ORDER BY id LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Route
	for rows.Next() {
		rt, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, *rt)
	}

	return out, rows.Err()
}

func (r *SQLRepo) CountRoutesByPlace(ctx context.Context, placeID int64, wallID *int64) (int64, error) {
	where, args := routeFilter(placeID, wallID)

	var cnt int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM routes`+where, args...).Scan(&cnt); err != nil {
		return 0, err
	}
	return cnt, nil
}

// Geometry

func (r *SQLRepo) CreateCircles(ctx context.Context, routeID int64, circles []models.Circle) error {
	rows := make([][]any, len(circles))
	for i, c := range circles {
		rows[i] = []any{routeID, c.X, c.Y, c.Radius, c.HoldType}
	}

	return r.bulkInsert(ctx, "circles", []string{"route_id", "x", "y", "radius", "hold_type"}, rows)
}

func (r *SQLRepo) CreatePoints(ctx context.Context, routeID int64, points []models.Point) error {
	rows := make([][]any, len(points))
	for i, p := range points {
		rows[i] = []any{routeID, p.X, p.Y}
	}

	return r.bulkInsert(ctx, "points", []string{"route_id", "x", "y"}, rows)
}

func (r *SQLRepo) CreateFootHolds(ctx context.Context, routeID int64, footholds []models.FootHold) error {
	rows := make([][]any, len(footholds))
	for i, f := range footholds {
		rows[i] = []any{routeID, f.HoldID}
	}

	return r.bulkInsert(ctx, "footholds", []string{"route_id", "hold_id"}, rows)
}

func (r *SQLRepo) ListCircles(ctx context.Context, routeID int64) ([]models.Circle, error) {
	rows, err := r.q.QueryRows(ctx, `SELECT id, route_id, x, y, radius, hold_type FROM circles WHERE route_id = ? ORDER BY id`, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Circle
	for rows.Next() {
		var c models.Circle
		if err := rows.Scan(&c.ID, &c.RouteID, &c.X, &c.Y, &c.Radius, &c.HoldType); err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	return out, rows.Err()
}

func (r *SQLRepo) ListPoints(ctx context.Context, routeID int64) ([]models.Point, error) {
	rows, err := r.q.QueryRows(ctx, `SELECT id, route_id, x, y FROM points WHERE route_id = ? ORDER BY id`, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Point
	for rows.Next() {
		var p models.Point
		if err := rows.Scan(&p.ID, &p.RouteID, &p.X, &p.Y); err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

func (r *SQLRepo) ListFootHolds(ctx context.Context, routeID int64) ([]models.FootHold, error) {
	rows, err := r.q.QueryRows(ctx, `SELECT route_id, hold_id FROM footholds WHERE route_id = ? ORDER BY hold_id`, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.FootHold
	for rows.Next() {
		var f models.FootHold
		if err := rows.Scan(&f.RouteID, &f.HoldID); err != nil {
			return nil, err
		}
		out = append(out, f)
	}

	return out, rows.Err()
}

package repository

import (
	"context"

	"github.com/garnizeh/seekaclimb/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
// Getters return (nil, nil) when the row does not exist.

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByName(ctx context.Context, name string) (*models.User, error)
}

type PlaceRepo interface {
	CreatePlace(ctx context.Context, p *models.Place) (int64, error)
	GetPlace(ctx context.Context, id int64) (*models.Place, error)
	SearchPlaces(ctx context.Context, term string, limit int) ([]models.Place, error)
}

type WallRepo interface {
	CreateWall(ctx context.Context, w *models.Wall) (int64, error)
	GetWall(ctx context.Context, id int64) (*models.Wall, error)
	ListWallsByPlace(ctx context.Context, placeID int64, limit, offset int) ([]models.Wall, error)
	CountWallsByPlace(ctx context.Context, placeID int64) (int64, error)
}

// RouteRepo is the read side of routes. A nil wallID means every wall of
// the place.
type RouteRepo interface {
	GetRoute(ctx context.Context, id int64) (*models.Route, error)
	ListRoutesByPlace(ctx context.Context, placeID int64, wallID *int64, limit, offset int) ([]models.Route, error)
	CountRoutesByPlace(ctx context.Context, placeID int64, wallID *int64) (int64, error)
	ListCircles(ctx context.Context, routeID int64) ([]models.Circle, error)
	ListPoints(ctx context.Context, routeID int64) ([]models.Point, error)
	ListFootHolds(ctx context.Context, routeID int64) ([]models.FootHold, error)
}

// RouteWriter is what a route creation needs inside its transaction.
type RouteWriter interface {
	GetWall(ctx context.Context, id int64) (*models.Wall, error)
	CreateRoute(ctx context.Context, r *models.Route) (int64, error)
	CreateCircles(ctx context.Context, routeID int64, circles []models.Circle) error
	CreatePoints(ctx context.Context, routeID int64, points []models.Point) error
	CreateFootHolds(ctx context.Context, routeID int64, footholds []models.FootHold) error
}

// Store groups every repository and runs multi-statement writes atomically.
// InTx commits when fn returns nil and rolls everything back otherwise.
type Store interface {
	UserRepo
	PlaceRepo
	WallRepo
	RouteRepo
	InTx(ctx context.Context, fn func(RouteWriter) error) error
}

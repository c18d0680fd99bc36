// Package catalog holds the operations behind the catalog endpoints: place
// search, wall and route listings, and the creation of routes and walls.
package catalog

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/garnizeh/seekaclimb/internal/apperr"
	"github.com/garnizeh/seekaclimb/internal/db"
	"github.com/garnizeh/seekaclimb/internal/images"
	"github.com/garnizeh/seekaclimb/internal/mapping"
	"github.com/garnizeh/seekaclimb/pkg/models"
	"github.com/garnizeh/seekaclimb/pkg/repository"
)

const (
	DefaultPageSize = 10
	SearchLimit     = 5
)

// ImageStore persists wall pictures. *images.Store implements it.
type ImageStore interface {
	Save(placeName string, img, thumb []byte) (string, error)
	Remove(placeName, filename string) error
	Path(placeName string, kind images.Kind, filename string) string
}

type Service struct {
	store    repository.Store
	images   ImageStore
	pageSize int
	logger   *slog.Logger
}

func New(store repository.Store, imgs ImageStore, pageSize int, logger *slog.Logger) *Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{store: store, images: imgs, pageSize: pageSize, logger: logger}
}

// RouteDetail is a route with its geometry and foot holds.
type RouteDetail struct {
	models.Route
	Circles   []models.Circle   `json:"circles"`
	Points    []models.Point    `json:"points"`
	FootHolds []models.FootHold `json:"footholds"`
}

// CreateRoute stores a route and its children in one transaction. The wall
// must exist and belong to the route's place. Circles are stored for
// boulders, points otherwise, and foot holds in both cases.
func (s *Service) CreateRoute(ctx context.Context, raw []byte) (*models.Route, error) {
	req, err := mapping.DecodeRouteRequest(ctx, raw)
	if err != nil {
		return nil, err
	}

	route := *req.Route
	route.ID = 0

	err = s.store.InTx(ctx, func(tx repository.RouteWriter) error {
		wall, err := tx.GetWall(ctx, route.WallID)
		if err != nil {
			return apperr.Internal("load wall", err)
		}
		if wall == nil {
			return apperr.Validation("wall %d does not exist", route.WallID)
		}
		if wall.PlaceID != route.PlaceID {
			return apperr.Validation("wall %d does not belong to place %d", route.WallID, route.PlaceID)
		}

		id, err := tx.CreateRoute(ctx, &route)
		if err != nil {
			return writeErr("create route", err)
		}
		route.ID = id

		if route.IsBoulder {
			if err := tx.CreateCircles(ctx, id, req.Circles); err != nil {
				return writeErr("create circles", err)
			}
		} else {
			if err := tx.CreatePoints(ctx, id, req.Points); err != nil {
				return writeErr("create points", err)
			}
		}

		if err := tx.CreateFootHolds(ctx, id, req.FootHolds); err != nil {
			return writeErr("create footholds", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("route created",
		slog.Int64("route_id", route.ID),
		slog.Int64("place_id", route.PlaceID),
		slog.Bool("boulder", route.IsBoulder),
		slog.Int("circles", len(req.Circles)),
		slog.Int("points", len(req.Points)),
		slog.Int("footholds", len(req.FootHolds)),
	)

	return &route, nil
}

// writeErr classifies a failed insert.
func writeErr(op string, err error) error {
	switch {
	case db.IsForeignKeyViolation(err):
		return apperr.Wrap(apperr.KindValidation, "route references a missing user, wall or place", err)
	case db.IsDuplicateKey(err):
		return apperr.Wrap(apperr.KindValidation, "duplicate foot hold in route", err)
	default:
		return apperr.Internal(op, err)
	}
}

func (s *Service) GetRoute(ctx context.Context, id int64) (*RouteDetail, error) {
	rt, err := s.store.GetRoute(ctx, id)
	if err != nil {
		return nil, apperr.Internal("load route", err)
	}
	if rt == nil {
		return nil, apperr.NotFound("route not found")
	}

	detail := &RouteDetail{Route: *rt, Circles: []models.Circle{}, Points: []models.Point{}, FootHolds: []models.FootHold{}}

	if rt.IsBoulder {
		circles, err := s.store.ListCircles(ctx, id)
		if err != nil {
			return nil, apperr.Internal("load circles", err)
		}
		if circles != nil {
			detail.Circles = circles
		}
	} else {
		points, err := s.store.ListPoints(ctx, id)
		if err != nil {
			return nil, apperr.Internal("load points", err)
		}
		if points != nil {
			detail.Points = points
		}
	}

	footholds, err := s.store.ListFootHolds(ctx, id)
	if err != nil {
		return nil, apperr.Internal("load footholds", err)
	}
	if footholds != nil {
		detail.FootHolds = footholds
	}

	return detail, nil
}

// SearchPlaces returns at most SearchLimit places whose name contains q,
// ignoring case, in id order.
func (s *Service) SearchPlaces(ctx context.Context, q string) ([]models.Place, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, apperr.Validation("missing search query")
	}

	places, err := s.store.SearchPlaces(ctx, q, SearchLimit)
	if err != nil {
		return nil, apperr.Internal("search places", err)
	}
	if places == nil {
		places = []models.Place{}
	}

	return places, nil
}

func (s *Service) requirePlace(ctx context.Context, id int64) (*models.Place, error) {
	p, err := s.store.GetPlace(ctx, id)
	if err != nil {
		return nil, apperr.Internal("load place", err)
	}
	if p == nil {
		return nil, apperr.NotFound("place not found")
	}
	return p, nil
}

// ListRoutes pages through the routes of a place, optionally restricted to
// one of its walls.
func (s *Service) ListRoutes(ctx context.Context, placeID int64, wallID *int64, page int) (*Page[models.Route], error) {
	if _, err := s.requirePlace(ctx, placeID); err != nil {
		return nil, err
	}
	if wallID != nil {
		w, err := s.store.GetWall(ctx, *wallID)
		if err != nil {
			return nil, apperr.Internal("load wall", err)
		}
		if w == nil || w.PlaceID != placeID {
			return nil, apperr.NotFound("wall not found")
		}
	}

	page = normalizePage(page)
	total, err := s.store.CountRoutesByPlace(ctx, placeID, wallID)
	if err != nil {
		return nil, apperr.Internal("count routes", err)
	}
	items := []models.Route{}
	if offset, ok := pageOffset(page, s.pageSize, total); ok {
		rows, err := s.store.ListRoutesByPlace(ctx, placeID, wallID, s.pageSize, offset)
		if err != nil {
			return nil, apperr.Internal("list routes", err)
		}
		if rows != nil {
			items = rows
		}
	}

	return &Page[models.Route]{Total: total, Page: page, PerPage: s.pageSize, Items: items}, nil
}

func (s *Service) ListWalls(ctx context.Context, placeID int64, page int) (*Page[models.Wall], error) {
	if _, err := s.requirePlace(ctx, placeID); err != nil {
		return nil, err
	}

	page = normalizePage(page)
	total, err := s.store.CountWallsByPlace(ctx, placeID)
	if err != nil {
		return nil, apperr.Internal("count walls", err)
	}
	items := []models.Wall{}
	if offset, ok := pageOffset(page, s.pageSize, total); ok {
		rows, err := s.store.ListWallsByPlace(ctx, placeID, s.pageSize, offset)
		if err != nil {
			return nil, apperr.Internal("list walls", err)
		}
		if rows != nil {
			items = rows
		}
	}

	return &Page[models.Wall]{Total: total, Page: page, PerPage: s.pageSize, Items: items}, nil
}

func (s *Service) GetWall(ctx context.Context, id int64) (*models.Wall, error) {
	w, err := s.store.GetWall(ctx, id)
	if err != nil {
		return nil, apperr.Internal("load wall", err)
	}
	if w == nil {
		return nil, apperr.NotFound("wall not found")
	}
	return w, nil
}

// CreateWall stores the two pictures of a wall and then the wall row. The
// pictures are removed again when the row cannot be stored.
func (s *Service) CreateWall(ctx context.Context, raw []byte) (*models.Wall, error) {
	req, err := mapping.DecodeWallRequest(ctx, raw)
	if err != nil {
		return nil, err
	}

	place, err := s.requirePlace(ctx, req.PlaceID)
	if err != nil {
		return nil, err
	}

	img, err := decodeBase64(req.Image)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "invalid base64 image", err)
	}
	thumb, err := decodeBase64(req.Thumbnail)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "invalid base64 thumbnail", err)
	}

	filename, err := s.images.Save(place.Name, img, thumb)
	if err != nil {
		if errors.Is(err, images.ErrUndecodable) {
			return nil, apperr.Wrap(apperr.KindValidation, "invalid image data", err)
		}
		return nil, apperr.Internal("store images", err)
	}

	wall := &models.Wall{PlaceID: place.ID, PictureURL: filename, Name: req.Name}
	id, err := s.store.CreateWall(ctx, wall)
	if err != nil {
		if rmErr := s.images.Remove(place.Name, filename); rmErr != nil {
			s.logger.Error("failed to remove orphaned wall images",
				slog.String("place", place.Name),
				slog.String("file", filename),
				slog.Any("err", rmErr),
			)
		}
		if db.IsForeignKeyViolation(err) {
			return nil, apperr.NotFound("place not found")
		}
		return nil, apperr.Internal("create wall", err)
	}
	wall.ID = id

	s.logger.Info("wall created", slog.Int64("wall_id", id), slog.Int64("place_id", place.ID))

	return wall, nil
}

// WallImagePath returns the on-disk location of a wall's picture.
func (s *Service) WallImagePath(ctx context.Context, wallID int64, kind images.Kind) (string, error) {
	w, err := s.GetWall(ctx, wallID)
	if err != nil {
		return "", err
	}
	p, err := s.store.GetPlace(ctx, w.PlaceID)
	if err != nil {
		return "", apperr.Internal("load place", err)
	}
	if p == nil {
		return "", apperr.NotFound("place not found")
	}

	return s.images.Path(p.Name, kind, w.PictureURL), nil
}

// decodeBase64 accepts standard and URL alphabets, with or without padding,
// and an optional data URI prefix.
func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			s = s[i+1:]
		}
	}

	var firstErr error
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		b, err := enc.DecodeString(s)
		if err == nil {
			return b, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	return nil, firstErr
}

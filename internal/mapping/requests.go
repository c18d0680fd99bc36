package mapping

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/garnizeh/seekaclimb/pkg/models"
)

// RouteRequest is a route creation payload: the route itself plus the
// geometry lists it was submitted with. Only the list matching the route
// kind is read: Circles for boulders, Points otherwise. Lists that were
// absent or not JSON arrays are nil.
type RouteRequest struct {
	Route     *models.Route
	Circles   []models.Circle
	Points    []models.Point
	FootHolds []models.FootHold
}

type routeChildren struct {
	Circles   json.RawMessage `json:"circles"`
	Points    json.RawMessage `json:"points"`
	FootHolds json.RawMessage `json:"footholds"`
}

// DecodeRouteRequest maps a route creation payload. Every element of the
// lists it reads is validated against its own schema.
func DecodeRouteRequest(ctx context.Context, raw []byte) (*RouteRequest, error) {
	route, err := DecodeRoute(ctx, raw)
	if err != nil {
		return nil, err
	}

	var children routeChildren
	if err := json.Unmarshal(raw, &children); err != nil {
		return nil, invalid(EntityRoute, err)
	}

	req := &RouteRequest{Route: route}

	if route.IsBoulder {
		circles, err := elements(children.Circles)
		if err != nil {
			return nil, invalid(EntityCircle, err)
		}
		for _, el := range circles {
			c, err := DecodeCircle(ctx, el)
			if err != nil {
				return nil, err
			}
			req.Circles = append(req.Circles, *c)
		}
	} else {
		points, err := elements(children.Points)
		if err != nil {
			return nil, invalid(EntityPoint, err)
		}
		for _, el := range points {
			p, err := DecodePoint(ctx, el)
			if err != nil {
				return nil, err
			}
			req.Points = append(req.Points, *p)
		}
	}

	footholds, err := elements(children.FootHolds)
	if err != nil {
		return nil, invalid(EntityFootHold, err)
	}
	for _, el := range footholds {
		f, err := DecodeFootHold(ctx, el)
		if err != nil {
			return nil, err
		}
		req.FootHolds = append(req.FootHolds, *f)
	}

	return req, nil
}

// elements splits a JSON array into its elements. Anything that is not an
// array (including null and absence) yields no elements.
func elements(raw json.RawMessage) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, nil
	}

	var out []json.RawMessage
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// WallRequest is a wall creation payload. Image and Thumbnail are base64
// encoded image files.
type WallRequest struct {
	PlaceID   int64  `json:"place_id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	Thumbnail string `json:"thumbnail"`
}

func DecodeWallRequest(ctx context.Context, raw []byte) (*WallRequest, error) {
	var w WallRequest
	if err := decode(ctx, EntityWallCreate, raw, &w); err != nil {
		return nil, err
	}

	return &w, nil
}

// Package mapping converts JSON payloads into domain models. Every payload is
// checked against the JSON Schema of its entity before it is decoded, so a
// missing required field or a wrongly typed value is reported as a
// validation error naming the entity.
//
// The reverse direction is the JSON encoding of the pkg/models types.
package mapping

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/garnizeh/seekaclimb/internal/apperr"
	"github.com/garnizeh/seekaclimb/pkg/models"
	"github.com/qri-io/jsonschema"
)

// Entity names a payload kind. It is also the schema file name.
type Entity string

const (
	EntityUser       Entity = "user"
	EntityPlace      Entity = "place"
	EntityWall       Entity = "wall"
	EntityRoute      Entity = "route"
	EntityPoint      Entity = "point"
	EntityCircle     Entity = "circle"
	EntityFootHold   Entity = "foothold"
	EntityWallCreate Entity = "wall_create"
)

var entities = []Entity{
	EntityUser, EntityPlace, EntityWall, EntityRoute,
	EntityPoint, EntityCircle, EntityFootHold, EntityWallCreate,
}

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	loadOnce sync.Once
	schemas  map[Entity]*jsonschema.Schema
	loadErr  error
)

func loadSchemas() {
	schemas = make(map[Entity]*jsonschema.Schema, len(entities))
	for _, e := range entities {
		b, err := schemaFS.ReadFile("schemas/" + string(e) + ".json")
		if err != nil {
			loadErr = fmt.Errorf("read %s schema: %w", e, err)
			return
		}

		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(b, rs); err != nil {
			loadErr = fmt.Errorf("parse %s schema: %w", e, err)
			return
		}
		schemas[e] = rs
	}
}

func schemaFor(e Entity) (*jsonschema.Schema, error) {
	loadOnce.Do(loadSchemas)
	if loadErr != nil {
		return nil, loadErr
	}

	rs, ok := schemas[e]
	if !ok {
		return nil, fmt.Errorf("no schema for entity %q", e)
	}

	return rs, nil
}

// invalid builds the validation error returned for entity e.
func invalid(e Entity, cause error) error {
	return apperr.Wrap(apperr.KindValidation, fmt.Sprintf("missing or invalid %s fields", e), cause)
}

// Validate checks raw against the schema of e.
func Validate(ctx context.Context, e Entity, raw []byte) error {
	rs, err := schemaFor(e)
	if err != nil {
		return apperr.Internal("load schema", err)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return invalid(e, errors.New("empty payload"))
	}

	keyErrs, err := rs.ValidateBytes(ctx, raw)
	if err != nil {
		return invalid(e, err)
	}
	if len(keyErrs) > 0 {
		causes := make([]error, 0, len(keyErrs))
		for _, ke := range keyErrs {
			causes = append(causes, fmt.Errorf("%s: %s", ke.PropertyPath, ke.Message))
		}
		return invalid(e, errors.Join(causes...))
	}

	return nil
}

// decode validates raw against the schema of e and unmarshals it into v.
func decode(ctx context.Context, e Entity, raw []byte, v any) error {
	if err := Validate(ctx, e, raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return invalid(e, err)
	}

	return nil
}

type userPayload struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Password string  `json:"password"`
	PPURL    *string `json:"pp_url"`
}

// DecodeUser maps a user payload. Password is returned as sent; hashing is
// the auth service's job.
func DecodeUser(ctx context.Context, raw []byte) (*models.User, error) {
	var p userPayload
	if err := decode(ctx, EntityUser, raw, &p); err != nil {
		return nil, err
	}

	return &models.User{ID: p.ID, Name: p.Name, Password: p.Password, PPURL: p.PPURL}, nil
}

func DecodePlace(ctx context.Context, raw []byte) (*models.Place, error) {
	var p models.Place
	if err := decode(ctx, EntityPlace, raw, &p); err != nil {
		return nil, err
	}

	return &p, nil
}

func DecodeWall(ctx context.Context, raw []byte) (*models.Wall, error) {
	var w models.Wall
	if err := decode(ctx, EntityWall, raw, &w); err != nil {
		return nil, err
	}

	return &w, nil
}

// DecodeRoute maps the route columns of a payload and ignores any geometry.
func DecodeRoute(ctx context.Context, raw []byte) (*models.Route, error) {
	var r models.Route
	if err := decode(ctx, EntityRoute, raw, &r); err != nil {
		return nil, err
	}

	return &r, nil
}

func DecodePoint(ctx context.Context, raw []byte) (*models.Point, error) {
	var p models.Point
	if err := decode(ctx, EntityPoint, raw, &p); err != nil {
		return nil, err
	}

	return &p, nil
}

func DecodeCircle(ctx context.Context, raw []byte) (*models.Circle, error) {
	var c models.Circle
	if err := decode(ctx, EntityCircle, raw, &c); err != nil {
		return nil, err
	}

	return &c, nil
}

func DecodeFootHold(ctx context.Context, raw []byte) (*models.FootHold, error) {
	var f models.FootHold
	if err := decode(ctx, EntityFootHold, raw, &f); err != nil {
		return nil, err
	}

	return &f, nil
}

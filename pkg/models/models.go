package models

// Domain models matching the database schema in db/migrations/*/0001_init.sql.
// The JSON tags are the wire form: flat, one key per column.

// User is a registered account. Password holds the bcrypt hash and is never
// written to the wire.
type User struct {
	ID       int64   `json:"id" db:"id"`
	Name     string  `json:"name" db:"name"`
	Password string  `json:"-" db:"password"`
	PPURL    *string `json:"pp_url" db:"pp_url"`
}

type Place struct {
	ID       int64   `json:"id" db:"id"`
	Name     string  `json:"name" db:"name"`
	Lat      float64 `json:"lat" db:"lat"`
	Long     float64 `json:"long" db:"long"`
	Adresse  *string `json:"adresse" db:"adresse"`
	IsIndoor bool    `json:"is_indoor" db:"is_indoor"`
}

// Wall is a photographed wall of a place. PictureURL is only the stored file
// name; the directory is derived from the place name.
type Wall struct {
	ID         int64  `json:"id" db:"id"`
	PlaceID    int64  `json:"place_id" db:"place_id"`
	PictureURL string `json:"picture_url" db:"picture_url"`
	Name       string `json:"name" db:"name"`
}

// Route is a climb drawn on a wall. IsBoulder selects the geometry kind:
// circles for boulders, points for everything else.
type Route struct {
	ID        int64   `json:"id" db:"id"`
	Grade     string  `json:"grade" db:"grade"`
	AuthorID  int64   `json:"author_id" db:"author_id"`
	WallID    int64   `json:"wall_id" db:"wall_id"`
	PlaceID   int64   `json:"place_id" db:"place_id"`
	Name      string  `json:"name" db:"name"`
	Note      *string `json:"note" db:"note"`
	IsBoulder bool    `json:"isBoulder" db:"is_boulder"`
}

type Point struct {
	ID      int64   `json:"id" db:"id"`
	RouteID int64   `json:"route_id" db:"route_id"`
	X       float64 `json:"x" db:"x"`
	Y       float64 `json:"y" db:"y"`
}

type Circle struct {
	ID       int64   `json:"id" db:"id"`
	RouteID  int64   `json:"route_id" db:"route_id"`
	X        float64 `json:"x" db:"x"`
	Y        float64 `json:"y" db:"y"`
	Radius   float64 `json:"radius" db:"radius"`
	HoldType int     `json:"hold_type" db:"hold_type"`
}

// FootHold marks HoldID of a route as feet only. HoldID is defined by the
// client that drew the route; nothing in the schema references it.
type FootHold struct {
	RouteID int64 `json:"route_id" db:"route_id"`
	HoldID  int64 `json:"hold_id" db:"hold_id"`
}

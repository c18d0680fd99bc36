package api

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/garnizeh/seekaclimb/internal/catalog"
	"github.com/garnizeh/seekaclimb/internal/images"
	"github.com/gorilla/mux"
)

// CatalogHandler serves places, walls and routes.
type CatalogHandler struct {
	svc *catalog.Service
}

func NewCatalogHandler(svc *catalog.Service) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// idVar reads the {id} path variable.
func idVar(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id < 1 {
		writeJSON(w, errorResponse{Error: "invalid id"}, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *CatalogHandler) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, errorResponse{Error: "missing query parameter q"}, http.StatusBadRequest)
		return
	}

	places, err := h.svc.SearchPlaces(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, places, http.StatusOK)
}

func (h *CatalogHandler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	placeID, ok := idVar(w, r)
	if !ok {
		return
	}

	var wallID *int64
	if raw := r.URL.Query().Get("wall_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeJSON(w, errorResponse{Error: "invalid wall_id"}, http.StatusBadRequest)
			return
		}
		wallID = &id
	}

	page, err := h.svc.ListRoutes(r.Context(), placeID, wallID, pageParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, newPaginated(r, page), http.StatusOK)
}

func (h *CatalogHandler) ListWalls(w http.ResponseWriter, r *http.Request) {
	placeID, ok := idVar(w, r)
	if !ok {
		return
	}

	page, err := h.svc.ListWalls(r.Context(), placeID, pageParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, newPaginated(r, page), http.StatusOK)
}

type createRouteResponse struct {
	Message string `json:"message"`
	RouteID int64  `json:"route_id"`
}

func (h *CatalogHandler) CreateRoute(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	rt, err := h.svc.CreateRoute(r.Context(), body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, createRouteResponse{Message: "route created", RouteID: rt.ID}, http.StatusCreated)
}

func (h *CatalogHandler) GetRoute(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(w, r)
	if !ok {
		return
	}

	detail, err := h.svc.GetRoute(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, detail, http.StatusOK)
}

type createWallResponse struct {
	Message string `json:"message"`
	Wall    any    `json:"wall"`
}

func (h *CatalogHandler) CreateWall(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	wall, err := h.svc.CreateWall(r.Context(), body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, createWallResponse{Message: "wall created", Wall: wall}, http.StatusCreated)
}

func (h *CatalogHandler) GetWall(w http.ResponseWriter, r *http.Request) {
	id, ok := idVar(w, r)
	if !ok {
		return
	}

	wall, err := h.svc.GetWall(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, wall, http.StatusOK)
}

// WallImage serves the stored picture of kind for the wall in the path.
func (h *CatalogHandler) WallImage(kind images.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idVar(w, r)
		if !ok {
			return
		}

		path, err := h.svc.WallImagePath(r.Context(), id, kind)
		if err != nil {
			writeError(w, r, err)
			return
		}

		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				writeJSON(w, errorResponse{Error: "image not found"}, http.StatusNotFound)
				return
			}
			writeError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "image/jpeg")
		http.ServeFile(w, r, path)
	}
}

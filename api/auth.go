package api

import (
	"encoding/json"
	"net/http"

	"github.com/garnizeh/seekaclimb/internal/auth"
)

type AuthHandler struct {
	svc *auth.Service
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type credentialsRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (*credentialsRequest, bool) {
	body, ok := readBody(w, r)
	if !ok {
		return nil, false
	}

	var req credentialsRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, errorResponse{Error: "invalid request"}, http.StatusBadRequest)
		return nil, false
	}
	if req.UserName == "" || req.Password == "" {
		writeJSON(w, errorResponse{Error: "missing userName or password"}, http.StatusBadRequest)
		return nil, false
	}

	return &req, true
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	if _, err := h.svc.Register(r.Context(), req.UserName, req.Password); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, messageResponse{Message: "user registered"}, http.StatusOK)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	sess, err := h.svc.Authenticate(r.Context(), req.UserName, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, sess, http.StatusOK)
}

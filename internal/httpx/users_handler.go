package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/craftline/artisan-market/internal/market"
)

type UsersHandler struct {
	Repo *market.UserRepo
}

func (h *UsersHandler) Register(r *chi.Mux) {
	r.Post("/api/register", h.register)
	r.Post("/api/login", h.login)
	r.Get("/api/me", h.me)
}

func (h *UsersHandler) register(w http.ResponseWriter, r *http.Request) {
	var in market.UserInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if in.Username == "" || len(in.Password) < 6 {
		writeError(w, http.StatusBadRequest, "username required and password must be at least 6 characters")
		return
	}
	switch in.Role {
	case "artisan", "buyer", "admin":
	default:
		writeError(w, http.StatusBadRequest, "role must be artisan, buyer, or admin")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	u, err := h.Repo.Create(ctx, in)
	if errors.Is(err, market.ErrUsernameTaken) {
		writeError(w, http.StatusBadRequest, "username already exists")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *UsersHandler) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	u, err := h.Repo.Authenticate(ctx, body.Username, body.Password)
	if errors.Is(err, market.ErrBadCredentials) {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UsersHandler) me(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid X-User-Id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	u, err := h.Repo.GetByID(ctx, id)
	if errors.Is(err, market.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

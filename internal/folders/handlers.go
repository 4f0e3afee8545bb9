package folders

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"example.com/notekeeper/internal/httpx"
)

type Handlers struct {
	repo Repo
}

// Repo is an abstraction over the folder repository for handler tests.
type Repo interface {
	ListAll(ctx context.Context) []Folder
	GetByID(ctx context.Context, id int64) (Folder, error)
	Create(ctx context.Context, p FolderParams) (Folder, error)
	Update(ctx context.Context, id int64, p FolderParams) (Folder, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

func NewHandlers(repo Repo) *Handlers {
	return &Handlers{repo: repo}
}

func (h *Handlers) Routes() http.Handler {
	r := chi.NewRouter()

	r.Post("/", h.create)
	r.Get("/", h.list)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.get)
		r.Put("/", h.update)
		r.Delete("/", h.delete)
	})

	return r
}

func (h *Handlers) create(w http.ResponseWriter, r *http.Request) {
	var req FolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := req.Validate(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	f, err := h.repo.Create(r.Context(), req.params())
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "could not save folder")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, f)
}

func (h *Handlers) list(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"items": h.repo.ListAll(r.Context())})
}

func (h *Handlers) get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.IDParam(r)
	if !ok {
		httpx.WriteError(w, http.StatusBadRequest, "invalid id")
		return
	}

	f, err := h.repo.GetByID(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		httpx.WriteError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "could not read folder")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, f)
}

func (h *Handlers) update(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.IDParam(r)
	if !ok {
		httpx.WriteError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req UpdateFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := req.Validate(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	f, err := h.repo.Update(r.Context(), id, req.params())
	if errors.Is(err, ErrNotFound) {
		httpx.WriteError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "could not save folder")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, f)
}

func (h *Handlers) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.IDParam(r)
	if !ok {
		httpx.WriteError(w, http.StatusBadRequest, "invalid id")
		return
	}

	removed, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "could not delete folder")
		return
	}
	if !removed {
		httpx.WriteError(w, http.StatusNotFound, "not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

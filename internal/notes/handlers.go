package notes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"example.com/notekeeper/internal/httpx"
	"example.com/notekeeper/internal/stringsx"
)

const previewLength = 160

type Handlers struct {
	repo Repo
}

// Repo is an abstraction over the note repository.
// It allows unit-testing handlers without real storage.
type Repo interface {
	ListAll(ctx context.Context) []Note
	ListByFolder(ctx context.Context, folderID int64) []Note
	Search(ctx context.Context, query string) []Note
	GetByID(ctx context.Context, id int64) (Note, error)
	Create(ctx context.Context, p NoteParams) (Note, error)
	Update(ctx context.Context, id int64, p NoteParams) (Note, error)
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

// listItem augments a note with a plain-text preview and word count for
// list views.
type listItem struct {
	Note
	Preview   string `json:"preview"`
	WordCount int    `json:"word_count"`
}

func toListItems(ns []Note) []listItem {
	out := make([]listItem, 0, len(ns))
	for _, n := range ns {
		plain := stringsx.StripTags(n.Content)
		out = append(out, listItem{
			Note:      n,
			Preview:   stringsx.Clip(plain, previewLength),
			WordCount: stringsx.WordCount(n.Content),
		})
	}
	return out
}

func (h *Handlers) create(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := req.Validate(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	n, err := h.repo.Create(r.Context(), req.Params())
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "could not save note")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, n)
}

func (h *Handlers) get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.IDParam(r)
	if !ok {
		httpx.WriteError(w, http.StatusBadRequest, "invalid id")
		return
	}

	n, err := h.repo.GetByID(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		httpx.WriteError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "could not read note")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, n)
}

func (h *Handlers) update(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.IDParam(r)
	if !ok {
		httpx.WriteError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := req.Validate(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	n, err := h.repo.Update(r.Context(), id, req.Params())
	if errors.Is(err, ErrNotFound) {
		httpx.WriteError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "could not save note")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, n)
}

func (h *Handlers) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.IDParam(r)
	if !ok {
		httpx.WriteError(w, http.StatusBadRequest, "invalid id")
		return
	}

	removed, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "could not delete note")
		return
	}
	if !removed {
		httpx.WriteError(w, http.StatusNotFound, "not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// list serves /notes, /notes?folder_id=N and /notes?q=term. A present but
// blank q still means search, which by contract returns nothing.
func (h *Handlers) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	var items []Note
	switch {
	case query.Has("q"):
		items = h.repo.Search(ctx, query.Get("q"))
	case query.Get("folder_id") != "":
		folderID, err := strconv.ParseInt(query.Get("folder_id"), 10, 64)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid folder_id")
			return
		}
		items = h.repo.ListByFolder(ctx, folderID)
	default:
		items = h.repo.ListAll(ctx)
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"items": toListItems(items)})
}

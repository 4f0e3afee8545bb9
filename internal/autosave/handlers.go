package autosave

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"example.com/notekeeper/internal/httpx"
	"example.com/notekeeper/internal/notes"
)

// Handlers exposes editing sessions over HTTP: the UI opens a session, posts
// every in-progress edit to it, and polls the status indicator.
type Handlers struct {
	manager *Manager
}

func NewHandlers(manager *Manager) *Handlers {
	return &Handlers{manager: manager}
}

func (h *Handlers) Routes() http.Handler {
	r := chi.NewRouter()

	r.Post("/", h.open)

	r.Route("/{sessionID}", func(r chi.Router) {
		r.Get("/", h.status)
		r.Post("/edits", h.edit)
		r.Post("/save", h.save)
		r.Delete("/", h.close)
	})

	return r
}

type openSessionRequest struct {
	NoteID int64 `json:"note_id"`
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
	NoteID    int64  `json:"note_id"`
	Status    Status `json:"status"`
}

func (h *Handlers) open(w http.ResponseWriter, r *http.Request) {
	var req openSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}
	}
	if req.NoteID < 0 {
		httpx.WriteError(w, http.StatusBadRequest, "invalid note_id")
		return
	}

	id, c := h.manager.Open(req.NoteID)
	httpx.WriteJSON(w, http.StatusCreated, sessionResponse{
		SessionID: id,
		NoteID:    c.NoteID(),
		Status:    c.Status(),
	})
}

func (h *Handlers) lookup(w http.ResponseWriter, r *http.Request) (string, *Coordinator, bool) {
	id := chi.URLParam(r, "sessionID")
	c, ok := h.manager.Get(id)
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, "unknown session")
		return "", nil, false
	}
	return id, c, true
}

func (h *Handlers) status(w http.ResponseWriter, r *http.Request) {
	id, c, ok := h.lookup(w, r)
	if !ok {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sessionResponse{SessionID: id, NoteID: c.NoteID(), Status: c.Status()})
}

func (h *Handlers) edit(w http.ResponseWriter, r *http.Request) {
	id, c, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req notes.UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := req.Validate(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	c.Edit(req.Params())
	httpx.WriteJSON(w, http.StatusAccepted, sessionResponse{SessionID: id, NoteID: c.NoteID(), Status: c.Status()})
}

func (h *Handlers) save(w http.ResponseWriter, r *http.Request) {
	id, c, ok := h.lookup(w, r)
	if !ok {
		return
	}

	c.SaveNow()
	httpx.WriteJSON(w, http.StatusOK, sessionResponse{SessionID: id, NoteID: c.NoteID(), Status: c.Status()})
}

func (h *Handlers) close(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if !h.manager.Close(id) {
		httpx.WriteError(w, http.StatusNotFound, "unknown session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

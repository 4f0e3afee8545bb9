package notes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	listAllFn      func(context.Context) []Note
	listByFolderFn func(context.Context, int64) []Note
	searchFn       func(context.Context, string) []Note
	getByIDFn      func(context.Context, int64) (Note, error)
	createFn       func(context.Context, NoteParams) (Note, error)
	updateFn       func(context.Context, int64, NoteParams) (Note, error)
	deleteFn       func(context.Context, int64) (bool, error)
}

func (s stubRepo) ListAll(ctx context.Context) []Note { return s.listAllFn(ctx) }
func (s stubRepo) ListByFolder(ctx context.Context, id int64) []Note {
	return s.listByFolderFn(ctx, id)
}
func (s stubRepo) Search(ctx context.Context, q string) []Note { return s.searchFn(ctx, q) }
func (s stubRepo) GetByID(ctx context.Context, id int64) (Note, error) {
	return s.getByIDFn(ctx, id)
}
func (s stubRepo) Create(ctx context.Context, p NoteParams) (Note, error) {
	return s.createFn(ctx, p)
}
func (s stubRepo) Update(ctx context.Context, id int64, p NoteParams) (Note, error) {
	return s.updateFn(ctx, id, p)
}
func (s stubRepo) Delete(ctx context.Context, id int64) (bool, error) { return s.deleteFn(ctx, id) }

func TestHandlers_Create_Success(t *testing.T) {
	created := Note{ID: 1, Title: "t", Content: "c", Tags: []string{}, FolderID: 2, CreatedAt: time.Unix(1, 0).UTC(), UpdatedAt: time.Unix(1, 0).UTC()}
	h := NewHandlers(stubRepo{
		createFn: func(_ context.Context, p NoteParams) (Note, error) {
			require.NotNil(t, p.Title)
			require.Equal(t, "t", *p.Title)
			require.NotNil(t, p.FolderID)
			require.Equal(t, int64(2), *p.FolderID)
			return created, nil
		},
	}).Routes()

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"title":"t","content":"c","folder_id":"2"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var got Note
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	require.Equal(t, created.ID, got.ID)
}

func TestHandlers_Create_InvalidPayloads(t *testing.T) {
	h := NewHandlers(stubRepo{
		createFn: func(context.Context, NoteParams) (Note, error) { return Note{}, nil },
	}).Routes()

	for name, body := range map[string]string{
		"broken json":        "{",
		"negative folder":    `{"title":"t","folder_id":-3}`,
		"non-numeric folder": `{"title":"t","folder_id":"abc"}`,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			require.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestHandlers_Get(t *testing.T) {
	n := Note{ID: 42, Title: "t", Content: "c"}

	t.Run("success", func(t *testing.T) {
		h := NewHandlers(stubRepo{
			getByIDFn: func(context.Context, int64) (Note, error) { return n, nil },
		}).Routes()
		req := httptest.NewRequest(http.MethodGet, "/42", nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		h := NewHandlers(stubRepo{
			getByIDFn: func(context.Context, int64) (Note, error) { return Note{}, nil },
		}).Routes()
		req := httptest.NewRequest(http.MethodGet, "/abc", nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		require.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("not found", func(t *testing.T) {
		h := NewHandlers(stubRepo{
			getByIDFn: func(context.Context, int64) (Note, error) { return Note{}, ErrNotFound },
		}).Routes()
		req := httptest.NewRequest(http.MethodGet, "/999", nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestHandlers_Update(t *testing.T) {
	h := NewHandlers(stubRepo{
		updateFn: func(_ context.Context, id int64, p NoteParams) (Note, error) {
			require.Equal(t, int64(1), id)
			require.NotNil(t, p.Title)
			require.Nil(t, p.Content, "unsupplied fields stay nil")
			return Note{ID: 1, Title: *p.Title}, nil
		},
	}).Routes()

	req := httptest.NewRequest(http.MethodPut, "/1", bytes.NewBufferString(`{"title":"t2"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestHandlers_Delete(t *testing.T) {
	t.Run("removed", func(t *testing.T) {
		h := NewHandlers(stubRepo{
			deleteFn: func(context.Context, int64) (bool, error) { return true, nil },
		}).Routes()
		req := httptest.NewRequest(http.MethodDelete, "/1", nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		require.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("missing", func(t *testing.T) {
		h := NewHandlers(stubRepo{
			deleteFn: func(context.Context, int64) (bool, error) { return false, nil },
		}).Routes()
		req := httptest.NewRequest(http.MethodDelete, "/999", nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		require.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		h := NewHandlers(stubRepo{
			deleteFn: func(context.Context, int64) (bool, error) { return false, errors.New("boom") },
		}).Routes()
		req := httptest.NewRequest(http.MethodDelete, "/1", nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		require.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestHandlers_List_Dispatch(t *testing.T) {
	notes := []Note{{ID: 1, Title: "a", Content: "<p>hello world</p>"}}

	store := stubRepo{
		listAllFn: func(context.Context) []Note { return notes },
		listByFolderFn: func(_ context.Context, id int64) []Note {
			require.Equal(t, int64(5), id)
			return notes
		},
		searchFn: func(_ context.Context, q string) []Note {
			if q == "" {
				return []Note{}
			}
			return notes
		},
	}
	h := NewHandlers(store).Routes()

	get := func(target string) map[string]any {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
		var resp map[string]any
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		return resp
	}

	// plain list carries the plain-text preview and word count
	resp := get("/")
	items := resp["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	require.Equal(t, "hello world", item["preview"])
	require.Equal(t, float64(2), item["word_count"])

	// folder filter
	resp = get("/?folder_id=5")
	require.Len(t, resp["items"].([]any), 1)

	// search with a term
	resp = get("/?q=hello")
	require.Len(t, resp["items"].([]any), 1)

	// blank q present: the search contract returns nothing
	resp = get("/?q=")
	require.Len(t, resp["items"].([]any), 0)

	// invalid folder id
	req := httptest.NewRequest(http.MethodGet, "/?folder_id=abc", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

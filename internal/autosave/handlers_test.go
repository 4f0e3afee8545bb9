package autosave

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestHandlers(saver Saver) http.Handler {
	m := NewManager(saver, 20*time.Millisecond, zerolog.Nop())
	return NewHandlers(m).Routes()
}

func doJSON(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, sessionResponse) {
	t.Helper()
	var buf *bytes.Buffer
	if body == "" {
		buf = bytes.NewBuffer(nil)
	} else {
		buf = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, buf)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var resp sessionResponse
	if rr.Code < 300 && rr.Body.Len() > 0 {
		_ = json.NewDecoder(rr.Body).Decode(&resp)
	}
	return rr, resp
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	saver := &stubSaver{}
	h := newTestHandlers(saver)

	// open a session for a brand-new note
	rr, opened := doJSON(t, h, http.MethodPost, "/", "")
	require.Equal(t, http.StatusCreated, rr.Code)
	require.NotEmpty(t, opened.SessionID)
	require.Equal(t, int64(0), opened.NoteID)
	require.Equal(t, StatusIdle, opened.Status)

	// an edit flips the indicator to pending
	rr, resp := doJSON(t, h, http.MethodPost, "/"+opened.SessionID+"/edits", `{"title":"draft","content":"<p>x</p>"}`)
	require.Equal(t, http.StatusAccepted, rr.Code)
	require.Equal(t, StatusPending, resp.Status)

	// manual save bypasses the window and binds the note id
	rr, resp = doJSON(t, h, http.MethodPost, "/"+opened.SessionID+"/save", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, StatusSaved, resp.Status)
	require.Equal(t, int64(1), resp.NoteID)

	// status endpoint reflects the same state
	rr, resp = doJSON(t, h, http.MethodGet, "/"+opened.SessionID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, StatusSaved, resp.Status)

	// close and verify the session is gone
	rr, _ = doJSON(t, h, http.MethodDelete, "/"+opened.SessionID, "")
	require.Equal(t, http.StatusNoContent, rr.Code)
	rr, _ = doJSON(t, h, http.MethodGet, "/"+opened.SessionID, "")
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSessionHandlers_Validation(t *testing.T) {
	saver := &stubSaver{}
	h := newTestHandlers(saver)

	t.Run("negative note id", func(t *testing.T) {
		rr, _ := doJSON(t, h, http.MethodPost, "/", `{"note_id":-1}`)
		require.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown session", func(t *testing.T) {
		rr, _ := doJSON(t, h, http.MethodPost, "/nope/edits", `{"title":"x"}`)
		require.Equal(t, http.StatusNotFound, rr.Code)
		rr, _ = doJSON(t, h, http.MethodDelete, "/nope", "")
		require.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("broken edit payload", func(t *testing.T) {
		_, opened := doJSON(t, h, http.MethodPost, "/", "")
		rr, _ := doJSON(t, h, http.MethodPost, "/"+opened.SessionID+"/edits", "{")
		require.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestDebouncedSaveOverHTTP(t *testing.T) {
	saver := &stubSaver{}
	h := newTestHandlers(saver)

	_, opened := doJSON(t, h, http.MethodPost, "/", "")
	doJSON(t, h, http.MethodPost, "/"+opened.SessionID+"/edits", `{"title":"a"}`)
	doJSON(t, h, http.MethodPost, "/"+opened.SessionID+"/edits", `{"title":"b"}`)

	// Give the 20ms test window time to fire.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		_, resp := doJSON(t, h, http.MethodGet, "/"+opened.SessionID, "")
		if resp.Status == StatusSaved {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	creates, updates := saver.calls()
	require.Equal(t, 1, creates, "rapid edits coalesce into one create")
	require.Zero(t, updates)
	require.Equal(t, "b", *saver.creates[0].Title)
}

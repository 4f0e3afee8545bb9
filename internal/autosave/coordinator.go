package autosave

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"example.com/notekeeper/internal/notes"
)

// Status is the save-state indicator exposed to the editing UI.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPending Status = "pending"
	StatusSaving  Status = "saving"
	StatusSaved   Status = "saved"
	StatusError   Status = "error"
)

// Saver is the slice of the note repository the coordinator persists
// through. The note repository satisfies it.
type Saver interface {
	Create(ctx context.Context, p notes.NoteParams) (notes.Note, error)
	Update(ctx context.Context, id int64, p notes.NoteParams) (notes.Note, error)
}

// Coordinator turns a rapid stream of edits within one editing session into
// a bounded rate of persistence calls. Edits reset a debounce timer; when
// the timer fires the accumulated state is persisted. At most one
// persistence call is ever in flight: an edit or timer firing during a save
// only marks the session dirty, and the save is re-armed once the in-flight
// call resolves.
type Coordinator struct {
	saver  Saver
	window time.Duration
	log    zerolog.Logger

	mu       sync.Mutex
	noteID   int64 // 0 until the first successful create
	status   Status
	pending  notes.NoteParams
	timer    *time.Timer
	dirty    bool
	inFlight bool
	closed   bool
}

// New builds a coordinator for one session. noteID is 0 for a note that has
// not been created yet; the first successful save binds the session to the
// returned identity.
func New(saver Saver, noteID int64, window time.Duration, log zerolog.Logger) *Coordinator {
	if window <= 0 {
		window = 3 * time.Second
	}
	return &Coordinator{
		saver:  saver,
		window: window,
		log:    log,
		noteID: noteID,
		status: StatusIdle,
	}
}

// Edit records an in-progress change. Non-nil fields overwrite the pending
// state; the debounce timer restarts unless a save is already in flight, in
// which case the change is deferred until that save resolves.
func (c *Coordinator) Edit(p notes.NoteParams) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.merge(p)

	if c.inFlight {
		c.dirty = true
		return
	}
	c.armTimerLocked()
}

// SaveNow bypasses the debounce window. It runs the persistence call on the
// calling goroutine and returns once the status has settled, so callers can
// read the outcome immediately. While a save is in flight it only marks the
// session dirty.
func (c *Coordinator) SaveNow() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.inFlight {
		c.dirty = true
		c.mu.Unlock()
		return
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()

	c.flush()
}

// Status returns the current save-state indicator.
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// NoteID returns the identity the session is bound to, 0 while the note has
// not been created yet.
func (c *Coordinator) NoteID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.noteID
}

// Close tears the session down: the pending timer is cancelled and the
// result of an in-flight save, if any, is discarded.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Coordinator) merge(p notes.NoteParams) {
	if p.Title != nil {
		c.pending.Title = p.Title
	}
	if p.Content != nil {
		c.pending.Content = p.Content
	}
	if p.FolderID != nil {
		c.pending.FolderID = p.FolderID
	}
	if p.Tags != nil {
		c.pending.Tags = p.Tags
	}
}

// armTimerLocked restarts the debounce window. Caller holds the lock.
func (c *Coordinator) armTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.window, c.flush)
	c.status = StatusPending
}

// flush issues the persistence call, serialized by the inFlight flag.
func (c *Coordinator) flush() {
	c.mu.Lock()
	if c.closed || c.inFlight {
		c.mu.Unlock()
		return
	}
	c.inFlight = true
	c.status = StatusSaving
	id := c.noteID
	p := c.pending
	c.mu.Unlock()

	ctx := context.Background()
	var (
		saved notes.Note
		err   error
	)
	if id == 0 {
		saved, err = c.saver.Create(ctx, p)
	} else {
		saved, err = c.saver.Update(ctx, id, p)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	if c.closed {
		// The session is gone; nobody is watching this result.
		return
	}

	if err != nil {
		c.status = StatusError
		c.log.Error().Err(err).Int64("note_id", id).Msg("autosave failed")
	} else {
		c.noteID = saved.ID
		c.status = StatusSaved
	}

	// Edits that arrived mid-save re-enter the debounce cycle.
	if c.dirty {
		c.dirty = false
		c.armTimerLocked()
	}
}

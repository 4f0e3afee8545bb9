package notes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"example.com/notekeeper/internal/ident"
	"example.com/notekeeper/internal/stringsx"
)

var ErrNotFound = errors.New("note not found")

// Options carry the defaults the repository applies to missing fields.
type Options struct {
	DefaultFolderID int64
	DefaultTitle    string
}

// Repository owns the note collection. All state lives on the instance, so
// independent repositories (one per test, for example) never interfere.
type Repository struct {
	mu    sync.RWMutex
	byID  map[int64]Note
	store Store
	opts  Options
	log   zerolog.Logger
}

// NewRepository loads existing records from the store and takes ownership of
// the collection.
func NewRepository(ctx context.Context, store Store, opts Options, log zerolog.Logger) (*Repository, error) {
	if opts.DefaultFolderID <= 0 {
		opts.DefaultFolderID = 1
	}
	if opts.DefaultTitle == "" {
		opts.DefaultTitle = "Untitled note"
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}

	byID := make(map[int64]Note, len(loaded))
	for _, n := range loaded {
		byID[n.ID] = n
	}

	return &Repository{byID: byID, store: store, opts: opts, log: log}, nil
}

// ListAll returns every note ordered by updated_at descending.
func (r *Repository) ListAll(ctx context.Context) []Note {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortByUpdated(r.snapshot(func(Note) bool { return true }))
}

// ListByFolder returns the notes referencing folderID, newest first.
func (r *Repository) ListByFolder(ctx context.Context, folderID int64) []Note {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortByUpdated(r.snapshot(func(n Note) bool { return n.FolderID == folderID }))
}

// Search matches query case-insensitively against the title, the plain-text
// content and each tag. A blank query returns an empty result on purpose:
// callers rely on it to tell "no query" apart from "no filter".
func (r *Repository) Search(ctx context.Context, query string) []Note {
	if stringsx.IsEmpty(query) {
		return []Note{}
	}
	q := stringsx.Normalize(query)

	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortByUpdated(r.snapshot(func(n Note) bool { return matches(n, q) }))
}

func matches(n Note, q string) bool {
	if strings.Contains(strings.ToLower(n.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(stringsx.StripTags(n.Content)), q) {
		return true
	}
	for _, tag := range n.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func (r *Repository) GetByID(ctx context.Context, id int64) (Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.byID[id]
	if !ok {
		return Note{}, ErrNotFound
	}
	return n, nil
}

// CountByFolder reports how many notes reference folderID. Folder reads use
// it to derive their note count.
func (r *Repository) CountByFolder(ctx context.Context, folderID int64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, n := range r.byID {
		if n.FolderID == folderID {
			count++
		}
	}
	return count
}

// Create allocates a fresh identity, applies defaults for missing fields and
// appends the note. The id is strictly greater than every id present.
func (r *Repository) Create(ctx context.Context, p NoteParams) (Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	n := Note{
		ID:        ident.NextID(r.ids()),
		Content:   deref(p.Content),
		Tags:      p.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}

	n.Title = deref(p.Title)
	if stringsx.IsEmpty(n.Title) {
		n.Title = r.opts.DefaultTitle
		r.log.Debug().Int64("note_id", n.ID).Msg("blank title defaulted")
	}

	if p.FolderID != nil && *p.FolderID > 0 {
		n.FolderID = *p.FolderID
	} else {
		n.FolderID = r.opts.DefaultFolderID
		r.log.Debug().Int64("note_id", n.ID).Int64("folder_id", n.FolderID).Msg("missing folder defaulted")
	}

	if err := r.store.Save(ctx, n); err != nil {
		r.log.Error().Err(err).Int64("note_id", n.ID).Msg("persist note failed")
		return Note{}, fmt.Errorf("persist note: %w", err)
	}
	r.byID[n.ID] = n
	return n, nil
}

// Update merges the supplied fields onto the existing record and advances
// updated_at. The id and created_at never change.
func (r *Repository) Update(ctx context.Context, id int64, p NoteParams) (Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.byID[id]
	if !ok {
		return Note{}, ErrNotFound
	}

	if p.Title != nil {
		n.Title = *p.Title
		if stringsx.IsEmpty(n.Title) {
			n.Title = r.opts.DefaultTitle
			r.log.Debug().Int64("note_id", id).Msg("blank title defaulted")
		}
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.FolderID != nil && *p.FolderID > 0 {
		n.FolderID = *p.FolderID
	}
	if p.Tags != nil {
		n.Tags = p.Tags
	}
	n.UpdatedAt = time.Now().UTC()

	if err := r.store.Save(ctx, n); err != nil {
		r.log.Error().Err(err).Int64("note_id", id).Msg("persist note failed")
		return Note{}, fmt.Errorf("persist note: %w", err)
	}
	r.byID[id] = n
	return n, nil
}

// Delete removes the note and reports whether a record was actually removed.
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	if err := r.store.Delete(ctx, id); err != nil {
		r.log.Error().Err(err).Int64("note_id", id).Msg("delete note failed")
		return false, fmt.Errorf("delete note: %w", err)
	}
	delete(r.byID, id)
	return true, nil
}

// ids and snapshot are called with the lock held.

func (r *Repository) ids() []int64 {
	out := make([]int64, 0, len(r.byID))
	for id := range r.byID {
		out = append(out, id)
	}
	return out
}

func (r *Repository) snapshot(keep func(Note) bool) []Note {
	out := make([]Note, 0, len(r.byID))
	for _, n := range r.byID {
		if keep(n) {
			out = append(out, n)
		}
	}
	return out
}

func sortByUpdated(ns []Note) []Note {
	sort.Slice(ns, func(i, j int) bool {
		if !ns[i].UpdatedAt.Equal(ns[j].UpdatedAt) {
			return ns[i].UpdatedAt.After(ns[j].UpdatedAt)
		}
		return ns[i].ID > ns[j].ID
	})
	return ns
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

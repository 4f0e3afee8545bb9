package folders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"example.com/notekeeper/internal/ident"
	"example.com/notekeeper/internal/stringsx"
)

var ErrNotFound = errors.New("folder not found")

// NoteCounter reports how many notes reference a folder. The note repository
// implements it; folder reads use it to compute the derived note count, so
// the count is always fresh and never stored.
type NoteCounter interface {
	CountByFolder(ctx context.Context, folderID int64) int
}

// Options carry the defaults the repository applies to missing fields.
type Options struct {
	DefaultName  string
	DefaultColor string
}

// Repository owns the folder collection.
type Repository struct {
	mu    sync.RWMutex
	byID  map[int64]Folder
	store Store
	notes NoteCounter
	opts  Options
	log   zerolog.Logger
}

func NewRepository(ctx context.Context, store Store, notes NoteCounter, opts Options, log zerolog.Logger) (*Repository, error) {
	if opts.DefaultName == "" {
		opts.DefaultName = "New folder"
	}
	if opts.DefaultColor == "" {
		opts.DefaultColor = "#3498DB"
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load folders: %w", err)
	}

	byID := make(map[int64]Folder, len(loaded))
	for _, f := range loaded {
		byID[f.ID] = f
	}

	return &Repository{byID: byID, store: store, notes: notes, opts: opts, log: log}, nil
}

// ListAll returns every folder ordered by created_at ascending, each carrying
// a freshly computed note count.
func (r *Repository) ListAll(ctx context.Context) []Folder {
	r.mu.RLock()
	out := make([]Folder, 0, len(r.byID))
	for _, f := range r.byID {
		out = append(out, f)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	for i := range out {
		out[i].NoteCount = r.notes.CountByFolder(ctx, out[i].ID)
	}
	return out
}

func (r *Repository) GetByID(ctx context.Context, id int64) (Folder, error) {
	r.mu.RLock()
	f, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		return Folder{}, ErrNotFound
	}
	f.NoteCount = r.notes.CountByFolder(ctx, id)
	return f, nil
}

// Create allocates a fresh identity and applies defaults for missing fields.
// A new folder necessarily has a note count of zero.
func (r *Repository) Create(ctx context.Context, p FolderParams) (Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f := Folder{
		ID:        ident.NextID(r.ids()),
		Name:      deref(p.Name),
		Color:     deref(p.Color),
		CreatedAt: time.Now().UTC(),
	}
	if stringsx.IsEmpty(f.Name) {
		f.Name = r.opts.DefaultName
		r.log.Debug().Int64("folder_id", f.ID).Msg("blank name defaulted")
	}
	if stringsx.IsEmpty(f.Color) {
		f.Color = r.opts.DefaultColor
	}

	if err := r.store.Save(ctx, f); err != nil {
		r.log.Error().Err(err).Int64("folder_id", f.ID).Msg("persist folder failed")
		return Folder{}, fmt.Errorf("persist folder: %w", err)
	}
	r.byID[f.ID] = f
	return f, nil
}

// Update merges the supplied fields onto the existing record.
func (r *Repository) Update(ctx context.Context, id int64, p FolderParams) (Folder, error) {
	r.mu.Lock()

	f, ok := r.byID[id]
	if !ok {
		r.mu.Unlock()
		return Folder{}, ErrNotFound
	}

	if p.Name != nil && !stringsx.IsEmpty(*p.Name) {
		f.Name = *p.Name
	}
	if p.Color != nil && !stringsx.IsEmpty(*p.Color) {
		f.Color = *p.Color
	}

	if err := r.store.Save(ctx, f); err != nil {
		r.mu.Unlock()
		r.log.Error().Err(err).Int64("folder_id", id).Msg("persist folder failed")
		return Folder{}, fmt.Errorf("persist folder: %w", err)
	}
	r.byID[id] = f
	r.mu.Unlock()

	f.NoteCount = r.notes.CountByFolder(ctx, id)
	return f, nil
}

// Delete removes the folder and reports whether a record was actually
// removed. Notes referencing the folder are deliberately left alone: the
// non-cascading policy keeps orphans addressable under their original
// folder id.
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	if err := r.store.Delete(ctx, id); err != nil {
		r.log.Error().Err(err).Int64("folder_id", id).Msg("delete folder failed")
		return false, fmt.Errorf("delete folder: %w", err)
	}
	delete(r.byID, id)
	return true, nil
}

// ids is called with the lock held.
func (r *Repository) ids() []int64 {
	out := make([]int64, 0, len(r.byID))
	for id := range r.byID {
		out = append(out, id)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

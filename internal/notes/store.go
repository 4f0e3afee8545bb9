package notes

import "context"

// Store is the durable backend behind the repository. The repository keeps
// the canonical collection in memory and writes through; a Store failure
// rejects the mutation.
type Store interface {
	Load(ctx context.Context) ([]Note, error)
	Save(ctx context.Context, n Note) error
	Delete(ctx context.Context, id int64) error
}

type nopStore struct{}

func (nopStore) Load(context.Context) ([]Note, error) { return nil, nil }
func (nopStore) Save(context.Context, Note) error     { return nil }
func (nopStore) Delete(context.Context, int64) error  { return nil }

// NopStore keeps nothing: the repository runs purely in memory. Used in
// tests and when no DATABASE_URL is configured.
func NopStore() Store { return nopStore{} }

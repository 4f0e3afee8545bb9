package folders

import "context"

// Store is the durable backend behind the repository, mirroring the one the
// note repository writes through.
type Store interface {
	Load(ctx context.Context) ([]Folder, error)
	Save(ctx context.Context, f Folder) error
	Delete(ctx context.Context, id int64) error
}

type nopStore struct{}

func (nopStore) Load(context.Context) ([]Folder, error) { return nil, nil }
func (nopStore) Save(context.Context, Folder) error     { return nil }
func (nopStore) Delete(context.Context, int64) error    { return nil }

// NopStore keeps nothing: the repository runs purely in memory.
func NopStore() Store { return nopStore{} }

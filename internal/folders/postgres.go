package folders

import (
	"context"
	"database/sql"
)

// PGStore persists folders in the folders table. The derived note count is
// never written.
type PGStore struct {
	db *sql.DB

	stmtSave   *sql.Stmt
	stmtDelete *sql.Stmt
}

func NewPGStore(ctx context.Context, db *sql.DB) (*PGStore, error) {
	save, err := db.PrepareContext(ctx, `
		INSERT INTO folders (id, name, color, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET name = $2, color = $3
	`)
	if err != nil {
		return nil, err
	}

	del, err := db.PrepareContext(ctx, `DELETE FROM folders WHERE id = $1`)
	if err != nil {
		return nil, err
	}

	return &PGStore{db: db, stmtSave: save, stmtDelete: del}, nil
}

func (s *PGStore) Close() error {
	for _, st := range []*sql.Stmt{s.stmtSave, s.stmtDelete} {
		if st != nil {
			_ = st.Close()
		}
	}
	return nil
}

func (s *PGStore) Load(ctx context.Context) ([]Folder, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, color, created_at FROM folders`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Folder, 0, 8)
	for rows.Next() {
		var f Folder
		if err := rows.Scan(&f.ID, &f.Name, &f.Color, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *PGStore) Save(ctx context.Context, f Folder) error {
	_, err := s.stmtSave.ExecContext(ctx, f.ID, f.Name, f.Color, f.CreatedAt)
	return err
}

func (s *PGStore) Delete(ctx context.Context, id int64) error {
	_, err := s.stmtDelete.ExecContext(ctx, id)
	return err
}

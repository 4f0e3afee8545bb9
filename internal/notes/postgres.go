package notes

import (
	"context"
	"database/sql"
	"strings"
)

// PGStore persists notes in the notes table. Tags travel as a comma-joined
// string, matching the record layout the app has always used.
type PGStore struct {
	db *sql.DB

	stmtSave   *sql.Stmt
	stmtDelete *sql.Stmt
}

func NewPGStore(ctx context.Context, db *sql.DB) (*PGStore, error) {
	save, err := db.PrepareContext(ctx, `
		INSERT INTO notes (id, title, content, tags, folder_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET title = $2, content = $3, tags = $4, folder_id = $5, updated_at = $7
	`)
	if err != nil {
		return nil, err
	}

	del, err := db.PrepareContext(ctx, `DELETE FROM notes WHERE id = $1`)
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

func (s *PGStore) Load(ctx context.Context) ([]Note, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, content, tags, folder_id, created_at, updated_at
		FROM notes
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Note, 0, 32)
	for rows.Next() {
		var n Note
		var tags string
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &tags, &n.FolderID, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		n.Tags = splitTags(tags)
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *PGStore) Save(ctx context.Context, n Note) error {
	_, err := s.stmtSave.ExecContext(ctx, n.ID, n.Title, n.Content, joinTags(n.Tags), n.FolderID, n.CreatedAt, n.UpdatedAt)
	return err
}

func (s *PGStore) Delete(ctx context.Context, id int64) error {
	_, err := s.stmtDelete.ExecContext(ctx, id)
	return err
}

func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

func splitTags(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

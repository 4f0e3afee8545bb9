package notes

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type Note struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	FolderID  int64     `json:"folder_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NoteParams is a partial note: nil fields are left untouched by Update and
// defaulted by Create. Tags replace the whole sequence when non-nil.
type NoteParams struct {
	Title    *string
	Content  *string
	FolderID *int64
	Tags     []string
}

// FolderRef accepts a folder identity as either a JSON number or a numeric
// string; clients historically send both. Blank strings decode to zero,
// which the repository replaces with the configured default folder.
type FolderRef int64

func (f *FolderRef) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return errors.New("folder_id must be an integer")
		}
		*f = FolderRef(v)
		return nil
	}
	var v int64
	if err := json.Unmarshal(b, &v); err != nil {
		return errors.New("folder_id must be an integer")
	}
	*f = FolderRef(v)
	return nil
}

type CreateNoteRequest struct {
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	FolderID FolderRef `json:"folder_id"`
	Tags     []string  `json:"tags"`
}

func (r CreateNoteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.RuneLength(0, 512)),
		validation.Field(&r.FolderID, validation.By(nonNegativeRef)),
	)
}

func (r CreateNoteRequest) Params() NoteParams {
	p := NoteParams{Title: &r.Title, Content: &r.Content, Tags: r.Tags}
	id := int64(r.FolderID)
	p.FolderID = &id
	return p
}

type UpdateNoteRequest struct {
	Title    *string    `json:"title"`
	Content  *string    `json:"content"`
	FolderID *FolderRef `json:"folder_id"`
	Tags     []string   `json:"tags"`
}

func (r UpdateNoteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.RuneLength(0, 512)),
		validation.Field(&r.FolderID, validation.By(nonNegativeRef)),
	)
}

func (r UpdateNoteRequest) Params() NoteParams {
	p := NoteParams{Title: r.Title, Content: r.Content, Tags: r.Tags}
	if r.FolderID != nil {
		id := int64(*r.FolderID)
		p.FolderID = &id
	}
	return p
}

func nonNegativeRef(value interface{}) error {
	switch v := value.(type) {
	case FolderRef:
		if v < 0 {
			return errors.New("must be a positive id")
		}
	case *FolderRef:
		if v != nil && *v < 0 {
			return errors.New("must be a positive id")
		}
	}
	return nil
}

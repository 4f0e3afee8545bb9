package folders

import (
	"errors"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type Folder struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`

	// NoteCount is derived from the note collection on every read and is
	// never stored.
	NoteCount int `json:"note_count"`
}

// FolderParams is a partial folder: nil fields are left untouched by Update
// and defaulted by Create.
type FolderParams struct {
	Name  *string
	Color *string
}

var colorToken = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type FolderRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (r FolderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.RuneLength(0, 128)),
		validation.Field(&r.Color, validation.By(validColor)),
	)
}

func (r FolderRequest) params() FolderParams {
	return FolderParams{Name: &r.Name, Color: &r.Color}
}

type UpdateFolderRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

func (r UpdateFolderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.RuneLength(0, 128)),
		validation.Field(&r.Color, validation.By(validColor)),
	)
}

func (r UpdateFolderRequest) params() FolderParams {
	return FolderParams{Name: r.Name, Color: r.Color}
}

func validColor(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	default:
		return nil
	}
	if s == "" {
		return nil // defaulted by the repository
	}
	if !colorToken.MatchString(s) {
		return errors.New("must be a #RRGGBB color token")
	}
	return nil
}

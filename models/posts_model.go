package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

// PostID is the server-assigned identifier of a post. The API issues UUID
// strings, but any opaque string or JSON number is accepted on decode.
type PostID string

func (id *PostID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = PostID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("post id must be a string or a number")
	}
	*id = PostID(n.String())
	return nil
}

func (id PostID) String() string {
	return string(id)
}

type Post struct {
	ID        PostID     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// PostFields is the writable part of a post: the create/update request body
// and the values bound to the form.
type PostFields struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required"`
}

func (p Post) Fields() PostFields {
	return PostFields{Name: p.Name, Email: p.Email}
}

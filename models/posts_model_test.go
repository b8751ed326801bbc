package models

import (
	"encoding/json"
	"testing"
)

func TestPostIDDecodesStringsAndNumbers(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want PostID
	}{
		{"string", `{"id":"6f1c","name":"A","email":"a@x.com"}`, "6f1c"},
		{"integer", `{"id":1,"name":"A","email":"a@x.com"}`, "1"},
		{"null", `{"id":null,"name":"A","email":"a@x.com"}`, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var p Post
			if err := json.Unmarshal([]byte(tc.in), &p); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if p.ID != tc.want {
				t.Errorf("got id %q, want %q", p.ID, tc.want)
			}
			if p.Name != "A" || p.Email != "a@x.com" {
				t.Errorf("unexpected fields %+v", p)
			}
		})
	}

	t.Run("rejects objects", func(t *testing.T) {
		var p Post
		if err := json.Unmarshal([]byte(`{"id":{"x":1}}`), &p); err == nil {
			t.Error("expected an error for an object id")
		}
	})
}

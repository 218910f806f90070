package storage

import (
	"testing"
)

func TestWriteReadJSONRoundtrip(t *testing.T) {
	s := NewStorage(t.TempDir())

	type record struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	in := record{Name: "plan", Count: 3}

	if err := s.WriteJSON("sub/dir/rec.json", in); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var out record
	if err := s.ReadJSON("sub/dir/rec.json", &out); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if out != in {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", out, in)
	}
}

func TestSlugify(t *testing.T) {
	if got := Slugify("/home/user/project"); got != "home-user-project" {
		t.Errorf("Slugify: got %q", got)
	}
}

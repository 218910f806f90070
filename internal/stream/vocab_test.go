package stream

import "testing"

func TestTagPatterns(t *testing.T) {
	open, close, err := TagPatterns("plan")
	if err != nil {
		t.Fatalf("TagPatterns: %v", err)
	}
	if open.Len() != 3 {
		t.Errorf("opening pattern atoms: got %d, want 3", open.Len())
	}
	if close.Len() != 1 {
		t.Errorf("closing pattern atoms: got %d, want 1", close.Len())
	}
}

func TestTagPatternsRejectsBadNames(t *testing.T) {
	for _, name := range []string{"", "a b", "a>b", "a<b", "a/b", "a\tb", "a\nb"} {
		if _, _, err := TagPatterns(name); err == nil {
			t.Errorf("TagPatterns(%q) accepted an invalid name", name)
		}
	}
}

func TestNewTagPluginDefaults(t *testing.T) {
	p, err := NewTagPlugin("status", true)
	if err != nil {
		t.Fatalf("NewTagPlugin: %v", err)
	}
	if p.Name != "status" {
		t.Errorf("Name: got %q, want %q", p.Name, "status")
	}
	if !p.Anchored {
		t.Error("new tag plugins should be anchored by default")
	}
	if !p.IncludeTags {
		t.Error("IncludeTags not carried through")
	}
}

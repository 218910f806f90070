package logs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"tamiz/internal/events"
	"tamiz/internal/session"
)

func writeAuditFile(t *testing.T, entries []events.AuditEntry) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "s1.audit.jsonl")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

func sampleEntries(base time.Time) []events.AuditEntry {
	return []events.AuditEntry{
		{Timestamp: base, Type: events.AuditLLMPrompt, Source: "user", Role: events.RoleUser, Content: "do the thing"},
		{Timestamp: base.Add(1 * time.Second), Type: events.AuditLLMChunk, Source: "gemini", Role: events.RoleAssistant, Content: "working on it"},
		{Timestamp: base.Add(2 * time.Second), Type: events.AuditTagBlock, Source: "think", Role: events.RoleAssistant, Content: "hmm"},
		{Timestamp: base.Add(3 * time.Second), Type: events.AuditTagBlock, Source: "plan", Role: events.RoleAssistant, Content: "1. do it"},
		{Timestamp: base.Add(4 * time.Second), Type: events.AuditLLMChunk, Source: "gemini", Role: events.RoleAssistant, Content: "done"},
	}
}

func TestReadAuditFileFilters(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	path := writeAuditFile(t, sampleEntries(base))

	tests := []struct {
		name   string
		filter *Filter
		want   int
	}{
		{"no filter", nil, 5},
		{"by type", &Filter{Type: events.AuditTagBlock}, 2},
		{"by source", &Filter{Source: "plan"}, 1},
		{"by role", &Filter{Role: events.RoleUser}, 1},
		{"by search", &Filter{Search: "DONE"}, 1},
		{"since excludes older", &Filter{Since: base.Add(2 * time.Second)}, 3},
		{"until excludes newer", &Filter{Until: base.Add(1 * time.Second)}, 2},
		{"combined", &Filter{Type: events.AuditTagBlock, Source: "think"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := ReadAuditFile(path, tt.filter)
			if err != nil {
				t.Fatalf("ReadAuditFile: %v", err)
			}
			if len(entries) != tt.want {
				t.Errorf("got %d entries, want %d", len(entries), tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sess := &session.Session{ID: "s1", Title: "demo", Status: session.StatusCompleted}

	got := Summarize(sampleEntries(base), sess)

	want := Summary{
		SessionID:    "s1",
		Title:        "demo",
		Status:       session.StatusCompleted,
		Duration:     4 * time.Second,
		FirstEntry:   base,
		LastEntry:    base.Add(4 * time.Second),
		TotalEntries: 5,
		PromptCount:  1,
		ChunkCount:   2,
		BlockCounts:  map[string]int{"think": 1, "plan": 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Summarize mismatch (-want +got):\n%s", diff)
	}
}

// Package logs reads and summarizes session audit transcripts.
package logs

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
	"time"

	"tamiz/internal/events"
	"tamiz/internal/session"
)

// Filter holds the query parameters for transcript retrieval.
type Filter struct {
	Type   string // filter by audit type (e.g. "tag_block")
	Source string // filter by source (vocabulary name, client, "user")
	Role   string // filter by conversation role (user/assistant/system)
	Since  time.Time
	Until  time.Time
	Search string // text search in content
}

// Summary holds aggregated statistics for a session's transcript.
type Summary struct {
	SessionID    string
	Title        string
	Status       string
	Duration     time.Duration
	FirstEntry   time.Time
	LastEntry    time.Time
	TotalEntries int
	PromptCount  int
	ChunkCount   int
	BlockCounts  map[string]int // vocabulary name -> block count
}

// ReadAuditFile reads all audit entries from a JSONL file, applying the
// given filter.
func ReadAuditFile(path string, f *Filter) ([]events.AuditEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var entries []events.AuditEntry
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 256*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry events.AuditEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}

		if matchesFilter(entry, f) {
			entries = append(entries, entry)
		}
	}

	return entries, scanner.Err()
}

func matchesFilter(entry events.AuditEntry, f *Filter) bool {
	if f == nil {
		return true
	}
	if f.Type != "" && entry.Type != f.Type {
		return false
	}
	if f.Source != "" && entry.Source != f.Source {
		return false
	}
	if f.Role != "" && entry.Role != f.Role {
		return false
	}
	if !f.Since.IsZero() && entry.Timestamp.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && entry.Timestamp.After(f.Until) {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(entry.Content), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// Summarize computes aggregated statistics from a list of audit entries.
func Summarize(entries []events.AuditEntry, sess *session.Session) Summary {
	s := Summary{
		TotalEntries: len(entries),
		BlockCounts:  make(map[string]int),
	}
	if sess != nil {
		s.SessionID = sess.ID
		s.Title = sess.Title
		s.Status = sess.Status
	}

	for _, e := range entries {
		if s.FirstEntry.IsZero() || e.Timestamp.Before(s.FirstEntry) {
			s.FirstEntry = e.Timestamp
		}
		if e.Timestamp.After(s.LastEntry) {
			s.LastEntry = e.Timestamp
		}

		switch e.Type {
		case events.AuditLLMPrompt:
			s.PromptCount++
		case events.AuditLLMChunk:
			s.ChunkCount++
		case events.AuditTagBlock:
			s.BlockCounts[e.Source]++
		}
	}

	if !s.FirstEntry.IsZero() {
		s.Duration = s.LastEntry.Sub(s.FirstEntry)
	}
	return s
}

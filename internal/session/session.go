// Package session manages tamiz sessions: creation, persistence, listing,
// and the append-only audit transcript each session accumulates.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/google/uuid"

	"tamiz/internal/events"
	"tamiz/internal/storage"
)

// Session status constants.
const (
	StatusIdle      = "idle"
	StatusStreaming = "streaming"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Session represents one conversation with a client, including the tag
// vocabularies filtered out of its streamed responses.
type Session struct {
	ID          string            `json:"id"`
	Client      string            `json:"client,omitempty"`
	CWD         string            `json:"cwd"`
	Title       string            `json:"title"`
	CreatedAt   time.Time         `json:"created_at"`
	LastUpdated time.Time         `json:"last_updated"`
	Status      string            `json:"status"`
	NativeSIDs  map[string]string `json:"native_sids"` // client name -> client-native session ID
	ModelTier   string            `json:"model_tier,omitempty"`
	Tags        []string          `json:"tags,omitempty"` // tag vocabularies to extract
	IncludeTags bool              `json:"include_tags,omitempty"`
}

type Manager struct {
	StoragePath string
	Storage     *storage.Storage
}

func NewManager(storagePath string) *Manager {
	return &Manager{
		StoragePath: storagePath,
		Storage:     storage.NewStorage(storagePath),
	}
}

func (sm *Manager) Create(cwd, title string) (*Session, error) {
	sess := &Session{
		ID:         uuid.New().String(),
		CWD:        cwd,
		Title:      title,
		CreatedAt:  time.Now(),
		NativeSIDs: make(map[string]string),
		Status:     StatusIdle,
	}
	if err := sm.Save(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (sm *Manager) Log(s *Session, eventType, content string) {
	sm.AppendAudit(s, events.AuditEntry{
		Type:    eventType,
		Source:  "engine",
		Role:    events.RoleSystem,
		Content: content,
	})
}

func (sm *Manager) metaPath(cwd, id string) string {
	return filepath.Join(sm.Storage.WorkspaceDir(cwd), id+".meta.json")
}

type IndexEntry struct {
	ID          string    `json:"id"`
	CWD         string    `json:"cwd"`
	Title       string    `json:"title"`
	LastUpdated time.Time `json:"last_updated"`
}

func (sm *Manager) indexPath() string {
	return filepath.Join(sm.StoragePath, "sessions", ".global_index.json")
}

func (sm *Manager) updateGlobalIndex(s *Session) {
	indexPath := sm.indexPath()

	lockPath := indexPath + ".lock"
	lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		fmt.Printf("WARNING: could not open global index lock file: %v\n", err)
		return
	}
	defer lockFile.Close()

	if err := syscall.Flock(int(lockFile.Fd()), syscall.LOCK_EX); err != nil {
		fmt.Printf("WARNING: could not acquire global index lock: %v\n", err)
		return
	}
	defer syscall.Flock(int(lockFile.Fd()), syscall.LOCK_UN)

	var index []IndexEntry
	if data, err := os.ReadFile(indexPath); err == nil {
		_ = json.Unmarshal(data, &index)
	}

	found := false
	for i, entry := range index {
		if entry.ID == s.ID {
			index[i] = IndexEntry{s.ID, s.CWD, s.Title, s.LastUpdated}
			found = true
			break
		}
	}
	if !found {
		index = append(index, IndexEntry{s.ID, s.CWD, s.Title, s.LastUpdated})
	}

	sort.Slice(index, func(i, j int) bool {
		return index[i].LastUpdated.After(index[j].LastUpdated)
	})

	newData, _ := json.MarshalIndent(index, "", "  ")
	if err := os.WriteFile(indexPath, newData, 0644); err != nil {
		fmt.Printf("WARNING: could not write global index: %v\n", err)
	}
}

func (sm *Manager) Save(s *Session) error {
	s.LastUpdated = time.Now()
	if err := sm.Storage.WriteJSON(sm.metaPath(s.CWD, s.ID), s); err != nil {
		return err
	}
	sm.updateGlobalIndex(s)
	return nil
}

func (sm *Manager) Load(id string) (*Session, error) {
	var index []IndexEntry
	if data, err := os.ReadFile(sm.indexPath()); err == nil {
		_ = json.Unmarshal(data, &index)
	}
	for _, entry := range index {
		if entry.ID != id {
			continue
		}
		var s Session
		if err := sm.Storage.ReadJSON(sm.metaPath(entry.CWD, id), &s); err == nil {
			return &s, nil
		}
	}
	return nil, fmt.Errorf("session %s not found", id)
}

func (sm *Manager) GetLatest() (*Session, error) {
	sessions, _, err := sm.List(0, 1)
	if err != nil || len(sessions) == 0 {
		return nil, fmt.Errorf("no sessions found")
	}
	return &sessions[0], nil
}

func (sm *Manager) List(page, pageSize int) ([]Session, int, error) {
	var index []IndexEntry
	data, err := os.ReadFile(sm.indexPath())
	if err != nil {
		return nil, 0, nil
	}
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, 0, err
	}

	total := len(index)
	start := page * pageSize
	if start >= total {
		return nil, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	sessions := make([]Session, 0, end-start)
	for _, entry := range index[start:end] {
		if sess, err := sm.Load(entry.ID); err == nil {
			sessions = append(sessions, *sess)
		}
	}
	return sessions, total, nil
}

// AppendAudit appends one entry to the session transcript and publishes it
// on the global bus.
func (sm *Manager) AppendAudit(s *Session, entry events.AuditEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	fPath := sm.AuditPath(s)
	if err := os.MkdirAll(filepath.Dir(fPath), 0755); err != nil {
		return err
	}

	lockPath := fPath + ".lock"
	lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	defer lockFile.Close()

	if err := syscall.Flock(int(lockFile.Fd()), syscall.LOCK_EX); err != nil {
		return err
	}
	defer syscall.Flock(int(lockFile.Fd()), syscall.LOCK_UN)

	f, err := os.OpenFile(fPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	data, _ := json.Marshal(entry)
	data = append(data, '\n')
	_, err = f.Write(data)

	events.GlobalBus.Publish(events.Event{Type: events.EventAudit, SessionID: s.ID, Payload: entry})
	return err
}

// AuditPath returns the filesystem path to the session's audit JSONL file.
func (sm *Manager) AuditPath(s *Session) string {
	return filepath.Join(sm.StoragePath, sm.Storage.WorkspaceDir(s.CWD), s.ID+".audit.jsonl")
}

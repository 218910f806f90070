package session

import (
	"os"
	"testing"

	"tamiz/internal/events"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	dir, err := os.MkdirTemp("", "tamiz-session-test-*")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return NewManager(dir)
}

func TestCreateLoadRoundtrip(t *testing.T) {
	sm := newTestManager(t)

	sess, err := sm.Create("/tmp/project", "first run")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sess.ID == "" {
		t.Fatal("Create returned a session without an ID")
	}
	if sess.Status != StatusIdle {
		t.Errorf("new session status: got %q, want %q", sess.Status, StatusIdle)
	}

	sess.Tags = []string{"think", "plan"}
	sess.Status = StatusCompleted
	if err := sm.Save(sess); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := sm.Load(sess.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Title != "first run" || loaded.Status != StatusCompleted {
		t.Errorf("loaded session mismatch: %+v", loaded)
	}
	if len(loaded.Tags) != 2 {
		t.Errorf("loaded tags: got %v, want [think plan]", loaded.Tags)
	}
}

func TestLoadUnknownSession(t *testing.T) {
	sm := newTestManager(t)
	if _, err := sm.Load("nope"); err == nil {
		t.Error("Load of unknown ID succeeded, want error")
	}
}

func TestListOrdersByRecency(t *testing.T) {
	sm := newTestManager(t)

	older, _ := sm.Create("/tmp/a", "older")
	newer, _ := sm.Create("/tmp/b", "newer")
	// Saving again bumps LastUpdated.
	if err := sm.Save(newer); err != nil {
		t.Fatalf("Save: %v", err)
	}

	sessions, total, err := sm.List(0, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(sessions) != 2 {
		t.Fatalf("List: got %d/%d sessions, want 2/2", len(sessions), total)
	}
	if sessions[0].ID != newer.ID || sessions[1].ID != older.ID {
		t.Errorf("List order: got [%s %s], want newest first", sessions[0].Title, sessions[1].Title)
	}

	latest, err := sm.GetLatest()
	if err != nil {
		t.Fatalf("GetLatest: %v", err)
	}
	if latest.ID != newer.ID {
		t.Errorf("GetLatest: got %q, want %q", latest.Title, "newer")
	}
}

func TestAppendAuditWritesAndPublishes(t *testing.T) {
	sm := newTestManager(t)
	sess, _ := sm.Create("/tmp/p", "audited")

	ch := events.GlobalBus.Subscribe()
	defer events.GlobalBus.Unsubscribe(ch)

	err := sm.AppendAudit(sess, events.AuditEntry{
		Type:    events.AuditTagBlock,
		Source:  "plan",
		Role:    events.RoleAssistant,
		Content: "step one",
	})
	if err != nil {
		t.Fatalf("AppendAudit: %v", err)
	}

	if _, err := os.Stat(sm.AuditPath(sess)); err != nil {
		t.Errorf("audit file missing: %v", err)
	}

	for e := range ch {
		if e.SessionID != sess.ID || e.Type != events.EventAudit {
			continue
		}
		entry := e.Payload.(events.AuditEntry)
		if entry.Source != "plan" || entry.Content != "step one" {
			t.Errorf("published entry mismatch: %+v", entry)
		}
		return
	}
}

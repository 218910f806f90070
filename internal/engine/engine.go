// Package engine coordinates a prompt run: it drives the configured client,
// routes the streamed response through the tag-extraction adapter, and
// records everything in the session's audit transcript.
package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/tliron/commonlog"

	"tamiz/internal/client"
	"tamiz/internal/events"
	"tamiz/internal/session"
	"tamiz/internal/stream"
)

var log = commonlog.GetLogger("tamiz.engine")

type Engine struct {
	Sm            *session.Manager
	Clients       map[string]client.Client
	DefaultClient string
	running       sync.Map
	cancelFns     sync.Map // sessionID -> context.CancelFunc
}

func NewEngine(sm *session.Manager, clients map[string]client.Client, defaultClient string) *Engine {
	return &Engine{
		Sm:            sm,
		Clients:       clients,
		DefaultClient: defaultClient,
	}
}

// resolveClient picks the right Client for a session.
func (e *Engine) resolveClient(sess *session.Session) client.Client {
	name := sess.Client
	if name == "" {
		name = e.DefaultClient
	}
	if c, ok := e.Clients[name]; ok {
		return c
	}
	if c, ok := e.Clients[e.DefaultClient]; ok {
		return c
	}
	for _, c := range e.Clients {
		return c
	}
	return nil
}

func (e *Engine) IsRunning(sessionID string) bool {
	_, ok := e.running.Load(sessionID)
	return ok
}

func (e *Engine) CancelSession(sessionID string) {
	if fn, ok := e.cancelFns.Load(sessionID); ok {
		fn.(context.CancelFunc)()
	}
}

// newAdapter wires one tag plugin per session vocabulary. Extracted block
// content is published as a tag_block audit entry when the block closes (or
// when the stream ends inside an unterminated block); the filtered residue
// is published as llm_chunk entries.
func (e *Engine) newAdapter(sess *session.Session) (*stream.Adapter, error) {
	tags := sess.Tags
	if len(tags) == 0 {
		tags = stream.DefaultVocabularies
	}

	plugins := make([]*stream.Plugin, 0, len(tags))
	for _, name := range tags {
		p, err := stream.NewTagPlugin(name, sess.IncludeTags)
		if err != nil {
			return nil, err
		}
		var block strings.Builder
		p.OnContent = func(r rune) { block.WriteRune(r) }
		flush := func(name string) func() {
			return func() {
				e.Sm.AppendAudit(sess, events.AuditEntry{
					Type:    events.AuditTagBlock,
					Source:  name,
					Role:    events.RoleAssistant,
					Content: block.String(),
				})
				block.Reset()
			}
		}(name)
		p.OnBlockEnd = flush
		p.OnUnterminated = flush
		plugins = append(plugins, p)
	}

	out := func(kept string) {
		e.Sm.AppendAudit(sess, events.AuditEntry{
			Type:    events.AuditLLMChunk,
			Source:  sess.Client,
			Role:    events.RoleAssistant,
			Content: kept,
		})
	}
	return stream.NewAdapter(out, plugins...), nil
}

// ExecutePrompt runs one prompt to completion, cancelling any in-flight
// prompt for the same session first.
func (e *Engine) ExecutePrompt(sess *session.Session, prompt string) {
	if e.IsRunning(sess.ID) {
		e.CancelSession(sess.ID)
		// Wait briefly for the previous run to release the running slot.
		for i := 0; i < 50; i++ {
			if !e.IsRunning(sess.ID) {
				break
			}
			time.Sleep(100 * time.Millisecond)
		}
	}
	e.running.Store(sess.ID, true)
	defer e.running.Delete(sess.ID)

	// Auto-set title from first user prompt.
	if sess.Title == "" && prompt != "" {
		title := prompt
		if len(title) > 80 {
			title = title[:77] + "..."
		}
		sess.Title = title
	}

	c := e.resolveClient(sess)
	if c == nil {
		e.fail(sess, "no client configured")
		return
	}

	adapter, err := e.newAdapter(sess)
	if err != nil {
		e.fail(sess, "invalid tag vocabulary: "+err.Error())
		return
	}

	if sess.NativeSIDs == nil {
		sess.NativeSIDs = make(map[string]string)
	}
	sess.Status = session.StatusStreaming
	e.Sm.Save(sess)
	e.Sm.AppendAudit(sess, events.AuditEntry{
		Type:    events.AuditLLMPrompt,
		Source:  c.Name(),
		Role:    events.RoleUser,
		Content: prompt,
	})

	ctx, cancel := context.WithCancel(context.Background())
	e.cancelFns.Store(sess.ID, cancel)
	defer func() {
		cancel()
		e.cancelFns.Delete(sess.ID)
	}()

	opts := client.RunOptions{
		Ctx:       ctx,
		NativeSID: sess.NativeSIDs[c.Name()],
		Prompt:    prompt,
		CWD:       sess.CWD,
		ModelTier: sess.ModelTier,
	}

	resp, err := c.Run(opts, adapter.Feed, func(sid string) {
		sess.NativeSIDs[c.Name()] = sid
		e.Sm.Save(sess)
	})
	adapter.Finish()

	if err != nil {
		if ctx.Err() == context.Canceled {
			e.Sm.Log(sess, events.AuditInfo, "operation cancelled by user")
			sess.Status = session.StatusIdle
			e.Sm.Save(sess)
			return
		}
		log.Errorf("client run failed for session %s: %s", sess.ID, err.Error())
		e.fail(sess, "client error: "+err.Error())
		return
	}

	e.Sm.AppendAudit(sess, events.AuditEntry{
		Type:    events.AuditLLMResponse,
		Source:  c.Name(),
		Role:    events.RoleAssistant,
		Content: resp,
	})
	sess.Status = session.StatusCompleted
	e.Sm.Save(sess)
}

func (e *Engine) fail(sess *session.Session, reason string) {
	e.Sm.Log(sess, events.AuditStatus, reason)
	sess.Status = session.StatusFailed
	e.Sm.Save(sess)
}

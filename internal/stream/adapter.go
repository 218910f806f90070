package stream

import (
	"context"
	"io"
	"strings"
)

// Source yields chunks of text from an upstream producer. Next returns
// io.EOF when the stream ends, possibly alongside a final chunk. Chunk
// boundaries carry no semantic meaning. Implementations must honor ctx.
type Source interface {
	Next(ctx context.Context) (string, error)
}

// Adapter pulls characters one at a time out of incoming chunks, feeds
// each character plus line-position context to its plugins, and forwards
// only the kept characters downstream, preserving arrival order.
//
// A character is forwarded iff every plugin keeps it; every plugin sees
// every character regardless, so each vocabulary tracks the stream
// independently. Plugins must be exclusive to one adapter.
type Adapter struct {
	plugins     []*Plugin
	out         func(string)
	atLineStart bool
}

// NewAdapter wires plugins to the downstream consumer out. out may be nil
// when only the plugins' hooks matter.
func NewAdapter(out func(string), plugins ...*Plugin) *Adapter {
	return &Adapter{plugins: plugins, out: out, atLineStart: true}
}

// Feed processes one chunk. Kept characters are emitted before Feed
// returns; nothing is buffered across chunks, so a delimiter split over
// two chunks matches exactly as if it arrived whole.
func (a *Adapter) Feed(chunk string) {
	if chunk == "" {
		return
	}
	var kept strings.Builder
	for _, r := range chunk {
		keep := true
		for _, p := range a.plugins {
			if !p.ProcessChar(r, a.atLineStart) {
				keep = false
			}
		}
		if keep {
			kept.WriteRune(r)
		}
		a.atLineStart = r == '\n'
	}
	if kept.Len() > 0 && a.out != nil {
		a.out(kept.String())
	}
}

// Finish signals end of stream to every plugin and rearms the adapter for
// a new stream.
func (a *Adapter) Finish() {
	for _, p := range a.plugins {
		p.Finish()
	}
	a.atLineStart = true
}

// Consume pulls chunks from src until end of stream or cancellation.
// Matcher state is bounded and local, so stopping mid-stream needs no
// cleanup beyond abandoning the adapter.
func (a *Adapter) Consume(ctx context.Context, src Source) error {
	for {
		chunk, err := src.Next(ctx)
		if chunk != "" {
			a.Feed(chunk)
		}
		if err == io.EOF {
			a.Finish()
			return nil
		}
		if err != nil {
			return err
		}
	}
}

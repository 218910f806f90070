package client

import (
	"strings"
	"testing"
)

func TestRegistryKnowsBuiltins(t *testing.T) {
	names := RegisteredClients()
	want := map[string]bool{"gemini": false, "claude-code": false}
	for _, n := range names {
		if _, ok := want[n]; ok {
			want[n] = true
		}
	}
	for n, seen := range want {
		if !seen {
			t.Errorf("client %q not registered", n)
		}
	}

	if _, err := NewClient("nope", "/bin/false"); err == nil {
		t.Error("NewClient with unknown name succeeded, want error")
	}
}

func TestGeminiBuildArgs(t *testing.T) {
	g := &GeminiClient{binPath: "gemini", models: map[string]string{ModelTierHigh: "gemini-2.5-pro"}}

	args := g.buildArgs(RunOptions{Prompt: "hello", NativeSID: "abc", ModelTier: ModelTierHigh})
	joined := strings.Join(args, " ")
	for _, frag := range []string{"--output-format stream-json", "--prompt hello", "--resume abc", "--model gemini-2.5-pro"} {
		if !strings.Contains(joined, frag) {
			t.Errorf("args missing %q: %v", frag, args)
		}
	}

	args = g.buildArgs(RunOptions{Prompt: "hello"})
	if strings.Contains(strings.Join(args, " "), "--resume") {
		t.Errorf("fresh run should not resume: %v", args)
	}
}

func TestClaudeCodeBuildArgs(t *testing.T) {
	c := &ClaudeCodeClient{binPath: "claude"}

	args := c.buildArgs(RunOptions{Prompt: "fix it", NativeSID: "sid-1"})
	joined := strings.Join(args, " ")
	for _, frag := range []string{"-p fix it", "--resume sid-1"} {
		if !strings.Contains(joined, frag) {
			t.Errorf("args missing %q: %v", frag, args)
		}
	}
}

func TestTruncatePrompt(t *testing.T) {
	long := strings.Repeat("a", 200)
	if got := truncatePrompt(long); len(got) != 103 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncatePrompt length = %d", len(got))
	}
	if got := truncatePrompt("short"); got != "short" {
		t.Errorf("short prompt altered: %q", got)
	}
}

package client

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os/exec"
)

func init() { Register("claude-code", newClaudeCodeClient) }

// ClaudeCodeClient drives the claude CLI subprocess.
type ClaudeCodeClient struct {
	binPath string
	models  map[string]string
}

func newClaudeCodeClient(binPath string) Client {
	return &ClaudeCodeClient{binPath: binPath}
}

func (c *ClaudeCodeClient) Name() string { return "claude-code" }

func (c *ClaudeCodeClient) SetModels(m map[string]string) { c.models = m }

func (c *ClaudeCodeClient) Run(opts RunOptions, onChunk func(string), onSessionID func(string)) (string, error) {
	args := c.buildArgs(opts)
	log.Debugf("executing: %s (prompt: %s)", c.binPath, truncatePrompt(opts.Prompt))

	cmd := exec.CommandContext(opts.context(), c.binPath, args...)
	cmd.Dir = opts.CWD

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", err
	}
	go logStderr(stderr)

	if err := cmd.Start(); err != nil {
		return "", err
	}

	var fullResponse bytes.Buffer
	scanner := bufio.NewScanner(stdout)
	const maxCapacity = 10 * 1024 * 1024
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, maxCapacity)

	for scanner.Scan() {
		line := scanner.Bytes()

		var resp struct {
			Type      string `json:"type"`
			SessionID string `json:"session_id"`
			Content   string `json:"content"`
		}
		if err := json.Unmarshal(line, &resp); err != nil {
			continue
		}

		switch resp.Type {
		case "init":
			if resp.SessionID != "" {
				onSessionID(resp.SessionID)
			}
		case "assistant":
			if resp.Content != "" {
				fullResponse.WriteString(resp.Content)
				onChunk(resp.Content)
			}
		}
	}

	return fullResponse.String(), cmd.Wait()
}

func (c *ClaudeCodeClient) buildArgs(opts RunOptions) []string {
	args := []string{"--output-format", "stream-json", "-p", opts.Prompt}
	if opts.NativeSID != "" {
		args = append(args, "--resume", opts.NativeSID)
	}
	if model := resolveModel(c.models, opts.ModelTier); model != "" {
		args = append(args, "--model", model)
	}
	return args
}

package client

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os/exec"
)

func init() { Register("gemini", newGeminiClient) }

// GeminiClient drives the gemini CLI subprocess.
type GeminiClient struct {
	binPath string
	models  map[string]string // tier → model name
}

func newGeminiClient(binPath string) Client {
	return &GeminiClient{binPath: binPath}
}

func (g *GeminiClient) Name() string { return "gemini" }

func (g *GeminiClient) SetModels(m map[string]string) { g.models = m }

func (g *GeminiClient) Run(opts RunOptions, onChunk func(string), onSessionID func(string)) (string, error) {
	args := g.buildArgs(opts)
	log.Debugf("executing: %s (prompt: %s)", g.binPath, truncatePrompt(opts.Prompt))

	cmd := exec.CommandContext(opts.context(), g.binPath, args...)
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
		case "message":
			if resp.Content != "" {
				fullResponse.WriteString(resp.Content)
				onChunk(resp.Content)
			}
		}
	}

	return fullResponse.String(), cmd.Wait()
}

func (g *GeminiClient) buildArgs(opts RunOptions) []string {
	args := []string{"-s", "--output-format", "stream-json", "--prompt", opts.Prompt}
	if opts.NativeSID != "" {
		args = append(args, "--resume", opts.NativeSID)
	}
	if model := resolveModel(g.models, opts.ModelTier); model != "" {
		args = append(args, "--model", model)
	}
	return args
}

func resolveModel(models map[string]string, tier string) string {
	if tier == "" || len(models) == 0 {
		return ""
	}
	return models[tier]
}

func logStderr(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		log.Debugf("stderr: %s", scanner.Text())
	}
}

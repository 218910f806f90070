// Package storage provides basic file operations for JSON models under the
// tamiz storage directory.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

type Storage struct {
	BaseDir string
}

func NewStorage(baseDir string) *Storage {
	return &Storage{BaseDir: baseDir}
}

// WriteJSON saves any struct to a JSON file atomically (via temp file).
func (s *Storage) WriteJSON(relPath string, data interface{}) error {
	fullPath := filepath.Join(s.BaseDir, relPath)
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tempFile := fullPath + ".tmp"
	f, err := os.OpenFile(tempFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		os.Remove(tempFile)
		return err
	}
	f.Close()

	return os.Rename(tempFile, fullPath)
}

// ReadJSON loads a struct from a JSON file.
func (s *Storage) ReadJSON(relPath string, out interface{}) error {
	fullPath := filepath.Join(s.BaseDir, relPath)
	f, err := os.Open(fullPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(out)
}

// Slugify maps a directory path to a safe filename slug.
func Slugify(path string) string {
	slug := strings.ReplaceAll(path, string(filepath.Separator), "-")
	if strings.HasPrefix(slug, "-") {
		slug = slug[1:]
	}
	return slug
}

// WorkspaceDir returns the relative path for a specific project/CWD.
func (s *Storage) WorkspaceDir(cwd string) string {
	return filepath.Join("sessions", Slugify(cwd))
}

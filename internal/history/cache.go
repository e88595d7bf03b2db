package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Entry is the persisted snapshot for one issue. UpdatedAt is the issue's
// last-known update time at the moment History was computed; the entry may be
// reused verbatim only while the issue has not changed since.
type Entry struct {
	UpdatedAt time.Time `json:"updated_at"`
	History   []Event   `json:"history"`
}

// Store persists one Entry per issue at
// {root}/{repoPath}/issues/{number}/history.json.
type Store struct {
	dir  string
	file string
}

// NewStore derives the cache path for a single issue. A root that already
// contains the repo path or an "issues" segment would double-nest or collide
// with the key derivation, so construction fails instead of guessing.
func NewStore(root, repoPath string, number int) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("cache root must not be empty")
	}
	if repoPath == "" {
		return nil, fmt.Errorf("repo path must not be empty")
	}
	if strings.Contains(root, repoPath) {
		return nil, fmt.Errorf("ambiguous cache root %q: already contains repo path %q", root, repoPath)
	}
	for _, seg := range strings.Split(filepath.ToSlash(root), "/") {
		if seg == "issues" {
			return nil, fmt.Errorf("ambiguous cache root %q: already contains an issues segment", root)
		}
	}

	dir := filepath.Join(root, filepath.FromSlash(repoPath), "issues", strconv.Itoa(number))
	return &Store{
		dir:  dir,
		file: filepath.Join(dir, "history.json"),
	}, nil
}

// Path returns the file the entry is persisted to.
func (s *Store) Path() string {
	return s.file
}

// Load reads the cached entry. Any failure (missing file, unreadable file,
// bad JSON) is treated as a cache miss and returns nil.
func (s *Store) Load() *Entry {
	data, err := os.ReadFile(s.file)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Info().Err(err).Str("path", s.file).Msg("History cache unreadable, treating as miss")
		}
		return nil
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		log.Info().Err(err).Str("path", s.file).Msg("History cache corrupt, treating as miss")
		return nil
	}
	return &entry
}

// Save persists the entry, replacing any previous one wholesale. The write
// goes to a temp file first and is renamed into place so a concurrent reader
// never observes a partial entry. Write failure is a hard error.
func (s *Store) Save(entry *Entry) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory %s: %w", s.dir, err)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode history cache: %w", err)
	}

	tmpPath := s.file + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp cache file: %w", err)
	}
	if err := os.Rename(tmpPath, s.file); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename cache file: %w", err)
	}

	log.Debug().Str("path", s.file).Int("count", len(entry.History)).Msg("History cache saved")
	return nil
}

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrNotFound is returned when no stored transcript matches an ID
var ErrNotFound = errors.New("transcript not found")

// AmbiguousIDError is returned when multiple transcripts match a prefix
type AmbiguousIDError struct {
	Prefix  string
	Matches []Session
}

func (e *AmbiguousIDError) Error() string {
	var lines []string
	lines = append(lines, fmt.Sprintf("Ambiguous transcript ID %q. Multiple matches found:", e.Prefix))
	for _, match := range e.Matches {
		lines = append(lines, fmt.Sprintf("- %s (%s, %s, %d messages)",
			match.GetShortID(),
			match.Model,
			match.CreatedAt.Format("2006-01-02"),
			match.MessageCount()))
	}
	lines = append(lines, "")
	lines = append(lines, "Please use a longer prefix or run 'weatherbot transcripts list'.")
	return strings.Join(lines, "\n")
}

// DefaultDir returns the directory where transcripts are stored
// If a config file is used, transcripts are stored next to it.
// Otherwise, defaults to $HOME/.config/weatherbot/transcripts
func DefaultDir() (string, error) {
	configFile := viper.ConfigFileUsed()

	if configFile != "" {
		configDir := filepath.Dir(configFile)

		if !filepath.IsAbs(configDir) {
			cwd, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("failed to get current working directory: %w", err)
			}
			configDir = filepath.Join(cwd, configDir)
		}

		return filepath.Join(configDir, "transcripts"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".config", "weatherbot", "transcripts"), nil
}

// Store keeps transcripts as one JSON file per session
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory the store writes to
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file path for the session with the given full ID
func (s *Store) Path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Save writes a session to disk
func (s *Store) Save(sess *Session) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create transcript directory: %w", err)
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize transcript: %w", err)
	}

	// Write through a temp file so an interrupted save never leaves half a transcript
	tmp := s.Path(sess.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write transcript file: %w", err)
	}
	if err := os.Rename(tmp, s.Path(sess.ID)); err != nil {
		return fmt.Errorf("failed to write transcript file: %w", err)
	}

	return nil
}

// Load reads a session from disk by full ID
func (s *Store) Load(id string) (*Session, error) {
	data, err := os.ReadFile(s.Path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to read transcript file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to parse transcript file: %w", err)
	}

	return &sess, nil
}

// Delete removes a session from disk by full ID
func (s *Store) Delete(id string) error {
	if err := os.Remove(s.Path(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("failed to delete transcript file: %w", err)
	}
	return nil
}

// List returns all sessions sorted by UpdatedAt (newest first)
func (s *Store) List() ([]Session, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read transcript directory: %w", err)
	}

	var sessions []Session
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")
		sess, err := s.Load(id)
		if err != nil {
			// Skip corrupted transcript files
			continue
		}
		sessions = append(sessions, *sess)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})

	return sessions, nil
}

// FindByPrefix finds a session by short ID prefix (minimum 4 characters)
// Returns *AmbiguousIDError if multiple sessions match.
// Special case: "latest" returns the most recently updated session
func (s *Store) FindByPrefix(prefix string) (*Session, error) {
	if prefix == "latest" {
		return s.Latest()
	}

	if len(prefix) < 4 {
		return nil, fmt.Errorf("transcript ID prefix must be at least 4 characters (got %d)", len(prefix))
	}

	// Full UUID: 36 characters with 4 dashes
	if len(prefix) == 36 && strings.Count(prefix, "-") == 4 {
		return s.Load(prefix)
	}

	sessions, err := s.List()
	if err != nil {
		return nil, err
	}

	var matches []Session
	for _, sess := range sessions {
		if strings.HasPrefix(sess.ID, prefix) {
			matches = append(matches, sess)
		}
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, prefix)
	}
	if len(matches) > 1 {
		return nil, &AmbiguousIDError{
			Prefix:  prefix,
			Matches: matches,
		}
	}

	return &matches[0], nil
}

// Latest returns the most recently updated session
func (s *Store) Latest() (*Session, error) {
	sessions, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, fmt.Errorf("%w: no transcripts saved yet", ErrNotFound)
	}
	return &sessions[0], nil
}

// ClearBefore deletes every session created before t and reports how many were removed
func (s *Store) ClearBefore(t time.Time) (int, error) {
	sessions, err := s.List()
	if err != nil {
		return 0, err
	}

	deleted := 0
	var errs []error
	for _, sess := range sessions {
		if !sess.CreatedAt.Before(t) {
			continue
		}
		if err := s.Delete(sess.ID); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sess.GetShortID(), err))
			continue
		}
		deleted++
	}

	return deleted, errors.Join(errs...)
}

package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/longkey1/weatherbot/internal/weatherbot"
)

// Entry is a prompt template found on disk
type Entry struct {
	Name string // Relative path without the .toml extension, e.g. "foo/bar"
	Dir  string // Prompt directory the template was found in
}

// Load resolves a prompt by name from the given directories.
// An empty name returns the built-in prompt. When the same name exists in
// several directories, later directories take precedence.
func Load(name string, promptDirs []string) (*Prompt, error) {
	if name == "" {
		return Default(), nil
	}

	promptFile := name
	if !strings.HasSuffix(promptFile, ".toml") {
		promptFile = promptFile + ".toml"
	}

	var promptPath string
	for _, promptDir := range promptDirs {
		candidatePath := filepath.Join(promptDir, promptFile)
		if _, err := os.Stat(candidatePath); err == nil {
			promptPath = candidatePath
		}
	}

	if promptPath == "" {
		return nil, fmt.Errorf("prompt file '%s' not found in any of the prompt directories: %v", promptFile, promptDirs)
	}

	p, err := LoadPrompt(promptPath)
	if err != nil {
		return nil, fmt.Errorf("error loading prompt file: %w", err)
	}

	if p.Model != nil {
		if _, _, err := weatherbot.ParseModelString(*p.Model); err != nil {
			return nil, fmt.Errorf("invalid model format in prompt template: %w", err)
		}
	}

	return p, nil
}

// List walks the prompt directories and returns every template, sorted by name.
// Missing directories are skipped. A name found in several directories is
// reported once, from the directory that Load would pick.
func List(promptDirs []string) ([]Entry, error) {
	found := make(map[string]string) // prompt name -> directory path

	for _, promptDir := range promptDirs {
		if _, err := os.Stat(promptDir); os.IsNotExist(err) {
			continue
		}

		err := filepath.Walk(promptDir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() || !strings.HasSuffix(info.Name(), ".toml") {
				return nil
			}

			relPath, err := filepath.Rel(promptDir, path)
			if err != nil {
				return nil
			}

			name := filepath.ToSlash(strings.TrimSuffix(relPath, ".toml"))
			found[name] = promptDir
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking prompt directory %s: %w", promptDir, err)
		}
	}

	entries := make([]Entry, 0, len(found))
	for name, dir := range found {
		entries = append(entries, Entry{Name: name, Dir: dir})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})

	return entries, nil
}

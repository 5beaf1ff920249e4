// Package history records repository sizes over time so growth can be
// reviewed later. Each repository identity gets its own YAML file
// mapping a timestamp to the size in bytes at that moment.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/borgspace/internal/errors"
)

// Entry is one recorded observation.
type Entry struct {
	Time time.Time
	Size uint64
}

// Store reads and appends per-repository history files under a single
// directory. Files are named <config@host~user>.yaml.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultDir is where history lives unless overridden:
// ~/.local/share/borgspace.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Can't locate your home directory",
			"Set HOME so the history directory can be found")
	}
	return filepath.Join(home, ".local", "share", "borgspace"), nil
}

// Dir returns the store's directory.
func (s *Store) Dir() string {
	return s.dir
}

// Append records size for the named repository at the given time. The
// file is read, the new entry merged in, and the whole document written
// back; re-recording the same timestamp overwrites that entry.
func (s *Store) Append(name string, at time.Time, size uint64) error {
	doc, err := s.readDoc(name)
	if err != nil {
		return err
	}
	doc[at.Format(time.RFC3339)] = strconv.FormatUint(size, 10)

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Can't create the history directory",
			"Check permissions on "+s.dir)
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	path := s.pathFor(name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Can't write history for %s", name),
			"Check permissions on "+path)
	}
	return nil
}

// Load returns the recorded history for the named repository, oldest
// first. A repository with no history yields an empty slice, not an
// error.
func (s *Store) Load(name string) ([]Entry, error) {
	doc, err := s.readDoc(name)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(doc))
	for stamp, sizeText := range doc {
		at, err := time.Parse(time.RFC3339, stamp)
		if err != nil {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("History for %s has a bad timestamp '%s'", name, stamp),
				"Fix or remove the entry in "+s.pathFor(name))
		}
		size, err := strconv.ParseUint(sizeText, 10, 64)
		if err != nil {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("History for %s has a bad size '%s'", name, sizeText),
				"Fix or remove the entry in "+s.pathFor(name))
		}
		entries = append(entries, Entry{Time: at, Size: size})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Time.Before(entries[j].Time)
	})
	return entries, nil
}

// Names lists the repositories that have recorded history, sorted.
func (s *Store) Names() ([]string, error) {
	items, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, item := range items {
		if item.IsDir() {
			continue
		}
		if name, ok := strings.CutSuffix(item.Name(), ".yaml"); ok && name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) pathFor(name string) string {
	return filepath.Join(s.dir, name+".yaml")
}

func (s *Store) readDoc(name string) (map[string]string, error) {
	data, err := os.ReadFile(s.pathFor(name))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Can't read history for %s", name),
			"Check permissions on "+s.pathFor(name))
	}

	var doc map[string]string
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("History for %s isn't valid YAML", name),
			"Fix or remove "+s.pathFor(name))
	}
	if doc == nil {
		doc = map[string]string{}
	}
	return doc, nil
}

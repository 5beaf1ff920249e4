// Package catalog holds the named repository groups declared in the
// settings file and expands user requests into concrete repository
// identities.
//
// A group maps a name to an ordered list of entries; each entry is
// either a repository spec or the name of another group, so expansion is
// a walk over a directed graph of names. The walk keeps an explicit
// chain of in-progress group names, which both bounds the traversal and
// lets cycle errors report the exact loop.
package catalog

import (
	"sort"

	"github.com/rileyhilliard/borgspace/internal/config"
	"github.com/rileyhilliard/borgspace/internal/spec"
)

// Catalog is the immutable set of named repository groups.
// Loaded once at startup; read-only thereafter.
type Catalog struct {
	groups         map[string][]string
	defaultRequest string
}

// FromSettings builds a catalog from validated settings.
func FromSettings(cfg *config.Settings) *Catalog {
	return &Catalog{
		groups:         cfg.Repositories,
		defaultRequest: cfg.DefaultRepository,
	}
}

// New builds a catalog directly from group entries, for tests and callers
// that don't go through the settings file.
func New(groups map[string][]string, defaultRequest string) *Catalog {
	if groups == nil {
		groups = make(map[string][]string)
	}
	return &Catalog{groups: groups, defaultRequest: defaultRequest}
}

// Lookup returns the ordered entries of a named group.
func (c *Catalog) Lookup(name string) ([]string, bool) {
	entries, ok := c.groups[name]
	return entries, ok
}

// Names returns all group names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.groups))
	for name := range c.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRequest returns the configured default request, if any.
func (c *Catalog) DefaultRequest() string {
	return c.defaultRequest
}

// Resolution pairs a concrete repository identity with the spec it came
// from. Name is the full identity string (config@host~user) and is the
// deduplication key across requests.
type Resolution struct {
	Name     string
	Spec     spec.Spec
	Resolved spec.Resolved
}

// Package metrics fetches the latest recorded size and maintenance
// timestamps for resolved repositories. The source is the per-config
// cache file Emborg writes (~user/.local/share/emborg/<config>.latest.nt),
// read directly on the local host or with cat over SSH elsewhere.
package metrics

import (
	"time"

	"github.com/rileyhilliard/borgspace/internal/catalog"
	"github.com/rileyhilliard/borgspace/internal/spec"
)

// Latest holds the metrics recorded for one repository. Size is always
// present after a successful fetch; the timestamps are zero when the
// cache file omits them. LastSqueeze is derived, never read: the later
// of LastPrune and LastCompact, set only when both are known.
type Latest struct {
	Size        uint64
	LastCreate  time.Time
	LastPrune   time.Time
	LastCompact time.Time
	LastSqueeze time.Time
}

// Repo is a fully resolved repository plus its lazily fetched metrics.
// Latest is populated at most once, by Fetcher.Fetch; nil means not yet
// fetched.
type Repo struct {
	Name     string
	Spec     spec.Spec
	Resolved spec.Resolved
	Latest   *Latest
}

// FromResolution builds an unfetched Repo from a catalog resolution.
func FromResolution(res catalog.Resolution) *Repo {
	return &Repo{
		Name:     res.Name,
		Spec:     res.Spec,
		Resolved: res.Resolved,
	}
}

// Date returns the named timestamp field and whether it is set.
// Recognized names are last_create, last_prune, last_compact, and
// last_squeeze.
func (l *Latest) Date(field string) (time.Time, bool) {
	var t time.Time
	switch field {
	case "last_create":
		t = l.LastCreate
	case "last_prune":
		t = l.LastPrune
	case "last_compact":
		t = l.LastCompact
	case "last_squeeze":
		t = l.LastSqueeze
	default:
		return time.Time{}, false
	}
	return t, !t.IsZero()
}

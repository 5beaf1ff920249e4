// Package spec parses and resolves Borg repository specifications.
//
// A specification names a repository as config[@host][~user]. Omitted
// segments mean "use the default": the short hostname of the machine
// running the report and the invoking user. Defaults are filled lazily
// via Resolve, never stored back into the Spec, so the same Spec value
// resolves correctly on whichever machine runs the report.
package spec

import (
	"fmt"
	"os"
	"os/user"
	"strings"
	"unicode"

	"github.com/rileyhilliard/borgspace/internal/errors"
)

// Spec is a parsed repository specification. Empty fields are absent,
// not invalid; Config must be present before the spec can be resolved.
type Spec struct {
	Config string
	Host   string
	User   string
}

// Parse splits text into its config, host, and user segments.
//
// The text is split on the first '~' (right side is the user), then the
// remainder on the first '@' (right side is the host). A second '~' or
// '@' is folded into the adjoining segment's value and rejected there by
// the name check. Empty segments are absent values, not errors.
func Parse(text string) (Spec, error) {
	prefix, userPart, _ := cut(text, '~')
	configPart, hostPart, _ := cut(prefix, '@')

	s := Spec{Config: configPart, Host: hostPart, User: userPart}
	for _, segment := range []string{s.Config, s.Host, s.User} {
		if segment != "" && !ValidName(segment) {
			return Spec{}, errors.New(errors.ErrSpec,
				fmt.Sprintf("'%s' isn't a valid repository spec", text),
				"Use config[@host][~user], where each part contains only letters, digits, '_' and '-'")
		}
	}
	return s, nil
}

// cut is strings.Cut for a single rune delimiter.
func cut(s string, delim rune) (before, after string, found bool) {
	if i := strings.IndexRune(s, delim); i >= 0 {
		return s[:i], s[i+1:], true
	}
	return s, "", false
}

// String serializes the spec, omitting absent segments.
// For any valid spec string, Parse then String round-trips.
func (s Spec) String() string {
	var b strings.Builder
	b.WriteString(s.Config)
	if s.Host != "" {
		b.WriteByte('@')
		b.WriteString(s.Host)
	}
	if s.User != "" {
		b.WriteByte('~')
		b.WriteString(s.User)
	}
	return b.String()
}

// ValidName reports whether s is an acceptable config, host, or user
// name: an identifier, except that dashes are also allowed after the
// first character.
func ValidName(s string) bool {
	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return false
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' {
			return false
		}
	}
	return s != ""
}

// Env carries the process-wide identity used to fill spec defaults.
// It is passed explicitly into resolution and rendering so the core
// stays testable without environment mocking.
type Env struct {
	Hostname string // short hostname, no domain
	Username string
}

// DetectEnv returns the Env for the local machine and invoking user.
func DetectEnv() Env {
	return Env{Hostname: shortHostname(), Username: currentUser()}
}

// shortHostname returns the hostname without any domain part.
func shortHostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "localhost"
	}
	short, _, _ := strings.Cut(name, ".")
	return short
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}

// Resolved is a spec with all three fields concrete.
// Two specs denote the same repository iff their Resolved values are equal.
type Resolved struct {
	Config string
	Host   string
	User   string
}

// Resolve fills absent host and user from env. It fails when the spec
// has no config name, since no concrete repository can be identified.
func (s Spec) Resolve(env Env) (Resolved, error) {
	if s.Config == "" {
		return Resolved{}, errors.New(errors.ErrSpec,
			fmt.Sprintf("Spec '%s' is missing the config name", s.String()),
			"Every repository spec needs an Emborg config name")
	}
	r := Resolved{Config: s.Config, Host: s.Host, User: s.User}
	if r.Host == "" {
		r.Host = env.Hostname
	}
	if r.User == "" {
		r.User = env.Username
	}
	return r, nil
}

// Name returns the full resolved identity string, config@host~user.
// This is the deduplication key and the display name for reports.
func (r Resolved) Name() string {
	return r.Config + "@" + r.Host + "~" + r.User
}

// IsLocal reports whether the repository's host is the machine in env.
func (r Resolved) IsLocal(env Env) bool {
	return r.Host == env.Hostname
}

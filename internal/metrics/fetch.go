package metrics

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/borgspace/internal/errors"
	"github.com/rileyhilliard/borgspace/internal/logger"
	"github.com/rileyhilliard/borgspace/internal/spec"
)

// emborgDataDir is where Emborg writes its latest.nt cache, relative to
// the repository user's home directory.
const emborgDataDir = ".local/share/emborg"

// Cache file keys. Timestamps are optional; size is required.
const (
	keySize        = "repository size"
	keyLastCreate  = "create last run"
	keyLastPrune   = "prune last run"
	keyLastCompact = "compact last run"
)

// Transport reads a file from a remote host. Implemented over SSH in
// this package; tests substitute their own.
type Transport interface {
	ReadFile(host, path string) ([]byte, error)
}

// Fetcher retrieves latest metrics for resolved repositories.
// Fetch is idempotent per repo: a populated Latest is returned as-is
// without touching the metrics source again.
type Fetcher struct {
	env       spec.Env
	transport Transport
	homeFor   func(username string) string
	log       logger.Logger
}

// NewFetcher creates a fetcher for the given environment and transport.
func NewFetcher(env spec.Env, transport Transport) *Fetcher {
	return &Fetcher{
		env:       env,
		transport: transport,
		homeFor:   localHome(env),
		log:       logger.NewEnvLogger("[fetch]"),
	}
}

// SetHomeLookup overrides how local home directories are found, for tests.
func (f *Fetcher) SetHomeLookup(homeFor func(username string) string) {
	f.homeFor = homeFor
}

// Fetch populates repo.Latest from the cache artifact. Errors are
// tagged with the repository name; partial batches are the caller's
// concern (see FetchAll).
func (f *Fetcher) Fetch(repo *Repo) error {
	if repo.Latest != nil {
		f.log.Debug("%s already fetched, reusing", repo.Name)
		return nil
	}

	raw, err := f.read(repo)
	if err != nil {
		return err
	}

	latest, err := ParseLatest(raw)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrFetch,
			fmt.Sprintf("Bad metrics for %s", repo.Name),
			"Run the backup once so Emborg rewrites its latest.nt file")
	}

	repo.Latest = latest
	f.log.Debug("%s: %s", repo.Name, humanize.IBytes(latest.Size))
	return nil
}

// FetchAll fetches every repo, collecting name-tagged failures instead
// of aborting: partial success is the norm.
func (f *Fetcher) FetchAll(repos []*Repo) (fetched []*Repo, failures []error) {
	for _, repo := range repos {
		if err := f.Fetch(repo); err != nil {
			failures = append(failures, err)
			continue
		}
		fetched = append(fetched, repo)
	}
	return fetched, failures
}

// read returns the raw cache document for repo, locally or remotely.
func (f *Fetcher) read(repo *Repo) ([]byte, error) {
	r := repo.Resolved

	if r.IsLocal(f.env) {
		path := filepath.Join(f.homeFor(r.User), emborgDataDir, r.Config+".latest.nt")
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.New(errors.ErrFetch,
					fmt.Sprintf("Unknown repository %s", repo.Name),
					"No Emborg cache at "+path+"; check the config name or run the backup once")
			}
			return nil, errors.WrapWithCode(err, errors.ErrFetch,
				fmt.Sprintf("Can't read metrics for %s", repo.Name),
				"Check permissions on "+path)
		}
		return data, nil
	}

	// Path contains only validated identifier characters; it stays
	// unquoted so the remote shell expands the ~user prefix.
	path := fmt.Sprintf("~%s/%s/%s.latest.nt", r.User, emborgDataDir, r.Config)
	data, err := f.transport.ReadFile(r.Host, path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrFetch,
			fmt.Sprintf("Can't read metrics for %s", repo.Name),
			"Check the host is reachable and the config name is right")
	}
	return data, nil
}

// ParseLatest decodes an Emborg latest.nt cache document.
// `repository size` is required; the run timestamps are optional and
// absent keys simply leave the corresponding field zero.
func ParseLatest(raw []byte) (*Latest, error) {
	var doc map[string]string
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unparseable cache document: %w", err)
	}

	sizeText, ok := doc[keySize]
	if !ok {
		return nil, fmt.Errorf("missing required field '%s'", keySize)
	}
	size, err := humanize.ParseBytes(sizeText)
	if err != nil {
		return nil, fmt.Errorf("bad %s '%s': %w", keySize, sizeText, err)
	}

	latest := &Latest{Size: size}
	if t, err := parseTime(doc[keyLastCreate]); err == nil {
		latest.LastCreate = t
	}
	if t, err := parseTime(doc[keyLastPrune]); err == nil {
		latest.LastPrune = t
	}
	if t, err := parseTime(doc[keyLastCompact]); err == nil {
		latest.LastCompact = t
	}
	if !latest.LastPrune.IsZero() && !latest.LastCompact.IsZero() {
		latest.LastSqueeze = latest.LastPrune
		if latest.LastCompact.After(latest.LastPrune) {
			latest.LastSqueeze = latest.LastCompact
		}
	}
	return latest, nil
}

// timeLayouts are the timestamp shapes Emborg has written over time.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(text string) (time.Time, error) {
	if text == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp '%s'", text)
}

// localHome resolves home directories on the local machine: the running
// user's via the environment, other users' via the passwd database.
func localHome(env spec.Env) func(username string) string {
	return func(username string) string {
		if username == env.Username {
			if home, err := os.UserHomeDir(); err == nil {
				return home
			}
		}
		if u, err := user.Lookup(username); err == nil && u.HomeDir != "" {
			return u.HomeDir
		}
		return "/home/" + username
	}
}

package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rileyhilliard/borgspace/internal/catalog"
	"github.com/rileyhilliard/borgspace/internal/config"
	"github.com/rileyhilliard/borgspace/internal/errors"
	"github.com/rileyhilliard/borgspace/internal/history"
	"github.com/rileyhilliard/borgspace/internal/metrics"
	"github.com/rileyhilliard/borgspace/internal/report"
	"github.com/rileyhilliard/borgspace/internal/spec"
)

// reportCommand resolves the requests, fetches metrics, optionally
// records sizes, and renders the report.
func reportCommand(requests []string, style string, record, quiet bool) error {
	cfg, err := config.LoadOrDefault(Config())
	if err != nil {
		return err
	}

	cat := catalog.FromSettings(cfg)
	env := spec.DetectEnv()

	repos, failures := resolveRequests(cat, env, requests)

	transport := metrics.NewSSHTransport()
	defer transport.Close()

	fetcher := metrics.NewFetcher(env, transport)
	fetched, fetchFailures := fetcher.FetchAll(repos)
	failures = append(failures, fetchFailures...)

	if record && len(fetched) > 0 {
		if err := recordSizes(fetched); err != nil {
			return err
		}
	}

	for _, failure := range failures {
		fmt.Fprintln(os.Stderr, failure)
	}

	if !quiet {
		if err := renderReport(os.Stdout, fetched, cfg, style); err != nil {
			return err
		}
	}

	if len(fetched) == 0 && len(failures) > 0 {
		return errors.New(errors.ErrFetch,
			"No repository could be reported",
			"Fix the failures above and try again")
	}
	return nil
}

// resolveRequests expands every request, merging the results by
// identity across requests. One bad request doesn't abort the others;
// its failure is collected alongside the successes.
func resolveRequests(cat *catalog.Catalog, env spec.Env, requests []string) ([]*metrics.Repo, []error) {
	if len(requests) == 0 {
		requests = []string{""} // resolves to the configured default
	}

	var (
		repos    []*metrics.Repo
		failures []error
		seen     = make(map[string]bool)
	)
	for _, request := range requests {
		resolutions, err := cat.Resolve(request, env)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		for _, res := range resolutions {
			if seen[res.Name] {
				continue
			}
			seen[res.Name] = true
			repos = append(repos, metrics.FromResolution(res))
		}
	}
	return repos, failures
}

// recordSizes appends the fetched sizes to the per-repository history
// files, all stamped with the same moment.
func recordSizes(repos []*metrics.Repo) error {
	dir, err := history.DefaultDir()
	if err != nil {
		return err
	}
	store := history.NewStore(dir)

	now := time.Now()
	for _, repo := range repos {
		if err := store.Append(repo.Name, now, repo.Latest.Size); err != nil {
			return err
		}
	}
	return nil
}

func renderReport(w io.Writer, repos []*metrics.Repo, cfg *config.Settings, style string) error {
	if style == "" {
		style = cfg.ReportStyle
	}

	fields := cfg.FieldsFor(normalizeStyle(style))
	return report.Render(w, repos, report.Options{
		Style:          style,
		Fields:         fields,
		DateFormat:     cfg.DateFormat,
		TableHeader:    cfg.TableHeader,
		ConnectorWidth: cfg.ConnectorWidth,
		Squeeze:        len(fields) == 1 && fields[0] == "size",
	})
}

// normalizeStyle maps the yaml aliases so field lookup works for them.
func normalizeStyle(style string) string {
	if style == "nt" || style == "nestedtext" {
		return "yaml"
	}
	return style
}

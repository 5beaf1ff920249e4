package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/rileyhilliard/borgspace/internal/catalog"
	"github.com/rileyhilliard/borgspace/internal/config"
	"github.com/rileyhilliard/borgspace/internal/history"
	"github.com/rileyhilliard/borgspace/internal/spec"
	"github.com/rileyhilliard/borgspace/internal/ui"
)

// sparklineWidth caps how many history points the sparkline shows.
const sparklineWidth = 60

// historyCommand shows the recorded sizes of the requested
// repositories over time: a table of observations and a sparkline of
// the trend. Sizes get into the log via 'borgspace --record'.
func historyCommand(requests []string) error {
	cfg, err := config.LoadOrDefault(Config())
	if err != nil {
		return err
	}

	dir, err := history.DefaultDir()
	if err != nil {
		return err
	}

	cat := catalog.FromSettings(cfg)
	env := spec.DetectEnv()
	store := history.NewStore(dir)

	repos, failures := resolveRequests(cat, env, requests)
	for _, failure := range failures {
		fmt.Fprintln(os.Stderr, failure)
	}

	for i, repo := range repos {
		if i > 0 {
			fmt.Println()
		}
		if err := printHistory(os.Stdout, store, repo.Name); err != nil {
			return err
		}
	}

	if len(repos) == 0 && len(failures) > 0 {
		return failures[0]
	}
	return nil
}

func printHistory(w io.Writer, store *history.Store, name string) error {
	entries, err := store.Load(name)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		_, err := fmt.Fprintf(w, "%s: no recorded history (run 'borgspace --record %s')\n", name, name)
		return err
	}

	if _, err := fmt.Fprintf(w, "%s\n", name); err != nil {
		return err
	}

	rows := make([][]string, len(entries))
	sizes := make([]float64, len(entries))
	for i, entry := range entries {
		rows[i] = []string{
			entry.Time.Format(time.RFC3339),
			humanize.IBytes(entry.Size),
		}
		sizes[i] = float64(entry.Size)
	}

	table := ui.RenderSimpleTable([]ui.TableColumn{
		{Title: "WHEN", Width: 20},
		{Title: "SIZE", Width: 10},
	}, rows)
	if _, err := fmt.Fprintln(w, table); err != nil {
		return err
	}

	if len(entries) > 1 {
		if _, err := fmt.Fprintln(w, ui.RenderSparkline(sizes, sparklineWidth)); err != nil {
			return err
		}
	}
	return nil
}

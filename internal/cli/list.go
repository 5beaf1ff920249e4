package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rileyhilliard/borgspace/internal/catalog"
	"github.com/rileyhilliard/borgspace/internal/config"
	"github.com/rileyhilliard/borgspace/internal/spec"
)

// listCommand shows the configured groups and what each one resolves
// to. No metrics are fetched; this is a dry run of the resolution
// engine against the settings file.
func listCommand() error {
	cfg, err := config.LoadOrDefault(Config())
	if err != nil {
		return err
	}

	cat := catalog.FromSettings(cfg)
	env := spec.DetectEnv()
	return listGroups(os.Stdout, cat, env)
}

func listGroups(w io.Writer, cat *catalog.Catalog, env spec.Env) error {
	names := cat.Names()
	if len(names) == 0 {
		_, err := fmt.Fprintln(w, "No repository groups configured.")
		return err
	}

	for _, name := range names {
		label := name
		if name == cat.DefaultRequest() {
			label += " (default)"
		}
		if _, err := fmt.Fprintf(w, "%s:\n", label); err != nil {
			return err
		}

		resolutions, err := cat.Resolve(name, env)
		if err != nil {
			if _, werr := fmt.Fprintf(w, "    %v\n", err); werr != nil {
				return werr
			}
			continue
		}
		for _, res := range resolutions {
			if _, err := fmt.Fprintf(w, "    %s\n", res.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

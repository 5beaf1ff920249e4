package config

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/borgspace/internal/errors"
)

// Validate checks a parsed Settings for problems the loader can't catch
// structurally. Load calls this; callers constructing Settings by hand
// (tests, init) may call it directly with a descriptive origin.
func Validate(cfg *Settings, origin string) error {
	if cfg.ReportStyle != "" && !isKnownStyle(cfg.ReportStyle) {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown report style '%s' in %s", cfg.ReportStyle, origin),
			"Choose from "+strings.Join(KnownStyles, ", "))
	}

	for _, fields := range [][]string{cfg.ReportFields, cfg.TreeReportFields, cfg.JSONReportFields} {
		for _, field := range fields {
			if !KnownFields[field] {
				return errors.New(errors.ErrConfig,
					fmt.Sprintf("Unknown report field '%s' in %s", field, origin),
					"Choose from size, last_create, last_prune, last_compact, last_squeeze")
			}
		}
	}

	if cfg.ConnectorWidth < 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Connector width must be at least 1, got %d in %s", cfg.ConnectorWidth, origin),
			"The default of 4 keeps tree diagrams readable")
	}

	return nil
}

func isKnownStyle(style string) bool {
	for _, known := range KnownStyles {
		if style == known {
			return true
		}
	}
	// nt and nestedtext are accepted aliases for yaml
	return style == "nt" || style == "nestedtext"
}

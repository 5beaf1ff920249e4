package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rileyhilliard/borgspace/internal/config"
	"github.com/rileyhilliard/borgspace/internal/errors"
	"github.com/rileyhilliard/borgspace/internal/ui"
)

// starterSettings is the commented settings file 'borgspace init'
// writes. Everything is optional; ad-hoc specs work without a settings
// file at all.
const starterSettings = `# Borgspace settings
#
# Repositories are named as config[@host][~user]; omitted parts default
# to this machine and the current user. Groups may list specs, mappings
# with config/host/user keys, or the names of other groups.

repositories:
    all:
        - home
        # - media@files~backup
        # - config: work
        #   host: office

default repository: all

# report style: compact
# report fields: size
# tree report fields: size last_create
# date format: 2 January 2006
`

// initCommand writes a starter settings file. It refuses to overwrite
// an existing one unless forced.
func initCommand(force bool) error {
	path := Config()
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Can't locate your home directory",
				"Set HOME, or pass --config with an explicit path")
		}
		path = filepath.Join(home, config.SettingsDir, config.SettingsFile)
	}

	if _, err := os.Stat(path); err == nil && !force {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Settings file already exists: %s", path),
			"Use --force to overwrite it")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Can't create the settings directory",
			"Check permissions on "+filepath.Dir(path))
	}
	if err := os.WriteFile(path, []byte(starterSettings), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Can't write settings file: %s", path),
			"Check directory permissions")
	}

	fmt.Printf("%s Created %s\n\n", ui.SymbolSuccess, path)
	fmt.Println("Next steps:")
	fmt.Println("  edit the file to name your Emborg configs")
	fmt.Println("  borgspace list        - show what each group resolves to")
	fmt.Println("  borgspace             - report the default repository")
	return nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/borgspace/internal/errors"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFullDocument(t *testing.T) {
	path := writeSettings(t, `
repositories:
    all:
        - home
        - media@files~backup
    pair: "home media"
    work:
        config: work
        host: office
default repository: all
report style: tree
report fields: size last_create
tree report fields:
    - size
date format: "2006-01-02"
table header: false
connector width: 2
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"home", "media@files~backup"}, cfg.Repositories["all"])
	assert.Equal(t, []string{"home", "media"}, cfg.Repositories["pair"])
	assert.Equal(t, []string{"work@office"}, cfg.Repositories["work"])
	assert.Equal(t, "all", cfg.DefaultRepository)
	assert.Equal(t, "tree", cfg.ReportStyle)
	assert.Equal(t, []string{"size", "last_create"}, cfg.ReportFields)
	assert.Equal(t, []string{"size"}, cfg.TreeReportFields)
	assert.Equal(t, "2006-01-02", cfg.DateFormat)
	assert.False(t, cfg.TableHeader)
	assert.Equal(t, 2, cfg.ConnectorWidth)
}

func TestLoadKeyNormalization(t *testing.T) {
	// Spaces, dashes, and snake_case all name the same keys.
	path := writeSettings(t, `
repositories:
    all: home
default-repository: all
report_style: table
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "all", cfg.DefaultRepository)
	assert.Equal(t, "table", cfg.ReportStyle)
}

func TestLoadDefaults(t *testing.T) {
	path := writeSettings(t, "repositories:\n    all: home\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "compact", cfg.ReportStyle)
	assert.Equal(t, []string{"size"}, cfg.ReportFields)
	assert.Equal(t, 4, cfg.ConnectorWidth)
	assert.True(t, cfg.TableHeader)
}

func TestLoadPreservesGroupNameCase(t *testing.T) {
	path := writeSettings(t, `
repositories:
    Work: home@office
    media: media
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"home@office"}, cfg.Repositories["Work"])
	assert.NotContains(t, cfg.Repositories, "work")
	assert.Equal(t, []string{"media"}, cfg.Repositories["media"])
}

func TestLoadRejectsUnknownTopLevelKey(t *testing.T) {
	path := writeSettings(t, "repositores:\n    all: home\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.Contains(t, err.Error(), "repositores")
}

func TestLoadRejectsBadSpecEntry(t *testing.T) {
	path := writeSettings(t, `
repositories:
    all:
        - home
        - "9bad"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "repositories.all[1]")
	assert.Contains(t, err.Error(), path)
}

func TestLoadRejectsUnknownMappingKey(t *testing.T) {
	path := writeSettings(t, `
repositories:
    work:
        config: work
        port: 22
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port")
}

func TestLoadMappingRequiresConfig(t *testing.T) {
	path := writeSettings(t, `
repositories:
    work:
        host: office
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config")
}

func TestLoadRejectsUnknownStyle(t *testing.T) {
	path := writeSettings(t, "report style: fancy\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fancy")
}

func TestLoadRejectsUnknownField(t *testing.T) {
	path := writeSettings(t, "report fields: size weight\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weight")
}

func TestLoadOrDefaultWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, "compact", cfg.ReportStyle)
	assert.Empty(t, cfg.Repositories)
}

func TestFindExplicitMissing(t *testing.T) {
	_, err := Find(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestValidateConnectorWidth(t *testing.T) {
	cfg := DefaultSettings()
	cfg.ConnectorWidth = 0
	err := Validate(cfg, "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Connector width")
}

func TestValidateStyleAliases(t *testing.T) {
	for _, style := range []string{"nt", "nestedtext", "yaml", "compact"} {
		cfg := DefaultSettings()
		cfg.ReportStyle = style
		assert.NoError(t, Validate(cfg, "test"), style)
	}
}

func TestFieldsFor(t *testing.T) {
	cfg := DefaultSettings()
	cfg.ReportFields = []string{"size", "last_create"}
	cfg.TreeReportFields = []string{"size"}

	assert.Equal(t, []string{"size"}, cfg.FieldsFor("tree"))
	assert.Equal(t, []string{"size", "last_create"}, cfg.FieldsFor("json"))
	assert.Equal(t, []string{"size", "last_create"}, cfg.FieldsFor("compact"))
}

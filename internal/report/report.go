// Package report renders fetched repository metrics in the supported
// styles: compact, table, tree, yaml, and json. Style choice only
// affects presentation; resolution and fetch semantics are upstream.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/borgspace/internal/errors"
	"github.com/rileyhilliard/borgspace/internal/metrics"
	"github.com/rileyhilliard/borgspace/internal/tree"
	"github.com/rileyhilliard/borgspace/internal/ui"
)

// Styles lists the recognized report styles. nt and nestedtext are
// accepted as aliases for yaml.
var Styles = []string{"compact", "table", "tree", "yaml", "json"}

// Options controls how a report is rendered.
type Options struct {
	// Style is one of Styles, or the yaml aliases nt / nestedtext.
	Style string

	// Fields selects the metric fields shown per repository.
	Fields []string

	// DateFormat is the Go reference layout for timestamp fields in the
	// tree and yaml styles.
	DateFormat string

	// TableHeader toggles the header row of the table style.
	TableHeader bool

	// ConnectorWidth is the visual width of tree connector glyphs.
	ConnectorWidth int

	// Squeeze collapses tree config leaves to "config: <size>" lines.
	// Callers set it when the effective field list is exactly size;
	// it is an explicit option so adding a field later can't silently
	// change the tree shape.
	Squeeze bool
}

// Render writes the report for the fetched repositories to w.
func Render(w io.Writer, repos []*metrics.Repo, opts Options) error {
	switch opts.Style {
	case "compact", "":
		return renderCompact(w, repos)
	case "table":
		return renderTable(w, repos, opts)
	case "tree":
		return renderTree(w, repos, opts)
	case "yaml", "nt", "nestedtext":
		return renderYAML(w, repos, opts)
	case "json":
		return renderJSON(w, repos, opts)
	}
	return errors.New(errors.ErrStyle,
		fmt.Sprintf("Unknown report style '%s'", opts.Style),
		"Choose from compact, table, tree, yaml, or json")
}

// renderCompact prints one "config: size" line per repository, sorted
// by full resolved name. Terse, though config labels can repeat across
// hosts.
func renderCompact(w io.Writer, repos []*metrics.Repo) error {
	for _, repo := range sortedByName(repos) {
		if _, err := fmt.Fprintf(w, "%s: %s\n", repo.Resolved.Config, formatSize(repo.Latest.Size)); err != nil {
			return err
		}
	}
	return nil
}

// tableDateLayout is the short date shown in the LAST BACK UP column.
const tableDateLayout = "Mon, Jan 02"

// tableColumns defines the table style's columns. The header row is
// derived from these titles so the two can't drift apart.
func tableColumns() []ui.TableColumn {
	return []ui.TableColumn{
		{Title: "HOST", Width: 8},
		{Title: "USER", Width: 8},
		{Title: "CONFIG", Width: 8},
		{Title: "SIZE", Width: 9},
		{Title: "LAST BACK UP", Width: 12},
	}
}

// renderTable prints host/user/config/size/last-backup rows sorted by
// host, user, then config.
func renderTable(w io.Writer, repos []*metrics.Repo, opts Options) error {
	rows := make([][]string, 0, len(repos))
	for _, repo := range sortedByIdentity(repos) {
		r := repo.Resolved
		lastBackup := ""
		if t, ok := repo.Latest.Date("last_create"); ok {
			lastBackup = t.Format(tableDateLayout)
		}
		rows = append(rows, []string{
			r.Host, r.User, r.Config, formatSize(repo.Latest.Size), lastBackup,
		})
	}

	var out string
	if opts.TableHeader {
		out = ui.RenderSimpleTable(tableColumns(), rows)
	} else {
		out = ui.RenderSimpleTableRows(tableColumns(), rows)
	}
	if out == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, out)
	return err
}

// renderTree draws the host → user → config hierarchy with box-drawing
// connectors. With Squeeze, configs collapse to "config: size" list
// items under each user; otherwise each config expands to its fields.
func renderTree(w io.Writer, repos []*metrics.Repo, opts Options) error {
	width := opts.ConnectorWidth
	if width <= 0 {
		width = tree.DefaultWidth
	}

	root := tree.NewMapping()
	for _, repo := range sortedByIdentity(repos) {
		r := repo.Resolved
		hostNode := childMapping(root, r.Host)

		if opts.Squeeze {
			leaf := fmt.Sprintf("%s: %s", r.Config, formatSize(repo.Latest.Size))
			items, _ := hostNode.Get(r.User)
			list, _ := items.([]string)
			hostNode.Set(r.User, append(list, leaf))
			continue
		}

		userNode := childMapping(hostNode, r.User)
		userNode.Set(r.Config, fieldMapping(repo, opts))
	}

	out := tree.RenderWith(root, tree.GenConnectors(width))
	if out == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, out)
	return err
}

// renderYAML emits the same hierarchy as the tree style as a YAML
// document, configs always expanded to their fields.
func renderYAML(w io.Writer, repos []*metrics.Repo, opts Options) error {
	hierarchy := map[string]map[string]map[string]map[string]string{}
	for _, repo := range repos {
		r := repo.Resolved
		if hierarchy[r.Host] == nil {
			hierarchy[r.Host] = map[string]map[string]map[string]string{}
		}
		if hierarchy[r.Host][r.User] == nil {
			hierarchy[r.Host][r.User] = map[string]map[string]string{}
		}
		hierarchy[r.Host][r.User][r.Config] = fieldValues(repo, opts)
	}

	data, err := yaml.Marshal(hierarchy)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// renderJSON emits a flat list of records, one per repository, sorted
// by name. Sizes are raw byte counts and timestamps RFC 3339 so the
// output feeds scripts without reparsing humanized values.
func renderJSON(w io.Writer, repos []*metrics.Repo, opts Options) error {
	records := make([]map[string]interface{}, 0, len(repos))
	for _, repo := range sortedByName(repos) {
		r := repo.Resolved
		record := map[string]interface{}{
			"name":   repo.Name,
			"config": r.Config,
			"host":   r.Host,
			"user":   r.User,
		}
		for _, field := range effectiveFields(opts) {
			if field == "size" {
				record["size"] = repo.Latest.Size
				continue
			}
			if t, ok := repo.Latest.Date(field); ok {
				record[field] = t.Format(time.RFC3339)
			}
		}
		records = append(records, record)
	}

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// fieldMapping formats the selected fields of one repository as an
// ordered mapping for the tree renderer.
func fieldMapping(repo *metrics.Repo, opts Options) *tree.Mapping {
	m := tree.NewMapping()
	for _, field := range effectiveFields(opts) {
		if value, ok := formatField(repo, field, opts); ok {
			m.Set(field, value)
		}
	}
	return m
}

// fieldValues formats the selected fields as a plain map for the yaml
// style.
func fieldValues(repo *metrics.Repo, opts Options) map[string]string {
	values := map[string]string{}
	for _, field := range effectiveFields(opts) {
		if value, ok := formatField(repo, field, opts); ok {
			values[field] = value
		}
	}
	return values
}

// formatField renders one field for display. Unset timestamps are
// omitted rather than shown as zero times.
func formatField(repo *metrics.Repo, field string, opts Options) (string, bool) {
	if field == "size" {
		return formatSize(repo.Latest.Size), true
	}
	t, ok := repo.Latest.Date(field)
	if !ok {
		return "", false
	}
	layout := opts.DateFormat
	if layout == "" {
		layout = "2 January 2006"
	}
	return t.Format(layout), true
}

func effectiveFields(opts Options) []string {
	if len(opts.Fields) == 0 {
		return []string{"size"}
	}
	return opts.Fields
}

func formatSize(size uint64) string {
	return humanize.IBytes(size)
}

func childMapping(parent *tree.Mapping, key string) *tree.Mapping {
	if v, ok := parent.Get(key); ok {
		if m, ok := v.(*tree.Mapping); ok {
			return m
		}
	}
	m := tree.NewMapping()
	parent.Set(key, m)
	return m
}

func sortedByName(repos []*metrics.Repo) []*metrics.Repo {
	out := make([]*metrics.Repo, len(repos))
	copy(out, repos)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// sortedByIdentity orders by host, then user, then config, matching the
// hierarchy the table and tree styles present.
func sortedByIdentity(repos []*metrics.Repo) []*metrics.Repo {
	out := make([]*metrics.Repo, len(repos))
	copy(out, repos)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Resolved, out[j].Resolved
		if a.Host != b.Host {
			return a.Host < b.Host
		}
		if a.User != b.User {
			return a.User < b.User
		}
		return a.Config < b.Config
	})
	return out
}

package config

// KnownFields are the metric fields reports can select.
var KnownFields = map[string]bool{
	"size":         true,
	"last_create":  true,
	"last_prune":   true,
	"last_compact": true,
	"last_squeeze": true,
}

// KnownStyles are the recognized report styles.
var KnownStyles = []string{"compact", "table", "tree", "yaml", "json"}

// Settings represents the validated borgspace settings document.
//
// In the file, top-level keys may be written with spaces or dashes
// ("default repository"); they are normalized to snake_case at load.
type Settings struct {
	// Repositories maps group names to ordered entry lists. Each entry is
	// either a repository spec string (config[@host][~user]) or the name
	// of another group; which one it is gets decided at resolution time.
	Repositories map[string][]string

	// DefaultRepository is the request used when none is given.
	DefaultRepository string

	// ReportStyle is the default style: compact, table, tree, yaml, or json.
	ReportStyle string

	// ReportFields selects the metric fields reports show.
	ReportFields []string

	// TreeReportFields / JSONReportFields override ReportFields per style.
	TreeReportFields []string
	JSONReportFields []string

	// DateFormat is the Go reference layout used for timestamp fields.
	DateFormat string

	// TableHeader toggles the header row of the table style.
	TableHeader bool

	// ConnectorWidth is the visual width of tree connector glyphs.
	ConnectorWidth int
}

// DefaultSettings returns a Settings with sensible defaults.
func DefaultSettings() *Settings {
	return &Settings{
		Repositories:   make(map[string][]string),
		ReportStyle:    "compact",
		ReportFields:   []string{"size"},
		DateFormat:     "2 January 2006",
		TableHeader:    true,
		ConnectorWidth: 4,
	}
}

// FieldsFor returns the effective field list for a report style.
func (s *Settings) FieldsFor(style string) []string {
	switch style {
	case "tree":
		if len(s.TreeReportFields) > 0 {
			return s.TreeReportFields
		}
	case "json":
		if len(s.JSONReportFields) > 0 {
			return s.JSONReportFields
		}
	}
	return s.ReportFields
}

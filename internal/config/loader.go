package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/borgspace/internal/errors"
	"github.com/rileyhilliard/borgspace/internal/spec"
)

const (
	// SettingsDir is the per-user settings directory under ~/.config.
	SettingsDir = ".config/borgspace"
	// SettingsFile is the settings file name.
	SettingsFile = "settings.yaml"
)

// knownKeys are the accepted top-level settings keys (after normalization).
var knownKeys = map[string]bool{
	"repositories":       true,
	"default_repository": true,
	"report_style":       true,
	"report_fields":      true,
	"tree_report_fields": true,
	"json_report_fields": true,
	"date_format":        true,
	"table_header":       true,
	"connector_width":    true,
}

// Find locates the settings file: the explicit path when given,
// otherwise ~/.config/borgspace/settings.yaml. Returns an empty string
// when no settings file exists, which is not an error.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified settings file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access settings file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", nil
	}
	path := filepath.Join(home, SettingsDir, SettingsFile)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	return "", nil
}

// Load reads and validates the settings file at path.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Settings file not found: "+path,
				"Run 'borgspace init' to create a starter settings file")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read settings file: "+path,
			"Check file permissions")
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to parse settings file: "+path,
			"Check the file is valid YAML")
	}

	return parseSettings(v, data, path)
}

// LoadOrDefault loads settings from the found path, or returns defaults
// when no settings file exists. Ad-hoc specs still work without one.
func LoadOrDefault(explicit string) (*Settings, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return DefaultSettings(), nil
	}
	return Load(path)
}

// parseSettings converts the viper document into a validated Settings.
// raw is the original file; the repositories section is re-decoded from
// it because viper folds keys to lower case, which would corrupt group
// names like "Work".
func parseSettings(v *viper.Viper, raw []byte, path string) (*Settings, error) {
	cfg := DefaultSettings()

	for _, key := range v.AllKeys() {
		top := normalizeKey(strings.SplitN(key, ".", 2)[0])
		if !knownKeys[top] {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("Unknown key '%s' in %s", top, path),
				"Remove it, or check the spelling against the documented settings keys")
		}
	}

	nv := normalizedView(v)

	cfg.DefaultRepository = nv.GetString("default_repository")
	if nv.IsSet("report_style") {
		cfg.ReportStyle = nv.GetString("report_style")
	}
	if nv.IsSet("report_fields") {
		cfg.ReportFields = toList(nv.Get("report_fields"))
	}
	cfg.TreeReportFields = toList(nv.Get("tree_report_fields"))
	cfg.JSONReportFields = toList(nv.Get("json_report_fields"))
	if nv.IsSet("date_format") {
		cfg.DateFormat = nv.GetString("date_format")
	}
	if nv.IsSet("table_header") {
		cfg.TableHeader = nv.GetBool("table_header")
	}
	if nv.IsSet("connector_width") {
		cfg.ConnectorWidth = nv.GetInt("connector_width")
	}

	section, err := rawRepositories(raw, path)
	if err != nil {
		return nil, err
	}
	repos, err := normalizeRepositories(section, path)
	if err != nil {
		return nil, err
	}
	cfg.Repositories = repos

	if err := Validate(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// rawRepositories pulls the repositories section straight out of the
// document with case-preserved keys. The top-level key name itself is
// still matched case- and separator-insensitively.
func rawRepositories(raw []byte, path string) (interface{}, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to parse settings file: "+path,
			"Check the file is valid YAML")
	}
	for key, value := range doc {
		if normalizeKey(key) == "repositories" {
			return value, nil
		}
	}
	return nil, nil
}

// normalizedView rebuilds the document with snake_case top-level keys,
// so "default repository" and "default-repository" both work.
func normalizedView(v *viper.Viper) *viper.Viper {
	normalized := make(map[string]interface{})
	for key, value := range v.AllSettings() {
		normalized[normalizeKey(key)] = value
	}
	nv := viper.New()
	_ = nv.MergeConfigMap(normalized)
	return nv
}

func normalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	return key
}

// toList accepts either a whitespace-separated string or a list of strings.
func toList(raw interface{}) []string {
	switch val := raw.(type) {
	case nil:
		return nil
	case string:
		return strings.Fields(val)
	case []interface{}:
		items := make([]string, 0, len(val))
		for _, item := range val {
			items = append(items, fmt.Sprint(item))
		}
		return items
	case []string:
		return val
	default:
		return []string{fmt.Sprint(raw)}
	}
}

// normalizeRepositories converts the raw repositories section into
// name -> ordered spec/group-name strings. Each entry may be a spec
// string, a whitespace-separated string of specs, a list of strings or
// mappings, or a single mapping with config/host/user keys.
func normalizeRepositories(raw interface{}, path string) (map[string][]string, error) {
	groups := make(map[string][]string)
	if raw == nil {
		return groups, nil
	}

	section, ok := raw.(map[string]interface{})
	if !ok {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("'repositories' must be a mapping in %s", path),
			"Map each group name to a spec string or a list of specs")
	}

	for name, value := range section {
		if !spec.ValidName(name) {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("Bad group name '%s' in %s", name, path),
				"Group names contain only letters, digits, '_' and '-'")
		}
		entries, err := toSpecList(value, "repositories."+name, path)
		if err != nil {
			return nil, err
		}
		// A group declared with no entries stands for the spec of the
		// same name; resolution handles the empty list.
		groups[name] = entries
	}
	return groups, nil
}

// toSpecList normalizes one repositories entry into spec/group strings.
func toSpecList(value interface{}, where, path string) ([]string, error) {
	switch val := value.(type) {
	case nil:
		return nil, nil
	case string:
		entries := strings.Fields(val)
		for _, entry := range entries {
			if _, err := spec.Parse(entry); err != nil {
				return nil, annotate(err, where, path)
			}
		}
		return entries, nil
	case map[string]interface{}:
		entry, err := specFromMapping(val, where, path)
		if err != nil {
			return nil, err
		}
		return []string{entry}, nil
	case []interface{}:
		var entries []string
		for i, item := range val {
			sub, err := toSpecList(item, fmt.Sprintf("%s[%d]", where, i), path)
			if err != nil {
				return nil, err
			}
			entries = append(entries, sub...)
		}
		return entries, nil
	default:
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Expected a repository specification at %s in %s", where, path),
			"Use a spec string, a list of specs, or a mapping with config/host/user keys")
	}
}

// specFromMapping builds a spec string from {config, host, user} keys.
func specFromMapping(m map[string]interface{}, where, path string) (string, error) {
	for key := range m {
		switch normalizeKey(key) {
		case "config", "host", "user":
		default:
			return "", errors.New(errors.ErrConfig,
				fmt.Sprintf("Unknown key '%s' at %s in %s", key, where, path),
				"Spec mappings accept only config, host, and user")
		}
	}
	get := func(key string) string {
		for k, v := range m {
			if normalizeKey(k) == key {
				return fmt.Sprint(v)
			}
		}
		return ""
	}

	cfg := get("config")
	if cfg == "" {
		return "", errors.New(errors.ErrConfig,
			fmt.Sprintf("'config' is a required key at %s in %s", where, path),
			"Name the Emborg config this spec refers to")
	}
	text := cfg
	if host := get("host"); host != "" {
		text += "@" + host
	}
	if user := get("user"); user != "" {
		text += "~" + user
	}
	if _, err := spec.Parse(text); err != nil {
		return "", annotate(err, where, path)
	}
	return text, nil
}

func annotate(err error, where, path string) error {
	return errors.WrapWithCode(err, errors.ErrConfig,
		fmt.Sprintf("Bad repository spec at %s in %s", where, path),
		"Use config[@host][~user] with letters, digits, '_' and '-'")
}

// Package tree renders ordered nested mappings as Unicode box-drawing
// diagrams, the way a filesystem hierarchy is usually pictured:
//
//	tests:
//	├── examples:
//	│   ├── one: a
//	│   └── two: b
//	└── hello:
//	    └── world: c
//
// Values are nested mappings, scalar strings, or string lists. Go maps
// are unordered, so Mapping keeps explicit insertion order; callers sort
// before inserting.
package tree

import "strings"

// DefaultWidth is the default visual width of a connector glyph in
// display columns.
const DefaultWidth = 4

// Mapping is an ordered key/value collection. Values may be *Mapping,
// string, []string, or nil (rendered as a childless key).
type Mapping struct {
	keys   []string
	values map[string]interface{}
}

// NewMapping returns an empty ordered mapping.
func NewMapping() *Mapping {
	return &Mapping{values: make(map[string]interface{})}
}

// Set inserts or replaces a key. Insertion order is preserved; replacing
// a value keeps the key's original position.
func (m *Mapping) Set(key string, value interface{}) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key.
func (m *Mapping) Get(key string) (interface{}, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	return m.keys
}

// Len returns the number of keys.
func (m *Mapping) Len() int {
	return len(m.keys)
}

// Connectors holds the four glyph strings used to draw the tree.
// Item marks a sibling with more siblings below it, LastItem the final
// sibling; Lead and LastLead are the leaders propagated to their
// descendants.
type Connectors struct {
	Item     string // ├
	LastItem string // └
	Lead     string // │
	LastLead string // blank
}

// Non-breaking space; keeps leads aligned with variable-width fonts.
const nbsp = " "

// GenConnectors builds connector strings padded to the given visual
// width: the seed glyph, fill characters, and a trailing pad when the
// width allows. Width 1 yields the bare glyphs.
func GenConnectors(width int) Connectors {
	extend := func(seed, fill string) string {
		var b strings.Builder
		b.WriteString(seed)
		for i := 0; i < width-2; i++ {
			b.WriteString(fill)
		}
		if width > 1 {
			b.WriteString(nbsp)
		}
		return b.String()
	}
	return Connectors{
		Item:     extend("├", "─"),
		LastItem: extend("└", "─"),
		Lead:     extend("│", nbsp),
		LastLead: extend(nbsp, nbsp),
	}
}

// Render draws the mapping with default-width connectors.
func Render(m *Mapping) string {
	return RenderWith(m, GenConnectors(DefaultWidth))
}

// RenderWith draws the mapping using the given connectors.
//
// Top-level keys get no connector. At deeper levels every sibling except
// the last is prefixed with Item and propagates Lead to its descendants;
// the last sibling gets LastItem and propagates LastLead. A single child
// is simultaneously first and last, so it always corner-connects.
func RenderWith(m *Mapping, c Connectors) string {
	if m == nil {
		return ""
	}
	return strings.Join(renderMapping(m, c, true, ""), "\n")
}

func renderMapping(m *Mapping, c Connectors, top bool, leader string) []string {
	var lines []string
	last := m.Len() - 1

	for i, key := range m.keys {
		value := m.values[key]

		// Key-line and child-line leader supplements for this sibling.
		var kls, ils string
		if !top {
			if i < last {
				kls, ils = c.Item, c.Lead
			} else {
				kls, ils = c.LastItem, c.LastLead
			}
		}

		switch v := value.(type) {
		case *Mapping:
			lines = append(lines, leader+kls+key+":")
			if v != nil && v.Len() > 0 {
				lines = append(lines, renderMapping(v, c, false, leader+ils)...)
			}
		case []string:
			lines = append(lines, leader+kls+key+":")
			lines = append(lines, renderList(v, c, leader+ils)...)
		case string:
			// Scalar leaf squeezes key and value onto one line.
			lines = append(lines, leader+kls+key+": "+v)
		default:
			// nil or unsupported child results are silently skipped.
			lines = append(lines, leader+kls+key+":")
		}
	}
	return lines
}

// renderList draws a multi-item leaf: each item connector-prefixed at
// the child level, the final one with the corner connector.
func renderList(items []string, c Connectors, leader string) []string {
	var lines []string
	for i, item := range items {
		conn := c.Item
		if i == len(items)-1 {
			conn = c.LastItem
		}
		lines = append(lines, leader+conn+item)
	}
	return lines
}

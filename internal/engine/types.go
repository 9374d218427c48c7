package engine

import (
	"strings"

	"smarttasks/internal/storage"
)

// SlotCount is the number of weekday slots, Monday first.
const SlotCount = storage.SlotCount

// DefaultTypeName is preselected when creating an entry.
const DefaultTypeName = "task"

// Entry is the content of one occupied slot.
type Entry struct {
	Description string
	Types       []string
}

func (e Entry) clone() *Entry {
	types := make([]string, len(e.Types))
	copy(types, e.Types)
	return &Entry{Description: e.Description, Types: types}
}

func (e Entry) HasType(name string) bool {
	for _, t := range e.Types {
		if t == name {
			return true
		}
	}
	return false
}

// Slot is a read-only view of one board position.
type Slot struct {
	Index int
	Entry *Entry
}

func (s Slot) Occupied() bool { return s.Entry != nil }

// TypeTag is one entry category and the color it renders with.
type TypeTag struct {
	Name  string `mapstructure:"name" yaml:"name" json:"name"`
	Color string `mapstructure:"color" yaml:"color" json:"color"`
}

// TypeCatalog is the configured set of tags offered by the editor. Stored
// entries may carry tags outside it.
type TypeCatalog struct {
	Default string
	Tags    []TypeTag
}

func DefaultCatalog() TypeCatalog {
	return TypeCatalog{
		Default: DefaultTypeName,
		Tags: []TypeTag{
			{Name: "task", Color: "63"},
			{Name: "event", Color: "205"},
			{Name: "meeting", Color: "214"},
			{Name: "personal", Color: "42"},
			{Name: "deadline", Color: "196"},
		},
	}
}

func (c TypeCatalog) Names() []string {
	out := make([]string, 0, len(c.Tags))
	for _, t := range c.Tags {
		out = append(out, t.Name)
	}
	return out
}

// Color returns the color for name, or false for tags outside the catalog.
func (c TypeCatalog) Color(name string) (string, bool) {
	for _, t := range c.Tags {
		if strings.EqualFold(t.Name, name) {
			return t.Color, true
		}
	}
	return "", false
}

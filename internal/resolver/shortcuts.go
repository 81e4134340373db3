package resolver

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Shortcut is one known location: the menu button label, extra aliases a
// user may type, and the query it resolves to.
type Shortcut struct {
	Label       string   `yaml:"label"`
	Aliases     []string `yaml:"aliases"`
	Query       string   `yaml:"query"`
	DisplayName string   `yaml:"display_name"`
}

// DefaultShortcuts is the built-in trigger table, in menu order.
var DefaultShortcuts = []Shortcut{
	{Label: "🌤 Москва", Aliases: []string{"москва"}, Query: "Москва"},
	{Label: "🌤 СПб", Aliases: []string{"спб", "санкт-петербург"}, Query: "Санкт-Петербург"},
	{Label: "📍 Хотьковский пр.9", Aliases: []string{"хотьковский пр.9"}, Query: "Сергиев Посад", DisplayName: "Хотьковский проезд, 9"},
	{Label: "🌤 Нью-Йорк", Aliases: []string{"нью-йорк"}, Query: "Нью-Йорк"},
}

type shortcutFile struct {
	Shortcuts []Shortcut `yaml:"shortcuts"`
}

// LoadShortcuts reads a YAML shortcut table:
//
//	shortcuts:
//	  - label: "🌤 Москва"
//	    aliases: ["москва"]
//	    query: "Москва"
func LoadShortcuts(path string) ([]Shortcut, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read shortcuts file %s: %w", path, err)
	}
	return ParseShortcuts(data)
}

// ParseShortcuts decodes and validates a YAML shortcut table.
func ParseShortcuts(data []byte) ([]Shortcut, error) {
	var f shortcutFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse shortcuts: %w", err)
	}
	if len(f.Shortcuts) == 0 {
		return nil, fmt.Errorf("shortcuts file defines no shortcuts")
	}

	for i, s := range f.Shortcuts {
		if strings.TrimSpace(s.Label) == "" {
			return nil, fmt.Errorf("shortcut %d: label is required", i)
		}
		if strings.TrimSpace(s.Query) == "" {
			return nil, fmt.Errorf("shortcut %q: query is required", s.Label)
		}
	}
	return f.Shortcuts, nil
}

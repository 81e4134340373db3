// Package resolver maps chat text to a weather query.
package resolver

import (
	"errors"
	"strings"

	"github.com/i474232898/weather-bot/internal/weather"
)

// CommandPrefix starts a free-text lookup, e.g. "погода Лондон".
const CommandPrefix = "погода"

var (
	// ErrMissingArgument is returned for the lookup command without a place.
	ErrMissingArgument = errors.New("location missing after command")
	// ErrUnresolved is returned when the text matches no known trigger.
	ErrUnresolved = errors.New("text does not name a known location")
)

// Resolver matches text against the lookup command and a shortcut table.
// It is immutable after construction.
type Resolver struct {
	shortcuts []Shortcut
	triggers  map[string]weather.Query
}

// New builds a Resolver. A nil or empty table uses DefaultShortcuts.
func New(shortcuts []Shortcut) *Resolver {
	if len(shortcuts) == 0 {
		shortcuts = DefaultShortcuts
	}

	triggers := make(map[string]weather.Query)
	for _, s := range shortcuts {
		q := weather.Query{Location: s.Query, DisplayName: s.DisplayName}
		for _, t := range append([]string{s.Label}, s.Aliases...) {
			key := Normalize(t)
			// first definition wins
			if _, ok := triggers[key]; !ok && key != "" {
				triggers[key] = q
			}
		}
	}

	return &Resolver{
		shortcuts: shortcuts,
		triggers:  triggers,
	}
}

// Normalize lower-cases and trims text for matching.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Resolve returns the query for text, or ErrMissingArgument / ErrUnresolved.
// The lookup command is matched case-insensitively but its argument keeps
// the user's original spelling.
func (r *Resolver) Resolve(text string) (weather.Query, error) {
	trimmed := strings.TrimSpace(text)
	normalized := strings.ToLower(trimmed)

	if strings.HasPrefix(normalized, CommandPrefix) {
		// lower-casing maps rune to rune, so the prefix length in runes is
		// the same in both strings
		arg := strings.TrimSpace(string([]rune(trimmed)[len([]rune(CommandPrefix)):]))
		if arg == "" {
			return weather.Query{}, ErrMissingArgument
		}
		return weather.Query{Location: arg}, nil
	}

	if q, ok := r.triggers[normalized]; ok {
		return q, nil
	}
	return weather.Query{}, ErrUnresolved
}

// Labels returns the menu labels in table order.
func (r *Resolver) Labels() []string {
	labels := make([]string, 0, len(r.shortcuts))
	for _, s := range r.shortcuts {
		labels = append(labels, s.Label)
	}
	return labels
}

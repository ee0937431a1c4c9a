// Package casing maps case-style names to text transforms.
package casing

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Style is a case transform applied to generated identifiers.
type Style int

const (
	None Style = iota
	Lower
	Upper
	Title
	Capitalize
	Camel
	Pascal
	Snake
	Kebab
)

var styleNames = map[Style]string{
	None:       "none",
	Lower:      "lower",
	Upper:      "upper",
	Title:      "title",
	Capitalize: "capitalize",
	Camel:      "camel",
	Pascal:     "pascal",
	Snake:      "snake",
	Kebab:      "kebab",
}

var byName = func() map[string]Style {
	m := make(map[string]Style, len(styleNames))
	for s, n := range styleNames {
		m[n] = s
	}
	m[""] = None
	return m
}()

func (s Style) String() string {
	if n, ok := styleNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// ParseStyle resolves a style name. The empty string is None.
func ParseStyle(name string) (Style, error) {
	s, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return None, fmt.Errorf("unknown case style %q (want one of %s)", name, strings.Join(Names(), ", "))
	}
	return s, nil
}

// Names lists the style names accepted by ParseStyle.
func Names() []string {
	names := make([]string, 0, len(styleNames))
	for s := None; s <= Kebab; s++ {
		names = append(names, styleNames[s])
	}
	return names
}

// Casers hold state, so each call builds its own.
var transforms = map[Style]func(string) string{
	None:       func(s string) string { return s },
	Lower:      func(s string) string { return cases.Lower(language.Und).String(s) },
	Upper:      func(s string) string { return cases.Upper(language.Und).String(s) },
	Title:      func(s string) string { return cases.Title(language.Und).String(s) },
	Capitalize: capitalize,
	Camel:      strcase.ToLowerCamel,
	Pascal:     strcase.ToCamel,
	Snake:      strcase.ToSnake,
	Kebab:      strcase.ToKebab,
}

// Apply transforms text. Unknown styles return text unchanged.
func (s Style) Apply(text string) string {
	if fn, ok := transforms[s]; ok {
		return fn(text)
	}
	return text
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return cases.Upper(language.Und).String(string(r)) + cases.Lower(language.Und).String(s[size:])
}

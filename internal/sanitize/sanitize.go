// Package sanitize cleans and validates raw string input before it is
// allowed anywhere near the network layer. All functions are pure.
package sanitize

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

type InputType string

const (
	TypeText     InputType = "text"
	TypeEmail    InputType = "email"
	TypePassword InputType = "password"
	TypeName     InputType = "name"
	TypePhone    InputType = "phone"
	TypeSearch   InputType = "search"
)

const (
	errRequiredText = "Campo obrigatório"
	errMinLenFormat = "Mínimo %d caracteres"
	errMaxLenFormat = "Máximo %d caracteres"
	errPatternText  = "Formato inválido"
	errEmailText    = "Email inválido"
)

var (
	htmlTagRegexp      = regexp.MustCompile(`<[^>]*>`)
	dangerousURIRegexp = regexp.MustCompile(`(?i)javascript:|vbscript:`)
	eventAttrRegexp    = regexp.MustCompile(`(?i)onload|onerror|onclick`)
	controlCharRegexp  = regexp.MustCompile(`[\x00-\x1F\x7F]`)
	whitespaceRegexp   = regexp.MustCompile(`\s+`)
	emailRegexp        = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	nameCharRegexp     = regexp.MustCompile(`[^a-zA-ZÀ-ÿ\s\-']`)
	phoneCharRegexp    = regexp.MustCompile(`[^\d\s\-()+]`)
	searchCharRegexp   = regexp.MustCompile("['\"`;\\\\]")
)

// Text strips HTML-like tags, dangerous URI schemes, inline event handler
// names and control characters, then collapses whitespace runs.
func Text(input string) string {
	s := htmlTagRegexp.ReplaceAllString(input, "")
	s = dangerousURIRegexp.ReplaceAllString(s, "")
	s = eventAttrRegexp.ReplaceAllString(s, "")
	s = controlCharRegexp.ReplaceAllString(s, "")
	s = whitespaceRegexp.ReplaceAllString(s, " ")

	return strings.TrimSpace(s)
}

// Email lowercases and sanitizes the address. A string that does not come
// out email-shaped sanitizes to "".
func Email(input string) string {
	s := Text(strings.ToLower(input))
	if !IsEmail(s) {
		return ""
	}

	return s
}

func IsEmail(s string) bool {
	return emailRegexp.MatchString(s) && !strings.Contains(s, "..")
}

// Password strips only control characters. Symbols are part of the secret
// and must survive sanitization intact.
func Password(input string) string {
	return controlCharRegexp.ReplaceAllString(input, "")
}

// Name keeps letters (accented Latin included), spaces, hyphen and
// apostrophe.
func Name(input string) string {
	return strings.TrimSpace(nameCharRegexp.ReplaceAllString(Text(input), ""))
}

// Phone keeps digits, spaces, hyphen, parentheses and the plus sign.
func Phone(input string) string {
	return strings.TrimSpace(phoneCharRegexp.ReplaceAllString(input, ""))
}

// Search additionally strips quote, backtick, semicolon and backslash.
func Search(input string) string {
	return searchCharRegexp.ReplaceAllString(Text(input), "")
}

type Rules struct {
	Required  bool
	MinLength int
	MaxLength int
	Pattern   *regexp.Regexp
	Type      InputType
}

type Result struct {
	Valid     bool
	Sanitized string
	Errors    []string
}

// ValidateAndSanitize sanitizes input according to the rule set's type and
// validates the sanitized value: required check first, then length bounds,
// then pattern, then the type-specific structural check.
func ValidateAndSanitize(input string, rules Rules) Result {
	if input == "" {
		if rules.Required {
			return Result{Valid: false, Sanitized: "", Errors: []string{errRequiredText}}
		}

		return Result{Valid: true, Sanitized: ""}
	}

	var sanitized string

	switch rules.Type {
	case TypeEmail:
		sanitized = Email(input)
	case TypePassword:
		sanitized = Password(input)
	case TypeName:
		sanitized = Name(input)
	case TypePhone:
		sanitized = Phone(input)
	case TypeSearch:
		sanitized = Search(input)
	case TypeText:
		sanitized = Text(input)
	default:
		sanitized = Text(input)
	}

	var errs []string

	if rules.Required && sanitized == "" {
		errs = append(errs, errRequiredText)
	}

	runeLen := utf8.RuneCountInString(sanitized)

	if rules.MinLength > 0 && runeLen < rules.MinLength {
		errs = append(errs, fmt.Sprintf(errMinLenFormat, rules.MinLength))
	}

	if rules.MaxLength > 0 && runeLen > rules.MaxLength {
		errs = append(errs, fmt.Sprintf(errMaxLenFormat, rules.MaxLength))
	}

	if rules.Pattern != nil && !rules.Pattern.MatchString(sanitized) {
		errs = append(errs, errPatternText)
	}

	if rules.Type == TypeEmail && sanitized != "" && !IsEmail(sanitized) {
		errs = append(errs, errEmailText)
	}

	return Result{
		Valid:     len(errs) == 0,
		Sanitized: sanitized,
		Errors:    errs,
	}
}

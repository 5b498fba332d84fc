package sanitizer

import (
	"regexp"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reWhitespace  = regexp.MustCompile(`\s+`)
	reControl     = regexp.MustCompile(`[\x00-\x1f\x7f]`)
	rePhoneChars  = regexp.MustCompile(`[^\d+]`)
	reValidPhone  = regexp.MustCompile(`^\+?[1-9]\d{4,14}$`)
	reKeepLetters = regexp.MustCompile(`[^0-9\p{L} '\-]+`)
)

func trimSpace(s string) string {
	return strings.TrimSpace(s)
}

func collapseWhitespace(s string) string {
	return reWhitespace.ReplaceAllString(s, " ")
}

// Controls become spaces rather than disappearing, otherwise words separated
// only by a newline would be glued together. collapseWhitespace folds the rest.
func stripControl(s string) string {
	return reControl.ReplaceAllString(s, " ")
}

// SanitizeName cleans listing and user names: control characters and exotic
// punctuation removed, whitespace collapsed.
func SanitizeName(input string) string {
	p := Pipeline{
		stripControl,
		func(s string) string { return reKeepLetters.ReplaceAllString(s, " ") },
		collapseWhitespace,
		trimSpace,
	}
	return p.Apply(input)
}

// SanitizeText cleans free-form text (descriptions, special requests,
// review comments) without touching punctuation.
func SanitizeText(input string) string {
	p := Pipeline{
		stripControl,
		collapseWhitespace,
		trimSpace,
	}
	return p.Apply(input)
}

// SanitizeCity lowercases and trims a location field so equality filters
// behave predictably.
func SanitizeCity(input string) string {
	return strings.ToLower(SanitizeName(input))
}

// SanitizePhone strips formatting characters and returns the digits with an
// optional leading plus; input that cannot form a plausible number comes
// back empty.
func SanitizePhone(phone string) string {
	cleaned := rePhoneChars.ReplaceAllString(strings.TrimSpace(phone), "")
	if strings.Count(cleaned, "+") > 1 || (strings.Contains(cleaned, "+") && !strings.HasPrefix(cleaned, "+")) {
		return ""
	}
	if !reValidPhone.MatchString(cleaned) {
		return ""
	}
	return cleaned
}

// SanitizeSlice applies a strategy to every element, dropping empties and
// duplicates while preserving first-seen order.
func SanitizeSlice(values []string, strategy Strategy) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, v := range values {
		s := strategy(v)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}

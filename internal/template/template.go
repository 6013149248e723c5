package template

import (
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Variables holds the data to be injected into template placeholders.
type Variables struct {
	Label    string // Platform display label
	Platform string // Platform id
	Summary  string // Condensed source content
	Source   string // Full source content
	Brand    string // Brand name
	CTA      string // Brand call to action
	Time     string // Generation time
}

// Render replaces {{variable}} placeholders in template with actual values.
// Supports the following variables:
// - {{label}} - Platform display label
// - {{platform}} - Platform id
// - {{summary}} - Condensed source content
// - {{source}} - Full source content
// - {{brand}} - Brand name
// - {{cta}} - Brand call to action
// - {{time}} - Generation time
func Render(template string, vars Variables) string {
	result := template

	replacements := map[string]string{
		"{{label}}":    vars.Label,
		"{{platform}}": vars.Platform,
		"{{summary}}":  vars.Summary,
		"{{source}}":   vars.Source,
		"{{brand}}":    vars.Brand,
		"{{cta}}":      vars.CTA,
		"{{time}}":     vars.Time,
	}

	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	return result
}

// LoadFromFile loads a template from a file.
// If the file doesn't exist or can't be read, returns an error.
func LoadFromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read template file %s: %w", path, err)
	}
	return string(data), nil
}

// GetTemplate returns the post template content.
// If customPath is non-empty, loads from that file.
// Otherwise returns the default embedded template.
func GetTemplate(customPath string) (string, error) {
	if customPath == "" {
		return DefaultPostTemplate, nil
	}
	return LoadFromFile(customPath)
}

// Summarize condenses source content to its first sentence, collapsing
// whitespace and capping the result at max runes.
func Summarize(source string, max int) string {
	text := strings.Join(strings.Fields(source), " ")
	if text == "" {
		return ""
	}
	if i := strings.IndexAny(text, ".!?"); i >= 0 {
		text = text[:i+1]
	}
	return Truncate(text, max)
}

// Truncate caps s at max runes, marking the cut with an ellipsis.
// A non-positive max disables truncation.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	runes := []rune(s)
	cut := strings.TrimRightFunc(string(runes[:max-1]), unicode.IsSpace)
	return cut + "…"
}

// Hashtags turns keywords into a space separated hashtag string, keeping at most limit tags.
func Hashtags(keywords []string, limit int) string {
	tags := make([]string, 0, len(keywords))
	seen := make(map[string]bool)
	for _, kw := range keywords {
		if limit > 0 && len(tags) >= limit {
			break
		}
		var b strings.Builder
		for _, r := range strings.ToLower(kw) {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(r)
			}
		}
		tag := b.String()
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, "#"+tag)
	}
	return strings.Join(tags, " ")
}

// CountHashtags counts whitespace separated tokens starting with '#'.
func CountHashtags(s string) int {
	n := 0
	for _, f := range strings.Fields(s) {
		if strings.HasPrefix(f, "#") && len(f) > 1 {
			n++
		}
	}
	return n
}

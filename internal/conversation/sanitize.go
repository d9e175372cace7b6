package conversation

import (
	"regexp"
	"strings"
)

var (
	thinkBlockRegex   = regexp.MustCompile(`(?s)<think>.*?</think>`)
	jsonFenceRegex    = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")
	controlCharsRegex = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	lineBreakRegex    = regexp.MustCompile(`[ \t]*[\r\n]+[ \t\r\n]*`)
)

// cleanReply strips reasoning blocks and a surrounding markdown fence that
// some models emit around the JSON object.
func cleanReply(raw string) string {
	s := thinkBlockRegex.ReplaceAllString(raw, "")
	s = strings.TrimSpace(s)
	if m := jsonFenceRegex.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	return s
}

// cleanField drops control characters and joins the lines of a field with a
// single space so the rendered exercise keeps its three-line layout. Other
// spacing, including full-width spaces, is kept as returned.
func cleanField(s string) string {
	s = controlCharsRegex.ReplaceAllString(s, "")
	s = lineBreakRegex.ReplaceAllString(s, " ")
	return strings.Trim(s, " \t")
}

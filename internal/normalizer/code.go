package normalizer

import (
	"regexp"
	"strings"
)

var reDigitRun = regexp.MustCompile(`\d+`)

// NormalizeCode returns the numeric identity of a center code: the first run
// of decimal digits with leading zeros dropped. Codes without digits are
// returned trimmed. "C14700651", "14700651C" and "014700651" all yield
// "14700651".
func NormalizeCode(raw string) string {
	trimmed := strings.TrimSpace(raw)
	m := reDigitRun.FindString(trimmed)
	if m == "" {
		return trimmed
	}
	if n := strings.TrimLeft(m, "0"); n != "" {
		return n
	}
	return "0"
}

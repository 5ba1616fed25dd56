package normalizer

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidInput is returned for empty or malformed user text.
var ErrInvalidInput = errors.New("invalid input")

// Mode selects how a pattern is anchored.
type Mode int

const (
	// Exact anchors the pattern to the whole string.
	Exact Mode = iota
	// Partial matches anywhere in the string.
	Partial
)

func (m Mode) String() string {
	if m == Partial {
		return "partial"
	}
	return "exact"
}

// vowelClasses maps each vowel form to the class covering its accented variants.
var vowelClasses = map[rune]string{
	'a': "[aáà]", 'á': "[aáà]", 'à': "[aáà]",
	'e': "[eéè]", 'é': "[eéè]", 'è': "[eéè]",
	'i': "[iíì]", 'í': "[iíì]", 'ì': "[iíì]",
	'o': "[oóò]", 'ó': "[oóò]", 'ò': "[oóò]",
	'u': "[uúù]", 'ú': "[uúù]", 'ù': "[uúù]",
	'A': "[AÁÀ]", 'Á': "[AÁÀ]", 'À': "[AÁÀ]",
	'E': "[EÉÈ]", 'É': "[EÉÈ]", 'È': "[EÉÈ]",
	'I': "[IÍÌ]", 'Í': "[IÍÌ]", 'Ì': "[IÍÌ]",
	'O': "[OÓÒ]", 'Ó': "[OÓÒ]", 'Ò': "[OÓÒ]",
	'U': "[UÚÙ]", 'Ú': "[UÚÙ]", 'Ù': "[UÚÙ]",
}

// MatchPattern is an immutable, case-insensitive, diacritic-tolerant pattern.
type MatchPattern struct {
	source string
	mode   Mode
	expr   string
	re     *regexp.Regexp
}

// BuildPattern builds a pattern from literal user text. Vowels match their
// accented variants, every other character matches itself literally.
func BuildPattern(text string, mode Mode) (*MatchPattern, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty pattern text", ErrInvalidInput)
	}

	var b strings.Builder
	for _, r := range text {
		if class, ok := vowelClasses[r]; ok {
			b.WriteString(class)
			continue
		}
		b.WriteString(regexp.QuoteMeta(string(r)))
	}

	body := b.String()
	var expr string
	if mode == Partial {
		expr = ".*" + body + ".*"
	} else {
		expr = "^" + body + "$"
	}

	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return &MatchPattern{source: text, mode: mode, expr: expr, re: re}, nil
}

// Expr returns the expression without flags, suitable for a Mongo $regex
// with option "i".
func (p *MatchPattern) Expr() string { return p.expr }

// Options returns the regex options that accompany Expr.
func (p *MatchPattern) Options() string { return "i" }

// Source returns the text the pattern was built from.
func (p *MatchPattern) Source() string { return p.source }

// Mode returns the anchoring mode.
func (p *MatchPattern) Mode() Mode { return p.mode }

// Regexp returns the compiled case-insensitive expression.
func (p *MatchPattern) Regexp() *regexp.Regexp { return p.re }

// MatchString reports whether s matches the pattern.
func (p *MatchPattern) MatchString(s string) bool {
	return p.re.MatchString(s)
}

func (p *MatchPattern) String() string {
	return fmt.Sprintf("%s(%s)", p.mode, p.expr)
}

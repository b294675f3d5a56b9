package palette

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// AccentPlaceholder is the reserved color name resolved through the
// caller-selected accent color.
const AccentPlaceholder = "accent-color"

// DefaultAccent is the accent used when none is configured.
const DefaultAccent = "peach"

const maxAlpha = 255

var anyPlaceholder = regexp.MustCompile(`var\(--ctp-[A-Za-z0-9_-]+(?:,\s*\d+\s*)?\)`)

type rule struct {
	plain string
	alpha *regexp.Regexp
	hex   string
}

func newRule(name, hex string) rule {
	return rule{
		plain: "var(--ctp-" + name + ")",
		alpha: regexp.MustCompile(`var\(--ctp-` + regexp.QuoteMeta(name) + `,\s*(\d+)\s*\)`),
		hex:   hex,
	}
}

func (r rule) apply(s string) string {
	s = strings.ReplaceAll(s, r.plain, r.hex)
	return r.alpha.ReplaceAllStringFunc(s, func(match string) string {
		sub := r.alpha.FindStringSubmatch(match)
		alpha, err := strconv.Atoi(sub[1])
		if err != nil || alpha > maxAlpha {
			return match
		}
		return WithAlpha(r.hex, alpha)
	})
}

// Substitutor rewrites color placeholders for one flavor.
type Substitutor struct {
	rules []rule
	// AccentFound reports whether the configured accent resolved to a color.
	AccentFound bool
}

// NewSubstitutor prepares the replacement rules for flavor. The accent rule is
// only added when accent names a color in the flavor.
func NewSubstitutor(f Flavor, accent string) *Substitutor {
	s := &Substitutor{rules: make([]rule, 0, len(f.Colors)+1)}
	for _, c := range f.Colors {
		s.rules = append(s.rules, newRule(c.Name, c.Hex))
	}
	if accent != "" {
		if c, ok := f.Lookup(accent); ok {
			s.rules = append(s.rules, newRule(AccentPlaceholder, c.Hex))
			s.AccentFound = true
		}
	}
	return s
}

// Replace applies every rule once, in table order, accent last. Values
// inserted by one rule are never rescanned as placeholders.
func (s *Substitutor) Replace(text string) string {
	for _, r := range s.rules {
		text = r.apply(text)
	}
	return text
}

// Substitute replaces var(--ctp-<name>) and var(--ctp-<name>, <alpha>) with
// hex colors from f, then resolves var(--ctp-accent-color) through accent.
// Placeholders naming unknown colors are left as they are.
func Substitute(text string, f Flavor, accent string) string {
	return NewSubstitutor(f, accent).Replace(text)
}

// WithAlpha appends alpha (0-255) to hex as two lowercase hex digits.
func WithAlpha(hex string, alpha int) string {
	return hex + fmt.Sprintf("%02x", alpha)
}

// Unresolved returns the distinct placeholders still present in text, in
// order of first appearance.
func Unresolved(text string) []string {
	return lo.Uniq(anyPlaceholder.FindAllString(text, -1))
}

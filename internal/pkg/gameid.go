package pkg

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	defaultAttempts = 16
	fallbackName    = "room"
)

// IDGenerator - produces short, human-readable room identifiers.
type IDGenerator struct {
	names    []string
	attempts int
	intN     func(n int) int
	now      func() time.Time
}

type IDOption func(*IDGenerator)

// WithAttempts sets how many random draws happen before the deterministic sweep.
func WithAttempts(n int) IDOption {
	return func(g *IDGenerator) {
		g.attempts = n
	}
}

// WithRand replaces the uniform source used for random draws.
func WithRand(intN func(n int) int) IDOption {
	return func(g *IDGenerator) {
		g.intN = intN
	}
}

func WithClock(now func() time.Time) IDOption {
	return func(g *IDGenerator) {
		g.now = now
	}
}

// NewIDGenerator - normalizes names once and drops duplicates and empties.
func NewIDGenerator(names []string, opts ...IDOption) *IDGenerator {
	g := &IDGenerator{
		attempts: defaultAttempts,
		intN:     rand.IntN, //nolint: gosec // ids are not secrets
		now:      time.Now,
	}

	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		normalized := NormalizeName(name)
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		g.names = append(g.names, normalized)
	}

	if len(g.names) == 0 {
		g.names = []string{fallbackName}
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Generate - returns an identifier for which isTaken reports false.
func (that *IDGenerator) Generate(isTaken func(string) bool) string {
	for range that.attempts {
		candidate := that.names[that.intN(len(that.names))]
		if !isTaken(candidate) {
			return candidate
		}
	}

	for _, name := range that.names {
		for a := 'a'; a <= 'z'; a++ {
			for b := 'a'; b <= 'z'; b++ {
				candidate := name + "-" + string([]rune{a, b})
				if !isTaken(candidate) {
					return candidate
				}
			}
		}
	}

	base := that.names[0]
	for stamp := that.now().UnixNano(); ; stamp++ {
		candidate := base + "-" + strconv.FormatInt(stamp, 36)
		if !isTaken(candidate) {
			return candidate
		}
	}
}

var stripMarks = runes.Remove(runes.In(unicode.Mn))

// NormalizeName - lowercases, strips diacritics and collapses every run of
// non-alphanumerics into a single hyphen. The result matches
// [a-z0-9]+(-[a-z0-9]+)* and normalizing it again returns it unchanged.
func NormalizeName(name string) string {
	t := transform.Chain(norm.NFD, stripMarks, norm.NFC)
	stripped, _, err := transform.String(t, name)
	if err != nil {
		stripped = name
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(stripped) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	if b.Len() == 0 {
		return fallbackName
	}

	return b.String()
}

package pkg

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var idPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"Ada Lovelace":         "ada-lovelace",
		"José Raúl Capablanca": "jose-raul-capablanca",
		"Paul Erdős":           "paul-erdos",
		"Al-Khwārizmī":         "al-khwarizmi",
		"  --Hello,, World!--": "hello-world",
		"R2-D2":                "r2-d2",
		"!!!":                  "room",
		"":                     "room",
	}

	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			got := NormalizeName(in)

			assert.Equal(t, want, got)
			assert.Regexp(t, idPattern, got)
			assert.Equal(t, got, NormalizeName(got), "normalization must be idempotent")
		})
	}
}

func TestNormalizeName_DefaultNamesConform(t *testing.T) {
	for _, name := range DefaultNames {
		got := NormalizeName(name)
		assert.Regexp(t, idPattern, got, name)
		assert.Equal(t, got, NormalizeName(got), name)
	}
}

func TestIDGenerator_Generate(t *testing.T) {
	t.Run("Produces distinct ids for repeated calls", func(t *testing.T) {
		// Given: a generator over the default names and a growing taken set
		g := NewIDGenerator(DefaultNames)
		taken := make(map[string]struct{})
		isTaken := func(id string) bool {
			_, ok := taken[id]
			return ok
		}

		// When: generating many more ids than there are names
		for range 500 {
			id := g.Generate(isTaken)

			// Then: every id is new and conforms to the pattern
			require.NotContains(t, taken, id)
			require.Regexp(t, idPattern, id)
			taken[id] = struct{}{}
		}
	})

	t.Run("Sweeps suffixes when random draws are exhausted", func(t *testing.T) {
		// Given: a single name that is already taken
		g := NewIDGenerator([]string{"Ada"}, WithAttempts(3))

		// When: generating
		id := g.Generate(func(id string) bool { return id == "ada" || id == "ada-aa" })

		// Then: the deterministic sweep picks the next free suffix
		assert.Equal(t, "ada-ab", id)
	})

	t.Run("Falls back to a base-36 timestamp", func(t *testing.T) {
		// Given: every name and every two-letter suffix is taken
		clock := func() time.Time { return time.Unix(0, 36*36) }
		g := NewIDGenerator([]string{"Ada"}, WithAttempts(1), WithClock(clock))
		isTaken := func(id string) bool { return len(id) <= len("ada-zz") }

		// When: generating
		id := g.Generate(isTaken)

		// Then: the timestamp suffix is used
		assert.Equal(t, "ada-100", id)
		assert.Regexp(t, idPattern, id)
	})

	t.Run("Timestamp fallback keeps counting until free", func(t *testing.T) {
		clock := func() time.Time { return time.Unix(0, 36*36) }
		g := NewIDGenerator([]string{"Ada"}, WithAttempts(0), WithClock(clock))
		isTaken := func(id string) bool { return len(id) <= len("ada-zz") || id == "ada-100" }

		assert.Equal(t, "ada-101", g.Generate(isTaken))
	})

	t.Run("Random draws use the injected source", func(t *testing.T) {
		g := NewIDGenerator([]string{"Ada", "Alan", "Grace"}, WithRand(func(int) int { return 2 }))

		assert.Equal(t, "grace", g.Generate(func(string) bool { return false }))
	})

	t.Run("Empty name list still terminates", func(t *testing.T) {
		g := NewIDGenerator(nil)

		assert.Equal(t, "room", g.Generate(func(string) bool { return false }))
	})
}

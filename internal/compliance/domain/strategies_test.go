package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sanctionsEntry(list, primary string, aliases ...string) SanctionsEntry {
	return SanctionsEntry{
		EntryID:     "E-" + primary,
		ListName:    list,
		PrimaryName: primary,
		Aliases:     aliases,
		IsActive:    true,
	}
}

func TestExactStrategy(t *testing.T) {
	s := &ExactStrategy{}
	entry := sanctionsEntry("OFAC_SDN", "John Doe", "Johnny D")

	tests := []struct {
		name      string
		terms     []string
		wantMatch bool
		wantScore float64
	}{
		{"verbatim", []string{"John Doe"}, true, 100},
		{"case insensitive", []string{"JOHN DOE"}, true, 100},
		{"whitespace normalised", []string{"  john   doe "}, true, 100},
		{"alias hit", []string{"Johnny D"}, true, 100},
		{"no match", []string{"Jane Smith"}, false, 0},
		{"partial is not exact", []string{"John"}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match := s.Screen(tt.terms, &entry)
			assert.Equal(t, tt.wantMatch, match.IsMatch)
			assert.InDelta(t, tt.wantScore, match.Score, 1e-9)
		})
	}
}

func TestFuzzyStrategy(t *testing.T) {
	s := &FuzzyStrategy{Threshold: 0.75}
	entry := sanctionsEntry("OFAC_SDN", "Mohammed Al Rashid")

	t.Run("full token coverage", func(t *testing.T) {
		match := s.Screen([]string{"Mohammed Al Rashid"}, &entry)
		assert.True(t, match.IsMatch)
		assert.InDelta(t, 100, match.Score, 1e-9)
	})

	t.Run("partial coverage below threshold", func(t *testing.T) {
		match := s.Screen([]string{"Mohammed Karim"}, &entry) // 1/2 词元覆盖
		assert.False(t, match.IsMatch)
		assert.InDelta(t, 50, match.Score, 1e-9)
	})

	t.Run("no coverage", func(t *testing.T) {
		match := s.Screen([]string{"Jane Smith"}, &entry)
		assert.False(t, match.IsMatch)
		assert.Zero(t, match.Score)
	})
}

func TestPhoneticStrategy(t *testing.T) {
	s := &PhoneticStrategy{}

	t.Run("one edit apart", func(t *testing.T) {
		entry := sanctionsEntry("UN_CONSOLIDATED", "Jon Doe")
		match := s.Screen([]string{"John Doe"}, &entry)
		// d=1, maxLen=8 → score 87.5
		assert.True(t, match.IsMatch)
		assert.InDelta(t, 87.5, match.Score, 1e-6)
	})

	t.Run("dissimilar names below 80", func(t *testing.T) {
		entry := sanctionsEntry("UN_CONSOLIDATED", "Vladimir Petrov")
		match := s.Screen([]string{"John Doe"}, &entry)
		assert.False(t, match.IsMatch)
		assert.Less(t, match.Score, 80.0)
	})
}

func TestAliasStrategy(t *testing.T) {
	s := &AliasStrategy{}

	t.Run("substring of alias", func(t *testing.T) {
		entry := sanctionsEntry("EU_SANCTIONS", "Corporation X", "Golden Star Trading")
		match := s.Screen([]string{"Golden Star"}, &entry)
		assert.True(t, match.IsMatch)
		assert.InDelta(t, 75, match.Score, 1e-9)
	})

	t.Run("alias substring of term", func(t *testing.T) {
		entry := sanctionsEntry("EU_SANCTIONS", "Corporation X", "Star")
		match := s.Screen([]string{"Golden Star Holdings"}, &entry)
		assert.True(t, match.IsMatch)
		assert.InDelta(t, 75, match.Score, 1e-9)
	})

	t.Run("no aliases yields no score", func(t *testing.T) {
		entry := sanctionsEntry("EU_SANCTIONS", "Golden Star")
		match := s.Screen([]string{"Golden Star"}, &entry)
		assert.False(t, match.IsMatch)
		assert.Zero(t, match.Score)
	})
}

func TestPartialStrategy(t *testing.T) {
	s := &PartialStrategy{}
	entry := sanctionsEntry("OFAC_SDN", "Aleksandr Volkov")

	t.Run("term inside primary name", func(t *testing.T) {
		match := s.Screen([]string{"Volkov"}, &entry)
		assert.True(t, match.IsMatch)
		assert.InDelta(t, 60, match.Score, 1e-9)
	})

	t.Run("shorter side under four chars is silent", func(t *testing.T) {
		match := s.Screen([]string{"Vol"}, &entry)
		assert.False(t, match.IsMatch)
		assert.Zero(t, match.Score)
	})

	t.Run("unrelated", func(t *testing.T) {
		match := s.Screen([]string{"Jane Smith"}, &entry)
		assert.False(t, match.IsMatch)
	})
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"john", "jon", 1},
		{"same", "same", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, levenshtein(tt.a, tt.b), "levenshtein(%q,%q)", tt.a, tt.b)
	}
}

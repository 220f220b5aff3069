package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScreener(t *testing.T) *Screener {
	t.Helper()
	screener, err := NewScreener(DefaultScreeningConfig())
	require.NoError(t, err)
	return screener
}

func TestNewScreener_InvalidConfig(t *testing.T) {
	_, err := NewScreener(ScreeningConfig{MatchThreshold: 1.5})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestScreen_ExactSanctionsMatch(t *testing.T) {
	screener := newTestScreener(t)
	entries := []SanctionsEntry{
		sanctionsEntry("OFAC_SDN", "John Doe"),
		sanctionsEntry("EU_SANCTIONS", "Vladimir Petrov"),
	}

	result := screener.Screen([]string{"John Doe", "Doe, John"}, entries)

	assert.True(t, result.IsMatch)
	assert.InDelta(t, 100, result.MatchScore, 1e-9)
	assert.Equal(t, []string{"OFAC_SDN"}, result.MatchedLists)
	assert.NotEmpty(t, result.MatchDetails)
}

func TestScreen_NoMatch(t *testing.T) {
	screener := newTestScreener(t)
	entries := []SanctionsEntry{
		sanctionsEntry("OFAC_SDN", "John Doe"),
		sanctionsEntry("OFAC_SDN", "Vladimir Petrov"),
		sanctionsEntry("UN_CONSOLIDATED", "Mohammed Al Rashid"),
	}

	result := screener.Screen([]string{"Jane Smith"}, entries)

	assert.False(t, result.IsMatch)
	assert.Empty(t, result.MatchedLists)
	assert.Less(t, result.MatchScore, 100*DefaultScreeningConfig().MatchThreshold)
}

func TestScreen_InactiveEntriesIgnored(t *testing.T) {
	screener := newTestScreener(t)
	inactive := sanctionsEntry("OFAC_SDN", "John Doe")
	inactive.IsActive = false

	result := screener.Screen([]string{"John Doe"}, []SanctionsEntry{inactive})

	assert.False(t, result.IsMatch)
	assert.Zero(t, result.MatchScore)
	assert.Empty(t, result.MatchedLists)
}

func TestScreen_EmptyEntrySet(t *testing.T) {
	screener := newTestScreener(t)

	result := screener.Screen([]string{"John Doe"}, nil)

	assert.False(t, result.IsMatch)
	assert.Zero(t, result.MatchScore)
	assert.Empty(t, result.MatchedLists)
	assert.NotEmpty(t, result.MatchDetails)
}

func TestScreen_MatchImpliesMatchedLists(t *testing.T) {
	screener := newTestScreener(t)
	entries := []SanctionsEntry{
		sanctionsEntry("OFAC_SDN", "John Doe", "Johnny D"),
		sanctionsEntry("EU_SANCTIONS", "Jon Doe"),
	}

	result := screener.Screen([]string{"John Doe"}, entries)

	if result.IsMatch {
		assert.NotEmpty(t, result.MatchedLists)
	}
	// 命中多份名单时列表去重且有序
	assert.Equal(t, []string{"EU_SANCTIONS", "OFAC_SDN"}, result.MatchedLists)
}

func TestScreen_ScoreMonotonicInStrategyScores(t *testing.T) {
	screener := newTestScreener(t)
	weak := []SanctionsEntry{sanctionsEntry("LIST_A", "Aleksandr Volkov")}
	strong := append([]SanctionsEntry{}, weak...)
	strong = append(strong, sanctionsEntry("LIST_B", "Volkov"))

	weakResult := screener.Screen([]string{"Volkov"}, weak)
	strongResult := screener.Screen([]string{"Volkov"}, strong)

	// 增加更高分的条目不会降低聚合得分
	assert.GreaterOrEqual(t, strongResult.MatchScore, weakResult.MatchScore)
}

func TestScreen_Deterministic(t *testing.T) {
	screener := newTestScreener(t)
	entries := []SanctionsEntry{
		sanctionsEntry("OFAC_SDN", "John Doe"),
		sanctionsEntry("EU_SANCTIONS", "Jon Doe"),
	}

	first := screener.Screen([]string{"John Doe"}, entries)
	second := screener.Screen([]string{"John Doe"}, entries)

	assert.Equal(t, first.IsMatch, second.IsMatch)
	assert.Equal(t, first.MatchScore, second.MatchScore)
	assert.Equal(t, first.MatchedLists, second.MatchedLists)
	assert.Equal(t, first.MatchDetails, second.MatchDetails)
}

func TestScreenName(t *testing.T) {
	screener := newTestScreener(t)
	entries := []SanctionsEntry{sanctionsEntry("OFAC_SDN", "John Doe")}

	t.Run("hit", func(t *testing.T) {
		result := screener.ScreenName("john doe", entries)
		assert.True(t, result.IsMatch)
		assert.InDelta(t, 100, result.MatchScore, 1e-9)
	})

	t.Run("empty name", func(t *testing.T) {
		result := screener.ScreenName("   ", entries)
		assert.False(t, result.IsMatch)
		assert.Zero(t, result.MatchScore)
	})
}

func TestCustomerSearchTerms(t *testing.T) {
	customer := &Customer{
		CustomerID: "CUST001",
		FirstName:  "John",
		LastName:   "Doe",
		Documents: DocumentList{
			{Type: "PASSPORT", Number: "P1234567"},
			{Type: "NATIONAL_ID", Number: ""},
		},
	}

	terms := customer.SearchTerms()

	assert.ElementsMatch(t, []string{"John Doe", "Doe, John", "John", "Doe", "P1234567"}, terms)

	t.Run("blank components dropped and deduplicated", func(t *testing.T) {
		c := &Customer{CustomerID: "CUST002", FirstName: "Cher"}
		assert.ElementsMatch(t, []string{"Cher"}, c.SearchTerms())
	})
}

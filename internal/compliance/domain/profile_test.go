package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTx(id, customerID string, amount float64, ts time.Time) Transaction {
	return Transaction{
		TransactionID: id,
		CustomerID:    customerID,
		Amount:        decimal.NewFromFloat(amount),
		Currency:      "USD",
		Timestamp:     ts,
	}
}

func makeTxCountry(id string, amount float64, ts time.Time, country string) Transaction {
	tx := makeTx(id, "CUST001", amount, ts)
	tx.CounterpartyCountry = country
	return tx
}

func TestBuildProfile_Empty(t *testing.T) {
	profile := BuildProfile(nil)

	require.NotNil(t, profile)
	assert.Equal(t, 0, profile.TotalTransactions)
	assert.Zero(t, profile.AverageAmount)
	assert.Zero(t, profile.TotalVolume)
	assert.Zero(t, profile.AmountVariance)
	assert.Empty(t, profile.CountryFrequency)
	assert.Empty(t, profile.HourHistogram)
}

func TestBuildProfile_SingleTransaction(t *testing.T) {
	ts := time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC)
	profile := BuildProfile([]Transaction{makeTx("TX1", "CUST001", 1000, ts)})

	assert.Equal(t, 1, profile.TotalTransactions)
	assert.InDelta(t, 1000, profile.AverageAmount, 1e-9)
	assert.InDelta(t, 1000, profile.TotalVolume, 1e-9)
	// 样本方差在交易数不足 2 时为 0
	assert.Zero(t, profile.AmountVariance)
	assert.Equal(t, 1, profile.HourHistogram[14])
}

func TestBuildProfile_Statistics(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	history := []Transaction{
		makeTxCountry("TX1", 100, base, "US"),
		makeTxCountry("TX2", 200, base.Add(time.Hour), "US"),
		makeTxCountry("TX3", 300, base.Add(2*time.Hour), "GB"),
	}

	profile := BuildProfile(history)

	assert.Equal(t, 3, profile.TotalTransactions)
	assert.InDelta(t, 200, profile.AverageAmount, 1e-9)
	assert.InDelta(t, 600, profile.TotalVolume, 1e-9)
	// 样本方差: ((100-200)^2 + 0 + (300-200)^2) / (3-1) = 10000
	assert.InDelta(t, 10000, profile.AmountVariance, 1e-6)
	assert.Equal(t, 2, profile.CountryFrequency["US"])
	assert.Equal(t, 1, profile.CountryFrequency["GB"])
	assert.Equal(t, 1, profile.HourHistogram[10])
	assert.Equal(t, 1, profile.HourHistogram[11])
	assert.Equal(t, 1, profile.HourHistogram[12])
}

func TestBuildProfile_AverageInvariant(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	history := make([]Transaction, 0, 20)
	for i := 0; i < 20; i++ {
		history = append(history, makeTx("TX", "CUST001", float64(50+i*13), base.Add(time.Duration(i)*time.Minute)))
	}

	profile := BuildProfile(history)

	assert.InDelta(t, profile.TotalVolume/float64(profile.TotalTransactions), profile.AverageAmount, 1e-9)
	assert.GreaterOrEqual(t, profile.AmountVariance, 0.0)
}

func TestNightHourRatio(t *testing.T) {
	day := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	night := time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC)

	history := []Transaction{
		makeTx("TX1", "CUST001", 100, day),
		makeTx("TX2", "CUST001", 100, day.Add(time.Hour)),
		makeTx("TX3", "CUST001", 100, night),
		makeTx("TX4", "CUST001", 100, night.Add(3*time.Hour)), // 次日 02:30
	}

	profile := BuildProfile(history)
	assert.InDelta(t, 0.5, profile.NightHourRatio(), 1e-9)

	assert.Zero(t, BuildProfile(nil).NightHourRatio())
}

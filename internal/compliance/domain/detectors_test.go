package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monitoringCtx(amount float64, history []Transaction) *MonitoringContext {
	ts := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	tx := makeTx("TX-CUR", "CUST001", amount, ts)
	customer := &Customer{CustomerID: "CUST001", FirstName: "Alice", LastName: "Wang", Type: CustomerTypeIndividual}
	return NewMonitoringContext(&tx, customer, history)
}

func TestHighValueDetector(t *testing.T) {
	d := &HighValueDetector{Threshold: 10000}

	tests := []struct {
		name         string
		amount       float64
		wantTrigger  bool
		wantSeverity Severity
		wantScore    float64
	}{
		{"below threshold", 9000, false, "", 0},
		{"at threshold", 10000, true, SeverityHigh, 25},
		{"moderate excess", 15000, true, SeverityHigh, 37.5},
		{"critical at 5x", 50000, true, SeverityCritical, 100},
		{"score capped at 100", 80000, true, SeverityCritical, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := d.Evaluate(monitoringCtx(tt.amount, nil))
			require.NoError(t, err)
			if !tt.wantTrigger {
				assert.Nil(t, rule)
				return
			}
			require.NotNil(t, rule)
			assert.Equal(t, tt.wantSeverity, rule.Severity)
			assert.InDelta(t, tt.wantScore, rule.RiskScore, 1e-9)
		})
	}
}

func TestVelocityDetector(t *testing.T) {
	d := &VelocityDetector{MaxTransactions: 10, WindowHours: 1}
	mctx := monitoringCtx(100, nil)
	now := mctx.Transaction.Timestamp

	history := make([]Transaction, 0, 12)
	for i := 0; i < 12; i++ {
		history = append(history, makeTx("TX", "CUST001", 100, now.Add(-time.Duration(i+1)*time.Minute)))
	}
	mctx.History = history
	mctx.Profile = BuildProfile(history)

	rule, err := d.Evaluate(mctx)
	require.NoError(t, err)
	require.NotNil(t, rule)
	assert.Equal(t, SeverityMedium, rule.Severity)
	assert.InDelta(t, 36, rule.RiskScore, 1e-9) // 12/10*30

	t.Run("window boundary excluded", func(t *testing.T) {
		old := []Transaction{makeTx("TX-OLD", "CUST001", 100, now.Add(-2*time.Hour))}
		mctx := monitoringCtx(100, old)
		rule, err := d.Evaluate(mctx)
		require.NoError(t, err)
		assert.Nil(t, rule)
	})

	t.Run("at limit is silent", func(t *testing.T) {
		history := make([]Transaction, 0, 10)
		for i := 0; i < 10; i++ {
			history = append(history, makeTx("TX", "CUST001", 100, now.Add(-time.Duration(i+1)*time.Minute)))
		}
		rule, err := d.Evaluate(monitoringCtx(100, history))
		require.NoError(t, err)
		assert.Nil(t, rule)
	})
}

func TestRoundAmountDetector(t *testing.T) {
	d := &RoundAmountDetector{HighValueThreshold: 10000}

	tests := []struct {
		name         string
		amount       float64
		wantTrigger  bool
		wantSeverity Severity
		wantScore    float64
	}{
		{"near threshold", 9999.99, true, SeverityHigh, 40},
		{"near threshold lower bound", 9500.01, true, SeverityHigh, 40},
		{"exact round", 6000, true, SeverityMedium, 20},
		{"round but below 5000", 4000, false, "", 0},
		{"not round", 6123.45, false, "", 0},
		{"above threshold silent", 15000, false, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := d.Evaluate(monitoringCtx(tt.amount, nil))
			require.NoError(t, err)
			if !tt.wantTrigger {
				assert.Nil(t, rule)
				return
			}
			require.NotNil(t, rule)
			assert.Equal(t, tt.wantSeverity, rule.Severity)
			assert.InDelta(t, tt.wantScore, rule.RiskScore, 1e-9)
		})
	}

	t.Run("near threshold wins over exact round", func(t *testing.T) {
		d := &RoundAmountDetector{HighValueThreshold: 10500}
		rule, err := d.Evaluate(monitoringCtx(10000, nil)) // 同时满足两种模式
		require.NoError(t, err)
		require.NotNil(t, rule)
		assert.Equal(t, SeverityHigh, rule.Severity)
		assert.InDelta(t, 40, rule.RiskScore, 1e-9)
	})
}

func TestGeographicDetector(t *testing.T) {
	cfg := DefaultMonitoringConfig()
	d := &GeographicDetector{HighRiskCountries: cfg.HighRiskCountrySet()}
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("high risk jurisdiction", func(t *testing.T) {
		mctx := monitoringCtx(100, nil)
		mctx.Transaction.CounterpartyCountry = "KP"
		rule, err := d.Evaluate(mctx)
		require.NoError(t, err)
		require.NotNil(t, rule)
		assert.Equal(t, SeverityHigh, rule.Severity)
		assert.InDelta(t, 50, rule.RiskScore, 1e-9)
	})

	t.Run("unseen country with sufficient history", func(t *testing.T) {
		history := make([]Transaction, 0, 12)
		for i := 0; i < 12; i++ {
			history = append(history, makeTxCountry("TX", 100, base.Add(time.Duration(i)*time.Hour), "US"))
		}
		mctx := monitoringCtx(100, history)
		mctx.Transaction.CounterpartyCountry = "BR"
		rule, err := d.Evaluate(mctx)
		require.NoError(t, err)
		require.NotNil(t, rule)
		assert.Equal(t, SeverityMedium, rule.Severity)
		assert.InDelta(t, 25, rule.RiskScore, 1e-9)
	})

	t.Run("unseen country without history is silent", func(t *testing.T) {
		mctx := monitoringCtx(100, nil)
		mctx.Transaction.CounterpartyCountry = "BR"
		rule, err := d.Evaluate(mctx)
		require.NoError(t, err)
		assert.Nil(t, rule)
	})

	t.Run("familiar country is silent", func(t *testing.T) {
		history := make([]Transaction, 0, 12)
		for i := 0; i < 12; i++ {
			history = append(history, makeTxCountry("TX", 100, base.Add(time.Duration(i)*time.Hour), "US"))
		}
		mctx := monitoringCtx(100, history)
		mctx.Transaction.CounterpartyCountry = "US"
		rule, err := d.Evaluate(mctx)
		require.NoError(t, err)
		assert.Nil(t, rule)
	})
}

func TestTimeAnomalyDetector(t *testing.T) {
	d := &TimeAnomalyDetector{}
	dayBase := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	dayHistory := func(n int) []Transaction {
		history := make([]Transaction, 0, n)
		for i := 0; i < n; i++ {
			history = append(history, makeTx("TX", "CUST001", 100, dayBase.Add(time.Duration(i%8)*time.Hour)))
		}
		return history
	}

	t.Run("night transaction against day habits", func(t *testing.T) {
		mctx := monitoringCtx(100, dayHistory(15))
		mctx.Transaction.Timestamp = time.Date(2026, 3, 2, 23, 30, 0, 0, time.UTC)
		rule, err := d.Evaluate(mctx)
		require.NoError(t, err)
		require.NotNil(t, rule)
		assert.Equal(t, SeverityLow, rule.Severity)
		assert.InDelta(t, 15, rule.RiskScore, 1e-9)
	})

	t.Run("daytime is silent", func(t *testing.T) {
		mctx := monitoringCtx(100, dayHistory(15))
		rule, err := d.Evaluate(mctx)
		require.NoError(t, err)
		assert.Nil(t, rule)
	})

	t.Run("insufficient history is silent", func(t *testing.T) {
		mctx := monitoringCtx(100, dayHistory(5))
		mctx.Transaction.Timestamp = time.Date(2026, 3, 2, 2, 0, 0, 0, time.UTC)
		rule, err := d.Evaluate(mctx)
		require.NoError(t, err)
		assert.Nil(t, rule)
	})

	t.Run("habitual night trader is silent", func(t *testing.T) {
		history := make([]Transaction, 0, 15)
		for i := 0; i < 15; i++ {
			history = append(history, makeTx("TX", "CUST001", 100, time.Date(2026, 3, 1, 1, i, 0, 0, time.UTC)))
		}
		mctx := monitoringCtx(100, history)
		mctx.Transaction.Timestamp = time.Date(2026, 3, 2, 2, 0, 0, 0, time.UTC)
		rule, err := d.Evaluate(mctx)
		require.NoError(t, err)
		assert.Nil(t, rule)
	})
}

func TestCounterpartyDetector(t *testing.T) {
	d := &CounterpartyDetector{SuspiciousTokens: []string{"cash", "bearer", "anonymous", "shell"}}

	tests := []struct {
		name        string
		counterpart string
		wantTrigger bool
	}{
		{"shell company", "Golden Shell Trading Ltd", true},
		{"case insensitive", "CASH EXPRESS LLC", true},
		{"clean name", "Acme Manufacturing", false},
		{"empty name", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mctx := monitoringCtx(100, nil)
			mctx.Transaction.CounterpartyName = tt.counterpart
			rule, err := d.Evaluate(mctx)
			require.NoError(t, err)
			if !tt.wantTrigger {
				assert.Nil(t, rule)
				return
			}
			require.NotNil(t, rule)
			assert.Equal(t, SeverityMedium, rule.Severity)
			assert.InDelta(t, 30, rule.RiskScore, 1e-9)
		})
	}
}

func TestBehavioralDetector(t *testing.T) {
	d := &BehavioralDetector{}
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	steadyHistory := func(n int, amount float64) []Transaction {
		history := make([]Transaction, 0, n)
		for i := 0; i < n; i++ {
			history = append(history, makeTx("TX", "CUST001", amount, base.Add(time.Duration(i)*time.Hour)))
		}
		return history
	}

	t.Run("large deviation", func(t *testing.T) {
		mctx := monitoringCtx(1000, steadyHistory(10, 100)) // r = 9
		rule, err := d.Evaluate(mctx)
		require.NoError(t, err)
		require.NotNil(t, rule)
		assert.Equal(t, SeverityMedium, rule.Severity)
		assert.InDelta(t, 45, rule.RiskScore, 1e-9) // min(9*5, 50)
	})

	t.Run("score capped at 50", func(t *testing.T) {
		mctx := monitoringCtx(10000, steadyHistory(10, 100)) // r = 99
		rule, err := d.Evaluate(mctx)
		require.NoError(t, err)
		require.NotNil(t, rule)
		assert.InDelta(t, 50, rule.RiskScore, 1e-9)
	})

	t.Run("within habit is silent", func(t *testing.T) {
		mctx := monitoringCtx(300, steadyHistory(10, 100)) // r = 2
		rule, err := d.Evaluate(mctx)
		require.NoError(t, err)
		assert.Nil(t, rule)
	})

	t.Run("insufficient history is silent", func(t *testing.T) {
		mctx := monitoringCtx(10000, steadyHistory(3, 100))
		rule, err := d.Evaluate(mctx)
		require.NoError(t, err)
		assert.Nil(t, rule)
	})
}

package application

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/compliance/internal/compliance/domain"
)

type riskFixture struct {
	svc          *RiskService
	customerRepo *fakeCustomerRepo
	scoreRepo    *fakeScoreRepo
	publisher    *fakePublisher
	txRepo       *fakeTxRepo
}

func newRiskFixture(t *testing.T, customers ...*domain.Customer) *riskFixture {
	t.Helper()

	engine, err := domain.NewRiskEngine(domain.DefaultRiskConfig(), fakeClock{now: testNow})
	require.NoError(t, err)

	customerRepo := newFakeCustomerRepo(customers...)
	scoreRepo := newFakeScoreRepo()
	publisher := &fakePublisher{}
	txRepo := &fakeTxRepo{}

	svc := NewRiskService(engine, customerRepo, txRepo, scoreRepo, publisher, nil, 365).
		WithClock(fakeClock{now: testNow})

	return &riskFixture{svc: svc, customerRepo: customerRepo, scoreRepo: scoreRepo, publisher: publisher, txRepo: txRepo}
}

func TestAssessCustomer_PersistsSnapshotAndLevel(t *testing.T) {
	f := newRiskFixture(t, &domain.Customer{
		CustomerID: "CUST001",
		Type:       domain.CustomerTypePEP,
		Country:    "KP",
		Industry:   "casino",
	})

	assessment, err := f.svc.AssessCustomer(context.Background(), "CUST001")
	require.NoError(t, err)

	assert.Equal(t, domain.RiskLevelVeryHigh, assessment.Level)
	assert.Equal(t, testNow.AddDate(0, 0, 30), assessment.NextReviewAt)

	snapshot := f.scoreRepo.scores["CUST001"]
	require.NotNil(t, snapshot)
	assert.InDelta(t, assessment.OverallScore, snapshot.OverallScore, 1e-9)
	assert.Equal(t, assessment.Level, snapshot.Level)
	assert.Equal(t, assessment.NextReviewAt, snapshot.NextReviewAt)

	assert.Equal(t, domain.RiskLevelVeryHigh, f.customerRepo.levels["CUST001"])
	require.Len(t, f.publisher.assessments, 1)
}

func TestAssessCustomer_WithTransactionHistory(t *testing.T) {
	f := newRiskFixture(t, &domain.Customer{
		CustomerID: "CUST002",
		Type:       domain.CustomerTypeIndividual,
		Country:    "US",
		Industry:   "retail",
	})

	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 30; i++ {
		f.txRepo.history = append(f.txRepo.history, domain.Transaction{
			TransactionID: "TX",
			CustomerID:    "CUST002",
			Amount:        decimal.NewFromInt(120000),
			Currency:      "USD",
			Timestamp:     base.Add(time.Duration(i) * time.Hour),
		})
	}

	assessment, err := f.svc.AssessCustomer(context.Background(), "CUST002")
	require.NoError(t, err)

	require.Len(t, assessment.Factors, 7)
	assert.InDelta(t, 80, assessment.Breakdown[domain.FactorVolume], 1e-9)
	assert.InDelta(t, 30, assessment.Breakdown[domain.FactorFrequency], 1e-9)
}

func TestAssessCustomer_UnknownCustomer(t *testing.T) {
	f := newRiskFixture(t)

	_, err := f.svc.AssessCustomer(context.Background(), "CUST404")
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestGetRiskScore(t *testing.T) {
	f := newRiskFixture(t, &domain.Customer{
		CustomerID: "CUST001",
		Type:       domain.CustomerTypeCorporate,
		Country:    "US",
		Industry:   "technology",
	})

	t.Run("before any assessment", func(t *testing.T) {
		_, err := f.svc.GetRiskScore(context.Background(), "CUST001")
		assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
	})

	t.Run("after assessment", func(t *testing.T) {
		assessment, err := f.svc.AssessCustomer(context.Background(), "CUST001")
		require.NoError(t, err)

		score, err := f.svc.GetRiskScore(context.Background(), "CUST001")
		require.NoError(t, err)
		assert.InDelta(t, assessment.OverallScore, score.OverallScore, 1e-9)
		assert.Equal(t, assessment.Level, score.Level)
	})
}

func TestAssessCustomer_Idempotent(t *testing.T) {
	f := newRiskFixture(t, &domain.Customer{
		CustomerID: "CUST001",
		Type:       domain.CustomerTypeTrust,
		Country:    "SG",
		Industry:   "real_estate",
	})

	first, err := f.svc.AssessCustomer(context.Background(), "CUST001")
	require.NoError(t, err)
	second, err := f.svc.AssessCustomer(context.Background(), "CUST001")
	require.NoError(t, err)

	assert.Equal(t, first.OverallScore, second.OverallScore)
	assert.Equal(t, first.Level, second.Level)
	assert.Equal(t, first.Breakdown, second.Breakdown)
}

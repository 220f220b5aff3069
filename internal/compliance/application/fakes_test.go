package application

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/wyfcoding/compliance/internal/compliance/domain"
)

type fakeClock struct {
	now time.Time
}

func (c fakeClock) Now() time.Time { return c.now }

var testNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

type fakeTxRepo struct {
	mu      sync.Mutex
	saved   []domain.Transaction
	history []domain.Transaction
	err     error
}

func (r *fakeTxRepo) Save(_ context.Context, tx *domain.Transaction) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, *tx)
	return nil
}

func (r *fakeTxRepo) FindByTransactionID(_ context.Context, transactionID string) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.saved {
		if r.saved[i].TransactionID == transactionID {
			tx := r.saved[i]
			return &tx, nil
		}
	}
	return nil, nil
}

func (r *fakeTxRepo) HistoryByCustomer(_ context.Context, _ string, _ int, _ time.Time) ([]domain.Transaction, error) {
	return r.history, nil
}

type fakeCustomerRepo struct {
	customers map[string]*domain.Customer
	levels    map[string]domain.RiskLevel
}

func newFakeCustomerRepo(customers ...*domain.Customer) *fakeCustomerRepo {
	repo := &fakeCustomerRepo{
		customers: make(map[string]*domain.Customer),
		levels:    make(map[string]domain.RiskLevel),
	}
	for _, c := range customers {
		repo.customers[c.CustomerID] = c
	}
	return repo
}

func (r *fakeCustomerRepo) Save(_ context.Context, customer *domain.Customer) error {
	r.customers[customer.CustomerID] = customer
	return nil
}

func (r *fakeCustomerRepo) FindByCustomerID(_ context.Context, customerID string) (*domain.Customer, error) {
	return r.customers[customerID], nil
}

func (r *fakeCustomerRepo) UpdateRiskLevel(_ context.Context, customerID string, level domain.RiskLevel) error {
	r.levels[customerID] = level
	return nil
}

type fakeAlertRepo struct {
	mu     sync.Mutex
	alerts map[string]*domain.ComplianceAlert
}

func newFakeAlertRepo() *fakeAlertRepo {
	return &fakeAlertRepo{alerts: make(map[string]*domain.ComplianceAlert)}
}

func (r *fakeAlertRepo) Save(_ context.Context, alert *domain.ComplianceAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *alert
	r.alerts[alert.AlertID] = &copied
	return nil
}

func (r *fakeAlertRepo) Update(_ context.Context, alert *domain.ComplianceAlert) error {
	return r.Save(context.Background(), alert)
}

func (r *fakeAlertRepo) FindByAlertID(_ context.Context, alertID string) (*domain.ComplianceAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if alert, ok := r.alerts[alertID]; ok {
		copied := *alert
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeAlertRepo) List(_ context.Context, query domain.AlertQuery) ([]domain.ComplianceAlert, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ComplianceAlert
	for _, alert := range r.alerts {
		if query.CustomerID != "" && alert.CustomerID != query.CustomerID {
			continue
		}
		if query.Status != "" && alert.Status != query.Status {
			continue
		}
		out = append(out, *alert)
	}
	return out, int64(len(out)), nil
}

func (r *fakeAlertRepo) CountByStatus(_ context.Context) (map[domain.AlertStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[domain.AlertStatus]int64)
	for _, alert := range r.alerts {
		counts[alert.Status]++
	}
	return counts, nil
}

func (r *fakeAlertRepo) CountBySeverity(_ context.Context) (map[domain.Severity]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[domain.Severity]int64)
	for _, alert := range r.alerts {
		counts[alert.Severity]++
	}
	return counts, nil
}

type fakeSanctionsRepo struct {
	entries []domain.SanctionsEntry
	calls   int
}

func (r *fakeSanctionsRepo) SaveEntry(_ context.Context, entry *domain.SanctionsEntry) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeSanctionsRepo) ActiveEntries(_ context.Context) ([]domain.SanctionsEntry, error) {
	r.calls++
	var active []domain.SanctionsEntry
	for _, e := range r.entries {
		if e.IsActive {
			active = append(active, e)
		}
	}
	return active, nil
}

type fakeScoreRepo struct {
	scores map[string]*domain.CustomerRiskScore
}

func newFakeScoreRepo() *fakeScoreRepo {
	return &fakeScoreRepo{scores: make(map[string]*domain.CustomerRiskScore)}
}

func (r *fakeScoreRepo) Upsert(_ context.Context, score *domain.CustomerRiskScore) error {
	copied := *score
	r.scores[score.CustomerID] = &copied
	return nil
}

func (r *fakeScoreRepo) FindByCustomerID(_ context.Context, customerID string) (*domain.CustomerRiskScore, error) {
	return r.scores[customerID], nil
}

type fakePublisher struct {
	mu          sync.Mutex
	alerts      []*domain.ComplianceAlert
	assessments []*domain.RiskAssessment
}

func (p *fakePublisher) PublishAlert(_ context.Context, alert *domain.ComplianceAlert) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alerts = append(p.alerts, alert)
	return nil
}

func (p *fakePublisher) PublishAssessment(_ context.Context, assessment *domain.RiskAssessment) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.assessments = append(p.assessments, assessment)
	return nil
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.data, key)
	}
	return nil
}

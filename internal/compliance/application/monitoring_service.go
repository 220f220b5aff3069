package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wyfcoding/compliance/internal/compliance/domain"
	"github.com/wyfcoding/compliance/pkg/logger"
	"github.com/wyfcoding/compliance/pkg/metrics"
)

// MonitoringService 交易监控用例：落库、装配上下文、执行规则引擎、
// 生成告警并发布事件
type MonitoringService struct {
	engine            *domain.RuleEngine
	txRepo            domain.TransactionRepository
	customerRepo      domain.CustomerRepository
	alertRepo         domain.AlertRepository
	publisher         domain.EventPublisher
	metrics           *metrics.Metrics
	clock             domain.Clock
	historyWindowDays int
}

// NewMonitoringService 创建交易监控服务
func NewMonitoringService(
	engine *domain.RuleEngine,
	txRepo domain.TransactionRepository,
	customerRepo domain.CustomerRepository,
	alertRepo domain.AlertRepository,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
	historyWindowDays int,
) *MonitoringService {
	if historyWindowDays <= 0 {
		historyWindowDays = 365
	}
	return &MonitoringService{
		engine:            engine,
		txRepo:            txRepo,
		customerRepo:      customerRepo,
		alertRepo:         alertRepo,
		publisher:         publisher,
		metrics:           m,
		clock:             domain.SystemClock{},
		historyWindowDays: historyWindowDays,
	}
}

// WithClock 替换时钟，测试使用
func (s *MonitoringService) WithClock(clock domain.Clock) *MonitoringService {
	s.clock = clock
	return s
}

// MonitorTransaction 监控单笔交易。
// 交易先落库再评估；历史窗口取当前交易时间戳之前 historyWindowDays 天。
// 评估本身是全函数，可疑结论额外生成告警并发布事件，
// 告警侧的失败只记录日志，不影响监控结论的返回。
func (s *MonitoringService) MonitorTransaction(ctx context.Context, req *MonitorTransactionRequest) (*domain.MonitoringResult, error) {
	tx, err := s.buildTransaction(req)
	if err != nil {
		return nil, err
	}

	if err := s.txRepo.Save(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	customer, err := s.customerRepo.FindByCustomerID(ctx, tx.CustomerID)
	if err != nil {
		logger.Warn(ctx, "customer lookup failed, monitoring without customer data",
			"customer_id", tx.CustomerID, "error", err)
	}

	history, err := s.txRepo.HistoryByCustomer(ctx, tx.CustomerID, s.historyWindowDays, tx.Timestamp)
	if err != nil {
		logger.Warn(ctx, "history lookup failed, monitoring with empty history",
			"customer_id", tx.CustomerID, "error", err)
		history = nil
	}

	started := time.Now()
	result := s.engine.Evaluate(ctx, domain.NewMonitoringContext(tx, customer, history))
	if s.metrics != nil {
		s.metrics.EvaluationsTotal.Inc()
		s.metrics.EvaluationDuration.Observe(time.Since(started).Seconds())
	}

	if result.IsSuspicious {
		s.raiseAlert(ctx, tx, result)
	}

	return result, nil
}

// MonitorBatch 批量监控。逐笔处理，单笔失败不阻断批次。
func (s *MonitoringService) MonitorBatch(ctx context.Context, req *BatchMonitorRequest) (*BatchMonitorResponse, error) {
	resp := &BatchMonitorResponse{
		Total:   len(req.Transactions),
		Results: make([]*domain.MonitoringResult, 0, len(req.Transactions)),
	}

	for i := range req.Transactions {
		result, err := s.MonitorTransaction(ctx, &req.Transactions[i])
		if err != nil {
			logger.Warn(ctx, "batch item failed",
				"transaction_id", req.Transactions[i].TransactionID, "error", err)
			resp.Failed++
			continue
		}
		if result.IsSuspicious {
			resp.Suspicious++
		}
		resp.Results = append(resp.Results, result)
	}

	return resp, nil
}

// ListAlerts 查询告警列表
func (s *MonitoringService) ListAlerts(ctx context.Context, req *ListAlertsRequest) (*ListAlertsResponse, error) {
	query := domain.AlertQuery{
		CustomerID: req.CustomerID,
		Status:     domain.AlertStatus(strings.ToUpper(req.Status)),
		Severity:   domain.Severity(strings.ToUpper(req.Severity)),
		Page:       req.Page,
		PageSize:   req.PageSize,
	}

	alerts, total, err := s.alertRepo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}

	return &ListAlertsResponse{Total: total, Page: req.Page, Alerts: alerts}, nil
}

// ReviewAlert 处置告警并持久化状态变更
func (s *MonitoringService) ReviewAlert(ctx context.Context, alertID string, req *ReviewAlertRequest) (*domain.ComplianceAlert, error) {
	alert, err := s.alertRepo.FindByAlertID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, domain.ErrAlertNotFound
	}

	status := domain.AlertStatus(strings.ToUpper(req.Status))
	if err := alert.Review(status, req.Reviewer, req.Notes, s.clock.Now()); err != nil {
		return nil, err
	}

	if err := s.alertRepo.Update(ctx, alert); err != nil {
		return nil, fmt.Errorf("failed to update alert: %w", err)
	}

	logger.Info(ctx, "alert reviewed",
		"alert_id", alert.AlertID, "status", alert.Status, "reviewer", req.Reviewer)
	return alert, nil
}

// Statistics 汇总告警统计
func (s *MonitoringService) Statistics(ctx context.Context) (*StatisticsResponse, error) {
	byStatus, err := s.alertRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count alerts by status: %w", err)
	}
	bySeverity, err := s.alertRepo.CountBySeverity(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count alerts by severity: %w", err)
	}

	return &StatisticsResponse{
		AlertsByStatus:   byStatus,
		AlertsBySeverity: bySeverity,
		GeneratedAt:      s.clock.Now(),
	}, nil
}

func (s *MonitoringService) buildTransaction(req *MonitorTransactionRequest) (*domain.Transaction, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", req.Amount, err)
	}

	tx := &domain.Transaction{
		TransactionID:       req.TransactionID,
		CustomerID:          req.CustomerID,
		Amount:              amount,
		Currency:            strings.ToUpper(req.Currency),
		Timestamp:           req.Timestamp.UTC(),
		Type:                req.Type,
		Channel:             req.Channel,
		CounterpartyName:    req.CounterpartyName,
		CounterpartyAccount: req.CounterpartyAccount,
		CounterpartyBank:    req.CounterpartyBank,
		CounterpartyCountry: strings.ToUpper(req.CounterpartyCountry),
	}

	if err := tx.Validate(); err != nil {
		return nil, err
	}
	return tx, nil
}

// raiseAlert 由可疑结论生成告警。告警持久化或事件发布失败
// 只降级记录，监控结论仍然返回给调用方。
func (s *MonitoringService) raiseAlert(ctx context.Context, tx *domain.Transaction, result *domain.MonitoringResult) {
	alert := &domain.ComplianceAlert{
		AlertID:       strings.ReplaceAll(uuid.New().String(), "-", ""),
		CustomerID:    tx.CustomerID,
		TransactionID: tx.TransactionID,
		Severity:      highestSeverity(result.TriggeredRules),
		RiskScore:     result.RiskScore,
		Description:   strings.Join(result.RiskFactors, "; "),
		Status:        domain.AlertStatusNew,
	}

	if err := s.alertRepo.Save(ctx, alert); err != nil {
		logger.Error(ctx, "failed to persist alert",
			"transaction_id", tx.TransactionID, "error", err)
		return
	}

	if s.metrics != nil {
		s.metrics.AlertsTotal.WithLabelValues(string(alert.Severity)).Inc()
	}

	if s.publisher != nil {
		if err := s.publisher.PublishAlert(ctx, alert); err != nil {
			logger.Error(ctx, "failed to publish alert event",
				"alert_id", alert.AlertID, "error", err)
		}
	}

	logger.Info(ctx, "compliance alert raised",
		"alert_id", alert.AlertID,
		"transaction_id", tx.TransactionID,
		"severity", alert.Severity,
		"risk_score", alert.RiskScore,
	)
}

var severityRank = map[domain.Severity]int{
	domain.SeverityLow:      1,
	domain.SeverityMedium:   2,
	domain.SeverityHigh:     3,
	domain.SeverityCritical: 4,
}

func highestSeverity(rules []domain.TriggeredRule) domain.Severity {
	best := domain.SeverityLow
	for _, r := range rules {
		if severityRank[r.Severity] > severityRank[best] {
			best = r.Severity
		}
	}
	return best
}

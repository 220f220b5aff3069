package application

import (
	"context"
	"fmt"

	"github.com/wyfcoding/compliance/internal/compliance/domain"
	"github.com/wyfcoding/compliance/pkg/logger"
	"github.com/wyfcoding/compliance/pkg/metrics"
)

// RiskService 客户风险评估用例：装配输入、执行评分引擎、
// 固化评分快照并回写客户风险等级
type RiskService struct {
	engine            *domain.RiskEngine
	customerRepo      domain.CustomerRepository
	txRepo            domain.TransactionRepository
	scoreRepo         domain.RiskScoreRepository
	publisher         domain.EventPublisher
	metrics           *metrics.Metrics
	clock             domain.Clock
	historyWindowDays int
}

// NewRiskService 创建风险评估服务
func NewRiskService(
	engine *domain.RiskEngine,
	customerRepo domain.CustomerRepository,
	txRepo domain.TransactionRepository,
	scoreRepo domain.RiskScoreRepository,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
	historyWindowDays int,
) *RiskService {
	if historyWindowDays <= 0 {
		historyWindowDays = 365
	}
	return &RiskService{
		engine:            engine,
		customerRepo:      customerRepo,
		txRepo:            txRepo,
		scoreRepo:         scoreRepo,
		publisher:         publisher,
		metrics:           m,
		clock:             domain.SystemClock{},
		historyWindowDays: historyWindowDays,
	}
}

// WithClock 替换时钟，测试使用
func (s *RiskService) WithClock(clock domain.Clock) *RiskService {
	s.clock = clock
	return s
}

// AssessCustomer 评估客户风险。评估结论持久化为最新快照，
// 客户实体的风险等级随之更新；事件发布失败只降级记录。
func (s *RiskService) AssessCustomer(ctx context.Context, customerID string) (*domain.RiskAssessment, error) {
	customer, err := s.customerRepo.FindByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrCustomerNotFound
	}

	history, err := s.txRepo.HistoryByCustomer(ctx, customerID, s.historyWindowDays, s.clock.Now())
	if err != nil {
		logger.Warn(ctx, "history lookup failed, assessing without transactions",
			"customer_id", customerID, "error", err)
		history = nil
	}

	assessment, err := s.engine.AssessCustomer(customer, history)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.AssessmentsTotal.Inc()
	}

	snapshot := &domain.CustomerRiskScore{
		CustomerID:   customerID,
		OverallScore: assessment.OverallScore,
		Level:        assessment.Level,
		Method:       assessment.Method,
		Confidence:   assessment.Confidence,
		AssessedAt:   assessment.AssessedAt,
		NextReviewAt: assessment.NextReviewAt,
	}
	if err := s.scoreRepo.Upsert(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to persist risk score: %w", err)
	}

	if err := s.customerRepo.UpdateRiskLevel(ctx, customerID, assessment.Level); err != nil {
		logger.Warn(ctx, "failed to update customer risk level",
			"customer_id", customerID, "error", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishAssessment(ctx, assessment); err != nil {
			logger.Error(ctx, "failed to publish assessment event",
				"customer_id", customerID, "error", err)
		}
	}

	logger.Info(ctx, "customer risk assessed",
		"customer_id", customerID,
		"score", assessment.OverallScore,
		"level", assessment.Level,
		"method", assessment.Method,
	)
	return assessment, nil
}

// GetRiskScore 读取客户最新风险评分快照
func (s *RiskService) GetRiskScore(ctx context.Context, customerID string) (*domain.CustomerRiskScore, error) {
	score, err := s.scoreRepo.FindByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if score == nil {
		return nil, domain.ErrCustomerNotFound
	}
	return score, nil
}

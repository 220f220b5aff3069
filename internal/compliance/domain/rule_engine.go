package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/wyfcoding/compliance/pkg/logger"
)

// Severity 规则严重度
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// IsEscalating 高与紧急严重度直接判定可疑，不受综合评分阈值约束
func (s Severity) IsEscalating() bool {
	return s == SeverityHigh || s == SeverityCritical
}

// TriggeredRule 检测器的一次命中记录，单次评估内不可变
type TriggeredRule struct {
	RuleID         string   `json:"rule_id"`
	RuleName       string   `json:"rule_name"`
	RuleType       string   `json:"rule_type"`
	Severity       Severity `json:"severity"`
	Description    string   `json:"description"`
	RiskScore      float64  `json:"risk_score"`
	ThresholdValue float64  `json:"threshold_value,omitempty"`
	ActualValue    float64  `json:"actual_value,omitempty"`
}

// MonitoringResult 单笔交易的监控结论
type MonitoringResult struct {
	TransactionID  string          `json:"transaction_id"`
	IsSuspicious   bool            `json:"is_suspicious"`
	RiskScore      float64         `json:"risk_score"`
	TriggeredRules []TriggeredRule `json:"triggered_rules"`
	RiskFactors    []string        `json:"risk_factors"`
	MonitoredAt    time.Time       `json:"monitored_at"`
}

// Detector 单个检测器。Evaluate 返回至多一条命中记录；
// 返回 error 表示检测器内部失败，引擎记录日志后跳过，不影响其余检测器。
type Detector interface {
	ID() string
	Name() string
	Evaluate(mctx *MonitoringContext) (*TriggeredRule, error)
}

// RuleEngine 按注册顺序执行检测器并聚合结论。
// 构造后仅持有只读配置，可被任意并发复用。
type RuleEngine struct {
	cfg       MonitoringConfig
	detectors []Detector
}

// NewRuleEngine 创建规则引擎，配置非法时立即失败
func NewRuleEngine(cfg MonitoringConfig, detectors ...Detector) (*RuleEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(detectors) == 0 {
		detectors = DefaultDetectors(cfg)
	}
	return &RuleEngine{cfg: cfg, detectors: detectors}, nil
}

// DetectorCount 返回已注册检测器数量
func (e *RuleEngine) DetectorCount() int {
	return len(e.detectors)
}

// Evaluate 对监控上下文执行全部检测器并聚合。
// 该方法是全函数：任何输入都产生结构完整的结论，单个检测器
// 失败（返回 error 或 panic）只会被记录并跳过。
//
// 聚合规则：normalised = min(Σ sub_score / max(n,1), 100)，n 为注册
// 检测器数；normalised 达到阈值，或任一命中严重度为 HIGH/CRITICAL
// 时判定可疑。命中顺序与检测器注册顺序一致。
func (e *RuleEngine) Evaluate(ctx context.Context, mctx *MonitoringContext) *MonitoringResult {
	result := &MonitoringResult{
		TransactionID:  mctx.Transaction.TransactionID,
		TriggeredRules: make([]TriggeredRule, 0),
		RiskFactors:    make([]string, 0),
		MonitoredAt:    time.Now().UTC(),
	}

	totalScore := 0.0
	escalated := false

	for _, detector := range e.detectors {
		triggered, err := e.runDetector(ctx, detector, mctx)
		if err != nil {
			logger.Warn(ctx, "detector failed, skipping",
				"detector", detector.Name(),
				"transaction_id", mctx.Transaction.TransactionID,
				"error", err,
			)
			continue
		}
		if triggered == nil {
			continue
		}

		triggered.RiskScore = clampScore(triggered.RiskScore)
		result.TriggeredRules = append(result.TriggeredRules, *triggered)
		result.RiskFactors = append(result.RiskFactors, triggered.Description)
		totalScore += triggered.RiskScore
		if triggered.Severity.IsEscalating() {
			escalated = true
		}
	}

	n := len(e.detectors)
	if n < 1 {
		n = 1
	}
	result.RiskScore = clampScore(totalScore / float64(n))
	result.IsSuspicious = result.RiskScore >= e.cfg.RiskScoreThreshold || escalated

	return result
}

// runDetector 执行单个检测器并吸收 panic，保证评估永不中断
func (e *RuleEngine) runDetector(ctx context.Context, detector Detector, mctx *MonitoringContext) (triggered *TriggeredRule, err error) {
	defer func() {
		if r := recover(); r != nil {
			triggered = nil
			err = fmt.Errorf("detector panic: %v", r)
		}
	}()
	return detector.Evaluate(mctx)
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Package messaging 提供基于 Kafka 的合规事件发布实现
package messaging

import (
	"context"

	"github.com/wyfcoding/compliance/internal/compliance/domain"
	"github.com/wyfcoding/compliance/pkg/mq"
)

// KafkaEventPublisher 将告警与评估事件投递到 Kafka
type KafkaEventPublisher struct {
	producer        *mq.KafkaProducer
	alertTopic      string
	assessmentTopic string
}

// NewKafkaEventPublisher 创建事件发布器
func NewKafkaEventPublisher(producer *mq.KafkaProducer, alertTopic, assessmentTopic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		producer:        producer,
		alertTopic:      alertTopic,
		assessmentTopic: assessmentTopic,
	}
}

// AlertEvent 告警事件载荷
type AlertEvent struct {
	AlertID       string          `json:"alert_id"`
	CustomerID    string          `json:"customer_id"`
	TransactionID string          `json:"transaction_id"`
	Severity      domain.Severity `json:"severity"`
	RiskScore     float64         `json:"risk_score"`
	Description   string          `json:"description"`
}

// AssessmentEvent 风险评估事件载荷
type AssessmentEvent struct {
	CustomerID   string                   `json:"customer_id"`
	OverallScore float64                  `json:"overall_score"`
	Level        domain.RiskLevel         `json:"level"`
	Method       domain.AggregationMethod `json:"method"`
	Confidence   float64                  `json:"confidence"`
	NextReviewAt string                   `json:"next_review_at"`
}

// PublishAlert 发布告警事件，key 取客户 ID 保证同客户有序
func (p *KafkaEventPublisher) PublishAlert(ctx context.Context, alert *domain.ComplianceAlert) error {
	event := AlertEvent{
		AlertID:       alert.AlertID,
		CustomerID:    alert.CustomerID,
		TransactionID: alert.TransactionID,
		Severity:      alert.Severity,
		RiskScore:     alert.RiskScore,
		Description:   alert.Description,
	}
	return p.producer.SendMessage(ctx, p.alertTopic, alert.CustomerID, event)
}

// PublishAssessment 发布风险评估事件
func (p *KafkaEventPublisher) PublishAssessment(ctx context.Context, assessment *domain.RiskAssessment) error {
	event := AssessmentEvent{
		CustomerID:   assessment.CustomerID,
		OverallScore: assessment.OverallScore,
		Level:        assessment.Level,
		Method:       assessment.Method,
		Confidence:   assessment.Confidence,
		NextReviewAt: assessment.NextReviewAt.Format("2006-01-02"),
	}
	return p.producer.SendMessage(ctx, p.assessmentTopic, assessment.CustomerID, event)
}

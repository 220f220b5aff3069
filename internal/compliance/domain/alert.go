package domain

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// AlertStatus 告警处置状态
type AlertStatus string

const (
	AlertStatusNew           AlertStatus = "NEW"
	AlertStatusUnderReview   AlertStatus = "UNDER_REVIEW"
	AlertStatusClosed        AlertStatus = "CLOSED"
	AlertStatusFalsePositive AlertStatus = "FALSE_POSITIVE"
	AlertStatusConfirmed     AlertStatus = "CONFIRMED"
)

// ComplianceAlert 合规告警，由可疑交易监控结论生成
type ComplianceAlert struct {
	gorm.Model
	AlertID       string      `gorm:"column:alert_id;type:varchar(32);uniqueIndex;not null" json:"alert_id"`
	CustomerID    string      `gorm:"column:customer_id;type:varchar(32);index;not null" json:"customer_id"`
	TransactionID string      `gorm:"column:transaction_id;type:varchar(32);index" json:"transaction_id"`
	Severity      Severity    `gorm:"column:severity;type:varchar(10);index;not null" json:"severity"`
	RiskScore     float64     `gorm:"column:risk_score;type:decimal(6,2)" json:"risk_score"`
	Description   string      `gorm:"column:description;type:varchar(1000)" json:"description"`
	Status        AlertStatus `gorm:"column:status;type:varchar(20);index;not null;default:'NEW'" json:"status"`
	ReviewedBy    string      `gorm:"column:reviewed_by;type:varchar(64)" json:"reviewed_by,omitempty"`
	ReviewNotes   string      `gorm:"column:review_notes;type:varchar(1000)" json:"review_notes,omitempty"`
	ReviewedAt    *time.Time  `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
}

// TableName 指定表名
func (ComplianceAlert) TableName() string { return "compliance_alerts" }

// Review 推进告警状态。NEW/UNDER_REVIEW 可推进到任意终态，
// 终态告警不允许再次处置。
func (a *ComplianceAlert) Review(status AlertStatus, reviewer, notes string, at time.Time) error {
	switch a.Status {
	case AlertStatusNew, AlertStatusUnderReview:
	default:
		return fmt.Errorf("alert %s already finalized with status %s", a.AlertID, a.Status)
	}
	switch status {
	case AlertStatusUnderReview, AlertStatusClosed, AlertStatusFalsePositive, AlertStatusConfirmed:
	default:
		return fmt.Errorf("invalid review status %q", status)
	}
	a.Status = status
	a.ReviewedBy = reviewer
	a.ReviewNotes = notes
	a.ReviewedAt = &at
	return nil
}

// CustomerRiskScore 客户最新风险评分的持久化快照
type CustomerRiskScore struct {
	gorm.Model
	CustomerID   string            `gorm:"column:customer_id;type:varchar(32);uniqueIndex;not null" json:"customer_id"`
	OverallScore float64           `gorm:"column:overall_score;type:decimal(6,2);not null" json:"overall_score"`
	Level        RiskLevel         `gorm:"column:level;type:varchar(20);index;not null" json:"level"`
	Method       AggregationMethod `gorm:"column:method;type:varchar(20)" json:"method"`
	Confidence   float64           `gorm:"column:confidence;type:decimal(4,3)" json:"confidence"`
	AssessedAt   time.Time         `gorm:"column:assessed_at;not null" json:"assessed_at"`
	NextReviewAt time.Time         `gorm:"column:next_review_at;index;not null" json:"next_review_at"`
}

// TableName 指定表名
func (CustomerRiskScore) TableName() string { return "customer_risk_scores" }

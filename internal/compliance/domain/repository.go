package domain

import (
	"context"
	"time"
)

// TransactionRepository 交易仓储端口
type TransactionRepository interface {
	Save(ctx context.Context, tx *Transaction) error
	FindByTransactionID(ctx context.Context, transactionID string) (*Transaction, error)
	// HistoryByCustomer 返回客户在 before 之前 windowDays 天内的历史交易
	HistoryByCustomer(ctx context.Context, customerID string, windowDays int, before time.Time) ([]Transaction, error)
}

// CustomerRepository 客户仓储端口
type CustomerRepository interface {
	Save(ctx context.Context, customer *Customer) error
	FindByCustomerID(ctx context.Context, customerID string) (*Customer, error)
	UpdateRiskLevel(ctx context.Context, customerID string, level RiskLevel) error
}

// SanctionsRepository 名单仓储端口。ActiveEntries 只返回在册条目。
type SanctionsRepository interface {
	SaveEntry(ctx context.Context, entry *SanctionsEntry) error
	ActiveEntries(ctx context.Context) ([]SanctionsEntry, error)
}

// AlertQuery 告警查询条件
type AlertQuery struct {
	CustomerID string
	Status     AlertStatus
	Severity   Severity
	Page       int
	PageSize   int
}

// AlertRepository 告警仓储端口
type AlertRepository interface {
	Save(ctx context.Context, alert *ComplianceAlert) error
	Update(ctx context.Context, alert *ComplianceAlert) error
	FindByAlertID(ctx context.Context, alertID string) (*ComplianceAlert, error)
	List(ctx context.Context, query AlertQuery) ([]ComplianceAlert, int64, error)
	CountByStatus(ctx context.Context) (map[AlertStatus]int64, error)
	CountBySeverity(ctx context.Context) (map[Severity]int64, error)
}

// RiskScoreRepository 客户风险评分仓储端口
type RiskScoreRepository interface {
	Upsert(ctx context.Context, score *CustomerRiskScore) error
	FindByCustomerID(ctx context.Context, customerID string) (*CustomerRiskScore, error)
}

// EventPublisher 合规事件发布端口
type EventPublisher interface {
	PublishAlert(ctx context.Context, alert *ComplianceAlert) error
	PublishAssessment(ctx context.Context, assessment *RiskAssessment) error
}

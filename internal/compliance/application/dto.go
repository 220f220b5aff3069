// Package application 编排领域引擎与仓储、消息、缓存等外设，
// 对接口层暴露用例级 API
package application

import (
	"time"

	"github.com/wyfcoding/compliance/internal/compliance/domain"
)

// MonitorTransactionRequest 单笔交易监控请求
type MonitorTransactionRequest struct {
	TransactionID       string    `json:"transaction_id" binding:"required"`
	CustomerID          string    `json:"customer_id" binding:"required"`
	Amount              string    `json:"amount" binding:"required"`
	Currency            string    `json:"currency" binding:"required"`
	Timestamp           time.Time `json:"timestamp" binding:"required"`
	Type                string    `json:"type"`
	Channel             string    `json:"channel"`
	CounterpartyName    string    `json:"counterparty_name"`
	CounterpartyAccount string    `json:"counterparty_account"`
	CounterpartyBank    string    `json:"counterparty_bank"`
	CounterpartyCountry string    `json:"counterparty_country"`
}

// BatchMonitorRequest 批量交易监控请求
type BatchMonitorRequest struct {
	Transactions []MonitorTransactionRequest `json:"transactions" binding:"required,min=1,max=500"`
}

// BatchMonitorResponse 批量监控结论
type BatchMonitorResponse struct {
	Total      int                        `json:"total"`
	Suspicious int                        `json:"suspicious"`
	Failed     int                        `json:"failed"`
	Results    []*domain.MonitoringResult `json:"results"`
}

// ListAlertsRequest 告警列表查询
type ListAlertsRequest struct {
	CustomerID string `form:"customer_id"`
	Status     string `form:"status"`
	Severity   string `form:"severity"`
	Page       int    `form:"page,default=1"`
	PageSize   int    `form:"page_size,default=20"`
}

// ListAlertsResponse 告警列表结论
type ListAlertsResponse struct {
	Total  int64                    `json:"total"`
	Page   int                      `json:"page"`
	Alerts []domain.ComplianceAlert `json:"alerts"`
}

// ReviewAlertRequest 告警处置请求
type ReviewAlertRequest struct {
	Status   string `json:"status" binding:"required"`
	Reviewer string `json:"reviewer" binding:"required"`
	Notes    string `json:"notes"`
}

// ScreenNameRequest 名称筛查请求
type ScreenNameRequest struct {
	Name string `json:"name" binding:"required"`
}

// AssessRiskRequest 客户风险评估请求
type AssessRiskRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
}

// StatisticsResponse 合规监控统计
type StatisticsResponse struct {
	AlertsByStatus   map[domain.AlertStatus]int64 `json:"alerts_by_status"`
	AlertsBySeverity map[domain.Severity]int64    `json:"alerts_by_severity"`
	GeneratedAt      time.Time                    `json:"generated_at"`
}

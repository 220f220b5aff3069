// Package http 提供合规服务的 HTTP 接口层
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/compliance/internal/compliance/application"
	"github.com/wyfcoding/compliance/internal/compliance/domain"
	"github.com/wyfcoding/compliance/pkg/logger"
	"github.com/wyfcoding/compliance/pkg/response"
)

// ComplianceHandler 合规服务 HTTP 处理器
type ComplianceHandler struct {
	monitoring *application.MonitoringService
	screening  *application.ScreeningService
	risk       *application.RiskService
}

// NewComplianceHandler 创建处理器
func NewComplianceHandler(
	monitoring *application.MonitoringService,
	screening *application.ScreeningService,
	risk *application.RiskService,
) *ComplianceHandler {
	return &ComplianceHandler{
		monitoring: monitoring,
		screening:  screening,
		risk:       risk,
	}
}

// RegisterRoutes 注册路由
func (h *ComplianceHandler) RegisterRoutes(r *gin.RouterGroup) {
	aml := r.Group("/aml")
	{
		aml.POST("/monitor", h.MonitorTransaction)
		aml.POST("/monitor/batch", h.MonitorBatch)
		aml.GET("/alerts", h.ListAlerts)
		aml.POST("/alerts/:id/review", h.ReviewAlert)
		aml.GET("/statistics", h.Statistics)
	}

	screening := r.Group("/screening")
	{
		screening.POST("/customer/:id", h.ScreenCustomer)
		screening.POST("/name", h.ScreenName)
		screening.POST("/entries", h.AddSanctionsEntry)
	}

	risk := r.Group("/risk")
	{
		risk.POST("/assess", h.AssessRisk)
		risk.GET("/score/:id", h.GetRiskScore)
	}
}

// MonitorTransaction 监控单笔交易
func (h *ComplianceHandler) MonitorTransaction(c *gin.Context) {
	var req application.MonitorTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.monitoring.MonitorTransaction(c.Request.Context(), &req)
	if err != nil {
		logger.Error(c.Request.Context(), "monitor transaction failed",
			"transaction_id", req.TransactionID, "error", err)
		response.Error(c, err.Error())
		return
	}

	response.Success(c, result)
}

// MonitorBatch 批量监控交易
func (h *ComplianceHandler) MonitorBatch(c *gin.Context) {
	var req application.BatchMonitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.monitoring.MonitorBatch(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err.Error())
		return
	}

	response.Success(c, result)
}

// ListAlerts 查询告警列表
func (h *ComplianceHandler) ListAlerts(c *gin.Context) {
	var req application.ListAlertsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.monitoring.ListAlerts(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err.Error())
		return
	}

	response.Success(c, result)
}

// ReviewAlert 处置告警
func (h *ComplianceHandler) ReviewAlert(c *gin.Context) {
	var req application.ReviewAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	alert, err := h.monitoring.ReviewAlert(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, domain.ErrAlertNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error())
			return
		}
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	response.Success(c, alert)
}

// Statistics 合规监控统计
func (h *ComplianceHandler) Statistics(c *gin.Context) {
	result, err := h.monitoring.Statistics(c.Request.Context())
	if err != nil {
		response.Error(c, err.Error())
		return
	}

	response.Success(c, result)
}

// ScreenCustomer 对客户执行名单筛查
func (h *ComplianceHandler) ScreenCustomer(c *gin.Context) {
	result, err := h.screening.ScreenCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error())
			return
		}
		response.Error(c, err.Error())
		return
	}

	response.Success(c, result)
}

// ScreenName 对名称执行名单筛查
func (h *ComplianceHandler) ScreenName(c *gin.Context) {
	var req application.ScreenNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.screening.ScreenName(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err.Error())
		return
	}

	response.Success(c, result)
}

// AddSanctionsEntry 新增名单条目
func (h *ComplianceHandler) AddSanctionsEntry(c *gin.Context) {
	var entry domain.SanctionsEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}
	if entry.EntryID == "" || entry.ListName == "" || entry.PrimaryName == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "entry_id, list_name and primary_name are required")
		return
	}

	if err := h.screening.AddEntry(c.Request.Context(), &entry); err != nil {
		response.Error(c, err.Error())
		return
	}

	response.Success(c, entry)
}

// AssessRisk 评估客户风险
func (h *ComplianceHandler) AssessRisk(c *gin.Context) {
	var req application.AssessRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.risk.AssessCustomer(c.Request.Context(), req.CustomerID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCustomerNotFound):
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error())
		case errors.Is(err, domain.ErrInsufficientInput):
			response.ErrorWithStatus(c, http.StatusUnprocessableEntity, err.Error())
		default:
			response.Error(c, err.Error())
		}
		return
	}

	response.Success(c, result)
}

// GetRiskScore 查询客户最新风险评分
func (h *ComplianceHandler) GetRiskScore(c *gin.Context) {
	score, err := h.risk.GetRiskScore(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error())
			return
		}
		response.Error(c, err.Error())
		return
	}

	response.Success(c, score)
}

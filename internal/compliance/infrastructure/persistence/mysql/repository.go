// Package mysql 提供领域仓储端口的 GORM 实现
package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wyfcoding/compliance/internal/compliance/domain"
)

// TransactionRepository 交易仓储
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository 创建交易仓储
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Save 落库交易，transaction_id 冲突时不覆盖已有记录
func (r *TransactionRepository) Save(ctx context.Context, tx *domain.Transaction) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "transaction_id"}},
			DoNothing: true,
		}).
		Create(tx).Error
}

// FindByTransactionID 按业务 ID 查询交易，不存在时返回 nil
func (r *TransactionRepository) FindByTransactionID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	var tx domain.Transaction
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		First(&tx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// HistoryByCustomer 返回客户在 before 之前窗口天数内的历史交易，按时间升序
func (r *TransactionRepository) HistoryByCustomer(ctx context.Context, customerID string, windowDays int, before time.Time) ([]domain.Transaction, error) {
	windowStart := before.AddDate(0, 0, -windowDays)

	var history []domain.Transaction
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND timestamp >= ? AND timestamp < ?", customerID, windowStart, before).
		Order("timestamp ASC").
		Find(&history).Error
	if err != nil {
		return nil, err
	}
	return history, nil
}

// CustomerRepository 客户仓储
type CustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository 创建客户仓储
func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Save 保存客户
func (r *CustomerRepository) Save(ctx context.Context, customer *domain.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

// FindByCustomerID 按业务 ID 查询客户，不存在时返回 nil
func (r *CustomerRepository) FindByCustomerID(ctx context.Context, customerID string) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// UpdateRiskLevel 更新客户风险等级
func (r *CustomerRepository) UpdateRiskLevel(ctx context.Context, customerID string, level domain.RiskLevel) error {
	return r.db.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("customer_id = ?", customerID).
		Update("risk_level", level).Error
}

// SanctionsRepository 名单仓储
type SanctionsRepository struct {
	db *gorm.DB
}

// NewSanctionsRepository 创建名单仓储
func NewSanctionsRepository(db *gorm.DB) *SanctionsRepository {
	return &SanctionsRepository{db: db}
}

// SaveEntry 保存名单条目，entry_id 冲突时整体更新
func (r *SanctionsRepository) SaveEntry(ctx context.Context, entry *domain.SanctionsEntry) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "entry_id"}},
			UpdateAll: true,
		}).
		Create(entry).Error
}

// ActiveEntries 返回全部在册条目
func (r *SanctionsRepository) ActiveEntries(ctx context.Context) ([]domain.SanctionsEntry, error) {
	var entries []domain.SanctionsEntry
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("list_name, primary_name").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// AlertRepository 告警仓储
type AlertRepository struct {
	db *gorm.DB
}

// NewAlertRepository 创建告警仓储
func NewAlertRepository(db *gorm.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// Save 落库告警
func (r *AlertRepository) Save(ctx context.Context, alert *domain.ComplianceAlert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

// Update 更新告警
func (r *AlertRepository) Update(ctx context.Context, alert *domain.ComplianceAlert) error {
	return r.db.WithContext(ctx).Save(alert).Error
}

// FindByAlertID 按业务 ID 查询告警，不存在时返回 nil
func (r *AlertRepository) FindByAlertID(ctx context.Context, alertID string) (*domain.ComplianceAlert, error) {
	var alert domain.ComplianceAlert
	err := r.db.WithContext(ctx).
		Where("alert_id = ?", alertID).
		First(&alert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

// List 按条件分页查询告警，按创建时间倒序
func (r *AlertRepository) List(ctx context.Context, query domain.AlertQuery) ([]domain.ComplianceAlert, int64, error) {
	db := r.db.WithContext(ctx).Model(&domain.ComplianceAlert{})

	if query.CustomerID != "" {
		db = db.Where("customer_id = ?", query.CustomerID)
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.Severity != "" {
		db = db.Where("severity = ?", query.Severity)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}

	var alerts []domain.ComplianceAlert
	err := db.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&alerts).Error
	if err != nil {
		return nil, 0, err
	}
	return alerts, total, nil
}

// CountByStatus 按状态统计告警数
func (r *AlertRepository) CountByStatus(ctx context.Context) (map[domain.AlertStatus]int64, error) {
	rows, err := r.countGroups(ctx, "status")
	if err != nil {
		return nil, err
	}
	result := make(map[domain.AlertStatus]int64, len(rows))
	for key, count := range rows {
		result[domain.AlertStatus(key)] = count
	}
	return result, nil
}

// CountBySeverity 按严重度统计告警数
func (r *AlertRepository) CountBySeverity(ctx context.Context) (map[domain.Severity]int64, error) {
	rows, err := r.countGroups(ctx, "severity")
	if err != nil {
		return nil, err
	}
	result := make(map[domain.Severity]int64, len(rows))
	for key, count := range rows {
		result[domain.Severity(key)] = count
	}
	return result, nil
}

func (r *AlertRepository) countGroups(ctx context.Context, column string) (map[string]int64, error) {
	type row struct {
		GroupKey string `gorm:"column:group_key"`
		Count    int64  `gorm:"column:count"`
	}

	var rows []row
	err := r.db.WithContext(ctx).
		Model(&domain.ComplianceAlert{}).
		Select(column + " AS group_key, COUNT(*) AS count").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, r := range rows {
		result[r.GroupKey] = r.Count
	}
	return result, nil
}

// RiskScoreRepository 客户风险评分仓储
type RiskScoreRepository struct {
	db *gorm.DB
}

// NewRiskScoreRepository 创建风险评分仓储
func NewRiskScoreRepository(db *gorm.DB) *RiskScoreRepository {
	return &RiskScoreRepository{db: db}
}

// Upsert 写入或更新客户最新评分快照
func (r *RiskScoreRepository) Upsert(ctx context.Context, score *domain.CustomerRiskScore) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "customer_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"overall_score", "level", "method", "confidence", "assessed_at", "next_review_at", "updated_at",
			}),
		}).
		Create(score).Error
}

// FindByCustomerID 查询客户最新评分快照，不存在时返回 nil
func (r *RiskScoreRepository) FindByCustomerID(ctx context.Context, customerID string) (*domain.CustomerRiskScore, error) {
	var score domain.CustomerRiskScore
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		First(&score).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &score, nil
}

package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// CustomerType 客户类型
type CustomerType string

const (
	CustomerTypeIndividual CustomerType = "INDIVIDUAL"
	CustomerTypeCorporate  CustomerType = "CORPORATE"
	CustomerTypeTrust      CustomerType = "TRUST"
	CustomerTypePEP        CustomerType = "PEP"
)

// KYCStatus 客户当前 KYC 状态，随时间单调推进
type KYCStatus string

const (
	KYCStatusPending  KYCStatus = "PENDING"
	KYCStatusVerified KYCStatus = "VERIFIED"
	KYCStatusRejected KYCStatus = "REJECTED"
)

// RiskLevel 客户风险等级
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "LOW"
	RiskLevelMedium   RiskLevel = "MEDIUM"
	RiskLevelHigh     RiskLevel = "HIGH"
	RiskLevelVeryHigh RiskLevel = "VERY_HIGH"
)

// IdentificationDocument 身份证明文件
type IdentificationDocument struct {
	Type           string     `json:"type"`
	Number         string     `json:"number"`
	IssuingCountry string     `json:"issuing_country"`
	IssuedAt       *time.Time `json:"issued_at,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
}

// DocumentList 以 JSON 列存储的证件列表
type DocumentList []IdentificationDocument

// Value 实现 driver.Valuer
func (l DocumentList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	return string(data), err
}

// Scan 实现 sql.Scanner
func (l *DocumentList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for DocumentList: %T", value)
	}
}

// Customer 客户实体
type Customer struct {
	gorm.Model
	CustomerID  string       `gorm:"column:customer_id;type:varchar(32);uniqueIndex;not null" json:"customer_id"`
	FirstName   string       `gorm:"column:first_name;type:varchar(100)" json:"first_name"`
	LastName    string       `gorm:"column:last_name;type:varchar(100)" json:"last_name"`
	Type        CustomerType `gorm:"column:type;type:varchar(20);not null" json:"type"`
	Country     string       `gorm:"column:country;type:varchar(2)" json:"country"`
	Industry    string       `gorm:"column:industry;type:varchar(50)" json:"industry"`
	DateOfBirth *time.Time   `gorm:"column:date_of_birth" json:"date_of_birth,omitempty"`
	Nationality string       `gorm:"column:nationality;type:varchar(2)" json:"nationality"`
	Documents   DocumentList `gorm:"column:documents;type:json" json:"documents"`
	KYCStatus   KYCStatus    `gorm:"column:kyc_status;type:varchar(20);not null;default:'PENDING'" json:"kyc_status"`
	RiskLevel   RiskLevel    `gorm:"column:risk_level;type:varchar(20);not null;default:'LOW'" json:"risk_level"`
}

// TableName 指定表名
func (Customer) TableName() string { return "customers" }

// FullName 返回 "first last"，两段均为空时返回空串
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// SearchTerms 构造去重后的筛查检索词：全名、倒序全名、名、姓及全部证件号。
// 空白词被丢弃；去重后顺序不影响筛查结果。
func (c *Customer) SearchTerms() []string {
	candidates := []string{
		c.FullName(),
		joinNonEmpty(c.LastName, c.FirstName),
		c.FirstName,
		c.LastName,
	}
	for _, doc := range c.Documents {
		candidates = append(candidates, doc.Number)
	}

	seen := make(map[string]bool, len(candidates))
	terms := make([]string, 0, len(candidates))
	for _, t := range candidates {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if seen[key] {
			continue
		}
		seen[key] = true
		terms = append(terms, t)
	}
	return terms
}

func joinNonEmpty(last, first string) string {
	if strings.TrimSpace(last) == "" || strings.TrimSpace(first) == "" {
		return ""
	}
	return last + ", " + first
}

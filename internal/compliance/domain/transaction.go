package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction 交易实体，一经落库不可变
type Transaction struct {
	gorm.Model
	TransactionID string          `gorm:"column:transaction_id;type:varchar(32);uniqueIndex;not null" json:"transaction_id"`
	CustomerID    string          `gorm:"column:customer_id;type:varchar(32);index;not null" json:"customer_id"`
	Amount        decimal.Decimal `gorm:"column:amount;type:decimal(20,4);not null" json:"amount"`
	Currency      string          `gorm:"column:currency;type:varchar(3);not null" json:"currency"`
	Timestamp     time.Time       `gorm:"column:timestamp;index;not null" json:"timestamp"`
	Type          string          `gorm:"column:type;type:varchar(30)" json:"type"`
	Channel       string          `gorm:"column:channel;type:varchar(30)" json:"channel"`

	CounterpartyName    string `gorm:"column:counterparty_name;type:varchar(200)" json:"counterparty_name"`
	CounterpartyAccount string `gorm:"column:counterparty_account;type:varchar(64)" json:"counterparty_account"`
	CounterpartyBank    string `gorm:"column:counterparty_bank;type:varchar(100)" json:"counterparty_bank"`
	CounterpartyCountry string `gorm:"column:counterparty_country;type:varchar(2)" json:"counterparty_country"`
}

// TableName 指定表名
func (Transaction) TableName() string { return "transactions" }

// AmountFloat 返回金额的浮点表示，检测器内部计算使用
func (t *Transaction) AmountFloat() float64 {
	f, _ := t.Amount.Float64()
	return f
}

// Hour 返回交易发生的小时（0-23）
func (t *Transaction) Hour() int {
	return t.Timestamp.Hour()
}

// Validate 校验交易基本不变量：金额非负、币种为三位字母码
func (t *Transaction) Validate() error {
	if t.TransactionID == "" {
		return fmt.Errorf("transaction_id is required")
	}
	if t.CustomerID == "" {
		return fmt.Errorf("customer_id is required")
	}
	if t.Amount.IsNegative() {
		return fmt.Errorf("amount must be non-negative, got %s", t.Amount)
	}
	if len(t.Currency) != 3 {
		return fmt.Errorf("currency must be a 3-letter ISO code, got %q", t.Currency)
	}
	return nil
}

package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

// StringList 字符串切片，以 JSON 列存储
type StringList []string

// Value 实现 driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan 实现 sql.Scanner
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for StringList", value)
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, l)
}

// EntityType 名单实体类型
type EntityType string

const (
	EntityTypeIndividual   EntityType = "INDIVIDUAL"
	EntityTypeOrganization EntityType = "ORGANIZATION"
	EntityTypeVessel       EntityType = "VESSEL"
)

// SanctionsEntry 制裁/监控名单条目。
// IsActive 为假的条目保留在库中供审计，但不参与筛查。
type SanctionsEntry struct {
	gorm.Model
	EntryID     string     `gorm:"column:entry_id;type:varchar(64);uniqueIndex;not null" json:"entry_id"`
	ListName    string     `gorm:"column:list_name;type:varchar(50);index;not null" json:"list_name"`
	Source      string     `gorm:"column:source;type:varchar(50)" json:"source"`
	EntityType  EntityType `gorm:"column:entity_type;type:varchar(20)" json:"entity_type"`
	PrimaryName string     `gorm:"column:primary_name;type:varchar(200);index;not null" json:"primary_name"`
	Aliases     StringList `gorm:"column:aliases;type:json" json:"aliases"`
	Identifiers StringList `gorm:"column:identifiers;type:json" json:"identifiers"`
	Country     string     `gorm:"column:country;type:varchar(2)" json:"country"`
	Remarks     string     `gorm:"column:remarks;type:varchar(500)" json:"remarks"`
	IsActive    bool       `gorm:"column:is_active;index;default:true" json:"is_active"`
}

// TableName 指定表名
func (SanctionsEntry) TableName() string { return "sanctions_entries" }

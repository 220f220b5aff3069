package domain

import "errors"

var (
	// ErrInsufficientInput 输入不足，无法完成风险评估
	ErrInsufficientInput = errors.New("insufficient input for risk assessment")
	// ErrInvalidConfig 配置非法（阈值越界、权重为负等），构造时立即返回
	ErrInvalidConfig = errors.New("invalid engine configuration")
	// ErrCustomerNotFound 客户不存在
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrAlertNotFound 告警不存在
	ErrAlertNotFound = errors.New("alert not found")
)

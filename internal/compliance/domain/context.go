package domain

// MonitoringContext 单次监控评估的瞬态上下文：
// 当前交易、客户、窗口内历史交易及其派生画像。
// 上下文装配完成后检测器不再做任何 I/O。
type MonitoringContext struct {
	Transaction *Transaction
	Customer    *Customer
	History     []Transaction
	Profile     *CustomerProfile
}

// NewMonitoringContext 装配监控上下文并推导客户画像
func NewMonitoringContext(tx *Transaction, customer *Customer, history []Transaction) *MonitoringContext {
	return &MonitoringContext{
		Transaction: tx,
		Customer:    customer,
		History:     history,
		Profile:     BuildProfile(history),
	}
}

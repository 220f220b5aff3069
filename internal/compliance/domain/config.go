package domain

import (
	"fmt"
	"strings"
)

// MonitoringConfig 交易监控引擎配置，构造后只读
type MonitoringConfig struct {
	// 综合评分达到该值即判定可疑
	RiskScoreThreshold float64
	// 大额交易阈值
	HighValueThreshold float64
	// 高频规则：窗口内最大交易笔数
	VelocityMaxTransactions int
	// 高频规则：窗口小时数
	VelocityWindowHours int
	// 高风险国家（ISO 两位码）
	HighRiskCountries []string
	// 对手方名称可疑关键词
	SuspiciousTokens []string
}

// Validate 校验监控配置，非法配置在构造期立即失败
func (c *MonitoringConfig) Validate() error {
	if c.RiskScoreThreshold < 0 || c.RiskScoreThreshold > 100 {
		return fmt.Errorf("%w: risk_score_threshold %v outside [0,100]", ErrInvalidConfig, c.RiskScoreThreshold)
	}
	if c.HighValueThreshold <= 0 {
		return fmt.Errorf("%w: high_value_threshold must be positive, got %v", ErrInvalidConfig, c.HighValueThreshold)
	}
	if c.VelocityMaxTransactions <= 0 {
		return fmt.Errorf("%w: velocity_max_transactions must be positive, got %d", ErrInvalidConfig, c.VelocityMaxTransactions)
	}
	if c.VelocityWindowHours <= 0 {
		return fmt.Errorf("%w: velocity_window_hours must be positive, got %d", ErrInvalidConfig, c.VelocityWindowHours)
	}
	return nil
}

// HighRiskCountrySet 返回大写国家码集合
func (c *MonitoringConfig) HighRiskCountrySet() map[string]bool {
	set := make(map[string]bool, len(c.HighRiskCountries))
	for _, country := range c.HighRiskCountries {
		set[strings.ToUpper(strings.TrimSpace(country))] = true
	}
	return set
}

// DefaultMonitoringConfig 返回默认监控配置
func DefaultMonitoringConfig() MonitoringConfig {
	return MonitoringConfig{
		RiskScoreThreshold:      50,
		HighValueThreshold:      10000,
		VelocityMaxTransactions: 10,
		VelocityWindowHours:     1,
		HighRiskCountries:       []string{"KP", "IR", "SY", "CU", "MM", "AF"},
		SuspiciousTokens:        []string{"cash", "bearer", "anonymous", "shell"},
	}
}

// ScreeningConfig 名单筛查配置
type ScreeningConfig struct {
	// 匹配阈值，范围 [0,1]；聚合得分达到 100*threshold 即判定命中
	MatchThreshold float64
}

// Validate 校验筛查配置
func (c *ScreeningConfig) Validate() error {
	if c.MatchThreshold < 0 || c.MatchThreshold > 1 {
		return fmt.Errorf("%w: match_threshold %v outside [0,1]", ErrInvalidConfig, c.MatchThreshold)
	}
	return nil
}

// DefaultScreeningConfig 返回默认筛查配置
func DefaultScreeningConfig() ScreeningConfig {
	return ScreeningConfig{MatchThreshold: 0.75}
}

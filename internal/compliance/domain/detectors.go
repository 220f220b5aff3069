package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DefaultDetectors 返回引擎默认的检测器集合，顺序即输出顺序
func DefaultDetectors(cfg MonitoringConfig) []Detector {
	return []Detector{
		&HighValueDetector{Threshold: cfg.HighValueThreshold},
		&VelocityDetector{MaxTransactions: cfg.VelocityMaxTransactions, WindowHours: cfg.VelocityWindowHours},
		&RoundAmountDetector{HighValueThreshold: cfg.HighValueThreshold},
		&GeographicDetector{HighRiskCountries: cfg.HighRiskCountrySet()},
		&TimeAnomalyDetector{},
		&CounterpartyDetector{SuspiciousTokens: cfg.SuspiciousTokens},
		&BehavioralDetector{},
	}
}

// HighValueDetector 大额交易检测。
// 得分随金额线性增长：min(amount/threshold*25, 100)；
// 金额达到阈值 5 倍升级为 CRITICAL。
type HighValueDetector struct {
	Threshold float64
}

func (d *HighValueDetector) ID() string   { return "RULE_HIGH_VALUE" }
func (d *HighValueDetector) Name() string { return "High Value Transaction" }

func (d *HighValueDetector) Evaluate(mctx *MonitoringContext) (*TriggeredRule, error) {
	amount := mctx.Transaction.AmountFloat()
	if math.IsNaN(amount) || amount < d.Threshold {
		return nil, nil
	}

	severity := SeverityHigh
	if amount >= 5*d.Threshold {
		severity = SeverityCritical
	}

	return &TriggeredRule{
		RuleID:         d.ID(),
		RuleName:       d.Name(),
		RuleType:       "AMOUNT",
		Severity:       severity,
		Description:    fmt.Sprintf("transaction amount %.2f exceeds high value threshold %.2f", amount, d.Threshold),
		RiskScore:      math.Min(amount/d.Threshold*25, 100),
		ThresholdValue: d.Threshold,
		ActualValue:    amount,
	}, nil
}

// VelocityDetector 高频交易检测。
// 统计当前交易之前窗口内的历史交易笔数（不含当前交易），
// 超过上限即命中，得分 min(k/max*30, 100)。
type VelocityDetector struct {
	MaxTransactions int
	WindowHours     int
}

func (d *VelocityDetector) ID() string   { return "RULE_VELOCITY" }
func (d *VelocityDetector) Name() string { return "Transaction Velocity" }

func (d *VelocityDetector) Evaluate(mctx *MonitoringContext) (*TriggeredRule, error) {
	windowStart := mctx.Transaction.Timestamp.Add(-time.Duration(d.WindowHours) * time.Hour)
	now := mctx.Transaction.Timestamp

	count := 0
	for i := range mctx.History {
		ts := mctx.History[i].Timestamp
		if ts.Before(now) && !ts.Before(windowStart) {
			count++
		}
	}

	if count <= d.MaxTransactions {
		return nil, nil
	}

	return &TriggeredRule{
		RuleID:         d.ID(),
		RuleName:       d.Name(),
		RuleType:       "FREQUENCY",
		Severity:       SeverityMedium,
		Description:    fmt.Sprintf("%d transactions within %d hour window exceeds limit of %d", count, d.WindowHours, d.MaxTransactions),
		RiskScore:      math.Min(float64(count)/float64(d.MaxTransactions)*30, 100),
		ThresholdValue: float64(d.MaxTransactions),
		ActualValue:    float64(count),
	}, nil
}

// RoundAmountDetector 结构化拆分检测。
// 拆分行为的本质是规避申报阈值，因此只考察阈值以下的交易；
// 刻意贴近阈值（95% 至阈值之间）的风险高于单纯整数金额，
// 两种模式同时满足时取前者。
type RoundAmountDetector struct {
	HighValueThreshold float64
}

func (d *RoundAmountDetector) ID() string   { return "RULE_ROUND_AMOUNT" }
func (d *RoundAmountDetector) Name() string { return "Round Amount Structuring" }

func (d *RoundAmountDetector) Evaluate(mctx *MonitoringContext) (*TriggeredRule, error) {
	amount := mctx.Transaction.AmountFloat()
	if math.IsNaN(amount) || amount <= 0 || amount >= d.HighValueThreshold {
		return nil, nil
	}

	if amount > 0.95*d.HighValueThreshold && amount < d.HighValueThreshold {
		return &TriggeredRule{
			RuleID:         d.ID(),
			RuleName:       d.Name(),
			RuleType:       "PATTERN",
			Severity:       SeverityHigh,
			Description:    fmt.Sprintf("amount %.2f deliberately just below reporting threshold %.2f", amount, d.HighValueThreshold),
			RiskScore:      40,
			ThresholdValue: d.HighValueThreshold,
			ActualValue:    amount,
		}, nil
	}

	if amount >= 5000 && math.Mod(amount, 1000) == 0 {
		return &TriggeredRule{
			RuleID:      d.ID(),
			RuleName:    d.Name(),
			RuleType:    "PATTERN",
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("round amount %.2f may indicate structuring", amount),
			RiskScore:   20,
			ActualValue: amount,
		}, nil
	}

	return nil, nil
}

// GeographicDetector 地域异常检测。
// 对手方位于高风险司法辖区直接命中；客户具备足够历史
// （超过 10 笔）且目的国从未出现过时命中较低分。
type GeographicDetector struct {
	HighRiskCountries map[string]bool
}

func (d *GeographicDetector) ID() string   { return "RULE_GEOGRAPHIC" }
func (d *GeographicDetector) Name() string { return "Geographic Anomaly" }

func (d *GeographicDetector) Evaluate(mctx *MonitoringContext) (*TriggeredRule, error) {
	country := strings.ToUpper(strings.TrimSpace(mctx.Transaction.CounterpartyCountry))
	if country == "" {
		return nil, nil
	}

	if d.HighRiskCountries[country] {
		return &TriggeredRule{
			RuleID:      d.ID(),
			RuleName:    d.Name(),
			RuleType:    "GEOGRAPHY",
			Severity:    SeverityHigh,
			Description: fmt.Sprintf("counterparty located in high risk jurisdiction %s", country),
			RiskScore:   50,
		}, nil
	}

	profile := mctx.Profile
	if profile != nil && profile.TotalTransactions > 10 && profile.CountryFrequency[country] == 0 {
		return &TriggeredRule{
			RuleID:      d.ID(),
			RuleName:    d.Name(),
			RuleType:    "GEOGRAPHY",
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("first transaction to previously unseen country %s", country),
			RiskScore:   25,
		}, nil
	}

	return nil, nil
}

// TimeAnomalyDetector 时间异常检测。
// 仅当客户历史充分（超过 10 笔）且夜间交易占比低于 10% 时，
// 当前的夜间交易才视为偏离习惯。
type TimeAnomalyDetector struct{}

func (d *TimeAnomalyDetector) ID() string   { return "RULE_TIME_ANOMALY" }
func (d *TimeAnomalyDetector) Name() string { return "Unusual Transaction Time" }

func (d *TimeAnomalyDetector) Evaluate(mctx *MonitoringContext) (*TriggeredRule, error) {
	hour := mctx.Transaction.Hour()
	if hour < 23 && hour > 5 {
		return nil, nil
	}

	profile := mctx.Profile
	if profile == nil || profile.TotalTransactions <= 10 {
		return nil, nil
	}
	if profile.NightHourRatio() >= 0.10 {
		return nil, nil
	}

	return &TriggeredRule{
		RuleID:      d.ID(),
		RuleName:    d.Name(),
		RuleType:    "TEMPORAL",
		Severity:    SeverityLow,
		Description: fmt.Sprintf("transaction at hour %02d deviates from customer's usual activity window", hour),
		RiskScore:   15,
		ActualValue: float64(hour),
	}, nil
}

// CounterpartyDetector 对手方名称可疑关键词检测，大小写不敏感子串匹配
type CounterpartyDetector struct {
	SuspiciousTokens []string
}

func (d *CounterpartyDetector) ID() string   { return "RULE_COUNTERPARTY" }
func (d *CounterpartyDetector) Name() string { return "Suspicious Counterparty" }

func (d *CounterpartyDetector) Evaluate(mctx *MonitoringContext) (*TriggeredRule, error) {
	name := strings.ToLower(mctx.Transaction.CounterpartyName)
	if name == "" {
		return nil, nil
	}

	for _, token := range d.SuspiciousTokens {
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" {
			continue
		}
		if strings.Contains(name, token) {
			return &TriggeredRule{
				RuleID:      d.ID(),
				RuleName:    d.Name(),
				RuleType:    "COUNTERPARTY",
				Severity:    SeverityMedium,
				Description: fmt.Sprintf("counterparty name contains suspicious token %q", token),
				RiskScore:   30,
			}, nil
		}
	}

	return nil, nil
}

// BehavioralDetector 行为偏离检测。
// 客户历史充分（超过 5 笔）且均值为正时，金额相对均值的偏离
// 倍数超过 5 即命中，得分 min(ratio*5, 50)。
type BehavioralDetector struct{}

func (d *BehavioralDetector) ID() string   { return "RULE_BEHAVIORAL" }
func (d *BehavioralDetector) Name() string { return "Behavioral Deviation" }

func (d *BehavioralDetector) Evaluate(mctx *MonitoringContext) (*TriggeredRule, error) {
	profile := mctx.Profile
	if profile == nil || profile.TotalTransactions <= 5 || profile.AverageAmount <= 0 {
		return nil, nil
	}

	amount := mctx.Transaction.AmountFloat()
	ratio := math.Abs(amount-profile.AverageAmount) / profile.AverageAmount
	if math.IsNaN(ratio) || ratio <= 5 {
		return nil, nil
	}

	return &TriggeredRule{
		RuleID:         d.ID(),
		RuleName:       d.Name(),
		RuleType:       "BEHAVIOR",
		Severity:       SeverityMedium,
		Description:    fmt.Sprintf("amount deviates %.1fx from customer average %.2f", ratio, profile.AverageAmount),
		RiskScore:      math.Min(ratio*5, 50),
		ThresholdValue: profile.AverageAmount,
		ActualValue:    amount,
	}, nil
}

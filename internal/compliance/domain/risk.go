package domain

import (
	"fmt"
	"time"
)

// FactorType 风险因子类型
type FactorType string

const (
	FactorGeographic   FactorType = "geographic"
	FactorIndustry     FactorType = "industry"
	FactorCustomerType FactorType = "customer_type"
	FactorVolume       FactorType = "volume"
	FactorFrequency    FactorType = "frequency"
	FactorBehavioral   FactorType = "behavioral"
	FactorPattern      FactorType = "pattern"
	FactorSanctions    FactorType = "sanctions"
)

// AggregationMethod 风险聚合方法
type AggregationMethod string

const (
	MethodWeightedMean AggregationMethod = "weighted_mean"
	MethodMaximum      AggregationMethod = "maximum"
	MethodBayesian     AggregationMethod = "bayesian"
)

// RiskFactor 单项风险因子
type RiskFactor struct {
	Type        FactorType `json:"type"`
	Score       float64    `json:"score"`
	Description string     `json:"description"`
	Weight      float64    `json:"weight"`
	Confidence  float64    `json:"confidence"`
}

// RiskAssessment 风险评估结论
type RiskAssessment struct {
	CustomerID      string                 `json:"customer_id"`
	OverallScore    float64                `json:"overall_score"`
	Level           RiskLevel              `json:"level"`
	Factors         []RiskFactor           `json:"factors"`
	Breakdown       map[FactorType]float64 `json:"breakdown"`
	Method          AggregationMethod      `json:"method"`
	Confidence      float64                `json:"confidence"`
	Recommendations []string               `json:"recommendations"`
	AssessedAt      time.Time              `json:"assessed_at"`
	NextReviewAt    time.Time              `json:"next_review_at"`
}

// RiskConfig 风险引擎配置，构造后只读
type RiskConfig struct {
	// 聚合方法
	Method AggregationMethod
	// 国家风险表，未知国家得 50
	CountryRisk map[string]float64
	// 行业风险表，未知行业得 50
	IndustryRisk map[string]float64
	// 因子权重表，缺省权重 1.0
	FactorWeights map[FactorType]float64
}

// Validate 校验风险配置
func (c *RiskConfig) Validate() error {
	switch c.Method {
	case MethodWeightedMean, MethodMaximum, MethodBayesian:
	default:
		return fmt.Errorf("%w: unknown aggregation method %q", ErrInvalidConfig, c.Method)
	}
	for name, score := range c.CountryRisk {
		if score < 0 || score > 100 {
			return fmt.Errorf("%w: country risk %q score %v outside [0,100]", ErrInvalidConfig, name, score)
		}
	}
	for name, score := range c.IndustryRisk {
		if score < 0 || score > 100 {
			return fmt.Errorf("%w: industry risk %q score %v outside [0,100]", ErrInvalidConfig, name, score)
		}
	}
	for factor, weight := range c.FactorWeights {
		if weight < 0 {
			return fmt.Errorf("%w: factor %q weight %v is negative", ErrInvalidConfig, factor, weight)
		}
	}
	return nil
}

// DefaultRiskConfig 返回默认风险配置。
// 权重倾向制裁、客户类型与行为模式，弱化交易量与频率。
func DefaultRiskConfig() RiskConfig {
	return RiskConfig{
		Method: MethodWeightedMean,
		CountryRisk: map[string]float64{
			"KP": 95, "IR": 95, "SY": 90, "CU": 80, "MM": 80, "AF": 85,
			"US": 20, "GB": 20, "DE": 15, "JP": 15, "SG": 20, "CN": 40,
		},
		IndustryRisk: map[string]float64{
			"casino": 85, "crypto": 80, "money_service": 85, "arms": 95,
			"precious_metals": 70, "real_estate": 60, "retail": 25,
			"technology": 20, "manufacturing": 25,
		},
		FactorWeights: map[FactorType]float64{
			FactorGeographic:   1.2,
			FactorIndustry:     1.0,
			FactorCustomerType: 1.1,
			FactorVolume:       0.8,
			FactorFrequency:    0.8,
			FactorBehavioral:   1.0,
			FactorPattern:      1.2,
			FactorSanctions:    1.5,
		},
	}
}

// Clock 时钟抽象，评估复核日期时注入，测试使用假时钟
type Clock interface {
	Now() time.Time
}

// SystemClock 系统时钟
type SystemClock struct{}

// Now 返回当前 UTC 时间
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// RiskEngine 客户风险评分引擎。纯求值，不做 I/O，可并发复用。
type RiskEngine struct {
	cfg   RiskConfig
	clock Clock
}

// NewRiskEngine 创建风险引擎，配置非法时立即失败
func NewRiskEngine(cfg RiskConfig, clock Clock) (*RiskEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &RiskEngine{cfg: cfg, clock: clock}, nil
}

// AssessCustomer 评估单个客户的综合风险。
// 客户为空时返回 ErrInsufficientInput；交易序列可选。
func (e *RiskEngine) AssessCustomer(customer *Customer, transactions []Transaction) (*RiskAssessment, error) {
	if customer == nil {
		return nil, fmt.Errorf("%w: customer is required", ErrInsufficientInput)
	}

	factors := e.assembleFactors(customer, transactions)
	return e.Aggregate(customer.CustomerID, factors)
}

// Aggregate 聚合因子集合为评估结论，空因子集返回 ErrInsufficientInput
func (e *RiskEngine) Aggregate(customerID string, factors []RiskFactor) (*RiskAssessment, error) {
	if len(factors) == 0 {
		return nil, fmt.Errorf("%w: no risk factors to aggregate", ErrInsufficientInput)
	}

	for i := range factors {
		factors[i].Score = clampScore(factors[i].Score)
	}

	var score float64
	switch e.cfg.Method {
	case MethodMaximum:
		score = aggregateMaximum(factors)
	case MethodBayesian:
		score = aggregateBayesian(factors)
	default:
		score = aggregateWeightedMean(factors)
	}
	score = clampScore(score)

	level := LevelForScore(score)
	now := e.clock.Now()

	breakdown := make(map[FactorType]float64, len(factors))
	confidence := 0.0
	for _, f := range factors {
		breakdown[f.Type] = f.Score
		confidence += f.Confidence
	}
	confidence /= float64(len(factors))

	return &RiskAssessment{
		CustomerID:      customerID,
		OverallScore:    score,
		Level:           level,
		Factors:         factors,
		Breakdown:       breakdown,
		Method:          e.cfg.Method,
		Confidence:      confidence,
		Recommendations: RecommendationsForLevel(level),
		AssessedAt:      now,
		NextReviewAt:    now.AddDate(0, 0, ReviewIntervalDays(level)),
	}, nil
}

// assembleFactors 装配客户的风险因子
func (e *RiskEngine) assembleFactors(customer *Customer, transactions []Transaction) []RiskFactor {
	factors := make([]RiskFactor, 0, 7)

	countryScore, countryKnown := e.cfg.CountryRisk[customer.Country]
	if !countryKnown {
		countryScore = 50
	}
	factors = append(factors, RiskFactor{
		Type:        FactorGeographic,
		Score:       countryScore,
		Description: fmt.Sprintf("country of residence %s", customer.Country),
		Weight:      e.weightFor(FactorGeographic),
		Confidence:  0.9,
	})

	industryScore, industryKnown := e.cfg.IndustryRisk[customer.Industry]
	if !industryKnown {
		industryScore = 50
	}
	factors = append(factors, RiskFactor{
		Type:        FactorIndustry,
		Score:       industryScore,
		Description: fmt.Sprintf("industry %s", customer.Industry),
		Weight:      e.weightFor(FactorIndustry),
		Confidence:  0.8,
	})

	factors = append(factors, RiskFactor{
		Type:        FactorCustomerType,
		Score:       customerTypeScore(customer.Type),
		Description: fmt.Sprintf("customer type %s", customer.Type),
		Weight:      e.weightFor(FactorCustomerType),
		Confidence:  0.95,
	})

	if len(transactions) > 0 {
		profile := BuildProfile(transactions)
		factors = append(factors,
			RiskFactor{
				Type:        FactorVolume,
				Score:       volumeScore(profile.AverageAmount),
				Description: fmt.Sprintf("average transaction amount %.2f", profile.AverageAmount),
				Weight:      e.weightFor(FactorVolume),
				Confidence:  0.85,
			},
			RiskFactor{
				Type:        FactorFrequency,
				Score:       frequencyScore(profile.TotalTransactions),
				Description: fmt.Sprintf("%d transactions in review window", profile.TotalTransactions),
				Weight:      e.weightFor(FactorFrequency),
				Confidence:  0.9,
			},
			RiskFactor{
				Type:        FactorBehavioral,
				Score:       25,
				Description: "baseline behavioral assessment",
				Weight:      e.weightFor(FactorBehavioral),
				Confidence:  0.7,
			},
			RiskFactor{
				Type:        FactorPattern,
				Score:       30,
				Description: "baseline pattern assessment",
				Weight:      e.weightFor(FactorPattern),
				Confidence:  0.75,
			},
		)
	}

	return factors
}

func (e *RiskEngine) weightFor(factor FactorType) float64 {
	if w, ok := e.cfg.FactorWeights[factor]; ok {
		return w
	}
	return 1.0
}

func customerTypeScore(t CustomerType) float64 {
	switch t {
	case CustomerTypeIndividual:
		return 30
	case CustomerTypeCorporate:
		return 50
	case CustomerTypeTrust:
		return 70
	case CustomerTypePEP:
		return 90
	default:
		return 50
	}
}

func volumeScore(average float64) float64 {
	switch {
	case average > 100000:
		return 80
	case average > 50000:
		return 60
	case average > 10000:
		return 40
	default:
		return 20
	}
}

func frequencyScore(count int) float64 {
	switch {
	case count > 100:
		return 70
	case count > 50:
		return 50
	case count > 20:
		return 30
	default:
		return 10
	}
}

func aggregateWeightedMean(factors []RiskFactor) float64 {
	var weighted, totalWeight float64
	for _, f := range factors {
		weighted += f.Score * f.Weight
		totalWeight += f.Weight
	}
	if totalWeight == 0 {
		return 0
	}
	return weighted / totalWeight
}

func aggregateMaximum(factors []RiskFactor) float64 {
	max := 0.0
	for _, f := range factors {
		if f.Score > max {
			max = f.Score
		}
	}
	return max
}

// aggregateBayesian 以 0.5 为先验逐因子更新。
// 似然被夹在 [0.01,0.99]，避免 0 或 100 分因子把后验锁死在吸收态。
func aggregateBayesian(factors []RiskFactor) float64 {
	p := 0.5
	for _, f := range factors {
		l := f.Score / 100
		if l < 0.01 {
			l = 0.01
		}
		if l > 0.99 {
			l = 0.99
		}
		p = p * l / (p*l + (1-p)*(1-l))
	}
	return 100 * p
}

// LevelForScore 评分映射到离散风险等级
func LevelForScore(score float64) RiskLevel {
	switch {
	case score >= 90:
		return RiskLevelVeryHigh
	case score >= 70:
		return RiskLevelHigh
	case score >= 50:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}

// ReviewIntervalDays 返回等级对应的复核周期天数
func ReviewIntervalDays(level RiskLevel) int {
	switch level {
	case RiskLevelVeryHigh:
		return 30
	case RiskLevelHigh:
		return 90
	case RiskLevelMedium:
		return 180
	default:
		return 365
	}
}

// RecommendationsForLevel 返回等级对应的缓释建议
func RecommendationsForLevel(level RiskLevel) []string {
	switch level {
	case RiskLevelVeryHigh:
		return []string{
			"escalate to compliance officer for enhanced due diligence",
			"apply transaction limits pending review",
			"schedule 30-day review",
		}
	case RiskLevelHigh:
		return []string{
			"perform enhanced due diligence",
			"increase transaction monitoring sensitivity",
		}
	case RiskLevelMedium:
		return []string{
			"continue standard monitoring",
			"verify customer information at next review",
		}
	default:
		return []string{"standard monitoring"}
	}
}

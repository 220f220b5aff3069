package domain

// CustomerProfile 客户行为画像，由历史交易单趟推导，核心层不缓存
type CustomerProfile struct {
	TotalTransactions int            `json:"total_transactions"`
	AverageAmount     float64        `json:"average_amount"`
	TotalVolume       float64        `json:"total_volume"`
	CountryFrequency  map[string]int `json:"country_frequency"`
	HourHistogram     map[int]int    `json:"hour_histogram"`
	AmountVariance    float64        `json:"amount_variance"`
}

// BuildProfile 单趟扫描历史交易构建画像。
// 方差采用 Welford 算法的样本方差，交易数不足 2 时为 0。
// 币种在此层被忽略，调用方负责喂入单一币种或事先归一的序列。
func BuildProfile(history []Transaction) *CustomerProfile {
	profile := &CustomerProfile{
		CountryFrequency: make(map[string]int),
		HourHistogram:    make(map[int]int),
	}

	var mean, m2 float64
	for i := range history {
		tx := &history[i]
		amount := tx.AmountFloat()

		profile.TotalTransactions++
		profile.TotalVolume += amount

		// Welford 增量更新
		delta := amount - mean
		mean += delta / float64(profile.TotalTransactions)
		m2 += delta * (amount - mean)

		if tx.CounterpartyCountry != "" {
			profile.CountryFrequency[tx.CounterpartyCountry]++
		}
		profile.HourHistogram[tx.Hour()]++
	}

	if profile.TotalTransactions > 0 {
		profile.AverageAmount = profile.TotalVolume / float64(profile.TotalTransactions)
	}
	if profile.TotalTransactions >= 2 {
		profile.AmountVariance = m2 / float64(profile.TotalTransactions-1)
	}

	return profile
}

// NightHourRatio 返回历史交易中夜间时段（23 点至次日 5 点）的占比
func (p *CustomerProfile) NightHourRatio() float64 {
	if p.TotalTransactions == 0 {
		return 0
	}
	nights := 0
	for hour, count := range p.HourHistogram {
		if hour >= 23 || hour <= 5 {
			nights += count
		}
	}
	return float64(nights) / float64(p.TotalTransactions)
}

package domain

import (
	"sort"
	"strings"
	"time"
)

// ScreeningResult 一次筛查的聚合结论
type ScreeningResult struct {
	IsMatch      bool     `json:"is_match"`
	MatchScore   float64  `json:"match_score"`
	MatchDetails string   `json:"match_details"`
	MatchedLists []string `json:"matched_lists"`
	ScreenedAt   time.Time `json:"screened_at"`
}

// Screener 名单筛查器：对每个在册条目执行全部策略并聚合。
// 构造后仅持有只读配置，纯求值，不做 I/O。
type Screener struct {
	cfg        ScreeningConfig
	strategies []MatchStrategy
}

// NewScreener 创建筛查器，配置非法时立即失败
func NewScreener(cfg ScreeningConfig, strategies ...MatchStrategy) (*Screener, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(strategies) == 0 {
		strategies = DefaultStrategies(cfg)
	}
	return &Screener{cfg: cfg, strategies: strategies}, nil
}

// Screen 对检索词集合执行筛查。
// 聚合规则：追踪全部 (条目, 策略) 对中的最高得分；任一策略
// 产生正向命中（is_match 或得分达到 100*threshold）的名单
// 计入 matched_lists。最终 is_match = 最高得分 >= 100*threshold。
// 非在册条目直接跳过；空条目集返回结构完整的否定结论。
func (s *Screener) Screen(terms []string, entries []SanctionsEntry) *ScreeningResult {
	result := &ScreeningResult{
		MatchedLists: make([]string, 0),
		ScreenedAt:   time.Now().UTC(),
	}

	if len(entries) == 0 || len(terms) == 0 {
		result.MatchDetails = "no active watchlist entries or empty search terms"
		return result
	}

	matchedLists := make(map[string]bool)
	details := make([]string, 0)

	for i := range entries {
		entry := &entries[i]
		if !entry.IsActive {
			continue
		}
		for _, strategy := range s.strategies {
			match := strategy.Screen(terms, entry)
			if match.Score > result.MatchScore {
				result.MatchScore = match.Score
			}
			if match.IsMatch || match.Score >= 100*s.cfg.MatchThreshold {
				if entry.ListName != "" && !matchedLists[entry.ListName] {
					matchedLists[entry.ListName] = true
					result.MatchedLists = append(result.MatchedLists, entry.ListName)
				}
				details = append(details, match.Detail)
			}
		}
	}

	sort.Strings(result.MatchedLists)
	result.IsMatch = result.MatchScore >= 100*s.cfg.MatchThreshold
	if len(details) > 0 {
		result.MatchDetails = strings.Join(details, "; ")
	} else {
		result.MatchDetails = "no match against active watchlists"
	}

	return result
}

// ScreenName 对单个名称执行筛查
func (s *Screener) ScreenName(name string, entries []SanctionsEntry) *ScreeningResult {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ScreeningResult{
			MatchedLists: make([]string, 0),
			MatchDetails: "empty name",
			ScreenedAt:   time.Now().UTC(),
		}
	}
	return s.Screen([]string{name}, entries)
}

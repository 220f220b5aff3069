package domain

import (
	"fmt"
	"strings"
)

// StrategyMatch 单个策略对单个名单条目的判定
type StrategyMatch struct {
	IsMatch bool    `json:"is_match"`
	Score   float64 `json:"score"`
	Detail  string  `json:"detail"`
}

// MatchStrategy 名单匹配策略。Screen 是纯函数：给定检索词与条目，
// 返回得分 [0,100] 与布尔判定。策略同时检视主名与全部别名，
// 取各名称中的最优结果。
type MatchStrategy interface {
	Name() string
	Screen(terms []string, entry *SanctionsEntry) StrategyMatch
}

// DefaultStrategies 返回默认策略集合，detail 输出顺序与此一致
func DefaultStrategies(cfg ScreeningConfig) []MatchStrategy {
	return []MatchStrategy{
		&ExactStrategy{},
		&FuzzyStrategy{Threshold: cfg.MatchThreshold},
		&PhoneticStrategy{},
		&AliasStrategy{},
		&PartialStrategy{},
	}
}

// entryNames 返回条目的主名与全部别名
func entryNames(entry *SanctionsEntry) []string {
	names := make([]string, 0, 1+len(entry.Aliases))
	if entry.PrimaryName != "" {
		names = append(names, entry.PrimaryName)
	}
	names = append(names, entry.Aliases...)
	return names
}

func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// ExactStrategy 精确匹配：任一检索词与任一名称完全相等即命中，得分 100
type ExactStrategy struct{}

func (s *ExactStrategy) Name() string { return "exact" }

func (s *ExactStrategy) Screen(terms []string, entry *SanctionsEntry) StrategyMatch {
	for _, term := range terms {
		nt := normalizeName(term)
		if nt == "" {
			continue
		}
		for _, name := range entryNames(entry) {
			if nt == normalizeName(name) {
				return StrategyMatch{
					IsMatch: true,
					Score:   100,
					Detail:  fmt.Sprintf("exact match: %q equals %q", term, name),
				}
			}
		}
	}
	return StrategyMatch{}
}

// FuzzyStrategy 模糊匹配：按检索词的词元覆盖率打分，
// score = 覆盖词元数 / 检索词词元数 * 100，达到 100*threshold 即命中
type FuzzyStrategy struct {
	Threshold float64
}

func (s *FuzzyStrategy) Name() string { return "fuzzy" }

func (s *FuzzyStrategy) Screen(terms []string, entry *SanctionsEntry) StrategyMatch {
	best := StrategyMatch{}
	for _, term := range terms {
		termTokens := strings.Fields(strings.ToLower(term))
		if len(termTokens) == 0 {
			continue
		}
		for _, name := range entryNames(entry) {
			nameTokens := make(map[string]bool)
			for _, tok := range strings.Fields(strings.ToLower(name)) {
				nameTokens[tok] = true
			}
			covered := 0
			for _, tok := range termTokens {
				if nameTokens[tok] {
					covered++
				}
			}
			if covered == 0 {
				continue
			}
			score := float64(covered) / float64(len(termTokens)) * 100
			if score > best.Score {
				best = StrategyMatch{
					IsMatch: score >= 100*s.Threshold,
					Score:   score,
					Detail:  fmt.Sprintf("fuzzy match: %q covers %d/%d tokens of %q", name, covered, len(termTokens), term),
				}
			}
		}
	}
	return best
}

// PhoneticStrategy 近音匹配：基于编辑距离，
// score = (1 - d/maxLen) * 100，达到 80 即命中
type PhoneticStrategy struct{}

func (s *PhoneticStrategy) Name() string { return "phonetic" }

func (s *PhoneticStrategy) Screen(terms []string, entry *SanctionsEntry) StrategyMatch {
	best := StrategyMatch{}
	for _, term := range terms {
		nt := normalizeName(term)
		if nt == "" {
			continue
		}
		for _, name := range entryNames(entry) {
			nn := normalizeName(name)
			if nn == "" {
				continue
			}
			maxLen := len(nt)
			if len(nn) > maxLen {
				maxLen = len(nn)
			}
			d := levenshtein(nt, nn)
			score := (1 - float64(d)/float64(maxLen)) * 100
			if score > best.Score {
				best = StrategyMatch{
					IsMatch: score >= 80,
					Score:   score,
					Detail:  fmt.Sprintf("phonetic similarity %.1f between %q and %q", score, term, name),
				}
			}
		}
	}
	return best
}

// AliasStrategy 别名匹配：检索词与任一别名互为子串即命中，得分 75。
// 条目无别名时不产生得分。
type AliasStrategy struct{}

func (s *AliasStrategy) Name() string { return "alias" }

func (s *AliasStrategy) Screen(terms []string, entry *SanctionsEntry) StrategyMatch {
	if len(entry.Aliases) == 0 {
		return StrategyMatch{}
	}
	for _, term := range terms {
		nt := normalizeName(term)
		if nt == "" {
			continue
		}
		for _, alias := range entry.Aliases {
			na := normalizeName(alias)
			if na == "" {
				continue
			}
			if strings.Contains(na, nt) || strings.Contains(nt, na) {
				return StrategyMatch{
					IsMatch: true,
					Score:   75,
					Detail:  fmt.Sprintf("alias match: %q ~ alias %q", term, alias),
				}
			}
		}
	}
	return StrategyMatch{}
}

// PartialStrategy 部分匹配：检索词与主名互为子串且较短一方
// 长度不小于 4 即命中，得分 60
type PartialStrategy struct{}

func (s *PartialStrategy) Name() string { return "partial" }

func (s *PartialStrategy) Screen(terms []string, entry *SanctionsEntry) StrategyMatch {
	np := normalizeName(entry.PrimaryName)
	if np == "" {
		return StrategyMatch{}
	}
	for _, term := range terms {
		nt := normalizeName(term)
		if nt == "" {
			continue
		}
		shorter := len(nt)
		if len(np) < shorter {
			shorter = len(np)
		}
		if shorter < 4 {
			continue
		}
		if strings.Contains(np, nt) || strings.Contains(nt, np) {
			return StrategyMatch{
				IsMatch: true,
				Score:   60,
				Detail:  fmt.Sprintf("partial match: %q ~ %q", term, entry.PrimaryName),
			}
		}
	}
	return StrategyMatch{}
}

// levenshtein 计算两个字符串的编辑距离，滚动数组实现
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

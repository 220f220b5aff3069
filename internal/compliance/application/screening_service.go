package application

import (
	"context"
	"fmt"
	"time"

	"github.com/wyfcoding/compliance/internal/compliance/domain"
	"github.com/wyfcoding/compliance/pkg/logger"
	"github.com/wyfcoding/compliance/pkg/metrics"
)

const watchlistCacheKey = "compliance:watchlist:active"

// WatchlistCache 名单快照缓存端口，*cache.RedisCache 天然满足
type WatchlistCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// ScreeningService 名单筛查用例：加载在册名单快照并执行筛查引擎
type ScreeningService struct {
	screener      *domain.Screener
	customerRepo  domain.CustomerRepository
	sanctionsRepo domain.SanctionsRepository
	cache         WatchlistCache
	cacheTTL      time.Duration
	metrics       *metrics.Metrics
}

// NewScreeningService 创建名单筛查服务；cache 可为 nil，此时每次直查仓储
func NewScreeningService(
	screener *domain.Screener,
	customerRepo domain.CustomerRepository,
	sanctionsRepo domain.SanctionsRepository,
	cache WatchlistCache,
	cacheTTL time.Duration,
	m *metrics.Metrics,
) *ScreeningService {
	return &ScreeningService{
		screener:      screener,
		customerRepo:  customerRepo,
		sanctionsRepo: sanctionsRepo,
		cache:         cache,
		cacheTTL:      cacheTTL,
		metrics:       m,
	}
}

// ScreenCustomer 对客户执行名单筛查：检索词取自客户姓名与证件号
func (s *ScreeningService) ScreenCustomer(ctx context.Context, customerID string) (*domain.ScreeningResult, error) {
	customer, err := s.customerRepo.FindByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrCustomerNotFound
	}

	entries, err := s.activeEntries(ctx)
	if err != nil {
		return nil, err
	}

	result := s.screener.Screen(customer.SearchTerms(), entries)
	s.record(ctx, result, "customer_id", customerID)
	return result, nil
}

// ScreenName 对单个名称执行名单筛查
func (s *ScreeningService) ScreenName(ctx context.Context, name string) (*domain.ScreeningResult, error) {
	entries, err := s.activeEntries(ctx)
	if err != nil {
		return nil, err
	}

	result := s.screener.ScreenName(name, entries)
	s.record(ctx, result, "name", name)
	return result, nil
}

// AddEntry 新增名单条目并失效快照缓存
func (s *ScreeningService) AddEntry(ctx context.Context, entry *domain.SanctionsEntry) error {
	if err := s.sanctionsRepo.SaveEntry(ctx, entry); err != nil {
		return fmt.Errorf("failed to save sanctions entry: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, watchlistCacheKey); err != nil {
			logger.Warn(ctx, "failed to invalidate watchlist cache", "error", err)
		}
	}
	return nil
}

// activeEntries 读取在册名单快照。缓存优先，未命中回源仓储并回填；
// 缓存故障降级为直查。
func (s *ScreeningService) activeEntries(ctx context.Context) ([]domain.SanctionsEntry, error) {
	if s.cache != nil {
		var cached []domain.SanctionsEntry
		found, err := s.cache.GetJSON(ctx, watchlistCacheKey, &cached)
		if err != nil {
			logger.Warn(ctx, "watchlist cache read failed, falling back to repository", "error", err)
		} else if found {
			return cached, nil
		}
	}

	entries, err := s.sanctionsRepo.ActiveEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active sanctions entries: %w", err)
	}

	if s.cache != nil && len(entries) > 0 {
		if err := s.cache.SetJSON(ctx, watchlistCacheKey, entries, s.cacheTTL); err != nil {
			logger.Warn(ctx, "failed to cache watchlist snapshot", "error", err)
		}
	}

	return entries, nil
}

func (s *ScreeningService) record(ctx context.Context, result *domain.ScreeningResult, args ...any) {
	if s.metrics != nil {
		s.metrics.ScreeningsTotal.Inc()
		if result.IsMatch {
			s.metrics.ScreeningMatchesTotal.Inc()
		}
	}
	if result.IsMatch {
		logger.Info(ctx, "sanctions screening hit",
			append(args, "score", result.MatchScore, "lists", result.MatchedLists)...)
	}
}

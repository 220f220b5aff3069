// Package metrics 提供 Prometheus helper，包含常用 counter/gauge/histogram 模板
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wyfcoding/compliance/pkg/logger"
)

// Metrics 指标集合
type Metrics struct {
	// HTTP 请求计数
	HTTPRequestsTotal prometheus.Counter
	// HTTP 请求耗时
	HTTPRequestDuration prometheus.Histogram

	// 数据库查询计数
	DBQueriesTotal prometheus.Counter
	// 数据库查询耗时
	DBQueryDuration prometheus.Histogram

	// Redis 操作计数
	RedisOpsTotal prometheus.Counter
	// Redis 操作耗时
	RedisOpDuration prometheus.Histogram

	// 业务指标
	// 交易监控评估次数
	EvaluationsTotal prometheus.Counter
	// 产生的可疑告警数
	AlertsTotal *prometheus.CounterVec
	// 名单筛查次数
	ScreeningsTotal prometheus.Counter
	// 名单命中次数
	ScreeningMatchesTotal prometheus.Counter
	// 风险评估次数
	AssessmentsTotal prometheus.Counter
	// 单笔评估耗时
	EvaluationDuration prometheus.Histogram
}

// New 创建指标实例
func New(serviceName string) *Metrics {
	return &Metrics{
		HTTPRequestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "compliance",
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}),
		HTTPRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "compliance",
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		DBQueriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "compliance",
			Subsystem: serviceName,
			Name:      "db_queries_total",
			Help:      "Total database queries",
		}),
		DBQueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "compliance",
			Subsystem: serviceName,
			Name:      "db_query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		RedisOpsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "compliance",
			Subsystem: serviceName,
			Name:      "redis_ops_total",
			Help:      "Total Redis operations",
		}),
		RedisOpDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "compliance",
			Subsystem: serviceName,
			Name:      "redis_op_duration_seconds",
			Help:      "Redis operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		EvaluationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "compliance",
			Subsystem: serviceName,
			Name:      "evaluations_total",
			Help:      "Total transactions evaluated by the rule engine",
		}),
		AlertsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "compliance",
			Subsystem: serviceName,
			Name:      "alerts_total",
			Help:      "Total suspicious alerts generated, by severity",
		}, []string{"severity"}),
		ScreeningsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "compliance",
			Subsystem: serviceName,
			Name:      "screenings_total",
			Help:      "Total sanctions screening runs",
		}),
		ScreeningMatchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "compliance",
			Subsystem: serviceName,
			Name:      "screening_matches_total",
			Help:      "Total sanctions screening matches",
		}),
		AssessmentsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "compliance",
			Subsystem: serviceName,
			Name:      "assessments_total",
			Help:      "Total customer risk assessments",
		}),
		EvaluationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "compliance",
			Subsystem: serviceName,
			Name:      "evaluation_duration_seconds",
			Help:      "Rule engine evaluation duration in seconds",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}),
	}
}

// Register 注册所有指标
func (m *Metrics) Register() error {
	collectors := []prometheus.Collector{
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueriesTotal,
		m.DBQueryDuration,
		m.RedisOpsTotal,
		m.RedisOpDuration,
		m.EvaluationsTotal,
		m.AlertsTotal,
		m.ScreeningsTotal,
		m.ScreeningMatchesTotal,
		m.AssessmentsTotal,
		m.EvaluationDuration,
	}

	for _, c := range collectors {
		if err := prometheus.DefaultRegisterer.Register(c); err != nil {
			logger.Error(context.Background(), "Failed to register metric", "error", err)
			return err
		}
	}

	logger.Info(context.Background(), "Metrics registered successfully")
	return nil
}

// StartHTTPServer 启动 Prometheus HTTP 服务器
func StartHTTPServer(port int, path string) {
	if path == "" {
		path = "/metrics"
	}

	http.Handle(path, promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info(context.Background(), "Starting Prometheus HTTP server", "addr", addr, "path", path)

	go func() {
		if err := http.ListenAndServe(addr, nil); err != nil {
			logger.Error(context.Background(), "Failed to start Prometheus HTTP server", "error", err)
		}
	}()
}

// Package metrics 提供监控指标功能.
// 支持Prometheus标准，收集应用和索引任务指标.
//
// Example:
//
//	import "github.com/yeisme/filevault/pkg/metrics"
//
//	err := metrics.InitMetrics(config.Metrics)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// 记录指标
//	metrics.RequestCounter.WithLabelValues("GET", "/api/v1/fs/list").Inc()
package metrics

import (
	"net/http"
	_ "net/http/pprof" // 自动注册pprof端点

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yeisme/filevault/pkg/configs"
)

// 全局指标变量.
var (
	// RequestCounter HTTP请求计数器.
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint"},
	)

	// RequestDuration HTTP请求持续时间.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// IndexWalkTotal 全量索引遍历次数，按结果分类.
	IndexWalkTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "index_walk_total",
			Help: "Total number of full index walks by result",
		},
		[]string{"result"},
	)

	// IndexedFiles 最近一次遍历处理的文件数.
	IndexedFiles = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "index_walk_processed_files",
			Help: "Number of files processed by the last full index walk",
		},
	)

	// registry Prometheus注册表.
	registry = prometheus.NewRegistry()
)

// InitMetrics 初始化Metrics.
func InitMetrics(config configs.MetricsConfig) error {
	if !config.Enabled {
		return nil
	}

	// 注册标准收集器
	if config.RuntimeMetrics {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	// 注册自定义指标
	registry.MustRegister(RequestCounter, RequestDuration, IndexWalkTotal, IndexedFiles)

	return nil
}

// StartMetricsServer 将 /metrics 挂到业务引擎上.
func StartMetricsServer(config configs.MetricsConfig, debugEngine *gin.Engine) error {
	if !config.Enabled {
		return nil
	}

	debugEngine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// 如果启用pprof，注册pprof端点
	if config.Pprof {
		debugEngine.GET("/debug/pprof/*any", gin.WrapH(http.DefaultServeMux))
	}

	return nil
}

// GetRegistry 获取Prometheus注册表.
func GetRegistry() *prometheus.Registry {
	return registry
}

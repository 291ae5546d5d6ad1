package metrics

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wyfcoding/rangetree/algorithm"
)

// Metrics 封装了基于 Prometheus 的指标采集注册表及求解任务的标准指标。
type Metrics struct {
	registry *prometheus.Registry // 内部独立的 Prometheus 注册中心

	TreeEvents   *prometheus.CounterVec   // 树操作计数 (维度: tree, event)
	CasesTotal   *prometheus.CounterVec   // 用例总数 (维度: problem, status)
	CaseDuration *prometheus.HistogramVec // 单个用例耗时分布
	BuildInfo    *prometheus.GaugeVec
}

// NewMetrics 初始化并返回一个新的指标采集器。
// 它会自动注册 Go 运行时指标和进程指标。
func NewMetrics(serviceName string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: reg}

	m.TreeEvents = m.NewCounterVec(prometheus.CounterOpts{
		Name: "rangetree_tree_events_total",
		Help: "Segment tree operations by tree kind and event",
	}, []string{"tree", "event"})

	m.CasesTotal = m.NewCounterVec(prometheus.CounterOpts{
		Name: "rangetree_cases_total",
		Help: "Total number of solved input cases",
	}, []string{"problem", "status"})

	m.CaseDuration = m.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rangetree_case_duration_seconds",
		Help:    "Time spent solving one input case",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
	}, []string{"problem"})

	slog.Info("unified metrics registry initialized", "service", serviceName)
	return m
}

// ObserveTree 把一次求解的树统计累加到 TreeEvents。值为 0 的事件不产生样本。
func (m *Metrics) ObserveTree(tree string, s algorithm.TreeStats) {
	if m == nil {
		return
	}
	events := []struct {
		name  string
		count uint64
	}{
		{"update", s.Updates},
		{"query", s.Queries},
		{"visit", s.Visits},
		{"shortcut", s.Shortcuts},
		{"pushdown", s.PushDowns},
		{"pruned", s.Pruned},
	}
	for _, e := range events {
		if e.count == 0 {
			continue
		}
		m.TreeEvents.WithLabelValues(tree, e.name).Add(float64(e.count))
	}
}

// ObserveCase 记录一个用例的结果状态与耗时。
func (m *Metrics) ObserveCase(problem, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.CasesTotal.WithLabelValues(problem, status).Inc()
	m.CaseDuration.WithLabelValues(problem).Observe(d.Seconds())
}

// WriteTextfile 以 node_exporter textfile 格式把当前注册表写入 path。
// 写入先落到临时文件再重命名，采集端不会读到半个文件。
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

// NewCounterVec 创建并注册一个新的计数器指标。
func (m *Metrics) NewCounterVec(opts prometheus.CounterOpts, labelNames []string) *prometheus.CounterVec {
	cv := prometheus.NewCounterVec(opts, labelNames)
	m.registry.MustRegister(cv)
	return cv
}

// NewGaugeVec 创建并注册一个新的仪表盘指标。
func (m *Metrics) NewGaugeVec(opts prometheus.GaugeOpts, labelNames []string) *prometheus.GaugeVec {
	gv := prometheus.NewGaugeVec(opts, labelNames)
	m.registry.MustRegister(gv)
	return gv
}

// NewHistogramVec 创建并注册一个新的直方图指标。
func (m *Metrics) NewHistogramVec(opts prometheus.HistogramOpts, labelNames []string) *prometheus.HistogramVec {
	hv := prometheus.NewHistogramVec(opts, labelNames)
	m.registry.MustRegister(hv)
	return hv
}

// Handler 返回用于暴露指标的 HTTP 处理器。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

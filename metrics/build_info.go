package metrics

import (
	"runtime"
	"runtime/debug"

	"github.com/prometheus/client_golang/prometheus"
)

// RegisterBuildInfo 注册 rangetree_build_info，重复调用无效果。
// version 为空时取二进制中嵌入的模块版本（go install 安装时可用）。
func (m *Metrics) RegisterBuildInfo(serviceName, version string) {
	if m == nil || m.BuildInfo != nil {
		return
	}
	if serviceName == "" {
		serviceName = "unknown"
	}
	if version == "" {
		version = moduleVersion()
	}

	m.BuildInfo = m.NewGaugeVec(prometheus.GaugeOpts{
		Name: "rangetree_build_info",
		Help: "Build information for the solver binary",
	}, []string{"service", "version", "goversion"})

	m.BuildInfo.WithLabelValues(serviceName, version, runtime.Version()).Set(1)
}

func moduleVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "unknown"
	}
	return info.Main.Version
}

// Package config 提供了统一的配置加载与管理能力：TOML 文件、APP_ 前缀环境变量、命令行参数三级覆盖，
// 加载后使用 validator 校验，并在配置文件变化时把校验通过的新配置交给已注册的回调。
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/wyfcoding/rangetree/logging"
)

// Config 全局顶级配置结构.
type Config struct {
	Version string        `mapstructure:"version" toml:"version"`
	Log     LogConfig     `mapstructure:"log"     toml:"log"`
	Metrics MetricsConfig `mapstructure:"metrics" toml:"metrics"`
	Solver  SolverConfig  `mapstructure:"solver"  toml:"solver"`
}

// LogConfig 定义日志输出、级别与切割策略.
type LogConfig struct {
	Level      string `mapstructure:"level"       toml:"level"       validate:"oneof=debug info warn error"` // 日志级别。
	Format     string `mapstructure:"format"      toml:"format"      validate:"oneof=json text"`             // 日志格式（json/text）。
	File       string `mapstructure:"file"        toml:"file"`                                               // 日志文件路径。
	Console    bool   `mapstructure:"console"     toml:"console"`                                            // 写文件时是否同时输出到控制台。
	MaxSize    int    `mapstructure:"max_size"    toml:"max_size"    validate:"min=0"`                       // 单个文件最大大小 (MB)。
	MaxBackups int    `mapstructure:"max_backups" toml:"max_backups" validate:"min=0"`                       // 最大备份数。
	MaxAge     int    `mapstructure:"max_age"     toml:"max_age"     validate:"min=0"`                       // 最大保留天数。
	Compress   bool   `mapstructure:"compress"    toml:"compress"`                                           // 是否启用压缩。
}

// MetricsConfig 定义指标导出方式。批处理任务使用 node_exporter 的 textfile 采集方式。
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile" toml:"textfile"`
	Service  string `mapstructure:"service"  toml:"service"  validate:"required"`
}

// SolverConfig 定义求解任务参数.
type SolverConfig struct {
	Problem string        `mapstructure:"problem" toml:"problem" validate:"oneof=chmin coverage"`
	Workers int           `mapstructure:"workers" toml:"workers" validate:"min=1,max=256"`
	OutDir  string        `mapstructure:"out_dir" toml:"out_dir"`
	Timeout time.Duration `mapstructure:"timeout" toml:"timeout" validate:"min=0"`
}

// ToLogging 转换为 logging.Config。
func (c LogConfig) ToLogging(service, module string) logging.Config {
	return logging.Config{
		Service:    service,
		Module:     module,
		Level:      c.Level,
		Format:     c.Format,
		File:       c.File,
		Console:    c.Console,
		MaxSize:    c.MaxSize,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAge,
		Compress:   c.Compress,
	}
}

var (
	vInstance = newViper()
	onReload  []func(*Config)
	reloadMu  sync.Mutex
)

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("version", "dev")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 7)
	v.SetDefault("metrics.service", "rangetree")
	v.SetDefault("solver.problem", "chmin")
	v.SetDefault("solver.workers", 4)
	v.SetDefault("solver.out_dir", "")
	v.SetDefault("solver.timeout", time.Duration(0))
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("log.file", "")
	v.SetDefault("log.console", false)
	v.SetDefault("log.compress", false)
}

// flagKeys 命令行参数名到配置键的映射。
var flagKeys = map[string]string{
	"problem":      "solver.problem",
	"workers":      "solver.workers",
	"out-dir":      "solver.out_dir",
	"timeout":      "solver.timeout",
	"metrics-file": "metrics.textfile",
	"log-level":    "log.level",
	"log-file":     "log.file",
}

// BindFlags 把 fs 中已定义的参数绑定到对应配置键，命令行优先级最高。
func BindFlags(fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := vInstance.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// RegisterReloadHook 注册配置热更新回调。
func RegisterReloadHook(hook func(*Config)) {
	if hook == nil {
		return
	}
	reloadMu.Lock()
	defer reloadMu.Unlock()
	onReload = append(onReload, hook)
}

// Load 读取配置文件（path 为空时只使用默认值、环境变量与命令行参数），校验后写入 conf。
// 使用了配置文件时会监听文件变化，重新加载并校验后调用 RegisterReloadHook 注册的回调。
func Load(path string, conf *Config) error {
	v := vInstance
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config error: %w", err)
		}
	}

	if err := v.Unmarshal(conf); err != nil {
		return fmt.Errorf("unmarshal config error: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(conf); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("config validation failed at %s: %w", verrs[0].Namespace(), err)
		}
		return fmt.Errorf("config validation failed: %w", err)
	}

	if path == "" {
		return nil
	}

	v.OnConfigChange(func(event fsnotify.Event) {
		slog.Info("detecting config change", "file", event.Name, "op", event.Op.String())
		const debounceTimeout = 500 * time.Millisecond
		time.Sleep(debounceTimeout)

		if err := reload(v, validate); err != nil {
			slog.Error("config reload rejected", "error", err)
		}
	})
	v.WatchConfig()

	return nil
}

// reload 重新解析 v 中的配置，校验通过后依次调用已注册的回调。
// 校验失败时保留旧配置，回调不会被调用。
func reload(v *viper.Viper, validate *validator.Validate) error {
	var next Config
	if err := v.Unmarshal(&next); err != nil {
		return fmt.Errorf("reload config unmarshal failed: %w", err)
	}
	if err := validate.Struct(&next); err != nil {
		return fmt.Errorf("reload config validation failed: %w", err)
	}
	slog.Info("config hot-reloaded and validated successfully", "log_level", next.Log.Level)

	reloadMu.Lock()
	hooks := append([]func(*Config){}, onReload...)
	reloadMu.Unlock()
	for _, hook := range hooks {
		hook(&next)
	}
	return nil
}

// Reset 丢弃已加载的配置与绑定，恢复默认值。
func Reset() {
	vInstance = newViper()
	reloadMu.Lock()
	onReload = nil
	reloadMu.Unlock()
}

// PrintWithMask 以 debug 级别脱敏打印当前配置.
func PrintWithMask(conf any) {
	masked, err := MaskedJSON(conf)
	if err != nil {
		slog.Error("failed to mask config for printing", "error", err)
		return
	}
	slog.Debug("current effective configuration", "config", masked)
}

// MaskedJSON 返回脱敏后的配置 JSON。
func MaskedJSON(conf any) (string, error) {
	data, err := json.Marshal(conf)
	if err != nil {
		return "", err
	}

	var configMap map[string]any
	if err := json.Unmarshal(data, &configMap); err != nil {
		return "", err
	}

	mask(configMap)

	out, err := json.Marshal(configMap)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func mask(configMap map[string]any) {
	sensitiveKeys := []string{"password", "secret", "dsn", "key", "token"}

	for key, val := range configMap {
		if subMap, ok := val.(map[string]any); ok {
			mask(subMap)
			continue
		}

		for _, sensitiveKey := range sensitiveKeys {
			if strings.Contains(strings.ToLower(key), sensitiveKey) {
				configMap[key] = "******"
				break
			}
		}
	}
}

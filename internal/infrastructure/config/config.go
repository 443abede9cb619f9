package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig       `mapstructure:"app"`
	Server      ServerConfig    `mapstructure:"server"`
	Cache       CacheConfig     `mapstructure:"cache"`
	Queue       QueueConfig     `mapstructure:"queue"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	Redis       RedisConfig     `mapstructure:"redis"`
	Source      SourceConfig    `mapstructure:"source"`
	Linker      LinkerConfig    `mapstructure:"linker"`
	Scale       ScaleConfig     `mapstructure:"scale"`
	Metrics     MetricsConfig   `mapstructure:"metrics"`
	DedupWindow time.Duration   `mapstructure:"dedup_window"`
	LogLevel    string          `mapstructure:"log_level"`
	LogDir      string          `mapstructure:"log_dir"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env      string `mapstructure:"env"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	Version  string `mapstructure:"version"`
	Name     string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
}

// CacheConfig 連結索引快取配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// QueueConfig 索引預建隊列設定
type QueueConfig struct {
	Workers int `mapstructure:"workers"`
	MaxSize int `mapstructure:"max_size"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
	Burst    int           `mapstructure:"burst"`
}

// RedisConfig 文件儲存（Redis）配置；未啟用時使用記憶體儲存
type RedisConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Addr      string        `mapstructure:"addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	KeyPrefix string        `mapstructure:"key_prefix"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// SourceConfig 外部食譜資料來源配置
type SourceConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RetryCount   int           `mapstructure:"retry_count"`
	UserAgent    string        `mapstructure:"user_agent"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

// LinkerConfig 連結引擎配置
type LinkerConfig struct {
	VocabularyFile string `mapstructure:"vocabulary_file"`
	EnabledDefault bool   `mapstructure:"enabled_default"`
	MarkOpen       string `mapstructure:"mark_open"`
	MarkClose      string `mapstructure:"mark_close"`
}

// ScaleConfig 縮放引擎配置
type ScaleConfig struct {
	Presets   []float64 `mapstructure:"presets"`
	Tolerance float64   `mapstructure:"tolerance"`
}

// MetricsConfig Prometheus 指標配置
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Path      string `mapstructure:"path"`
	Namespace string `mapstructure:"namespace"`
}

// LoadConfig 載入設定（.env + 環境變數）
func LoadConfig() (*Config, error) {
	return load("")
}

// LoadConfigFile 由指定設定檔載入設定，環境變數仍可覆寫
func LoadConfigFile(path string) (*Config, error) {
	return load(path)
}

// Default 只含預設值的設定
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		panic(fmt.Sprintf("invalid default config: %v", err))
	}
	return &config
}

func load(path string) (*Config, error) {
	// 加載 .env 文件（不存在時略過）
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()

	// 設定預設值
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	_ = v.BindEnv("cache.enabled", "CACHE_ENABLED")
	_ = v.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	_ = v.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	_ = v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	_ = v.BindEnv("redis.enabled", "REDIS_ENABLED")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("linker.vocabulary_file", "VOCABULARY_FILE")
	_ = v.BindEnv("dedup_window", "DEDUP_WINDOW")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("log_dir", "LOG_DIR")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		// 設定設定檔名稱和路徑
		v.SetConfigName(".env")
		v.SetConfigType("env")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	// 添加調試日誌（logger 尚未初始化，改用 fmt.Println）
	if v.GetBool("app.debug") {
		fmt.Println("Loading configuration", "redis_enabled:", v.GetBool("redis.enabled"), "redis_password:", maskSecret(v.GetString("redis.password")))
	}

	// 解析設定
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// maskSecret 遮罩密碼，只顯示前後各 4 個字符
func maskSecret(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "recipe-viewer")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.max_body_bytes", 2*1024*1024) // 2MB
	v.SetDefault("server.cors_origins", []string{"*"})

	// 快取設定
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_interval", "10m")

	// 隊列設定
	v.SetDefault("queue.workers", 2)
	v.SetDefault("queue.max_size", 100)

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")
	v.SetDefault("rate_limit.burst", 20)

	// Redis 設定
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "recipe:document:")
	v.SetDefault("redis.ttl", "168h")

	// 資料來源設定
	v.SetDefault("source.enabled", true)
	v.SetDefault("source.timeout", "10s")
	v.SetDefault("source.retry_count", 1)
	v.SetDefault("source.user_agent", "recipe-viewer/1.0")
	v.SetDefault("source.max_body_bytes", 2*1024*1024)

	// 連結引擎設定
	v.SetDefault("linker.vocabulary_file", "")
	v.SetDefault("linker.enabled_default", true)
	v.SetDefault("linker.mark_open", "<mark>")
	v.SetDefault("linker.mark_close", "</mark>")

	// 縮放設定
	v.SetDefault("scale.presets", []float64{0.5, 1, 2, 3})
	v.SetDefault("scale.tolerance", 0.03)

	// 指標設定
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.namespace", "recipe_viewer")

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_dir", "logs")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}
	if config.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("invalid server max body bytes")
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	// 驗證隊列設定
	if config.Queue.Workers <= 0 {
		return fmt.Errorf("invalid queue workers")
	}
	if config.Queue.MaxSize <= 0 {
		return fmt.Errorf("invalid queue max size")
	}

	// 驗證限流設定
	if config.RateLimit.Enabled {
		if config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0 {
			return fmt.Errorf("invalid rate limit")
		}
	}

	// 驗證 Redis 設定
	if config.Redis.Enabled && config.Redis.Addr == "" {
		return fmt.Errorf("redis addr is required when redis is enabled")
	}

	// 驗證縮放設定
	if config.Scale.Tolerance <= 0 || config.Scale.Tolerance >= 0.5 {
		return fmt.Errorf("invalid scale tolerance")
	}
	for _, p := range config.Scale.Presets {
		if p <= 0 {
			return fmt.Errorf("invalid scale preset: %v", p)
		}
	}

	if config.Linker.MarkOpen == "" || config.Linker.MarkClose == "" {
		return fmt.Errorf("linker mark tags are required")
	}

	return nil
}

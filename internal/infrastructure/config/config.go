package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Spoonacular SpoonacularConfig `mapstructure:"spoonacular"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Translator  TranslatorConfig  `mapstructure:"translator"`
	Report      ReportConfig      `mapstructure:"report"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	DedupWindow time.Duration     `mapstructure:"dedup_window"`
	LogLevel    string            `mapstructure:"log_level"`
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
}

// SpoonacularConfig Spoonacular 食譜搜尋 API 配置
type SpoonacularConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	Limit        int           `mapstructure:"limit"`
	IgnorePantry bool          `mapstructure:"ignore_pantry"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// DatabaseConfig 查詢快取資料庫配置
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// CacheConfig 熱快取（Redis）配置
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Addr    string        `mapstructure:"addr"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// TranslatorConfig 翻譯服務配置
type TranslatorConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	TargetLang string        `mapstructure:"target_lang"`
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// ReportConfig HTML 報告配置
type ReportConfig struct {
	OutputDir   string `mapstructure:"output_dir"`
	TemplateDir string `mapstructure:"template_dir"`
	ImageSize   string `mapstructure:"image_size"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件（不存在時不視為錯誤）
	_ = godotenv.Load()

	// 設定預設值
	setDefaults()

	// 設定環境變數前綴
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 綁定環境變量
	viper.BindEnv("spoonacular.api_key", "SPOONACULAR_API_KEY")
	viper.BindEnv("spoonacular.base_url", "SPOONACULAR_BASE_URL")
	viper.BindEnv("spoonacular.limit", "SPOONACULAR_LIMIT")
	viper.BindEnv("database.path", "DATABASE_PATH")
	viper.BindEnv("cache.enabled", "CACHE_ENABLED")
	viper.BindEnv("cache.addr", "CACHE_ADDR")
	viper.BindEnv("translator.enabled", "TRANSLATOR_ENABLED")
	viper.BindEnv("translator.target_lang", "TRANSLATOR_TARGET_LANG")
	viper.BindEnv("report.output_dir", "REPORT_OUTPUT_DIR")
	viper.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	viper.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	viper.BindEnv("dedup_window", "DEDUP_WINDOW")
	viper.BindEnv("log_level", "LOG_LEVEL")

	// 設定設定檔名稱和路徑
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// 讀取設定檔
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 添加調試日誌（logger 尚未初始化，改用 fmt.Println）
	fmt.Println("Loading configuration", "spoonacular_api_key:", maskAPIKey(viper.GetString("spoonacular.api_key")), "database_path:", viper.GetString("database.path"))

	// 解析設定
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// maskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults() {
	// 應用程式設定
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "recipe-finder")

	// 伺服器設定
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	// Spoonacular 設定
	viper.SetDefault("spoonacular.base_url", "https://api.spoonacular.com")
	viper.SetDefault("spoonacular.limit", 5)
	viper.SetDefault("spoonacular.ignore_pantry", false)
	viper.SetDefault("spoonacular.timeout", "30s")

	// 資料庫設定
	viper.SetDefault("database.path", "recipes.db")

	// 熱快取設定
	viper.SetDefault("cache.enabled", false)
	viper.SetDefault("cache.addr", "localhost:6379")
	viper.SetDefault("cache.ttl", "24h")

	// 翻譯設定
	viper.SetDefault("translator.enabled", true)
	viper.SetDefault("translator.target_lang", "pl")
	viper.SetDefault("translator.base_url", "https://api.mymemory.translated.net")
	viper.SetDefault("translator.timeout", "15s")

	// 報告設定
	viper.SetDefault("report.output_dir", "output")
	viper.SetDefault("report.template_dir", "templates")
	viper.SetDefault("report.image_size", "636x393")

	// 限流設定
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")

	// 去重視窗預設
	viper.SetDefault("dedup_window", "1s")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證 Spoonacular 設定
	if config.Spoonacular.BaseURL == "" {
		return fmt.Errorf("spoonacular base url is required")
	}
	if config.Spoonacular.Limit <= 0 || config.Spoonacular.Limit > 100 {
		return fmt.Errorf("spoonacular limit must be between 1 and 100")
	}

	// 驗證資料庫設定
	if config.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	// 驗證熱快取設定
	if config.Cache.Enabled {
		if config.Cache.Addr == "" {
			return fmt.Errorf("cache addr is required when cache is enabled")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
	}

	// 驗證報告設定
	if config.Report.OutputDir == "" || config.Report.TemplateDir == "" {
		return fmt.Errorf("report output and template directories are required")
	}

	return nil
}

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/joho/godotenv"
)

var (
	configOnce  sync.Once
	configValue *Config
)

// Load 는 환경 변수 기반 설정을 로드한다.
func Load() *Config {
	configOnce.Do(func() {
		_ = godotenv.Load()
		configValue = buildConfig()
	})
	return configValue
}

// ProvideConfig 는 설정을 로드하고 검증한다.
func ProvideConfig() (*Config, error) {
	cfg := Load()
	if cfg == nil {
		return nil, errors.New("config not initialized")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 는 설정 유효성을 검사한다.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if !c.App.IsDevelopment() && (c.Auth.SecretKey == "" || c.Auth.SecretKey == defaultSecretKey) {
		return errors.New("SECRET_KEY must be set outside development")
	}
	if c.Auth.AccessTokenExpireMinutes <= 0 {
		return fmt.Errorf("invalid token ttl: minutes=%d", c.Auth.AccessTokenExpireMinutes)
	}
	switch c.Database.Driver {
	case DriverPostgres:
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return errors.New("sqlite path is empty")
		}
	default:
		return fmt.Errorf("unknown database driver: %s", c.Database.Driver)
	}
	if c.Scanner.RulepackPath != "" && !fileExists(c.Scanner.RulepackPath) {
		return fmt.Errorf("rulepack not found: %s", c.Scanner.RulepackPath)
	}
	return nil
}

// LogEnvStatus 는 환경 설정 상태를 로그로 남긴다.
func LogEnvStatus(cfg *Config, logger *slog.Logger) {
	if logger == nil || cfg == nil {
		return
	}

	logger.Debug(
		"env_status",
		"env_file", fileExists(".env"),
		"app_env", cfg.App.Env,
		"secret_key", maskSecret(cfg.Auth.SecretKey),
		"token_ttl_minutes", cfg.Auth.AccessTokenExpireMinutes,
		"db_driver", cfg.Database.Driver,
		"db_host", cfg.Database.Host,
		"db_name", cfg.Database.Name,
		"sqlite_path", cfg.Database.SQLitePath,
		"token_store_url", cfg.TokenStore.URL,
		"rulepack", cfg.Scanner.RulepackPath,
		"geoip_db", cfg.GeoIP.DatabasePath,
	)

	if cfg.Auth.SecretKey == defaultSecretKey {
		logger.Warn("env_default_secret_key")
	}
}

func buildConfig() *Config {
	return &Config{
		App: AppConfig{
			Env: getEnvString("APP_ENV", "development"),
		},
		HTTP: HTTPConfig{
			Host:         getEnvString("HTTP_HOST", "127.0.0.1"),
			Port:         getEnvInt("HTTP_PORT", 8000),
			HTTP2Enabled: getEnvBool("HTTP2_ENABLED", true),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnvList("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000", "http://127.0.0.1:3000"}),
		},
		Auth: AuthConfig{
			SecretKey:                getEnvString("SECRET_KEY", defaultSecretKey),
			Algorithm:                getEnvString("JWT_ALGORITHM", "HS256"),
			AccessTokenExpireMinutes: getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60*24*8),
			BcryptCost:               getEnvInt("BCRYPT_COST", 10),
		},
		Database: DatabaseConfig{
			Driver:                 resolveDriver(),
			URL:                    getEnvString("DATABASE_URL", ""),
			SQLitePath:             getEnvString("SQLITE_PATH", "sentinelnet.db"),
			Host:                   getEnvString("DB_HOST", "localhost"),
			Port:                   getEnvInt("DB_PORT", 5432),
			Name:                   getEnvString("DB_NAME", "sentinelnet"),
			User:                   getEnvString("DB_USER", "sentinel"),
			Password:               getEnvString("DB_PASSWORD", ""),
			MinPool:                getEnvInt("DB_MIN_POOL", 1),
			MaxPool:                getEnvInt("DB_MAX_POOL", 5),
			ConnMaxLifetimeMinutes: getEnvNonNegativeInt("DB_CONN_MAX_LIFETIME_MINUTES", 60),
			ConnMaxIdleTimeMinutes: getEnvNonNegativeInt("DB_CONN_MAX_IDLE_TIME_MINUTES", 10),
		},
		TokenStore: TokenStoreConfig{
			URL:                 getEnvString("TOKEN_STORE_URL", "redis://localhost:6379"),
			Enabled:             getEnvBool("TOKEN_STORE_ENABLED", false),
			Required:            getEnvBool("TOKEN_STORE_REQUIRED", false),
			DisableCache:        getEnvBool("TOKEN_STORE_DISABLE_CACHE", false),
			ConnectMaxAttempts:  max(1, getEnvNonNegativeInt("TOKEN_STORE_CONNECT_MAX_ATTEMPTS", 3)),
			ConnectRetrySeconds: getEnvNonNegativeInt("TOKEN_STORE_CONNECT_RETRY_SECONDS", 2),
		},
		Scanner: ScannerConfig{
			RulepackPath: getEnvString("SCANNER_RULEPACK", ""),
			ExtraVulgar:  getEnvList("SCANNER_EXTRA_VULGAR", nil),
		},
		Dashboard: DashboardConfig{
			CacheTTLSeconds: getEnvNonNegativeInt("DASHBOARD_CACHE_TTL_SECONDS", 5),
			CenterLat:       getEnvFloat("DASHBOARD_CENTER_LAT", 19.076),
			CenterLng:       getEnvFloat("DASHBOARD_CENTER_LNG", 72.877),
		},
		GeoIP: GeoIPConfig{
			DatabasePath: getEnvString("GEOIP_DB_PATH", ""),
		},
		HTTPRateLimit: HTTPRateLimitConfig{
			RequestsPerMinute: getEnvNonNegativeInt("HTTP_RATE_LIMIT_RPM", 0),
			CacheSize:         max(1, getEnvNonNegativeInt("HTTP_RATE_LIMIT_CACHE_SIZE", 10000)),
			CacheTTLSeconds:   max(1, getEnvNonNegativeInt("HTTP_RATE_LIMIT_CACHE_TTL_SECONDS", 120)),
		},
		Logging: LoggingConfig{
			Level:      getEnvString("LOG_LEVEL", "info"),
			LogDir:     getEnvString("LOG_DIR", ""),
			MaxSizeMB:  getEnvInt("LOG_FILE_MAX_SIZE_MB", 1),
			MaxBackups: getEnvInt("LOG_FILE_MAX_BACKUPS", 30),
			MaxAgeDays: getEnvInt("LOG_FILE_MAX_AGE_DAYS", 7),
			Compress:   getEnvBool("LOG_FILE_COMPRESS", true),
		},
		Telemetry: readTelemetryConfig(),
	}
}

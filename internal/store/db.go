package store

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Sanjaykumaar123/sentinelnet/internal/config"
)

// Open 은 설정된 드라이버로 DB 를 연다. postgres 호스트가 "postgres" 인데 해석되지 않으면 127.0.0.1 로 재시도한다.
func Open(cfg config.DatabaseConfig, logger *slog.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}

	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := gorm.Open(sqlite.Open(cfg.DSN()), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get sqlite handle: %w", err)
		}
		// sqlite 는 단일 writer 이므로 연결 하나로 직렬화한다.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		if logger != nil {
			logger.Info("db_connected", "driver", cfg.Driver, "path", cfg.SQLitePath)
		}
		return db, nil
	case config.DriverPostgres:
		return openPostgres(cfg, gormCfg, logger)
	default:
		return nil, fmt.Errorf("unknown database driver: %s", cfg.Driver)
	}
}

func openPostgres(cfg config.DatabaseConfig, gormCfg *gorm.Config, logger *slog.Logger) (*gorm.DB, error) {
	hostUsed := cfg.Host
	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
	if err != nil && cfg.URL == "" && shouldFallbackToLocalhost(err, cfg.Host) {
		fallback := cfg
		fallback.Host = "127.0.0.1"
		db, err = gorm.Open(postgres.Open(fallback.DSN()), gormCfg)
		if err == nil {
			hostUsed = fallback.Host
			if logger != nil {
				logger.Warn("db_host_fallback", "configured_host", cfg.Host, "effective_host", hostUsed)
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get postgres handle: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MinPool)
	sqlDB.SetMaxOpenConns(cfg.MaxPool)
	if cfg.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}
	if cfg.ConnMaxIdleTimeMinutes > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTimeMinutes) * time.Minute)
	}

	if logger != nil {
		logger.Info("db_connected", "driver", cfg.Driver, "host", hostUsed, "name", cfg.Name)
	}
	return db, nil
}

func shouldFallbackToLocalhost(err error, host string) bool {
	if err == nil {
		return false
	}
	if !strings.EqualFold(host, "postgres") {
		return false
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return strings.EqualFold(dnsErr.Name, host)
	}

	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "no such host") && strings.Contains(lower, strings.ToLower(host))
}

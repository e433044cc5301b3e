package config

import (
	"net"
	"net/url"
	"strconv"
	"strings"
)

// 데이터베이스 드라이버 이름입니다.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const defaultSecretKey = "change-me-in-production"

// AppConfig: 실행 환경 설정입니다.
type AppConfig struct {
	Env string
}

// IsDevelopment: 개발 환경 여부를 반환합니다.
func (a AppConfig) IsDevelopment() bool {
	switch strings.ToLower(a.Env) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

// HTTPConfig: HTTP 서버 설정입니다.
type HTTPConfig struct {
	Host         string
	Port         int
	HTTP2Enabled bool
}

// CORSConfig: 브라우저 클라이언트 허용 설정입니다.
type CORSConfig struct {
	AllowOrigins []string
}

// AuthConfig: 토큰 발급 설정입니다.
type AuthConfig struct {
	SecretKey                string
	Algorithm                string
	AccessTokenExpireMinutes int
	BcryptCost               int
}

// TokenStoreConfig: 토큰 폐기 목록 저장소 설정입니다.
type TokenStoreConfig struct {
	URL                 string
	Enabled             bool
	Required            bool
	DisableCache        bool
	ConnectMaxAttempts  int
	ConnectRetrySeconds int
}

// ScannerConfig: 메시지 위험 분석기 설정입니다.
type ScannerConfig struct {
	RulepackPath string
	ExtraVulgar  []string
}

// DashboardConfig: 대시보드 집계 설정입니다.
type DashboardConfig struct {
	CacheTTLSeconds int
	CenterLat       float64
	CenterLng       float64
}

// GeoIPConfig: GeoIP City DB 경로 설정입니다. 비어 있으면 비활성화됩니다.
type GeoIPConfig struct {
	DatabasePath string
}

// LoggingConfig: 로깅 설정입니다.
type LoggingConfig struct {
	Level      string
	LogDir     string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// HTTPRateLimitConfig: 요청 제한 설정입니다.
type HTTPRateLimitConfig struct {
	RequestsPerMinute int
	CacheSize         int
	CacheTTLSeconds   int
}

// TelemetryConfig: OpenTelemetry 설정입니다.
type TelemetryConfig struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	Environment    string
	OTLPEndpoint   string
	OTLPInsecure   bool
	SampleRate     float64
}

// DatabaseConfig: DB 연결 설정입니다.
type DatabaseConfig struct {
	Driver                 string
	URL                    string
	SQLitePath             string
	Host                   string
	Port                   int
	Name                   string
	User                   string
	Password               string
	MinPool                int
	MaxPool                int
	ConnMaxLifetimeMinutes int
	ConnMaxIdleTimeMinutes int
}

// DSN: DB 접속 문자열을 반환합니다.
// postgres 는 URL 이 우선하며, sqlite 는 파일 경로를 그대로 사용합니다.
func (d DatabaseConfig) DSN() string {
	if d.Driver == DriverSQLite {
		return d.SQLitePath
	}
	if d.URL != "" {
		return normalizePostgresURL(d.URL)
	}

	host := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
	u := &url.URL{
		Scheme: "postgresql",
		Host:   host,
		Path:   "/" + d.Name,
	}
	if d.Password == "" {
		u.User = url.User(d.User)
	} else {
		u.User = url.UserPassword(d.User, d.Password)
	}
	return u.String()
}

// Config: 애플리케이션 전체 설정입니다.
type Config struct {
	App           AppConfig
	HTTP          HTTPConfig
	CORS          CORSConfig
	Auth          AuthConfig
	Database      DatabaseConfig
	TokenStore    TokenStoreConfig
	Scanner       ScannerConfig
	Dashboard     DashboardConfig
	GeoIP         GeoIPConfig
	HTTPRateLimit HTTPRateLimitConfig
	Logging       LoggingConfig
	Telemetry     TelemetryConfig
}

func normalizePostgresURL(raw string) string {
	if strings.HasPrefix(raw, "postgres://") {
		return "postgresql://" + strings.TrimPrefix(raw, "postgres://")
	}
	return raw
}

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix is applied by envconfig when explicit tags are absent.
	EnvPrefix = "TDH"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv   = "TDH_APP_ENV"
	EnvPort     = "TDH_APP_PORT"
	EnvDBDSN    = "TDH_DB_DSN"
	EnvDBHost   = "TDH_DB_HOST"
	EnvDBUser   = "TDH_DB_USER"
	EnvDBName   = "TDH_DB_NAME"
	EnvRedisURL = "TDH_REDIS_URL"

	EnvAdminJWTSecret  = "TDH_ADMIN_JWT_SECRET"
	EnvAdminJWTIssuer  = "TDH_ADMIN_JWT_ISSUER"
	EnvAdminJWTExpMins = "TDH_ADMIN_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	AdminJWT     AdminJWTConfig
	Site         SiteConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TDH_APP_ENV" required:"true"`
	Port         string `envconfig:"TDH_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TDH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TDH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TDH_DB_DSN"`
	Driver string `envconfig:"TDH_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TDH_DB_HOST"`
	LegacyPort     int    `envconfig:"TDH_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TDH_DB_USER"`
	LegacyPassword string `envconfig:"TDH_DB_PASSWORD"`
	LegacyName     string `envconfig:"TDH_DB_NAME"`
	LegacySSLMode  string `envconfig:"TDH_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TDH_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TDH_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TDH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TDH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TDH_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TDH_REDIS_ADDR"`
	Password     string        `envconfig:"TDH_REDIS_PASSWORD"`
	DB           int           `envconfig:"TDH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TDH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TDH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TDH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TDH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TDH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// AdminJWTConfig guards the content-management endpoints.
type AdminJWTConfig struct {
	Secret            string `envconfig:"TDH_ADMIN_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"TDH_ADMIN_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"TDH_ADMIN_JWT_EXPIRATION_MINUTES" default:"720"`
}

// TokenTTL returns the admin token lifetime configured in minutes.
func (j AdminJWTConfig) TokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// SiteConfig carries deploy-level knobs that do not belong in the
// database-backed site configuration row.
type SiteConfig struct {
	BaseURL        string        `envconfig:"TDH_SITE_BASE_URL" default:"http://localhost:8080"`
	ConfigCacheTTL time.Duration `envconfig:"TDH_SITE_CONFIG_CACHE_TTL" default:"5m"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool   `envconfig:"TDH_USE_SQLITE" default:"false"`
	SQLitePath  string `envconfig:"TDH_SQLITE_PATH" default:"techdealshub.db"`
	AutoMigrate bool   `envconfig:"TDH_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

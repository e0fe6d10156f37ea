package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Telephony    TelephonyConfig
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
	Env          string `envconfig:"AQUADESK_APP_ENV" required:"true"`
	Port         string `envconfig:"AQUADESK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AQUADESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AQUADESK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"AQUADESK_DB_DSN"`
	Driver string `envconfig:"AQUADESK_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"AQUADESK_DB_HOST"`
	Port     int    `envconfig:"AQUADESK_DB_PORT" default:"5432"`
	User     string `envconfig:"AQUADESK_DB_USER"`
	Password string `envconfig:"AQUADESK_DB_PASSWORD"`
	Name     string `envconfig:"AQUADESK_DB_NAME"`
	SSLMode  string `envconfig:"AQUADESK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AQUADESK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AQUADESK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AQUADESK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AQUADESK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AQUADESK_REDIS_URL"`
	Address      string        `envconfig:"AQUADESK_REDIS_ADDR"`
	Password     string        `envconfig:"AQUADESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"AQUADESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AQUADESK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AQUADESK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AQUADESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AQUADESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AQUADESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"AQUADESK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"AQUADESK_JWT_ISSUER" default:"aquadesk"`
	ExpirationMinutes int    `envconfig:"AQUADESK_JWT_EXPIRATION_MINUTES" default:"480"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type TelephonyConfig struct {
	// DefaultCountryPrefix is prepended to national numbers during
	// normalization, e.g. "+90" for Turkey.
	DefaultCountryPrefix string        `envconfig:"AQUADESK_TELEPHONY_COUNTRY_PREFIX" default:"+90"`
	CallerCacheTTL       time.Duration `envconfig:"AQUADESK_TELEPHONY_CALLER_CACHE_TTL" default:"1h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"AQUADESK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"AQUADESK_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

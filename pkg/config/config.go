package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Product       ProductConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
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
	Env          string `envconfig:"INVENTORY_APP_ENV" required:"true"`
	Port         string `envconfig:"INVENTORY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"INVENTORY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"INVENTORY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"INVENTORY_DB_DSN"`
	Driver string `envconfig:"INVENTORY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"INVENTORY_DB_HOST"`
	LegacyPort     int    `envconfig:"INVENTORY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"INVENTORY_DB_USER"`
	LegacyPassword string `envconfig:"INVENTORY_DB_PASSWORD"`
	LegacyName     string `envconfig:"INVENTORY_DB_NAME"`
	LegacySSLMode  string `envconfig:"INVENTORY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"INVENTORY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"INVENTORY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"INVENTORY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"INVENTORY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"INVENTORY_REDIS_URL" required:"true"`
	Address      string        `envconfig:"INVENTORY_REDIS_ADDR"`
	Password     string        `envconfig:"INVENTORY_REDIS_PASSWORD"`
	DB           int           `envconfig:"INVENTORY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"INVENTORY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"INVENTORY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"INVENTORY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"INVENTORY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"INVENTORY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"INVENTORY_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"INVENTORY_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"INVENTORY_JWT_EXPIRATION_MINUTES" required:"true"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"INVENTORY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"INVENTORY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"INVENTORY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"INVENTORY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"INVENTORY_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"INVENTORY_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit int           `envconfig:"INVENTORY_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"INVENTORY_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

// ProductConfig points at the product catalog service consulted on create.
type ProductConfig struct {
	BaseURL string        `envconfig:"INVENTORY_PRODUCT_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"INVENTORY_PRODUCT_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"INVENTORY_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"INVENTORY_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	InventoryTopic        string `envconfig:"INVENTORY_PUBSUB_TOPIC" default:"inventory-events"`
	InventorySubscription string `envconfig:"INVENTORY_PUBSUB_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"INVENTORY_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"INVENTORY_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"INVENTORY_OUTBOX_MAX_ATTEMPTS" default:"10"`
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

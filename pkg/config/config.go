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
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	RateLimit     RateLimitConfig
	Cart          CartConfig
	CORS          CORSConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
	Seed          SeedConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CANVASSHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"CANVASSHUB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CANVASSHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CANVASSHUB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"CANVASSHUB_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"CANVASSHUB_DB_DSN"`
	Driver string `envconfig:"CANVASSHUB_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"CANVASSHUB_DB_HOST"`
	Port     int    `envconfig:"CANVASSHUB_DB_PORT" default:"5432"`
	User     string `envconfig:"CANVASSHUB_DB_USER"`
	Password string `envconfig:"CANVASSHUB_DB_PASSWORD"`
	Name     string `envconfig:"CANVASSHUB_DB_NAME"`
	SSLMode  string `envconfig:"CANVASSHUB_DB_SSLMODE" default:"disable"`

	// SQLitePath is used instead of the DSN when the sqlite flag is on.
	SQLitePath string `envconfig:"CANVASSHUB_DB_SQLITE_PATH" default:"canvasshub.db"`

	MaxOpenConns    int           `envconfig:"CANVASSHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CANVASSHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CANVASSHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CANVASSHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CANVASSHUB_REDIS_URL"`
	Address      string        `envconfig:"CANVASSHUB_REDIS_ADDR"`
	Password     string        `envconfig:"CANVASSHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"CANVASSHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CANVASSHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CANVASSHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CANVASSHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CANVASSHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CANVASSHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"CANVASSHUB_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"CANVASSHUB_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"CANVASSHUB_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"CANVASSHUB_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CANVASSHUB_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CANVASSHUB_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CANVASSHUB_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CANVASSHUB_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CANVASSHUB_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"CANVASSHUB_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"CANVASSHUB_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"CANVASSHUB_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"CANVASSHUB_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"CANVASSHUB_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"CANVASSHUB_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// RateLimitConfig drives the in-process per-client token bucket.
type RateLimitConfig struct {
	RequestsPerSecond float64       `envconfig:"CANVASSHUB_RATE_LIMIT_RPS" default:"20"`
	Burst             int           `envconfig:"CANVASSHUB_RATE_LIMIT_BURST" default:"40"`
	IdleTTL           time.Duration `envconfig:"CANVASSHUB_RATE_LIMIT_IDLE_TTL" default:"10m"`
}

type CartConfig struct {
	SessionTTL time.Duration `envconfig:"CANVASSHUB_CART_SESSION_TTL" default:"72h"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CANVASSHUB_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CANVASSHUB_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CANVASSHUB_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"CANVASSHUB_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	CanvassTopic string `envconfig:"CANVASSHUB_PUBSUB_CANVASS_TOPIC" default:"canvass-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"CANVASSHUB_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"CANVASSHUB_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"CANVASSHUB_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type SeedConfig struct {
	AdminPassword string `envconfig:"CANVASSHUB_SEED_ADMIN_PASSWORD" default:"admin123"`
	UserPassword  string `envconfig:"CANVASSHUB_SEED_USER_PASSWORD" default:"user123"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if useSQLite {
		db.Driver = DriverSQLite
		return nil
	}
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range dbPartEnvVars {
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

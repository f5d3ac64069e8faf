package config

const (
	EnvPrefix = "CANVASSHUB"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv                 = "CANVASSHUB_APP_ENV"
	EnvPort                   = "CANVASSHUB_APP_PORT"
	EnvLogLevel               = "CANVASSHUB_LOG_LEVEL"
	EnvDBDSN                  = "CANVASSHUB_DB_DSN"
	EnvDBHost                 = "CANVASSHUB_DB_HOST"
	EnvDBUser                 = "CANVASSHUB_DB_USER"
	EnvDBPassword             = "CANVASSHUB_DB_PASSWORD"
	EnvDBName                 = "CANVASSHUB_DB_NAME"
	EnvRedisURL               = "CANVASSHUB_REDIS_URL"
	EnvJWTSecret              = "CANVASSHUB_JWT_SECRET"
	EnvJWTIssuer              = "CANVASSHUB_JWT_ISSUER"
	EnvJWTExpMins             = "CANVASSHUB_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "CANVASSHUB_REFRESH_TOKEN_TTL_MINUTES"
	EnvUseSQLite              = "CANVASSHUB_USE_SQLITE"
	EnvCartSessionTTL         = "CANVASSHUB_CART_SESSION_TTL"
	EnvCORSAllowedOrigins     = "CANVASSHUB_CORS_ALLOWED_ORIGINS"
	EnvGCPProjectID           = "CANVASSHUB_GCP_PROJECT_ID"
	EnvPubSubCanvassTopic     = "CANVASSHUB_PUBSUB_CANVASS_TOPIC"
)

var dbPartEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

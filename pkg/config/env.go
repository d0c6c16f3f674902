package config

const EnvPrefix = "CATALOG"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv      = "CATALOG_APP_ENV"
	EnvPort        = "CATALOG_APP_PORT"
	EnvLogLevel    = "CATALOG_LOG_LEVEL"
	EnvCORSOrigins = "CATALOG_CORS_ALLOWED_ORIGINS"

	EnvDBDSN    = "CATALOG_DB_DSN"
	EnvDBDriver = "CATALOG_DB_DRIVER"
	EnvDBHost   = "CATALOG_DB_HOST"
	EnvDBUser   = "CATALOG_DB_USER"
	EnvDBName   = "CATALOG_DB_NAME"

	EnvRedisURL  = "CATALOG_REDIS_URL"
	EnvRedisAddr = "CATALOG_REDIS_ADDR"

	EnvCacheProductsTTL = "CATALOG_CACHE_PRODUCTS_TTL"

	EnvUseSQLite   = "CATALOG_USE_SQLITE"
	EnvAutoMigrate = "CATALOG_AUTO_MIGRATE"
	EnvAutoSeed    = "CATALOG_AUTO_SEED"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

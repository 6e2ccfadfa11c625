package config

// Environment names recognized by AppConfig.
const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// EnvPrefix is passed to envconfig.Process; individual fields carry the full
// variable name in their tags so the prefix stays empty.
const EnvPrefix = ""

// Env var names referenced outside struct tags (tests, DSN assembly).
const (
	EnvAppEnv = "SHOPEASE_APP_ENV"
	EnvPort   = "SHOPEASE_APP_PORT"
	EnvDBDSN  = "SHOPEASE_DB_DSN"
	EnvDBHost = "SHOPEASE_DB_HOST"
	EnvDBUser = "SHOPEASE_DB_USER"
	EnvDBName = "SHOPEASE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

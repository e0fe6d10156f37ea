package config

const (
	EnvPrefix = "AQUADESK"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "AQUADESK_DB_DSN"
	EnvDBHost = "AQUADESK_DB_HOST"
	EnvDBUser = "AQUADESK_DB_USER"
	EnvDBName = "AQUADESK_DB_NAME"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

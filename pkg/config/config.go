package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "MEMBERHUB"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names, spelled out for tests and deploy manifests.
const (
	EnvAppEnv            = "MEMBERHUB_APP_ENV"
	EnvPort              = "MEMBERHUB_APP_PORT"
	EnvRedisURL          = "MEMBERHUB_REDIS_URL"
	EnvFirebaseProjectID = "MEMBERHUB_FIREBASE_PROJECT_ID"
	EnvFirebaseWebAPIKey = "MEMBERHUB_FIREBASE_WEB_API_KEY"
)

type Config struct {
	App      AppConfig
	Redis    RedisConfig
	Firebase FirebaseConfig
	CORS     CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MEMBERHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"MEMBERHUB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MEMBERHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MEMBERHUB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type RedisConfig struct {
	URL          string        `envconfig:"MEMBERHUB_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MEMBERHUB_REDIS_ADDR"`
	Password     string        `envconfig:"MEMBERHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"MEMBERHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MEMBERHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MEMBERHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MEMBERHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MEMBERHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MEMBERHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// FirebaseConfig wires the Firebase Admin SDK and the Identity Toolkit REST
// endpoint used for password sign-in. Credentials fall back to ADC when both
// explicit options are empty.
type FirebaseConfig struct {
	ProjectID       string `envconfig:"MEMBERHUB_FIREBASE_PROJECT_ID" required:"true"`
	CredentialsFile string `envconfig:"MEMBERHUB_FIREBASE_CREDENTIALS_FILE"`
	CredentialsJSON string `envconfig:"MEMBERHUB_FIREBASE_CREDENTIALS_JSON"`
	WebAPIKey       string `envconfig:"MEMBERHUB_FIREBASE_WEB_API_KEY" required:"true"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"MEMBERHUB_CORS_ALLOWED_ORIGINS" default:"*"`
}

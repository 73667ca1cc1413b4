package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/dmitrijs2005/travelwishlist/internal/flagx"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// EnvConfig maps environment variables onto Config fields. Unset variables
// keep their zero value and do not override earlier layers.
type EnvConfig struct {
	EndpointAddrHTTP             string        `env:"HTTP_ADDRESS"`
	DatabaseDriver               string        `env:"DATABASE_DRIVER"`
	DatabaseDSN                  string        `env:"DATABASE_DSN"`
	SecretKey                    string        `env:"JWT_KEY"`
	Issuer                       string        `env:"JWT_ISSUER"`
	Audience                     string        `env:"JWT_AUDIENCE"`
	AccessTokenValidityDuration  time.Duration `env:"ACCESS_TOKEN_TTL"`
	RefreshTokenValidityDuration time.Duration `env:"REFRESH_TOKEN_TTL"`
	AllowedOrigins               []string      `env:"CORS_ORIGINS" env-separator:","`
	RequestTimeout               time.Duration `env:"REQUEST_TIMEOUT"`
	LogLevel                     string        `env:"LOG_LEVEL"`
}

// parseEnv seeds the process environment from a dotenv file (-e/-env, or
// ./.env when present) and overlays the variables onto config. A missing
// default .env is ignored; any other failure panics.
func parseEnv(config *Config) {
	envFile := flagx.EnvFileFlag()
	explicit := envFile != ""
	if !explicit {
		envFile = defaultEnvFile
	}

	if err := godotenv.Load(envFile); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	c := &EnvConfig{}
	if err := cleanenv.ReadEnv(c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.Issuer, c.Issuer)
	setString(&config.Audience, c.Audience)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.RefreshTokenValidityDuration, c.RefreshTokenValidityDuration)
	if len(c.AllowedOrigins) > 0 {
		config.AllowedOrigins = c.AllowedOrigins
	}
	setDuration(&config.RequestTimeout, c.RequestTimeout)
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}

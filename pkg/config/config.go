package config

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/lestrrat-go/jwx/v2/jwk"
)

const (
	DocstoreMemory = "memory"
	DocstoreMongo  = "mongo"
)

// New reads the configuration from environment variables. All missing or malformed variables are
// reported together.
func New() (Config, error) {
	var env environment

	config := Config{
		Environment:    env.optional("ENVIRONMENT", "development"),
		BasePath:       env.optional("BASE_PATH", ""),
		Hostname:       env.require("HOSTNAME"),
		UIURL:          env.require("UI_URL"),
		AllowedOrigins: env.optionalList("CORS_ALLOWED_ORIGINS"),
		Port:           env.optionalInt("PORT", 8080),
		Logging: Logging{
			Level:       env.level("LOG_LEVEL", slog.LevelInfo),
			PrettyPrint: env.optionalBool("LOG_PRETTY_PRINT", false),
		},
		Docstore: Docstore{
			Driver: env.oneOf("DOCSTORE", DocstoreMongo, DocstoreMemory, DocstoreMongo),
		},
		Postgresql: Postgresql{
			Host:         env.require("DATABASE_HOST"),
			Port:         env.requireInt("DATABASE_PORT"),
			Username:     env.require("DATABASE_USERNAME"),
			Password:     env.require("DATABASE_PASSWORD"),
			DatabaseName: env.require("DATABASE_NAME"),
		},
		Redis: Redis{
			Host: env.require("REDIS_HOST"),
			Port: env.requireInt("REDIS_PORT"),
		},
		Authentication: Authentication{
			RefreshTokenSecretKey:                   env.require("REFRESH_TOKEN_SECRET_KEY"),
			AccessTokenExpirationSeconds:            env.requireInt("ACCESS_TOKEN_EXPIRATION_IN_SECONDS"),
			RefreshTokenExpirationSeconds:           env.requireInt("REFRESH_TOKEN_EXPIRATION_IN_SECONDS"),
			RefreshTokenRememberMeExpirationSeconds: env.requireInt("REFRESH_TOKEN_REMEMBER_ME_EXPIRATION_IN_SECONDS"),
			SameSiteMode:                            env.sameSite("SAME_SITE_MODE", http.SameSiteStrictMode),
		},
		PasswordTokenTTL: uint(env.optionalInt("PASSWORD_TOKEN_TTL", 900)),
		SMTP: SMTP{
			Host:     env.require("SMTP_HOST"),
			Port:     env.requireInt("SMTP_PORT"),
			Username: env.require("SMTP_USERNAME"),
			Password: env.require("SMTP_PASSWORD"),
		},
		RateLimit: RateLimit{
			RequestsPerSecond: env.optionalFloat("RATE_LIMIT_REQUESTS_PER_SECOND", 1),
			Burst:             env.optionalInt("RATE_LIMIT_BURST", 5),
		},
		Tracing: Tracing{
			JaegerEndpoint: env.optional("JAEGER_ENDPOINT", ""),
		},
	}

	if config.Docstore.Driver == DocstoreMongo {
		config.Docstore.Mongo = Mongo{
			URI:      env.require("MONGODB_URI"),
			Database: env.optional("MONGODB_DATABASE", "events"),
		}
	}

	if pem := env.require("PRIVATE_KEY"); pem != "" {
		key, err := ParsePrivateKey([]byte(pem))
		if err != nil {
			env.errs = append(env.errs, fmt.Errorf("PRIVATE_KEY: %v", err))
		} else {
			config.Authentication.Keys = Keys{PrivateKey: key, PublicKey: &key.PublicKey}
		}
	}

	if err := errors.Join(env.errs...); err != nil {
		return Config{}, err
	}
	return config, nil
}

type Config struct {
	Environment      string
	BasePath         string
	Hostname         string
	UIURL            string
	AllowedOrigins   []string
	Port             int
	Logging          Logging
	Docstore         Docstore
	Postgresql       Postgresql
	Redis            Redis
	Authentication   Authentication
	PasswordTokenTTL uint
	SMTP             SMTP
	RateLimit        RateLimit
	Tracing          Tracing
}

type Logging struct {
	Level       slog.Level
	PrettyPrint bool
}

type Docstore struct {
	Driver string
	Mongo  Mongo
}

type Mongo struct {
	URI      string
	Database string
}

type Postgresql struct {
	Host         string
	Port         int
	Username     string
	Password     string
	DatabaseName string
}

type Redis struct {
	Host string
	Port int
}

type Authentication struct {
	Keys                                    Keys
	RefreshTokenSecretKey                   string
	AccessTokenExpirationSeconds            int
	RefreshTokenExpirationSeconds           int
	RefreshTokenRememberMeExpirationSeconds int
	SameSiteMode                            http.SameSite
}

type Keys struct {
	PrivateKey *rsa.PrivateKey
	PublicKey  *rsa.PublicKey
}

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
}

type RateLimit struct {
	RequestsPerSecond float64
	Burst             int
}

type Tracing struct {
	JaegerEndpoint string
}

// ParsePrivateKey parses a PEM encoded RSA private key.
func ParsePrivateKey(pem []byte) (*rsa.PrivateKey, error) {
	key, err := jwk.ParseKey(pem, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %v", err)
	}

	var raw any
	if err := key.Raw(&raw); err != nil {
		return nil, fmt.Errorf("failed to get raw private key: %v", err)
	}

	privateKey, ok := raw.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is not an RSA private key: %T", raw)
	}

	return privateKey, nil
}

// environment collects the errors of every variable it reads.
type environment struct {
	errs []error
}

func (e *environment) require(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		e.errs = append(e.errs, fmt.Errorf("can't find environment variable: %s", key))
		return ""
	}
	return value
}

func (e *environment) requireInt(key string) int {
	valueStr := e.require(key)
	if valueStr == "" {
		return 0
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("can't parse %s as integer: %v", key, err))
	}
	return value
}

func (e *environment) optional(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func (e *environment) optionalList(key string) []string {
	value := e.optional(key, "")
	if value == "" {
		return nil
	}

	var values []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func (e *environment) optionalInt(key string, fallback int) int {
	valueStr := e.optional(key, "")
	if valueStr == "" {
		return fallback
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("can't parse %s as integer: %v", key, err))
	}
	return value
}

func (e *environment) optionalFloat(key string, fallback float64) float64 {
	valueStr := e.optional(key, "")
	if valueStr == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("can't parse %s as float: %v", key, err))
	}
	return value
}

func (e *environment) optionalBool(key string, fallback bool) bool {
	valueStr := e.optional(key, "")
	if valueStr == "" {
		return fallback
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("can't parse %s as bool: %v", key, err))
	}
	return value
}

func (e *environment) oneOf(key string, fallback string, allowed ...string) string {
	value := e.optional(key, fallback)
	for _, a := range allowed {
		if value == a {
			return value
		}
	}
	e.errs = append(e.errs, fmt.Errorf("%s must be one of %v, got %q", key, allowed, value))
	return fallback
}

func (e *environment) level(key string, fallback slog.Level) slog.Level {
	valueStr := e.optional(key, "")
	if valueStr == "" {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(valueStr)); err != nil {
		e.errs = append(e.errs, fmt.Errorf("can't parse %s as log level: %v", key, err))
		return fallback
	}
	return level
}

func (e *environment) sameSite(key string, fallback http.SameSite) http.SameSite {
	switch strings.ToLower(e.optional(key, "")) {
	case "":
		return fallback
	case "strict":
		return http.SameSiteStrictMode
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		e.errs = append(e.errs, fmt.Errorf("%s must be one of strict, lax or none", key))
		return fallback
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DB    Postgres `yaml:"database"`
	RMQ   RabbitMQ `yaml:"rabbitmq"`
	Redis Redis    `yaml:"redis"`
	Media Media    `yaml:"media"`
	Auth  Auth     `yaml:"auth"`
	Log   Log      `yaml:"log"`
}

type Postgres struct {
	Host     string `yaml:"host" env:"POSTGRES_HOST"`
	Port     string `yaml:"port" env:"POSTGRES_PORT"`
	User     string `yaml:"user" env:"POSTGRES_USER"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD"`
	Database string `yaml:"database" env:"POSTGRES_DB"`
	MaxConns int32  `yaml:"max_conns" env:"POSTGRES_MAX_CONNS"`
}

func (p Postgres) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		p.User, p.Password, p.Host, p.Port, p.Database)
}

type RabbitMQ struct {
	User     string `yaml:"user" env:"RABBITMQ_USER"`
	Password string `yaml:"password" env:"RABBITMQ_PASSWORD"`
	Host     string `yaml:"host" env:"RABBITMQ_HOST"`
	Port     string `yaml:"port" env:"RABBITMQ_PORT"`
	VHost    string `yaml:"vhost" env:"RABBITMQ_VHOST"`
	Prefetch int    `yaml:"prefetch" env:"RABBITMQ_PREFETCH"`
}

func (r RabbitMQ) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/%s", r.User, r.Password, r.Host, r.Port, r.VHost)
}

type Redis struct {
	Addr     string        `yaml:"addr" env:"REDIS_ADDR"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB"`
	CartTTL  time.Duration `yaml:"cart_ttl" env:"REDIS_CART_TTL"`
}

// Media points at an S3 compatible bucket. Endpoint is only set for
// MinIO-style deployments; PublicURL prefixes object keys in stored URLs.
type Media struct {
	Bucket    string `yaml:"bucket" env:"MEDIA_BUCKET"`
	Region    string `yaml:"region" env:"MEDIA_REGION"`
	Endpoint  string `yaml:"endpoint" env:"MEDIA_ENDPOINT"`
	AccessKey string `yaml:"access_key" env:"MEDIA_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"MEDIA_SECRET_KEY"`
	PublicURL string `yaml:"public_url" env:"MEDIA_PUBLIC_URL"`
}

type Auth struct {
	Secret          string        `yaml:"secret" env:"AUTH_SECRET"`
	TokenTTL        time.Duration `yaml:"token_ttl" env:"AUTH_TOKEN_TTL"`
	ResetTTL        time.Duration `yaml:"reset_ttl" env:"AUTH_RESET_TTL"`
	ResetURL        string        `yaml:"reset_url" env:"AUTH_RESET_URL"`
	LoginsPerMinute int           `yaml:"logins_per_minute" env:"AUTH_LOGINS_PER_MINUTE"`
}

type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
}

// LoadConfig reads the yaml file at configPath, then lets a local .env file
// and the process environment override it. A missing yaml file is not an
// error when the environment provides the settings.
func LoadConfig(configPath string) (*Config, error) {
	cnf := &Config{}

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cnf); err != nil {
			return nil, fmt.Errorf("parse %s: %w", configPath, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read %s: %w", configPath, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := envdecode.Decode(cnf); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	cnf.setDefaults()
	return cnf, nil
}

func (c *Config) setDefaults() {
	setString(&c.DB.Host, "localhost")
	setString(&c.DB.Port, "5432")
	setString(&c.DB.User, "blueberry")
	setString(&c.DB.Database, "blueberry")
	if c.DB.MaxConns <= 0 {
		c.DB.MaxConns = 10
	}

	setString(&c.RMQ.Host, "localhost")
	setString(&c.RMQ.Port, "5672")
	setString(&c.RMQ.User, "guest")
	setString(&c.RMQ.Password, "guest")
	if c.RMQ.Prefetch <= 0 {
		c.RMQ.Prefetch = 10
	}

	setString(&c.Redis.Addr, "localhost:6379")
	if c.Redis.CartTTL <= 0 {
		c.Redis.CartTTL = 30 * 24 * time.Hour
	}

	setString(&c.Media.Region, "us-east-1")
	setString(&c.Media.Bucket, "blueberry-media")

	setString(&c.Auth.Secret, "change-me")
	if c.Auth.TokenTTL <= 0 {
		c.Auth.TokenTTL = 7 * 24 * time.Hour
	}
	if c.Auth.ResetTTL <= 0 {
		c.Auth.ResetTTL = time.Hour
	}
	setString(&c.Auth.ResetURL, "http://localhost:5173/reset-password")
	if c.Auth.LoginsPerMinute <= 0 {
		c.Auth.LoginsPerMinute = 10
	}

	setString(&c.Log.Level, "INFO")
}

func setString(field *string, def string) {
	if *field == "" {
		*field = def
	}
}

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported store drivers
const (
	DriverMongo  = "mongodb"
	DriverMemory = "memory"
)

// Config holds every setting the service needs at startup
type Config struct {
	Server struct {
		Port      string `yaml:"port" env:"PORT"`
		BodyLimit int    `yaml:"body_limit" env:"SERVER_BODY_LIMIT"`
	} `yaml:"server"`

	Database struct {
		Driver       string `yaml:"driver" env:"DB_DRIVER"`
		URI          string `yaml:"uri" env:"MONGO_URI"`
		Name         string `yaml:"name" env:"DB_NAME"`
		Transactions bool   `yaml:"transactions" env:"DB_TRANSACTIONS"`
		// Timeout bounds every store call made while serving a request.
		Timeout time.Duration `yaml:"timeout" env:"DB_TIMEOUT"`
	} `yaml:"database"`

	JWT struct {
		Secret        string        `yaml:"secret" env:"JWT_SECRET"`
		AdminTokenTTL time.Duration `yaml:"admin_token_ttl" env:"JWT_ADMIN_TOKEN_TTL"`
		// Zero means user tokens never expire.
		UserTokenTTL time.Duration `yaml:"user_token_ttl" env:"JWT_USER_TOKEN_TTL"`
		Issuer       string        `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Auth struct {
		BcryptCost int `yaml:"bcrypt_cost" env:"AUTH_BCRYPT_COST"`
	} `yaml:"auth"`

	Minio struct {
		Enabled   bool   `yaml:"enabled" env:"MINIO_ENABLED"`
		Endpoint  string `yaml:"endpoint" env:"MINIO_ENDPOINT"`
		AccessKey string `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
		SecretKey string `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
		Bucket    string `yaml:"bucket" env:"MINIO_BUCKET"`
		UseSSL    bool   `yaml:"use_ssl" env:"MINIO_USE_SSL"`
		// PublicURL overrides the base used to build image links.
		PublicURL string `yaml:"public_url" env:"MINIO_PUBLIC_URL"`
	} `yaml:"minio"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// Load reads an optional .env file, the YAML file at configPath (if it
// exists) and finally environment variables, in that order of precedence.
func Load(configPath string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()
	return LoadConfig(configPath)
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			file, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := yaml.Unmarshal(file, config); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.BodyLimit = 50 * 1024 * 1024

	config.Database.Driver = DriverMongo
	config.Database.URI = "mongodb://localhost:27017"
	config.Database.Name = "courseApp"
	config.Database.Timeout = 10 * time.Second

	config.JWT.AdminTokenTTL = 24 * time.Hour
	config.JWT.Issuer = "coursehub"

	config.Auth.BcryptCost = 10

	config.Minio.Endpoint = "localhost:9000"
	config.Minio.AccessKey = "minioadmin"
	config.Minio.SecretKey = "minioadmin"
	config.Minio.Bucket = "course-images"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

func validateConfig(config *Config) error {
	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	config.Database.Driver = strings.ToLower(strings.TrimSpace(config.Database.Driver))
	switch config.Database.Driver {
	case DriverMongo:
		if config.Database.URI == "" {
			return fmt.Errorf("database uri is required for the %s driver", DriverMongo)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	if config.Database.Timeout <= 0 {
		return fmt.Errorf("database timeout must be positive")
	}
	if config.JWT.AdminTokenTTL <= 0 {
		return fmt.Errorf("admin token ttl must be positive")
	}
	if config.JWT.UserTokenTTL < 0 {
		return fmt.Errorf("user token ttl must not be negative")
	}

	if config.Minio.Enabled && config.Minio.Bucket == "" {
		return fmt.Errorf("minio bucket is required when minio is enabled")
	}

	return nil
}

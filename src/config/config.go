package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Service   ServiceConfig   `mapstructure:"service"`
	Databases DatabasesConfig `mapstructure:"databases"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Worker    WorkerConfig    `mapstructure:"worker"`
	Log       LogConfig       `mapstructure:"log"`
	AWS       AWSConfig       `mapstructure:"aws"`
}

type ServiceType string

const (
	API    ServiceType = "API"
	WORKER ServiceType = "WORKER"
)

type ServiceConfig struct {
	Type           ServiceType   `mapstructure:"type"`
	Port           string        `mapstructure:"port"`
	RequestTimeout time.Duration `mapstructure:"requestTimeout"`
	// BasePath is the function prefix routes are also mounted under.
	BasePath string `mapstructure:"basePath"`
}

type DatabasesConfig struct {
	SQL   SQLConfig   `mapstructure:"sql"`
	Redis RedisConfig `mapstructure:"redis"`
}

type SQLConfig struct {
	Host             string `mapstructure:"host"`
	Port             string `mapstructure:"port"`
	Username         string `mapstructure:"username"`
	Password         string `mapstructure:"password"`
	Driver           string `mapstructure:"driver"`
	Database         string `mapstructure:"database"`
	ConnectionString string `mapstructure:"connection_string"`
	MaxConns         int32  `mapstructure:"maxConns"`
	MinConns         int32  `mapstructure:"minConns"`
}

// DSN returns the connection string, building it from its parts when not set explicitly.
func (c SQLConfig) DSN() string {
	if c.ConnectionString != "" {
		return c.ConnectionString
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.Host, c.Username, c.Password, c.Database, c.Port)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
	TLS      bool   `mapstructure:"tls"`
}

func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

type AuthMode string

const (
	AuthModeJWT    AuthMode = "jwt"
	AuthModeRemote AuthMode = "remote"
)

type AuthConfig struct {
	Mode      AuthMode `mapstructure:"mode"`
	JWTSecret string   `mapstructure:"jwtSecret"`
	Audience  string   `mapstructure:"audience"`
	// BaseURL and APIKey are used by the remote verifier.
	BaseURL string `mapstructure:"baseUrl"`
	APIKey  string `mapstructure:"apiKey"`
}

type CacheConfig struct {
	CategoryTTL time.Duration `mapstructure:"categoryTTL"`
}

type WorkerConfig struct {
	DepreciationCron string `mapstructure:"depreciationCron"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	ToFile   bool   `mapstructure:"toFile"`
	FilePath string `mapstructure:"filePath"`
}

type AWSConfig struct {
	Region  string        `mapstructure:"region"`
	Secrets SecretsConfig `mapstructure:"secrets"`
}

type SecretsConfig struct {
	SQLPasswordID string `mapstructure:"sqlPasswordId"`
	JWTSecretID   string `mapstructure:"jwtSecretId"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.type", string(API))
	v.SetDefault("service.port", "8000")
	v.SetDefault("service.requestTimeout", 10*time.Second)
	v.SetDefault("service.basePath", "/asset-management")
	v.SetDefault("databases.sql.driver", "postgres")
	v.SetDefault("databases.sql.host", "")
	v.SetDefault("databases.sql.port", "5432")
	v.SetDefault("databases.sql.username", "")
	v.SetDefault("databases.sql.password", "")
	v.SetDefault("databases.sql.database", "")
	v.SetDefault("databases.sql.connection_string", "")
	v.SetDefault("databases.sql.maxConns", 10)
	v.SetDefault("databases.sql.minConns", 1)
	v.SetDefault("databases.redis.host", "")
	v.SetDefault("databases.redis.port", "6379")
	v.SetDefault("databases.redis.password", "")
	v.SetDefault("auth.mode", string(AuthModeJWT))
	v.SetDefault("auth.jwtSecret", "")
	v.SetDefault("auth.audience", "authenticated")
	v.SetDefault("auth.baseUrl", "")
	v.SetDefault("auth.apiKey", "")
	v.SetDefault("cache.categoryTTL", 10*time.Minute)
	v.SetDefault("worker.depreciationCron", "0 3 1 * *")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.toFile", false)
	v.SetDefault("log.filePath", "autobooks.log")
	v.SetDefault("aws.region", "")
	v.SetDefault("aws.secrets.sqlPasswordId", "")
	v.SetDefault("aws.secrets.jwtSecretId", "")
}

// LoadConfig reads appsettings.yaml from path, overlays appsettings.<env>.yaml when env is set
// and finally applies AUTOBOOKS_* environment variables.
func LoadConfig(path string, env string) (*Config, error) {
	var cfg Config

	// A missing .env file is not an error.
	_ = godotenv.Load(filepath.Join(path, "..", ".env"))

	v := viper.New()
	setDefaults(v)
	v.AddConfigPath(path)
	v.SetConfigName("appsettings")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	if env != "" {
		overlay := filepath.Join(path, fmt.Sprintf("appsettings.%s.yaml", env))
		if _, err := os.Stat(overlay); err == nil {
			v.SetConfigFile(overlay)
			if err := v.MergeInConfig(); err != nil {
				return nil, err
			}
		}
	}

	v.SetEnvPrefix("AUTOBOOKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SecretSource fetches a secret string by id.
type SecretSource interface {
	GetSecretValue(secretID string) (string, error)
}

// ApplySecrets replaces credentials with the values stored under the configured secret ids.
func (c *Config) ApplySecrets(source SecretSource) error {
	if c.AWS.Secrets.SQLPasswordID != "" {
		secret, err := source.GetSecretValue(c.AWS.Secrets.SQLPasswordID)
		if err != nil {
			return fmt.Errorf("failed to read sql password secret: %w", err)
		}
		c.Databases.SQL.Password = secret
	}
	if c.AWS.Secrets.JWTSecretID != "" {
		secret, err := source.GetSecretValue(c.AWS.Secrets.JWTSecretID)
		if err != nil {
			return fmt.Errorf("failed to read jwt secret: %w", err)
		}
		c.Auth.JWTSecret = secret
	}
	return nil
}

func (c *Config) UsesSecretsManager() bool {
	return c.AWS.Region != "" && (c.AWS.Secrets.SQLPasswordID != "" || c.AWS.Secrets.JWTSecretID != "")
}

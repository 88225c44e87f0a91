package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	StorageLocal = "local"
	StorageMinIO = "minio"
)

type Config struct {
	ServiceHost string
	ServicePort int
	Storage     StorageConfig
	Manifest    ManifestConfig
	Redis       RedisConfig
}

type StorageConfig struct {
	Driver string // local или minio
	Root   string // корень для local
	MinIO  MinIOConfig
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type ManifestConfig struct {
	MissingPack string // empty или error
}

type RedisConfig struct {
	Host        string
	Password    string
	Port        int
	User        string
	DialTimeout time.Duration
	ReadTimeout time.Duration
	ManifestTTL time.Duration
}

// Enabled кеш манифестов включается только при заданном REDIS_HOST
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

const (
	envRedisHost = "REDIS_HOST"
	envRedisPort = "REDIS_PORT"
	envRedisUser = "REDIS_USER"
	envRedisPass = "REDIS_PASSWORD"

	envMinIOAccessKey = "MINIO_ACCESS_KEY"
	envMinIOSecretKey = "MINIO_SECRET_KEY"
)

func NewConfig() (*Config, error) {
	var err error

	configName := "config"
	_ = godotenv.Load()
	if os.Getenv("CONFIG_NAME") != "" {
		configName = os.Getenv("CONFIG_NAME")
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("toml")
	v.AddConfigPath("config")
	v.AddConfigPath(".")

	v.SetDefault("ServiceHost", "0.0.0.0")
	v.SetDefault("ServicePort", 8080)
	v.SetDefault("Storage.Driver", StorageLocal)
	v.SetDefault("Storage.Root", "storage")
	v.SetDefault("Manifest.MissingPack", "empty")

	err = v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = v.Unmarshal(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Storage.Driver != StorageLocal && cfg.Storage.Driver != StorageMinIO {
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	// ключи MinIO из env имеют приоритет над файлом
	if key := os.Getenv(envMinIOAccessKey); key != "" {
		cfg.Storage.MinIO.AccessKey = key
	}
	if key := os.Getenv(envMinIOSecretKey); key != "" {
		cfg.Storage.MinIO.SecretKey = key
	}

	// инициализация Redis конфигурации из env
	cfg.Redis.Host = os.Getenv(envRedisHost)
	if cfg.Redis.Enabled() {
		cfg.Redis.Port, err = strconv.Atoi(os.Getenv(envRedisPort))
		if err != nil {
			return nil, fmt.Errorf("redis port must be int value: %w", err)
		}
		cfg.Redis.Password = os.Getenv(envRedisPass)
		cfg.Redis.User = os.Getenv(envRedisUser)
		cfg.Redis.DialTimeout = 10 * time.Second
		cfg.Redis.ReadTimeout = 10 * time.Second
		if cfg.Redis.ManifestTTL == 0 {
			cfg.Redis.ManifestTTL = 10 * time.Minute
		}
	}

	log.Info("config parsed")

	return cfg, nil
}

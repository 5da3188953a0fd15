package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	ServiceHost string
	ServicePort int
	LogLevel    string
	LogJSON     bool
	CORSOrigins []string
	// максимальный размер вложения в мегабайтах
	MaxUploadMB int

	JWT   JWTConfig
	Redis RedisConfig
	MinIO MinIOConfig
}

type JWTConfig struct {
	Token         string
	ExpiresIn     time.Duration
	SigningMethod jwt.SigningMethod
}

type RedisConfig struct {
	Host        string
	Password    string
	Port        int
	User        string
	DialTimeout time.Duration
	ReadTimeout time.Duration
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	URLTTL    time.Duration
}

const (
	envJWTSecret = "JWT_SECRET"

	envRedisHost = "REDIS_HOST"
	envRedisPort = "REDIS_PORT"
	envRedisUser = "REDIS_USER"
	envRedisPass = "REDIS_PASSWORD"

	envMinIOEndpoint  = "MINIO_ENDPOINT"
	envMinIOAccessKey = "MINIO_ACCESS_KEY"
	envMinIOSecretKey = "MINIO_SECRET_KEY"
	envMinIOBucket    = "MINIO_BUCKET"
	envMinIOUseSSL    = "MINIO_USE_SSL"
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
	v.SetDefault("LogLevel", "info")
	v.SetDefault("MaxUploadMB", 20)
	v.SetDefault("JWT.ExpiresIn", "12h")
	v.SetDefault("MinIO.Bucket", "attachments")
	v.SetDefault("MinIO.URLTTL", "1h")

	err = v.ReadInConfig()
	if err != nil {
		return nil, err
	}
	v.WatchConfig()

	cfg := &Config{}
	err = v.Unmarshal(cfg)
	if err != nil {
		return nil, err
	}

	// секрет JWT только из окружения
	cfg.JWT.Token = os.Getenv(envJWTSecret)
	if cfg.JWT.Token == "" {
		return nil, fmt.Errorf("%s is not set", envJWTSecret)
	}
	cfg.JWT.SigningMethod = jwt.SigningMethodHS256

	// инициализация Redis конфигурации из env
	cfg.Redis.Host = os.Getenv(envRedisHost)
	cfg.Redis.Port = 6379
	if port := os.Getenv(envRedisPort); port != "" {
		cfg.Redis.Port, err = strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("redis port must be int value: %w", err)
		}
	}
	cfg.Redis.Password = os.Getenv(envRedisPass)
	cfg.Redis.User = os.Getenv(envRedisUser)
	cfg.Redis.DialTimeout = 10 * time.Second
	cfg.Redis.ReadTimeout = 10 * time.Second

	// MinIO: env перекрывает toml
	if endpoint := os.Getenv(envMinIOEndpoint); endpoint != "" {
		cfg.MinIO.Endpoint = endpoint
	}
	if bucket := os.Getenv(envMinIOBucket); bucket != "" {
		cfg.MinIO.Bucket = bucket
	}
	cfg.MinIO.AccessKey = os.Getenv(envMinIOAccessKey)
	cfg.MinIO.SecretKey = os.Getenv(envMinIOSecretKey)
	if useSSL := os.Getenv(envMinIOUseSSL); useSSL != "" {
		cfg.MinIO.UseSSL, _ = strconv.ParseBool(useSSL)
	}

	log.Info("config parsed")

	return cfg, nil
}

// SetupLogger настраивает logrus по конфигу
func SetupLogger(cfg *Config) {
	level, err := log.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		log.Warnf("unknown log level %q, using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.LogJSON {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

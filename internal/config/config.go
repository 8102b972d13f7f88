// Package config resolves process configuration from an optional env file
// and the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the server and worker binaries need to start.
type Config struct {
	AppHost  string
	AppPort  string
	LogLevel string

	PostgresHost         string
	PostgresPort         int
	PostgresUser         string
	PostgresPassword     string
	PostgresDB           string
	PostgresMaxOpenConns int
	PostgresMaxIdleConns int

	RedisHost         string
	RedisPort         int
	RedisDB           int
	RedisPassword     string
	RedisPoolSize     int
	RedisMinIdleConns int

	KafkaBrokers      []string
	KafkaTasksTopic   string
	KafkaExportsTopic string
	KafkaGroupID      string

	JWTSecretKey  string
	JWTExpiration time.Duration
	ResetTokenExp time.Duration

	PostsPerPage     int
	WorkerHealthHost string
	WorkerHealthPort string
}

var defaults = map[string]any{
	"APP_HOST":                "localhost",
	"APP_PORT":                "8080",
	"APP_LOG_LEVEL":           "info",
	"POSTGRES_HOST":           "localhost",
	"POSTGRES_PORT":           5432,
	"POSTGRES_USER":           "user",
	"POSTGRES_PASSWORD":       "password",
	"POSTGRES_DB":             "database",
	"POSTGRES_MAX_OPEN_CONNS": 16,
	"POSTGRES_MAX_IDLE_CONNS": 8,
	"REDIS_HOST":              "localhost",
	"REDIS_PORT":              6379,
	"REDIS_DB":                0,
	"REDIS_PASSWORD":          "",
	"REDIS_POOL_SIZE":         10,
	"REDIS_MIN_IDLE_CONNS":    2,
	"KAFKA_BROKERS":           "localhost:9092",
	"KAFKA_TASKS_TOPIC":       "microblog.tasks",
	"KAFKA_EXPORTS_TOPIC":     "microblog.exports",
	"KAFKA_GROUP_ID":          "microblog-worker",
	"JWT_SECRET_KEY":          "my_super_secret_key",
	"JWT_EXP_SECOND":          3600,
	"RESET_TOKEN_EXP_SECOND":  600,
	"POSTS_PER_PAGE":          10,
	"WORKER_HEALTH_HOST":      "localhost",
	"WORKER_HEALTH_PORT":      "50051",
}

// Load reads path into the environment if it exists and returns the
// resolved configuration. Variables already set in the environment win
// over the file.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(path)

	v := viper.New()
	v.AutomaticEnv()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	cfg := &Config{
		AppHost:  v.GetString("APP_HOST"),
		AppPort:  v.GetString("APP_PORT"),
		LogLevel: v.GetString("APP_LOG_LEVEL"),

		PostgresHost:         v.GetString("POSTGRES_HOST"),
		PostgresPort:         v.GetInt("POSTGRES_PORT"),
		PostgresUser:         v.GetString("POSTGRES_USER"),
		PostgresPassword:     v.GetString("POSTGRES_PASSWORD"),
		PostgresDB:           v.GetString("POSTGRES_DB"),
		PostgresMaxOpenConns: v.GetInt("POSTGRES_MAX_OPEN_CONNS"),
		PostgresMaxIdleConns: v.GetInt("POSTGRES_MAX_IDLE_CONNS"),

		RedisHost:         v.GetString("REDIS_HOST"),
		RedisPort:         v.GetInt("REDIS_PORT"),
		RedisDB:           v.GetInt("REDIS_DB"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		RedisPoolSize:     v.GetInt("REDIS_POOL_SIZE"),
		RedisMinIdleConns: v.GetInt("REDIS_MIN_IDLE_CONNS"),

		KafkaBrokers:      splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTasksTopic:   v.GetString("KAFKA_TASKS_TOPIC"),
		KafkaExportsTopic: v.GetString("KAFKA_EXPORTS_TOPIC"),
		KafkaGroupID:      v.GetString("KAFKA_GROUP_ID"),

		JWTSecretKey:  v.GetString("JWT_SECRET_KEY"),
		JWTExpiration: time.Duration(v.GetInt("JWT_EXP_SECOND")) * time.Second,
		ResetTokenExp: time.Duration(v.GetInt("RESET_TOKEN_EXP_SECOND")) * time.Second,

		PostsPerPage:     v.GetInt("POSTS_PER_PAGE"),
		WorkerHealthHost: v.GetString("WORKER_HEALTH_HOST"),
		WorkerHealthPort: v.GetString("WORKER_HEALTH_PORT"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// PostgresDSN is the pgx connection string for the configured database.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresPort, c.PostgresDB)
}

// RedisAddr is host:port of the Redis server.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// HTTPAddr is the listen address of the API server.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%s", c.AppHost, c.AppPort)
}

// WorkerHealthAddr is host:port of the worker's gRPC health service.
func (c *Config) WorkerHealthAddr() string {
	return fmt.Sprintf("%s:%s", c.WorkerHealthHost, c.WorkerHealthPort)
}

func (c *Config) validate() error {
	if c.PostsPerPage <= 0 {
		return fmt.Errorf("POSTS_PER_PAGE must be positive, got %d", c.PostsPerPage)
	}
	if len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS must not be empty")
	}
	if c.JWTSecretKey == "" {
		return fmt.Errorf("JWT_SECRET_KEY must not be empty")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Log       LogConfig       `mapstructure:"log"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Gzip      GzipConfig      `mapstructure:"gzip"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Swagger         bool          `mapstructure:"swagger"`
}

// DatabaseConfig 选择存储后端；DSN 只对 gorm 后端生效
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type MongoConfig struct {
	URI        string        `mapstructure:"uri"`
	Database   string        `mapstructure:"database"`
	Collection string        `mapstructure:"collection"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type SentryConfig struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

type GzipConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// 支持的存储后端
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
)

const envPrefix = "BLOG"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.swagger", true)

	v.SetDefault("database.driver", DriverMongo)
	v.SetDefault("database.dsn", "blog.db")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "restful_blog_app")
	v.SetDefault("mongo.collection", "blogs")
	v.SetDefault("mongo.timeout", "10s")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4318")
	v.SetDefault("tracing.service_name", "restful-blog")

	v.SetDefault("ratelimit.enabled", false)
	v.SetDefault("ratelimit.rps", 10)
	v.SetDefault("ratelimit.burst", 20)

	v.SetDefault("gzip.enabled", true)
}

// Load 读取 .env、config.yaml 与 BLOG_* 环境变量；文件均为可选
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile 与 Load 相同，但 path 非空时只读取该配置文件
func LoadFile(path string) (*Config, error) {
	// .env 不存在时忽略
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 检查存储后端等枚举值
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMongo, DriverPostgres, DriverSQLite, DriverRedis:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Server.Port == "" {
		return errors.New("server.port must not be empty")
	}
	return nil
}

// Addr 返回 http.Server 监听地址
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

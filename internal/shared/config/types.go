package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port" validate:"gte=0,lte=65535"`
	Mode    string `mapstructure:"mode"`
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig selects the record store. Driver is "mysql" or "sqlite";
// for sqlite, Database is the file path (":memory:" for an ephemeral store).
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver" validate:"oneof=mysql sqlite"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database" validate:"required"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	if d.Driver == "sqlite" {
		return d.Database
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	LockTTL  time.Duration `mapstructure:"lock_ttl"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// GatewayConfig holds the PipraPay settings. It is read once at startup and
// handed to each component by value.
type GatewayConfig struct {
	APIKey       string        `mapstructure:"api_key" validate:"required"`
	APIURL       string        `mapstructure:"api_url" validate:"required,url"`
	Currency     string        `mapstructure:"currency" validate:"required,len=3"`
	CancelURL    string        `mapstructure:"cancel_url" validate:"omitempty,url"`
	NotifyURL    string        `mapstructure:"notify_url" validate:"omitempty,url"`
	AutoRedirect bool          `mapstructure:"auto_redirect"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Breaker      BreakerConfig `mapstructure:"breaker"`
}

type BreakerConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	OpenTimeout  time.Duration `mapstructure:"open_timeout"`
	MinRequests  uint32        `mapstructure:"min_requests"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

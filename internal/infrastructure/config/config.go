// Package config loads the service configuration from YAML and the
// environment. The result is a plain value handed to constructors.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	sharedConfig "github.com/piprapay/ppgateway/internal/shared/config"
	appErrors "github.com/piprapay/ppgateway/internal/shared/errors"
)

const envPrefix = "PPGATEWAY"

type Config struct {
	Server   sharedConfig.ServerConfig   `mapstructure:"server"`
	Database sharedConfig.DatabaseConfig `mapstructure:"database"`
	Logger   sharedConfig.LoggerConfig   `mapstructure:"logger"`
	Redis    sharedConfig.RedisConfig    `mapstructure:"redis"`
	Gateway  sharedConfig.GatewayConfig  `mapstructure:"gateway"`
	Metrics  sharedConfig.MetricsConfig  `mapstructure:"metrics"`
}

// Load reads configuration. configPath names a file explicitly; when empty
// config.yaml is searched for in ./configs, ../configs and ../../configs and
// may be absent. env, unless empty or "default", overrides server.mode.
func Load(env, configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the settings the service cannot run without and names
// the first offending key by its config path.
func (c *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := validate.Struct(c); err != nil {
		return configurationError(err)
	}
	return nil
}

func configurationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		// Namespace is rooted at the Config type name
		key := fe.Namespace()
		if i := strings.IndexByte(key, '.'); i >= 0 {
			key = key[i+1:]
		}
		if fe.Tag() == "required" {
			return appErrors.NewConfigurationError("missing required setting", key)
		}
		return appErrors.NewConfigurationError("invalid setting", fmt.Sprintf("%s fails %q", key, fe.Tag()))
	}
	return appErrors.NewConfigurationError("invalid configuration", err.Error())
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.base_url", "http://localhost:8080")

	// Database defaults
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "billing")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.lock_ttl", "2m")

	// Gateway defaults
	v.SetDefault("gateway.api_key", "")
	// no default: an unset api_url must fail validation
	_ = v.BindEnv("gateway.api_url")
	v.SetDefault("gateway.currency", "BDT")
	v.SetDefault("gateway.cancel_url", "")
	v.SetDefault("gateway.notify_url", "")
	v.SetDefault("gateway.auto_redirect", false)
	v.SetDefault("gateway.timeout", "30s")
	v.SetDefault("gateway.breaker.enabled", true)
	v.SetDefault("gateway.breaker.max_requests", 1)
	v.SetDefault("gateway.breaker.interval", "60s")
	v.SetDefault("gateway.breaker.open_timeout", "30s")
	v.SetDefault("gateway.breaker.min_requests", 5)
	v.SetDefault("gateway.breaker.failure_ratio", 0.6)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

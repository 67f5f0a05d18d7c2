package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	BackendLocal  = "local"
	BackendRemote = "remote"
	BackendOpenAI = "openai"
)

type Config struct {
	Server     ServerConfig
	Classifier ClassifierConfig
	Redis      RedisConfig
	Dashboard  DashboardConfig
	RateLimit  RateLimitConfig
	Logging    LoggingConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	ReadTimeout    int
	WriteTimeout   int
	BodyLimit      int
	Environment    string
	AllowedOrigins []string
}

type ClassifierConfig struct {
	Backend string
	Remote  RemoteConfig
	OpenAI  OpenAIConfig
}

type RemoteConfig struct {
	BaseURL     string
	TimeoutSec  int
	MaxAttempts int
}

type OpenAIConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
	TimeoutSec  int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	TTLSec   int
}

type DashboardConfig struct {
	SeedDemo       bool
	MaxUploadBytes int
	PerPage        int
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/sentimentiq")

	return load(v)
}

// LoadFile reads configuration from an explicit path, still honouring env overrides.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("SENTIMENTIQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	switch c.Classifier.Backend {
	case BackendLocal:
	case BackendRemote:
		if c.Classifier.Remote.BaseURL == "" {
			return fmt.Errorf("classifier.remote.baseURL is required for the remote backend")
		}
	case BackendOpenAI:
		if c.Classifier.OpenAI.APIKey == "" {
			return fmt.Errorf("classifier.openai.apiKey is required for the openai backend")
		}
	default:
		return fmt.Errorf("unknown classifier backend %q", c.Classifier.Backend)
	}

	if c.Dashboard.PerPage <= 0 {
		return fmt.Errorf("dashboard.perPage must be positive, got %d", c.Dashboard.PerPage)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 30)
	v.SetDefault("server.bodyLimit", 10485760)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowedOrigins", []string{"*"})

	v.SetDefault("classifier.backend", BackendLocal)
	v.SetDefault("classifier.remote.baseURL", "")
	v.SetDefault("classifier.remote.timeoutSec", 5)
	v.SetDefault("classifier.remote.maxAttempts", 2)
	v.SetDefault("classifier.openai.apiKey", "")
	v.SetDefault("classifier.openai.model", "gpt-4o-mini")
	v.SetDefault("classifier.openai.temperature", 0.0)
	v.SetDefault("classifier.openai.maxTokens", 60)
	v.SetDefault("classifier.openai.timeoutSec", 20)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttlSec", 86400)

	v.SetDefault("dashboard.seedDemo", true)
	v.SetDefault("dashboard.maxUploadBytes", 10485760)
	v.SetDefault("dashboard.perPage", 10)

	v.SetDefault("rateLimit.requestsPerMinute", 120)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputPath", "stdout")
}

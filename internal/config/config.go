package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultVendorBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"
	DefaultTimeout       = 100 * time.Second
	// DefaultProxyURL is where the CLI finds a locally running API server.
	DefaultProxyURL = "http://localhost:8090"
)

type Config struct {
	Server ServerConfig
	Vendor VendorConfig
	Proxy  ProxyConfig
	Redis  RedisConfig
	Cache  CacheConfig
	Logger LoggerConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// AccessKey, when set, guards the proxy endpoint with a bearer key.
	AccessKey string
}

// VendorConfig describes the upstream completion API. The API key only lives here.
type VendorConfig struct {
	Provider       string
	APIKey         string
	BaseURL        string
	MultipleChoice string // model used for multiple-choice generation
	GapFill        string // model used for gap-fill generation
	Temperature    float64
	Timeout        time.Duration
}

// ProxyConfig is what the request protocol client uses to reach /api/generate. An
// empty URL makes the API server generate exercises in-process.
type ProxyConfig struct {
	URL       string
	AccessKey string
	Timeout   time.Duration
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type CacheConfig struct {
	Enabled       bool
	CompletionTTL string
	SubmissionTTL string
}

type LoggerConfig struct {
	Level string
	Env   string
}

func setDefaults() {
	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.read_timeout", 120)
	viper.SetDefault("server.write_timeout", 120)

	viper.SetDefault("vendor.provider", "openai")
	viper.SetDefault("vendor.base_url", DefaultVendorBaseURL)
	viper.SetDefault("vendor.models.multiple_choice", "qwen-plus")
	viper.SetDefault("vendor.models.gap_fill", "qwen-turbo")
	viper.SetDefault("vendor.temperature", 0.7)
	viper.SetDefault("vendor.timeout", 100)

	viper.SetDefault("proxy.url", "")
	viper.SetDefault("proxy.timeout", 100)

	viper.SetDefault("cache.enabled", false)
	viper.SetDefault("cache.completion_ttl", "0s")
	viper.SetDefault("cache.submission_ttl", "30m")

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	setDefaults()
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Running purely from env is fine; a broken file is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := viper.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", absPath)
	}

	config := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  time.Duration(viper.GetInt("server.read_timeout")) * time.Second,
			WriteTimeout: time.Duration(viper.GetInt("server.write_timeout")) * time.Second,
			AccessKey:    viper.GetString("server.access_key"),
		},
		Vendor: VendorConfig{
			Provider:       viper.GetString("vendor.provider"),
			APIKey:         viper.GetString("vendor.api_key"),
			BaseURL:        viper.GetString("vendor.base_url"),
			MultipleChoice: viper.GetString("vendor.models.multiple_choice"),
			GapFill:        viper.GetString("vendor.models.gap_fill"),
			Temperature:    viper.GetFloat64("vendor.temperature"),
			Timeout:        time.Duration(viper.GetInt("vendor.timeout")) * time.Second,
		},
		Proxy: ProxyConfig{
			URL:       viper.GetString("proxy.url"),
			AccessKey: viper.GetString("proxy.access_key"),
			Timeout:   time.Duration(viper.GetInt("proxy.timeout")) * time.Second,
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Cache: CacheConfig{
			Enabled:       viper.GetBool("cache.enabled"),
			CompletionTTL: viper.GetString("cache.completion_ttl"),
			SubmissionTTL: viper.GetString("cache.submission_ttl"),
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
	}

	applyEnvOverrides(config)
	return config, nil
}

// applyEnvOverrides lets the flat env names used by deployments win over the yaml file.
func applyEnvOverrides(config *Config) {
	if key := os.Getenv("DASHSCOPE_API_KEY"); key != "" {
		config.Vendor.APIKey = key
	}
	if key := os.Getenv("VENDOR_API_KEY"); key != "" {
		config.Vendor.APIKey = key
	}
	if baseURL := os.Getenv("VENDOR_BASE_URL"); baseURL != "" {
		config.Vendor.BaseURL = baseURL
	}
	if provider := os.Getenv("VENDOR_PROVIDER"); provider != "" {
		config.Vendor.Provider = provider
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		viper.Set("server.port", port)
		config.Server.Port = viper.GetInt("server.port")
	}
	if accessKey := os.Getenv("ACCESS_KEY"); accessKey != "" {
		config.Server.AccessKey = accessKey
		config.Proxy.AccessKey = accessKey
	}
	if proxyURL := os.Getenv("PROXY_URL"); proxyURL != "" {
		config.Proxy.URL = proxyURL
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if env := os.Getenv("ENV"); env != "" {
		config.Logger.Env = env
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logger.Level = level
	}
}

// ParseTTLStringOrDefault parses a duration string such as "30m", falling back to def
// when the string is empty or malformed.
func (c *Config) ParseTTLStringOrDefault(ttl string, def time.Duration) time.Duration {
	if ttl == "" {
		return def
	}
	d, err := time.ParseDuration(ttl)
	if err != nil || d < 0 {
		return def
	}
	return d
}

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
	} `yaml:"redis"`
	Warehouse struct {
		Type             string        `yaml:"type"` // "clickhouse" or "memory"
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"warehouse"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		MaxAttempts  int      `yaml:"max_attempts"`
	} `yaml:"kafka"`
	PriceFeed struct {
		BaseURL       string        `yaml:"base_url"`
		APIKey        string        `yaml:"api_key"`
		QuoteCurrency string        `yaml:"quote_currency"`
		Timeout       time.Duration `yaml:"timeout"`
	} `yaml:"price_feed"`
	NewsFeed struct {
		BaseURL string        `yaml:"base_url"`
		APIKey  string        `yaml:"api_key"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"news_feed"`
	Watchlist struct {
		Defaults       []string      `yaml:"defaults"`
		RemovalHoldoff time.Duration `yaml:"removal_holdoff"`
		SyncInterval   time.Duration `yaml:"sync_interval"`
	} `yaml:"watchlist"`
	Views struct {
		OverviewInterval time.Duration `yaml:"overview_interval"`
		SignalsInterval  time.Duration `yaml:"signals_interval"`
		NewsInterval     time.Duration `yaml:"news_interval"`
	} `yaml:"views"`
	Collector struct {
		Schedule        string   `yaml:"schedule"` // cron spec, empty disables
		Symbols         []string `yaml:"symbols"`
		Timeframe       string   `yaml:"timeframe"`
		CollectNews     bool     `yaml:"collect_news"`
		GenerateSignals bool     `yaml:"generate_signals"`
	} `yaml:"collector"`
	Virtual struct {
		InitialBalance float64 `yaml:"initial_balance"`
		FeeRate        float64 `yaml:"fee_rate"`
	} `yaml:"virtual"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PRICEFEED_API_KEY"); v != "" {
		c.PriceFeed.APIKey = v
	}
	if v := os.Getenv("NEWSFEED_API_KEY"); v != "" {
		c.NewsFeed.APIKey = v
	}
	if v := os.Getenv("WATCHLIST_SYMBOLS"); v != "" {
		c.Watchlist.Defaults = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port := splitHostPort(v, c.Redis.Port)
		c.Redis.Host = host
		c.Redis.Port = port
		c.Redis.Enabled = true
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = "coindeck"
	}
	if c.Warehouse.Type == "" {
		c.Warehouse.Type = "memory"
	}
	if c.PriceFeed.QuoteCurrency == "" {
		c.PriceFeed.QuoteCurrency = "USDT"
	}
	if c.PriceFeed.Timeout == 0 {
		c.PriceFeed.Timeout = 10 * time.Second
	}
	if c.NewsFeed.Timeout == 0 {
		c.NewsFeed.Timeout = 10 * time.Second
	}
	if len(c.Watchlist.Defaults) == 0 {
		c.Watchlist.Defaults = []string{"BTC/USDT", "ETH/USDT", "SOL/USDT"}
	}
	if c.Watchlist.RemovalHoldoff == 0 {
		c.Watchlist.RemovalHoldoff = 5 * time.Second
	}
	if c.Watchlist.SyncInterval == 0 {
		c.Watchlist.SyncInterval = 2 * time.Second
	}
	if c.Views.OverviewInterval == 0 {
		c.Views.OverviewInterval = 30 * time.Second
	}
	if c.Views.SignalsInterval == 0 {
		c.Views.SignalsInterval = 60 * time.Second
	}
	if c.Views.NewsInterval == 0 {
		c.Views.NewsInterval = 60 * time.Second
	}
	if c.Collector.Timeframe == "" {
		c.Collector.Timeframe = "1d"
	}
	if c.Virtual.InitialBalance == 0 {
		c.Virtual.InitialBalance = 10000
	}
	if c.Virtual.FeeRate == 0 {
		c.Virtual.FeeRate = 0.001
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Warehouse.Type != "clickhouse" && c.Warehouse.Type != "memory" {
		return fmt.Errorf("warehouse.type must be 'clickhouse' or 'memory', got '%s'", c.Warehouse.Type)
	}
	if c.Warehouse.Type == "clickhouse" && c.Warehouse.Host == "" {
		return fmt.Errorf("warehouse.host is required for clickhouse")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.PriceFeed.BaseURL == "" {
		return fmt.Errorf("price_feed.base_url is required")
	}
	return nil
}

func splitHostPort(addr string, defPort int) (string, int) {
	host := addr
	port := defPort
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		host = addr[:i]
		if p := addr[i+1:]; p != "" {
			fmt.Sscanf(p, "%d", &port)
		}
	}
	if port == 0 {
		port = 6379
	}
	return host, port
}

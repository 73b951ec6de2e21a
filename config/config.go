package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	WatermarkBackendRedis = "redis"
	WatermarkBackendBolt  = "bolt"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Booking  BookingConfig  `yaml:"booking"`
	Search   SearchConfig   `yaml:"search"`
	Stats    StatsConfig    `yaml:"stats"`
	Worker   WorkerConfig   `yaml:"worker"`
	Log      LogConfig      `yaml:"log"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	TicketEventsTopic  string   `yaml:"ticket_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type BookingConfig struct {
	FlightsCacheTTL   int `yaml:"flights_cache_ttl_seconds"`
	RefundWindowHours int `yaml:"refund_window_hours"`
	MaxPassengers     int `yaml:"max_passengers"`
}

func (b BookingConfig) CacheTTL() time.Duration {
	return time.Duration(b.FlightsCacheTTL) * time.Second
}

func (b BookingConfig) RefundWindow() time.Duration {
	return time.Duration(b.RefundWindowHours) * time.Hour
}

type SearchConfig struct {
	PageSize int `yaml:"page_size"`
}

type StatsConfig struct {
	DisplayDays      int    `yaml:"display_days"`
	TopN             int    `yaml:"top_n"`
	Timezone         string `yaml:"timezone"`
	WatermarkBackend string `yaml:"watermark_backend"`
	BoltPath         string `yaml:"bolt_path"`
}

// Location resolves the reporting time zone. An empty or unknown zone falls
// back to the process local zone.
func (s StatsConfig) Location() *time.Location {
	if s.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

type WorkerConfig struct {
	CacheRefreshMinutes int `yaml:"cache_refresh_minutes"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.Booking.FlightsCacheTTL <= 0 {
		c.Booking.FlightsCacheTTL = 60
	}
	if c.Booking.RefundWindowHours <= 0 {
		c.Booking.RefundWindowHours = 24
	}
	if c.Booking.MaxPassengers <= 0 {
		c.Booking.MaxPassengers = 9
	}
	if c.Search.PageSize <= 0 {
		c.Search.PageSize = 5
	}
	if c.Stats.DisplayDays <= 0 {
		c.Stats.DisplayDays = 14
	}
	if c.Stats.TopN <= 0 {
		c.Stats.TopN = 5
	}
	if c.Stats.WatermarkBackend == "" {
		c.Stats.WatermarkBackend = WatermarkBackendRedis
	}
	if c.Stats.BoltPath == "" {
		c.Stats.BoltPath = "watermarks.db"
	}
	if c.Worker.CacheRefreshMinutes <= 0 {
		c.Worker.CacheRefreshMinutes = 5
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) validate() error {
	switch c.Stats.WatermarkBackend {
	case WatermarkBackendRedis, WatermarkBackendBolt:
	default:
		return fmt.Errorf("unknown watermark backend %q", c.Stats.WatermarkBackend)
	}
	return nil
}

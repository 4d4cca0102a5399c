package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Pricing  PricingConfig  `yaml:"pricing"`
	Gateway  GatewayConfig  `yaml:"gateway"`
	Cache    CacheConfig    `yaml:"cache"`
	Worker   WorkerConfig   `yaml:"worker"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type HTTPConfig struct {
	Address    string `yaml:"address"`
	SwaggerDir string `yaml:"swagger_dir"`
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
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

// PricingConfig holds the tiered per-kg rates and the platform fee.
// Rates are cents per kg; the engine receives this as a value object
// rather than reading shared mutable settings.
type PricingConfig struct {
	Tier1MaxKg          float64 `yaml:"tier1_max_kg"`
	Tier1RateCentsPerKg int64   `yaml:"tier1_rate_cents_per_kg"`
	Tier2MaxKg          float64 `yaml:"tier2_max_kg"`
	Tier2RateCentsPerKg int64   `yaml:"tier2_rate_cents_per_kg"`
	Tier3RateCentsPerKg int64   `yaml:"tier3_rate_cents_per_kg"`
	PlatformFeePercent  float64 `yaml:"platform_fee_percent"`
}

type GatewayConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	WebhookSecret  string `yaml:"webhook_secret"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type CacheConfig struct {
	ItinerariesTTLSeconds int `yaml:"itineraries_ttl_seconds"`
	WebhookDedupTTLHours  int `yaml:"webhook_dedup_ttl_hours"`
}

type WorkerConfig struct {
	CompletionSweepCron string `yaml:"completion_sweep_cron"`
}

type LoggingConfig struct {
	Directory string `yaml:"directory"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

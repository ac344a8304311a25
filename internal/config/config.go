// Package config loads service settings by layering defaults, an optional
// YAML file, and STORMRANK_-prefixed environment variables.
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all service settings.
type Config struct {
	KafkaBrokers     []string `koanf:"brokers"`
	KafkaSourceTopic string   `koanf:"source_topic"`
	KafkaSinkTopic   string   `koanf:"sink_topic"`
	KafkaGroupID     string   `koanf:"group_id"`
	HTTPAddr         string   `koanf:"http_addr"`
	LogLevel         string   `koanf:"log_level"`
	LogFormat        string   `koanf:"log_format"`

	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	BatchSize       int           `koanf:"batch_size"`
	FlushInterval   time.Duration `koanf:"flush_interval"`

	// TopK sets how many leading categories per metric anchor the
	// dominance threshold in published summaries.
	TopK int `koanf:"top_k"`

	// ClassifierCacheSize bounds the label classification memo cache.
	ClassifierCacheSize int `koanf:"classifier_cache_size"`
}

// Defaults returns a Config populated with development defaults.
func Defaults() *Config {
	return &Config{
		KafkaBrokers:        []string{"localhost:9092"},
		KafkaSourceTopic:    "raw-storm-damage",
		KafkaSinkTopic:      "storm-damage-rankings",
		KafkaGroupID:        "storm-rank",
		HTTPAddr:            ":8080",
		LogLevel:            "info",
		LogFormat:           "json",
		ShutdownTimeout:     10 * time.Second,
		BatchSize:           50,
		FlushInterval:       5 * time.Second,
		TopK:                10,
		ClassifierCacheSize: 1024,
	}
}

// Load builds a Config by layering defaults, an optional YAML file, and
// environment variables. Order of precedence (low -> high):
//  1. Defaults()
//  2. YAML file named by STORMRANK_CONFIG, if set
//  3. environment variables with prefix STORMRANK_ (e.g. STORMRANK_TOP_K)
func Load() (*Config, error) {
	cfg := Defaults()

	k := koanf.New(".")

	if path := os.Getenv("STORMRANK_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// STORMRANK_SOURCE_TOPIC -> source_topic; underscores are preserved to
	// match the koanf tags on the struct.
	envProvider := env.Provider("STORMRANK_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "STORMRANK_"))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	// Brokers arrive as a comma-separated string from the environment.
	if len(cfg.KafkaBrokers) == 1 && strings.Contains(cfg.KafkaBrokers[0], ",") {
		cfg.KafkaBrokers = splitBrokers(cfg.KafkaBrokers[0])
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.KafkaBrokers) == 0 {
		return errors.New("brokers is required")
	}
	if c.KafkaSourceTopic == "" {
		return errors.New("source_topic is required")
	}
	if c.KafkaSinkTopic == "" {
		return errors.New("sink_topic is required")
	}
	if c.BatchSize <= 0 {
		return errors.New("batch_size must be positive")
	}
	if c.FlushInterval <= 0 {
		return errors.New("flush_interval must be positive")
	}
	if c.TopK <= 0 {
		return errors.New("top_k must be positive")
	}
	if c.ClassifierCacheSize <= 0 {
		return errors.New("classifier_cache_size must be positive")
	}
	return nil
}

func splitBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

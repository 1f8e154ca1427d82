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
	Resolver ResolverConfig `yaml:"resolver"`
	Approval ApprovalConfig `yaml:"approval"`
	Worker   WorkerConfig   `yaml:"worker"`
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
	SyncEventsTopic    string   `yaml:"sync_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type ResolverConfig struct {
	PropertiesCacheTTL int `yaml:"properties_cache_ttl_seconds"`
}

type ApprovalConfig struct {
	OptimisticLock        bool `yaml:"optimistic_lock"`
	OptimisticLockRetries int  `yaml:"optimistic_lock_retries"`
	EnableStaffAssignment bool `yaml:"enable_staff_assignment_hook"`
	EnableCalendarEvents  bool `yaml:"enable_calendar_events_hook"`
}

type WorkerConfig struct {
	SyncSweepMinutes int `yaml:"sync_sweep_minutes"`
	SyncSweepBatch   int `yaml:"sync_sweep_batch"`
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

package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Redis        RedisConfig        `toml:"redis"`
	Kafka        KafkaConfig        `toml:"kafka"`
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	SalonService SalonServiceConfig `toml:"salon_service"`
	SMSGateway   SMSGatewayConfig   `toml:"sms_gateway"`
	Reminders    RemindersConfig    `toml:"reminders"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// RedisConfig настройки подключения к Redis (индекс напоминаний)
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// KafkaConfig настройки публикации событий изменения записей.
// Если Enabled = false, планировщик напоминаний вызывается синхронно.
type KafkaConfig struct {
	Enabled bool   `toml:"enabled"`
	Brokers string `toml:"brokers"` // список через запятую
	Topic   string `toml:"topic"`
	GroupID string `toml:"group_id"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// SalonServiceConfig настройки клиента SalonService (справочник салонов)
type SalonServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// SMSGatewayConfig настройки SMS шлюза
type SMSGatewayConfig struct {
	URL     string `toml:"url"`
	Token   string `toml:"token"`
	Timeout int    `toml:"timeout"`
}

// RemindersConfig настройки планировщика и диспетчера напоминаний
type RemindersConfig struct {
	// LeadMinutes за сколько минут до начала записи отправлять напоминание
	LeadMinutes int `toml:"lead_minutes"`
	// DispatchIntervalSeconds период опроса индекса напоминаний
	DispatchIntervalSeconds int `toml:"dispatch_interval_seconds"`
	// SendTimeoutSeconds таймаут одного обращения к SMS шлюзу
	SendTimeoutSeconds int `toml:"send_timeout_seconds"`
}

// Load загружает конфигурацию из TOML файла и применяет значения по умолчанию
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 300
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.ServiceName == "" {
		cfg.Metrics.ServiceName = "appointment-service"
	}
	if cfg.Logs.Level == "" {
		cfg.Logs.Level = "info"
	}
	if cfg.SalonService.Timeout == 0 {
		cfg.SalonService.Timeout = 5
	}
	if cfg.SMSGateway.Timeout == 0 {
		cfg.SMSGateway.Timeout = 10
	}
	if cfg.Reminders.LeadMinutes == 0 {
		cfg.Reminders.LeadMinutes = 120
	}
	if cfg.Reminders.DispatchIntervalSeconds == 0 {
		cfg.Reminders.DispatchIntervalSeconds = 60
	}
	if cfg.Reminders.SendTimeoutSeconds == 0 {
		cfg.Reminders.SendTimeoutSeconds = 10
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "appointments.changed.v1"
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = "appointment-service-reminders"
	}
}

func validate(cfg *Config) error {
	if cfg.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if cfg.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required")
	}
	if cfg.Kafka.Enabled && cfg.Kafka.Brokers == "" {
		return fmt.Errorf("config: kafka.brokers is required when kafka is enabled")
	}
	if cfg.Reminders.LeadMinutes < 0 {
		return fmt.Errorf("config: reminders.lead_minutes must not be negative")
	}
	return nil
}

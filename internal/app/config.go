package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/vladislavdragonenkov/resto/internal/domain"
)

// Config описывает настройки приложения. Источники: переменные окружения с
// префиксом RESTO_ поверх необязательного config-файла.
type Config struct {
	HTTPAddr    string `mapstructure:"http_addr"`
	MetricsAddr string `mapstructure:"metrics_addr"`

	// DatabaseDSN пустой — приложение работает на in-memory хранилище.
	DatabaseDSN string `mapstructure:"database_dsn"`

	KafkaBrokers    []string `mapstructure:"kafka_brokers"`
	KafkaOrderTopic string   `mapstructure:"kafka_order_topic"`

	SMTPAddr    string        `mapstructure:"smtp_addr"`
	SMTPFrom    string        `mapstructure:"smtp_from"`
	MailTimeout time.Duration `mapstructure:"mail_timeout"`

	TokenSecret string        `mapstructure:"token_secret"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`

	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoadConfig читает конфигурацию из окружения и необязательного файла.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RESTO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("metrics_addr", ":9090")
	v.SetDefault("database_dsn", "")
	v.SetDefault("kafka_brokers", []string{})
	v.SetDefault("kafka_order_topic", "resto.order.events")
	v.SetDefault("smtp_addr", "")
	v.SetDefault("smtp_from", "noreply@resto.local")
	v.SetDefault("mail_timeout", 5*time.Second)
	v.SetDefault("token_secret", "")
	v.SetDefault("token_ttl", 24*time.Hour)
	v.SetDefault("shutdown_timeout", 10*time.Second)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate собирает все нарушения в одно сообщение, чтобы оператор увидел
// полный список проблем за один запуск, а не по одной за раз.
func (c Config) Validate() error {
	var violations []string

	if c.HTTPAddr == "" {
		violations = append(violations, "http_addr must not be empty")
	}
	if c.MetricsAddr == "" {
		violations = append(violations, "metrics_addr must not be empty")
	}
	if c.MailTimeout <= 0 {
		violations = append(violations, "mail_timeout must be positive")
	}
	if c.SMTPAddr != "" && c.SMTPFrom == "" {
		violations = append(violations, "smtp_from must be set when smtp_addr is set")
	}
	if c.TokenTTL <= 0 {
		violations = append(violations, "token_ttl must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		violations = append(violations, "shutdown_timeout must be positive")
	}

	if len(violations) > 0 {
		return domain.NewValidation("invalid configuration: " + strings.Join(violations, "; "))
	}
	return nil
}

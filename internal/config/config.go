package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath путь к YAML-конфигу по умолчанию
const DefaultPath = "configs/config.yaml"

// Config содержит конфигурацию сервера
type Config struct {
	Port int `yaml:"port"`

	MinInvestment float64 `yaml:"min_investment"`
	MaxInvestment float64 `yaml:"max_investment"`
	MinReturnRate float64 `yaml:"min_return_rate"`
	MaxReturnRate float64 `yaml:"max_return_rate"`
	MinTimePeriod int     `yaml:"min_time_period"`
	MaxTimePeriod int     `yaml:"max_time_period"`
	MaxBalanceCap float64 `yaml:"max_balance_cap"`

	CurrencySymbol string `yaml:"currency_symbol"`

	DatabaseURL          string `yaml:"database_url"`
	HistoryRetentionDays int    `yaml:"history_retention_days"`
	RetentionCron        string `yaml:"retention_cron"`

	RateLimitPerHour int      `yaml:"rate_limit_per_hour"`
	CORSOrigins      []string `yaml:"cors_origins"`
	MaxBodyBytes     int64    `yaml:"max_body_bytes"`

	OTELEndpoint    string `yaml:"otel_endpoint"`
	OTELServiceName string `yaml:"otel_service_name"`
	LogLevel        string `yaml:"log_level"`
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		Port:             5000,
		MinInvestment:    500,
		MaxInvestment:    100000,
		MinReturnRate:    1.0,
		MaxReturnRate:    25.0,
		MinTimePeriod:    1,
		MaxTimePeriod:    50,
		MaxBalanceCap:    1e12,
		CurrencySymbol:   "₹",
		DatabaseURL:      "sqlite://sip_calculator.db",
		RetentionCron:    "0 0 3 * * *",
		RateLimitPerHour: 1000,
		CORSOrigins:      []string{"*"},
		MaxBodyBytes:     16 << 20,
		OTELServiceName:  "sip-calculator",
		LogLevel:         "INFO",
	}
}

// LoadConfig загружает конфигурацию: значения по умолчанию, затем YAML-файл
// (CONFIG_PATH), затем переменные окружения
func LoadConfig() (*Config, error) {
	// Загружаем .env файл, если он существует (игнорируем ошибку)
	_ = godotenv.Load()

	return Load(getEnvString("CONFIG_PATH", DefaultPath))
}

// Load читает YAML-файл по пути path и применяет переопределения из окружения.
// Отсутствующий файл не является ошибкой.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Port = getEnvInt("PORT", c.Port)
	c.MinInvestment = getEnvFloat("MIN_INVESTMENT", c.MinInvestment)
	c.MaxInvestment = getEnvFloat("MAX_INVESTMENT", c.MaxInvestment)
	c.MinReturnRate = getEnvFloat("MIN_RETURN_RATE", c.MinReturnRate)
	c.MaxReturnRate = getEnvFloat("MAX_RETURN_RATE", c.MaxReturnRate)
	c.MinTimePeriod = getEnvInt("MIN_TIME_PERIOD", c.MinTimePeriod)
	c.MaxTimePeriod = getEnvInt("MAX_TIME_PERIOD", c.MaxTimePeriod)
	c.MaxBalanceCap = getEnvFloat("MAX_BALANCE_CAP", c.MaxBalanceCap)
	c.CurrencySymbol = getEnvString("CURRENCY_SYMBOL", c.CurrencySymbol)
	c.DatabaseURL = getEnvString("DATABASE_URL", c.DatabaseURL)
	c.HistoryRetentionDays = getEnvInt("HISTORY_RETENTION_DAYS", c.HistoryRetentionDays)
	c.RetentionCron = getEnvString("RETENTION_CRON", c.RetentionCron)
	c.RateLimitPerHour = getEnvInt("RATE_LIMIT_PER_HOUR", c.RateLimitPerHour)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitList(v)
	}
	c.MaxBodyBytes = int64(getEnvInt("MAX_BODY_BYTES", int(c.MaxBodyBytes)))
	c.OTELEndpoint = getEnvString("OTEL_ENDPOINT", c.OTELEndpoint)
	c.OTELServiceName = getEnvString("OTEL_SERVICE_NAME", c.OTELServiceName)
	c.LogLevel = getEnvString("LOG_LEVEL", c.LogLevel)
}

// Validate проверяет согласованность границ и лимитов
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be in [1; 65535], got %d", c.Port)
	}
	if c.MinInvestment < 0 || c.MinInvestment > c.MaxInvestment {
		return fmt.Errorf("investment bounds are inconsistent: [%g; %g]", c.MinInvestment, c.MaxInvestment)
	}
	if c.MinReturnRate <= -100 || c.MinReturnRate > c.MaxReturnRate {
		return fmt.Errorf("return rate bounds are inconsistent: [%g; %g]", c.MinReturnRate, c.MaxReturnRate)
	}
	if c.MinTimePeriod < 1 || c.MinTimePeriod > c.MaxTimePeriod {
		return fmt.Errorf("time period bounds are inconsistent: [%d; %d]", c.MinTimePeriod, c.MaxTimePeriod)
	}
	if c.MaxBalanceCap <= 0 {
		return fmt.Errorf("max_balance_cap must be positive")
	}
	if c.RateLimitPerHour < 0 {
		return fmt.Errorf("rate_limit_per_hour must not be negative")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive")
	}
	if c.HistoryRetentionDays < 0 {
		return fmt.Errorf("history_retention_days must not be negative")
	}
	return nil
}

// Addr возвращает адрес для http.Server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// BalanceCap возвращает максимальный баланс для защиты от переполнения
func (c *Config) BalanceCap() float64 {
	return c.MaxBalanceCap
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

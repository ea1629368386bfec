package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Telegram TelegramConfig
	Report   ReportConfig
	Redis    RedisConfig
}

type ServerConfig struct {
	Address string
}

type DatabaseConfig struct {
	Path string
}

type TelegramConfig struct {
	Token       string
	AdminChatID int64
}

type ReportConfig struct {
	BotPhone    string
	Timezone    string
	Location    *time.Location
	TriggerHour int
	TriggerMin  int
	OutputDir   string
	MaxAttempts int
}

type RedisConfig struct {
	Enabled  bool
	Address  string
	Password string
	DB       int
	TTL      time.Duration
}

func LoadAll() (*Config, error) {
	var errs []error

	token, err := requireEnv("BOT_TOKEN")
	if err != nil {
		errs = append(errs, err)
	}
	dbPath, err := requireEnv("DB_PATH")
	if err != nil {
		errs = append(errs, err)
	}
	adminChatID, err := requireEnvInt64("ADMIN_CHAT_ID")
	if err != nil {
		errs = append(errs, err)
	}
	botPhone, err := requireEnv("MAIN_PHONE")
	if err != nil {
		errs = append(errs, err)
	}

	hour, err := getEnvInt("REPORT_HOUR", 9)
	if err != nil {
		errs = append(errs, err)
	}
	minute, err := getEnvInt("REPORT_MINUTE", 5)
	if err != nil {
		errs = append(errs, err)
	}
	attempts, err := getEnvInt("DELIVERY_MAX_ATTEMPTS", 3)
	if err != nil {
		errs = append(errs, err)
	}

	tz := getEnv("REPORT_TIMEZONE", "Asia/Almaty")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid REPORT_TIMEZONE %q: %w", tz, err))
	}

	redisCfg, err := loadRedisConfig()
	if err != nil {
		errs = append(errs, err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Address: getEnv("SERVER_ADDRESS", ":8080"),
		},
		Database: DatabaseConfig{
			Path: dbPath,
		},
		Telegram: TelegramConfig{
			Token:       token,
			AdminChatID: adminChatID,
		},
		Report: ReportConfig{
			BotPhone:    botPhone,
			Timezone:    tz,
			Location:    loc,
			TriggerHour: hour,
			TriggerMin:  minute,
			OutputDir:   getEnv("REPORT_OUTPUT_DIR", os.TempDir()),
			MaxAttempts: attempts,
		},
		Redis: redisCfg,
	}

	errs = append(errs, validate(cfg)...)

	if err := joinErrors(errs); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadRedisConfig() (RedisConfig, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return RedisConfig{Enabled: false}, nil
	}

	var errs []error
	db, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		errs = append(errs, err)
	}
	ttl, err := getEnvInt("REDIS_TTL_SECONDS", 172800)
	if err != nil {
		errs = append(errs, err)
	}

	cfg := RedisConfig{
		Enabled:  true,
		Address:  addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
		TTL:      time.Duration(ttl) * time.Second,
	}
	return cfg, joinErrors(errs)
}

func validate(cfg *Config) []error {
	var errs []error
	if cfg.Report.TriggerHour < 0 || cfg.Report.TriggerHour > 23 {
		errs = append(errs, fmt.Errorf("REPORT_HOUR must be in [0,23], got %d", cfg.Report.TriggerHour))
	}
	if cfg.Report.TriggerMin < 0 || cfg.Report.TriggerMin > 59 {
		errs = append(errs, fmt.Errorf("REPORT_MINUTE must be in [0,59], got %d", cfg.Report.TriggerMin))
	}
	if cfg.Report.MaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("DELIVERY_MAX_ATTEMPTS must be > 0, got %d", cfg.Report.MaxAttempts))
	}
	return errs
}

func requireEnv(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("missing required env var: %s", key)
	}
	return val, nil
}

func requireEnvInt64(key string) (int64, error) {
	raw, err := requireEnv(key)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid int64 for env %s: %s", key, raw)
	}
	return v, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid int for env %s: %s", key, v)
	}
	return i, nil
}

func joinErrors(errs []error) error {
	return errors.Join(errs...)
}

// Package config читает настройки сервера из файла, переменных окружения и флагов.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"lrukv/internal/logging"
)

const (
	EnvPrefix = "LRUKV"
	FileName  = "lrukv"
)

// Ключи viper. Флаги командной строки привязываются к тем же ключам.
const (
	KeyAddr          = "addr"
	KeyMaxSize       = "max_size"
	KeyIdleTimeout   = "idle_timeout"
	KeyReadBuffer    = "read_buffer"
	KeyMaxClients    = "max_clients"
	KeyStatsInterval = "stats_interval"
	KeyLogLevel      = "log.level"
	KeyLogFormat     = "log.format"
)

// Config — настройки процесса lrukv.
type Config struct {
	Addr          string        `mapstructure:"addr"`
	MaxSize       int           `mapstructure:"max_size"`
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`
	ReadBuffer    int           `mapstructure:"read_buffer"`
	MaxClients    int           `mapstructure:"max_clients"`    // 0 = без лимита
	StatsInterval time.Duration `mapstructure:"stats_interval"` // 0 = без отчётов
	Log           LogConfig     `mapstructure:"log"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Default возвращает настройки по умолчанию.
func Default() Config {
	return Config{
		Addr:        ":6379",
		MaxSize:     100,
		IdleTimeout: 300 * time.Second,
		ReadBuffer:  64 * 1024,
		Log: LogConfig{
			Level:  "info",
			Format: logging.FormatConsole,
		},
	}
}

// Loader собирает Config из нескольких источников.
// Приоритет: флаги, окружение LRUKV_*, файл, значения по умолчанию.
type Loader struct {
	v *viper.Viper
}

func NewLoader() *Loader {
	v := viper.New()

	v.SetConfigName(FileName)
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, FileName))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return &Loader{v: v}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyAddr, d.Addr)
	v.SetDefault(KeyMaxSize, d.MaxSize)
	v.SetDefault(KeyIdleTimeout, d.IdleTimeout)
	v.SetDefault(KeyReadBuffer, d.ReadBuffer)
	v.SetDefault(KeyMaxClients, d.MaxClients)
	v.SetDefault(KeyStatsInterval, d.StatsInterval)
	v.SetDefault(KeyLogLevel, d.Log.Level)
	v.SetDefault(KeyLogFormat, d.Log.Format)
}

// Viper отдаёт внутренний экземпляр для привязки флагов.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load читает настройки. file — явный путь к файлу конфигурации;
// если он пуст, файл ищется в текущем каталоге и в $XDG_CONFIG_HOME/lrukv,
// и его отсутствие не ошибка.
func (l *Loader) Load(file string) (*Config, error) {
	if file != "" {
		l.v.SetConfigFile(file)
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// FileUsed возвращает путь прочитанного файла или пустую строку.
func (l *Loader) FileUsed() string {
	return l.v.ConfigFileUsed()
}

// Validate проверяет значения, которые сервер не может исправить сам.
func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if c.MaxSize < 1 {
		errs = append(errs, fmt.Errorf("max_size must be >= 1, got %d", c.MaxSize))
	}
	if c.ReadBuffer < 1 {
		errs = append(errs, fmt.Errorf("read_buffer must be >= 1, got %d", c.ReadBuffer))
	}
	if c.IdleTimeout < 0 {
		errs = append(errs, fmt.Errorf("idle_timeout must not be negative, got %s", c.IdleTimeout))
	}
	if c.MaxClients < 0 {
		errs = append(errs, fmt.Errorf("max_clients must not be negative, got %d", c.MaxClients))
	}
	if c.StatsInterval < 0 {
		errs = append(errs, fmt.Errorf("stats_interval must not be negative, got %s", c.StatsInterval))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Logging переводит секцию log в настройки логгера. Вызывать после Validate.
func (c *Config) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	if lvl, err := logging.ParseLevel(c.Log.Level); err == nil {
		cfg.Level = lvl
	}
	if f, err := logging.ParseFormat(c.Log.Format); err == nil {
		cfg.Format = f
	}
	return cfg
}

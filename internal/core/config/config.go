package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultPath = "./configs/config.local.yaml"

type HTTP struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeoutSec  int    `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec int    `mapstructure:"write_timeout_sec"`
	IdleTimeoutSec  int    `mapstructure:"idle_timeout_sec"`
	BasePath        string `mapstructure:"base_path"`
}

type App struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"` // dev / prod，prod 下 gin 走 release 模式
	HTTP HTTP   `mapstructure:"http"`
}

type Rotate struct {
	Enable     bool   `mapstructure:"enable"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	JSON   bool   `mapstructure:"json"`
	Rotate Rotate `mapstructure:"rotate"`
}

type Limits struct {
	RPS           float64 `mapstructure:"rps"`
	Burst         int     `mapstructure:"burst"`
	PerIPRPS      float64 `mapstructure:"per_ip_rps"`
	PerIPBurst    int     `mapstructure:"per_ip_burst"`
	MaxConcurrent int64   `mapstructure:"max_concurrent"`
	MaxBodyBytes  int64   `mapstructure:"max_body_bytes"`
	TimeoutSec    int     `mapstructure:"timeout_sec"`
}

func (l Limits) Timeout() time.Duration { return time.Duration(l.TimeoutSec) * time.Second }

type User struct {
	ReadMode   string `mapstructure:"read_mode"` // store / stub
	BcryptCost int    `mapstructure:"bcrypt_cost"`
}

type Config struct {
	App    App    `mapstructure:"app"`
	Log    Log    `mapstructure:"log"`
	Limits Limits `mapstructure:"limits"`
	User   User   `mapstructure:"user"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "petstore-user")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.read_timeout_sec", 5)
	v.SetDefault("app.http.write_timeout_sec", 10)
	v.SetDefault("app.http.idle_timeout_sec", 60)
	v.SetDefault("app.http.base_path", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.rotate.enable", false)
	v.SetDefault("log.rotate.filename", "logs/app.log")
	v.SetDefault("log.rotate.max_size_mb", 100)
	v.SetDefault("log.rotate.max_backups", 7)
	v.SetDefault("log.rotate.max_age_days", 30)
	v.SetDefault("log.rotate.compress", true)

	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.per_ip_rps", 0)
	v.SetDefault("limits.per_ip_burst", 0)
	v.SetDefault("limits.max_concurrent", 300)
	v.SetDefault("limits.max_body_bytes", 1<<20)
	v.SetDefault("limits.timeout_sec", 10)

	v.SetDefault("user.read_mode", "store")
	v.SetDefault("user.bcrypt_cost", 10)
}

// Load 读取 yaml + APP_ 前缀环境变量（如 APP_USER_READ_MODE）。
// path 为空时依次尝试 CONFIG_PATH 与默认路径，默认文件不存在只用默认值。
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := true
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path, explicit = defaultPath, false
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &c, nil
}

// bcrypt 允许的 cost 范围（与 bcrypt.MinCost / bcrypt.MaxCost 一致）
const (
	minBcryptCost = 4
	maxBcryptCost = 31
)

// validate 零值或越界的限流/超时参数会让所有请求失败，启动时直接拒绝
func (c *Config) validate() error {
	l := c.Limits
	switch {
	case l.TimeoutSec <= 0:
		return fmt.Errorf("limits.timeout_sec must be > 0, got %d", l.TimeoutSec)
	case l.MaxConcurrent <= 0:
		return fmt.Errorf("limits.max_concurrent must be > 0, got %d", l.MaxConcurrent)
	case l.MaxBodyBytes <= 0:
		return fmt.Errorf("limits.max_body_bytes must be > 0, got %d", l.MaxBodyBytes)
	case l.RPS <= 0:
		return fmt.Errorf("limits.rps must be > 0, got %v", l.RPS)
	case l.Burst <= 0:
		return fmt.Errorf("limits.burst must be > 0, got %d", l.Burst)
	case l.PerIPRPS > 0 && l.PerIPBurst <= 0:
		return fmt.Errorf("limits.per_ip_burst must be > 0 when per_ip_rps is set, got %d", l.PerIPBurst)
	case c.User.BcryptCost < minBcryptCost || c.User.BcryptCost > maxBcryptCost:
		return fmt.Errorf("user.bcrypt_cost must be in [%d, %d], got %d", minBcryptCost, maxBcryptCost, c.User.BcryptCost)
	}
	return nil
}

// GinMode prod 环境关闭 gin 调试输出
func (c *Config) GinMode() string {
	if strings.EqualFold(c.App.Env, "prod") {
		return "release"
	}
	return "debug"
}

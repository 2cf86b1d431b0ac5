package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type HTTP struct {
	Addr string `yaml:"addr"`
}

type WS struct {
	PingInterval string `yaml:"pingInterval"` // default 15s
}

type Signaling struct {
	TTL        string `yaml:"ttl"`        // default 10m
	MaxClients int    `yaml:"maxClients"` // default 10
}

type Relay struct {
	URL   string `yaml:"url"`   // base URL of the SFU API
	AppID string `yaml:"appId"` // SFU application id
	Token string `yaml:"token"` // bearer token; RELAY_TOKEN env wins if set
}

type Auth struct {
	URL string `yaml:"url"` // credential validation endpoint; empty = gate disabled
}

type Logging struct {
	Env       string `yaml:"env"`       // dev|prod
	Service   string `yaml:"service"`   // sync-service
	Version   string `yaml:"version"`   // v0.1.0
	Backend   string `yaml:"backend"`   // std|zap
	AddSource bool   `yaml:"addSource"` // false|true
	Debug     bool   `yaml:"debug"`     // false|true
}

type Postgres struct {
	DSN string `yaml:"dsn"` // empty = character store disabled
}

type Config struct {
	HTTP      HTTP      `yaml:"http"`
	WS        WS        `yaml:"ws"`
	Signaling Signaling `yaml:"signaling"`
	Relay     Relay     `yaml:"relay"`
	Auth      Auth      `yaml:"auth"`
	Logging   Logging   `yaml:"logging"`
	Postgres  Postgres  `yaml:"postgres"`
}

func LoadConfig() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.HTTP.Addr == "" {
		return errors.New("http.addr is required")
	}
	// установка дефолтов, если значения не указаны
	if c.Logging.Service == "" {
		c.Logging.Service = "sync-service"
	}
	if c.Logging.Env == "" {
		c.Logging.Env = "dev"
	}
	if c.Logging.Version == "" {
		c.Logging.Version = "v0.1.0"
	}
	if c.Logging.Backend == "" {
		c.Logging.Backend = "std"
	}
	if c.Signaling.MaxClients <= 0 {
		c.Signaling.MaxClients = 10
	}
	// токен relay можно переопределить через окружение
	if t := os.Getenv("RELAY_TOKEN"); t != "" {
		c.Relay.Token = t
	}
	return nil
}

// PingInterval возвращает интервал ping-ов для WS соединений.
func (c *Config) PingInterval() time.Duration {
	return parseDurationOr(15*time.Second, c.WS.PingInterval)
}

// SignalingTTL возвращает время жизни записи в signaling-директории.
func (c *Config) SignalingTTL() time.Duration {
	return parseDurationOr(10*time.Minute, c.Signaling.TTL)
}

// helper для парсинга timeout-ов
func parseDurationOr(def time.Duration, s string) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return def
}

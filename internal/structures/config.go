package structures

import "time"

type Server struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host" validate:"required"`
	Port    int    `yaml:"port" validate:"required|uint|min:1"`
}

type BotConfig struct {
	Token       string        `yaml:"token" validate:"required"`
	SourceGroup string        `yaml:"sourceGroup" validate:"required"`
	AdminIDs    []int64       `yaml:"adminIds" validate:"required"`
	PollTimeout time.Duration `yaml:"pollTimeout"`
}

type Persistence struct {
	Driver        string `yaml:"driver" validate:"required|in:file,redis"`
	FilePath      string `yaml:"filePath"`
	Compress      bool   `yaml:"compress"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisKey      string `yaml:"redisKey"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type RateLimitConfig struct {
	Enabled bool          `yaml:"enabled"`
	Limit   int           `yaml:"limit"`
	Window  time.Duration `yaml:"window"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Bot         BotConfig       `yaml:"bot"`
	WebServer   Server          `yaml:"webServer"`
	Persistence Persistence     `yaml:"persistence"`
	Logger      LoggerConfig    `yaml:"logger"`
	Cache       CacheConfig     `yaml:"cache"`
	Metrics     MetricsConfig   `yaml:"metrics"`
	RateLimit   RateLimitConfig `yaml:"rateLimit"`
}

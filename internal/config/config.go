package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Telegram struct {
		Token       string `yaml:"token"`
		Debug       bool   `yaml:"debug"`
		PollTimeout int    `yaml:"poll_timeout"`
	} `yaml:"telegram"`
	Admins []int64 `yaml:"admins"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		TTL             string   `yaml:"ttl"`
		SessionTTL      string   `yaml:"session_ttl"`
		MaxQuestions    int      `yaml:"max_questions"`
		PointsPerAnswer int      `yaml:"points_per_answer"`
		FeedbackPause   string   `yaml:"feedback_pause"`
		Subjects        []string `yaml:"subjects"`
	} `yaml:"quiz"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
	Broadcast struct {
		Concurrency int     `yaml:"concurrency"`
		Rate        float64 `yaml:"rate"`
	} `yaml:"broadcast"`
}

// Load reads YAML config from path, then applies environment overrides.
// A missing file is not an error: the bot can run from the environment alone.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return cfg, err
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("BOT_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	if v := getenv("DATABASE_URL"); v != "" {
		c.Postgres.URL = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := getenv("ADMIN_IDS"); v != "" {
		ids, err := ParseIDs(v)
		if err != nil {
			return fmt.Errorf("ADMIN_IDS: %w", err)
		}
		c.Admins = ids
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Telegram.PollTimeout <= 0 {
		c.Telegram.PollTimeout = 60
	}
	if c.Quiz.MaxQuestions <= 0 {
		c.Quiz.MaxQuestions = 10
	}
	if c.Quiz.PointsPerAnswer <= 0 {
		c.Quiz.PointsPerAnswer = 10
	}
	if len(c.Quiz.Subjects) == 0 {
		c.Quiz.Subjects = []string{"physics", "mathematics"}
	}
	if c.Broadcast.Concurrency <= 0 {
		c.Broadcast.Concurrency = 8
	}
	if c.Broadcast.Rate <= 0 {
		c.Broadcast.Rate = 25
	}
}

// ParseIDs parses a comma separated list of Telegram ids.
func ParseIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

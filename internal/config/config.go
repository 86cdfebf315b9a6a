package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config covers both binaries: the game session server and the
// leaderboard service. Missing fields fall back to defaults, so an empty
// file (or no file at all) is a fully playable setup.
type Config struct {
	Game        GameConfig        `yaml:"game" json:"game"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard" json:"leaderboard"`
}

type GameConfig struct {
	Addr        string          `yaml:"addr" json:"addr"`
	DataDir     string          `yaml:"data_dir" json:"data_dir"`
	APIBase     string          `yaml:"api_base" json:"api_base"`
	CatalogPath string          `yaml:"catalog_path" json:"catalog_path"`
	SyncTimeout time.Duration   `yaml:"sync_timeout" json:"sync_timeout"`
	RateLimit   RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`
	Ticks       TickConfig      `yaml:"ticks" json:"ticks"`
}

type RateLimitConfig struct {
	CPM    int           `yaml:"cpm" json:"cpm"`
	Window time.Duration `yaml:"window" json:"window"`
}

type TickConfig struct {
	Income   time.Duration `yaml:"income" json:"income"`
	Autosave time.Duration `yaml:"autosave" json:"autosave"`
	Sweep    time.Duration `yaml:"sweep" json:"sweep"`
}

type LeaderboardConfig struct {
	Addr   string `yaml:"addr" json:"addr"`
	DBPath string `yaml:"db_path" json:"db_path"`
	TopN   int    `yaml:"top_n" json:"top_n"`
}

func (c *GameConfig) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.APIBase == "" {
		c.APIBase = "http://localhost:3001/api"
	}
	if c.SyncTimeout <= 0 {
		c.SyncTimeout = 3 * time.Second
	}
	if c.RateLimit.CPM <= 0 {
		c.RateLimit.CPM = 700
	}
	if c.RateLimit.Window <= 0 {
		c.RateLimit.Window = 3 * time.Second
	}
	if c.Ticks.Income <= 0 {
		c.Ticks.Income = time.Second
	}
	if c.Ticks.Autosave <= 0 {
		c.Ticks.Autosave = 5 * time.Second
	}
	if c.Ticks.Sweep <= 0 {
		c.Ticks.Sweep = 100 * time.Millisecond
	}
}

func (c *LeaderboardConfig) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = ":3001"
	}
	if c.DBPath == "" {
		c.DBPath = "data/leaderboard.db"
	}
	if c.TopN <= 0 {
		c.TopN = 50
	}
}

func (c *Config) ApplyDefaults() {
	c.Game.ApplyDefaults()
	c.Leaderboard.ApplyDefaults()
}

// Load reads a yaml config file. A missing file is fine: defaults apply.
func Load(path string) (*Config, error) {
	var r Config
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			r.ApplyDefaults()
			return &r, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	r.ApplyDefaults()
	return &r, nil
}

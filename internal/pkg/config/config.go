package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Dashboard DashboardConfig `yaml:"dashboard"`
	Sources   SourcesConfig   `yaml:"sources"`
	Snapshot  SnapshotConfig  `yaml:"snapshot"`
	Model     ModelConfig     `yaml:"model"`
	Edge      EdgeConfig      `yaml:"edge"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type DashboardConfig struct {
	Port              int           `yaml:"port"`
	RefreshInterval   time.Duration `yaml:"refresh_interval"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
}

type SourcesConfig struct {
	// Order lists prop sources tried first to last; an adapter is only
	// invoked when every earlier one came back below min_rows.
	Order      []string          `yaml:"order"`
	MinRows    int               `yaml:"min_rows"`
	Timeout    time.Duration     `yaml:"timeout"`
	UserAgent  string            `yaml:"user_agent"`
	Headers    map[string]string `yaml:"headers"`
	Schedule   ScheduleConfig    `yaml:"schedule"`
	OddsAPI    OddsAPIConfig     `yaml:"oddsapi"`
	PrizePicks PrizePicksConfig  `yaml:"prizepicks"`
	FanDuel    FanDuelConfig     `yaml:"fanduel"`
	GameLog    GameLogConfig     `yaml:"gamelog"`
}

type ScheduleConfig struct {
	BaseURL  string        `yaml:"base_url"`
	LeagueID string        `yaml:"league_id"`
	Timeout  time.Duration `yaml:"timeout"`
}

type OddsAPIConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Regions string        `yaml:"regions"`
	Markets []string      `yaml:"markets"`
	Timeout time.Duration `yaml:"timeout"`
}

type PrizePicksConfig struct {
	BaseURL  string        `yaml:"base_url"`
	LeagueID string        `yaml:"league_id"`
	Timeout  time.Duration `yaml:"timeout"`
}

type FanDuelConfig struct {
	BaseURL     string        `yaml:"base_url"`
	PropsPath   string        `yaml:"props_path"`
	Timeout     time.Duration `yaml:"timeout"`
	RenderWait  time.Duration `yaml:"render_wait"`  // extra wait for the DOM to settle
	UseBrowser  bool          `yaml:"use_browser"`  // false = plain HTTP GET of props_path
	MaxAttempts int           `yaml:"max_attempts"` // page-load retries, default 2
}

type GameLogConfig struct {
	BaseURL    string        `yaml:"base_url"`
	Season     string        `yaml:"season"` // "2024-25"
	MaxGames   int           `yaml:"max_games"`
	Timeout    time.Duration `yaml:"timeout"`
	BatchDelay time.Duration `yaml:"batch_delay"` // pause between per-player requests
}

type SnapshotConfig struct {
	Dir string        `yaml:"dir"`
	TTL time.Duration `yaml:"ttl"` // 0 = never expires
}

type ModelConfig struct {
	ShortWindow  int  `yaml:"short_window"`   // default 5
	LongWindow   int  `yaml:"long_window"`    // default 10
	MinTrainRows int  `yaml:"min_train_rows"` // below this, fall back to window mean
	UseBaseline  bool `yaml:"use_baseline"`   // line+noise stub, plumbing checks only
}

type EdgeConfig struct {
	EVScale        float64       `yaml:"ev_scale"`         // default 1.5
	MinEdgePercent float64       `yaml:"min_edge_percent"` // hide edges below this
	AlertThreshold float64       `yaml:"alert_threshold"`  // Telegram alert above this edge %
	AlertCooldown  time.Duration `yaml:"alert_cooldown"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // text|json
}

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	config.applyDefaults()
	config.applyEnvOverrides()

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Dashboard.Port <= 0 {
		c.Dashboard.Port = 8080
	}
	if c.Dashboard.RefreshInterval <= 0 {
		c.Dashboard.RefreshInterval = 5 * time.Minute
	}
	if c.Dashboard.ReadHeaderTimeout <= 0 {
		c.Dashboard.ReadHeaderTimeout = 10 * time.Second
	}
	if len(c.Sources.Order) == 0 {
		c.Sources.Order = []string{"fanduel", "oddsapi", "prizepicks"}
	}
	if c.Sources.MinRows <= 0 {
		c.Sources.MinRows = 1
	}
	if c.Sources.Timeout <= 0 {
		c.Sources.Timeout = 15 * time.Second
	}
	if c.Sources.GameLog.MaxGames <= 0 {
		c.Sources.GameLog.MaxGames = 20
	}
	if c.Sources.FanDuel.MaxAttempts <= 0 {
		c.Sources.FanDuel.MaxAttempts = 2
	}
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = "data"
	}
	if c.Model.ShortWindow <= 0 {
		c.Model.ShortWindow = 5
	}
	if c.Model.LongWindow <= 0 {
		c.Model.LongWindow = 10
	}
	if c.Model.MinTrainRows <= 0 {
		c.Model.MinTrainRows = 8
	}
	if c.Edge.EVScale <= 0 {
		c.Edge.EVScale = 1.5
	}
	if c.Edge.AlertCooldown <= 0 {
		c.Edge.AlertCooldown = time.Hour
	}
}

// applyEnvOverrides lets secrets come from the environment instead of the
// config file. cmd binaries load .env first, so both paths end up here.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ODDS_API_KEY"); v != "" {
		c.Sources.OddsAPI.APIKey = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		c.Postgres.DSN = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
}

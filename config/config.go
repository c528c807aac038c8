// Package config loads process configuration from TOML, mirroring
// wsnet2's config package (config.GameConf, config.LobbyConf, config.ClientConf
// loaded from TOML files and threaded into Room/RoomService constructors).
package config

import (
	"time"

	"github.com/pelletier/go-toml"
	"golang.org/x/xerrors"
)

// RoomDefaults are the Settings bounds and defaults applied when a room is
// created and when UPDATE_SETTINGS patches are validated (spec §3 Settings).
type RoomDefaults struct {
	MatchDurationSec  int    `toml:"match_duration_sec"`
	PlayerCap         int    `toml:"player_cap"`
	StackLimit        int    `toml:"stack_limit"`
	StartingQueued    int    `toml:"starting_queued"`
	DifficultyProfile string `toml:"difficulty_profile"`
	AttackIntensity   string `toml:"attack_intensity"`
}

// JudgeConf configures the judge HTTP client (spec §4.8).
type JudgeConf struct {
	BaseURL        string        `toml:"base_url"`
	ConnectTimeout time.Duration `toml:"connect_timeout"`
	CacheTTL       time.Duration `toml:"cache_ttl"`
}

// DBConf configures the Results Store connection (spec §6 persisted state).
type DBConf struct {
	DSN string `toml:"dsn"`
}

// ShopConf carries the single documented open-question feature flag
// (§10.1): whether skipProblem may be purchased below cost.
type ShopConf struct {
	AllowNegativeSkip bool `toml:"allow_negative_skip"`
}

// Config is the top-level process configuration.
type Config struct {
	ListenAddr   string       `toml:"listen_addr"`
	LogLevel     string       `toml:"log_level"`
	LogFile      string       `toml:"log_file"`
	RoomDefaults RoomDefaults `toml:"room_defaults"`
	Judge        JudgeConf    `toml:"judge"`
	DB           DBConf       `toml:"db"`
	Shop         ShopConf     `toml:"shop"`
}

// Default returns a Config with spec-compliant defaults (spec §3 bounds,
// §4.8 cache TTL, §9 decision on the negative-skip flag).
func Default() Config {
	return Config{
		ListenAddr: ":8000",
		LogLevel:   "info",
		RoomDefaults: RoomDefaults{
			MatchDurationSec:  180,
			PlayerCap:         16,
			StackLimit:        10,
			StartingQueued:    2,
			DifficultyProfile: "moderate",
			AttackIntensity:   "low",
		},
		Judge: JudgeConf{
			ConnectTimeout: 5 * time.Second,
			CacheTTL:       30 * time.Second,
		},
		Shop: ShopConf{
			AllowNegativeSkip: true,
		},
	}
}

// Load reads TOML configuration from path, overlaying it onto Default().
func Load(path string) (Config, error) {
	c := Default()
	tree, err := toml.LoadFile(path)
	if err != nil {
		return c, xerrors.Errorf("config: load %s: %w", path, err)
	}
	if err := tree.Unmarshal(&c); err != nil {
		return c, xerrors.Errorf("config: unmarshal %s: %w", path, err)
	}
	return c, nil
}

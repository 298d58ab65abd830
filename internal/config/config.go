package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/sadopc/woolywalk/internal/auth"
	"github.com/sadopc/woolywalk/internal/challenge"
	"github.com/sadopc/woolywalk/internal/stats"
)

const timeLayout = "2006-01-02T15:04:05"

// Config holds the challenge definition and local settings.
type Config struct {
	Challenge    ChallengeConfig         `toml:"challenge"`
	Auth         AuthConfig              `toml:"auth"`
	Storage      StorageConfig           `toml:"storage"`
	Log          LogConfig               `toml:"log"`
	Participants []challenge.Participant `toml:"participants"`
}

// ChallengeConfig times are local wall-clock times in Timezone.
type ChallengeConfig struct {
	Start        string `toml:"start"`
	StealthStart string `toml:"stealth_start"`
	End          string `toml:"end"`
	Timezone     string `toml:"timezone"` // IANA name or "Local"
	WeeklyGoal   int    `toml:"weekly_goal"`
}

// AuthConfig: PasswordHash (argon2id) wins over Password when both are set.
type AuthConfig struct {
	Password     string `toml:"password"`
	PasswordHash string `toml:"password_hash,omitempty"`
}

type StorageConfig struct {
	Key    string `toml:"key"`
	DBPath string `toml:"db_path,omitempty"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file,omitempty"`
}

// Env is read from WOOLYWALK_* variables and overrides the file.
type Env struct {
	Config   string `envconfig:"CONFIG"`
	DBPath   string `envconfig:"DB_PATH"`
	LogLevel string `envconfig:"LOG_LEVEL"`
	LogFile  string `envconfig:"LOG_FILE"`
	Timezone string `envconfig:"TIMEZONE"`
}

// Paths returns standard XDG-compliant paths.
type Paths struct {
	ConfigDir  string
	DataDir    string
	StateDir   string
	ConfigFile string
	DBFile     string
	LogFile    string
}

// GetPaths returns the resolved paths, respecting XDG env vars.
func GetPaths() Paths {
	home, _ := os.UserHomeDir()

	configDir := filepath.Join(envOr("XDG_CONFIG_HOME", filepath.Join(home, ".config")), "woolywalk")
	dataDir := filepath.Join(envOr("XDG_DATA_HOME", filepath.Join(home, ".local", "share")), "woolywalk")
	stateDir := filepath.Join(envOr("XDG_STATE_HOME", filepath.Join(home, ".local", "state")), "woolywalk")

	return Paths{
		ConfigDir:  configDir,
		DataDir:    dataDir,
		StateDir:   stateDir,
		ConfigFile: filepath.Join(configDir, "config.toml"),
		DBFile:     filepath.Join(dataDir, "woolywalk.db"),
		LogFile:    filepath.Join(stateDir, "woolywalk.log"),
	}
}

// Default returns the built-in 2025 challenge.
func Default() *Config {
	return &Config{
		Challenge: ChallengeConfig{
			Start:        "2025-10-06T00:00:00",
			StealthStart: "2025-12-07T00:00:00",
			End:          "2025-12-21T23:59:59",
			Timezone:     "Local",
			WeeklyGoal:   stats.DefaultWeeklyGoal,
		},
		Auth:         AuthConfig{Password: "Password1"},
		Storage:      StorageConfig{Key: "wooly-walking-2025"},
		Log:          LogConfig{Level: "info"},
		Participants: challenge.DefaultRoster(),
	}
}

// Load reads an optional .env, the WOOLYWALK_* environment and the TOML file
// at path (or WOOLYWALK_CONFIG, or the XDG default when path is empty).
// Environment values override the file. A missing config file yields defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var env Env
	if err := envconfig.Process("woolywalk", &env); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if path == "" {
		path = env.Config
	}
	if path == "" {
		path = GetPaths().ConfigFile
	}

	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv(env)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile decodes the TOML file at path over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as TOML.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

func (c *Config) applyEnv(env Env) {
	if env.DBPath != "" {
		c.Storage.DBPath = env.DBPath
	}
	if env.LogLevel != "" {
		c.Log.Level = env.LogLevel
	}
	if env.LogFile != "" {
		c.Log.File = env.LogFile
	}
	if env.Timezone != "" {
		c.Challenge.Timezone = env.Timezone
	}
}

func (c *Config) Validate() error {
	if len(c.Participants) == 0 {
		return errors.New("config: no participants")
	}
	seen := make(map[string]bool, len(c.Participants))
	for _, p := range c.Participants {
		if p.Username == "" {
			return errors.New("config: participant with empty username")
		}
		if p.Username != auth.NormalizeUsername(p.Username) {
			return fmt.Errorf("config: username %q must be lowercase without spaces", p.Username)
		}
		if seen[p.Username] {
			return fmt.Errorf("config: duplicate username %q", p.Username)
		}
		seen[p.Username] = true
	}
	if c.Storage.Key == "" {
		return errors.New("config: storage key is empty")
	}
	if c.Challenge.WeeklyGoal <= 0 {
		return errors.New("config: weekly_goal must be > 0")
	}
	if c.Auth.Password == "" && c.Auth.PasswordHash == "" {
		return errors.New("config: no password configured")
	}
	w, err := c.Window()
	if err != nil {
		return err
	}
	return w.Validate()
}

// Location resolves the challenge timezone.
func (c *Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Challenge.Timezone)
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", tz, err)
	}
	return loc, nil
}

// Window parses the challenge bounds in the configured location.
func (c *Config) Window() (challenge.Window, error) {
	loc, err := c.Location()
	if err != nil {
		return challenge.Window{}, err
	}
	parse := func(name, v string) (time.Time, error) {
		t, err := time.ParseInLocation(timeLayout, v, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("config: challenge %s %q: %w", name, v, err)
		}
		return t, nil
	}
	var w challenge.Window
	if w.Start, err = parse("start", c.Challenge.Start); err != nil {
		return w, err
	}
	if w.StealthStart, err = parse("stealth_start", c.Challenge.StealthStart); err != nil {
		return w, err
	}
	if w.End, err = parse("end", c.Challenge.End); err != nil {
		return w, err
	}
	return w, nil
}

func (c *Config) Roster() challenge.Roster {
	return challenge.Roster(c.Participants)
}

// Checker builds the password check for the configured credentials.
func (c *Config) Checker() (auth.Checker, error) {
	if c.Auth.PasswordHash != "" {
		return auth.ParseArgon2Hash(c.Auth.PasswordHash)
	}
	return auth.SharedPassword(c.Auth.Password), nil
}

// DBPath returns the configured database path or the XDG default.
func (c *Config) DBPath() string {
	if c.Storage.DBPath != "" {
		return c.Storage.DBPath
	}
	return GetPaths().DBFile
}

// LogPath returns the configured log file or the XDG default.
func (c *Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return GetPaths().LogFile
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

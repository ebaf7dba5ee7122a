package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	gameconfig "github.com/tomz197/makemelaugh/internal/loop/config"
)

// Settings are the process-level options shared by the commands.
type Settings struct {
	SSHHost     string
	SSHPort     string
	HostKeyPath string
	WebPort     string // Empty disables the scoreboard page
	DisplayHost string // Host name shown on the scoreboard page
	GameConfig  string // Optional YAML file merged over the defaults
	GameProfile string // Overrides the profile named in the YAML
	LogLevel    string
	TraceDir    string // Empty disables CSV traces
	Audio       string // speaker, bell or off
	TopN        int
}

// LoadSettings reads settings from the environment, after loading .env if present.
func LoadSettings(defaults Settings) (Settings, error) {
	if err := LoadDotEnv(); err != nil {
		return Settings{}, err
	}
	return Settings{
		SSHHost:     GetEnv("SSH_HOST", defaults.SSHHost),
		SSHPort:     GetEnv("SSH_PORT", defaults.SSHPort),
		HostKeyPath: GetEnv("SSH_HOST_KEY", defaults.HostKeyPath),
		WebPort:     GetEnv("WEB_PORT", defaults.WebPort),
		DisplayHost: GetEnv("SSH_DISPLAY_HOST", defaults.DisplayHost),
		GameConfig:  GetEnv("GAME_CONFIG", defaults.GameConfig),
		GameProfile: GetEnv("GAME_PROFILE", defaults.GameProfile),
		LogLevel:    GetEnv("LOG_LEVEL", defaults.LogLevel),
		TraceDir:    GetEnv("TRACE_DIR", defaults.TraceDir),
		Audio:       strings.ToLower(GetEnv("AUDIO", defaults.Audio)),
		TopN:        GetEnvInt("TOP_N", defaults.TopN),
	}, nil
}

// NewLogger creates a timestamped logger at the configured level. Unknown
// levels fall back to info.
func (s Settings) NewLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
	})
	level, err := log.ParseLevel(s.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// LoadGame loads the gameplay configuration and applies the profile override.
func (s Settings) LoadGame() (*gameconfig.Config, error) {
	cfg, err := gameconfig.Load(s.GameConfig)
	if err != nil {
		return nil, err
	}
	if s.GameProfile != "" && s.GameProfile != cfg.Profile {
		if err := cfg.UseProfile(s.GameProfile); err != nil {
			return nil, fmt.Errorf("GAME_PROFILE: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

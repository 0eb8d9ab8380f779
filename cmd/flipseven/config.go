package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// CLIConfig is the local client configuration.
type CLIConfig struct {
	PlayerName  string `toml:"player_name"`
	Bots        int    `toml:"bots"`
	BotLevel    string `toml:"bot_level"`
	TargetScore int    `toml:"target_score"`
}

func defaultCLIConfig() CLIConfig {
	return CLIConfig{
		PlayerName:  "You",
		Bots:        2,
		BotLevel:    "standard",
		TargetScore: 200,
	}
}

func configFilePath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "flipseven", "config.toml")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", "flipseven", "config.toml")
}

// loadCLIConfig reads the TOML config file, falling back to defaults when the
// file does not exist. An explicit path that cannot be read is an error; the
// implicit default path is allowed to be absent.
func loadCLIConfig(path string) (CLIConfig, error) {
	cfg := defaultCLIConfig()

	explicit := path != ""
	if !explicit {
		path = configFilePath()
	}
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return cfg, fmt.Errorf("config file not found: %s", path)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("error decoding config file: %v", err)
	}
	return cfg, nil
}

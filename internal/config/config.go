package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// GameConfig holds the tunable rules and timing for a match. Loaded once per
// process from JSON and then passed explicitly into the engine; the engine
// never reads the globals here.
type GameConfig struct {
	// TargetScore is the winning-score threshold that ends the game.
	TargetScore int `json:"target_score"`
	MinPlayers  int `json:"min_players"`
	MaxPlayers  int `json:"max_players"`

	// BotMinDelaySec / BotMaxDelaySec bound the artificial thinking delay
	// before a bot acts on its turn.
	BotMinDelaySec int `json:"bot_min_delay_sec"`
	BotMaxDelaySec int `json:"bot_max_delay_sec"`
	// BotAutoFillDelaySec is how long a solo human waits before bots fill
	// the remaining seats.
	BotAutoFillDelaySec int `json:"bot_auto_fill_delay_sec"`

	// SuspensionTimeoutSec force-resumes a stuck target selection or
	// animation acknowledgement after this many seconds. A safety net, not a
	// cancellation protocol.
	SuspensionTimeoutSec int `json:"suspension_timeout_sec"`

	// WinnerPayout is the coin reward settled to the winner's wallet.
	WinnerPayout int64 `json:"winner_payout"`
}

// Default returns the standard rule set.
func Default() GameConfig {
	return GameConfig{
		TargetScore:          200,
		MinPlayers:           2,
		MaxPlayers:           4,
		BotMinDelaySec:       1,
		BotMaxDelaySec:       3,
		BotAutoFillDelaySec:  5,
		SuspensionTimeoutSec: 15,
		WinnerPayout:         100,
	}
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path, filling
// unset fields from Default.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		c := Default()
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the loaded configuration, or Default when no file was
// loaded.
func GetGameConfig() GameConfig {
	if cfg == nil {
		return Default()
	}
	return *cfg
}

package bot

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

// BotIdentity is one entry of the bot roster.
type BotIdentity struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Difficulty  string `json:"difficulty"` // "cautious", "standard", "bold"
	AvatarIndex int    `json:"avatar_index"`
}

// Level maps the identity's difficulty string to a bot level.
func (b BotIdentity) Level() Level {
	switch b.Difficulty {
	case "cautious":
		return LevelCautious
	case "bold":
		return LevelBold
	default:
		return LevelStandard
	}
}

// defaultIdentities keeps matches playable when no roster file is deployed.
var defaultIdentities = []BotIdentity{
	{UserID: "bot_ember", Username: "ember", DisplayName: "Ember", Difficulty: "bold", AvatarIndex: 1},
	{UserID: "bot_willow", Username: "willow", DisplayName: "Willow", Difficulty: "cautious", AvatarIndex: 2},
	{UserID: "bot_atlas", Username: "atlas", DisplayName: "Atlas", Difficulty: "standard", AvatarIndex: 3},
	{UserID: "bot_juniper", Username: "juniper", DisplayName: "Juniper", Difficulty: "standard", AvatarIndex: 4},
}

var (
	identities   []BotIdentity
	identityByID map[string]BotIdentity
	identitiesMu sync.Mutex
	loadOnce     sync.Once
	loadErr      error
)

// LoadIdentities loads the bot roster from the given path. Safe to call more
// than once; only the first call reads the file. When loading fails the
// built-in roster stays in effect and the error is returned for logging.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}

		var loaded []BotIdentity
		if err := json.Unmarshal(data, &loaded); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal bot identities: %w", err)
			return
		}
		identitiesMu.Lock()
		setIdentitiesLocked(loaded)
		identitiesMu.Unlock()
	})
	return loadErr
}

func setIdentitiesLocked(list []BotIdentity) {
	identities = list
	identityByID = make(map[string]BotIdentity, len(list))
	for _, id := range list {
		if id.UserID != "" {
			identityByID[id.UserID] = id
		}
	}
}

func roster() []BotIdentity {
	identitiesMu.Lock()
	defer identitiesMu.Unlock()
	if len(identities) == 0 {
		setIdentitiesLocked(defaultIdentities)
	}
	return identities
}

// IsBot reports whether the user id belongs to a bot seat.
func IsBot(userID string) bool {
	identitiesMu.Lock()
	_, known := identityByID[userID]
	identitiesMu.Unlock()
	return known || strings.HasPrefix(userID, "bot_")
}

// GetBotIdentity returns a roster identity for a seat index, cycling through
// the roster when seats outnumber it.
func GetBotIdentity(seat int) BotIdentity {
	list := roster()
	return list[seat%len(list)]
}

// GetBotUsername returns the display name for a bot user id, or "".
func GetBotUsername(userID string) string {
	identitiesMu.Lock()
	defer identitiesMu.Unlock()
	if id, ok := identityByID[userID]; ok {
		return id.DisplayName
	}
	return ""
}

func identityFor(userID string) BotIdentity {
	roster()
	identitiesMu.Lock()
	defer identitiesMu.Unlock()
	if id, ok := identityByID[userID]; ok {
		return id
	}
	return BotIdentity{UserID: userID, DisplayName: userID, Difficulty: "standard"}
}

package bot

import "fmt"

// Level selects a bot difficulty.
type Level string

const (
	LevelCautious Level = "cautious"
	LevelStandard Level = "standard"
	LevelBold     Level = "bold"
)

// NewBrain creates a brain for the given level.
func NewBrain(level Level) (Brain, error) {
	switch level {
	case LevelCautious:
		return NewCautiousBot(), nil
	case LevelStandard, "":
		return NewStandardBot(), nil
	case LevelBold:
		return NewBoldBot(), nil
	default:
		return nil, fmt.Errorf("unknown bot level: %q", level)
	}
}

// NewAgent builds an agent for a bot user id using its configured identity.
func NewAgent(userID string) (*Agent, error) {
	identity := identityFor(userID)
	brain, err := NewBrain(identity.Level())
	if err != nil {
		return nil, err
	}
	return &Agent{
		ID:    userID,
		Name:  identity.DisplayName,
		Level: identity.Level(),
		Brain: brain,
	}, nil
}

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"flipseven/internal/app"
	"flipseven/internal/bot"
	"flipseven/internal/config"
	"flipseven/internal/domain"
)

var (
	flagConfig  string
	flagName    string
	flagBots    int
	flagLevel   string
	flagTarget  int
	flagVerbose bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a game against bot opponents",
	RunE:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "path to a TOML config file")
	playCmd.Flags().StringVar(&flagName, "name", "", "your display name")
	playCmd.Flags().IntVar(&flagBots, "bots", 0, "number of bot opponents (1-3)")
	playCmd.Flags().StringVar(&flagLevel, "level", "", "bot level: cautious, standard or bold")
	playCmd.Flags().IntVar(&flagTarget, "target", 0, "winning score threshold")
	playCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "log engine internals to stderr")
}

const humanID = "human"

// client drives the engine interactively: it is the presentation layer the
// engine's suspension points wait on, with stdin answering the prompts and
// every animation ack synthesized immediately.
type client struct {
	eng           *app.Engine
	agents        map[string]*bot.Agent
	reader        *bufio.Reader
	humanID       string
	pendingTarget *app.TargetNeededPayload
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadCLIConfig(flagConfig)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("name") {
		cfg.PlayerName = flagName
	}
	if cmd.Flags().Changed("bots") {
		cfg.Bots = flagBots
	}
	if cmd.Flags().Changed("level") {
		cfg.BotLevel = flagLevel
	}
	if cmd.Flags().Changed("target") {
		cfg.TargetScore = flagTarget
	}

	if cfg.Bots < 1 || cfg.Bots > 3 {
		return fmt.Errorf("bots must be between 1 and 3, got %d", cfg.Bots)
	}
	if _, err := bot.NewBrain(bot.Level(cfg.BotLevel)); cfg.BotLevel != "" && err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if flagVerbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	gameCfg := config.Default()
	gameCfg.TargetScore = cfg.TargetScore

	players := []*domain.Player{domain.NewPlayer(humanID, cfg.PlayerName, 0, true)}
	agents := make(map[string]*bot.Agent)
	for i := 0; i < cfg.Bots; i++ {
		identity := bot.GetBotIdentity(i)
		level := identity.Level()
		if cfg.BotLevel != "" {
			level = bot.Level(cfg.BotLevel)
		}
		brain, err := bot.NewBrain(level)
		if err != nil {
			return err
		}
		agent := &bot.Agent{ID: identity.UserID, Name: identity.DisplayName, Level: level, Brain: brain}
		agents[agent.ID] = agent
		players = append(players, domain.NewPlayer(agent.ID, agent.Name, len(players), false))
	}

	c := &client{
		eng:     app.NewEngine(gameCfg, players, nil, logger, nil),
		agents:  agents,
		reader:  bufio.NewReader(os.Stdin),
		humanID: humanID,
	}
	return c.run()
}

func (c *client) run() error {
	events, err := c.eng.StartGame()
	if err != nil {
		return err
	}
	c.render(events)

	for {
		if c.eng.Phase() == app.PhaseGameOver {
			return nil
		}

		// Synthesize the acks a graphical client would send after its
		// animations; text output is instantaneous.
		if id := c.eng.PendingAckPlayer(); id != "" {
			events, err := c.eng.AckAnimation(id)
			if err != nil {
				return err
			}
			c.render(events)
			continue
		}
		if id := c.eng.PendingFlipAckTarget(); id != "" {
			events, err := c.eng.AckFlipThree(id, true, "rendered")
			if err != nil {
				return err
			}
			c.render(events)
			continue
		}

		if src := c.eng.PendingTargetSource(); src != "" {
			if src != c.humanID {
				return fmt.Errorf("unexpected target suspension for %s", src)
			}
			if err := c.promptTarget(); err != nil {
				return err
			}
			continue
		}

		current := c.eng.CurrentPlayer()
		if current == nil {
			return nil
		}
		if current.IsHuman {
			if err := c.promptHitStay(current); err != nil {
				return err
			}
			continue
		}

		agent, ok := c.agents[current.ID]
		if !ok {
			return fmt.Errorf("no agent for bot %s", current.ID)
		}
		if agent.DecideHitStay(c.eng.Game()) {
			events, err = c.eng.Hit(current.ID)
		} else {
			events, err = c.eng.Stay(current.ID)
		}
		if err != nil {
			return err
		}
		c.render(events)
	}
}

func (c *client) promptHitStay(p *domain.Player) error {
	for {
		fmt.Print("(h)it or (s)tay? ")
		line, err := c.reader.ReadString('\n')
		if err != nil {
			return err
		}

		var events []app.Event
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "h", "hit":
			events, err = c.eng.Hit(p.ID)
		case "s", "stay":
			events, err = c.eng.Stay(p.ID)
		case "q", "quit":
			return errors.New("game abandoned")
		default:
			fmt.Println("Please answer h or s (q to quit).")
			continue
		}
		if err != nil {
			return err
		}
		c.render(events)
		return nil
	}
}

func (c *client) promptTarget() error {
	req := c.pendingTarget
	if req == nil {
		return errors.New("target requested but no pending payload")
	}
	c.pendingTarget = nil

	fmt.Printf("Choose a target for %s:\n", cardLabel(req.Card))
	for i, id := range req.EligibleIDs {
		fmt.Printf("  %d) %s\n", i+1, c.playerName(id))
	}

	for {
		fmt.Print("> ")
		line, err := c.reader.ReadString('\n')
		if err != nil {
			return err
		}
		idx, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || idx < 1 || idx > len(req.EligibleIDs) {
			fmt.Printf("Enter a number between 1 and %d.\n", len(req.EligibleIDs))
			continue
		}

		events, err := c.eng.SelectTarget(c.humanID, req.Card.Kind, req.EligibleIDs[idx-1])
		if err != nil {
			if errors.Is(err, app.ErrInvalidTarget) {
				fmt.Println("That player can no longer be targeted.")
				continue
			}
			return err
		}
		c.render(events)
		return nil
	}
}

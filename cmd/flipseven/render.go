package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	"flipseven/internal/app"
	"flipseven/internal/domain"
)

var (
	numberColor   = color.New(color.FgWhite, color.Bold)
	modifierColor = color.New(color.FgYellow)
	rescueColor   = color.New(color.FgGreen)
	freezeColor   = color.New(color.FgCyan)
	flipColor     = color.New(color.FgMagenta)
	bustColor     = color.New(color.FgRed, color.Bold)
	winColor      = color.New(color.FgGreen, color.Bold)
	mutedColor    = color.New(color.FgHiBlack)
)

// cardLabel renders a card with its kind's color.
func cardLabel(c domain.Card) string {
	switch c.Kind {
	case domain.KindNumber:
		return numberColor.Sprintf("[%d]", c.Value)
	case domain.KindModifier:
		return modifierColor.Sprintf("[+%d]", c.Value)
	case domain.KindMultiplier:
		return modifierColor.Sprint("[x2]")
	case domain.KindSecondChance:
		return rescueColor.Sprint("[Second Chance]")
	case domain.KindFreeze:
		return freezeColor.Sprint("[Freeze]")
	case domain.KindFlipThree:
		return flipColor.Sprint("[Flip Three]")
	}
	return "[?]"
}

func (c *client) playerName(id string) string {
	if p := c.eng.Game().PlayerByID(id); p != nil {
		return p.Name
	}
	return id
}

// render prints engine events and records the pending target request so the
// prompt loop can answer it.
func (c *client) render(events []app.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case app.EventGameStart:
			p := ev.Payload.(app.GameStartPayload)
			fmt.Printf("First to %d points wins.\n", p.TargetScore)

		case app.EventRoundStart:
			p := ev.Payload.(app.RoundStartPayload)
			fmt.Println()
			color.New(color.Bold).Printf("--- Round %d ---\n", p.Round)

		case app.EventCardDealt:
			p := ev.Payload.(app.CardDealtPayload)
			fmt.Printf("%s is dealt %s\n", c.playerName(p.PlayerID), cardLabel(p.Card))

		case app.EventCardDrawn:
			p := ev.Payload.(app.CardDrawnPayload)
			fmt.Printf("%s flips %s\n", c.playerName(p.PlayerID), cardLabel(p.Card))

		case app.EventTurnStarted:
			p := ev.Payload.(app.TurnStartedPayload)
			if p.PlayerID == c.humanID {
				c.showHand()
			} else {
				mutedColor.Printf("%s is thinking...\n", c.playerName(p.PlayerID))
			}

		case app.EventPlayerBust:
			p := ev.Payload.(app.PlayerBustPayload)
			bustColor.Printf("%s busts on %s!\n", c.playerName(p.PlayerID), cardLabel(p.Card))

		case app.EventPlayerFlip7:
			p := ev.Payload.(app.PlayerFlip7Payload)
			winColor.Printf("%s flips seven unique numbers! Round over.\n", c.playerName(p.PlayerID))

		case app.EventPlayerFrozen:
			p := ev.Payload.(app.PlayerFrozenPayload)
			freezeColor.Printf("%s is frozen.\n", c.playerName(p.PlayerID))

		case app.EventPlayerStayed:
			p := ev.Payload.(app.PlayerStayedPayload)
			fmt.Printf("%s stays with %d points.\n", c.playerName(p.PlayerID), p.Score)

		case app.EventTargetNeeded:
			p := ev.Payload.(app.TargetNeededPayload)
			c.pendingTarget = &p

		case app.EventFreezeUsed:
			p := ev.Payload.(app.FreezeUsedPayload)
			freezeColor.Printf("%s plays Freeze on %s.\n", c.playerName(p.SourceID), c.playerName(p.TargetID))

		case app.EventFlipThreeUsed:
			p := ev.Payload.(app.FlipThreeUsedPayload)
			flipColor.Printf("%s plays Flip Three on %s.\n", c.playerName(p.SourceID), c.playerName(p.TargetID))

		case app.EventSecondChanceHit:
			p := ev.Payload.(app.SecondChanceActivatedPayload)
			rescueColor.Printf("%s burns a Second Chance to survive.\n", c.playerName(p.PlayerID))

		case app.EventSecondChanceGiven:
			p := ev.Payload.(app.SecondChanceGivenPayload)
			rescueColor.Printf("%s hands a Second Chance to %s.\n", c.playerName(p.GiverID), c.playerName(p.RecipientID))

		case app.EventRoundEnd:
			p := ev.Payload.(app.RoundEndPayload)
			fmt.Println()
			color.New(color.Bold).Println("Round scores:")
			for _, row := range p.Scores {
				fmt.Printf("  %-12s +%-4d (total %d)\n", c.playerName(row.PlayerID), row.RoundScore, row.TotalScore)
			}

		case app.EventGameEnd:
			p := ev.Payload.(app.GameEndPayload)
			fmt.Println()
			winColor.Printf("%s wins the game!\n", c.playerName(p.WinnerID))
			c.showTotals(p.Totals)
		}
	}
}

func (c *client) showHand() {
	p := c.eng.Game().PlayerByID(c.humanID)
	if p == nil {
		return
	}
	labels := make([]string, 0, len(p.NumberCards)+len(p.ModifierCards)+len(p.ActionCards))
	for _, card := range p.AllCards() {
		labels = append(labels, cardLabel(card))
	}
	fmt.Println()
	fmt.Printf("Your hand: %s\n", strings.Join(labels, " "))
	fmt.Printf("Round score if you stay: %d (total %d)\n", domain.CalculateRoundScore(p), p.TotalScore)
}

func (c *client) showTotals(totals map[string]int) {
	ids := make([]string, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return totals[ids[i]] > totals[ids[j]] })
	for _, id := range ids {
		fmt.Printf("  %-12s %d\n", c.playerName(id), totals[id])
	}
}

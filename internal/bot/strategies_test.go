package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flipseven/internal/domain"
)

// riskGame builds a two-player game where the deck is stacked so the hitter's
// bust probability is controllable: `busting` of `total` upcoming cards
// duplicate the player's held 5.
func riskGame(busting, total int) (*domain.Game, *domain.Player) {
	var cards []domain.Card
	for i := 0; i < busting; i++ {
		cards = append(cards, domain.Card{Kind: domain.KindNumber, Value: 5})
	}
	for i := len(cards); i < total; i++ {
		cards = append(cards, domain.Card{Kind: domain.KindNumber, Value: i % 4})
	}

	g := &domain.Game{TargetScore: 200, Deck: domain.NewStackedDeck(cards)}
	p := domain.NewPlayer("a", "A", 0, false)
	p.ResetForRound()
	p.AddNumber(domain.Card{Kind: domain.KindNumber, Value: 5})
	other := domain.NewPlayer("b", "B", 1, false)
	other.ResetForRound()
	g.Players = []*domain.Player{p, other}
	return g, p
}

func TestEmptyHandAlwaysHits(t *testing.T) {
	g, p := riskGame(10, 10) // certain bust, but nothing to lose
	p.NumberCards = nil
	p.UniqueNumbers = map[int]bool{}

	for _, brain := range []Brain{NewCautiousBot(), NewStandardBot(), NewBoldBot()} {
		assert.True(t, brain.DecideHitStay(g, p))
	}
}

func TestRiskToleranceOrdering(t *testing.T) {
	// ~35% bust risk: bold hits, cautious stays.
	g, p := riskGame(7, 20)
	assert.False(t, NewCautiousBot().DecideHitStay(g, p))
	assert.True(t, NewBoldBot().DecideHitStay(g, p))
}

func TestStaysOnCertainWin(t *testing.T) {
	g, p := riskGame(0, 20)
	p.TotalScore = 196 // held 5 banks the win
	assert.False(t, NewBoldBot().DecideHitStay(g, p), "never gamble a winning bank")
}

func TestSecondChanceLoosensRisk(t *testing.T) {
	g, p := riskGame(7, 20)
	require.False(t, NewCautiousBot().DecideHitStay(g, p))
	p.AddSecondChance(domain.Card{Kind: domain.KindSecondChance})
	assert.True(t, NewCautiousBot().DecideHitStay(g, p), "a held rescue should absorb the risk")
}

func TestBanksAtTuningThreshold(t *testing.T) {
	g, p := riskGame(0, 30)
	for _, v := range []int{8, 12} { // projected 25 with the held 5
		p.AddNumber(domain.Card{Kind: domain.KindNumber, Value: v})
	}
	assert.False(t, NewCautiousBot().DecideHitStay(g, p))
	assert.True(t, NewBoldBot().DecideHitStay(g, p))
}

func TestNewAgentLevels(t *testing.T) {
	agent, err := NewAgent("bot_ember")
	require.NoError(t, err)
	assert.Equal(t, LevelBold, agent.Level)

	unknown, err := NewAgent("bot_stranger")
	require.NoError(t, err)
	assert.Equal(t, LevelStandard, unknown.Level)
}

func TestIsBot(t *testing.T) {
	assert.True(t, IsBot("bot_ember"))
	assert.True(t, IsBot("bot_anything"))
	assert.False(t, IsBot("3ad02c35-user"))
}

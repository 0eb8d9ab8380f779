package bot

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flipseven/internal/domain"
)

func tableOf(totals ...int) *domain.Game {
	g := &domain.Game{TargetScore: 200}
	for i, total := range totals {
		p := domain.NewPlayer(string(rune('a'+i)), "P", i, false)
		p.ResetForRound()
		p.TotalScore = total
		g.Players = append(g.Players, p)
	}
	return g
}

func TestFreezeTargetPrefersUniqueLeader(t *testing.T) {
	g := tableOf(40, 90, 60, 10)
	source := g.Players[0]
	target := FreezeTarget(g, source, g.ActivePlayers())
	require.NotNil(t, target)
	assert.Equal(t, g.Players[1].ID, target.ID)
}

func TestFreezeTargetSkipsSelfLeader(t *testing.T) {
	g := tableOf(90, 40, 60)
	source := g.Players[0] // the leader is the source itself
	g.Players[2].ModifierCards = append(g.Players[2].ModifierCards, domain.Card{Kind: domain.KindMultiplier})

	target := FreezeTarget(g, source, g.ActivePlayers())
	require.NotNil(t, target)
	assert.Equal(t, g.Players[2].ID, target.ID, "should fall through to the x2 holder")
}

func TestFreezeTargetSecondChanceHolderBeforeRoundLeader(t *testing.T) {
	g := tableOf(50, 50, 50)
	source := g.Players[0]
	// No unique leader, no x2 holders; seat 2 holds a Second Chance.
	g.Players[2].AddSecondChance(domain.Card{Kind: domain.KindSecondChance})
	g.Players[1].AddNumber(domain.Card{Kind: domain.KindNumber, Value: 12})

	target := FreezeTarget(g, source, g.ActivePlayers())
	require.NotNil(t, target)
	assert.Equal(t, g.Players[2].ID, target.ID)
}

func TestFreezeTargetHighestRoundScoreFallback(t *testing.T) {
	g := tableOf(50, 50, 50)
	source := g.Players[0]
	g.Players[1].AddNumber(domain.Card{Kind: domain.KindNumber, Value: 9})
	g.Players[2].AddNumber(domain.Card{Kind: domain.KindNumber, Value: 4})

	target := FreezeTarget(g, source, g.ActivePlayers())
	require.NotNil(t, target)
	assert.Equal(t, g.Players[1].ID, target.ID)
}

func TestFreezeTargetSelfWhenAlone(t *testing.T) {
	g := tableOf(10, 20)
	g.Players[1].Status = domain.StatusStayed
	source := g.Players[0]

	target := FreezeTarget(g, source, g.ActivePlayers())
	require.NotNil(t, target)
	assert.Equal(t, source.ID, target.ID)
}

func TestFlipThreeTargetSelfWithSmallHand(t *testing.T) {
	g := tableOf(0, 0, 0)
	source := g.Players[1]
	source.AddNumber(domain.Card{Kind: domain.KindNumber, Value: 2})

	target := FlipThreeTarget(source, g.ActivePlayers(), rand.New(rand.NewSource(7)))
	require.NotNil(t, target)
	assert.Equal(t, source.ID, target.ID)
}

func TestFlipThreeTargetOthersWithBigHand(t *testing.T) {
	g := tableOf(0, 0, 0)
	source := g.Players[0]
	for _, v := range []int{3, 5, 8} {
		source.AddNumber(domain.Card{Kind: domain.KindNumber, Value: v})
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		target := FlipThreeTarget(source, g.ActivePlayers(), rng)
		require.NotNil(t, target)
		assert.NotEqual(t, source.ID, target.ID)
	}
}

func TestSecondChanceRecipientLowestTotalSeatTieBreak(t *testing.T) {
	g := tableOf(30, 10, 10, 80)
	recipient := SecondChanceRecipient(g.ActivePlayers())
	require.NotNil(t, recipient)
	assert.Equal(t, g.Players[1].ID, recipient.ID, "lowest total, earliest seat wins ties")
}

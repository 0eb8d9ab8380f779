package domain

import "testing"

func TestAddNumberFlip7Atomic(t *testing.T) {
	p := NewPlayer("p1", "P1", 0, false)
	p.ResetForRound()

	for v := 1; v <= 6; v++ {
		if flip7 := p.AddNumber(Card{Kind: KindNumber, Value: v}); flip7 {
			t.Fatalf("flip7 reported at %d uniques", v)
		}
		if p.Status != StatusActive {
			t.Fatalf("status = %s before seven uniques", p.Status)
		}
	}

	if flip7 := p.AddNumber(Card{Kind: KindNumber, Value: 7}); !flip7 {
		t.Fatal("seventh unique did not report flip7")
	}
	if p.Status != StatusFlip7 {
		t.Fatalf("status = %s, want %s", p.Status, StatusFlip7)
	}
	if len(p.UniqueNumbers) != Flip7Count {
		t.Fatalf("unique count = %d, want %d", len(p.UniqueNumbers), Flip7Count)
	}
}

func TestSecondChanceBookkeeping(t *testing.T) {
	p := NewPlayer("p1", "P1", 0, false)
	p.ResetForRound()

	if p.HasSecondChance {
		t.Fatal("fresh player holds a second chance")
	}
	p.AddSecondChance(Card{Kind: KindSecondChance})
	if !p.HasSecondChance || p.SecondChanceCount() != 1 {
		t.Fatalf("after add: has=%v count=%d", p.HasSecondChance, p.SecondChanceCount())
	}

	if _, ok := p.RemoveActionCard(KindSecondChance); !ok {
		t.Fatal("RemoveActionCard failed")
	}
	if p.HasSecondChance || p.SecondChanceCount() != 0 {
		t.Fatalf("after remove: has=%v count=%d", p.HasSecondChance, p.SecondChanceCount())
	}
}

func TestResetForRound(t *testing.T) {
	p := NewPlayer("p1", "P1", 0, true)
	p.ResetForRound()
	p.AddNumber(Card{Kind: KindNumber, Value: 4})
	p.ModifierCards = append(p.ModifierCards, Card{Kind: KindMultiplier})
	p.AddSecondChance(Card{Kind: KindSecondChance})
	p.TotalScore = 55
	p.RoundScore = 12
	p.Status = StatusBusted

	p.ResetForRound()

	if p.TotalScore != 55 {
		t.Fatalf("total score reset: %d", p.TotalScore)
	}
	if p.RoundScore != 0 || len(p.NumberCards) != 0 || len(p.ModifierCards) != 0 ||
		len(p.ActionCards) != 0 || len(p.UniqueNumbers) != 0 || p.HasSecondChance {
		t.Fatalf("round state not cleared: %+v", p)
	}
	if p.Status != StatusActive {
		t.Fatalf("status = %s, want %s", p.Status, StatusActive)
	}
}

func TestNextActiveSeat(t *testing.T) {
	g := &Game{}
	for i := 0; i < 4; i++ {
		p := NewPlayer("p", "P", i, false)
		p.ResetForRound()
		g.Players = append(g.Players, p)
	}
	g.Players[1].Status = StatusFrozen
	g.Players[2].Status = StatusStayed

	if got := g.NextActiveSeat(0); got != 3 {
		t.Fatalf("NextActiveSeat(0) = %d, want 3", got)
	}
	if got := g.NextActiveSeat(3); got != 0 {
		t.Fatalf("NextActiveSeat(3) = %d, want 0", got)
	}

	g.Players[0].Status = StatusBusted
	g.Players[3].Status = StatusFlip7
	if got := g.NextActiveSeat(0); got != -1 {
		t.Fatalf("NextActiveSeat with none active = %d, want -1", got)
	}
}

package domain

import "testing"

func buildHand(numbers []int, modifiers []Card, status Status) *Player {
	p := NewPlayer("p1", "P1", 0, false)
	p.ResetForRound()
	for _, v := range numbers {
		p.AddNumber(Card{Kind: KindNumber, Value: v})
	}
	p.ModifierCards = append(p.ModifierCards, modifiers...)
	if status != "" {
		p.Status = status
	}
	return p
}

func TestCalculateRoundScore(t *testing.T) {
	tests := []struct {
		name      string
		numbers   []int
		modifiers []Card
		status    Status
		want      int
	}{
		{name: "empty hand", want: 0},
		{name: "numbers only", numbers: []int{3, 7, 12}, want: 22},
		{name: "additive modifier", numbers: []int{5}, modifiers: []Card{{Kind: KindModifier, Value: 4}}, want: 9},
		{
			name:      "multiplier before additives",
			numbers:   []int{5, 6},
			modifiers: []Card{{Kind: KindMultiplier}, {Kind: KindModifier, Value: 10}},
			want:      32, // (5+6)*2 + 10
		},
		{
			name:    "flip7 bonus",
			numbers: []int{1, 2, 3, 4, 5, 6, 7},
			want:    28 + Flip7Bonus,
		},
		{
			name:      "busted scores zero",
			numbers:   []int{10, 11},
			modifiers: []Card{{Kind: KindModifier, Value: 8}},
			status:    StatusBusted,
			want:      0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := buildHand(tt.numbers, tt.modifiers, tt.status)
			if got := CalculateRoundScore(p); got != tt.want {
				t.Fatalf("CalculateRoundScore() = %d, want %d", got, tt.want)
			}
			// Idempotence: a second call with no mutation returns the same.
			if got := CalculateRoundScore(p); got != tt.want {
				t.Fatalf("second CalculateRoundScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFinalRoundScoreFrozenEmptyHand(t *testing.T) {
	p := buildHand(nil, []Card{{Kind: KindMultiplier}, {Kind: KindModifier, Value: 10}}, StatusFrozen)
	if got := FinalRoundScore(p); got != 0 {
		t.Fatalf("frozen empty hand FinalRoundScore() = %d, want 0", got)
	}

	p2 := buildHand([]int{4}, []Card{{Kind: KindModifier, Value: 2}}, StatusFrozen)
	if got := FinalRoundScore(p2); got != 6 {
		t.Fatalf("frozen with numbers FinalRoundScore() = %d, want 6", got)
	}
}

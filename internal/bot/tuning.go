package bot

// Tuning parameterizes the hit/stay policy. The levels share one decision
// procedure and differ only in these weights.
type Tuning struct {
	// BustTolerance is the highest acceptable bust probability before the
	// bot banks its score.
	BustTolerance float64
	// BankAt stays once the projected round score reaches this value.
	BankAt int
	// DesperationDeficit loosens the tolerance when trailing the table
	// leader by at least this many points.
	DesperationDeficit int
	// DesperationFactor multiplies BustTolerance while trailing badly.
	DesperationFactor float64
	// SecondChanceFactor discounts the perceived risk while a Second Chance
	// is held, since one duplicate will be absorbed.
	SecondChanceFactor float64
}

// CautiousTuning banks early and rarely gambles.
var CautiousTuning = Tuning{
	BustTolerance:      0.18,
	BankAt:             18,
	DesperationDeficit: 60,
	DesperationFactor:  1.5,
	SecondChanceFactor: 0.5,
}

// StandardTuning is the balanced default.
var StandardTuning = Tuning{
	BustTolerance:      0.30,
	BankAt:             24,
	DesperationDeficit: 45,
	DesperationFactor:  1.6,
	SecondChanceFactor: 0.45,
}

// BoldTuning chases Flip 7s and keeps drawing under risk a cautious player
// would never take.
var BoldTuning = Tuning{
	BustTolerance:      0.45,
	BankAt:             32,
	DesperationDeficit: 30,
	DesperationFactor:  1.8,
	SecondChanceFactor: 0.35,
}

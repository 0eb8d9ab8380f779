package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"

	// MatchNameFlipSeven is the authoritative match handler name registered with Nakama.
	MatchNameFlipSeven = "flipseven_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame    int64 = 1
	OpHit          int64 = 2
	OpStay         int64 = 3
	OpSelectTarget int64 = 4
	OpAckAnimation int64 = 5
	OpAckFlipThree int64 = 6

	// Server -> Client
	OpMatchState int64 = 100
	OpGameEvent  int64 = 101
	OpGameError  int64 = 130
)

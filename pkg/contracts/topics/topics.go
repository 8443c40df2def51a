package topics

const (
	// Modalidades (edições administrativas de odd/ativação)
	GameModeUpdates = "game_mode_updates"

	// Bets
	BetPlaced = "bet_placed"

	// DLQs
	GameModeUpdatesDLQ = "game_mode_updates_dlq"
)

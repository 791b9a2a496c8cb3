package domain

// ConversationTurn is one prior question/answer exchange, supplied by the caller.
type ConversationTurn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// RecentTurns returns at most the last n turns of history, oldest first.
func RecentTurns(history []ConversationTurn, n int) []ConversationTurn {
	if n <= 0 || len(history) == 0 {
		return nil
	}
	if len(history) > n {
		history = history[len(history)-n:]
	}
	out := make([]ConversationTurn, len(history))
	copy(out, history)
	return out
}

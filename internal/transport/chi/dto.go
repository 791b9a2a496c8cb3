package chi

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/docqa/internal/domain"
)

type queryRequest struct {
	Question    string      `json:"question"`
	ChatHistory chatHistory `json:"chat_history"`
	Document    string      `json:"document"`
}

type summarizeRequest struct {
	Document string `json:"document"`
}

type uploadResponse struct {
	Status    string   `json:"status"`
	Files     []string `json:"files"`
	Documents int      `json:"documents"`
	Chunks    int      `json:"chunks"`
}

type documentsResponse struct {
	Documents []string `json:"documents"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// chatHistory accepts both [["q", "a"], ...] and [{"question": "q", "answer": "a"}, ...].
type chatHistory []domain.ConversationTurn

func (h *chatHistory) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("chat_history must be a list: %w", err)
	}
	turns := make([]domain.ConversationTurn, 0, len(raw))
	for i, item := range raw {
		turn, err := decodeTurn(item)
		if err != nil {
			return fmt.Errorf("chat_history[%d]: %w", i, err)
		}
		turns = append(turns, turn)
	}
	*h = turns
	return nil
}

func decodeTurn(item json.RawMessage) (domain.ConversationTurn, error) {
	var pair []string
	if err := json.Unmarshal(item, &pair); err == nil {
		if len(pair) != 2 {
			return domain.ConversationTurn{}, errors.New("expected [question, answer]")
		}
		return domain.ConversationTurn{Question: pair[0], Answer: pair[1]}, nil
	}
	var turn domain.ConversationTurn
	if err := json.Unmarshal(item, &turn); err != nil {
		return domain.ConversationTurn{}, errors.New("expected [question, answer] or {question, answer}")
	}
	return turn, nil
}

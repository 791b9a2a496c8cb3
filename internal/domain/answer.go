package domain

// Answer is the result of a grounded question.
type Answer struct {
	Answer     string   `json:"answer"`
	Citations  []string `json:"citations"`
	Confidence float64  `json:"confidence"`
}

// Summary is the result of a summarization request.
type Summary struct {
	Summary   string   `json:"summary"`
	Citations []string `json:"citations"`
}

// Refusal builds the answer returned when evidence is insufficient.
func Refusal(text string, confidence float64) Answer {
	return Answer{Answer: text, Citations: []string{}, Confidence: confidence}
}

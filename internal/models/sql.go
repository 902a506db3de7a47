package models

// SQLCandidate is a generated SQL statement plus the generator's
// self-reported confidence. Confidence is an opaque contract on the
// generator (0.9+ unambiguous schema match, 0.7-0.9 minor ambiguity,
// 0.4-0.7 column/join guesses, below 0.4 high ambiguity); the controller
// consumes it as-is and never recomputes it.
type SQLCandidate struct {
	SQL        string      `json:"sql"`
	UsedTables []UsedTable `json:"used_tables"`
	Confidence float64     `json:"confidence"`
	Analysis   string      `json:"analysis,omitempty"`
}

// ReviewVerdict is the independent reviewer's pass/fail judgment on a
// high-confidence candidate. When IsCorrect is false, Analysis becomes the
// refinement feedback for the next synthesizer call.
type ReviewVerdict struct {
	IsCorrect bool   `json:"is_correct"`
	Analysis  string `json:"analysis"`
}

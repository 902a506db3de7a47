package synthesis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sqlwise/sqlmcp-go/internal/llm"
	"github.com/sqlwise/sqlmcp-go/internal/models"
	"github.com/sqlwise/sqlmcp-go/internal/rules"
)

// Synthesizer produces SQL candidates from an intent and candidate tables.
// Generate builds fresh SQL; Refine repairs a prior low-confidence or
// rejected candidate using reviewer or execution feedback.
type Synthesizer struct {
	model ChatModel
	rules *rules.Rules
}

func NewSynthesizer(model ChatModel, r *rules.Rules) *Synthesizer {
	if r == nil {
		r = &rules.Rules{}
	}
	return &Synthesizer{model: model, rules: r}
}

// Generate asks the model for a fresh SQL candidate.
func (s *Synthesizer) Generate(ctx context.Context, question string, intent *models.Intent, tables []models.TableCandidate) (*models.SQLCandidate, error) {
	prompt := fmt.Sprintf(generateUserPrompt,
		question,
		asJSON(intent),
		asJSON(tables),
		s.rules.PromptText(),
	)

	raw, err := s.model.Chat(ctx, prompt, generateSystemPrompt)
	if err != nil {
		return nil, fmt.Errorf("generate sql: %w", err)
	}
	return decodeCandidate(raw)
}

// Refine repairs a prior candidate. analysis carries the most recent failure
// signal: reviewer feedback, an execution error, or "None".
func (s *Synthesizer) Refine(ctx context.Context, question string, intent *models.Intent, tables []models.TableCandidate, prior *models.SQLCandidate, analysis string) (*models.SQLCandidate, error) {
	if analysis == "" {
		analysis = "None"
	}
	prompt := fmt.Sprintf(refineUserPrompt,
		question,
		asJSON(intent),
		asJSON(tables),
		prior.Confidence,
		prior.SQL,
		analysis,
		s.rules.PromptText(),
	)

	raw, err := s.model.Chat(ctx, prompt, refineSystemPrompt)
	if err != nil {
		return nil, fmt.Errorf("refine sql: %w", err)
	}
	return decodeCandidate(raw)
}

func decodeCandidate(raw string) (*models.SQLCandidate, error) {
	cand, err := llm.Decode[models.SQLCandidate](raw)
	if err != nil {
		return nil, err
	}
	if cand.SQL == "" {
		return nil, fmt.Errorf("candidate missing sql")
	}
	return &cand, nil
}

// asJSON renders prompt inputs; prompts read "null" for absent values.
func asJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "null"
	}
	return string(data)
}

package synthesis

import (
	"context"
	"fmt"

	"github.com/sqlwise/sqlmcp-go/internal/llm"
	"github.com/sqlwise/sqlmcp-go/internal/models"
	"github.com/sqlwise/sqlmcp-go/internal/rules"
)

// Reviewer independently audits a high-confidence candidate against the
// schema of the tables it claims to use. Self-reported confidence measures
// the generator's certainty, not correctness; the review is the check that
// certainty is warranted.
type Reviewer struct {
	model ChatModel
	rules *rules.Rules
}

func NewReviewer(model ChatModel, r *rules.Rules) *Reviewer {
	if r == nil {
		r = &rules.Rules{}
	}
	return &Reviewer{model: model, rules: r}
}

// Review audits the candidate. usedTables must be the retrieved candidates
// the SQL claims to reference so the reviewer sees only relevant schema.
func (rv *Reviewer) Review(ctx context.Context, question string, intent *models.Intent, usedTables []models.TableCandidate, cand *models.SQLCandidate) (*models.ReviewVerdict, error) {
	prompt := fmt.Sprintf(reviewUserPrompt,
		question,
		asJSON(intent),
		asJSON(usedTables),
		cand.SQL,
		rv.rules.PromptText(),
	)

	raw, err := rv.model.Chat(ctx, prompt, reviewSystemPrompt)
	if err != nil {
		return nil, fmt.Errorf("review sql: %w", err)
	}

	verdict, err := llm.Decode[models.ReviewVerdict](raw)
	if err != nil {
		return nil, fmt.Errorf("review sql: %w", err)
	}
	return &verdict, nil
}

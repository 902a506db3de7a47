package synthesis

import (
	"context"
	"fmt"

	"github.com/sqlwise/sqlmcp-go/internal/llm"
	"github.com/sqlwise/sqlmcp-go/internal/models"
)

// Extractor derives the structured analytical intent of a question. The
// intent splits into retrieval-facing fields kept free of literal values and
// logic fields carrying the exact filter values, so the search text can feed
// embedding similarity without value noise.
type Extractor struct {
	model ChatModel
}

func NewExtractor(model ChatModel) *Extractor {
	return &Extractor{model: model}
}

// Extract asks the model for the intent JSON. Malformed output surfaces as
// an error; the controller treats it as one consumed attempt.
func (e *Extractor) Extract(ctx context.Context, question string) (*models.Intent, error) {
	raw, err := e.model.Chat(ctx, fmt.Sprintf(intentPrompt, question), "")
	if err != nil {
		return nil, fmt.Errorf("extract intent: %w", err)
	}

	intent, err := llm.Decode[models.Intent](raw)
	if err != nil {
		return nil, fmt.Errorf("extract intent: %w", err)
	}
	return &intent, nil
}

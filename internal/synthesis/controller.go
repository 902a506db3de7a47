package synthesis

import (
	"context"
	"log/slog"

	"github.com/sqlwise/sqlmcp-go/internal/models"
)

const (
	// maxAttempts bounds the analyze/retrieve/synthesize/review loop.
	maxAttempts = 5

	// initialThreshold is the similarity cut for the first retrieval.
	// Each re-retrieval lowers it by a delta that shrinks geometrically,
	// so retrieval widens quickly at first and converges near 0.5.
	initialThreshold = 0.70
	initialDelta     = 0.10
	deltaDecay       = 0.7

	// reviewGate is the confidence at which a candidate earns a review.
	// Below it the candidate is refined instead; review calls are spent
	// only on candidates that could be accepted.
	reviewGate = 0.9

	// reanalyzeBelow forces a fresh intent extraction and retrieval when
	// the last candidate's confidence signals the table set itself is
	// probably wrong, not just the SQL.
	reanalyzeBelow = 0.2
)

// Seed carries a previously executed statement back into synthesis. SQL is
// refined rather than regenerated; Analysis holds the execution failure
// text, the most recent and most concrete signal about what to fix.
type Seed struct {
	SQL      string
	Analysis string
}

// Controller drives the synthesis state machine: extract intent, retrieve
// candidate tables, generate or refine SQL, and gate high-confidence
// candidates through review. A candidate is returned only when the reviewer
// accepts it; an exhausted budget returns nil without error, leaving the
// caller to decide how to surface the soft failure.
type Controller struct {
	extractor   *Extractor
	retriever   TableRetriever
	synthesizer *Synthesizer
	reviewer    *Reviewer
	logger      *slog.Logger
}

func NewController(extractor *Extractor, retriever TableRetriever, synthesizer *Synthesizer, reviewer *Reviewer, logger *slog.Logger) *Controller {
	return &Controller{
		extractor:   extractor,
		retriever:   retriever,
		synthesizer: synthesizer,
		reviewer:    reviewer,
		logger:      logger,
	}
}

// Produce runs the synthesis loop for one question against one collection.
// Every failed step consumes one attempt; the loop carries forward whatever
// state the failed step left intact.
func (c *Controller) Produce(ctx context.Context, collection, question string, seed *Seed) (*models.SQLCandidate, error) {
	var (
		intent     *models.Intent
		selected   []models.TableCandidate
		matches    []models.TableCandidate
		prior      *models.SQLCandidate
		confidence float64
	)

	threshold := initialThreshold
	delta := initialDelta
	analysis := "None"

	if seed != nil && seed.SQL != "" {
		prior = &models.SQLCandidate{SQL: seed.SQL}
		if seed.Analysis != "" {
			analysis = seed.Analysis
		}
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if intent == nil || confidence < reanalyzeBelow {
			// The first pass without a seed keeps the initial
			// threshold; every later re-analysis widens retrieval.
			if attempt > 1 || prior != nil {
				threshold, delta = lowerThreshold(threshold, delta)
			}

			newIntent, err := c.extractor.Extract(ctx, question)
			if err != nil {
				c.logger.Debug("intent extraction failed", "attempt", attempt, "error", err)
				continue
			}
			intent = newIntent

			sel, all, err := c.retriever.Retrieve(ctx, collection, intent.SearchText, threshold)
			if err != nil {
				c.logger.Debug("retrieval failed", "attempt", attempt, "threshold", threshold, "error", err)
				continue
			}
			selected, matches = sel, all
			c.logger.Debug("tables retrieved", "attempt", attempt, "threshold", threshold,
				"selected", len(selected), "matched", len(matches))
		}

		var cand *models.SQLCandidate
		var err error
		if prior == nil {
			cand, err = c.synthesizer.Generate(ctx, question, intent, selected)
		} else {
			cand, err = c.synthesizer.Refine(ctx, question, intent, selected, prior, analysis)
		}
		if err != nil {
			c.logger.Debug("synthesis failed", "attempt", attempt, "error", err)
			continue
		}

		confidence = cand.Confidence
		if prior != nil && cand.Analysis != "" {
			analysis = cand.Analysis
		}
		prior = cand
		c.logger.Debug("candidate synthesized", "attempt", attempt, "confidence", confidence)

		if confidence < reviewGate {
			continue
		}

		verdict, err := c.reviewer.Review(ctx, question, intent, usedCandidates(matches, selected, cand.UsedTables), cand)
		if err != nil {
			c.logger.Debug("review failed", "attempt", attempt, "error", err)
			continue
		}
		if verdict.IsCorrect {
			c.logger.Info("candidate accepted", "attempt", attempt, "confidence", confidence)
			return cand, nil
		}
		analysis = verdict.Analysis
		c.logger.Debug("candidate rejected", "attempt", attempt, "analysis", analysis)
	}

	c.logger.Info("synthesis budget exhausted", "question", question)
	return nil, nil
}

// lowerThreshold widens retrieval one step: the threshold drops by delta,
// never below zero, and the next delta shrinks geometrically.
func lowerThreshold(threshold, delta float64) (float64, float64) {
	threshold -= delta
	if threshold < 0 {
		threshold = 0
	}
	return threshold, delta * deltaDecay
}

// usedCandidates narrows the full match list to the tables the SQL claims to
// use, so the reviewer audits against relevant schema only. When nothing
// lines up the selected set is passed through instead of an empty schema.
func usedCandidates(matches, selected []models.TableCandidate, used []models.UsedTable) []models.TableCandidate {
	var out []models.TableCandidate
	for _, cand := range matches {
		for _, u := range used {
			if cand.Database == u.Database && cand.Table == u.Table {
				out = append(out, cand)
				break
			}
		}
	}
	if len(out) == 0 {
		return selected
	}
	return out
}

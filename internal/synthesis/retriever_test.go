package synthesis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlwise/sqlmcp-go/internal/models"
)

func TestRetrieveFiltersByThreshold(t *testing.T) {
	searcher := &fakeSearcher{results: []models.TableCandidate{
		candidateTable("shop", "orders", 0.91),
		candidateTable("shop", "customers", 0.82),
		candidateTable("shop", "audit_log", 0.40),
	}}
	r := NewRetriever(&fakeEmbedder{}, searcher)

	selected, all, err := r.Retrieve(t.Context(), "_c", "orders with amount", 0.70)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	require.Len(t, selected, 2)
	assert.Equal(t, "orders", selected[0].Table)
	assert.Equal(t, "customers", selected[1].Table)
}

func TestRetrieveFallsBackToBestMatch(t *testing.T) {
	searcher := &fakeSearcher{results: []models.TableCandidate{
		candidateTable("shop", "orders", 0.55),
		candidateTable("shop", "customers", 0.48),
	}}
	r := NewRetriever(&fakeEmbedder{}, searcher)

	selected, all, err := r.Retrieve(t.Context(), "_c", "orders", 0.70)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	require.Len(t, selected, 1, "below-threshold retrieval keeps the single best match")
	assert.Equal(t, "orders", selected[0].Table)
}

func TestRetrieveNoMatches(t *testing.T) {
	r := NewRetriever(&fakeEmbedder{}, &fakeSearcher{})

	_, _, err := r.Retrieve(t.Context(), "_c", "anything", 0.70)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoMatchingTables))
}

func TestRetrieveEmbedsSearchText(t *testing.T) {
	emb := &fakeEmbedder{}
	searcher := &fakeSearcher{results: []models.TableCandidate{candidateTable("shop", "orders", 0.9)}}
	r := NewRetriever(emb, searcher)

	_, _, err := r.Retrieve(t.Context(), "_c", "customer orders with amount", 0.70)
	require.NoError(t, err)
	require.Len(t, emb.texts, 1)
	assert.Equal(t, "customer orders with amount", emb.texts[0])
}

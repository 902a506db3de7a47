package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarityFromDistance(t *testing.T) {
	tests := []struct {
		name string
		dist float64
		want float64
	}{
		{"identical vectors", 0, 1},
		{"orthogonal vectors", 1, 0.5},
		{"opposite vectors", 2, 0},
		{"numeric overshoot clamps low", 2.0001, 0},
		{"numeric undershoot clamps high", -0.0001, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, similarityFromDistance(tt.dist), 1e-9)
		})
	}
}

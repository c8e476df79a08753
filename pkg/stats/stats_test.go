package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentile(t *testing.T) {
	sorted := SortedInts([]int{3, 0, 2, 1, 0, 1})
	assert.Equal(t, []float64{0, 0, 1, 1, 2, 3}, sorted)

	assert.Equal(t, 0.0, Percentile(sorted, 0))
	assert.Equal(t, 1.0, Percentile(sorted, 50))
	assert.Equal(t, 3.0, Percentile(sorted, 90))
	assert.Equal(t, 3.0, Percentile(sorted, 100))
	assert.Equal(t, 0.0, Percentile(nil, 50))
}

func TestMax(t *testing.T) {
	assert.Equal(t, 0.0, Max(nil))
	assert.Equal(t, 3.0, Max(SortedInts([]int{3, 1})))
}

package classifier

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eyecare/visionai/internal/app/models"
)

func TestClassifyProducesKnownConditions(t *testing.T) {
	m := NewMockWithSource(rand.NewSource(1))

	for i := 0; i < 500; i++ {
		res := m.Classify("scans/any.jpg")

		_, known := Recommendations[res.Condition]
		require.True(t, known, "unknown condition %q", res.Condition)
		assert.Equal(t, Recommendations[res.Condition], res.Recommendation)
	}
}

func TestClassifyConfidenceBounds(t *testing.T) {
	m := NewMockWithSource(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		res := m.Classify("scans/any.jpg")

		assert.GreaterOrEqual(t, res.Confidence, 0.70)
		assert.LessOrEqual(t, res.Confidence, 0.95)
		// rounded to 2 decimals
		assert.InDelta(t, res.Confidence, float64(int(res.Confidence*100+0.5))/100, 1e-9)
	}
}

func TestClassifyEventuallyDrawsEveryCondition(t *testing.T) {
	m := NewMockWithSource(rand.NewSource(7))

	seen := map[models.Condition]bool{}
	for i := 0; i < 2000; i++ {
		seen[m.Classify("scans/any.jpg").Condition] = true
	}

	for cond := range Recommendations {
		assert.True(t, seen[cond], "condition %q never drawn", cond)
	}
}

func TestClassifyDeterministicWithSeed(t *testing.T) {
	a := NewMockWithSource(rand.NewSource(99))
	b := NewMockWithSource(rand.NewSource(99))

	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Classify("x"), b.Classify("x"))
	}
}

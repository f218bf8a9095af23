package classifier

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/eyecare/visionai/internal/app/models"
)

// Result is what the classifier produces for an uploaded scan. The values are
// written to the scan record once and never change afterwards.
type Result struct {
	Condition      models.Condition
	Confidence     float64
	Recommendation string
}

// Classifier analyzes an uploaded eye-scan image. The production
// implementation is a stand-in model; callers must treat the output as
// non-deterministic and inject a stub in tests.
type Classifier interface {
	Classify(imagePath string) Result
}

// weighted draw table for the mock model
var conditionWeights = []struct {
	condition models.Condition
	weight    float64
}{
	{models.ConditionCataract, 0.10},
	{models.ConditionRedness, 0.20},
	{models.ConditionDryness, 0.25},
	{models.ConditionGlaucoma, 0.10},
	{models.ConditionConjunctivitis, 0.20},
	{models.ConditionNormal, 0.15},
}

// Recommendations holds the fixed recommendation text per condition.
var Recommendations = map[models.Condition]string{
	models.ConditionCataract:       "Clouding of the eye's lens detected. Consider consulting an ophthalmologist for further evaluation and potential surgical options.",
	models.ConditionRedness:        "Eye redness detected. This may indicate irritation, allergy, or infection. Monitor symptoms and consult if persistent for more than 48 hours.",
	models.ConditionDryness:        "Signs of dry eyes detected. Use lubricating eye drops, avoid prolonged screen time, and consider using a humidifier.",
	models.ConditionGlaucoma:       "Potential signs of glaucoma detected. Urgent consultation recommended with an eye specialist for pressure testing and treatment.",
	models.ConditionConjunctivitis: "Possible conjunctivitis (pink eye) detected. Practice good hygiene, avoid touching eyes, and consult a doctor for antibiotic treatment if bacterial.",
	models.ConditionNormal:         "No significant issues detected. Maintain regular eye checkups and practice good eye care habits.",
}

// Mock draws a condition from a fixed weighted distribution and a confidence
// uniformly from [0.70, 0.95], rounded to two decimals.
type Mock struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewMock creates a mock classifier seeded from the current time.
func NewMock() *Mock {
	return NewMockWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewMockWithSource creates a mock classifier with a caller-provided source,
// so tests can make the draw deterministic.
func NewMockWithSource(src rand.Source) *Mock {
	return &Mock{rng: rand.New(src)}
}

// Classify implements Classifier. The image content is not inspected.
func (m *Mock) Classify(_ string) Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	condition := m.drawCondition()
	confidence := math.Round((0.70+m.rng.Float64()*0.25)*100) / 100

	return Result{
		Condition:      condition,
		Confidence:     confidence,
		Recommendation: Recommendations[condition],
	}
}

func (m *Mock) drawCondition() models.Condition {
	r := m.rng.Float64()
	acc := 0.0
	for _, cw := range conditionWeights {
		acc += cw.weight
		if r < acc {
			return cw.condition
		}
	}
	// Float accumulation can land a hair under 1.0; the last bucket wins.
	return conditionWeights[len(conditionWeights)-1].condition
}

package reembed

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeVectorUnitLength(t *testing.T) {
	v := NormalizeVector([]float32{3, 4})

	var magnitude float64
	for _, val := range v {
		magnitude += float64(val) * float64(val)
	}
	assert.InDelta(t, 1.0, math.Sqrt(magnitude), 1e-6)
	assert.InDelta(t, 0.6, float64(v[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(v[1]), 1e-6)
}

func TestNormalizeVectorZero(t *testing.T) {
	v := NormalizeVector([]float32{0, 0, 0})
	assert.Equal(t, []float32{0, 0, 0}, v)
}

func TestNormalizeVectorEmpty(t *testing.T) {
	assert.Empty(t, NormalizeVector(nil))
}

func TestNormalizeVectorDoesNotMutateInput(t *testing.T) {
	in := []float32{2, 0}
	NormalizeVector(in)
	assert.Equal(t, []float32{2, 0}, in)
}

package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCoversDefaultScale(t *testing.T) {
	scale := DefaultScale()
	for score := 0; score <= 100; score++ {
		grade, ok, err := scale.Resolve(float64(score))
		require.NoError(t, err)
		require.True(t, ok, "score %d must resolve", score)
		assert.NotEmpty(t, grade.Letter)
		assert.NotEmpty(t, grade.Remark)
	}
}

func TestResolveMonotonic(t *testing.T) {
	scale := DefaultScale()
	bandMin := func(score float64) float64 {
		grade, ok, err := scale.Resolve(score)
		require.NoError(t, err)
		require.True(t, ok)
		for _, band := range scale.Bands {
			if band.Grade == grade.Letter {
				return band.Min
			}
		}
		t.Fatalf("band not found for %s", grade.Letter)
		return 0
	}
	prev := bandMin(0)
	for score := 1; score <= 100; score++ {
		current := bandMin(float64(score))
		assert.GreaterOrEqual(t, current, prev, "band floor must not decrease at %d", score)
		prev = current
	}
}

func TestResolveFractionalAverage(t *testing.T) {
	grade, ok, err := DefaultScale().Resolve(79.5)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "A1", grade.Letter)
}

func TestResolveUngraded(t *testing.T) {
	scale := Scale{PassMark: 40, Bands: []Band{{Min: 0, Max: 39, Grade: "F", Remark: "Fail"}}}
	_, ok, err := scale.Resolve(55)
	require.NoError(t, err)
	assert.False(t, ok, "score outside every band yields the ungraded sentinel")
}

func TestResolveEmptyScale(t *testing.T) {
	_, _, err := Scale{}.Resolve(50)
	assert.ErrorIs(t, err, ErrNoBands)
	assert.ErrorIs(t, Scale{}.Validate(), ErrNoBands)
}

func TestResolveOverlappingBandsDeterministic(t *testing.T) {
	// Malformed config: two bands cover 45. The higher-floored band wins
	// regardless of slice order.
	bands := []Band{
		{Min: 0, Max: 50, Grade: "LOW", Remark: "low"},
		{Min: 40, Max: 100, Grade: "HIGH", Remark: "high"},
	}
	forward := Scale{Bands: bands}
	reversed := Scale{Bands: []Band{bands[1], bands[0]}}

	g1, ok, err := forward.Resolve(45)
	require.NoError(t, err)
	require.True(t, ok)
	g2, ok, err := reversed.Resolve(45)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "HIGH", g1.Letter)
	assert.Equal(t, g1, g2)
}

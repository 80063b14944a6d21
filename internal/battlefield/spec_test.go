package battlefield

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDimensions_Validate(t *testing.T) {
	assert.NoError(t, Default().Validate())
	assert.NoError(t, Dimensions{Width: 0.5, Height: 1000}.Validate())

	for _, d := range []Dimensions{
		{Width: 0, Height: 10},
		{Width: 10, Height: -1},
		{Width: math.NaN(), Height: 10},
		{Width: 10, Height: math.Inf(1)},
	} {
		assert.ErrorIs(t, d.Validate(), ErrInvalidDimensions, d.String())
	}
}

func TestDefault(t *testing.T) {
	d := Default()
	assert.Equal(t, 48.0, d.Width)
	assert.Equal(t, 72.0, d.Height)
	assert.Equal(t, "48x72 in", d.String())
}

func TestPresets(t *testing.T) {
	names := List()
	require.NotEmpty(t, names)
	assert.True(t, sort.StringsAreSorted(names))

	for _, name := range names {
		p, err := Get(name)
		require.NoError(t, err)
		assert.NoError(t, p.Dimensions.Validate(), name)
	}

	p, err := Get(PresetSixByFour)
	require.NoError(t, err)
	assert.Equal(t, Dimensions{Width: 72, Height: 48}, p.Dimensions)

	_, err = Get("Kitchen table")
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

package selection

import (
	"testing"

	"battlemap/internal/unit"
	"battlemap/pkg/colorutil"
	"battlemap/pkg/geometry"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore(t *testing.T, names ...string) *unit.Store {
	t.Helper()
	s := unit.NewStore()
	for i, n := range names {
		_, err := s.Add(unit.Unit{
			Name:            n,
			Position:        geometry.NewPoint2D(float64(i), 0),
			SizeMillimeters: 32,
			Shape:           unit.Circle,
			Color:           colorutil.UnitBlue,
		})
		require.NoError(t, err)
	}
	return s
}

func TestController_SelectCommit(t *testing.T) {
	s := seededStore(t, "a", "b", "c")
	c := NewController(s, zerolog.Nop())
	before := s.Snapshot().Units()

	u, _ := s.Get(1)
	c.Select(u, 1)
	sel, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, 1, sel.Index)
	assert.Equal(t, "b", sel.Unit.Name)

	edited := sel.Unit
	edited.Name = "b-edited"
	edited.Shape = unit.Square
	require.NoError(t, c.Commit(edited))

	assert.False(t, c.Active())
	after := s.Snapshot().Units()
	assert.Equal(t, before[0], after[0])
	assert.Equal(t, before[2], after[2])
	assert.Equal(t, edited, after[1])
}

func TestController_ReselectDiscardsPendingEdit(t *testing.T) {
	s := seededStore(t, "a", "b")
	c := NewController(s, zerolog.Nop())
	before := s.Snapshot().Units()

	first, _ := s.Get(0)
	c.Select(first, 0)
	first.Name = "never committed"

	second, _ := s.Get(1)
	c.Select(second, 1)
	second.Name = "b2"
	require.NoError(t, c.Commit(second))

	after := s.Snapshot().Units()
	assert.Equal(t, before[0], after[0], "first edit was discarded")
	assert.Equal(t, "b2", after[1].Name)
}

func TestController_CommitWithoutSelection(t *testing.T) {
	c := NewController(seededStore(t, "a"), zerolog.Nop())
	assert.ErrorIs(t, c.Commit(unit.Unit{}), ErrNoSelection)
}

func TestController_CommitRejectedKeepsSelection(t *testing.T) {
	s := seededStore(t, "a")
	c := NewController(s, zerolog.Nop())
	u, _ := s.Get(0)
	c.Select(u, 0)

	u.SizeMillimeters = -1
	err := c.Commit(u)
	assert.ErrorIs(t, err, unit.ErrInvalidUnit)
	assert.True(t, c.Active())
}

func TestController_CommitStaleIndex(t *testing.T) {
	s := seededStore(t, "a")
	c := NewController(s, zerolog.Nop())
	u, _ := s.Get(0)
	c.Select(u, 4)

	assert.ErrorIs(t, c.Commit(u), unit.ErrIndexOutOfRange)
}

func TestController_Cancel(t *testing.T) {
	s := seededStore(t, "a")
	c := NewController(s, zerolog.Nop())
	v := s.Version()

	u, _ := s.Get(0)
	c.Select(u, 0)
	assert.True(t, c.Cancel())
	assert.False(t, c.Active())
	assert.False(t, c.Cancel())
	assert.Equal(t, v, s.Version())
}

// Package selection tracks the single unit currently open for editing.
package selection

import (
	"errors"
	"fmt"

	"battlemap/internal/logging"
	"battlemap/internal/unit"

	"github.com/rs/zerolog"
)

// ErrNoSelection is returned by Commit when nothing is selected.
var ErrNoSelection = errors.New("no unit selected")

// Selection references a unit by its index at selection time. Unit is the
// working copy the edit form starts from.
type Selection struct {
	Unit  unit.Unit
	Index int
}

// Replacer is the store operation a commit writes through.
type Replacer interface {
	Replace(index int, u unit.Unit) error
}

// Controller holds at most one selection.
type Controller struct {
	store   Replacer
	current *Selection
	logger  zerolog.Logger
}

// NewController creates a controller that commits into store.
func NewController(store Replacer, logger zerolog.Logger) *Controller {
	return &Controller{
		store:  store,
		logger: logging.Component(logger, "selection"),
	}
}

// Select opens u (found at index) for editing. A pending, uncommitted edit
// of another unit is discarded.
func (c *Controller) Select(u unit.Unit, index int) {
	if c.current != nil {
		c.logger.Debug().Int("discarded", c.current.Index).Int("selected", index).Msg("replacing uncommitted selection")
	}
	c.current = &Selection{Unit: u, Index: index}
}

// Current returns the selection, if any.
func (c *Controller) Current() (Selection, bool) {
	if c.current == nil {
		return Selection{}, false
	}
	return *c.current, true
}

// Active reports whether a unit is selected.
func (c *Controller) Active() bool {
	return c.current != nil
}

// Commit writes updated back at the selected index and clears the
// selection. If the store rejects the write the selection is kept so the
// form can be corrected.
func (c *Controller) Commit(updated unit.Unit) error {
	if c.current == nil {
		return ErrNoSelection
	}
	if err := c.store.Replace(c.current.Index, updated); err != nil {
		return fmt.Errorf("commit unit %d: %w", c.current.Index, err)
	}
	c.logger.Debug().Int("index", c.current.Index).Str("name", updated.Name).Msg("unit committed")
	c.current = nil
	return nil
}

// Cancel clears the selection without writing anything back.
func (c *Controller) Cancel() bool {
	had := c.current != nil
	c.current = nil
	return had
}

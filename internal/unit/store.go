package unit

import (
	"errors"
	"fmt"
	"sync"

	"battlemap/internal/imageload"
	"battlemap/pkg/geometry"

	"github.com/google/uuid"
)

var (
	// ErrIndexOutOfRange is returned when an index does not address a unit.
	ErrIndexOutOfRange = errors.New("unit index out of range")

	// ErrUnknownUnit is returned when no unit carries the given ID.
	ErrUnknownUnit = errors.New("unknown unit")
)

// Snapshot is an immutable view of the store at one version. Holding a
// snapshot is safe across later mutations: the store never writes into a
// backing array it has handed out.
type Snapshot struct {
	units   []Unit
	version uint64
}

// Len returns the number of units.
func (s Snapshot) Len() int {
	return len(s.units)
}

// At returns the unit at index i. It panics if i is out of range.
func (s Snapshot) At(i int) Unit {
	return s.units[i]
}

// Units returns a copy of the units in order.
func (s Snapshot) Units() []Unit {
	out := make([]Unit, len(s.units))
	copy(out, s.units)
	return out
}

// Version identifies the mutation that produced this snapshot.
func (s Snapshot) Version() uint64 {
	return s.version
}

// Store owns the ordered unit collection and is its single writer.
//
// Every mutation copies the backing slice, so a mutation costs O(n) in the
// number of units. That is fine for tabletop-sized armies; a store holding
// thousands of units would want a persistent vector instead.
type Store struct {
	mu        sync.RWMutex
	units     []Unit
	version   uint64
	listeners []func(Snapshot)
	newID     func() string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{newID: uuid.NewString}
}

// OnChange registers a listener called with the new snapshot after every
// successful mutation.
func (s *Store) OnChange(listener func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

// Snapshot returns the current immutable view.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{units: s.units, version: s.version}
}

// Len returns the number of units.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.units)
}

// Version returns the current version counter.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Get returns the unit at index.
func (s *Store) Get(index int) (Unit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkIndex(index); err != nil {
		return Unit{}, err
	}
	return s.units[index], nil
}

// IndexOf returns the current index of the unit with the given ID.
func (s *Store) IndexOf(id string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(id)
}

// Add appends a unit and returns its ID. A unit without an ID is given one.
// Add only fails when the unit violates an invariant.
func (s *Store) Add(u Unit) (string, error) {
	if err := u.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	if u.ID == "" {
		u.ID = s.newID()
	}
	if _, dup := s.indexOf(u.ID); dup {
		s.mu.Unlock()
		return "", fmt.Errorf("%w: duplicate id %s", ErrInvalidUnit, u.ID)
	}
	next := make([]Unit, len(s.units), len(s.units)+1)
	copy(next, s.units)
	next = append(next, u)
	snap := s.commit(next)
	s.mu.Unlock()

	s.notify(snap)
	return u.ID, nil
}

// UpdatePosition replaces only the position of the unit at index.
func (s *Store) UpdatePosition(index int, pos geometry.Point2D) error {
	if !pos.IsFinite() {
		return fmt.Errorf("%w: position must be finite", ErrInvalidUnit)
	}
	return s.mutate(index, func(u *Unit) error {
		u.Position = pos
		return nil
	})
}

// Replace swaps the entire unit at index. The stored unit keeps its ID.
func (s *Store) Replace(index int, u Unit) error {
	if err := u.Validate(); err != nil {
		return err
	}
	return s.mutate(index, func(cur *Unit) error {
		u.ID = cur.ID
		*cur = u
		return nil
	})
}

// SetImage installs an image handle on the unit with the given ID and
// returns the handle it replaced.
func (s *Store) SetImage(id string, h imageload.Handle) (imageload.Handle, error) {
	s.mu.RLock()
	index, ok := s.indexOf(id)
	s.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownUnit, id)
	}
	var prev imageload.Handle
	err := s.mutate(index, func(u *Unit) error {
		if u.ID != id {
			// the collection moved between lookup and write
			return fmt.Errorf("%w: %s", ErrUnknownUnit, id)
		}
		prev = u.Image
		u.Image = h
		return nil
	})
	return prev, err
}

func (s *Store) mutate(index int, fn func(*Unit) error) error {
	s.mu.Lock()
	if err := s.checkIndex(index); err != nil {
		s.mu.Unlock()
		return err
	}
	next := make([]Unit, len(s.units))
	copy(next, s.units)
	if err := fn(&next[index]); err != nil {
		s.mu.Unlock()
		return err
	}
	snap := s.commit(next)
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

func (s *Store) commit(next []Unit) Snapshot {
	s.units = next
	s.version++
	return Snapshot{units: next, version: s.version}
}

func (s *Store) notify(snap Snapshot) {
	s.mu.RLock()
	listeners := s.listeners
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(snap)
	}
}

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.units) {
		return fmt.Errorf("%w: index %d, have %d units", ErrIndexOutOfRange, index, len(s.units))
	}
	return nil
}

func (s *Store) indexOf(id string) (int, bool) {
	for i, u := range s.units {
		if u.ID == id {
			return i, true
		}
	}
	return -1, false
}

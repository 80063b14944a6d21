// Package mapframe composes the unit store, the measurement gesture and the
// edit selection into one map, translating renderer input into model
// operations and model state into a render-agnostic Scene.
//
// Frame methods may be called from any goroutine; they are serialized on
// an internal lock. Listeners run after the lock is released, so they may
// call back into the frame.
package mapframe

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"battlemap/internal/battlefield"
	"battlemap/internal/coords"
	"battlemap/internal/form"
	"battlemap/internal/imageload"
	"battlemap/internal/logging"
	"battlemap/internal/measure"
	"battlemap/internal/selection"
	"battlemap/internal/unit"
	"battlemap/pkg/colorutil"
	"battlemap/pkg/geometry"

	"github.com/rs/zerolog"
)

// ErrEditDiscarded is returned by SubmitUnit when the selected unit could
// not be written back and edit mode was left without saving.
var ErrEditDiscarded = errors.New("edit discarded")

// Options configures a Frame.
type Options struct {
	Dimensions         battlefield.Dimensions
	System             coords.System
	FormDefaults       form.Defaults
	LabelOffset        float64
	LabelFontSize      float64
	MeasureColor       color.NRGBA
	MeasureStrokeWidth float64

	// StrictInvariants panics on an invariant violation instead of
	// logging it and carrying on.
	StrictInvariants bool
}

// DefaultOptions returns the stock editor settings.
func DefaultOptions() Options {
	return Options{
		Dimensions:         battlefield.Default(),
		System:             coords.System{MMPerInch: coords.MillimetersPerInch},
		FormDefaults:       form.Defaults{SizeMillimeters: 25, Shape: unit.Circle, Color: "#007bff"},
		LabelOffset:        20,
		LabelFontSize:      14,
		MeasureColor:       colorutil.Red,
		MeasureStrokeWidth: 2,
	}
}

// SelectionEvent is the payload of EventSelectionChanged. Values is the
// form content the editor should show.
type SelectionEvent struct {
	Editing bool
	Index   int
	Values  form.Values
}

// Frame is one battle map.
type Frame struct {
	mu         sync.Mutex
	opts       Options
	system     coords.System
	dims       battlefield.Dimensions
	background imageload.Handle
	store      *unit.Store
	gesture    *measure.Gesture
	selection  *selection.Controller
	loader     *imageload.Loader
	logger     zerolog.Logger
	pending    []event

	lmu       sync.RWMutex
	listeners map[EventType][]EventListener
}

// New creates a frame with an empty store. Rejected dimensions in opts fall
// back to the default map size.
func New(opts Options, loader *imageload.Loader, logger zerolog.Logger) *Frame {
	logger = logging.Component(logger, "mapframe")
	if err := opts.Dimensions.Validate(); err != nil {
		logger.Warn().Err(err).Msg("using default map dimensions")
		opts.Dimensions = battlefield.Default()
	}

	f := &Frame{
		opts:      opts,
		system:    opts.System,
		dims:      opts.Dimensions,
		store:     unit.NewStore(),
		gesture:   measure.NewGesture(opts.System),
		loader:    loader,
		logger:    logger,
		listeners: make(map[EventType][]EventListener),
	}
	f.selection = selection.NewController(f.store, logger)

	// Every store mutation happens under f.mu, so queueing here is safe.
	f.store.OnChange(func(snap unit.Snapshot) {
		f.queue(EventUnitsChanged, snap)
	})
	return f
}

// update runs fn under the frame lock and then emits what it queued.
func (f *Frame) update(fn func() error) error {
	pending, err := f.locked(fn)
	for _, ev := range pending {
		f.Emit(ev.kind, ev.data)
	}
	return err
}

func (f *Frame) locked(fn func() error) ([]event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := fn()
	pending := f.pending
	f.pending = nil
	return pending, err
}

// violation handles an index that should always be valid but was not.
func (f *Frame) violation(op string, err error) {
	if f.opts.StrictInvariants {
		panic(fmt.Sprintf("mapframe: %s: %v", op, err))
	}
	f.logger.Error().Err(err).Str("op", op).Msg("invariant violation ignored")
}

// Units returns the current unit snapshot.
func (f *Frame) Units() unit.Snapshot {
	return f.store.Snapshot()
}

// Image resolves an image handle for the renderer.
func (f *Frame) Image(h imageload.Handle) image.Image {
	return f.loader.Library().Get(h)
}

// System returns the frame's coordinate system.
func (f *Frame) System() coords.System {
	return f.system
}

// Dimensions returns the map size in inches.
func (f *Frame) Dimensions() battlefield.Dimensions {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dims
}

// SetDimensions resizes the map. Invalid sizes are rejected and the
// previous size is kept.
func (f *Frame) SetDimensions(d battlefield.Dimensions) error {
	return f.update(func() error {
		if err := d.Validate(); err != nil {
			return err
		}
		if d == f.dims {
			return nil
		}
		f.dims = d
		f.logger.Debug().Str("dimensions", d.String()).Msg("map resized")
		f.queue(EventMapChanged, d)
		return nil
	})
}

// SetDimensionsInput resizes the map from raw form text.
func (f *Frame) SetDimensionsInput(width, height string) error {
	w, werr := form.ParseDimension(form.FieldWidth, width)
	h, herr := form.ParseDimension(form.FieldHeight, height)
	if werr != nil || herr != nil {
		return mergeValidation(werr, herr)
	}
	return f.SetDimensions(battlefield.Dimensions{Width: w, Height: h})
}

// ApplyPreset resizes the map to a named table size.
func (f *Frame) ApplyPreset(name string) error {
	p, err := battlefield.Get(name)
	if err != nil {
		return err
	}
	return f.SetDimensions(p.Dimensions)
}

// Background returns the current background handle.
func (f *Frame) Background() imageload.Handle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.background
}

// LoadBackground starts decoding a new background image. The previous
// background stays until the decode completes.
func (f *Frame) LoadBackground(ctx context.Context, data []byte) {
	f.loader.Load(ctx, imageload.BackgroundTarget(), data)
}

// Editing reports whether a unit is open in the edit form.
func (f *Frame) Editing() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selection.Active()
}

// FormValues returns what the edit form should show: the selected unit in
// edit mode, the defaults otherwise.
func (f *Frame) FormValues() form.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cur, ok := f.selection.Current(); ok {
		return form.FromUnit(cur.Unit)
	}
	return form.New(f.opts.FormDefaults)
}

// SubmitUnit applies the edit form. With no selection it adds a new unit;
// otherwise it writes the edit back over the selected unit. When image is
// non-empty it is decoded in the background and installed on completion.
// It returns the ID of the added or updated unit, or ErrEditDiscarded when
// the selection no longer points at a unit.
func (f *Frame) SubmitUnit(ctx context.Context, v form.Values, img []byte) (string, error) {
	parsed, err := v.Parse()
	if err != nil {
		return "", err
	}

	var id string
	err = f.update(func() error {
		cur, editing := f.selection.Current()
		if !editing {
			added, err := f.store.Add(parsed)
			if err != nil {
				return err
			}
			id = added
			f.logger.Info().Str("unit", id).Str("name", parsed.Name).Msg("unit added")
			return nil
		}

		parsed.ID = cur.Unit.ID
		parsed.Image = cur.Unit.Image
		if err := f.selection.Commit(parsed); err != nil {
			if errors.Is(err, unit.ErrIndexOutOfRange) {
				f.violation("commit", err)
				f.selection.Cancel()
				f.queue(EventSelectionChanged, f.selectionEvent())
				return fmt.Errorf("%w: %v", ErrEditDiscarded, err)
			}
			return err
		}
		id = parsed.ID
		f.logger.Info().Str("unit", id).Int("index", cur.Index).Msg("unit updated")
		f.queue(EventSelectionChanged, f.selectionEvent())
		return nil
	})
	if err != nil {
		return "", err
	}

	if len(img) > 0 {
		f.loader.Load(ctx, imageload.UnitTarget(id), img)
	}
	return id, nil
}

// CancelEdit leaves edit mode without writing anything back.
func (f *Frame) CancelEdit() bool {
	var cancelled bool
	_ = f.update(func() error {
		cancelled = f.selection.Cancel()
		if cancelled {
			f.queue(EventSelectionChanged, f.selectionEvent())
		}
		return nil
	})
	return cancelled
}

// UnitTapped opens the unit at index for editing.
func (f *Frame) UnitTapped(index int) error {
	return f.update(func() error {
		u, err := f.store.Get(index)
		if err != nil {
			f.violation("select", err)
			return nil
		}
		f.selection.Select(u, index)
		f.queue(EventSelectionChanged, f.selectionEvent())
		return nil
	})
}

// UnitDragEnd stores the dropped position of the unit at index. renderPos
// is the shape centre in render pixels.
func (f *Frame) UnitDragEnd(index int, renderPos geometry.Point2D) error {
	pos := f.system.ToPhysicalInches(renderPos)
	return f.update(func() error {
		err := f.store.UpdatePosition(index, pos)
		if errors.Is(err, unit.ErrIndexOutOfRange) {
			f.violation("drag", err)
			return nil
		}
		return err
	})
}

// SecondaryPress starts a measurement at p (render pixels), replacing any
// line already shown.
func (f *Frame) SecondaryPress(p geometry.Point2D) {
	_ = f.update(func() error {
		f.gesture.Press(p)
		f.queue(EventMeasurementChanged, f.gesture.Reading())
		return nil
	})
}

// PointerMove extends an active measurement to p.
func (f *Frame) PointerMove(p geometry.Point2D) {
	_ = f.update(func() error {
		if f.gesture.Move(p) {
			f.queue(EventMeasurementChanged, f.gesture.Reading())
		}
		return nil
	})
}

// SecondaryRelease completes an active measurement and returns its reading.
func (f *Frame) SecondaryRelease() (measure.Reading, bool) {
	var (
		r  measure.Reading
		ok bool
	)
	_ = f.update(func() error {
		r, ok = f.gesture.Release()
		if ok {
			f.logger.Debug().Stringer("reading", r).Msg("measurement complete")
			f.queue(EventMeasurementChanged, r)
		}
		return nil
	})
	return r, ok
}

// DoubleClick clears the measurement line and reading.
func (f *Frame) DoubleClick() {
	_ = f.update(func() error {
		if f.gesture.Dismiss() {
			f.queue(EventMeasurementChanged, f.gesture.Reading())
		}
		return nil
	})
}

// Reading returns the last completed measurement.
func (f *Frame) Reading() measure.Reading {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gesture.Reading()
}

// MeasureState returns the gesture state.
func (f *Frame) MeasureState() measure.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gesture.State()
}

// ApplyImage installs a finished decode. Failed decodes leave the target
// unchanged, so a unit keeps its flat color and the map its old background.
func (f *Frame) ApplyImage(res imageload.Result) {
	_ = f.update(func() error {
		if res.Err != nil {
			f.logger.Warn().Err(res.Err).Str("target", res.Target.Kind.String()).
				Str("unit", res.Target.UnitID).Msg("image not applied")
			return nil
		}

		library := f.loader.Library()
		switch res.Target.Kind {
		case imageload.TargetBackground:
			prev := f.background
			f.background = res.Handle
			if prev != res.Handle {
				library.Delete(prev)
			}
			f.queue(EventBackgroundChanged, res.Handle)
		case imageload.TargetUnit:
			prev, err := f.store.SetImage(res.Target.UnitID, res.Handle)
			if err != nil {
				library.Delete(res.Handle)
				f.logger.Warn().Err(err).Msg("image not applied")
				return nil
			}
			if prev != res.Handle {
				library.Delete(prev)
			}
		}
		return nil
	})
}

// DrainResults applies loader completions until ctx is done.
func (f *Frame) DrainResults(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case res := <-f.loader.Results():
			f.ApplyImage(res)
		}
	}
}

func (f *Frame) selectionEvent() SelectionEvent {
	if cur, ok := f.selection.Current(); ok {
		return SelectionEvent{Editing: true, Index: cur.Index, Values: form.FromUnit(cur.Unit)}
	}
	return SelectionEvent{Index: -1, Values: form.New(f.opts.FormDefaults)}
}

func mergeValidation(errs ...error) error {
	merged := &form.ValidationError{}
	for _, err := range errs {
		var verr *form.ValidationError
		if errors.As(err, &verr) {
			merged.Fields = append(merged.Fields, verr.Fields...)
		}
	}
	return merged
}

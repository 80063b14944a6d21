// Package imageload decodes uploaded images off the event loop and hands
// back opaque handles that the rest of the core can hold without owning
// pixel data.
package imageload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"sync"

	"battlemap/internal/logging"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedImage is returned when the uploaded bytes cannot be decoded.
var ErrUnsupportedImage = errors.New("unsupported image")

// Handle is an opaque reference to a decoded image held by a Library.
// The empty handle means "no image".
type Handle string

// IsZero reports whether the handle refers to nothing.
func (h Handle) IsZero() bool {
	return h == ""
}

// TargetKind says where a decoded image should be installed.
type TargetKind int

const (
	TargetBackground TargetKind = iota
	TargetUnit
)

func (k TargetKind) String() string {
	switch k {
	case TargetBackground:
		return "background"
	case TargetUnit:
		return "unit"
	default:
		return "unknown"
	}
}

// Target identifies the slot a pending load will fill. Units are keyed by
// their stable ID, never by their position in the store.
type Target struct {
	Kind   TargetKind
	UnitID string
}

// BackgroundTarget is the map background slot.
func BackgroundTarget() Target {
	return Target{Kind: TargetBackground}
}

// UnitTarget is the image slot of the unit with the given ID.
func UnitTarget(id string) Target {
	return Target{Kind: TargetUnit, UnitID: id}
}

// Result is delivered once per Load call.
type Result struct {
	Target Target
	Handle Handle
	Format string
	Err    error
}

// Library maps handles to decoded images.
type Library struct {
	mu     sync.RWMutex
	images map[Handle]image.Image
}

// NewLibrary creates an empty Library.
func NewLibrary() *Library {
	return &Library{images: make(map[Handle]image.Image)}
}

// Put stores an image and returns its new handle.
func (l *Library) Put(img image.Image) Handle {
	h := Handle("img-" + uuid.NewString())
	l.mu.Lock()
	l.images[h] = img
	l.mu.Unlock()
	return h
}

// Get returns the image for a handle, or nil.
func (l *Library) Get(h Handle) image.Image {
	if h.IsZero() {
		return nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.images[h]
}

// Delete releases the image for a handle. Unknown and zero handles are
// ignored.
func (l *Library) Delete(h Handle) {
	if h.IsZero() {
		return
	}
	l.mu.Lock()
	delete(l.images, h)
	l.mu.Unlock()
}

// Len returns the number of stored images.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.images)
}

// Decode decodes raw bytes into an image.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty upload", ErrUnsupportedImage)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	return img, format, nil
}

// Loader decodes images in the background and reports completions on a
// channel. The consumer drains Results on the event loop and installs each
// handle into its target.
type Loader struct {
	library *Library
	results chan Result
	logger  zerolog.Logger
	wg      sync.WaitGroup
}

// NewLoader creates a Loader backed by library. buffer sizes the results
// channel; pending loads block once it is full.
func NewLoader(library *Library, buffer int, logger zerolog.Logger) *Loader {
	if buffer < 1 {
		buffer = 1
	}
	return &Loader{
		library: library,
		results: make(chan Result, buffer),
		logger:  logging.Component(logger, "imageload"),
	}
}

// Library returns the backing image library.
func (l *Loader) Library() *Library {
	return l.library
}

// Results returns the completion channel.
func (l *Loader) Results() <-chan Result {
	return l.results
}

// Load starts decoding data for target. Exactly one Result is sent unless
// ctx is cancelled first.
func (l *Loader) Load(ctx context.Context, target Target, data []byte) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()

		res := Result{Target: target}
		img, format, err := Decode(data)
		if err != nil {
			l.logger.Warn().Err(err).Str("target", target.Kind.String()).Str("unit", target.UnitID).Msg("image decode failed")
			res.Err = err
		} else {
			res.Handle = l.library.Put(img)
			res.Format = format
			l.logger.Debug().Str("target", target.Kind.String()).Str("unit", target.UnitID).
				Str("format", format).Str("handle", string(res.Handle)).Msg("image decoded")
		}

		select {
		case l.results <- res:
		case <-ctx.Done():
			l.logger.Debug().Str("target", target.Kind.String()).Msg("image load abandoned")
		}
	}()
}

// Wait blocks until all started loads have delivered or been abandoned.
func (l *Loader) Wait() {
	l.wg.Wait()
}

package imageload

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func receive(t *testing.T, l *Loader) Result {
	t.Helper()
	select {
	case res := <-l.Results():
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for image result")
		return Result{}
	}
}

func TestDecode_PNG(t *testing.T) {
	img, format, err := Decode(pngBytes(t, 4, 3))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())
}

func TestDecode_Rejects(t *testing.T) {
	_, _, err := Decode(nil)
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, _, err = Decode([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestLibrary(t *testing.T) {
	lib := NewLibrary()
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))

	h := lib.Put(img)
	assert.False(t, h.IsZero())
	assert.Same(t, img, lib.Get(h))
	assert.Nil(t, lib.Get(""))
	assert.Nil(t, lib.Get("img-missing"))
	assert.Equal(t, 1, lib.Len())

	lib.Delete("")
	lib.Delete("img-missing")
	assert.Equal(t, 1, lib.Len())
	lib.Delete(h)
	assert.Nil(t, lib.Get(h))
	assert.Equal(t, 0, lib.Len())
}

func TestLoader_DeliversHandleForUnit(t *testing.T) {
	lib := NewLibrary()
	l := NewLoader(lib, 4, zerolog.Nop())

	l.Load(context.Background(), UnitTarget("unit-1"), pngBytes(t, 2, 2))
	res := receive(t, l)

	require.NoError(t, res.Err)
	assert.Equal(t, UnitTarget("unit-1"), res.Target)
	assert.Equal(t, "png", res.Format)
	require.NotNil(t, lib.Get(res.Handle))
	assert.Equal(t, image.Rect(0, 0, 2, 2), lib.Get(res.Handle).Bounds())
}

func TestLoader_DecodeFailureReportsError(t *testing.T) {
	lib := NewLibrary()
	l := NewLoader(lib, 1, zerolog.Nop())

	l.Load(context.Background(), BackgroundTarget(), []byte{0x00, 0x01})
	res := receive(t, l)

	assert.ErrorIs(t, res.Err, ErrUnsupportedImage)
	assert.True(t, res.Handle.IsZero())
	assert.Equal(t, TargetBackground, res.Target.Kind)
	assert.Zero(t, lib.Len())
}

func TestLoader_CancelledContextDropsResult(t *testing.T) {
	l := NewLoader(NewLibrary(), 1, zerolog.Nop())

	// fill the buffer so the second load has to wait on ctx
	l.Load(context.Background(), BackgroundTarget(), pngBytes(t, 1, 1))
	ctx, cancel := context.WithCancel(context.Background())
	l.Load(ctx, UnitTarget("late"), pngBytes(t, 1, 1))
	cancel()

	done := make(chan struct{})
	go func() {
		l.Wait()
		close(done)
	}()

	// Whichever load won the buffer slot, draining once must let Wait finish.
	<-l.Results()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("loader did not finish after cancellation")
	}
}

func TestTargetKind_String(t *testing.T) {
	assert.Equal(t, "background", TargetBackground.String())
	assert.Equal(t, "unit", TargetUnit.String())
	assert.Equal(t, "unknown", TargetKind(9).String())
}

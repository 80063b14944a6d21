package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"battlemap/pkg/colorutil"

	"fyne.io/fyne/v2/theme"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBattleMapTheme(t *testing.T) {
	th := &BattleMapTheme{}
	assert.Equal(t, colorutil.UnitBlue, th.Color(theme.ColorNamePrimary, theme.VariantDark))
	assert.Equal(t, float32(16), th.Size(theme.SizeNameScrollBar))
	assert.Equal(t, theme.DefaultTheme().Size(theme.SizeNamePadding), th.Size(theme.SizeNamePadding))
}

func TestHotReloader_DetectsRebuild(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "battlemap")
	require.NoError(t, os.WriteFile(bin, []byte("v1"), 0755))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(bin, old, old))

	h, err := NewHotReloaderFor(bin, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, bin, h.ExecPath())

	fired := make(chan struct{}, 4)
	h.OnNewBinary(func() { fired <- struct{}{} })
	require.NoError(t, h.Start())
	t.Cleanup(h.Stop)

	require.NoError(t, os.WriteFile(bin, []byte("v2"), 0755))

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("rebuild not detected")
	}
}

func TestHotReloader_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "battlemap")
	require.NoError(t, os.WriteFile(bin, []byte("v1"), 0755))

	h, err := NewHotReloaderFor(bin, zerolog.Nop())
	require.NoError(t, err)
	fired := make(chan struct{}, 1)
	h.OnNewBinary(func() { fired <- struct{}{} })
	require.NoError(t, h.Start())
	t.Cleanup(h.Stop)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	select {
	case <-fired:
		t.Fatal("unrelated file triggered reload")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestNewHotReloaderFor_MissingFile(t *testing.T) {
	_, err := NewHotReloaderFor(filepath.Join(t.TempDir(), "nope"), zerolog.Nop())
	assert.Error(t, err)
}

package dialogs

import (
	"errors"
	"testing"

	"battlemap/internal/battlefield"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
)

func TestMapSizeDialog_Apply(t *testing.T) {
	a := test.NewApp()
	t.Cleanup(a.Quit)
	w := a.NewWindow("test")

	var gotW, gotH string
	d := NewMapSizeDialog(battlefield.Default(), w, func(width, height string) error {
		gotW, gotH = width, height
		return nil
	})
	d.createContent()
	assert.Equal(t, "48", d.widthEntry.Text)
	assert.Equal(t, "72", d.heightEntry.Text)

	d.widthEntry.SetText("44")
	d.apply()
	assert.Equal(t, "44", gotW)
	assert.Equal(t, "72", gotH)
}

func TestMapSizeDialog_ApplyError(t *testing.T) {
	a := test.NewApp()
	t.Cleanup(a.Quit)
	w := a.NewWindow("test")

	calls := 0
	d := NewMapSizeDialog(battlefield.Default(), w, func(string, string) error {
		calls++
		return errors.New("bad size")
	})
	d.createContent()
	d.apply()
	assert.Equal(t, 1, calls)
}

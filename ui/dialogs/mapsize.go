// Package dialogs provides application dialogs.
package dialogs

import (
	"strconv"

	"battlemap/internal/battlefield"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// MapSizeDialog edits the map dimensions.
type MapSizeDialog struct {
	current battlefield.Dimensions
	window  fyne.Window

	widthEntry  *widget.Entry
	heightEntry *widget.Entry

	// onSave receives the raw entries and reports a validation failure.
	onSave func(width, height string) error
}

// NewMapSizeDialog creates a dialog prefilled with current.
func NewMapSizeDialog(current battlefield.Dimensions, window fyne.Window, onSave func(width, height string) error) *MapSizeDialog {
	return &MapSizeDialog{
		current: current,
		window:  window,
		onSave:  onSave,
	}
}

// Show displays the dialog.
func (d *MapSizeDialog) Show() {
	dlg := dialog.NewCustomConfirm(
		"Map Size",
		"Apply",
		"Cancel",
		d.createContent(),
		func(apply bool) {
			if apply {
				d.apply()
			}
		},
		d.window,
	)
	dlg.Resize(fyne.NewSize(360, 200))
	dlg.Show()
}

func (d *MapSizeDialog) createContent() fyne.CanvasObject {
	d.widthEntry = widget.NewEntry()
	d.widthEntry.SetText(formatInches(d.current.Width))

	d.heightEntry = widget.NewEntry()
	d.heightEntry.SetText(formatInches(d.current.Height))

	return widget.NewForm(
		widget.NewFormItem("Width (inches)", d.widthEntry),
		widget.NewFormItem("Height (inches)", d.heightEntry),
	)
}

// apply hands the entries to onSave and shows any rejection.
func (d *MapSizeDialog) apply() {
	if d.onSave == nil {
		return
	}
	if err := d.onSave(d.widthEntry.Text, d.heightEntry.Text); err != nil {
		dialog.ShowError(err, d.window)
	}
}

func formatInches(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

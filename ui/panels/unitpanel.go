package panels

import (
	"context"
	"image/color"

	"battlemap/internal/form"
	"battlemap/internal/logging"
	"battlemap/internal/mapframe"
	"battlemap/internal/unit"
	"battlemap/pkg/colorutil"
	"battlemap/ui/prefs"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"
)

// UnitPanel is the add/edit unit form.
type UnitPanel struct {
	ctx    context.Context
	frame  *mapframe.Frame
	prefs  *prefs.Prefs
	window fyne.Window
	logger zerolog.Logger

	editing bool

	title       *widget.Label
	nameEntry   *widget.Entry
	xEntry      *widget.Entry
	yEntry      *widget.Entry
	sizeEntry   *widget.Entry
	shapeSelect *widget.Select
	colorEntry  *widget.Entry
	swatch      *fynecanvas.Rectangle
	imageLabel  *widget.Label
	imageData   []byte
	submitBtn   *widget.Button
	cancelBtn   *widget.Button

	container fyne.CanvasObject
}

// NewUnitPanel creates the form and binds it to frame's selection.
func NewUnitPanel(ctx context.Context, frame *mapframe.Frame, p *prefs.Prefs, logger zerolog.Logger) *UnitPanel {
	up := &UnitPanel{
		ctx:    ctx,
		frame:  frame,
		prefs:  p,
		logger: logging.Component(logger, "unitpanel"),
	}
	up.build()
	up.SetValues(frame.FormValues(), frame.Editing())

	frame.On(mapframe.EventSelectionChanged, func(data interface{}) {
		if ev, ok := data.(mapframe.SelectionEvent); ok {
			up.SetValues(ev.Values, ev.Editing)
		}
	})
	return up
}

func (up *UnitPanel) build() {
	up.title = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	up.nameEntry = widget.NewEntry()
	up.xEntry = widget.NewEntry()
	up.yEntry = widget.NewEntry()
	up.sizeEntry = widget.NewEntry()

	shapes := make([]string, len(unit.ShapeKinds))
	for i, k := range unit.ShapeKinds {
		shapes[i] = k.String()
	}
	up.shapeSelect = widget.NewSelect(shapes, nil)

	up.swatch = fynecanvas.NewRectangle(colorutil.UnitBlue)
	up.swatch.SetMinSize(fyne.NewSize(24, 24))
	up.colorEntry = widget.NewEntry()
	up.colorEntry.OnChanged = func(s string) {
		if c, err := colorutil.ParseHex(s); err == nil {
			up.swatch.FillColor = c
			up.swatch.Refresh()
		}
	}
	pickBtn := widget.NewButton("Pick...", up.pickColor)

	up.imageLabel = widget.NewLabel("No image")
	imageBtn := widget.NewButton("Choose Image...", up.chooseImage)
	clearBtn := widget.NewButton("Clear", func() { up.setImage("", nil) })

	f := widget.NewForm(
		widget.NewFormItem("Name", up.nameEntry),
		widget.NewFormItem("X (inches)", up.xEntry),
		widget.NewFormItem("Y (inches)", up.yEntry),
		widget.NewFormItem("Size (mm)", up.sizeEntry),
		widget.NewFormItem("Shape", up.shapeSelect),
		widget.NewFormItem("Color", container.NewBorder(nil, nil, up.swatch, pickBtn, up.colorEntry)),
		widget.NewFormItem("Image", container.NewBorder(nil, nil, nil, container.NewHBox(imageBtn, clearBtn), up.imageLabel)),
	)

	up.submitBtn = widget.NewButton("", up.Submit)
	up.submitBtn.Importance = widget.HighImportance
	up.cancelBtn = widget.NewButton("Cancel Edit", func() { up.frame.CancelEdit() })

	up.container = container.NewVBox(
		up.title,
		f,
		container.NewHBox(up.submitBtn, up.cancelBtn),
	)
}

// Container returns the panel container.
func (up *UnitPanel) Container() fyne.CanvasObject {
	return up.container
}

// SetWindow sets the parent window for dialogs.
func (up *UnitPanel) SetWindow(w fyne.Window) {
	up.window = w
}

// SetValues fills the form and switches between add and edit mode.
func (up *UnitPanel) SetValues(v form.Values, editing bool) {
	up.editing = editing
	up.nameEntry.SetText(v.Name)
	up.xEntry.SetText(v.X)
	up.yEntry.SetText(v.Y)
	up.sizeEntry.SetText(v.Size)
	up.shapeSelect.SetSelected(v.Shape)
	up.colorEntry.SetText(v.Color)
	up.setImage("", nil)

	if editing {
		up.title.SetText("Edit Unit")
		up.submitBtn.SetText("Update Unit")
		up.cancelBtn.Enable()
	} else {
		up.title.SetText("Add Unit")
		up.submitBtn.SetText("Add Unit")
		up.cancelBtn.Disable()
	}
}

// Values returns the form content as typed.
func (up *UnitPanel) Values() form.Values {
	return form.Values{
		Name:  up.nameEntry.Text,
		X:     up.xEntry.Text,
		Y:     up.yEntry.Text,
		Size:  up.sizeEntry.Text,
		Shape: up.shapeSelect.Selected,
		Color: up.colorEntry.Text,
	}
}

// Submit adds or updates the unit. Rejected input stays in the form.
func (up *UnitPanel) Submit() {
	wasEditing := up.editing
	id, err := up.frame.SubmitUnit(up.ctx, up.Values(), up.imageData)
	if err != nil {
		up.logger.Debug().Err(err).Msg("unit rejected")
		if up.window != nil {
			dialog.ShowError(err, up.window)
		}
		return
	}
	up.logger.Debug().Str("unit", id).Bool("edit", wasEditing).Msg("unit submitted")
	if !wasEditing {
		// edits reset through the selection event
		up.SetValues(up.frame.FormValues(), false)
	}
}

func (up *UnitPanel) pickColor() {
	if up.window == nil {
		return
	}
	picker := dialog.NewColorPicker("Unit Color", "Choose the fill color", func(c color.Color) {
		up.colorEntry.SetText(colorutil.ToHex(c))
	}, up.window)
	picker.Advanced = true
	picker.Show()
}

func (up *UnitPanel) chooseImage() {
	if up.window == nil {
		return
	}
	openImage(up.window, up.prefs, up.setImage)
}

func (up *UnitPanel) setImage(name string, data []byte) {
	up.imageData = data
	if len(data) == 0 {
		up.imageLabel.SetText("No image")
		return
	}
	up.imageLabel.SetText(name)
}

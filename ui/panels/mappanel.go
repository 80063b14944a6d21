package panels

import (
	"context"
	"strconv"

	"battlemap/internal/battlefield"
	"battlemap/internal/logging"
	"battlemap/internal/mapframe"
	"battlemap/internal/measure"
	"battlemap/ui/dialogs"
	"battlemap/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"
)

// MapPanel edits the map size and background and shows the measured
// distance.
type MapPanel struct {
	ctx    context.Context
	frame  *mapframe.Frame
	prefs  *prefs.Prefs
	window fyne.Window
	logger zerolog.Logger

	widthEntry   *widget.Entry
	heightEntry  *widget.Entry
	presetSelect *widget.Select
	distance     *widget.Label

	container fyne.CanvasObject
}

// NewMapPanel creates the panel and keeps it in sync with frame.
func NewMapPanel(ctx context.Context, frame *mapframe.Frame, p *prefs.Prefs, logger zerolog.Logger) *MapPanel {
	mp := &MapPanel{
		ctx:    ctx,
		frame:  frame,
		prefs:  p,
		logger: logging.Component(logger, "mappanel"),
	}
	mp.build()
	mp.showDimensions(frame.Dimensions())
	mp.showReading(frame.Reading())

	frame.On(mapframe.EventMapChanged, func(data interface{}) {
		if d, ok := data.(battlefield.Dimensions); ok {
			mp.showDimensions(d)
		}
	})
	frame.On(mapframe.EventMeasurementChanged, func(data interface{}) {
		if r, ok := data.(measure.Reading); ok {
			mp.showReading(r)
		}
	})
	return mp
}

func (mp *MapPanel) build() {
	mp.widthEntry = widget.NewEntry()
	mp.heightEntry = widget.NewEntry()
	applyBtn := widget.NewButton("Apply Size", mp.applySize)

	mp.presetSelect = widget.NewSelect(battlefield.List(), func(name string) {
		if err := mp.frame.ApplyPreset(name); err != nil {
			mp.showError(err)
		}
	})
	mp.presetSelect.PlaceHolder = "Table preset"

	customBtn := widget.NewButton("Custom Size...", func() {
		if mp.window == nil {
			return
		}
		dialogs.NewMapSizeDialog(mp.frame.Dimensions(), mp.window, mp.frame.SetDimensionsInput).Show()
	})

	backgroundBtn := widget.NewButton("Load Map Image...", func() {
		if mp.window == nil {
			return
		}
		openImage(mp.window, mp.prefs, func(name string, data []byte) {
			mp.logger.Info().Str("file", name).Int("bytes", len(data)).Msg("loading background")
			mp.frame.LoadBackground(mp.ctx, data)
		})
	})

	mp.distance = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})

	mp.container = container.NewVBox(
		widget.NewLabelWithStyle("Map", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewForm(
			widget.NewFormItem("Width (inches)", mp.widthEntry),
			widget.NewFormItem("Height (inches)", mp.heightEntry),
		),
		container.NewHBox(applyBtn, customBtn),
		mp.presetSelect,
		backgroundBtn,
		widget.NewSeparator(),
		widget.NewLabel("Right-drag to measure, double-click to clear."),
		mp.distance,
	)
}

// Container returns the panel container.
func (mp *MapPanel) Container() fyne.CanvasObject {
	return mp.container
}

// SetWindow sets the parent window for dialogs.
func (mp *MapPanel) SetWindow(w fyne.Window) {
	mp.window = w
}

// DistanceText returns what the distance display shows.
func (mp *MapPanel) DistanceText() string {
	return mp.distance.Text
}

func (mp *MapPanel) applySize() {
	if err := mp.frame.SetDimensionsInput(mp.widthEntry.Text, mp.heightEntry.Text); err != nil {
		mp.showError(err)
		mp.showDimensions(mp.frame.Dimensions())
	}
}

func (mp *MapPanel) showDimensions(d battlefield.Dimensions) {
	mp.widthEntry.SetText(strconv.FormatFloat(d.Width, 'f', -1, 64))
	mp.heightEntry.SetText(strconv.FormatFloat(d.Height, 'f', -1, 64))
}

func (mp *MapPanel) showReading(r measure.Reading) {
	mp.distance.SetText(r.String())
}

func (mp *MapPanel) showError(err error) {
	mp.logger.Debug().Err(err).Msg("map input rejected")
	if mp.window != nil {
		dialog.ShowError(err, mp.window)
	}
}

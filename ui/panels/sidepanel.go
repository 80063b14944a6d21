// Package panels provides UI panels for the application.
package panels

import (
	"context"

	"battlemap/internal/mapframe"
	"battlemap/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"github.com/rs/zerolog"
)

// SidePanel provides the main side panel with tabbed sections.
type SidePanel struct {
	container *container.AppTabs

	unitPanel *UnitPanel
	mapPanel  *MapPanel
}

// NewSidePanel creates a new side panel.
func NewSidePanel(ctx context.Context, frame *mapframe.Frame, p *prefs.Prefs, logger zerolog.Logger) *SidePanel {
	sp := &SidePanel{
		unitPanel: NewUnitPanel(ctx, frame, p, logger),
		mapPanel:  NewMapPanel(ctx, frame, p, logger),
	}

	sp.container = container.NewAppTabs(
		container.NewTabItem("Units", container.NewVScroll(sp.unitPanel.Container())),
		container.NewTabItem("Map", container.NewVScroll(sp.mapPanel.Container())),
	)

	// selecting a unit brings its form forward
	frame.On(mapframe.EventSelectionChanged, func(data interface{}) {
		if ev, ok := data.(mapframe.SelectionEvent); ok && ev.Editing {
			sp.container.SelectIndex(0)
		}
	})
	return sp
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

// SetWindow sets the parent window for dialogs.
func (sp *SidePanel) SetWindow(w fyne.Window) {
	sp.unitPanel.SetWindow(w)
	sp.mapPanel.SetWindow(w)
}

// Units returns the unit form panel.
func (sp *SidePanel) Units() *UnitPanel {
	return sp.unitPanel
}

// Map returns the map settings panel.
func (sp *SidePanel) Map() *MapPanel {
	return sp.mapPanel
}

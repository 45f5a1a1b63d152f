// Package panels provides UI panels for the application.
package panels

import (
	"region-annotator/internal/app"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const helpText = `Rectangle: press and drag on the image, release to finish.

Freeform: left-click to add up to 10 points, right-click to close the shape (at least 3 points).

Hover a card to highlight its region. Click a card to edit its text.`

// SidePanel provides the main side panel with tabbed sections.
type SidePanel struct {
	state     *app.State
	container *container.AppTabs

	annotationsPanel *AnnotationsPanel
}

// NewSidePanel creates a new side panel.
func NewSidePanel(state *app.State) *SidePanel {
	sp := &SidePanel{state: state}

	sp.annotationsPanel = NewAnnotationsPanel(state)

	help := widget.NewLabel(helpText)
	help.Wrapping = fyne.TextWrapWord

	sp.container = container.NewAppTabs(
		container.NewTabItem("Annotations", sp.annotationsPanel.Container()),
		container.NewTabItem("Help", container.NewVScroll(help)),
	)
	return sp
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

// SetWindow sets the parent window for dialogs.
func (sp *SidePanel) SetWindow(w fyne.Window) {
	sp.annotationsPanel.SetWindow(w)
}

// OnExport sets the callback for the export button.
func (sp *SidePanel) OnExport(callback func()) {
	sp.annotationsPanel.OnExport(callback)
}

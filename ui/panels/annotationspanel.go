package panels

import (
	"sync"

	"region-annotator/internal/annotation"
	"region-annotator/internal/app"
	"region-annotator/ui/dialogs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// AnnotationsPanel lists every annotation as a card with edit, visibility
// and delete controls.
type AnnotationsPanel struct {
	state     *app.State
	window    fyne.Window
	container fyne.CanvasObject

	summary *widget.Label
	list    *widget.List

	// items is replaced from store callbacks, which may run off the UI goroutine.
	mu    sync.RWMutex
	items []annotation.Annotation

	onExport func()
}

// NewAnnotationsPanel creates a new annotations panel.
func NewAnnotationsPanel(state *app.State) *AnnotationsPanel {
	ap := &AnnotationsPanel{state: state}

	ap.summary = widget.NewLabel("")
	ap.list = widget.NewList(
		ap.count,
		func() fyne.CanvasObject { return newAnnotationRow() },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if a, ok := ap.item(id); ok {
				ap.bindRow(obj.(*annotationRow), a)
			}
		},
	)
	ap.list.OnSelected = func(id widget.ListItemID) {
		if a, ok := ap.item(id); ok {
			ap.showEditDialog(a)
		}
		ap.list.UnselectAll()
	}

	exportBtn := widget.NewButtonWithIcon("Export JSON", theme.DocumentSaveIcon(), func() {
		if ap.onExport != nil {
			ap.onExport()
		}
	})

	ap.container = container.NewBorder(
		container.NewVBox(ap.summary, widget.NewSeparator()),
		exportBtn,
		nil, nil,
		ap.list,
	)

	state.On(app.EventAnnotationsChanged, func(interface{}) { ap.Refresh() })
	state.On(app.EventHoverChanged, func(interface{}) { ap.list.Refresh() })

	ap.Refresh()
	return ap
}

// Container returns the panel container.
func (ap *AnnotationsPanel) Container() fyne.CanvasObject {
	return ap.container
}

// SetWindow sets the parent window for dialogs.
func (ap *AnnotationsPanel) SetWindow(w fyne.Window) {
	ap.window = w
}

// OnExport sets the callback for the export button.
func (ap *AnnotationsPanel) OnExport(callback func()) {
	ap.onExport = callback
}

// Refresh reloads the list from the store.
func (ap *AnnotationsPanel) Refresh() {
	items := ap.state.Store.All()
	hidden := 0
	for _, a := range items {
		if !a.Visible {
			hidden++
		}
	}

	ap.mu.Lock()
	ap.items = items
	ap.mu.Unlock()

	ap.summary.SetText(countSummary(len(items), hidden))
	ap.list.Refresh()
}

func (ap *AnnotationsPanel) count() int {
	ap.mu.RLock()
	defer ap.mu.RUnlock()
	return len(ap.items)
}

func (ap *AnnotationsPanel) item(i int) (annotation.Annotation, bool) {
	ap.mu.RLock()
	defer ap.mu.RUnlock()
	if i < 0 || i >= len(ap.items) {
		return annotation.Annotation{}, false
	}
	return ap.items[i], true
}

func (ap *AnnotationsPanel) bindRow(row *annotationRow, a annotation.Annotation) {
	id := a.ID
	row.title.SetText(a.Text)
	row.detail.SetText(describeShape(a))
	row.title.Importance = widget.MediumImportance
	if ap.state.Hovered() == id {
		row.title.Importance = widget.WarningImportance
	}
	row.title.Refresh()

	if a.Visible {
		row.visibility.SetIcon(theme.VisibilityIcon())
	} else {
		row.visibility.SetIcon(theme.VisibilityOffIcon())
	}
	row.visibility.OnTapped = func() { ap.state.ToggleVisibility(id) }
	row.edit.OnTapped = func() {
		if current, ok := ap.state.Store.Get(id); ok {
			ap.showEditDialog(current)
		}
	}
	row.remove.OnTapped = func() { ap.state.DeleteAnnotation(id) }
	row.onHover = func(inside bool) {
		if inside {
			ap.state.SetHovered(id)
		} else if ap.state.Hovered() == id {
			ap.state.SetHovered("")
		}
	}
}

func (ap *AnnotationsPanel) showEditDialog(a annotation.Annotation) {
	if ap.window == nil {
		return
	}
	dlg := dialogs.NewAnnotationEditDialog(a, ap.window, ap.state.EditAnnotation, ap.state.DeleteAnnotation)
	if ap.state.HasRecognizer() {
		dlg.SetSuggest(ap.state.SuggestText)
	}
	dlg.Show()
}

// annotationRow is one sidebar card. It reports pointer hover so the canvas
// can highlight the matching region.
type annotationRow struct {
	widget.BaseWidget

	title      *widget.Label
	detail     *widget.Label
	visibility *widget.Button
	edit       *widget.Button
	remove     *widget.Button

	onHover func(inside bool)
}

var _ desktop.Hoverable = (*annotationRow)(nil)

func newAnnotationRow() *annotationRow {
	r := &annotationRow{
		title:      widget.NewLabel(""),
		detail:     widget.NewLabel(""),
		visibility: widget.NewButtonWithIcon("", theme.VisibilityIcon(), nil),
		edit:       widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), nil),
		remove:     widget.NewButtonWithIcon("", theme.DeleteIcon(), nil),
	}
	r.title.TextStyle = fyne.TextStyle{Bold: true}
	r.title.Truncation = fyne.TextTruncateEllipsis
	r.detail.Importance = widget.LowImportance
	r.ExtendBaseWidget(r)
	return r
}

func (r *annotationRow) CreateRenderer() fyne.WidgetRenderer {
	buttons := container.NewHBox(r.visibility, r.edit, r.remove)
	text := container.NewVBox(r.title, r.detail)
	return widget.NewSimpleRenderer(container.NewBorder(nil, nil, nil, buttons, text))
}

func (r *annotationRow) MouseIn(*desktop.MouseEvent) {
	if r.onHover != nil {
		r.onHover(true)
	}
}

func (r *annotationRow) MouseMoved(*desktop.MouseEvent) {}

func (r *annotationRow) MouseOut() {
	if r.onHover != nil {
		r.onHover(false)
	}
}

// Package dialogs provides application dialogs.
package dialogs

import (
	"fmt"

	"region-annotator/internal/annotation"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// AnnotationEditDialog edits the text of one annotation.
type AnnotationEditDialog struct {
	ann    annotation.Annotation
	window fyne.Window
	dlg    dialog.Dialog

	textEntry   *widget.Entry
	suggestBtn  *widget.Button
	suggestNote *widget.Label

	// Callbacks
	onSave    func(id, text string)
	onDelete  func(id string)
	onSuggest func(id string) (string, error)
}

// NewAnnotationEditDialog creates a new annotation edit dialog.
func NewAnnotationEditDialog(ann annotation.Annotation, window fyne.Window,
	onSave func(id, text string), onDelete func(id string)) *AnnotationEditDialog {
	return &AnnotationEditDialog{
		ann:      ann,
		window:   window,
		onSave:   onSave,
		onDelete: onDelete,
	}
}

// SetSuggest enables the OCR button. suggest runs off the UI thread.
func (d *AnnotationEditDialog) SetSuggest(suggest func(id string) (string, error)) {
	d.onSuggest = suggest
}

// Show displays the dialog.
func (d *AnnotationEditDialog) Show() {
	content := d.createContent()

	saveBtn := widget.NewButton("Save", func() {
		if d.onSave != nil {
			d.onSave(d.ann.ID, d.textEntry.Text)
		}
		d.dlg.Hide()
	})
	saveBtn.Importance = widget.HighImportance

	cancelBtn := widget.NewButton("Cancel", func() {
		d.dlg.Hide()
	})

	deleteBtn := widget.NewButton("Delete", func() {
		dialog.ShowConfirm("Delete Annotation",
			fmt.Sprintf("Delete annotation %q?", d.ann.Text),
			func(confirmed bool) {
				if confirmed {
					if d.onDelete != nil {
						d.onDelete(d.ann.ID)
					}
					d.dlg.Hide()
				}
			}, d.window)
	})
	deleteBtn.Importance = widget.DangerImportance

	buttons := container.NewHBox(
		deleteBtn,
		container.NewHBox(), // spacer
		cancelBtn,
		saveBtn,
	)

	d.dlg = dialog.NewCustomWithoutButtons(
		"Edit Annotation",
		container.NewBorder(nil, buttons, nil, nil, content),
		d.window,
	)
	d.dlg.Resize(fyne.NewSize(420, 320))
	d.dlg.Show()
}

func (d *AnnotationEditDialog) createContent() fyne.CanvasObject {
	d.textEntry = widget.NewMultiLineEntry()
	d.textEntry.SetText(d.ann.Text)
	d.textEntry.SetMinRowsVisible(4)
	d.textEntry.SetPlaceHolder(annotation.DefaultText)

	d.suggestNote = widget.NewLabel("")
	d.suggestBtn = widget.NewButton("Suggest (OCR)", d.runSuggest)
	if d.onSuggest == nil {
		d.suggestBtn.Disable()
	}

	info := widget.NewForm(
		widget.NewFormItem("Shape", widget.NewLabel(d.ann.Kind.String())),
		widget.NewFormItem("Image", widget.NewLabel(d.ann.SourceImage)),
		widget.NewFormItem("Vertices", widget.NewLabel(fmt.Sprintf("%d", len(d.ann.Vertices)))),
	)

	return container.NewVBox(
		info,
		widget.NewCard("Text", "", d.textEntry),
		container.NewHBox(d.suggestBtn, d.suggestNote),
	)
}

// runSuggest fills the entry with recognized text from the region.
func (d *AnnotationEditDialog) runSuggest() {
	d.suggestBtn.Disable()
	d.suggestNote.SetText("Recognizing...")
	go func() {
		text, err := d.onSuggest(d.ann.ID)
		d.suggestBtn.Enable()
		switch {
		case err != nil:
			d.suggestNote.SetText("")
			dialog.ShowError(err, d.window)
		case text == "":
			d.suggestNote.SetText("No text found")
		default:
			d.suggestNote.SetText("")
			d.textEntry.SetText(text)
		}
	}()
}

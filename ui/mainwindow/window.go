// Package mainwindow provides the main application window.
package mainwindow

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"region-annotator/internal/app"
	"region-annotator/internal/capture"
	"region-annotator/internal/export"
	"region-annotator/internal/version"
	"region-annotator/pkg/geometry"
	"region-annotator/ui/canvas"
	"region-annotator/ui/panels"
	"region-annotator/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const appTitle = "Region Annotator"

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app    fyne.App
	state  *app.State
	prefs  *prefs.Prefs
	logger *slog.Logger

	canvas      *canvas.CaptureCanvas
	canvasArea  fyne.CanvasObject
	placeholder fyne.CanvasObject
	sidePanel   *panels.SidePanel
	statusBar   *widget.Label
	toolSelect  *widget.RadioGroup
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs, logger *slog.Logger) *MainWindow {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	win := fyneApp.NewWindow(appTitle)

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
		logger: logger.With("component", "window"),
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.restorePreferences()

	mw.SetOnClosed(func() {
		if err := mw.prefs.SaveIfChanged(); err != nil {
			mw.logger.Warn("failed to save preferences", "error", err)
		}
	})
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewCaptureCanvas(mw.state.Engine)
	mw.canvas.OnHover(func(p geometry.Point2D, inside bool) {
		if inside {
			mw.state.HoverAt(p)
		} else {
			mw.state.SetHovered("")
		}
	})

	mw.sidePanel = panels.NewSidePanel(mw.state)
	mw.sidePanel.SetWindow(mw.Window)
	mw.sidePanel.OnExport(mw.onExport)

	mw.statusBar = widget.NewLabel("Open an image to start annotating")

	// The canvas stays hidden until an image is installed.
	openBtn := widget.NewButtonWithIcon("Open Image...", theme.FolderOpenIcon(), mw.onOpenImage)
	mw.placeholder = container.NewCenter(container.NewVBox(
		widget.NewLabelWithStyle("No image loaded", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		openBtn,
	))
	mw.canvasArea = container.NewScroll(container.NewCenter(mw.canvas))
	mw.canvasArea.Hide()

	toolbar := mw.createToolbar()

	split := container.NewHSplit(
		mw.sidePanel.Container(),
		container.NewBorder(toolbar, nil, nil, nil, container.NewStack(mw.placeholder, mw.canvasArea)),
	)
	split.SetOffset(0.25) // Side panel takes 25% of width

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)

	mw.SetContent(content)
}

// createToolbar creates the toolbar with tool selection and actions.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	mw.toolSelect = widget.NewRadioGroup(
		[]string{toolLabel(capture.ToolRectangle), toolLabel(capture.ToolFreeform)},
		func(selected string) {
			if tool, ok := toolFromLabel(selected); ok && tool != mw.state.Engine.Tool() {
				mw.state.SetTool(tool)
			}
		},
	)
	mw.toolSelect.Horizontal = true
	mw.toolSelect.Required = true
	mw.toolSelect.SetSelected(toolLabel(mw.state.Engine.Tool()))

	undoBtn := widget.NewButtonWithIcon("", theme.ContentUndoIcon(), nil)
	undoBtn.Disable()
	redoBtn := widget.NewButtonWithIcon("", theme.ContentRedoIcon(), nil)
	redoBtn.Disable()

	submitBtn := widget.NewButton("Submit", mw.onSubmit)
	submitBtn.Importance = widget.HighImportance

	exportBtn := widget.NewButtonWithIcon("Export", theme.DocumentSaveIcon(), mw.onExport)

	return container.NewHBox(
		widget.NewButtonWithIcon("", theme.FolderOpenIcon(), mw.onOpenImage),
		widget.NewSeparator(),
		widget.NewLabel("Tool:"),
		mw.toolSelect,
		widget.NewSeparator(),
		undoBtn,
		redoBtn,
		widget.NewSeparator(),
		exportBtn,
		submitBtn,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Annotations...", mw.onExport),
		fyne.NewMenuItem("Export Again", mw.onQuickExport),
	)

	undoItem := fyne.NewMenuItem("Undo", nil)
	undoItem.Disabled = true
	redoItem := fyne.NewMenuItem("Redo", nil)
	redoItem.Disabled = true
	editMenu := fyne.NewMenu("Edit", undoItem, redoItem)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Rectangle", func() { mw.selectTool(capture.ToolRectangle) }),
		fyne.NewMenuItem("Freeform", func() { mw.selectTool(capture.ToolFreeform) }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, toolsMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventImageLoaded, func(data interface{}) {
		name, _ := data.(string)
		mw.placeholder.Hide()
		mw.canvasArea.Show()
		mw.SetTitle(appTitle + " - " + name)
		mw.updateStatus("Image loaded: " + name)
	})

	mw.state.On(app.EventImageLoadFailed, func(data interface{}) {
		if err, ok := data.(error); ok {
			dialog.ShowError(err, mw.Window)
			mw.updateStatus("Image load failed")
		}
	})

	mw.state.On(app.EventToolChanged, func(data interface{}) {
		if tool, ok := data.(capture.Tool); ok {
			mw.toolSelect.SetSelected(toolLabel(tool))
			mw.prefs.SetString(prefs.KeyLastTool, tool.String())
			mw.updateStatus("Tool: " + toolLabel(tool))
		}
	})

	mw.state.On(app.EventRegionCaptured, func(data interface{}) {
		mw.updateStatus(fmt.Sprintf("Captured region (%d annotations)", mw.state.Store.Len()))
	})

	mw.state.On(app.EventAnnotationsChanged, func(interface{}) { mw.refreshOverlay() })
	mw.state.On(app.EventHoverChanged, func(interface{}) { mw.refreshOverlay() })

	mw.state.On(app.EventExported, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.updateStatus("Exported to " + path)
		}
	})
}

// refreshOverlay redraws the persisted annotations over the capture frame.
func (mw *MainWindow) refreshOverlay() {
	mw.canvas.SetOverlay(canvas.NewOverlay(mw.state.Store.All(), mw.state.Hovered()))
}

// restorePreferences applies the last tool and export path from preferences.
func (mw *MainWindow) restorePreferences() {
	mw.state.SetExportPath(mw.prefs.String(prefs.KeyExportPath))
	if name := mw.prefs.String(prefs.KeyLastTool); name != "" {
		if tool, err := capture.ParseTool(name); err == nil {
			mw.selectTool(tool)
		}
	}
	mw.refreshOverlay()
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDirectory)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefs.KeyLastDirectory, filepath.Dir(filePath))
}

func (mw *MainWindow) selectTool(tool capture.Tool) {
	mw.state.SetTool(tool)
}

// OpenImage loads path as the annotation background.
func (mw *MainWindow) OpenImage(path string) {
	mw.updateStatus("Loading " + filepath.Base(path) + "...")
	if _, err := mw.state.LoadImageFile(path); err != nil {
		mw.logger.Warn("failed to open image", "path", path, "error", err)
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.saveLastDir(path)
}

// Menu action handlers

func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		mw.OpenImage(reader.URI().Path())
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(imageExtensions))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onExport() {
	if mw.state.Store.Len() == 0 {
		dialog.ShowInformation("Export", "There are no annotations to export.", mw.Window)
		return
	}
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path, err := mw.state.ExportTo(writer.URI().Path())
		if err != nil {
			mw.logger.Error("export failed", "error", err)
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.saveLastDir(path)
		mw.prefs.SetString(prefs.KeyExportPath, path)
	}, mw.Window)

	fd.SetFileName(exportFileName(mw.state.ExportPath()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// onQuickExport rewrites the export at the last used path without a dialog.
func (mw *MainWindow) onQuickExport() {
	path, err := mw.state.Export()
	if err != nil {
		mw.logger.Error("export failed", "error", err)
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.prefs.SetString(prefs.KeyExportPath, path)
}

func (mw *MainWindow) onSubmit() {
	dialog.ShowError(errors.New("submit is not yet implemented"), mw.Window)
	mw.updateStatus("Submit not yet implemented")
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+appTitle,
		fmt.Sprintf("%s v%s\n\n"+
			"Draw rectangles and freeform polygons over an image,\n"+
			"label them and export the annotations as JSON.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			appTitle, version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}

// exportFileName suggests the file name for the save dialog.
func exportFileName(path string) string {
	name := filepath.Base(path)
	if path == "" || name == "." || name == string(filepath.Separator) {
		return export.DefaultFileName
	}
	return name
}

func toolLabel(tool capture.Tool) string {
	switch tool {
	case capture.ToolFreeform:
		return "Freeform"
	default:
		return "Rectangle"
	}
}

func toolFromLabel(label string) (capture.Tool, bool) {
	switch label {
	case "Rectangle":
		return capture.ToolRectangle, true
	case "Freeform":
		return capture.ToolFreeform, true
	default:
		return 0, false
	}
}

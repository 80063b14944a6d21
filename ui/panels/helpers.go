package panels

import (
	"io"
	"path/filepath"

	"battlemap/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

// imageExtensions are the upload formats the decoder understands.
var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// openImage shows a file picker for images and hands the raw bytes to
// onLoad. The chosen directory is remembered in p.
func openImage(window fyne.Window, p *prefs.Prefs, onLoad func(name string, data []byte)) {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		data, err := io.ReadAll(reader)
		if err != nil {
			dialog.ShowError(err, window)
			return
		}
		path := reader.URI().Path()
		if p != nil {
			p.SetString(prefs.KeyLastDir, filepath.Dir(path))
		}
		onLoad(reader.URI().Name(), data)
	}, window)

	fd.SetFilter(storage.NewExtensionFileFilter(imageExtensions))
	if loc := lastDir(p); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// lastDir returns the last used directory as a ListableURI, or nil.
func lastDir(p *prefs.Prefs) fyne.ListableURI {
	if p == nil {
		return nil
	}
	path := p.String(prefs.KeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

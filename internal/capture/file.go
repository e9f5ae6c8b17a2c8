package capture

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Ojas-Arora/SoundAware/internal/conf"
	"github.com/Ojas-Arora/SoundAware/internal/errors"
	"github.com/Ojas-Arora/SoundAware/internal/myaudio"
)

// PickFile validates a user-supplied audio file and wraps it in a clip.
// The extension allow-list is checked first: an unsupported format is
// rejected regardless of size. Files over the configured ceiling are
// rejected with ErrFileTooLarge.
func PickFile(path string, settings *conf.Settings) (*myaudio.Clip, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !extensionAllowed(ext, settings.Capture.AllowedTypes) {
		return nil, fmt.Errorf("%w: %s", ErrFormatUnsupported, ext)
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, errors.New(err).
			Component("capture").
			Category(errors.CategoryFileIO).
			FileContext(path, 0).
			Build()
	}
	if fi.IsDir() {
		return nil, errors.Newf("path is a directory: %s", path).
			Component("capture").
			Category(errors.CategoryValidation).
			Build()
	}
	if fi.Size() > settings.Capture.MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, fi.Size())
	}

	return myaudio.NewFileClip(path), nil
}

func extensionAllowed(ext string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(ext, a) {
			return true
		}
	}
	return false
}

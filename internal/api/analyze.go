package api

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Ojas-Arora/SoundAware/internal/capture"
	"github.com/Ojas-Arora/SoundAware/internal/errors"
)

// Analyze accepts a multipart audio upload and runs it through the full
// classification pipeline. The response always contains a detection; an
// unreachable backend degrades to the mock predictor.
func (c *Controller) Analyze(ctx echo.Context) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file field")
	}

	if fileHeader.Size > c.Settings.Capture.MaxFileSize {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file exceeds size limit")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable upload")
	}
	defer src.Close()

	// Spool to a temp file so the capture validation path applies uniformly.
	tmpDir, err := os.MkdirTemp("", "soundaware-upload-")
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to store upload")
	}
	defer os.RemoveAll(tmpDir)

	name := filepath.Base(fileHeader.Filename)
	if name == "." || name == string(filepath.Separator) {
		name = "upload.wav"
	}
	path := filepath.Join(tmpDir, name)
	dst, err := os.Create(path)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to store upload")
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to store upload")
	}
	dst.Close()

	det, err := c.Pipeline.ProcessFile(ctx.Request().Context(), path)
	if err != nil {
		switch {
		case errors.Is(err, capture.ErrFormatUnsupported):
			return echo.NewHTTPError(http.StatusUnsupportedMediaType,
				"unsupported format, expected one of "+strings.Join(c.Settings.Capture.AllowedTypes, " "))
		case errors.Is(err, capture.ErrFileTooLarge):
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file exceeds size limit")
		default:
			c.logger.Error("analyze failed", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "analysis failed")
		}
	}

	return ctx.JSON(http.StatusOK, det)
}

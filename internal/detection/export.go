package detection

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/Ojas-Arora/SoundAware/internal/errors"
)

// ExportCSV writes the current history as CSV, most recent first.
func (s *Sink) ExportCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	header := []string{"id", "sound_type", "confidence", "timestamp", "duration_seconds", "source"}
	if err := writer.Write(header); err != nil {
		return exportError(err)
	}

	for _, det := range s.History() {
		record := []string{
			det.ID,
			det.SoundType,
			fmt.Sprintf("%.4f", det.Confidence),
			det.Timestamp.Format(time.RFC3339),
			fmt.Sprintf("%.2f", det.DurationSeconds),
			det.Source,
		}
		if err := writer.Write(record); err != nil {
			return exportError(err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return exportError(err)
	}
	return nil
}

func exportError(err error) error {
	return errors.New(err).
		Component("detection").
		Category(errors.CategoryFileIO).
		Context("operation", "export-csv").
		Build()
}

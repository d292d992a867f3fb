package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pharmscan/internal/common"
	"github.com/ternarybob/pharmscan/internal/models"
)

// Writer persists sweep reports to the data directory.
type Writer struct {
	dir    string
	logger arbor.ILogger
	now    func() time.Time
}

// NewWriter creates a report writer rooted at dir.
func NewWriter(dir string, logger arbor.ILogger) *Writer {
	return &Writer{
		dir:    dir,
		logger: logger,
		now:    time.Now,
	}
}

// Write serializes the full result list (in stock or not) to a
// timestamped JSON file and returns its path. The millisecond timestamp
// keeps repeat runs from colliding.
func (w *Writer) Write(results []models.StoreStock, postcode string, radiusMiles int) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := fmt.Sprintf("stock_%s_%d_%d.json",
		common.NormalizePostcode(postcode), radiusMiles, w.now().UnixMilli())
	path := filepath.Join(w.dir, filename)

	data, err := json.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("failed to marshal results: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	if w.logger != nil {
		w.logger.Info().Str("path", path).Int("results", len(results)).Msg("Report written")
	}

	return path, nil
}

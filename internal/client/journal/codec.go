package journal

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/logorama/internal/client/models"
)

// ExportAll serializes the active collection as a pretty-printed JSON array,
// the backup format shared by file export and remote pull.
func ExportAll(entries []models.Entry) ([]byte, error) {
	if entries == nil {
		entries = []models.Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize entries: %w", err)
	}
	return data, nil
}

// ExportFileName derives the backup file name from the given moment, with the
// characters ':' and '.' of the timestamp replaced so the name is portable.
func ExportFileName(now time.Time) string {
	stamp := now.UTC().Format("2006-01-02T15:04:05.000Z")
	replacer := strings.NewReplacer(":", "-", ".", "-")
	return fmt.Sprintf("logorama-%s.json", replacer.Replace(stamp))
}

package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// auditTimestampLayout names audit files down to the second.
const auditTimestampLayout = "20060102150405"

// WriteAuditFile dumps a merged raw batch to a timestamped JSON file under
// dir, creating the directory if needed. The file exists for debugging and
// audit only; nothing in the pipeline reads it back.
func WriteAuditFile(dir string, batch []RawJob) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create audit directory %s: %w", dir, err)
	}

	name := fmt.Sprintf("job_%s.json", time.Now().Format(auditTimestampLayout))
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(batch, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal audit batch: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write audit file %s: %w", path, err)
	}

	return path, nil
}

// Package prompts ships the LLM prompt templates the harvester uses for
// listing extraction. Templates live in JSON files embedded at compile
// time, keyed by prompt name within each file.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed *.json
var templateFiles embed.FS

// Parsed files are cached; the embedded templates never change at runtime.
var (
	fileCache   = make(map[string]map[string]string)
	fileCacheMu sync.RWMutex
)

// Get returns the template stored under key in filename
// (e.g. "extraction.json"). Errors when the file or key does not exist.
func Get(filename, key string) (string, error) {
	templates, err := loadFile(filename)
	if err != nil {
		return "", err
	}

	template, exists := templates[key]
	if !exists {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}

	return template, nil
}

// MustGet is Get for templates required at initialization time; a missing
// template is a packaging bug, so it panics.
func MustGet(filename, key string) string {
	template, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return template
}

// Format substitutes {{.Key}} placeholders in a template with values from
// data. Placeholders without a matching key are left in place.
func Format(template string, data map[string]string) string {
	result := template
	for key, value := range data {
		placeholder := fmt.Sprintf("{{.%s}}", key)
		result = strings.ReplaceAll(result, placeholder, value)
	}
	return result
}

func loadFile(filename string) (map[string]string, error) {
	fileCacheMu.RLock()
	if templates, exists := fileCache[filename]; exists {
		fileCacheMu.RUnlock()
		return templates, nil
	}
	fileCacheMu.RUnlock()

	data, err := templateFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	var templates map[string]string
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	fileCacheMu.Lock()
	fileCache[filename] = templates
	fileCacheMu.Unlock()

	return templates, nil
}

// ClearCache drops the parsed-file cache so tests start from a clean slate.
func ClearCache() {
	fileCacheMu.Lock()
	fileCache = make(map[string]map[string]string)
	fileCacheMu.Unlock()
}

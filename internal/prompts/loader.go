// Package prompts provides a loader for externalized LLM prompt templates.
// Prompts are stored as JSON files and embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Tagging is the prompt file used by the refresh term tagger.
const Tagging = "tagging.json"

//go:embed *.json
var promptFiles embed.FS

// Library reads prompt files from a file system and keeps each parsed file.
type Library struct {
	fsys fs.FS

	mu    sync.RWMutex
	files map[string]map[string]string
}

// NewLibrary returns a Library over fsys.
func NewLibrary(fsys fs.FS) *Library {
	return &Library{fsys: fsys, files: make(map[string]map[string]string)}
}

var defaultLibrary = NewLibrary(promptFiles)

var placeholderPattern = regexp.MustCompile(`\{\{\.([A-Za-z][A-Za-z0-9_]*)\}\}`)

// Get retrieves a prompt from the embedded files by filename and key.
// The filename should not include the path (e.g., "tagging.json").
func Get(filename, key string) (string, error) {
	return defaultLibrary.Get(filename, key)
}

// Get retrieves a prompt by filename and key.
func (l *Library) Get(filename, key string) (string, error) {
	prompts, err := l.file(filename)
	if err != nil {
		return "", err
	}

	prompt, exists := prompts[key]
	if !exists {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return prompt, nil
}

// MustGet retrieves a prompt by filename and key, panicking if not found.
func MustGet(filename, key string) string {
	prompt, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Format replaces {{.Key}} placeholders with values from data. Unknown
// placeholders are left as they are.
func Format(template string, data map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(m string) string {
		key := placeholderPattern.FindStringSubmatch(m)[1]
		if v, ok := data[key]; ok {
			return v
		}
		return m
	})
}

// Render loads a prompt and fills it from data. Every placeholder must be supplied.
func Render(filename, key string, data map[string]string) (string, error) {
	template, err := Get(filename, key)
	if err != nil {
		return "", err
	}
	if missing := Placeholders(template, data); len(missing) > 0 {
		return "", fmt.Errorf("prompt %s/%s missing values for %s", filename, key, strings.Join(missing, ", "))
	}
	return Format(template, data), nil
}

// Placeholders returns the sorted placeholder names in template that data does not
// provide. A nil data map reports every placeholder.
func Placeholders(template string, data map[string]string) []string {
	seen := make(map[string]struct{})
	var missing []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		name := m[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		if _, ok := data[name]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

func (l *Library) file(filename string) (map[string]string, error) {
	l.mu.RLock()
	prompts, ok := l.files[filename]
	l.mu.RUnlock()
	if ok {
		return prompts, nil
	}

	data, err := fs.ReadFile(l.fsys, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}
	if err := json.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	l.mu.Lock()
	l.files[filename] = prompts
	l.mu.Unlock()
	return prompts, nil
}

// Reset drops every parsed file.
func (l *Library) Reset() {
	l.mu.Lock()
	l.files = make(map[string]map[string]string)
	l.mu.Unlock()
}

// ClearCache drops the parsed embedded files.
func ClearCache() {
	defaultLibrary.Reset()
}

// List returns the sorted prompt keys of an embedded file.
func List(filename string) ([]string, error) {
	return defaultLibrary.List(filename)
}

// List returns the sorted prompt keys in a file.
func (l *Library) List(filename string) ([]string, error) {
	prompts, err := l.file(filename)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(prompts))
	for key := range prompts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

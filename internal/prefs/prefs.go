// Package prefs provides JSON-based application preferences.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

const prefsFile = "preferences.json"

// Keys used by the command-line tools.
const (
	KeyBackend       = "backend"
	KeyInterpolation = "interpolation"
	KeyJPEGQuality   = "jpeg_quality"
	KeyOrderCorners  = "order_corners"
	KeyLastDir       = "last_dir"
)

// Backend names.
const (
	BackendGo     = "go"
	BackendOpenCV = "opencv"
)

// DefaultJPEGQuality is returned by JPEGQuality when nothing valid is stored.
const DefaultJPEGQuality = 95

// Prefs stores application preferences as a key-value map.
type Prefs struct {
	mu     sync.RWMutex
	values map[string]interface{}
	path   string
}

// Load reads preferences from ~/.config/perspectivefix/preferences.json.
// Returns a Prefs with defaults if the file doesn't exist.
func Load() *Prefs {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return LoadFrom(filepath.Join(configDir, "perspectivefix", prefsFile))
}

// LoadFrom reads preferences from path. A missing or malformed file yields
// empty preferences that will be written to path on Save.
func LoadFrom(path string) *Prefs {
	p := &Prefs{
		values: make(map[string]interface{}),
		path:   path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return p
	}
	if err := json.Unmarshal(data, &p.values); err != nil {
		p.values = make(map[string]interface{})
	}
	return p
}

// Path returns the file the preferences are saved to.
func (p *Prefs) Path() string {
	return p.path
}

// Save writes preferences to disk.
func (p *Prefs) Save() error {
	p.mu.RLock()
	data, err := json.MarshalIndent(p.values, "", "  ")
	p.mu.RUnlock()
	if err != nil {
		return err
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0o644)
}

// Float returns a float64 preference, or fallback if not set.
func (p *Prefs) Float(key string, fallback float64) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		}
	}
	return fallback
}

// SetFloat stores a float64 preference.
func (p *Prefs) SetFloat(key string, val float64) {
	p.set(key, val)
}

// Int returns an integer preference, or fallback if not set. JSON numbers
// come back as float64 and are truncated.
func (p *Prefs) Int(key string, fallback int) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return fallback
}

// SetInt stores an integer preference.
func (p *Prefs) SetInt(key string, val int) {
	p.set(key, val)
}

// String returns a string preference, or fallback if not set.
func (p *Prefs) String(key, fallback string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return fallback
}

// SetString stores a string preference.
func (p *Prefs) SetString(key string, val string) {
	p.set(key, val)
}

// Bool returns a bool preference, or fallback if not set.
func (p *Prefs) Bool(key string, fallback bool) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return fallback
}

// SetBool stores a bool preference.
func (p *Prefs) SetBool(key string, val bool) {
	p.set(key, val)
}

func (p *Prefs) set(key string, val interface{}) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// Backend returns the preferred warp backend, BackendGo unless BackendOpenCV
// is stored.
func (p *Prefs) Backend() string {
	if p.String(KeyBackend, BackendGo) == BackendOpenCV {
		return BackendOpenCV
	}
	return BackendGo
}

// Interpolation returns the stored interpolation name, "bilinear" by default.
func (p *Prefs) Interpolation() string {
	return p.String(KeyInterpolation, "bilinear")
}

// JPEGQuality returns the stored JPEG quality, or DefaultJPEGQuality when it
// is missing or outside 1..100.
func (p *Prefs) JPEGQuality() int {
	q := p.Int(KeyJPEGQuality, DefaultJPEGQuality)
	if q < 1 || q > 100 {
		return DefaultJPEGQuality
	}
	return q
}

// OrderCorners reports whether corners should be sorted clockwise before
// correcting.
func (p *Prefs) OrderCorners() bool {
	return p.Bool(KeyOrderCorners, false)
}

// LastDir returns the directory of the last saved image.
func (p *Prefs) LastDir() string {
	return p.String(KeyLastDir, "")
}

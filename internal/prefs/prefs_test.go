package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsWhenMissing(t *testing.T) {
	p := LoadFrom(filepath.Join(t.TempDir(), "none.json"))

	assert.Equal(t, BackendGo, p.Backend())
	assert.Equal(t, "bilinear", p.Interpolation())
	assert.Equal(t, DefaultJPEGQuality, p.JPEGQuality())
	assert.False(t, p.OrderCorners())
	assert.Equal(t, "", p.LastDir())
	assert.Equal(t, 1.5, p.Float("zoom", 1.5))
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "preferences.json")
	p := LoadFrom(path)
	p.SetString(KeyBackend, BackendOpenCV)
	p.SetString(KeyInterpolation, "nearest")
	p.SetInt(KeyJPEGQuality, 80)
	p.SetBool(KeyOrderCorners, true)
	p.SetString(KeyLastDir, "/tmp/out")
	p.SetFloat("zoom", 2.25)
	require.NoError(t, p.Save())

	q := LoadFrom(path)
	assert.Equal(t, path, q.Path())
	assert.Equal(t, BackendOpenCV, q.Backend())
	assert.Equal(t, "nearest", q.Interpolation())
	assert.Equal(t, 80, q.JPEGQuality())
	assert.True(t, q.OrderCorners())
	assert.Equal(t, "/tmp/out", q.LastDir())
	assert.Equal(t, 2.25, q.Float("zoom", 0))
}

func TestInvalidValuesFallBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"backend":"cuda","jpeg_quality":400,"order_corners":"yes"}`), 0o644))

	p := LoadFrom(path)
	assert.Equal(t, BackendGo, p.Backend())
	assert.Equal(t, DefaultJPEGQuality, p.JPEGQuality())
	assert.False(t, p.OrderCorners())
}

func TestMalformedFileIsIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	p := LoadFrom(path)
	assert.Equal(t, DefaultJPEGQuality, p.JPEGQuality())
	p.SetBool(KeyOrderCorners, true)
	require.NoError(t, p.Save())
	assert.True(t, LoadFrom(path).OrderCorners())
}

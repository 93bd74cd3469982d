package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestDefault_NoZeroFields checks every leaf field Default() sets is
// non-zero, table-driven over this module's flat Config shape — there are
// only four nested structs and seven leaf fields here, so naming them
// directly is clearer than a reflect-based walk.
func TestDefault_NoZeroFields(t *testing.T) {
	cfg := Default()

	cases := []struct {
		name string
		zero bool
	}{
		{"URI.LineSize", cfg.URI.LineSize == 0},
		{"Headers.LineSize", cfg.Headers.LineSize == 0},
		{"Headers.MaxCount", cfg.Headers.MaxCount == 0},
		{"Body.MaxLength", cfg.Body.MaxLength == 0},
		{"NET.ReadTimeout", cfg.NET.ReadTimeout == 0},
		{"NET.ReadBufferSize", cfg.NET.ReadBufferSize == 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.False(t, c.zero, "%s is a zero value", c.name)
		})
	}

	// Default is deliberately non-nil, so callers can add entries to it
	// without a nil check (InsertMap/Flow.Start only read it), but empty
	// is fine.
	require.NotNil(t, cfg.Headers.Default)
}

func TestFromJSON_OverlaysOntoDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Body":{"MaxLength":1024}}`), 0o600))

	cfg, err := FromJSON(path)
	require.NoError(t, err)

	require.Equal(t, uint64(1024), cfg.Body.MaxLength)
	// Everything not mentioned in the JSON document keeps Default()'s value.
	require.Equal(t, Default().URI.LineSize, cfg.URI.LineSize)
	require.Equal(t, Default().NET.ReadTimeout, cfg.NET.ReadTimeout)
}

func TestFromJSON_MissingFileFails(t *testing.T) {
	_, err := FromJSON(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestFromJSON_ReadTimeoutIsNanoseconds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	// time.Duration has no UnmarshalJSON of its own, so a JSON document
	// must spell it out in nanoseconds, same as encoding/json would require.
	require.NoError(t, os.WriteFile(path, []byte(`{"NET":{"ReadTimeout":30000000000}}`), 0o600))

	cfg, err := FromJSON(path)
	require.NoError(t, err)
	require.Equal(t, 30*time.Second, cfg.NET.ReadTimeout)
}

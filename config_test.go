package minijoe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.True(t, cfg.FastLocals)
	require.True(t, cfg.LineNumbers)
	require.False(t, cfg.StrictNumbers)
	require.False(t, cfg.DumpBytecode)
	require.Equal(t, 500, cfg.MaxDepth)
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig(`
fast_locals = false
debug_dump_tree = true
max_depth = 64
comment = "nightly"
`, "minijoe.toml")
	require.NoError(t, err)
	require.False(t, cfg.FastLocals)
	require.True(t, cfg.LineNumbers)
	require.True(t, cfg.DumpTree)
	require.Equal(t, 64, cfg.MaxDepth)
	require.Equal(t, "nightly", cfg.Comment)
}

func TestParseConfigErrors(t *testing.T) {
	_, err := ParseConfig("fast_locals = ", "bad.toml")
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse error in bad.toml")

	_, err = ParseConfig("fast_local = true\nmax_depth = 0\nlines = 1", "bad.toml")
	require.Error(t, err)
	require.Contains(t, err.Error(), "3 errors occurred")
	require.Contains(t, err.Error(), `unknown setting "fast_local"`)
	require.Contains(t, err.Error(), `unknown setting "lines"`)
	require.Contains(t, err.Error(), "max_depth must be positive")
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minijoe.toml")
	require.NoError(t, os.WriteFile(path, []byte("line_numbers = false\n"), 0o644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.False(t, cfg.LineNumbers)

	m, err := CompileModule("x = 1;", WithConfig(cfg))
	require.NoError(t, err)
	require.Equal(t, 0, m.LineCount())

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot read")
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMainConfig(t *testing.T) {
	cfg := DefaultMainConfig()

	assert.Equal(t, "./input", cfg.InputDir)
	assert.Equal(t, "./output", cfg.OutputDir)
	assert.Equal(t, "{name}_upload_{timestamp}_{uuid}.xlsx", cfg.OutputNameFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Contains(t, cfg.Rules.General.Rename, "NAME_ORG1")
	assert.Contains(t, cfg.Rules.SupplierGeneral.FillX, "LOEVM")
}

func TestLoadMainConfig(t *testing.T) {
	content := `
input_dir: /data/in
output_dir: /data/out
archive_on_success: true
log_level: debug
rules:
  address:
    rename: [Name1, Name2]
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadMainConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/in", cfg.InputDir)
	assert.Equal(t, "/data/out", cfg.OutputDir)
	assert.True(t, cfg.ArchiveOnSuccess)
	assert.Equal(t, "debug", cfg.LogLevel)

	// Overridden rule list replaces the default wholesale.
	assert.Equal(t, []string{"Name1", "Name2"}, cfg.Rules.Address.Rename)

	// Untouched sections keep their defaults.
	assert.Equal(t, "./input_archive", cfg.InputArchiveDir)
	assert.Contains(t, cfg.Rules.General.Clear, "MC_NAME2")
	assert.Equal(t, []string{"ZGSTS_CMT_REP_FLG", "ZGSTS_ATL_REP_FLG"}, cfg.Rules.GeneralReportFlags)
}

func TestLoadMainConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("input_dir: [unclosed"), 0o644))

	_, err := LoadMainConfig(path)
	require.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "./input", cfg.InputDir, "missing file falls back to defaults")
}

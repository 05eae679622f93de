package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accrualworks/wd-accruals/internal/shared/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigFile_YAMLKeepsDefaults(t *testing.T) {
	path := writeFile(t, "accruals.yaml", `
output_dir: Out
rules:
  entity_overrides:
    - entity_code: DESA
      account: 46920001
report_a:
  file_name: a.xlsx
`)
	repo := NewConfigRepository()

	cfg, err := repo.LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, "Out", cfg.OutputDir)
	assert.Equal(t, "a.xlsx", cfg.ReportA.FileName)
	assert.Equal(t, int64(46920001), cfg.Rules.EntityOverrides[0].Account)
	// untouched keys fall back to the defaults
	assert.Equal(t, "Net Amount LC", cfg.ReportA.Columns.NetAmount)
	assert.Equal(t, 1, cfg.ReportA.HeaderOffset)
	assert.Len(t, cfg.Rules.CategoryOverrides, 2)
	assert.NoError(t, repo.Validate(cfg))
}

func TestLoadConfigFile_JSON(t *testing.T) {
	path := writeFile(t, "accruals.json", `{"encoding": "latin-1", "converter": {"kind": "command", "command": "cscript.exe", "args": ["ExcelToCsv.vbs", "{src}", "{dst}", "{sheet}", "//B"]}}`)
	repo := NewConfigRepository()

	cfg, err := repo.LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, "latin-1", cfg.Encoding)
	assert.Equal(t, "command", cfg.Converter.Kind)
	assert.Equal(t, "cscript.exe", cfg.Converter.Command)
	assert.Len(t, cfg.Converter.Args, 5)
	assert.NoError(t, repo.Validate(cfg))
}

func TestLoadConfigFile_TOML(t *testing.T) {
	path := writeFile(t, "accruals.toml", `
output_dir = "Posted"
strict_account_keys = false

[master]
file_name = "Master.xlsx"
cost_center_sheet = 1
account_sheet = 2
template_sheet = 3
`)
	cfg, err := NewConfigRepository().LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, "Posted", cfg.OutputDir)
	assert.False(t, cfg.StrictAccountKeys)
	assert.Equal(t, "Master.xlsx", cfg.Master.FileName)
	assert.Equal(t, 2, cfg.Master.AccountSheet)
}

func TestLoadConfigFile_Errors(t *testing.T) {
	repo := NewConfigRepository()

	tests := []struct {
		name string
		path func(t *testing.T) string
		want string
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.yaml") },
			want: "error accessing config file",
		},
		{
			name: "directory",
			path: func(t *testing.T) string { return t.TempDir() },
			want: "is a directory",
		},
		{
			name: "unsupported extension",
			path: func(t *testing.T) string { return writeFile(t, "cfg.ini", "a=b") },
			want: "unsupported config file format",
		},
		{
			name: "broken yaml",
			path: func(t *testing.T) string { return writeFile(t, "cfg.yaml", "output_dir: [") },
			want: "error parsing YAML file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.LoadConfigFile(tt.path(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate(t *testing.T) {
	repo := NewConfigRepository()

	tests := []struct {
		name   string
		mutate func(cfg *types.Config)
		want   string
	}{
		{
			name:   "defaults are valid",
			mutate: func(cfg *types.Config) {},
		},
		{
			name:   "unknown encoding",
			mutate: func(cfg *types.Config) { cfg.Encoding = "ebcdic" },
			want:   "Encoding must be one of",
		},
		{
			name:   "missing column name",
			mutate: func(cfg *types.Config) { cfg.ReportB.Columns.Currency = "" },
			want:   "ReportB.Columns.Currency is required",
		},
		{
			name:   "command converter without command",
			mutate: func(cfg *types.Config) { cfg.Converter.Kind = "command" },
			want:   "Converter.Command is required",
		},
		{
			name:   "bad report type",
			mutate: func(cfg *types.Config) { cfg.ReportType = []string{"xml"} },
			want:   "must be one of",
		},
		{
			name: "override without account",
			mutate: func(cfg *types.Config) {
				cfg.Rules.CategoryOverrides = append(cfg.Rules.CategoryOverrides, types.CategoryOverride{Marker: "Gifts"})
			},
			want: "Account must be >",
		},
		{
			name:   "shared master sheets",
			mutate: func(cfg *types.Config) { cfg.Master.TemplateSheet = cfg.Master.AccountSheet },
			want:   "both point at sheet",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := types.DefaultConfig()
			tt.mutate(cfg)

			err := repo.Validate(cfg)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

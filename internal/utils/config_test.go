package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultConfig(t *testing.T) {
	config, err := LoadDefaultConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, "text", config.LogFormat)
	assert.Equal(t, "sentinel", config.Decode.Termination)
	assert.Equal(t, int64(DefaultMaxFileSize), config.Decode.MaxFileSize)
	assert.False(t, config.Decode.Strict)
	assert.Equal(t, "text", config.Report.Format)
	assert.True(t, config.Report.Color)
	assert.Empty(t, config.Report.Output)
}

func TestLoadConfigFromFile(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "elf-decoder.yaml")

	configContent := `
log_level: debug
log_format: json
decode:
  termination: count
  max_file_size: 4096
  strict: true
report:
  format: json
  color: false
`
	require.NoError(t, os.WriteFile(configFile, []byte(configContent), 0644))

	config, err := LoadConfigFromFile(configFile)
	require.NoError(t, err)

	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, "json", config.LogFormat)
	assert.Equal(t, "count", config.Decode.Termination)
	assert.Equal(t, int64(4096), config.Decode.MaxFileSize)
	assert.True(t, config.Decode.Strict)
	assert.Equal(t, "json", config.Report.Format)
	assert.False(t, config.Report.Color)
}

func TestLoadConfigFromStandardLocation(t *testing.T) {
	tempDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "elf-decoder.yaml"), []byte("log_level: warn\n"), 0644))

	oldWd, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(oldWd)
	require.NoError(t, os.Chdir(tempDir))

	config, err := LoadDefaultConfig()
	require.NoError(t, err)
	assert.Equal(t, "warn", config.LogLevel)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("ELFDEC_LOG_LEVEL", "error")
	t.Setenv("ELFDEC_DECODE_TERMINATION", "count")
	t.Setenv("ELFDEC_DECODE_STRICT", "true")
	t.Setenv("ELFDEC_REPORT_FORMAT", "json")

	config, err := LoadDefaultConfig()
	require.NoError(t, err)

	assert.Equal(t, "error", config.LogLevel)
	assert.Equal(t, "count", config.Decode.Termination)
	assert.True(t, config.Decode.Strict)
	assert.Equal(t, "json", config.Report.Format)
}

func TestEnvOverridesConfigFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "elf-decoder.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("report:\n  format: json\ndecode:\n  max_file_size: 100\n"), 0644))
	t.Setenv("ELFDEC_REPORT_FORMAT", "text")
	t.Setenv("ELFDEC_DECODE_MAX_FILE_SIZE", "2048")

	config, err := LoadConfigFromFile(configFile)
	require.NoError(t, err)
	assert.Equal(t, "text", config.Report.Format)
	assert.Equal(t, int64(2048), config.Decode.MaxFileSize)

	config, err = LoadConfigWithOverrides(configFile, map[string]interface{}{"decode.max_file_size": 4096})
	require.NoError(t, err)
	assert.Equal(t, int64(4096), config.Decode.MaxFileSize)
}

func TestLoadConfigWithOverrides(t *testing.T) {
	t.Setenv("ELFDEC_REPORT_FORMAT", "json")

	config, err := LoadConfigWithOverrides("", map[string]interface{}{
		"report.format":      "text",
		"decode.termination": "COUNT",
		"log_level":          "debug",
	})
	require.NoError(t, err)

	assert.Equal(t, "text", config.Report.Format, "override must win over environment")
	assert.Equal(t, "count", config.Decode.Termination)
	assert.Equal(t, "debug", config.LogLevel)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]interface{}
		errMsg    string
	}{
		{"invalid log level", map[string]interface{}{"log_level": "loud"}, "invalid log_level"},
		{"invalid log format", map[string]interface{}{"log_format": "xml"}, "invalid log_format"},
		{"invalid termination", map[string]interface{}{"decode.termination": "eof"}, "invalid decode.termination"},
		{"negative max size", map[string]interface{}{"decode.max_file_size": -1}, "invalid decode.max_file_size"},
		{"invalid report format", map[string]interface{}{"report.format": "yaml"}, "invalid report.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfigWithOverrides("", tt.overrides)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfigInvalidEnvValue(t *testing.T) {
	t.Setenv("ELFDEC_DECODE_MAX_FILE_SIZE", "lots")

	_, err := LoadDefaultConfig()
	assert.Error(t, err)
}

func TestReportOutputIsExpanded(t *testing.T) {
	config, err := LoadConfigWithOverrides("", map[string]interface{}{
		"report.output": "reports/out.json",
	})
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(config.Report.Output))
	assert.Equal(t, "out.json", filepath.Base(config.Report.Output))
}

func TestContains(t *testing.T) {
	slice := []string{"a", "b", "c"}
	assert.True(t, contains(slice, "a"))
	assert.True(t, contains(slice, "c"))
	assert.False(t, contains(slice, "d"))
	assert.False(t, contains(slice, ""))
}

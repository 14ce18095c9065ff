package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-timing/pkg/logging"
	"github.com/dd0wney/cluso-timing/pkg/timing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvLogLevel, EnvLogLevelShared, EnvWorkers} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timing.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, logging.InfoLevel, cfg.Level())
	assert.Equal(t, timing.MaxAll, cfg.Selector())

	cfg, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
log_level: debug
hier_sep: "."
delay_selector: min_slow
implicit_nodes: false
workers: 6
cache_distances: true
metrics_textfile: /tmp/timing.prom
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, Config{
		LogLevel:        "debug",
		HierSep:         ".",
		DelaySelector:   "min_slow",
		ImplicitNodes:   false,
		Workers:         6,
		CacheDistances:  true,
		MetricsTextfile: "/tmp/timing.prom",
	}, cfg)
	assert.Equal(t, logging.DebugLevel, cfg.Level())
	assert.Equal(t, timing.MinSlow, cfg.Selector())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(writeConfig(t, "workers: 2\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.HierSep)
	assert.True(t, cfg.ImplicitNodes)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvLogLevelShared, "WARN")
	t.Setenv(EnvWorkers, "3")

	cfg, err := Load(writeConfig(t, "log_level: debug\nworkers: 8\n"))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 3, cfg.Workers)

	t.Setenv(EnvLogLevel, "error")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel, "TIMING_LOG_LEVEL wins over LOG_LEVEL")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		env     map[string]string
		wantErr string
	}{
		{name: "malformed yaml", file: "workers: [1, 2\n", wantErr: "load config file"},
		{name: "bad level", file: "log_level: loud\n", wantErr: `Config.log_level: "loud" is not one of`},
		{name: "empty level", file: "log_level: ''\n", wantErr: "Config.log_level: must be set"},
		{name: "negative workers", file: "workers: -1\n", wantErr: "workers"},
		{name: "too many workers", file: "workers: 5000\n", wantErr: "workers"},
		{name: "bad selector", file: "delay_selector: median\n", wantErr: "delay_selector"},
		{name: "long divider", file: "hier_sep: '-----'\n", wantErr: "hier_sep"},
		{name: "textfile suffix", file: "metrics_textfile: out.txt\n", wantErr: "metrics_textfile"},
		{name: "bad env workers", env: map[string]string{EnvWorkers: "many"}, wantErr: EnvWorkers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfig(t, tt.file)
			}

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nav.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadNavConfigPartial(t *testing.T) {
	path := writeConfig(t, `{"conservativism": 4, "resample_spacing_m": 0.05}`)

	cfg, err := LoadNavConfig(path)
	require.NoError(t, err)

	p := cfg.ToParams()
	assert.Equal(t, 4, p.Conservativism)
	assert.InDelta(t, 0.05, p.ResampleSpacing, 1e-9)

	// Unset fields fall back to defaults.
	assert.InDelta(t, 4.0, p.CostPenalty, 1e-9)
	assert.Equal(t, ":8080", cfg.GetListenAddr())
	assert.Equal(t, 100*time.Millisecond, cfg.GetPoseStreamInterval())
}

func TestLoadNavConfigValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"unknown cost out of range", `{"unknown_cost": 1.5}`},
		{"negative conservativism", `{"conservativism": -1}`},
		{"zero resample spacing", `{"resample_spacing_m": 0}`},
		{"bad interval", `{"pose_stream_interval": "fast"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadNavConfig(writeConfig(t, tc.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadNavConfigRejectsNonJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nav.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen_addr: :9090"), 0644))

	_, err := LoadNavConfig(path)
	assert.Error(t, err)
}

func TestNavConfigServiceDefaults(t *testing.T) {
	cfg := EmptyNavConfig()
	assert.Equal(t, "", cfg.GetDBPath())
	assert.Equal(t, "", cfg.GetPlotDir())
	assert.InDelta(t, 0.01, cfg.GetPoseStreamPrecision(), 1e-9)
}

func TestNavConfigFullOverride(t *testing.T) {
	path := writeConfig(t, `{
		"conservativism": 2,
		"preserve_unknown": true,
		"unknown_cost": 0.5,
		"cost_penalty": 2.0,
		"resample_spacing_m": 0.2,
		"max_expansions": 10000,
		"nearest_free_radius": 5,
		"pose_stream_interval": "250ms",
		"pose_stream_precision_m": 0.05,
		"listen_addr": ":9090",
		"db_path": "/tmp/nav.db",
		"plot_dir": "/tmp/plots"
	}`)

	cfg, err := LoadNavConfig(path)
	require.NoError(t, err)

	p := cfg.ToParams()
	assert.Equal(t, 2, p.Conservativism)
	assert.True(t, p.PreserveUnknown)
	assert.InDelta(t, 0.5, p.UnknownCost, 1e-9)
	assert.InDelta(t, 2.0, p.CostPenalty, 1e-9)
	assert.InDelta(t, 0.2, p.ResampleSpacing, 1e-9)
	assert.Equal(t, 10000, p.MaxExpansions)
	assert.Equal(t, 5, p.NearestFreeRadius)

	assert.Equal(t, 250*time.Millisecond, cfg.GetPoseStreamInterval())
	assert.InDelta(t, 0.05, cfg.GetPoseStreamPrecision(), 1e-9)
	assert.Equal(t, ":9090", cfg.GetListenAddr())
	assert.Equal(t, "/tmp/nav.db", cfg.GetDBPath())
	assert.Equal(t, "/tmp/plots", cfg.GetPlotDir())
}

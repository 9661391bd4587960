package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MODE", ModeWebcam)
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("AUTO_CAPTURE", "")
	t.Setenv("CAPTURE_DELAY_SECONDS", "")
	t.Setenv("PERFORMANCE_MODE", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ModeWebcam, cfg.Mode)
	require.True(t, cfg.AutoCapture)
	require.False(t, cfg.IgnoreFacePositioning)
	require.Equal(t, 3, cfg.CaptureDelaySeconds)
	require.Equal(t, "fast", cfg.PerformanceMode)
	require.Equal(t, "0", cfg.CameraDevice)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MODE", ModeBot)
	t.Setenv("TELEGRAM_TOKEN", "token")
	t.Setenv("AUTO_CAPTURE", "false")
	t.Setenv("IGNORE_FACE_POSITIONING", "true")
	t.Setenv("CAPTURE_DELAY_SECONDS", "0")
	t.Setenv("PERFORMANCE_MODE", "accurate")

	cfg, err := Load()
	require.NoError(t, err)
	require.False(t, cfg.AutoCapture)
	require.True(t, cfg.IgnoreFacePositioning)
	require.Zero(t, cfg.CaptureDelaySeconds)
	require.Equal(t, "accurate", cfg.PerformanceMode)
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]map[string]string{
		"negative delay":     {"MODE": ModeWebcam, "CAPTURE_DELAY_SECONDS": "-1"},
		"delay not a number": {"MODE": ModeWebcam, "CAPTURE_DELAY_SECONDS": "soon"},
		"unknown mode":       {"MODE": "desktop"},
		"bot without token":  {"MODE": ModeBot, "TELEGRAM_TOKEN": ""},
		"bad bool":           {"MODE": ModeWebcam, "AUTO_CAPTURE": "maybe"},
		"bad performance":    {"MODE": ModeWebcam, "PERFORMANCE_MODE": "turbo"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
		})
	}
}

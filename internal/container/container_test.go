package container

import (
	"testing"

	"github.com/stretchr/testify/require"

	"face-capture/config"
	"face-capture/internal/domain/entity"
	"face-capture/internal/infrastructure/storage"
)

func TestCaptureConfig(t *testing.T) {
	cfg := &config.Config{
		AutoCapture:         true,
		CaptureDelaySeconds: 5,
		PerformanceMode:     "accurate",
	}

	got := CaptureConfig(cfg)
	require.True(t, got.AutoCapture)
	require.Equal(t, 5, got.CaptureDelaySeconds)
	require.Equal(t, entity.PerformanceAccurate, got.PerformanceMode)
	require.NoError(t, got.Validate())
}

func TestNew(t *testing.T) {
	c := New(storage.NewMemoryUserRepository(), nil, nil)
	require.NotNil(t, c.UserService)
	require.NotNil(t, c.SelfieService)
}

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/planbiir/gpxalyzer/internal/config"
	"github.com/planbiir/gpxalyzer/internal/geo"
	"github.com/planbiir/gpxalyzer/internal/track"
)

func Test_MustLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg := config.MustLoad()

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, track.DefaultWindow, cfg.Window)
	assert.InDelta(t, geo.EarthRadius, cfg.EarthRadius, 0)
	assert.Equal(t, 0, cfg.Workers)
	assert.Equal(t, int64(32<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.WriteTimeout)
}

func Test_MustLoadFromEnv(t *testing.T) {
	t.Setenv("GPXALYZER_ENV", "local")
	t.Setenv("GPXALYZER_PORT", "9090")
	t.Setenv("GPXALYZER_WINDOW", "15")
	t.Setenv("GPXALYZER_EARTH_RADIUS", "6371000")
	t.Setenv("GPXALYZER_WORKERS", "4")
	t.Setenv("GPXALYZER_READ_TIMEOUT", "1m")

	cfg := config.MustLoad()

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 15, cfg.Window)
	assert.InDelta(t, geo.MeanEarthRadius, cfg.EarthRadius, 0)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, time.Minute, cfg.ReadTimeout)
	assert.Equal(t, track.Config{Window: 15, EarthRadius: geo.MeanEarthRadius}, cfg.Track())
}

func TestMustLoad_WindowError(t *testing.T) {
	t.Setenv("GPXALYZER_WINDOW", "0")

	assert.PanicsWithValue(t, "failed to parse window from configuration, must be a positive integer", func() {
		config.MustLoad()
	})
}

func TestMustLoad_RadiusError(t *testing.T) {
	t.Setenv("GPXALYZER_EARTH_RADIUS", "-1")

	assert.PanicsWithValue(t, "failed to parse earth radius from configuration, must be positive meters", func() {
		config.MustLoad()
	})
}

func TestMustLoad_PortError(t *testing.T) {
	t.Setenv("GPXALYZER_PORT", "70000")

	assert.PanicsWithValue(t, "failed to parse port from configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_WorkersError(t *testing.T) {
	t.Setenv("GPXALYZER_WORKERS", "-2")

	assert.PanicsWithValue(t, "failed to parse workers from configuration, must not be negative", func() {
		config.MustLoad()
	})
}

func TestMustLoad_Unparsable(t *testing.T) {
	t.Setenv("GPXALYZER_WINDOW", "wide")

	assert.Panics(t, func() {
		config.MustLoad()
	})
}

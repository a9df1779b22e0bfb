package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/planbiir/gpxalyzer/internal/geo"
	"github.com/planbiir/gpxalyzer/internal/track"
)

// Config holds the settings shared by the CLI and the HTTP service.
//
// Fields:
// - Env: The current environment (local, development, production). Drives logging.
// - Port: The HTTP port of the analysis service.
// - Window: Default look-ahead window for speed annotation.
// - EarthRadius: Sphere radius in meters used for haversine distances.
// - Workers: Concurrent segment workers (0 means one per CPU).
// - MaxUploadBytes: Largest GPX body accepted by the service.
// - ReadTimeout/WriteTimeout: HTTP server timeouts.
type Config struct {
	Env            string        `mapstructure:"ENV"`
	Port           int           `mapstructure:"PORT"`
	Window         int           `mapstructure:"WINDOW"`
	EarthRadius    float64       `mapstructure:"EARTH_RADIUS"`
	Workers        int           `mapstructure:"WORKERS"`
	MaxUploadBytes int64         `mapstructure:"MAX_UPLOAD_BYTES"`
	ReadTimeout    time.Duration `mapstructure:"READ_TIMEOUT"`
	WriteTimeout   time.Duration `mapstructure:"WRITE_TIMEOUT"`
}

// EnvPrefix is prepended to every environment variable, e.g. GPXALYZER_WINDOW.
const EnvPrefix = "GPXALYZER"

var keys = []string{
	"ENV", "PORT", "WINDOW", "EARTH_RADIUS", "WORKERS",
	"MAX_UPLOAD_BYTES", "READ_TIMEOUT", "WRITE_TIMEOUT",
}

// MustLoad reads configuration from the environment (and a .env file when
// present) and panics if a value cannot be parsed or is out of range.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("ENV", "production")
	v.SetDefault("PORT", 8080)
	v.SetDefault("WINDOW", track.DefaultWindow)
	v.SetDefault("EARTH_RADIUS", geo.EarthRadius)
	v.SetDefault("WORKERS", 0)
	v.SetDefault("MAX_UPLOAD_BYTES", 32<<20)
	v.SetDefault("READ_TIMEOUT", "5s")
	v.SetDefault("WRITE_TIMEOUT", "10s")

	// AutomaticEnv only resolves keys viper already knows about
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic("failed to parse configuration: " + err.Error())
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		panic("failed to parse port from configuration")
	}
	if cfg.Window <= 0 {
		panic("failed to parse window from configuration, must be a positive integer")
	}
	if !(cfg.EarthRadius > 0) {
		panic("failed to parse earth radius from configuration, must be positive meters")
	}
	if cfg.Workers < 0 {
		panic("failed to parse workers from configuration, must not be negative")
	}
	if cfg.MaxUploadBytes <= 0 {
		panic("failed to parse max upload bytes from configuration")
	}

	return &cfg
}

// Track returns the annotation parameters.
func (c *Config) Track() track.Config {
	return track.Config{
		Window:      c.Window,
		EarthRadius: c.EarthRadius,
	}
}

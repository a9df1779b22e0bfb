package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planbiir/gpxalyzer/internal/export"
)

const sampleGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <trk>
    <name>Morning Ride</name>
    <trkseg>
      <trkpt lat="45.0000" lon="6.0000"><ele>1200</ele><time>2025-05-04T07:00:00Z</time></trkpt>
      <trkpt lat="45.0001" lon="6.0000"><ele>1201</ele><time>2025-05-04T07:00:02Z</time></trkpt>
      <trkpt lat="45.0002" lon="6.0000"><ele>1202</ele><time>2025-05-04T07:00:04Z</time></trkpt>
      <trkpt lat="45.0003" lon="6.0000"><ele>1203</ele><time>2025-05-04T07:00:06Z</time></trkpt>
    </trkseg>
  </trk>
</gpx>`

const untimedGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <trk><trkseg>
    <trkpt lat="45.0000" lon="6.0000"></trkpt>
    <trkpt lat="45.0001" lon="6.0000"></trkpt>
  </trkseg></trk>
</gpx>`

func writeInput(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "ride.gpx")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunWritesCSV(t *testing.T) {
	input := writeInput(t, sampleGPX)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-i", input, "-stats"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	out := filepath.Join(filepath.Dir(input), "ride_speed.csv")
	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "speed_mps", rows[0][7])
	assert.Equal(t, "0", rows[4][7])
	assert.NotEqual(t, "0", rows[1][7])

	assert.Contains(t, stdout.String(), "Track Statistics")
	assert.Contains(t, stdout.String(), "4 points")
	assert.Contains(t, stdout.String(), "Annotated 1 of 1 segments")
}

func TestRunJSONWithWindow(t *testing.T) {
	input := writeInput(t, sampleGPX)
	out := filepath.Join(filepath.Dir(input), "out.json")
	var stdout, stderr bytes.Buffer

	code := run(context.Background(),
		[]string{"-i", input, "-o", out, "-format", "json", "-window", "2"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var report export.Report
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, 2, report.Window)
	require.Len(t, report.Segments, 1)

	speed := report.Segments[0].Speed
	require.Len(t, speed, 4)
	// 0.0002 degrees of latitude over 4 seconds
	assert.InDelta(t, 5.566, speed[0], 0.01)
	assert.Zero(t, speed[2])
	assert.Zero(t, speed[3])
}

func TestRunUsageErrors(t *testing.T) {
	input := writeInput(t, sampleGPX)

	tests := []struct {
		name string
		args []string
	}{
		{"no input", nil},
		{"bad format", []string{"-i", input, "-format", "xml"}},
		{"zero window", []string{"-i", input, "-window", "0"}},
		{"negative radius", []string{"-i", input, "-radius", "-5"}},
		{"unknown flag", []string{"-bogus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, 2, run(context.Background(), tt.args, &stdout, &stderr))
		})
	}
}

func TestRunFailures(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		writeInput(t, sampleGPX)
		var stdout, stderr bytes.Buffer
		code := run(context.Background(), []string{"-i", "does-not-exist.gpx"}, &stdout, &stderr)
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr.String(), "failed to open file")
	})

	t.Run("no timestamps", func(t *testing.T) {
		input := writeInput(t, untimedGPX)
		var stdout, stderr bytes.Buffer
		code := run(context.Background(), []string{"-i", input}, &stdout, &stderr)
		assert.Equal(t, 1, code)
		assert.Contains(t, stdout.String(), "invalid")
		assert.NoFileExists(t, filepath.Join(filepath.Dir(input), "ride_speed.csv"))
	})

	t.Run("window larger than track", func(t *testing.T) {
		input := writeInput(t, sampleGPX)
		var stdout, stderr bytes.Buffer
		code := run(context.Background(), []string{"-i", input, "-window", "4"}, &stdout, &stderr)
		assert.Equal(t, 1, code)
	})
}

func TestRunVersion(t *testing.T) {
	writeInput(t, sampleGPX)
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, run(context.Background(), []string{"-version"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "gpxalyzer")
}

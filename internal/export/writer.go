package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/planbiir/gpxalyzer/internal/track"
)

// Format selects the output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want csv or json)", s)
	}
}

var csvHeader = []string{"track", "segment", "index", "lat", "lon", "ele", "time", "speed_mps"}

// WriteCSV writes one row per point. Missing elevation and time are empty
// cells; unannotated speed is 0.
func WriteCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, e := range entries {
		cols := e.Result.Columns
		for i := 0; i < cols.Len(); i++ {
			row := []string{
				strconv.Itoa(e.Track),
				strconv.Itoa(e.Segment),
				strconv.Itoa(i),
				formatFloat(cols.Lat[i]),
				formatFloat(cols.Lon[i]),
				"",
				"",
				formatFloat(cols.Speed[i]),
			}
			if ele := cols.Elevation[i]; ele != nil {
				row[5] = formatFloat(*ele)
			}
			if ts := cols.Time[i]; ts != nil {
				row[6] = ts.Format(time.RFC3339Nano)
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the indented Report.
func WriteJSON(w io.Writer, cfg track.Config, entries []Entry) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(NewReport(cfg, entries)); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// Write dispatches on format.
func Write(w io.Writer, format Format, cfg track.Config, entries []Entry) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, entries)
	case FormatJSON:
		return WriteJSON(w, cfg, entries)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

package store

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/mctrans/internal/ids"
	"github.com/san-kum/mctrans/internal/physics"
	"github.com/san-kum/mctrans/internal/transport"
)

type ExportData struct {
	Run   RunMetadata           `json:"run"`
	Steps []transport.StepStats `json:"steps"`
}

func ExportJSON(w io.Writer, meta *RunMetadata, steps []transport.StepStats) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: *meta, Steps: steps})
}

// ExportSecondariesCSV writes one row per secondary. label names a
// particle; unset IDs are written as an empty field.
func ExportSecondariesCSV(w io.Writer, secs []physics.Secondary, label func(ids.ParticleDefID) string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"index", "particle", "energy", "dir_x", "dir_y", "dir_z"}); err != nil {
		return err
	}

	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for i, s := range secs {
		name := ""
		if s.Particle.Valid() {
			name = label(s.Particle)
		}
		row := []string{strconv.Itoa(i), name, f(s.Energy.Value()), f(s.Direction.X), f(s.Direction.Y), f(s.Direction.Z)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

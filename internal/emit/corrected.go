package emit

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/fuelatlas/stations-cli/internal/model"
	"github.com/fuelatlas/stations-cli/internal/reconcile"
)

// WriteCorrectedRows writes the source rows back out with latitude and
// longitude replaced for corrected stations. Callers only invoke this when
// at least one correction exists.
func WriteCorrectedRows(w io.Writer, observations []model.Observation, corrections []reconcile.Correction) error {
	byStation := make(map[int]reconcile.Correction, len(corrections))
	for _, c := range corrections {
		byStation[c.StationID] = c
	}

	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)

	for _, obs := range observations {
		if c, ok := byStation[obs.StationID]; ok {
			obs.Latitude = formatCoord(c.Lat)
			obs.Longitude = formatCoord(c.Lng)
		}
		if err := enc.Encode(obs); err != nil {
			return eris.Wrap(err, "emit: write corrected row")
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "emit: flush corrected rows")
	}
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

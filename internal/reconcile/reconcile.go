// Package reconcile merges geocode outcomes back into the station model.
package reconcile

import (
	"go.uber.org/zap"

	"github.com/fuelatlas/stations-cli/internal/coords"
	"github.com/fuelatlas/stations-cli/internal/model"
	"github.com/fuelatlas/stations-cli/internal/resolver"
)

// Correction records one station whose coordinates were repaired.
type Correction struct {
	StationID int
	Lat       float64
	Lng       float64
}

// Apply overwrites station coordinates for every successful result and
// returns the ordered correction list. Failed results leave the station as
// previously classified; carrying a missing or stale coordinate into the
// output is an accepted degradation, not an error. Stations classified valid
// are never touched, regardless of resolver output.
func Apply(stations []*model.Station, class map[int]coords.Classification, results []resolver.Result) []Correction {
	log := zap.L().With(zap.String("component", "reconcile"))

	byID := make(map[int]*model.Station, len(stations))
	for _, st := range stations {
		byID[st.ID] = st
	}

	var corrections []Correction
	for _, res := range results {
		if !res.Success() {
			continue
		}
		st, ok := byID[res.StationID]
		if !ok {
			log.Warn("result for unknown station", zap.Int("station_id", res.StationID))
			continue
		}
		if !class[st.ID].NeedsGeocode() {
			log.Warn("refusing to overwrite valid coordinates", zap.Int("station_id", st.ID))
			continue
		}

		st.Coordinates = &model.Coordinates{Lat: res.Coordinates.Lat, Lng: res.Coordinates.Lng}
		corrections = append(corrections, Correction{
			StationID: st.ID,
			Lat:       res.Coordinates.Lat,
			Lng:       res.Coordinates.Lng,
		})
	}

	if len(corrections) > 0 {
		log.Info("applied coordinate corrections", zap.Int("corrections", len(corrections)))
	}
	return corrections
}

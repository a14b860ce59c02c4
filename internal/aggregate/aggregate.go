// Package aggregate folds observations into the per-station model.
package aggregate

import (
	"strconv"

	"github.com/fuelatlas/stations-cli/internal/model"
)

// Build groups observations by station and by product within station.
// Stations come out in first-appearance order. The first observation seen
// for a station supplies its descriptive snapshot; later observations that
// disagree are tolerated, not an error. Price points keep input order.
func Build(observations []model.Observation) []*model.Station {
	var stations []*model.Station
	byID := make(map[int]*model.Station)

	for _, obs := range observations {
		st, ok := byID[obs.StationID]
		if !ok {
			st = &model.Station{
				ID:       obs.StationID,
				Name:     obs.StationName,
				Address:  obs.Address,
				Town:     obs.Town,
				Province: obs.Province,
				Flag:     obs.Flag,
				FlagID:   obs.FlagID,
				RawLat:   obs.Latitude,
				RawLng:   obs.Longitude,
			}
			if c, parsed := parsePair(obs.Latitude, obs.Longitude); parsed {
				st.Coordinates = c
			}
			byID[obs.StationID] = st
			stations = append(stations, st)
		}

		ps := st.Product(obs.ProductID, obs.ProductName)
		ps.Prices = append(ps.Prices, model.PricePoint{
			Price:      obs.Price,
			Date:       obs.Date.Time,
			HourType:   obs.HourType,
			HourTypeID: obs.HourTypeID,
		})
	}

	return stations
}

// parsePair returns the coordinate pair when both values are numeric, even
// if implausible: an out-of-range pair is carried through so the output can
// preserve it when geocoding fails.
func parsePair(rawLat, rawLng string) (*model.Coordinates, bool) {
	lat, latErr := strconv.ParseFloat(rawLat, 64)
	lng, lngErr := strconv.ParseFloat(rawLng, 64)
	if latErr != nil || lngErr != nil {
		return nil, false
	}
	return &model.Coordinates{Lat: lat, Lng: lng}, true
}

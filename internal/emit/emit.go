// Package emit serializes the station model into the output document and the
// corrected source rows.
package emit

import (
	"encoding/json"
	"io"
	"time"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/fuelatlas/stations-cli/internal/model"
)

// stationDoc is the normative output shape for one station.
type stationDoc struct {
	StationID   int             `json:"stationId"`
	StationName string          `json:"stationName"`
	Address     string          `json:"address"`
	Town        string          `json:"town"`
	Province    string          `json:"province"`
	Flag        string          `json:"flag"`
	FlagID      int             `json:"flagId"`
	Geometry    json.RawMessage `json:"geometry"`
	Products    []productDoc    `json:"products"`
}

type productDoc struct {
	ProductID   int        `json:"productId"`
	ProductName string     `json:"productName"`
	Prices      []priceDoc `json:"prices"`
}

type priceDoc struct {
	Price      float64 `json:"price"`
	Date       string  `json:"date"`
	HourType   string  `json:"hourType"`
	HourTypeID int     `json:"hourTypeId"`
}

// WriteStations writes the station document as indented JSON. Stations with
// unresolved coordinates carry a null geometry.
func WriteStations(w io.Writer, stations []*model.Station) error {
	docs := make([]stationDoc, 0, len(stations))
	for _, st := range stations {
		doc := stationDoc{
			StationID:   st.ID,
			StationName: st.Name,
			Address:     st.Address,
			Town:        st.Town,
			Province:    st.Province,
			Flag:        st.Flag,
			FlagID:      st.FlagID,
			Products:    make([]productDoc, 0, len(st.Products)),
		}

		if st.Coordinates != nil {
			// GeoJSON order: longitude first.
			point := geom.NewPointFlat(geom.XY, []float64{st.Coordinates.Lng, st.Coordinates.Lat})
			raw, err := geojson.Marshal(point)
			if err != nil {
				return eris.Wrapf(err, "emit: encode geometry for station %d", st.ID)
			}
			doc.Geometry = raw
		}

		for _, ps := range st.Products {
			pd := productDoc{
				ProductID:   ps.ProductID,
				ProductName: ps.ProductName,
				Prices:      make([]priceDoc, 0, len(ps.Prices)),
			}
			for _, pp := range ps.Prices {
				pd.Prices = append(pd.Prices, priceDoc{
					Price:      pp.Price,
					Date:       pp.Date.UTC().Format(time.RFC3339),
					HourType:   pp.HourType,
					HourTypeID: pp.HourTypeID,
				})
			}
			doc.Products = append(doc.Products, pd)
		}

		docs = append(docs, doc)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(docs); err != nil {
		return eris.Wrap(err, "emit: write station document")
	}
	return nil
}

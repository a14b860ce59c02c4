// Package model defines the station price domain types shared across the pipeline.
package model

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// rowTimeLayout is the timestamp format used by the upstream dataset.
const rowTimeLayout = "02/01/2006 15:04"

// RowTime is a timestamp as it appears in the source rows (DD/MM/YYYY HH:MM,
// assumed UTC). It round-trips through the corrected-rows output unchanged.
type RowTime struct {
	time.Time
}

// UnmarshalText parses a source-row timestamp.
func (t *RowTime) UnmarshalText(b []byte) error {
	parsed, err := time.ParseInLocation(rowTimeLayout, strings.TrimSpace(string(b)), time.UTC)
	if err != nil {
		return eris.Wrap(err, "model: parse row timestamp")
	}
	t.Time = parsed
	return nil
}

// MarshalText renders the timestamp back in the source-row format.
func (t RowTime) MarshalText() ([]byte, error) {
	return []byte(t.Format(rowTimeLayout)), nil
}

// Observation is one price record as read from the source. Latitude and
// longitude are kept as raw strings: the source frequently ships them empty
// or malformed, and classifying them is the coordinate validator's job.
// Observations are immutable once loaded.
type Observation struct {
	StationID   int     `csv:"idempresa"`
	StationName string  `csv:"empresa"`
	Address     string  `csv:"direccion"`
	Town        string  `csv:"localidad"`
	Province    string  `csv:"provincia"`
	Flag        string  `csv:"empresabandera"`
	FlagID      int     `csv:"idempresabandera"`
	ProductID   int     `csv:"idproducto"`
	ProductName string  `csv:"producto"`
	Price       float64 `csv:"precio"`
	Date        RowTime `csv:"fecha_vigencia"`
	HourType    string  `csv:"tipohorario"`
	HourTypeID  int     `csv:"idtipohorario"`
	Latitude    string  `csv:"latitud"`
	Longitude   string  `csv:"longitud"`
}

package emit

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuelatlas/stations-cli/internal/model"
)

func sampleStation() *model.Station {
	st := &model.Station{
		ID:       123,
		Name:     "Estación Centro",
		Address:  "Av. Corrientes 1234",
		Town:     "CABA",
		Province: "Buenos Aires",
		Flag:     "YPF",
		FlagID:   1,
	}
	ps := st.Product(2, "Nafta Súper")
	ps.Prices = append(ps.Prices, model.PricePoint{
		Price:      850.50,
		Date:       time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC),
		HourType:   "Diurno",
		HourTypeID: 2,
	})
	return st
}

func decodeDoc(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var docs []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &docs))
	return docs
}

func TestWriteStationsGeometryIsLongitudeFirst(t *testing.T) {
	st := sampleStation()
	st.Coordinates = &model.Coordinates{Lat: -34.6, Lng: -58.4}

	var buf bytes.Buffer
	require.NoError(t, WriteStations(&buf, []*model.Station{st}))

	docs := decodeDoc(t, &buf)
	require.Len(t, docs, 1)

	geometry, ok := docs[0]["geometry"].(map[string]any)
	require.True(t, ok, "geometry should be an object")
	assert.Equal(t, "Point", geometry["type"])

	coords, ok := geometry["coordinates"].([]any)
	require.True(t, ok)
	require.Len(t, coords, 2)
	assert.InDelta(t, -58.4, coords[0].(float64), 0.001) // longitude first
	assert.InDelta(t, -34.6, coords[1].(float64), 0.001)
}

func TestWriteStationsUnresolvedGeometryIsNull(t *testing.T) {
	st := sampleStation()
	st.Coordinates = nil

	var buf bytes.Buffer
	require.NoError(t, WriteStations(&buf, []*model.Station{st}))

	docs := decodeDoc(t, &buf)
	require.Len(t, docs, 1)
	assert.Nil(t, docs[0]["geometry"])
}

func TestWriteStationsDocumentShape(t *testing.T) {
	st := sampleStation()
	st.Coordinates = &model.Coordinates{Lat: -34.6, Lng: -58.4}
	second := st.Product(3, "Gasoil Grado 2")
	second.Prices = append(second.Prices, model.PricePoint{
		Price:      790,
		Date:       time.Date(2024, 3, 16, 9, 30, 0, 0, time.UTC),
		HourType:   "Diurno",
		HourTypeID: 2,
	})

	var buf bytes.Buffer
	require.NoError(t, WriteStations(&buf, []*model.Station{st}))

	docs := decodeDoc(t, &buf)
	require.Len(t, docs, 1)
	doc := docs[0]

	assert.InDelta(t, 123, doc["stationId"].(float64), 0.001)
	assert.Equal(t, "Estación Centro", doc["stationName"])
	assert.Equal(t, "Av. Corrientes 1234", doc["address"])
	assert.Equal(t, "CABA", doc["town"])
	assert.Equal(t, "Buenos Aires", doc["province"])
	assert.Equal(t, "YPF", doc["flag"])
	assert.InDelta(t, 1, doc["flagId"].(float64), 0.001)

	products, ok := doc["products"].([]any)
	require.True(t, ok)
	require.Len(t, products, 2)

	p0 := products[0].(map[string]any)
	assert.InDelta(t, 2, p0["productId"].(float64), 0.001)
	assert.Equal(t, "Nafta Súper", p0["productName"])

	prices := p0["prices"].([]any)
	require.Len(t, prices, 1)
	price := prices[0].(map[string]any)
	assert.InDelta(t, 850.50, price["price"].(float64), 0.001)
	assert.Equal(t, "2024-03-15T08:00:00Z", price["date"])
	assert.Equal(t, "Diurno", price["hourType"])
	assert.InDelta(t, 2, price["hourTypeId"].(float64), 0.001)
}

package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuelatlas/stations-cli/internal/model"
)

func obs(stationID, productID int, productName string, price float64) model.Observation {
	return model.Observation{
		StationID:   stationID,
		StationName: "Estación Test",
		Address:     "Av. Siempre Viva 742",
		Town:        "Springfield",
		Province:    "Buenos Aires",
		Flag:        "YPF",
		FlagID:      1,
		ProductID:   productID,
		ProductName: productName,
		Price:       price,
		Date:        model.RowTime{Time: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)},
		HourType:    "Diurno",
		HourTypeID:  2,
	}
}

func TestBuildGroupsByStationAndProduct(t *testing.T) {
	// Two observations, same station, different products: exactly one
	// station with exactly two product entries.
	o1 := obs(5, 1, "Nafta Súper", 850.50)
	o2 := obs(5, 2, "Gasoil Grado 2", 790.00)

	stations := Build([]model.Observation{o1, o2})
	require.Len(t, stations, 1)

	st := stations[0]
	assert.Equal(t, 5, st.ID)
	require.Len(t, st.Products, 2)
	assert.Equal(t, 1, st.Products[0].ProductID)
	assert.Equal(t, 2, st.Products[1].ProductID)
	require.Len(t, st.Products[0].Prices, 1)
	assert.InDelta(t, 850.50, st.Products[0].Prices[0].Price, 0.001)
}

func TestBuildKeepsInputOrder(t *testing.T) {
	o1 := obs(1, 10, "Nafta Súper", 800)
	o2 := obs(1, 10, "Nafta Súper", 820)
	o3 := obs(1, 10, "Nafta Súper", 810)

	stations := Build([]model.Observation{o1, o2, o3})
	require.Len(t, stations, 1)

	prices := stations[0].Products[0].Prices
	require.Len(t, prices, 3)
	assert.InDelta(t, 800.0, prices[0].Price, 0.001)
	assert.InDelta(t, 820.0, prices[1].Price, 0.001)
	assert.InDelta(t, 810.0, prices[2].Price, 0.001)
}

func TestBuildFirstSeenDescriptiveFieldsWin(t *testing.T) {
	o1 := obs(7, 1, "Nafta Súper", 800)
	o2 := obs(7, 1, "Nafta Súper", 810)
	o2.StationName = "Renamed Station"
	o2.Town = "Elsewhere"

	stations := Build([]model.Observation{o1, o2})
	require.Len(t, stations, 1)
	assert.Equal(t, "Estación Test", stations[0].Name)
	assert.Equal(t, "Springfield", stations[0].Town)
}

func TestBuildStationsInFirstAppearanceOrder(t *testing.T) {
	stations := Build([]model.Observation{
		obs(30, 1, "Nafta Súper", 800),
		obs(10, 1, "Nafta Súper", 805),
		obs(30, 2, "Gasoil Grado 2", 790),
		obs(20, 1, "Nafta Súper", 802),
	})
	require.Len(t, stations, 3)
	assert.Equal(t, 30, stations[0].ID)
	assert.Equal(t, 10, stations[1].ID)
	assert.Equal(t, 20, stations[2].ID)
}

func TestBuildParsesCoordinatesWhenNumeric(t *testing.T) {
	o1 := obs(1, 1, "Nafta Súper", 800)
	o1.Latitude = "-34.6"
	o1.Longitude = "-58.4"

	o2 := obs(2, 1, "Nafta Súper", 800)
	o2.Latitude = ""
	o2.Longitude = ""

	// Out-of-range still parses; the validator flags it, the model carries it.
	o3 := obs(3, 1, "Nafta Súper", 800)
	o3.Latitude = "-120"
	o3.Longitude = "45"

	stations := Build([]model.Observation{o1, o2, o3})
	require.Len(t, stations, 3)

	require.NotNil(t, stations[0].Coordinates)
	assert.InDelta(t, -34.6, stations[0].Coordinates.Lat, 0.001)
	assert.InDelta(t, -58.4, stations[0].Coordinates.Lng, 0.001)

	assert.Nil(t, stations[1].Coordinates)

	require.NotNil(t, stations[2].Coordinates)
	assert.InDelta(t, -120.0, stations[2].Coordinates.Lat, 0.001)
}

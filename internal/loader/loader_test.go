package loader

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "idempresa,empresa,direccion,localidad,provincia,empresabandera,idempresabandera,idproducto,producto,precio,fecha_vigencia,tipohorario,idtipohorario,latitud,longitud"

func TestReadParsesRows(t *testing.T) {
	csv := header + "\n" +
		`123,Estación Centro,Av. Corrientes 1234,CABA,Buenos Aires,YPF,1,2,Nafta Súper,850.50,15/03/2024 08:00,Diurno,2,-34.6037,-58.3816` + "\n" +
		`124,Estación Norte,Ruta 9 Km 50,Campana,Buenos Aires,Shell,2,2,Nafta Súper,862.00,15/03/2024 08:00,Diurno,2,,`

	res, err := Read(context.Background(), strings.NewReader(csv), Options{})
	require.NoError(t, err)
	require.Len(t, res.Observations, 2)
	assert.Equal(t, 0, res.Skipped)

	first := res.Observations[0]
	assert.Equal(t, 123, first.StationID)
	assert.Equal(t, "Estación Centro", first.StationName)
	assert.Equal(t, "Av. Corrientes 1234", first.Address)
	assert.Equal(t, "YPF", first.Flag)
	assert.InDelta(t, 850.50, first.Price, 0.001)
	assert.Equal(t, time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC), first.Date.Time)
	assert.Equal(t, "-34.6037", first.Latitude)
	assert.Equal(t, "-58.3816", first.Longitude)

	// Missing coordinates come through as empty strings, not an error.
	assert.Empty(t, res.Observations[1].Latitude)
	assert.Empty(t, res.Observations[1].Longitude)
}

func TestReadSkipsMalformedRows(t *testing.T) {
	csv := header + "\n" +
		`123,Estación Centro,Av. Corrientes 1234,CABA,Buenos Aires,YPF,1,2,Nafta Súper,850.50,15/03/2024 08:00,Diurno,2,-34.6,-58.4` + "\n" +
		`bad-id,Estación Rota,Calle Falsa 123,CABA,Buenos Aires,YPF,1,2,Nafta Súper,850.50,15/03/2024 08:00,Diurno,2,,` + "\n" +
		`125,Estación Fecha,Calle Real 456,CABA,Buenos Aires,YPF,1,2,Nafta Súper,850.50,not-a-date,Diurno,2,,` + "\n" +
		`126,Estación Sur,Av. Mitre 900,Avellaneda,Buenos Aires,Axion,3,3,Gasoil Grado 2,790.00,16/03/2024 09:30,Diurno,2,-34.66,-58.36`

	res, err := Read(context.Background(), strings.NewReader(csv), Options{})
	require.NoError(t, err)
	require.Len(t, res.Observations, 2)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, 123, res.Observations[0].StationID)
	assert.Equal(t, 126, res.Observations[1].StationID)
}

func TestReadLatin1(t *testing.T) {
	// "Estación" with ó as the single ISO-8859-1 byte 0xF3.
	row := append([]byte(header+"\n123,Estaci"), 0xF3)
	row = append(row, []byte("n,Calle 1,CABA,Buenos Aires,YPF,1,2,Nafta,850.50,15/03/2024 08:00,Diurno,2,,")...)

	res, err := Read(context.Background(), strings.NewReader(string(row)), Options{Encoding: "latin-1"})
	require.NoError(t, err)
	require.Len(t, res.Observations, 1)
	assert.Equal(t, "Estación", res.Observations[0].StationName)
}

func TestReadUnsupportedEncoding(t *testing.T) {
	_, err := Read(context.Background(), strings.NewReader(header), Options{Encoding: "utf-16"})
	require.Error(t, err)
}

func TestReadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	csv := header + "\n" +
		`123,Estación Centro,Av. Corrientes 1234,CABA,Buenos Aires,YPF,1,2,Nafta Súper,850.50,15/03/2024 08:00,Diurno,2,,`
	_, err := Read(ctx, strings.NewReader(csv), Options{})
	require.Error(t, err)
}

// Package loader reads source price rows into typed observations.
package loader

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/fuelatlas/stations-cli/internal/model"
)

// Options configures the CSV reader.
type Options struct {
	// Encoding of the input file: "utf-8" (default) or "latin-1". The
	// upstream dataset has shipped both over the years.
	Encoding string
}

// Result is the outcome of reading one input source.
type Result struct {
	Observations []model.Observation
	// Skipped counts rows that failed to decode. Row malformation is
	// isolated per row and never fatal.
	Skipped int
}

// Read decodes all observations from r. Malformed rows are skipped and
// counted; only an unreadable source (I/O or header failure) is an error.
func Read(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	log := zap.L().With(zap.String("component", "loader"))

	switch opts.Encoding {
	case "", "utf-8", "utf8":
	case "latin-1", "latin1", "iso-8859-1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return nil, eris.Errorf("loader: unsupported encoding %q", opts.Encoding)
	}

	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1 // tolerate ragged rows; decode errors skip them

	dec, err := csvutil.NewDecoder(cr)
	if err != nil {
		return nil, eris.Wrap(err, "loader: read header")
	}

	res := &Result{}
	lastOffset := int64(-1)
	for row := 2; ; row++ { // header is row 1
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "loader: cancelled")
		}

		var obs model.Observation
		err := dec.Decode(&obs)
		if err == io.EOF {
			break
		}
		if err != nil {
			// A decode error with no reader progress is an input-level
			// failure, not a bad row.
			if cr.InputOffset() == lastOffset {
				return nil, eris.Wrap(err, "loader: read input")
			}
			lastOffset = cr.InputOffset()
			res.Skipped++
			log.Debug("skipping malformed row", zap.Int("row", row), zap.Error(err))
			continue
		}
		lastOffset = cr.InputOffset()
		res.Observations = append(res.Observations, obs)
	}

	if res.Skipped > 0 {
		log.Warn("skipped malformed rows",
			zap.Int("skipped", res.Skipped),
			zap.Int("loaded", len(res.Observations)),
		)
	}
	return res, nil
}

// Package coords classifies station coordinates as valid, missing, or invalid.
package coords

import (
	"strconv"
	"strings"
)

// Status is the classification of a station's stored coordinate pair.
type Status string

const (
	// StatusValid means both values are numeric, latitude is in [-90, 90],
	// longitude is in [-180, 180], and the pair is not the (0,0) sentinel.
	StatusValid Status = "valid"
	// StatusMissing means one or both values are absent or empty.
	StatusMissing Status = "missing"
	// StatusInvalid means values are present but non-numeric, out of range,
	// the (0,0) sentinel, or swapped-looking.
	StatusInvalid Status = "invalid"
)

// Detail refines an invalid classification for reporting.
type Detail string

const (
	DetailNone       Detail = ""
	DetailNonNumeric Detail = "non-numeric"
	DetailOutOfRange Detail = "out-of-range"
	DetailZero       Detail = "zero-sentinel"
	// DetailSwapped marks pairs that fail the latitude range but would pass
	// with the values exchanged. They are flagged, never auto-corrected.
	DetailSwapped Detail = "swapped"
)

// Classification is the validator's verdict on one coordinate pair.
type Classification struct {
	Status Status
	Detail Detail
}

// NeedsGeocode reports whether the station should become a geocode target.
func (c Classification) NeedsGeocode() bool {
	return c.Status != StatusValid
}

// Classify inspects a raw coordinate pair as read from the source.
// Pure; no side effects.
func Classify(rawLat, rawLng string) Classification {
	rawLat = strings.TrimSpace(rawLat)
	rawLng = strings.TrimSpace(rawLng)

	if rawLat == "" || rawLng == "" {
		return Classification{Status: StatusMissing}
	}

	lat, latErr := strconv.ParseFloat(rawLat, 64)
	lng, lngErr := strconv.ParseFloat(rawLng, 64)
	if latErr != nil || lngErr != nil {
		return Classification{Status: StatusInvalid, Detail: DetailNonNumeric}
	}

	if lat == 0 && lng == 0 {
		return Classification{Status: StatusInvalid, Detail: DetailZero}
	}

	if !InRange(lat, lng) {
		if InRange(lng, lat) {
			return Classification{Status: StatusInvalid, Detail: DetailSwapped}
		}
		return Classification{Status: StatusInvalid, Detail: DetailOutOfRange}
	}

	return Classification{Status: StatusValid}
}

// InRange reports whether a (lat, lng) pair is geographically plausible.
func InRange(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

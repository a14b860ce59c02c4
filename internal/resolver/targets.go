package resolver

import (
	"strings"

	"github.com/fuelatlas/stations-cli/internal/coords"
	"github.com/fuelatlas/stations-cli/internal/model"
)

// BuildTargets selects the stations whose coordinates were classified as
// missing or invalid and formats their lookup addresses. Order follows the
// station slice, so results apply deterministically.
func BuildTargets(stations []*model.Station, class map[int]coords.Classification, country string) []Target {
	var targets []Target
	for _, st := range stations {
		if !class[st.ID].NeedsGeocode() {
			continue
		}
		targets = append(targets, Target{
			StationID: st.ID,
			Address:   FormatAddress(st.Address, st.Town, st.Province, country),
		})
	}
	return Dedupe(targets)
}

// FormatAddress joins address, town, and province with the country suffix,
// dropping blank parts. Returns "" when the station carries no address data
// at all, which the resolver rejects before dispatch.
func FormatAddress(address, town, province, country string) string {
	var parts []string
	for _, p := range []string{address, town, province} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	if country = strings.TrimSpace(country); country != "" {
		parts = append(parts, country)
	}
	return strings.Join(parts, ", ")
}

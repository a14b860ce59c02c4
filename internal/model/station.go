package model

import "time"

// Coordinates is a geographic position. Latitude/longitude order follows the
// source data; the emitter is responsible for GeoJSON (longitude-first) order.
type Coordinates struct {
	Lat float64
	Lng float64
}

// PricePoint is a single price observation for one product at one station.
type PricePoint struct {
	Price      float64
	Date       time.Time
	HourType   string
	HourTypeID int
}

// ProductSeries holds the ordered price history of one product at one
// station. Order is input order; prices are never re-sorted.
type ProductSeries struct {
	ProductID   int
	ProductName string
	Prices      []PricePoint
}

// Station aggregates every observation sharing a station identifier. The
// descriptive fields are a first-seen snapshot; Coordinates is the only
// mutable attribute and is written at most once, by the reconciler, after
// geocode resolution completes.
type Station struct {
	ID       int
	Name     string
	Address  string
	Town     string
	Province string
	Flag     string
	FlagID   int

	// RawLat/RawLng hold the coordinate strings exactly as read, for
	// classification. Coordinates is set when both parse as numbers,
	// whether or not the pair is geographically plausible.
	RawLat      string
	RawLng      string
	Coordinates *Coordinates

	// Products in first-reference order.
	Products []*ProductSeries

	productIdx map[int]*ProductSeries
}

// Product returns the series for a product id, creating it on first
// reference with the given display name.
func (s *Station) Product(id int, name string) *ProductSeries {
	if s.productIdx == nil {
		s.productIdx = make(map[int]*ProductSeries)
	}
	if ps, ok := s.productIdx[id]; ok {
		return ps
	}
	ps := &ProductSeries{ProductID: id, ProductName: name}
	s.productIdx[id] = ps
	s.Products = append(s.Products, ps)
	return ps
}

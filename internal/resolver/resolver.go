// Package resolver turns stations with missing or invalid coordinates into
// geocode lookups: deduplicated targets, a bounded worker pool behind a
// token-bucket admission gate, and best-effort per-target failure handling.
package resolver

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/fuelatlas/stations-cli/internal/coords"
	"github.com/fuelatlas/stations-cli/internal/model"
	"github.com/fuelatlas/stations-cli/pkg/geocode"
)

// FailureReason classifies a terminal lookup failure.
type FailureReason string

const (
	ReasonNoMatch          FailureReason = "no-match"
	ReasonMalformedAddress FailureReason = "malformed-address"
	ReasonRateLimited      FailureReason = "rate-limited"
	ReasonNetworkError     FailureReason = "network-error"
	// ReasonUnavailable marks targets failed without a lookup because no
	// provider credential is configured.
	ReasonUnavailable FailureReason = "unavailable"
)

// A provider-side rate-limit response is retried once through the admission
// gate; the second one is terminal.
const maxRateLimitAttempts = 2

// Target is one deduplicated unit of geocoding work.
type Target struct {
	StationID int
	Address   string
}

// Result is the terminal outcome for one target: either Coordinates is set,
// or Reason explains the failure.
type Result struct {
	StationID   int
	Coordinates *model.Coordinates
	Reason      FailureReason
}

// Success reports whether the lookup produced coordinates.
func (r Result) Success() bool {
	return r.Coordinates != nil
}

// Stats aggregates a resolver run for reporting.
type Stats struct {
	Targets   int
	Attempted int // provider lookups dispatched, retries included
	Succeeded int
	Failed    int
	ByReason  map[FailureReason]int
}

// Config holds the resolver's externally supplied knobs.
type Config struct {
	// Workers bounds concurrent in-flight lookups.
	Workers int
	// RatePerSecond caps lookups initiated per second. Targets are delayed,
	// never dropped, when the gate is closed.
	RatePerSecond float64
	// Timeout bounds each individual lookup. A lookup exceeding it fails
	// terminally with reason network-error.
	Timeout time.Duration
}

// Option configures optional resolver behavior.
type Option func(*Resolver)

// WithProgress registers fn to be called once per target reaching a terminal
// state. fn must be safe for concurrent use.
func WithProgress(fn func()) Option {
	return func(r *Resolver) {
		r.onDone = fn
	}
}

// Resolver executes geocode lookups. A nil client means no credential is
// configured: every target fails terminally without touching the network and
// the rest of the pipeline proceeds unaffected.
type Resolver struct {
	client  geocode.Client
	limiter *rate.Limiter
	workers int
	timeout time.Duration
	onDone  func()
}

// New creates a resolver.
func New(client geocode.Client, cfg Config, opts ...Option) *Resolver {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	rps := cfg.RatePerSecond
	if rps <= 0 {
		rps = 1
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	r := &Resolver{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		workers: workers,
		timeout: cfg.Timeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve drives every target to a terminal state and returns the complete
// result set. Individual failures never abort the batch; the only error
// return is cancellation, in which case in-flight lookups are abandoned and
// no results are reported.
func (r *Resolver) Resolve(ctx context.Context, targets []Target) ([]Result, *Stats, error) {
	log := zap.L().With(zap.String("component", "resolver"))

	targets = Dedupe(targets)
	results := make([]Result, len(targets))
	var attempted atomic.Int64

	if r.client == nil {
		log.Warn("no geocoding credential configured, failing all targets",
			zap.Int("targets", len(targets)))
		for i, t := range targets {
			results[i] = failure(t, ReasonUnavailable)
			r.progress()
		}
		return results, tally(results, 0), nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, t := range targets {
		i, t := i, t
		// An empty address cannot be submitted; reject before dispatch so
		// it never consumes quota.
		if strings.TrimSpace(t.Address) == "" {
			results[i] = failure(t, ReasonMalformedAddress)
			r.progress()
			continue
		}

		g.Go(func() error {
			res, err := r.lookup(gctx, t, &attempted)
			if err != nil {
				return err // cancellation only
			}
			results[i] = res
			r.progress()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, eris.Wrap(err, "resolver: interrupted")
	}

	stats := tally(results, int(attempted.Load()))
	log.Info("geocode resolution complete",
		zap.Int("targets", stats.Targets),
		zap.Int("attempted", stats.Attempted),
		zap.Int("succeeded", stats.Succeeded),
		zap.Int("failed", stats.Failed),
	)
	return results, stats, nil
}

// lookup drives one target to a terminal state. The error return is reserved
// for cancellation; every provider failure becomes a Result.
func (r *Resolver) lookup(ctx context.Context, t Target, attempted *atomic.Int64) (Result, error) {
	log := zap.L().With(
		zap.String("component", "resolver"),
		zap.Int("station_id", t.StationID),
	)

	for attempt := 1; attempt <= maxRateLimitAttempts; attempt++ {
		if err := r.limiter.Wait(ctx); err != nil {
			return Result{}, eris.Wrap(err, "resolver: admission gate")
		}
		attempted.Add(1)

		lctx := ctx
		cancel := context.CancelFunc(func() {})
		if r.timeout > 0 {
			lctx, cancel = context.WithTimeout(ctx, r.timeout)
		}
		res, err := r.client.Geocode(lctx, t.Address)
		cancel()

		switch {
		case err == nil:
			if !coords.InRange(res.Lat, res.Lng) {
				log.Warn("provider returned implausible coordinates",
					zap.Float64("lat", res.Lat), zap.Float64("lng", res.Lng))
				return failure(t, ReasonNoMatch), nil
			}
			return Result{
				StationID:   t.StationID,
				Coordinates: &model.Coordinates{Lat: res.Lat, Lng: res.Lng},
			}, nil
		case ctx.Err() != nil:
			// Run cancelled, not a per-lookup timeout; abandon the target.
			return Result{}, eris.Wrap(ctx.Err(), "resolver: cancelled")
		case errors.Is(err, geocode.ErrRateLimited):
			log.Debug("provider rate limited lookup", zap.Int("attempt", attempt))
			continue
		case errors.Is(err, geocode.ErrNoMatch):
			return failure(t, ReasonNoMatch), nil
		case errors.Is(err, geocode.ErrMalformedAddress):
			return failure(t, ReasonMalformedAddress), nil
		default:
			// Timeouts and transport errors land here.
			log.Debug("lookup failed", zap.Error(err))
			return failure(t, ReasonNetworkError), nil
		}
	}

	return failure(t, ReasonRateLimited), nil
}

func (r *Resolver) progress() {
	if r.onDone != nil {
		r.onDone()
	}
}

func failure(t Target, reason FailureReason) Result {
	return Result{StationID: t.StationID, Reason: reason}
}

func tally(results []Result, attempted int) *Stats {
	stats := &Stats{
		Targets:   len(results),
		Attempted: attempted,
		ByReason:  make(map[FailureReason]int),
	}
	for _, res := range results {
		if res.Success() {
			stats.Succeeded++
			continue
		}
		stats.Failed++
		stats.ByReason[res.Reason]++
	}
	return stats
}

// Dedupe keeps the first target per station identifier, preserving order.
// Duplicate lookups waste quota for no gain, so this is mandatory, not an
// optimization.
func Dedupe(targets []Target) []Target {
	seen := make(map[int]struct{}, len(targets))
	out := make([]Target, 0, len(targets))
	for _, t := range targets {
		if _, ok := seen[t.StationID]; ok {
			continue
		}
		seen[t.StationID] = struct{}{}
		out = append(out, t)
	}
	return out
}

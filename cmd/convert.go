package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rotisserie/eris"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fuelatlas/stations-cli/internal/aggregate"
	"github.com/fuelatlas/stations-cli/internal/coords"
	"github.com/fuelatlas/stations-cli/internal/emit"
	"github.com/fuelatlas/stations-cli/internal/loader"
	"github.com/fuelatlas/stations-cli/internal/reconcile"
	"github.com/fuelatlas/stations-cli/internal/resolver"
	"github.com/fuelatlas/stations-cli/pkg/geocode"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert the price history CSV into the station JSON document",
	Long:  "Reads price observations, groups them by station and product, geocodes stations with missing or invalid coordinates, and writes the station document plus a corrected copy of the source rows when any coordinates were repaired.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		input, _ := cmd.Flags().GetString("input")
		output, _ := cmd.Flags().GetString("output")
		correctedOut, _ := cmd.Flags().GetString("corrected-output")
		encoding, _ := cmd.Flags().GetString("encoding")
		workers, _ := cmd.Flags().GetInt("workers")
		rps, _ := cmd.Flags().GetFloat64("rate")

		if encoding == "" {
			encoding = cfg.Input.Encoding
		}
		if workers <= 0 {
			workers = cfg.Geocode.Workers
		}
		if rps <= 0 {
			rps = cfg.Geocode.RatePerSecond
		}

		log := zap.L().With(zap.String("command", "convert"))

		f, err := os.Open(input)
		if err != nil {
			return eris.Wrapf(err, "convert: open input %s", input)
		}
		defer f.Close() //nolint:errcheck

		loaded, err := loader.Read(ctx, f, loader.Options{Encoding: encoding})
		if err != nil {
			return err
		}
		log.Info("loaded observations",
			zap.Int("rows", len(loaded.Observations)),
			zap.Int("skipped", loaded.Skipped),
		)

		stations := aggregate.Build(loaded.Observations)

		class := make(map[int]coords.Classification, len(stations))
		for _, st := range stations {
			class[st.ID] = coords.Classify(st.RawLat, st.RawLng)
		}

		targets := resolver.BuildTargets(stations, class, cfg.Geocode.Country)
		log.Info("selected geocode targets",
			zap.Int("stations", len(stations)),
			zap.Int("targets", len(targets)),
		)

		var client geocode.Client
		if cfg.Geocode.APIKey != "" {
			client = geocode.NewClient(cfg.Geocode.APIKey, geocode.WithRegion(cfg.Geocode.Region))
		} else {
			log.Warn("no geocoding API key configured, coordinates will not be repaired")
		}

		var corrections []reconcile.Correction
		var stats *resolver.Stats
		if len(targets) > 0 {
			opts := []resolver.Option{}
			if isatty.IsTerminal(os.Stderr.Fd()) {
				bar := progressbar.NewOptions(len(targets),
					progressbar.OptionSetDescription("Geocoding stations"),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)
				opts = append(opts, resolver.WithProgress(func() { _ = bar.Add(1) }))
			}

			res := resolver.New(client, resolver.Config{
				Workers:       workers,
				RatePerSecond: rps,
				Timeout:       time.Duration(cfg.Geocode.TimeoutSecs) * time.Second,
			}, opts...)

			var results []resolver.Result
			results, stats, err = res.Resolve(ctx, targets)
			if err != nil {
				return err
			}

			corrections = reconcile.Apply(stations, class, results)
		}

		out, err := os.Create(output)
		if err != nil {
			return eris.Wrapf(err, "convert: create output %s", output)
		}
		defer out.Close() //nolint:errcheck
		if err := emit.WriteStations(out, stations); err != nil {
			return err
		}

		if len(corrections) > 0 {
			cf, err := os.Create(correctedOut)
			if err != nil {
				return eris.Wrapf(err, "convert: create corrected output %s", correctedOut)
			}
			defer cf.Close() //nolint:errcheck
			if err := emit.WriteCorrectedRows(cf, loaded.Observations, corrections); err != nil {
				return err
			}
			fmt.Printf("Wrote corrected rows to %s\n", correctedOut)
		}

		fmt.Printf("Wrote %d stations to %s (%d rows, %d skipped)\n",
			len(stations), output, len(loaded.Observations), loaded.Skipped)
		if stats != nil {
			fmt.Printf("Geocoding: %d targets, %d attempted, %d succeeded, %d failed\n",
				stats.Targets, stats.Attempted, stats.Succeeded, stats.Failed)
			for reason, n := range stats.ByReason {
				fmt.Printf("  %s: %d\n", reason, n)
			}
		}
		return nil
	},
}

func init() {
	convertCmd.Flags().String("input", "precios-historicos.csv", "input CSV path")
	convertCmd.Flags().String("output", "stations_prices.json", "output JSON path")
	convertCmd.Flags().String("corrected-output", "precios-historicos-updated.csv", "corrected rows CSV path, written only when corrections occurred")
	convertCmd.Flags().String("encoding", "", "input encoding (utf-8 or latin-1), overrides config")
	convertCmd.Flags().Int("workers", 0, "concurrent geocode lookups, overrides config")
	convertCmd.Flags().Float64("rate", 0, "max geocode lookups per second, overrides config")
	rootCmd.AddCommand(convertCmd)
}

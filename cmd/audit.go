package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/fuelatlas/stations-cli/internal/aggregate"
	"github.com/fuelatlas/stations-cli/internal/coords"
	"github.com/fuelatlas/stations-cli/internal/loader"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Report coordinate quality without geocoding",
	Long:  "Classifies every station's stored coordinates as valid, missing, or invalid and prints the breakdown. No lookups are issued.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		input, _ := cmd.Flags().GetString("input")
		encoding, _ := cmd.Flags().GetString("encoding")
		if encoding == "" {
			encoding = cfg.Input.Encoding
		}

		f, err := os.Open(input)
		if err != nil {
			return eris.Wrapf(err, "audit: open input %s", input)
		}
		defer f.Close() //nolint:errcheck

		loaded, err := loader.Read(ctx, f, loader.Options{Encoding: encoding})
		if err != nil {
			return err
		}

		stations := aggregate.Build(loaded.Observations)

		byStatus := make(map[coords.Status]int)
		byDetail := make(map[coords.Detail]int)
		for _, st := range stations {
			c := coords.Classify(st.RawLat, st.RawLng)
			byStatus[c.Status]++
			if c.Detail != coords.DetailNone {
				byDetail[c.Detail]++
			}
		}

		fmt.Printf("%d stations from %d rows (%d skipped)\n",
			len(stations), len(loaded.Observations), loaded.Skipped)
		for _, status := range []coords.Status{coords.StatusValid, coords.StatusMissing, coords.StatusInvalid} {
			fmt.Printf("  %s: %d\n", status, byStatus[status])
		}
		if len(byDetail) > 0 {
			fmt.Println("invalid breakdown:")
			for _, detail := range []coords.Detail{coords.DetailNonNumeric, coords.DetailOutOfRange, coords.DetailZero, coords.DetailSwapped} {
				if n := byDetail[detail]; n > 0 {
					fmt.Printf("  %s: %d\n", detail, n)
				}
			}
		}
		return nil
	},
}

func init() {
	auditCmd.Flags().String("input", "precios-historicos.csv", "input CSV path")
	auditCmd.Flags().String("encoding", "", "input encoding (utf-8 or latin-1), overrides config")
	rootCmd.AddCommand(auditCmd)
}

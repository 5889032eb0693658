package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"flight_dwh/internal/config"
	"flight_dwh/internal/warehouse"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "flightdwh",
	Short: "Administer the flight data warehouse schema",
	Long: `flightdwh manages the star schema of the flight data warehouse:
dim_date, dim_airport, dim_airline, dim_weather, and fact_flights.

It creates, drops, and truncates the tables and reports row counts. Loading
data into the warehouse is the job of an external process.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is ./"+config.DefaultPath+")")
}

// openStore opens the configured warehouse backend.
func openStore(ctx context.Context) (warehouse.Store, error) {
	store, err := warehouse.Open(ctx, cfg.Warehouse())
	if err != nil {
		return nil, fmt.Errorf("open warehouse: %w", err)
	}
	return store, nil
}

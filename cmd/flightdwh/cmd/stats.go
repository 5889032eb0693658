package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"flight_dwh/internal/warehouse"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show row counts per warehouse table",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		counts, err := store.TableCounts(ctx)
		if err != nil {
			return fmt.Errorf("table counts: %w", err)
		}

		for _, table := range warehouse.Tables {
			fmt.Printf("%-14s %d\n", table, counts[table])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Drop any existing warehouse tables and create the schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		fmt.Println("Dropping existing warehouse tables (if any)...")
		if err := store.DropSchema(ctx); err != nil {
			return fmt.Errorf("drop schema: %w", err)
		}

		fmt.Println("Creating warehouse schema...")
		if err := store.CreateSchema(ctx); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}

		fmt.Println("Warehouse schema created.")
		return nil
	},
}

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop the warehouse tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		if err := store.DropSchema(ctx); err != nil {
			return fmt.Errorf("drop schema: %w", err)
		}
		fmt.Println("Warehouse tables dropped.")
		return nil
	},
}

var truncateCmd = &cobra.Command{
	Use:   "truncate",
	Short: "Empty all warehouse tables so a load starts from a clean slate",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		if err := store.Truncate(ctx); err != nil {
			return fmt.Errorf("truncate: %w", err)
		}
		fmt.Println("Warehouse tables emptied.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(truncateCmd)
}

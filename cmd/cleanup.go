package cmd

import (
	"github.com/Rana718/bulkgen/internal/database/common"
	"github.com/Rana718/bulkgen/internal/seeder"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Truncate every generated table",
	Long:  `Empties all tables in reverse dependency order. Missing tables are reported and skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		store, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		s, err := seeder.NewSeeder(cfg, store)
		if err != nil {
			return err
		}

		entries, err := s.Cleanup(cmd.Context())
		if err != nil {
			return err
		}

		truncated := 0
		for _, e := range entries {
			if e.Status == common.Truncated {
				truncated++
			}
		}
		color.Green("✅ %d of %d tables truncated", truncated, len(entries))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
	addDatabaseFlags(cleanupCmd)
}

package cmd

import (
	"github.com/Rana718/bulkgen/internal/seeder"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate and load the full dataset",
	Long: `Cleans the target tables (unless --no-cleanup), then generates and loads
users, categories, products, orders, order items, audit log and query history
in that order. Every batch is committed in its own transaction.`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	addDatabaseFlags(generateCmd)
	addGenerationFlags(generateCmd)
	generateCmd.Flags().Bool("no-cleanup", false, "Keep existing rows instead of truncating first")
	generateCmd.Flags().String("report", "", "Write a YAML run report to this path")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.IsMemory() {
		color.Yellow("⚠️  memory provider: dry run, nothing is written to a database")
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

	report, runErr := s.Run(cmd.Context())
	if report != nil {
		report.Print()
		if cfg.Report.Path != "" {
			if err := report.WriteFile(cfg.Report.Path); err != nil {
				color.Yellow("⚠️  %v", err)
			} else {
				color.Green("📄 Report written to %s", cfg.Report.Path)
			}
		}
	}
	return runErr
}

// Package cmd implements the panitia CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/gkj-pamulang/panitia/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := flagConfig
	if path == "" {
		path = config.ConfigPath()
	}
	fmt.Printf("  Config file: %s\n", path)
	if _, err := os.Stat(path); err == nil {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [Sources]")
	printSource("Income", cfg.Sources.Income)
	printSource("Donors", cfg.Sources.Donors)
	printSource("Pledges", cfg.Sources.Pledges)
	if cfg.Sources.Pledges.SearchURL != "" {
		fmt.Printf("    %-9s %s\n", "Search:", cfg.Sources.Pledges.SearchURL)
	}
	fmt.Println()

	fmt.Println("  [Refresh]")
	fmt.Printf("    Interval:        %s\n", cfg.Refresh.Interval())
	fmt.Printf("    Request timeout: %s\n", cfg.Refresh.Timeout())
	fmt.Printf("    Search debounce: %s\n", cfg.Refresh.Debounce())
	fmt.Println()

	fmt.Println("  [Schema]")
	fmt.Printf("    Strict rows: %v\n", cfg.Schema.Strict)
	fmt.Println()

	fmt.Println("  [Static]")
	if cfg.Static.OverridePath != "" {
		fmt.Printf("    Override: %s (watch: %v)\n", cfg.Static.OverridePath, cfg.Static.Watch)
	} else {
		fmt.Println("    Override: none (bundled dataset)")
	}
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address: %s\n", cfg.Server.Addr)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme:          %s\n", cfg.Appearance.Theme)
	fmt.Printf("    Markdown style: %s\n", cfg.Appearance.MarkdownStyle)
	fmt.Println()

	fmt.Println("  Run `panitia setup` to reconfigure.")
	return nil
}

func printSource(name string, s config.SourceConfig) {
	if s.URL == "" {
		fmt.Printf("    %-9s not configured (static)\n", name+":")
		return
	}
	format := s.Format
	if format == "" {
		format = "csv"
	}
	fmt.Printf("    %-9s %s [%s]\n", name+":", s.URL, format)
}

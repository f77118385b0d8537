package cmd

import (
	"errors"
	"fmt"

	"github.com/gkj-pamulang/panitia/internal/config"
	"github.com/gkj-pamulang/panitia/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	path := flagConfig
	if path == "" {
		path = config.ConfigPath()
	}

	// Load existing config or defaults
	cfg, err := config.LoadFrom(path)
	if err != nil {
		cfg = config.DefaultConfig()
	}

	vals := tui.SetupValuesFrom(cfg)
	if err := tui.NewSetupForm(&vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled; nothing was saved.")
			return nil
		}
		return err
	}

	cfg = vals.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.SaveTo(path, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", path)
	fmt.Println("  Run `panitia setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pthm-cable/garden/config"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "garden",
		Short: "Headless plant garden simulation",
		Long: `garden grows a small grid of plants that evolve, befriend their
neighbors, age into elders and make wishes.

Runs are headless: a simulated clock advances one growth tick per step.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			if err := config.Init(path); err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			level, _ := cmd.Flags().GetString("log-level")
			return setupLogging(config.Cfg(), level)
		},
	}

	rootCmd.PersistentFlags().String("config", os.Getenv("GARDEN_CONFIG"), "Path to config.yaml (empty = use defaults)")
	rootCmd.PersistentFlags().String("log-level", os.Getenv("GARDEN_LOG_LEVEL"), "Override logging.level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newRunCmd(),
		newCatalogCmd(),
		newConfigCmd(),
		newInspectCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging installs the default slog logger: JSON on stdout, or
// charmbracelet's terminal handler on stderr for the text format.
func setupLogging(cfg *config.Config, levelOverride string) error {
	name := cfg.Logging.Level
	if levelOverride != "" {
		name = levelOverride
	}
	level, err := charmlog.ParseLevel(strings.ToLower(name))
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	var handler slog.Handler
	switch cfg.Logging.Format {
	case "text":
		handler = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
			Level:           level,
			ReportTimestamp: true,
		})
	default:
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.Level(level)})
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

// Package root contains the root command for the application.
package root

import (
	"context"
	"time"

	"billbuddy/statements/internal/classify"
	"billbuddy/statements/internal/config"
	"billbuddy/statements/internal/logging"

	"github.com/spf13/cobra"
)

var (
	// Cfg is the loaded application configuration, available to every
	// subcommand after PersistentPreRunE.
	Cfg *config.Config

	// Log is the shared logger for commands.
	Log logging.Logger = logging.GetLogger()

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "billbuddy",
		Short: "Parse credit-card statement text and settle shared expenses.",
		Long: `billbuddy extracts structured transactions from credit-card statement
text or PDFs, suggests recurring-merchant groups, and settles shared
costs into per-person balances.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				return err
			}
			Cfg = cfg

			Log = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
			logging.SetLogger(Log)
			return nil
		},
	}
)

// NewClassifier builds the classifier per the loaded configuration:
// built-in rules, optional YAML overrides, optional AI suggester.
func NewClassifier() *classify.Classifier {
	c := classify.New(Log)

	if Cfg.Categories.File != "" {
		if err := c.LoadOverrides(Cfg.Categories.File); err != nil {
			Log.WithError(err).Debug("Category overrides not loaded",
				logging.Field{Key: logging.FieldFile, Value: Cfg.Categories.File})
		}
	}

	if Cfg.AI.Enabled {
		timeout := time.Duration(Cfg.AI.TimeoutSeconds) * time.Second
		suggester, err := classify.NewGeminiSuggester(
			context.Background(), Cfg.AI.APIKey, Cfg.AI.Model, timeout, Log)
		if err != nil {
			Log.WithError(err).Warn("AI categorization disabled")
		} else {
			c.Suggester = suggester
		}
	}

	return c
}

// Package cli holds the phishview command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/raysh454/phishview/internal/app"
)

// NewRootCommand creates and returns the root cobra command
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phishview",
		Short: "Submit URLs to a phishing analysis backend and render its verdicts",
		Long: `phishview is the frontend for a phishing URL analysis backend.
It submits URLs, validates the backend's verdict and renders it as a risk
meter, verdict banner, Safe Browsing report and feature table, either in a
browser page, over a websocket or on the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Path to configuration file (optional)")
	cmd.PersistentFlags().String("log-level", "", "Log level: debug|info|warn|error")
	cmd.PersistentFlags().String("log-format", "", "Log format: json|text")

	cmd.AddCommand(newAnalyzeCommand(), newServeCommand(), newDemoBackendCommand())
	return cmd
}

// loadConfig reads --config plus the environment, then applies the root's
// logging flags.
func loadConfig(cmd *cobra.Command) (*app.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := app.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		cfg.Log.Format = v
	}
	return cfg, nil
}

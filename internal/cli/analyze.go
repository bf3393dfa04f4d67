package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raysh454/phishview/internal/app"
	"github.com/raysh454/phishview/internal/webclient"
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <url>",
		Short: "Analyze one URL and print the rendered verdict",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}

	cmd.Flags().String("backend", "", "Analysis backend base URL (overrides config)")
	cmd.Flags().String("client", "", "Request backend: nethttp|chromedp (overrides config)")
	cmd.Flags().Duration("timeout", 0, "Request timeout, 0 for none (overrides config)")
	cmd.Flags().Bool("json", false, "Print the result and rendered view as JSON")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("backend"); v != "" {
		cfg.Analysis.BackendURL = v
	}
	if v, _ := cmd.Flags().GetString("client"); v != "" {
		cfg.WebClient.Client = webclient.Client(v)
	}
	if cmd.Flags().Changed("timeout") {
		cfg.WebClient.Timeout, _ = cmd.Flags().GetDuration("timeout")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	asJSON, _ := cmd.Flags().GetBool("json")

	logger := app.NewLogger(cfg.Log, "cli")
	a, err := app.NewApplication(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.Shutdown(cmd.Context()) }()

	rep, err := a.Analyze(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	if err := WriteView(out, rep.View); err != nil {
		return fmt.Errorf("writing view: %w", err)
	}
	return nil
}

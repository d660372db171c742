package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	historyFormat string
	historyIntent string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Export generation history to stdout",
	Long: `Print the stored generation history as JSON or YAML, optionally
filtered to one intent.

Examples:
  mailmind history
  mailmind history --format yaml
  mailmind history --intent COMPLAINT`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&historyFormat, "format", "json", "output format: json or yaml")
	historyCmd.Flags().StringVar(&historyIntent, "intent", "", "only entries with this intent")
}

func runHistory(cmd *cobra.Command, args []string) error {
	e, err := bootstrap()
	if err != nil {
		return err
	}
	defer e.cleanup()

	items, err := func() (any, error) {
		if historyIntent != "" {
			return e.svc.HistoryByIntent(cmd.Context(), historyIntent)
		}
		return e.svc.History(cmd.Context())
	}()
	if err != nil {
		return err
	}

	switch historyFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		defer func() { _ = enc.Close() }()
		return enc.Encode(items)
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", historyFormat)
	}
}

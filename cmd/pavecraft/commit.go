package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pavecraft/internal/ingest"
)

func commitCmd() *cobra.Command {
	var flags previewFlags
	var selects []string
	cmd := &cobra.Command{
		Use:   "commit <file|->",
		Short: "Build the final network, settling ambiguous performances with --select",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selections, err := parseSelections(selects)
			if err != nil {
				return err
			}
			preview, err := runPreview(cmd, args[0], flags)
			if err != nil {
				return err
			}
			final, err := ingest.Finalize(preview, selections)
			if err != nil {
				printDiagnostics(cmd.ErrOrStderr(), "Errors", preview.Errors)
				return err
			}
			return writeJSON(cmd.OutOrStdout(), final)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringArrayVar(&selects, "select", nil, `Performance for an ambiguous label, as "label=performanceId" (repeatable)`)
	return cmd
}

func parseSelections(values []string) (map[string]string, error) {
	selections := make(map[string]string, len(values))
	for _, value := range values {
		// Labels may contain "=", ids do not.
		i := strings.LastIndex(value, "=")
		if i < 0 {
			return nil, fmt.Errorf("invalid --select %q, expected label=performanceId", value)
		}
		label, id := strings.TrimSpace(value[:i]), strings.TrimSpace(value[i+1:])
		if label == "" || id == "" {
			return nil, fmt.Errorf("invalid --select %q, expected label=performanceId", value)
		}
		selections[label] = id
	}
	return selections, nil
}

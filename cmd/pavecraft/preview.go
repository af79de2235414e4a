package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"pavecraft/internal/diag"
	"pavecraft/internal/ingest"
	"pavecraft/internal/weights"
)

type previewFlags struct {
	catalog    string
	weightMode string
	json       bool
}

func (f *previewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.catalog, "catalog", "", "Performance catalog file (YAML or JSON); defaults to the project catalog")
	cmd.Flags().StringVar(&f.weightMode, "weight-mode", "", "Current weight mode: discrete_3, discrete_5, discrete_7 or continuous")
}

func previewCmd() *cobra.Command {
	var flags previewFlags
	cmd := &cobra.Command{
		Use:   "preview <file|->",
		Short: "Check a network JSON document and show how it would be imported",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			preview, err := runPreview(cmd, args[0], flags)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if flags.json {
				if err := writeJSON(out, preview); err != nil {
					return err
				}
			} else {
				printPreview(out, preview)
			}
			if !preview.Valid {
				return fmt.Errorf("network is not ready to import")
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&flags.json, "json", false, "Print the full preview document as JSON")
	return cmd
}

func runPreview(cmd *cobra.Command, path string, flags previewFlags) (*ingest.Preview, error) {
	p, err := loadProject()
	if err != nil {
		return nil, err
	}
	defer p.Close()

	input, err := readInput(path, cmd.InOrStdin())
	if err != nil {
		return nil, err
	}

	catalog, err := p.catalogSource(flags.catalog)(cmd.Context())
	if err != nil {
		return nil, err
	}

	opts := ingest.Options{
		WeightMode: p.cfg.WeightMode(ingest.DefaultWeightMode),
		Matcher:    p.cfg.MatchConfig(),
	}
	if flags.weightMode != "" {
		mode, ok := weights.ParseMode(flags.weightMode)
		if !ok {
			return nil, fmt.Errorf("unknown weight mode: %s", flags.weightMode)
		}
		opts.WeightMode = mode
	}

	preview := ingest.Run(input, catalog, opts)
	p.logger.Info("network previewed",
		"import_id", preview.ImportID,
		"valid", preview.Valid,
		"nodes", len(preview.ConvertedNetwork.Nodes),
		"edges", preview.Stats.EdgeCount,
		"errors", len(preview.Errors),
		"warnings", len(preview.Warnings),
	)
	return preview, nil
}

func printPreview(out io.Writer, preview *ingest.Preview) {
	counts := preview.Stats.NodesByLayer
	fmt.Fprintf(out, "Nodes: P=%d A=%d V=%d E=%d\n", counts.P, counts.A, counts.V, counts.E)
	fmt.Fprintf(out, "Edges: %d\n", preview.Stats.EdgeCount)
	fmt.Fprintf(out, "Weight mode: %s\n", preview.ConvertedNetwork.WeightMode)
	if domain, ok := weights.DomainFor(preview.ConvertedNetwork.WeightMode); ok && len(domain.Labels) > 0 {
		fmt.Fprintf(out, "Weights: %s\n", strings.Join(domain.Labels, ", "))
	}

	printDiagnostics(out, "Errors", preview.Errors)
	printDiagnostics(out, "Warnings", preview.Warnings)
	printDiagnostics(out, "Info", preview.Infos)

	if ambiguous := preview.Ambiguous(); len(ambiguous) > 0 {
		fmt.Fprintf(out, "\nAmbiguous performances (%d):\n", len(ambiguous))
		for _, m := range ambiguous {
			ids := make([]string, 0, len(m.Candidates))
			for _, c := range m.Candidates {
				ids = append(ids, fmt.Sprintf("%s=%s (%s)", m.InputLabel, c.ID, c.Name))
			}
			fmt.Fprintf(out, "  - %s [%s]: %s\n", m.InputLabel, m.Strategy, strings.Join(ids, ", "))
		}
	}

	if preview.Valid {
		fmt.Fprintln(out, "\nReady to import.")
	}
}

func printDiagnostics(out io.Writer, title string, ds []diag.Diagnostic) {
	if len(ds) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s (%d):\n", title, len(ds))
	for _, d := range ds {
		fmt.Fprintf(out, "  - %s\n", d)
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

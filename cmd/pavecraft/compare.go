package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pavecraft/internal/config"
	"pavecraft/internal/perftree"
)

func compareCmd() *cobra.Command {
	var showMapping bool
	cmd := &cobra.Command{
		Use:   "compare <snapshot> <current>",
		Short: "Compare two performance catalogs by structure",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := config.LoadCatalog(args[0])
			if err != nil {
				return err
			}
			current, err := config.LoadCatalog(args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			result := perftree.Compare(current, snapshot)
			if !result.Match {
				fmt.Fprintln(out, perftree.MismatchMessage(current, snapshot))
				return fmt.Errorf("performance trees differ (%d difference(s))", len(result.Differences))
			}

			fmt.Fprintln(out, "Performance trees match; saved designs stay editable.")
			if showMapping {
				mapping, err := perftree.CreateIDMapping(snapshot, current)
				if err != nil {
					return err
				}
				return writeJSON(out, mapping)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showMapping, "mapping", false, "Print the leaf id mapping as JSON")
	return cmd
}

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"pavecraft/internal/config"
	"pavecraft/internal/network"
	"pavecraft/internal/perftree"
)

func remapCmd() *cobra.Command {
	var snapshotPath, currentPath string
	var reverse bool
	cmd := &cobra.Command{
		Use:   "remap <network.json|->",
		Short: "Rewrite performance references of a stored network for a changed catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			defer p.Close()

			input, err := readInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			var net network.Network
			if err := json.Unmarshal([]byte(input), &net); err != nil {
				return fmt.Errorf("decoding network: %w", err)
			}

			snapshot, err := config.LoadCatalog(snapshotPath)
			if err != nil {
				return err
			}
			current, err := p.catalogSource(currentPath)(cmd.Context())
			if err != nil {
				return err
			}

			dir := perftree.Forward
			if reverse {
				dir = perftree.Reverse
			}
			reconciled, err := perftree.Reconcile(net, snapshot, current, dir)
			if err != nil {
				return err
			}
			p.logger.Info("network remapped", "remapped", reconciled.Remapped, "migrated", reconciled.Migrated, "reverse", reverse)
			return writeJSON(cmd.OutOrStdout(), reconciled.Network)
		},
	}
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Catalog the network was saved against")
	cmd.Flags().StringVar(&currentPath, "current", "", "Current catalog file; defaults to the project catalog")
	cmd.Flags().BoolVar(&reverse, "reverse", false, "Translate current ids back to snapshot ids")
	_ = cmd.MarkFlagRequired("snapshot")
	return cmd
}

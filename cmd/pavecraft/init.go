package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	var projectName string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new pavecraft project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectName) == "" {
				return fmt.Errorf("--name is required")
			}
			return runInit(configPath, projectName)
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "", "Project name")
	return cmd
}

const configTemplate = `project: %s
version: 1

# Catalog file (YAML or JSON list of performances). When empty the catalog is
# read from the database.
catalog: ./catalog.yaml

database:
  dsn: sqlite://./data/local.db
  project_id: %s

import:
  weight_mode: discrete_7
  fuzzy_threshold: 0.7
  fuzzy_margin: 0.1

logging:
  level: info
  file: ./pavecraft.log
`

const catalogTemplate = `- id: perf-root
  name: Product
  level: 0
  is_leaf: false
- id: perf-1
  name: P1 - Example Performance
  parent_id: perf-root
  level: 1
  is_leaf: true
`

func runInit(configPath, projectName string) error {
	catalogPath := "catalog.yaml"
	for _, path := range []string{configPath, catalogPath} {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}

	configContents := fmt.Sprintf(configTemplate, projectName, projectName)
	if err := os.WriteFile(configPath, []byte(configContents), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}
	if err := os.WriteFile(catalogPath, []byte(catalogTemplate), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", catalogPath, err)
	}
	return nil
}

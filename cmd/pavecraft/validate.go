package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"pavecraft/internal/validate"
)

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check stored design cases against the PAVE grammar and the current catalog",
		Args:  cobra.NoArgs,
		RunE:  runValidate,
	}
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	p, err := loadProject()
	if err != nil {
		return err
	}
	defer p.Close()

	db, err := openDB(ctx, p.cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	report, err := validate.Run(ctx, db, p.cfg.Database.ProjectID)
	if err != nil {
		return err
	}
	p.logger.Info("design cases validated",
		"cases", len(report.Cases),
		"errors", report.Count(validate.SeverityError),
		"warnings", report.Count(validate.SeverityWarn),
	)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Design cases (%d):\n", len(report.Cases))
	for _, c := range report.Cases {
		state := "editable"
		if !c.Editable {
			state = "locked"
		}
		fmt.Fprintf(out, "  - %s: %s", c.Name, state)
		if c.Migrated > 0 {
			fmt.Fprintf(out, ", %d legacy weight(s)", c.Migrated)
		}
		fmt.Fprintln(out)
	}

	var errorIssues, warnIssues, infoIssues []validate.Issue
	for _, issue := range report.Issues {
		switch issue.Severity {
		case validate.SeverityError:
			errorIssues = append(errorIssues, issue)
		case validate.SeverityWarn:
			warnIssues = append(warnIssues, issue)
		default:
			infoIssues = append(infoIssues, issue)
		}
	}

	if len(report.Issues) == 0 {
		fmt.Fprintln(out, "\nNo issues found.")
		return nil
	}
	printIssues(out, "Errors", errorIssues)
	printIssues(out, "Warnings", warnIssues)
	printIssues(out, "Info", infoIssues)

	if len(errorIssues) > 0 {
		return fmt.Errorf("validation found errors")
	}
	return nil
}

func printIssues(out io.Writer, title string, issues []validate.Issue) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s (%d):\n", title, len(issues))
	for _, issue := range issues {
		location := issue.Case
		switch {
		case issue.Edge != "":
			location = fmt.Sprintf("%s [%s]", issue.Case, issue.Edge)
		case issue.Node != "":
			location = fmt.Sprintf("%s [%s]", issue.Case, issue.Node)
		}
		fmt.Fprintf(out, "  - %s: %s (%s)\n", location, issue.Message, issue.Code)
	}
}

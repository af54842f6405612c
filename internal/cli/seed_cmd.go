package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/alexanderramin/gantry/internal/cli/formatter"
	"github.com/alexanderramin/gantry/internal/snapshot"
	"github.com/spf13/cobra"
)

func newSeedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "seed FILE",
		Short: "Load projects and tasks from a YAML or JSON snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Seed == nil {
				return errors.New("seed service is not configured")
			}
			f, err := snapshot.Load(args[0])
			if err != nil {
				return err
			}
			res, err := app.Seed.Seed(cmd.Context(), f)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printIssues(out, nil, res.Warnings)
			fmt.Fprintf(out, "Seeded %d projects and %d tasks from %s\n", res.ProjectCount, res.TaskCount, args[0])
			return nil
		},
	}
}

func newValidateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a snapshot file without loading it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := snapshot.Load(args[0])
			if err != nil {
				return err
			}
			report := snapshot.Validate(f)
			out := cmd.OutOrStdout()
			printIssues(out, report.Errors, report.Warnings)
			if err := report.Err(); err != nil {
				return err
			}
			fmt.Fprintf(out, "%s %s is valid\n", formatter.StyleGreen.Render("✔"), args[0])
			return nil
		},
	}
}

func printIssues(out io.Writer, errs, warnings []snapshot.Issue) {
	for _, e := range errs {
		fmt.Fprintf(out, "%s %s\n", formatter.StyleRed.Render("error:"), e.Error())
	}
	for _, w := range warnings {
		fmt.Fprintf(out, "%s %s\n", formatter.StyleYellow.Render("warning:"), w.Error())
	}
}

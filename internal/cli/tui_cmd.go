package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive timeline (drag bars with the mouse)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.IsInteractive() {
				return errors.New("tui needs an interactive terminal")
			}
			v, err := loadView(cmd.Context(), app)
			if err != nil {
				return err
			}
			return app.RunProgram(newTimelineModel(cmd.Context(), app, v))
		},
	}
}

package cli

import (
	"log/slog"
	"time"

	"github.com/alexanderramin/gantry/internal/config"
	"github.com/alexanderramin/gantry/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// App holds the services and settings used by CLI commands.
type App struct {
	Timeline service.TimelineService
	Seed     service.SeedService
	Config   config.Config
	Logger   *slog.Logger

	// Now is the clock "today" is measured against.
	Now func() time.Time

	// IsInteractive reports whether stdin is a terminal. Prompts are only
	// shown when it returns true.
	IsInteractive func() bool

	// Confirm asks a yes/no question. Defaults to a huh confirm form.
	Confirm func(title, description string) (bool, error)

	// Bootstrap runs after flag parsing and before any command. It
	// resolves the config and wires the services.
	Bootstrap func(cmd *cobra.Command, app *App) error

	// RunProgram runs the interactive timeline model.
	RunProgram func(m tea.Model) error
}

func (app *App) fillDefaults() {
	if app.Now == nil {
		app.Now = time.Now
	}
	if app.Logger == nil {
		app.Logger = slog.New(slog.DiscardHandler)
	}
	if app.IsInteractive == nil {
		app.IsInteractive = func() bool { return false }
	}
	if app.Confirm == nil {
		app.Confirm = confirmWithForm
	}
	if app.RunProgram == nil {
		app.RunProgram = func(m tea.Model) error {
			_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
			return err
		}
	}
	if app.Config.Zoom == 0 {
		app.Config = config.Default()
	}
}

func confirmWithForm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Apply").
		Negative("Cancel").
		Value(&ok).
		Run()
	return ok, err
}

// NewRootCmd creates the top-level "gantry" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	app.fillDefaults()

	root := &cobra.Command{
		Use:           "gantry",
		Short:         "Timeline planner with draggable task bars",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Bootstrap == nil {
				return nil
			}
			return app.Bootstrap(cmd, app)
		},
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newShowCmd(app),
		newGeometryCmd(app),
		newTasksCmd(app),
		newTaskCmd(app),
		newSeedCmd(app),
		newValidateCmd(app),
		newConfigCmd(app),
		newTUICmd(app),
	)

	return root
}

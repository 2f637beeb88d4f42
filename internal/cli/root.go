package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/joefazee/catalog/app/categories"
	"github.com/joefazee/catalog/internal/security"
)

// Backend is what the commands operate on once connected.
type Backend struct {
	Service    categories.Service
	TokenMaker security.Maker
	TokenTTL   time.Duration

	// SharedCache is set when the tiers live in redis, where the API servers read them.
	SharedCache bool
}

// Connector opens a Backend from a configuration file. The returned func releases it.
type Connector func(configFile string) (*Backend, func() error, error)

// App holds the connector and the state shared by the commands of one invocation.
type App struct {
	Connect Connector
	Out     io.Writer

	backend *Backend
	release func() error
}

// NewRootCmd creates the top-level "catalogctl" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	if app.Out == nil {
		app.Out = os.Stdout
	}

	var configFile string
	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Operate the category catalog and its caches",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			backend, release, err := app.Connect(configFile)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			app.backend, app.release = backend, release
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return app.close()
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to a yaml or env configuration file")

	root.AddCommand(
		newTreeCmd(app),
		newSearchCmd(app),
		newStatsCmd(app),
		newRefreshCmd(app),
		newTokenCmd(app),
	)

	return root
}

// Execute runs root and always releases the backend, even when a command fails.
func Execute(app *App, root *cobra.Command) error {
	err := root.Execute()
	if cerr := app.close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func (a *App) close() error {
	if a.release == nil {
		return nil
	}
	release := a.release
	a.release = nil
	return release()
}

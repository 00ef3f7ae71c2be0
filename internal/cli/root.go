package cli

import (
	"github.com/avoronova/tally/internal/service"
	"github.com/avoronova/tally/internal/store"
	"github.com/spf13/cobra"
)

// App holds references to the services used by CLI commands.
type App struct {
	Upload    service.UploadService
	Directory store.DirectoryProvider

	// Poller is the verification poller wired into Upload; commands hook
	// its countdown for progress rendering.
	Poller *service.Poller

	// IsInteractive reports whether stdin is attached to a terminal.
	// Confirmation prompts and the progress view are TTY-only.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "tally" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "tally",
		Short: "Upload activity exports into per-participant 10-minute buckets",
	}

	root.AddCommand(
		newUploadCmd(app),
		newCheckCmd(app),
		newGroupsCmd(app),
		newVerifyCmd(app),
	)

	return root
}

package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/attendmerge/cmd/attendmerge/cmd/inspect"
	"github.com/agentstation/attendmerge/cmd/attendmerge/cmd/merge"
	"github.com/agentstation/attendmerge/cmd/attendmerge/cmd/serve"
	"github.com/agentstation/attendmerge/cmd/attendmerge/cmd/version"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(merge.NewCommand(a))
	rootCmd.AddCommand(inspect.NewCommand(a))
	rootCmd.AddCommand(serve.NewCommand(a))
	rootCmd.AddCommand(version.NewCommand(a))
}

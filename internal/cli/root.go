package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds flags shared by all commands. Empty values keep the
// environment configuration.
type RootOptions struct {
	LogLevel string
}

// NewRootCommand creates the root command for the reading list service.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "reading-list",
		Short:         "Reading list API",
		Long:          "A JSON HTTP service for tracking books to read, in progress and completed.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level override (debug|info|warn|error)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))

	return cmd
}

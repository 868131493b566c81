// Package cli exposes the search and analytics engine as a command line tool.
package cli

import (
	"context"

	"github.com/spf13/cobra"
)

type commandFactory func(configPath *string) *cobra.Command

// NewRootCommand builds the command tree. Every subcommand loads the config itself so --config
// is honoured wherever it appears on the command line.
func NewRootCommand() *cobra.Command {

	var configPath string

	root := &cobra.Command{
		Use:          "radar",
		Short:        "Search and analyze opportunities",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default is $CONFIG_PATH or ./configs/config.yaml)")

	factories := []commandFactory{
		serveCMD,
		searchCMD,
		listCMD,
		funnelCMD,
		trendCMD,
		compareCMD,
		snapshotsCMD,
	}
	for _, factory := range factories {
		root.AddCommand(factory(&configPath))
	}

	return root
}

func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// withApp runs fn with a fully wired app and releases it afterwards.
func withApp(cmd *cobra.Command, configPath string, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.close()

	return fn(ctx, a)
}

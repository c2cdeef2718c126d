package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/luxo-ai/infinite-scroll/pkg/log"
	"github.com/luxo-ai/infinite-scroll/pkg/version"
)

const (
	cmdName = "infscroll"
	cmdDesc = `Page through very long lists in a fixed-size scrolling window.`
	cmdLong = cmdDesc + `

Only one window of items is materialized at a time. Scrolling past the end of
the window swaps in the next page, and scrolling above its start swaps in the
previous one, without moving the content under the viewport.

Every flag can also be set with an environment variable, for example
` + envPrefix + `_PAGE_SIZE=10 for --page-size.`
)

// RootArgs holds the flags shared by every command.
type RootArgs struct {
	LogLevel  string
	LogFormat string
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	fs := cmd.PersistentFlags()

	fs.StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	fs.StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))

	completions := map[string][]string{
		"log-level":  log.AllLevels,
		"log-format": log.AllFormats,
	}
	for name, values := range completions {
		err := cmd.RegisterFlagCompletionFunc(name,
			cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp),
		)
		if err != nil {
			panic(fmt.Errorf("register %s completion: %w", name, err))
		}
	}
}

// NewRootCmd returns the infscroll command. Without a subcommand it behaves
// like "infscroll run".
func NewRootCmd() *cobra.Command {
	args := NewRootArgs()
	runArgs := NewRunArgs(args)
	runCmd := NewRunCmd(runArgs)

	cmd := &cobra.Command{
		Use:               cmdName + " [path]",
		Short:             cmdDesc,
		Long:              cmdLong,
		Example:           cmdExamples,
		PersistentPreRunE: setupLogging(args),
		ValidArgsFunction: runCmd.ValidArgsFunction,
		Args:              runCmd.Args,
		RunE:              runCmd.RunE,
	}

	args.AddFlags(cmd)
	runArgs.AddFlags(cmd)
	cmd.AddCommand(runCmd)

	bindEnvVars(cmd)

	return cmd
}

// setupLogging installs the default slog logger, writing to the command's
// stderr. The TUI replaces it with a buffered logger while it runs.
func setupLogging(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, args []string) error {
		logHandler, err := log.CreateHandlerWithStrings(cmd.ErrOrStderr(), ra.LogLevel, ra.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.SetDefault(slog.New(logHandler))

		slog.Debug("starting",
			slog.String("command", cmd.CommandPath()),
			slog.String("version", version.GetVersion()),
			slog.Any("args", args),
		)

		return nil
	}
}

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/luxo-ai/infinite-scroll/pkg/config"
	"github.com/luxo-ai/infinite-scroll/pkg/log"
	"github.com/luxo-ai/infinite-scroll/pkg/mcp"
	"github.com/luxo-ai/infinite-scroll/pkg/source"
	"github.com/luxo-ai/infinite-scroll/pkg/ui"
	"github.com/luxo-ai/infinite-scroll/pkg/ui/scroller"
	"github.com/luxo-ai/infinite-scroll/pkg/ui/theme"
	"github.com/luxo-ai/infinite-scroll/pkg/window"
)

const (
	cmdExamples = `  # Scroll through a million numbered items:
  infscroll

  # Scroll through the lines of a file, reloading when it changes:
  infscroll ./items.txt --watch

  # Read items from a SQLite table:
  infscroll ./items.db --table posts --column title

  # Use windows of 10 single-row items:
  infscroll --page-size 10 --item-height 1 --gap 0

  # Print the first 3 windows as plain lines (disables TUI):
  infscroll ./items.txt --pages 3 > first-pages.txt

  # Serve page queries over MCP while browsing:
  infscroll --serve-mcp localhost:8080`

	logBufferSize = 100
)

type RunArgs struct {
	*RootArgs

	Path        string
	ConfigPath  string
	ServeMCP    string
	Source      string
	Table       string
	Column      string
	PageSize    int
	ItemHeight  int
	Gap         int
	Length      int
	Pages       int
	Watch       bool
	WriteConfig bool
	ShowConfig  bool
}

func NewRunArgs(rootArgs *RootArgs) *RunArgs {
	return &RunArgs{
		RootArgs: rootArgs,
	}
}

func (ra *RunArgs) AddFlags(cmd *cobra.Command) {
	fs := cmd.Flags()

	fs.StringVar(&ra.ConfigPath, "config", "", "Path to the infscroll configuration file")
	fs.StringVar(&ra.ServeMCP, "serve-mcp", "", "Serve the MCP server at the specified address")
	fs.BoolVarP(&ra.Watch, "watch", "w", false, "Watch the source file and reload on change")
	fs.BoolVar(&ra.WriteConfig, "write-config", false, "Write the default configuration files and exit")
	fs.BoolVar(&ra.ShowConfig, "show-config", false, "Print the active configuration and exit")

	fs.IntVar(&ra.PageSize, "page-size", config.DefaultPageSize, "Number of items in a window")
	fs.IntVar(&ra.ItemHeight, "item-height", config.DefaultItemHeight, "Rows per item")
	fs.IntVar(&ra.Gap, "gap", config.DefaultGap, "Blank rows between items")

	fs.StringVar(&ra.Source, "source", "", fmt.Sprintf("Source kind, one of: %s", source.AllKinds))
	fs.IntVar(&ra.Length, "length", source.DefaultLength, "Number of items produced by the range source")
	fs.StringVar(&ra.Table, "table", source.DefaultTable, "SQLite table to read")
	fs.StringVar(&ra.Column, "column", source.DefaultColumn, "SQLite column holding the item text")

	fs.IntVar(&ra.Pages, "pages", 0, "Windows to print when output is not a terminal (0 prints all)")

	err := cmd.MarkFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark config flag: %w", err))
	}

	err = cmd.RegisterFlagCompletionFunc("source",
		cobra.FixedCompletions(source.AllKinds, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(fmt.Errorf("register source completion: %w", err))
	}
}

func NewRunCmd(ra *RunArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run [path]",
		Short:   "Default command, can be used explicitly if path is ambiguous",
		Example: cmdExamples,
		Args:    cobra.MaximumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return nil, cobra.ShellCompDirectiveDefault
			}

			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				ra.Path = args[0]
			}

			return run(cmd, ra)
		},
	}
	ra.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

// applyFlags overrides config values with the flags that were set.
func (ra *RunArgs) applyFlags(fs *pflag.FlagSet, cfg *config.Config) {
	setInt := func(name string, dst **int, v int) {
		if fs.Changed(name) {
			*dst = &v
		}
	}

	setInt("page-size", &cfg.Pager.PageSize, ra.PageSize)
	setInt("item-height", &cfg.Pager.ItemHeight, ra.ItemHeight)
	setInt("gap", &cfg.Pager.Gap, ra.Gap)
	setInt("length", &cfg.Source.Length, ra.Length)

	if fs.Changed("table") {
		cfg.Source.Table = ra.Table
	}
	if fs.Changed("column") {
		cfg.Source.Column = ra.Column
	}

	if ra.Path != "" {
		cfg.Source.Path = ra.Path
		if !fs.Changed("source") {
			cfg.Source.Kind = kindForPath(ra.Path)
		}
	}

	if fs.Changed("source") {
		cfg.Source.Kind = source.Kind(ra.Source)
	}
}

// kindForPath picks the sqlite source for database file extensions and the
// lines source otherwise.
func kindForPath(path string) source.Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return source.KindSQLite
	default:
		return source.KindLines
	}
}

func loadConfig(configPath string) (*config.Config, error) {
	cl, err := config.NewConfigLoaderFromFile(configPath)
	if err != nil {
		slog.Warn("could not read config, using defaults", slog.Any("err", err))

		return config.NewConfig(), nil
	}

	err = cl.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", configPath, err)
	}

	cfg, err := cl.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", configPath, err)
	}

	return cfg, nil
}

func run(cmd *cobra.Command, ra *RunArgs) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	configPath := ra.ConfigPath
	if configPath == "" {
		configPath = config.GetPath()
	}

	err := config.WriteDefaultConfig(configPath, false)
	if err != nil {
		slog.Error("write default config", slog.Any("err", err))
	}
	if ra.WriteConfig {
		// Exit early after writing the default config.
		// Also, if there was an error, it should be fatal.
		return err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	ra.applyFlags(cmd.Flags(), cfg)

	err = cfg.Validate()
	if err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	out := cmd.OutOrStdout()

	if ra.ShowConfig {
		slog.Info("active configuration", slog.String("path", configPath))

		return showConfig(out, cfg)
	}

	wcfg := cfg.Pager.Window()
	spec := *cfg.Source
	label := spec.String()

	seq, err := source.Open(ctx, spec)
	if err != nil {
		return fmt.Errorf("open source %s: %w", label, err)
	}

	// If stdout is not a terminal, print windows instead.
	if !isTerminal(out) {
		defer closeSource(seq)

		return printWindows(ctx, out, seq, wcfg, ra.Pages)
	}

	logBuf := log.NewCircularBuffer(logBufferSize)

	logHandler, err := log.CreateHandlerWithStrings(logBuf, ra.LogLevel, ra.LogFormat)
	if err != nil {
		closeSource(seq)

		return fmt.Errorf("create log handler: %w", err)
	}

	slog.SetDefault(slog.New(logHandler))

	err = runUI(ctx, ra, cfg, seq, label)

	flushLogs(cmd.ErrOrStderr(), logBuf)

	if err != nil {
		return fmt.Errorf("ui program failure: %w", err)
	}

	return nil
}

// runUI runs the TUI until it quits. It owns seq, and any sequence opened by
// a reload. With an MCP server, the TUI and the server each hold a handle
// from [source.Share].
func runUI(ctx context.Context, ra *RunArgs, cfg *config.Config, seq source.Sequence, label string) error {
	wcfg := cfg.Pager.Window()

	var mcpServer *mcp.Server

	if ra.ServeMCP != "" {
		handles := source.Share(seq, 2)
		seq = handles[0]

		var err error

		mcpServer, err = mcp.NewServer(ra.ServeMCP, handles[1], wcfg, label)
		if err != nil {
			closeSource(handles[1])
			closeSource(seq)

			return fmt.Errorf("create MCP server: %w", err)
		}

		defer func() {
			err := mcpServer.Close()
			if err != nil {
				slog.Warn("close MCP source", slog.Any("err", err))
			}
		}()

		go func() {
			err := mcpServer.Serve(ctx)
			if err != nil {
				slog.Error("MCP server failed", slog.Any("err", err))
			}
		}()
	}

	m, err := ui.NewScroller(seq, wcfg, cfg.UI,
		scroller.WithLabel(label),
		scroller.WithTransitionHook(func(t window.Transition) {
			slog.Debug("page transition",
				slog.Int("from", t.From),
				slog.Int("to", t.To),
				slog.String("cause", t.Cause.String()),
				slog.Int("offset", t.Offset),
			)
		}),
	)
	if err != nil {
		closeSource(seq)

		return fmt.Errorf("create scroller: %w", err)
	}

	defer func() {
		err := m.Close()
		if err != nil {
			slog.Warn("close source", slog.Any("err", err))
		}
	}()

	p := ui.NewProgram(m, cfg.UI, tea.WithContext(ctx))

	spec := *cfg.Source
	if ra.Watch {
		if !spec.Watchable() {
			slog.Warn("source cannot be watched", slog.String("source", label))
		} else {
			go watchSource(ctx, p, mcpServer, spec, wcfg, label)
		}
	}

	_, err = p.Run()
	if err != nil {
		return fmt.Errorf("tea: %w", err)
	}

	return nil
}

// watchSource reopens the source each time its file changes and hands the
// new sequence to the TUI and the MCP server. Each of them closes its handle
// to the previous sequence once it has switched.
func watchSource(ctx context.Context, p *tea.Program, srv *mcp.Server, spec source.Spec, wcfg window.Config, label string) {
	err := source.Watch(ctx, spec.Path, source.DefaultDebounce, func() {
		next, err := source.Open(ctx, spec)
		if err != nil {
			p.Send(scroller.ReloadMsg{Err: err})

			return
		}

		if srv != nil {
			handles := source.Share(next, 2)
			next = handles[0]

			err := srv.SetSequence(handles[1], wcfg, label)
			if err != nil {
				slog.Warn("update MCP sequence", slog.Any("err", err))
				closeSource(handles[1])
			}
		}

		p.Send(scroller.ReloadMsg{Seq: next, Label: label})
	})
	if err != nil {
		slog.Error("watch source", slog.String("path", spec.Path), slog.Any("err", err))
	}
}

func showConfig(w io.Writer, cfg *config.Config) error {
	yamlBytes, err := cfg.YAML()
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}

	if !isTerminal(w) {
		_, err = w.Write(yamlBytes)
		if err != nil {
			return fmt.Errorf("write config: %w", err)
		}

		return nil
	}

	err = quick.Highlight(w, string(yamlBytes), "yaml", "terminal256", theme.New(cfg.UI.Theme).Name)
	if err != nil {
		mustN(w.Write(yamlBytes))

		return fmt.Errorf("highlight config: %w", err)
	}

	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })

	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: fd fits in int.
}

func closeSource(seq source.Sequence) {
	err := seq.Close()
	if err != nil {
		slog.Warn("close source", slog.Any("err", err))
	}
}

func flushLogs(w io.Writer, buf *log.CircularBuffer) {
	slog.Debug("flush logs to console",
		slog.Int("count", buf.Size()),
		slog.Int("max", buf.Capacity()),
		slog.Bool("truncated", buf.IsFull()),
	)

	_, err := buf.WriteTo(w)
	if err != nil {
		panic(err)
	}
}

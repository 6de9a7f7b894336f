// Command membersel picks a member of an OLAP hierarchy by drilling through
// its levels in the terminal, and prints the chosen unique name together with
// the breadcrumb trail that leads to it.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ikari-pl/go-olap-memberselect/internal/catalog"
	"github.com/ikari-pl/go-olap-memberselect/internal/config"
	"github.com/ikari-pl/go-olap-memberselect/internal/lint"
	"github.com/ikari-pl/go-olap-memberselect/internal/output"
	"github.com/ikari-pl/go-olap-memberselect/internal/selector"
	"github.com/ikari-pl/go-olap-memberselect/internal/server"
	"github.com/ikari-pl/go-olap-memberselect/internal/tui"
)

// errNoTerminal is returned by the select command when stdin is not a
// terminal.
var errNoTerminal = errors.New("interactive selection needs a terminal; use 'membersel resolve' in scripts")

// errLintFailed is returned by the lint command when the report fails.
var errLintFailed = errors.New("catalog lint failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd(os.Stdout, os.Stderr, stdinIsTerminal).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// newRootCmd builds the command tree. Running the root command without a
// subcommand starts an interactive selection.
func newRootCmd(stdout, stderr io.Writer, isTerminal func() bool) *cobra.Command {
	cfg := config.NewConfig()
	var configPath string

	selectRun := func(cmd *cobra.Command, args []string) error {
		if !isTerminal() {
			return errNoTerminal
		}
		logger, closeLog, err := openLogger(cfg, io.Discard)
		if err != nil {
			return err
		}
		defer closeLog()

		reg := prometheus.NewRegistry()
		opts, err := cfg.ToSelectorOptions()
		if err != nil {
			return err
		}
		client, err := openCatalog(logger, opts, reg)
		if err != nil {
			return err
		}
		ui := tui.NewTUI(logger, tui.Options{
			PriorUniqueName: opts.UniqueName,
			PriorTrail:      opts.Breadcrumbs,
			FilterDebounce:  opts.FilterDebounce,
			Theme:           cfg.Theme,
			NerdFonts:       cfg.NerdFonts,
			AltScreen:       cfg.AltScreen,
		})
		return runSelect(cmd.Context(), cfg, logger, client, ui, selector.NewMetrics(reg), stdout)
	}

	root := &cobra.Command{
		Use:   "membersel",
		Short: "Pick a member of an OLAP hierarchy by drilling through its levels",
		Long: `membersel walks an OLAP hierarchy level by level, starting at the top
level or at a previously chosen member, and prints the chosen member's unique
name with the breadcrumb trail that leads to it.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				if err := cfg.LoadFile(configPath, cmd.Flags()); err != nil {
					return err
				}
			}
			return cfg.Validate()
		},
		RunE: selectRun,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	cfg.BindFlags(root.PersistentFlags())

	lintCmd := &cobra.Command{
		Use:   "lint",
		Short: "Check a YAML catalog for hierarchies that navigate badly",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closeLog, err := openLogger(cfg, stderr)
			if err != nil {
				return err
			}
			defer closeLog()
			return runLint(cmd.Context(), cfg, logger, stdout)
		},
	}
	cfg.BindLintFlags(lintCmd.Flags())

	root.AddCommand(
		lintCmd,
		&cobra.Command{
			Use:   "select",
			Short: "Choose a member interactively (default)",
			Args:  cobra.NoArgs,
			RunE:  selectRun,
		},
		&cobra.Command{
			Use:   "resolve",
			Short: "Resume --unique-name without a UI and print the selection",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				logger, closeLog, err := openLogger(cfg, stderr)
				if err != nil {
					return err
				}
				defer closeLog()

				reg := prometheus.NewRegistry()
				opts, err := cfg.ToSelectorOptions()
				if err != nil {
					return err
				}
				client, err := openCatalog(logger, opts, reg)
				if err != nil {
					return err
				}
				return runResolve(cmd.Context(), cfg, logger, client, selector.NewMetrics(reg), stdout)
			},
		},
		&cobra.Command{
			Use:   "serve",
			Short: "Serve a YAML catalog over the discover API",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				logger, closeLog, err := openLogger(cfg, stderr)
				if err != nil {
					return err
				}
				defer closeLog()
				return runServe(cmd.Context(), cfg, logger, prometheus.NewRegistry())
			},
		},
	)
	return root
}

// NewLogger creates a text logger on w. Debug adds source locations and
// implies debug level; Verbose alone only lowers the level.
func NewLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Verbose || cfg.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.Debug,
	}))
}

// openLogger returns a logger writing to cfg.LogFile, or to fallback when no
// log file is configured. The returned func closes the file.
func openLogger(cfg *config.Config, fallback io.Writer) (*slog.Logger, func(), error) {
	if cfg.LogFile == "" {
		if fallback == io.Discard {
			return slog.New(slog.DiscardHandler), func() {}, nil
		}
		return NewLogger(cfg, fallback), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return NewLogger(cfg, f), func() { f.Close() }, nil
}

// openCatalog connects to the configured catalog and instruments it.
func openCatalog(logger *slog.Logger, opts config.SelectorOptions, reg prometheus.Registerer) (catalog.Client, error) {
	var client catalog.Client
	if opts.CatalogURL != "" {
		hc, err := catalog.NewHTTPClient(logger, opts.CatalogURL, opts.RequestTimeout)
		if err != nil {
			return nil, err
		}
		client = hc
	} else {
		fc, err := catalog.LoadFile(logger, opts.CatalogFile)
		if err != nil {
			return nil, err
		}
		client = fc
	}
	return catalog.Instrumented(client, catalog.NewMetrics(reg)), nil
}

// runSelect runs the interactive selector and writes the saved selection.
func runSelect(ctx context.Context, cfg *config.Config, logger *slog.Logger, client catalog.Client, ui tui.TUI, metrics *selector.Metrics, stdout io.Writer) error {
	opts, err := cfg.ToSelectorOptions()
	if err != nil {
		return err
	}

	engine := selector.NewEngine(client, opts.Coordinates(),
		selector.WithLogger(logger),
		selector.WithRenderer(ui.Renderer()),
		selector.WithLoadingIndicator(ui.Indicator()),
		selector.WithMetrics(metrics),
	)
	logger.Info("Starting selector", "session", engine.Session(), "resume", opts.UniqueName != "")

	sel, err := ui.Run(ctx, engine)
	if err != nil {
		if errors.Is(err, tui.ErrCancelled) {
			logger.Info("Selection cancelled", "session", engine.Session())
		}
		return err
	}
	return writeSelection(ctx, cfg, sel, stdout)
}

// runResolve resumes the configured selection without a UI and writes the
// committed result.
func runResolve(ctx context.Context, cfg *config.Config, logger *slog.Logger, client catalog.Client, metrics *selector.Metrics, stdout io.Writer) error {
	opts, err := cfg.ToSelectorOptions()
	if err != nil {
		return err
	}

	engine := selector.NewEngine(client, opts.Coordinates(),
		selector.WithLogger(logger),
		selector.WithMetrics(metrics),
	)
	if req, ok := engine.Open(opts.UniqueName, opts.Breadcrumbs); ok {
		if err := engine.Run(ctx, req); err != nil {
			return fmt.Errorf("resolving selection: %w", err)
		}
	}

	sel, err := engine.Commit()
	if err != nil {
		return err
	}
	return writeSelection(ctx, cfg, sel, stdout)
}

// runServe serves the catalog file until ctx is cancelled.
func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger, reg *prometheus.Registry) error {
	opts, err := cfg.ToServerOptions()
	if err != nil {
		return err
	}

	fc, err := catalog.LoadFile(logger, opts.CatalogFile)
	if err != nil {
		return err
	}
	srv := server.New(logger, catalog.Instrumented(fc, catalog.NewMetrics(reg)), reg)

	if opts.Watch {
		if err := catalog.Watch(ctx, logger, fc, 0); err != nil {
			return err
		}
	}
	return srv.Run(ctx, opts.ListenAddr)
}

// runLint checks the catalog file and writes the report.
func runLint(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	opts, err := cfg.ToLintOptions()
	if err != nil {
		return err
	}

	f, err := os.Open(opts.CatalogFile)
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	doc, err := catalog.Decode(f)
	f.Close()
	if err != nil {
		return err
	}

	lintCfg := lint.DefaultConfig()
	if opts.Strict {
		lintCfg = lint.StrictConfig()
	}
	if sev := lint.ParseSeverity(opts.MinSeverity); sev.Level() > lintCfg.MinSeverity.Level() {
		lintCfg.MinSeverity = sev
	}
	lintCfg.DisabledRules = opts.Disable
	lintCfg.Thresholds.MaxFanOut = opts.MaxFanOut

	result := lint.NewLinter(lintCfg).Run(ctx, doc)
	result.Source = opts.CatalogFile
	logger.Info("Catalog linted",
		"file", opts.CatalogFile,
		"members", result.TotalMembers,
		"errors", result.ErrorCount,
		"warnings", result.WarnCount)

	if err := lint.NewFormatter(opts.Format).Format(result, stdout); err != nil {
		return fmt.Errorf("writing lint report: %w", err)
	}
	if result.ExitCode != 0 {
		return errLintFailed
	}
	return nil
}

// writeSelection formats sel to the configured output file or stdout.
func writeSelection(ctx context.Context, cfg *config.Config, sel selector.Selection, stdout io.Writer) error {
	w := stdout
	if cfg.OutputFile != "" {
		f, err := os.Create(cfg.OutputFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	return output.NewManager().Format(ctx, cfg.OutputFormat, sel, w)
}

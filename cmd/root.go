// Package cmd wires the CLI surface: the root command launches the TUI,
// subcommands cover one-shot generation, history export, logout, and
// self-update.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/MalayathiGeetha/MailMind-AI/internal/api"
	"github.com/MalayathiGeetha/MailMind-AI/internal/config"
	"github.com/MalayathiGeetha/MailMind-AI/internal/log"
	"github.com/MalayathiGeetha/MailMind-AI/internal/session"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/app"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/views/generate"
)

// version is stamped at build time via -ldflags.
var version = "dev"

var (
	debugFlag  bool
	traceFlag  bool
	serverFlag string
)

var rootCmd = &cobra.Command{
	Use:           "mailmind",
	Short:         "AI email assistant in the terminal",
	Long:          `MailMind drafts, transforms, and analyzes emails against a MailMind backend, all from the terminal.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&traceFlag, "trace", false, "write request traces to the config directory")
	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", "", "backend base URL (overrides config)")
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// env bundles everything a command needs after bootstrap.
type env struct {
	cfg     *config.Config
	store   *session.FileStore
	svc     *api.Service
	cleanup func()
}

// bootstrap loads config, initializes logging and tracing, and builds the
// session store and API service. The returned cleanup must run on exit.
func bootstrap() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if serverFlag != "" {
		cfg.Server.BaseURL = serverFlag
	}
	if debugFlag {
		cfg.Debug = true
	}
	if traceFlag {
		cfg.Trace = true
	}

	dir, err := config.Dir()
	if err != nil {
		return nil, fmt.Errorf("resolving config directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	logCleanup, err := log.Init(filepath.Join(dir, "mailmind.log"), 500)
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	if cfg.Debug {
		log.SetMinLevel(log.LevelDebug)
	} else {
		log.SetMinLevel(log.LevelInfo)
	}

	traceCleanup := func() {}
	if cfg.Trace {
		traceCleanup, err = initTracing(filepath.Join(dir, "trace.jsonl"))
		if err != nil {
			logCleanup()
			return nil, fmt.Errorf("initializing tracing: %w", err)
		}
	}

	store, err := session.NewFileStore(dir)
	if err != nil {
		traceCleanup()
		logCleanup()
		return nil, fmt.Errorf("opening session store: %w", err)
	}

	svc := api.NewService(api.NewClient(cfg.Server.BaseURL, store))

	log.Info(log.CatConfig, "Bootstrapped", "server", cfg.Server.BaseURL, "debug", cfg.Debug, "trace", cfg.Trace)

	return &env{
		cfg:   cfg,
		store: store,
		svc:   svc,
		cleanup: func() {
			traceCleanup()
			logCleanup()
		},
	}, nil
}

// initTracing exports spans as JSON lines to a file in the config dir.
// Writing to stdout would corrupt the TUI.
func initTracing(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, err
	}
	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(f),
		stdouttrace.WithoutTimestamps(),
	)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(provider)

	return func() {
		_ = provider.Shutdown(context.Background())
		_ = f.Close()
	}, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	e, err := bootstrap()
	if err != nil {
		return err
	}
	defer e.cleanup()

	// The watcher is best effort. Without it the app still reacts to
	// expiry; it just misses logouts done by other processes.
	var watcher *session.Watcher
	if w, err := session.NewWatcher(e.store.Path()); err == nil {
		watcher = w
		defer func() { _ = watcher.Close() }()
	} else {
		log.Warn(log.CatWatcher, "Session watcher unavailable", "error", err)
	}

	model := app.New(e.svc, e.store, watcher, generate.Defaults{
		Tone:          e.cfg.Defaults.Tone,
		PromptVersion: e.cfg.Defaults.PromptVersion,
		Provider:      e.cfg.Defaults.Provider,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

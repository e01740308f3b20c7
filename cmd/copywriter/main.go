// Command copywriter writes gallery marketing copy in an artist's voice.
//
// Usage:
//
//	copywriter                                  # interactive app
//	copywriter ingest [-out dir] [-workers n] <dir>
//	copywriter chunk [-size n] [-overlap n] <file>
//	copywriter analyze [-artist name] <dir>
//	copywriter write -guide file -brief file [-type t] [-image path]...
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sant0-9/copywriter/internal/config"
	"github.com/sant0-9/copywriter/internal/logging"
	"github.com/sant0-9/copywriter/internal/store"
	"github.com/sant0-9/copywriter/internal/tui"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return runApp()
	}

	switch args[0] {
	case "ingest":
		return runIngest(ctx, args[1:], stdout, stderr)
	case "chunk":
		return runChunk(args[1:], stdout, stderr)
	case "analyze":
		return runAnalyze(ctx, args[1:], stdout, stderr)
	case "write":
		return runWrite(ctx, args[1:], stdout, stderr)
	case "version", "-v", "--version":
		fmt.Fprintln(stdout, "copywriter", version)
		return nil
	case "help", "-h", "--help":
		usage(stdout)
		return nil
	default:
		usage(stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `usage:
  copywriter                                   start the interactive app
  copywriter ingest [-out dir] [-workers n] <dir>
  copywriter chunk [-size n] [-overlap n] <file>
  copywriter analyze [-artist name] <dir>
  copywriter write -guide file -brief file [-type doc_type] [-image path]
  copywriter version
`)
}

// loadConfig returns the saved config, or defaults with environment keys
// applied when none has been saved yet
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
		cfg.ApplyEnv()
	}
	return cfg, nil
}

// cliLogger logs to stderr for subcommands
func cliLogger(stderr io.Writer, cfg *config.Config) *slog.Logger {
	level := "info"
	if cfg != nil && cfg.LogLevel != "" {
		level = cfg.LogLevel
	}
	return logging.NewWriter(stderr, level)
}

func runApp() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logPath, err := config.LogPath()
	if err != nil {
		return err
	}
	level := "info"
	if cfg != nil {
		level = cfg.LogLevel
	}
	logger, closer, err := logging.New(logPath, level)
	if err != nil {
		return err
	}
	defer closer.Close()
	slog.SetDefault(logger)

	dataCfg := cfg
	if dataCfg == nil {
		dataCfg = config.DefaultConfig()
	}
	dataDir, err := dataCfg.ResolveDataDir()
	if err != nil {
		return err
	}
	st, err := store.Open(dataDir)
	if err != nil {
		return err
	}
	defer st.Close()
	st.SetLogger(logger)

	logger.Info("starting", "version", version, "data_dir", dataDir)

	app := tui.NewApp(cfg, st, logger)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// Package main is the entry point for the yolo-workbench application.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/thirukguru/yolo-workbench/model"
	"github.com/thirukguru/yolo-workbench/service/config"
	"github.com/thirukguru/yolo-workbench/service/flag"
	"github.com/thirukguru/yolo-workbench/service/output"
	"github.com/thirukguru/yolo-workbench/service/runner"
	"github.com/thirukguru/yolo-workbench/shared/banner"
	"github.com/thirukguru/yolo-workbench/shared/jsonoutput"
	"github.com/thirukguru/yolo-workbench/shared/logger"
	"github.com/thirukguru/yolo-workbench/shared/spinner"
	"go.uber.org/zap"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = `Usage: yolo-workbench [--version] [--config-path F] [--verbose] [--output table|json] <command> [flags]

Commands:
  install   Install the framework build matching the GPU driver, then requirements.txt
  detect    Show the detected driver and the build that would be installed
  verify    Report what the installed framework sees
  dataset   Point a data.yaml manifest at <dir>/{train,valid,test}/images
  export    Export projects/*/weights/best.pt to mobile models
  history   List stored runs: history <installs|exports>
  db        Maintain the history database: db <vacuum|purge>

Run 'yolo-workbench <command> --help' for command flags.
`

// app carries what every command needs.
type app struct {
	flags     model.Flags
	cfg       config.AppConfig
	info      model.VersionInfo
	stdout    io.Writer
	newRunner func(status io.Writer) runner.Runner
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) (err error) {
	defer recoverDefect(&err)

	flags, err := flag.NewServiceWithArgs(args).GetParsedFlags()
	if err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	if err := logger.Init(flags.Verbose); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	info := model.VersionInfo{Version: version, Commit: commit, Date: date}

	if flags.Version {
		return printVersion(os.Stdout, flags.Output, info)
	}

	if flags.Help || flags.Command == "" {
		fmt.Fprint(os.Stdout, usage)
		return nil
	}

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return err
	}
	logger.L().Debug("configuration loaded",
		zap.String("python", cfg.Install.Python),
		zap.Strings("packages", cfg.Install.Packages),
		zap.Int("table_rows", len(cfg.Selector.Table)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{
		flags:  flags,
		cfg:    cfg,
		info:   info,
		stdout: os.Stdout,
		newRunner: func(status io.Writer) runner.Runner {
			return runner.NewServiceWithWriters(status, os.Stderr, true)
		},
	}

	return a.dispatch(ctx, flags.Command, flags.Args)
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "install":
		return a.runInstall(ctx, args)
	case "detect":
		return a.runDetect(ctx, args)
	case "verify":
		return a.runVerify(ctx, args)
	case "dataset":
		return a.runDataset(args)
	case "export":
		return a.runExport(ctx, args)
	case "history":
		return a.runHistory(args)
	case "db":
		return a.runDB(ctx, args)
	default:
		return fmt.Errorf("unknown command %q\n\n%s", cmd, usage)
	}
}

// recoverDefect turns a panic into an error so the CLI exits non-zero without a stack dump.
func recoverDefect(err *error) {
	r := recover()
	if r == nil {
		return
	}
	spinner.StopSpinner()
	logger.L().Error("defect", zap.Any("panic", r), zap.Stack("stack"))
	if e, ok := r.(error); ok {
		*err = fmt.Errorf("internal defect: %w", e)
		return
	}
	*err = fmt.Errorf("internal defect: %v", r)
}

func printVersion(w io.Writer, format string, info model.VersionInfo) error {
	if format == string(output.FormatJSON) {
		return jsonoutput.Print(w, info)
	}
	_, err := fmt.Fprintf(w, "yolo-workbench %s (commit %s, built %s)\n", info.Version, info.Commit, info.Date)
	return err
}

func (a *app) jsonOutput() bool {
	return a.flags.Output == string(output.FormatJSON)
}

// status is where progress lines go; JSON output keeps stdout for the document.
func (a *app) status() io.Writer {
	if a.jsonOutput() {
		return os.Stderr
	}
	return a.stdout
}

func (a *app) output() output.Service {
	return output.NewServiceWithWriter(a.flags.Output, a.stdout)
}

func (a *app) drawBanner() {
	if a.jsonOutput() || !spinner.Enabled() {
		return
	}
	banner.DrawBannerTitle()
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"github.com/thirukguru/yolo-workbench/model"
	"github.com/thirukguru/yolo-workbench/service/awsconfig"
	"github.com/thirukguru/yolo-workbench/service/dataset"
	"github.com/thirukguru/yolo-workbench/service/driver"
	"github.com/thirukguru/yolo-workbench/service/exporter"
	"github.com/thirukguru/yolo-workbench/service/installer"
	"github.com/thirukguru/yolo-workbench/service/pkgindex"
	"github.com/thirukguru/yolo-workbench/service/publish"
	"github.com/thirukguru/yolo-workbench/service/storage"
	awssts "github.com/thirukguru/yolo-workbench/service/sts"
	"github.com/thirukguru/yolo-workbench/service/verify"
	"github.com/thirukguru/yolo-workbench/shared/logger"
	"github.com/thirukguru/yolo-workbench/shared/spinner"
	"go.uber.org/zap"
)

// errUsage is returned after a command printed its own usage for --help.
var errUsage = errors.New("usage requested")

func newFlagSet(name string, w io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(w)
	return fs
}

func parse(fs *pflag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if errors.Is(err, pflag.ErrHelp) {
		return errUsage
	}
	return err
}

func (a *app) runInstall(ctx context.Context, args []string) error {
	fs := newFlagSet("install", a.stdout)
	python := fs.String("python", a.cfg.Install.Python, "Python interpreter to install into")
	requirements := fs.String("requirements", a.cfg.Install.Requirements, "Requirements file installed after the framework")
	skipRequirements := fs.Bool("skip-requirements", false, "Do not install the requirements file")
	dryRun := fs.Bool("dry-run", false, "Print pip commands without running them")
	checkIndex := fs.Bool("check-index", false, "Check that the package index is reachable before installing")
	store := fs.Bool("store", false, "Persist the run in the local SQLite database")
	dbPath := fs.String("db-path", a.cfg.Storage.DBPath, "SQLite database path (default ~/.yolo-workbench/history.db)")
	timeout := fs.Duration("timeout", 0, "Abort the run after this duration (0 = no limit)")
	if err := parse(fs, args); err != nil {
		return ignoreUsage(err)
	}

	table, err := a.cfg.Table()
	if err != nil {
		return err
	}

	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	a.drawBanner()

	status := a.status()
	r := a.newRunner(status)
	inst := installer.NewService(installer.Deps{
		Runner:   r,
		Driver:   driver.NewService(r, a.cfg.Driver.Command, a.cfg.Driver.Marker),
		Table:    table,
		Verifier: verify.NewService(r, *python, a.cfg.Install.Module),
		Index:    pkgindex.NewService(a.cfg.Install.IndexBase),
		Out:      status,
	})

	summary, runErr := inst.Run(ctx, installer.Options{
		Python:           *python,
		Packages:         a.cfg.Install.Packages,
		Requirements:     *requirements,
		SkipRequirements: *skipRequirements,
		DryRun:           *dryRun,
		CheckIndex:       *checkIndex,
	})

	if *store {
		if err := a.saveInstall(ctx, *dbPath, summary); err != nil {
			return err
		}
	}

	if err := a.output().RenderSummary(summary); err != nil {
		return err
	}
	return runErr
}

func (a *app) saveInstall(ctx context.Context, dbPath string, summary model.InstallSummary) error {
	store, err := storage.NewService(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	// interrupted runs are recorded too
	id, err := store.SaveInstallRun(context.WithoutCancel(ctx), summary, a.info.Version)
	if err != nil {
		return fmt.Errorf("failed to store install run: %w", err)
	}
	logger.L().Debug("install run stored", zap.Int64("run_id", id), zap.String("run_uuid", summary.RunUUID))
	return nil
}

func (a *app) runDetect(ctx context.Context, args []string) error {
	fs := newFlagSet("detect", a.stdout)
	if err := parse(fs, args); err != nil {
		return ignoreUsage(err)
	}

	table, err := a.cfg.Table()
	if err != nil {
		return err
	}

	r := a.newRunner(a.status())
	det := driver.NewService(r, a.cfg.Driver.Command, a.cfg.Driver.Marker).DetectDriverVersion(ctx)

	return a.output().RenderDetection(det, table.Select(det.Version), table)
}

func (a *app) runVerify(ctx context.Context, args []string) error {
	fs := newFlagSet("verify", a.stdout)
	python := fs.String("python", a.cfg.Install.Python, "Python interpreter to probe")
	if err := parse(fs, args); err != nil {
		return ignoreUsage(err)
	}

	r := a.newRunner(a.status())
	report := verify.NewService(r, *python, a.cfg.Install.Module).VerifyInstallation(ctx)

	return a.output().RenderVerification(report)
}

func (a *app) runDataset(args []string) error {
	fs := newFlagSet("dataset", a.stdout)
	out := fs.String("out", "", "Write the rewritten manifest here instead of in place")
	if err := parse(fs, args); err != nil {
		return ignoreUsage(err)
	}

	rest := fs.Args()
	if len(rest) != 1 {
		return fmt.Errorf("usage: yolo-workbench dataset <data.yaml> [--out FILE]")
	}

	rewrite, err := dataset.NewService().Rewrite(rest[0], *out)
	if err != nil {
		return err
	}

	return a.output().RenderManifest(rewrite)
}

func (a *app) runExport(ctx context.Context, args []string) error {
	fs := newFlagSet("export", a.stdout)
	projectsDir := fs.String("projects-dir", a.cfg.Export.ProjectsDir, "Directory holding one folder per project")
	exportDir := fs.String("export-dir", a.cfg.Export.ExportDir, "Directory receiving the exported models")
	format := fs.String("format", a.cfg.Export.Format, "Export format passed to ultralytics")
	parallel := fs.Int("parallel", 1, "Number of projects exported at once")
	python := fs.String("python", a.cfg.Install.Python, "Python interpreter with ultralytics installed")
	bucket := fs.String("s3-bucket", "", "Upload exported models to this S3 bucket")
	prefix := fs.String("s3-prefix", "", "Key prefix for uploaded models")
	region := fs.StringP("region", "r", "", "AWS region to use")
	profile := fs.StringP("profile", "p", "", "AWS profile to use")
	store := fs.Bool("store", false, "Persist the run in the local SQLite database")
	dbPath := fs.String("db-path", a.cfg.Storage.DBPath, "SQLite database path (default ~/.yolo-workbench/history.db)")
	if err := parse(fs, args); err != nil {
		return ignoreUsage(err)
	}

	a.drawBanner()

	status := a.status()
	exp := exporter.NewService(a.newRunner(status), exporter.Options{
		Python:      *python,
		ProjectsDir: *projectsDir,
		ExportDir:   *exportDir,
		Format:      *format,
		Parallel:    *parallel,
	}, status)

	results, err := exp.ExportAll(ctx)
	if err != nil {
		return err
	}

	if *bucket != "" {
		results, err = a.publishResults(ctx, status, results, *bucket, *prefix, *region, *profile)
		if err != nil {
			return err
		}
	}

	if *store {
		if err := a.saveExport(ctx, *dbPath, results); err != nil {
			return err
		}
	}

	return a.output().RenderExports(results)
}

func (a *app) publishResults(ctx context.Context, status io.Writer, results []model.ExportResult, bucket, prefix, region, profile string) ([]model.ExportResult, error) {
	awsCfg, err := awsconfig.NewService().GetAWSCfg(ctx, region, profile)
	if err != nil {
		return results, fmt.Errorf("failed to load AWS config: %w", err)
	}

	id, err := awssts.NewService(awsCfg).WhoAmI(ctx)
	if err != nil {
		return results, err
	}
	fmt.Fprintf(status, "☁️  Publishing to s3://%s as %s\n", bucket, id.ARN)

	if !a.jsonOutput() && spinner.Enabled() {
		spinner.StartSpinner("Uploading exported models...")
		defer spinner.StopSpinner()
	}

	return publish.NewService(awsCfg, bucket, prefix).Upload(ctx, results)
}

func (a *app) saveExport(ctx context.Context, dbPath string, results []model.ExportResult) error {
	store, err := storage.NewService(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	runUUID := uuid.NewString()
	n, err := store.SaveExportRun(context.WithoutCancel(ctx), runUUID, results)
	if err != nil {
		return fmt.Errorf("failed to store export run: %w", err)
	}
	logger.L().Debug("export run stored", zap.String("run_uuid", runUUID), zap.Int("rows", n))
	return nil
}

func (a *app) runHistory(args []string) error {
	fs := newFlagSet("history", a.stdout)
	dbPath := fs.String("db-path", a.cfg.Storage.DBPath, "SQLite database path")
	limit := fs.Int("limit", 20, "Number of rows to list")
	if err := parse(fs, args); err != nil {
		return ignoreUsage(err)
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("usage: yolo-workbench history <installs|exports>")
	}

	store, err := storage.NewService(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	switch rest[0] {
	case "installs":
		runs, err := store.GetRecentInstallRuns(*limit)
		if err != nil {
			return err
		}
		return a.output().RenderInstallHistory(runs)
	case "exports":
		runs, err := store.GetRecentExportRuns(*limit)
		if err != nil {
			return err
		}
		return a.output().RenderExportHistory(runs)
	default:
		return fmt.Errorf("unsupported history command: %s", rest[0])
	}
}

func (a *app) runDB(ctx context.Context, args []string) error {
	fs := newFlagSet("db", a.stdout)
	dbPath := fs.String("db-path", a.cfg.Storage.DBPath, "SQLite database path")
	olderThan := fs.Int("older-than", 30, "Purge runs older than N days")
	if err := parse(fs, args); err != nil {
		return ignoreUsage(err)
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("usage: yolo-workbench db <vacuum|purge> [--db-path ...]")
	}

	store, err := storage.NewService(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	switch rest[0] {
	case "vacuum":
		start := time.Now()
		if err := store.Vacuum(ctx); err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Vacuumed in %s\n", time.Since(start).Round(time.Millisecond))
		return nil
	case "purge":
		count, err := store.PurgeOlderThan(ctx, *olderThan)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Purged %d runs\n", count)
		return nil
	default:
		return fmt.Errorf("unsupported db command: %s", rest[0])
	}
}

func ignoreUsage(err error) error {
	if errors.Is(err, errUsage) {
		return nil
	}
	return err
}

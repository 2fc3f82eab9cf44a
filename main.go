// Command go_fsr2 builds the vendored FSR2 native libraries and checks the
// binding against them.
//
//	go_fsr2 preflight          check tools, source tree, disk space
//	go_fsr2 build [-backend vk] checkout, configure, compile, relocate
//	go_fsr2 verify             re-hash the relocated libraries
//	go_fsr2 smoke              query the linked library
//	go_fsr2 history            list recorded builds
//	go_fsr2 version [-ldflags]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"syscall"
	"time"

	"go_fsr2/core"
	"go_fsr2/core/validation"
	"go_fsr2/db"
	"go_fsr2/fsr2"
	"go_fsr2/logging"
	"go_fsr2/nativebuild"
	"go_fsr2/shutdown"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	envFile    = ".env"
	envLogFile = "FSR2_LOG_FILE"

	// envHistoryDB names the build history database; "off" disables it.
	envHistoryDB     = "FSR2_HISTORY_DB"
	defaultHistoryDB = ".fsr2/history.db"
)

var (
	errUsage           = errors.New("usage")
	errPreflightFailed = errors.New("preflight failed")
	errSmokeFailed     = errors.New("smoke test failed")
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// app carries what every command needs.
type app struct {
	logger  *logging.Logger
	manager *shutdown.Manager
	stdout  io.Writer
	stderr  io.Writer
	envPath string

	// arena holds the FSR2 sessions of the running command; it is closed
	// by the shutdown manager.
	arena *fsr2.Arena
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return core.ExitCodeError
	}

	// A missing .env is reported by preflight, not here.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(stderr, "Warning: failed to load %s: %v\n", envFile, err)
	}

	isDevelopment := core.ParseBoolEnv("DEV_MODE", false)
	defaultLevel := logging.InfoLevel
	if isDevelopment {
		defaultLevel = logging.DebugLevel
	}
	level := logging.ParseLogLevel(logging.LogLevelEnv, defaultLevel)

	logger, err := logging.NewLogger(logging.Options{
		Development: isDevelopment,
		Level:       &level,
		FilePath:    os.Getenv(envLogFile),
		Console:     zapcore.AddSync(stderr),
	})
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logger: %v\n", err)
		return core.ExitCodeError
	}

	manager := shutdown.NewManager(logger.Zap())
	manager.Register("logger", shutdown.PriorityLogger, func(context.Context) error {
		return syncLogger(logger)
	})
	manager.Start()
	defer manager.Stop()

	a := &app{logger: logger, manager: manager, stdout: stdout, stderr: stderr, envPath: envFile}
	err = a.dispatch(args[0], args[1:])

	logger.Debug("Running shutdown handlers", zap.Strings("handlers", manager.RegisteredHandlers()))
	if shutdownErr := manager.Shutdown(); shutdownErr != nil {
		fmt.Fprintf(stderr, "Shutdown: %v\n", shutdownErr)
	}

	if errors.Is(err, errUsage) {
		usage(stderr)
		return core.ExitCodeError
	}
	if errors.Is(err, flag.ErrHelp) {
		return core.ExitCodeSuccess
	}

	exitCode := manager.ExitCode(err)
	if core.IsSignalExit(exitCode) {
		reportSignalExit(stderr, exitCode)
		return exitCode
	}
	if err != nil && !errors.Is(err, errPreflightFailed) {
		if code := core.GetErrorCode(err); code != "" {
			fmt.Fprintf(stderr, "Error [%s]: %v\n", code, err)
		} else {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
	}
	return exitCode
}

// reportSignalExit tells the user that a signal, not a failure, ended the
// command.
func reportSignalExit(w io.Writer, exitCode int) {
	if core.IsSignalExit(exitCode) {
		fmt.Fprintf(w, "Stopped: %s (exit code %d)\n", core.ExitCodeName(exitCode), exitCode)
	}
}

func (a *app) dispatch(command string, args []string) error {
	switch command {
	case "build":
		return a.build(args)
	case "preflight":
		return a.preflight(args)
	case "smoke":
		return a.smoke(args)
	case "verify":
		return a.verify(args)
	case "history":
		return a.history(args)
	case "version":
		return a.version(args)
	case "help", "-h", "--help":
		usage(a.stdout)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: go_fsr2 <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build      build the native libraries and emit linker directives")
	fmt.Fprintln(w, "  preflight  check tools, source tree, output dir and disk space")
	fmt.Fprintln(w, "  smoke      query the linked FSR2 library")
	fmt.Fprintln(w, "  verify     check relocated libraries against the build manifest")
	fmt.Fprintln(w, "  history    list recorded builds, show one, or prune old ones")
	fmt.Fprintln(w, "  version    print version information")
}

func (a *app) newFlagSet(name string) *flag.FlagSet {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(a.stderr)
	return flags
}

func (a *app) preflight(args []string) error {
	flags := a.newFlagSet("preflight")
	failFast := flags.Bool("fail-fast", false, "stop at the first failed check")
	if err := flags.Parse(args); err != nil {
		return err
	}

	return a.runPreflight(nativebuild.PreflightFromEnv(a.envPath), *failFast)
}

func (a *app) runPreflight(cfg validation.PreflightConfig, failFast bool) error {
	result := validation.NewValidationSuite(cfg).
		WithOutput(a.stdout).
		WithFailFast(failFast).
		Validate()

	if !result.Success {
		for _, step := range result.Steps {
			if step.Status == validation.StepFailed {
				a.logger.Error("Preflight check failed",
					zap.String("check", step.Name),
					zap.String("message", step.Message),
					zap.String("code", core.GetErrorCode(step.Error)),
					zap.Error(step.Error),
				)
			}
		}
		if first := result.GetFirstError(); first != nil {
			return fmt.Errorf("%w: %s: %w", errPreflightFailed, result.Summary(), first)
		}
		return fmt.Errorf("%w: %s", errPreflightFailed, result.Summary())
	}

	a.logger.Info("Preflight passed",
		zap.Int("checks_passed", result.PassedSteps),
		zap.Int("warnings", result.Warnings),
		zap.Duration("duration", result.Duration),
	)
	return nil
}

func (a *app) build(args []string) error {
	flags := a.newFlagSet("build")
	backend := flags.String("backend", "", "graphics backend: vk or dx12 (overrides "+nativebuild.EnvBackend+")")
	buildConfig := flags.String("config", "", "Release or Debug (overrides "+nativebuild.EnvBuildConfig+")")
	skipPreflight := flags.Bool("skip-preflight", false, "build without running preflight checks")
	if err := flags.Parse(args); err != nil {
		return err
	}

	for env, value := range map[string]string{
		nativebuild.EnvBackend:     *backend,
		nativebuild.EnvBuildConfig: *buildConfig,
	} {
		if value == "" {
			continue
		}
		if err := os.Setenv(env, value); err != nil {
			a.logger.Error("Failed to apply flag override", zap.String("env", env), zap.Error(err))
			return fmt.Errorf("set %s: %w", env, err)
		}
	}

	cfg, err := nativebuild.LoadConfig()
	if err != nil {
		return err
	}

	if !*skipPreflight {
		if err := a.runPreflight(cfg.Preflight(a.envPath), true); err != nil {
			return err
		}
	}

	builder, err := nativebuild.NewBuilder(cfg, nil, a.logger)
	if err != nil {
		return err
	}

	// A build still runs when its history cannot be stored.
	if database, err := a.openHistory(); err != nil {
		a.logger.Warn("Build history disabled", zap.Error(err))
	} else if database != nil {
		builder.SetRecorder(db.NewRepository(database))
	}

	return a.manager.Run("build", func(ctx context.Context) error {
		result, err := builder.Run(ctx)
		if err != nil {
			var procErr *nativebuild.ProcessError
			if errors.As(err, &procErr) {
				a.logger.Error("Native build failed",
					zap.String("step", procErr.Step),
					zap.Int("exit_code", procErr.ExitCode),
					logging.CommandField(procErr.Command.Name, procErr.Command.Args),
				)
			}
			return err
		}

		fmt.Fprintf(a.stdout, "Built %s %s libraries in %v\n",
			result.Manifest.GFXAPI, result.Manifest.BuildConfig, result.Manifest.Duration().Round(time.Millisecond))
		for _, art := range result.Manifest.Artifacts {
			fmt.Fprintf(a.stdout, "  %-32s %10s  %s\n", art.Name, core.FormatBytes(art.Size), art.SHA256[:12])
		}
		fmt.Fprintf(a.stdout, "CGO_LDFLAGS=%s\n", result.Directives.LDFlags())
		fmt.Fprintf(a.stdout, "Linker directives: %s\n", result.LinkerPath)
		return nil
	})
}

func (a *app) verify(args []string) error {
	flags := a.newFlagSet("verify")
	dir := flags.String("dir", core.GetEnvOrDefault(nativebuild.EnvOutputDir, nativebuild.DefaultOutputDir), "output directory of a previous build")
	if err := flags.Parse(args); err != nil {
		return err
	}

	manifest, err := nativebuild.VerifyManifest(*dir)
	if err != nil {
		return err
	}
	env, err := nativebuild.ReadLinkerEnv(*dir)
	if err != nil {
		return err
	}
	if got := env["CGO_LDFLAGS"]; got != manifest.LDFlags {
		return fmt.Errorf("%s: CGO_LDFLAGS %q does not match manifest %q", nativebuild.LinkerEnvFile, got, manifest.LDFlags)
	}

	if compiled := fsr2.CompiledBackend(); compiled != fsr2.BackendNone && compiled.String() != manifest.Backend {
		a.logger.Warn("Libraries were built for a different backend than this binary",
			zap.String("built", manifest.Backend),
			zap.Stringer("compiled", compiled),
		)
	}

	a.logger.Info("Build verified",
		zap.String("build_id", manifest.BuildID),
		zap.Int("artifacts", len(manifest.Artifacts)),
		zap.Int64("size_bytes", manifest.ArtifactBytes()),
	)
	fmt.Fprintf(a.stdout, "OK: %d libraries match build %s (%s, %s)\n",
		len(manifest.Artifacts), manifest.BuildID, manifest.GFXAPI, manifest.BuildConfig)
	return nil
}

// openHistory opens the build history database and registers it for
// closing at shutdown. It returns nil when history is disabled.
func (a *app) openHistory() (*db.Database, error) {
	path := core.GetEnvOrDefault(envHistoryDB, defaultHistoryDB)
	if path == "off" {
		return nil, nil
	}
	database, err := db.NewDatabase(path)
	if err != nil {
		return nil, err
	}
	a.manager.Register("history-db", shutdown.PriorityFiles, func(context.Context) error {
		return database.Close()
	})
	return database, nil
}

func (a *app) history(args []string) error {
	flags := a.newFlagSet("history")
	limit := flags.Int("limit", 10, "number of builds to list")
	id := flags.String("id", "", "show the steps and artifacts of one build")
	pruneDays := flags.Int("prune-days", -1, "delete builds older than this many days")
	schema := flags.Bool("schema", false, "print the history schema version")
	reset := flags.Bool("reset", false, "delete all history and recreate the schema")
	if err := flags.Parse(args); err != nil {
		return err
	}

	database, err := a.openHistory()
	if err != nil {
		return err
	}
	if database == nil {
		return fmt.Errorf("build history is disabled (%s=off)", envHistoryDB)
	}
	repo := db.NewRepository(database)

	return a.manager.Run("history", func(ctx context.Context) error {
		switch {
		case *schema:
			version, dirty, err := database.SchemaVersion()
			if err != nil {
				return err
			}
			state := "clean"
			if dirty {
				state = "dirty"
			}
			fmt.Fprintf(a.stdout, "Schema version %d (%s) at %s\n", version, state, database.Path())
			return nil

		case *reset:
			if err := database.Reset(); err != nil {
				return err
			}
			a.logger.Info("Build history reset", zap.String("path", database.Path()))
			fmt.Fprintln(a.stdout, "Build history reset")
			return nil

		case *pruneDays >= 0:
			result, err := database.Cleanup(ctx, *pruneDays)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Deleted %d builds\n", result.BuildsDeleted)
			return nil

		case *id != "":
			rec, err := repo.GetBuild(ctx, *id)
			if err != nil {
				return err
			}
			printBuild(a.stdout, rec)
			for _, step := range rec.Steps {
				fmt.Fprintf(a.stdout, "  step     %-24s %8v  %s\n", step.Name, step.Duration, step.Command)
			}
			for _, art := range rec.Artifacts {
				fmt.Fprintf(a.stdout, "  artifact %-32s %10s  %s\n", art.Name, core.FormatBytes(art.Size), art.SHA256)
			}
			if rec.Error != "" {
				fmt.Fprintf(a.stdout, "  error    %s\n", rec.Error)
			}
			return nil

		default:
			builds, err := repo.RecentBuilds(ctx, *limit)
			if err != nil {
				return err
			}
			if len(builds) == 0 {
				fmt.Fprintln(a.stdout, "No builds recorded")
			}
			for _, rec := range builds {
				printBuild(a.stdout, rec)
			}
			return nil
		}
	})
}

func printBuild(w io.Writer, rec db.BuildRecord) {
	fmt.Fprintf(w, "%s  %s  %-9s %-4s %-7s %v\n",
		rec.StartedAt.Local().Format(time.DateTime), rec.ID, rec.Status,
		rec.GFXAPI, rec.BuildConfig, rec.Duration().Round(time.Second))
}

func (a *app) smoke(args []string) error {
	flags := a.newFlagSet("smoke")
	width := flags.Uint("width", 1920, "display width")
	height := flags.Uint("height", 1080, "display height")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *width == 0 || *height == 0 || *width > math.MaxInt32 || *height > math.MaxInt32 {
		return fmt.Errorf("%w: invalid display size %dx%d", errUsage, *width, *height)
	}

	fsr2.SetMessageHandler(logging.NativeMessageHandler(a.logger))
	defer fsr2.SetMessageHandler(nil)

	arena := fsr2.NewArena()
	a.arena = arena
	a.manager.Register("fsr2-arena", shutdown.PriorityNative, func(context.Context) error {
		return arena.Close()
	})

	linkMode := fsr2.LinkMode()
	a.logger.Info("Running smoke test",
		zap.String("link_mode", linkMode),
		zap.Stringer("backend", fsr2.CompiledBackend()),
	)

	results, err := smokeTest(uint32(*width), uint32(*height))
	for _, r := range results {
		fmt.Fprintf(a.stdout, "%-17s ratio %.2f  render %5dx%-5d  jitter phases %3d  first offset (%+.4f, %+.4f)\n",
			r.mode, r.ratio, r.renderWidth, r.renderHeight, r.phases, r.jitterX, r.jitterY)
	}
	if err != nil {
		return err
	}

	// Sessions need a GPU device; without one the arena must refuse.
	display := fsr2.Dimensions2D{Width: uint32(*width), Height: uint32(*height)}
	if _, err := arena.Create(fsr2.ContextConfig{MaxRenderSize: display, DisplaySize: display}); !errors.Is(err, fsr2.ErrNilBackend) {
		return fmt.Errorf("%w: session without a backend: got %v, want %v", errSmokeFailed, err, fsr2.ErrNilBackend)
	}

	if linkMode != "native" {
		a.logger.Warn("Smoke test ran against the portable stub, not the native library",
			zap.String("link_mode", linkMode))
		fmt.Fprintf(a.stderr, "Warning: %s build; values come from the portable formulas. Build with CGO_ENABLED=1 and -tags vk or dx12 to test the native library.\n", linkMode)
	}
	return nil
}

type smokeResult struct {
	mode                      fsr2.QualityMode
	ratio                     float32
	renderWidth, renderHeight uint32
	phases                    int32
	jitterX, jitterY          float32
}

// smokeTest runs every stateless query for each preset. It stops at the
// first preset whose results are out of range.
func smokeTest(displayWidth, displayHeight uint32) ([]smokeResult, error) {
	var results []smokeResult
	for _, mode := range fsr2.QualityModes {
		r := smokeResult{mode: mode, ratio: fsr2.GetUpscaleRatioFromQualityMode(mode)}
		if math.IsNaN(float64(r.ratio)) || r.ratio < 1 || r.ratio > 3 {
			return results, fmt.Errorf("%w: %s upscale ratio %v outside [1, 3]", errSmokeFailed, mode, r.ratio)
		}

		var err error
		r.renderWidth, r.renderHeight, err = fsr2.GetRenderResolutionFromQualityMode(displayWidth, displayHeight, mode)
		if err != nil {
			return results, fmt.Errorf("%w: %s render resolution: %w", errSmokeFailed, mode, err)
		}
		if r.renderWidth == 0 || r.renderHeight == 0 || r.renderWidth > displayWidth || r.renderHeight > displayHeight {
			return results, fmt.Errorf("%w: %s render resolution %dx%d for display %dx%d",
				errSmokeFailed, mode, r.renderWidth, r.renderHeight, displayWidth, displayHeight)
		}

		r.phases = fsr2.GetJitterPhaseCount(int32(r.renderWidth), int32(displayWidth))
		if r.phases <= 0 {
			return results, fmt.Errorf("%w: %s jitter phase count %d", errSmokeFailed, mode, r.phases)
		}
		r.jitterX, r.jitterY, err = fsr2.GetJitterOffset(0, r.phases)
		if err != nil {
			return results, fmt.Errorf("%w: %s jitter offset: %w", errSmokeFailed, mode, err)
		}
		if r.jitterX < -0.5 || r.jitterX >= 0.5 || r.jitterY < -0.5 || r.jitterY >= 0.5 {
			return results, fmt.Errorf("%w: %s jitter offset (%v, %v) outside [-0.5, 0.5)", errSmokeFailed, mode, r.jitterX, r.jitterY)
		}
		results = append(results, r)
	}
	return results, nil
}

func (a *app) version(args []string) error {
	flags := a.newFlagSet("version")
	ldflags := flags.Bool("ldflags", false, "print -ldflags that stamp this version and the current time into a build")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if *ldflags {
		commit := core.GitCommit
		if commit == "unknown" {
			commit = ""
		}
		fmt.Fprintln(a.stdout, core.BuildLdflags(core.Version, time.Now().UTC().Format(time.RFC3339), commit))
		return nil
	}

	fmt.Fprintf(a.stdout, "go_fsr2 %s\n", core.GetVersionInfo())
	fmt.Fprintf(a.stdout, "FSR2 API %d.%d.%d, %s library, backend %s\n",
		fsr2.VersionMajor, fsr2.VersionMinor, fsr2.VersionPatch,
		fsr2.LinkMode(), fsr2.CompiledBackend())
	return nil
}

// syncLogger flushes the logger, ignoring the error stderr returns when it
// is a terminal or pipe.
func syncLogger(logger *logging.Logger) error {
	err := logger.Sync()
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return nil
	}
	return err
}

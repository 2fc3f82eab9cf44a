package nativebuild

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go_fsr2/core"
	"go_fsr2/logging"
)

// Step names as they appear in logs and the manifest.
const (
	StepCheckout  = "checkout"
	StepConfigure = "configure"
	StepCompile   = "compile"
	StepRelocate  = "relocate"
	StepLink      = "emit-linker-directives"
	StepManifest  = "write-manifest"
)

// Builder runs the native build for one Config. A Builder is not safe for
// concurrent use.
type Builder struct {
	cfg    Config
	runner Runner
	logger *logging.Logger
	now    func() time.Time

	recorder Recorder
	steps    []StepRecord
}

// Recorder receives the outcome of every Run. On failure the manifest
// holds the steps completed before buildErr and no artifacts.
type Recorder interface {
	RecordBuild(ctx context.Context, m *Manifest, buildErr error) error
}

// Result is what a successful Run produced.
type Result struct {
	Manifest     *Manifest
	Directives   LinkerDirectives
	ManifestPath string
	LinkerPath   string
}

// NewBuilder validates cfg and returns a Builder. A nil runner runs real
// processes; a nil logger discards output.
func NewBuilder(cfg Config, runner Runner, logger *logging.Logger) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if runner == nil {
		runner = ExecRunner{WaitDelay: 10 * time.Second}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Builder{
		cfg:    cfg,
		runner: runner,
		logger: logger.Named("nativebuild"),
		now:    time.Now,
	}, nil
}

// SetRecorder installs r to receive build outcomes. A nil r disables
// recording.
func (b *Builder) SetRecorder(r Recorder) {
	b.recorder = r
}

// Config returns the configuration the builder was created with.
func (b *Builder) Config() Config {
	return b.cfg
}

// Steps returns the steps completed so far.
func (b *Builder) Steps() []StepRecord {
	return append([]StepRecord(nil), b.steps...)
}

// Checkout initializes the nested submodules of the source tree.
func (b *Builder) Checkout(ctx context.Context) error {
	if err := b.checkSourceDir(); err != nil {
		return err
	}
	return b.run(ctx, StepCheckout, Command{
		Dir:  b.cfg.SourceDir,
		Name: b.cfg.Git,
		Args: []string{"submodule", "update", "--init", "--recursive"},
	})
}

// Configure generates the CMake build directory for the selected backend.
func (b *Builder) Configure(ctx context.Context) error {
	if err := b.checkSourceDir(); err != nil {
		return err
	}
	if _, err := os.Stat(filepath.Join(b.cfg.SourceDir, "CMakeLists.txt")); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSourceMissing, b.cfg.SourceDir, err)
	}
	buildDir := b.cfg.BuildDir()
	if err := os.MkdirAll(buildDir, 0o755); err != nil {
		return fmt.Errorf("%s: %w", StepConfigure, err)
	}
	return b.run(ctx, StepConfigure, Command{Name: b.cfg.CMake, Args: b.configureArgs()})
}

func (b *Builder) configureArgs() []string {
	var args []string
	if b.cfg.GOOS == "windows" {
		args = append(args, "-A", "x64")
	}
	return append(args,
		"-DGFX_API="+b.cfg.Backend.GFXAPI(),
		"-S", b.cfg.SourceDir,
		"-B", b.cfg.BuildDir(),
	)
}

// Compile builds the configured CMake project.
func (b *Builder) Compile(ctx context.Context) error {
	return b.run(ctx, StepCompile, Command{
		Name: b.cfg.CMake,
		Args: []string{"--build", b.cfg.BuildDir(), "--config", b.cfg.BuildConfig},
	})
}

// Relocate copies the core and backend libraries from the source tree to
// the output directory. Both must be present. Debug libraries are written
// under their release names, which the cgo directives of the fsr2
// packages link against. A failure part way through leaves the files
// copied so far in place.
func (b *Builder) Relocate(ctx context.Context) ([]Artifact, error) {
	start := time.Now()

	found, duplicates, err := findLibraries(b.cfg.SourceDir, b.cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", StepRelocate, err)
	}
	for _, d := range duplicates {
		b.logger.Warn("ignoring duplicate library", zap.String("path", d))
	}

	names, err := selectLibraries(found, b.cfg.Backend, b.cfg.BuildConfig)
	if err != nil {
		return nil, fmt.Errorf("%w (searched %s)", err, b.cfg.SourceDir)
	}

	if err := os.MkdirAll(b.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", StepRelocate, core.ErrOutputNotWritable(b.cfg.OutputDir, err))
	}

	required := requiredLibraries(b.cfg.Backend)
	artifacts := make([]Artifact, 0, len(names))
	for _, name := range names {
		a, err := copyArtifact(ctx, found[name], b.cfg.OutputDir, relocatedName(name, required), b.cfg.SourceDir)
		if err != nil {
			return artifacts, fmt.Errorf("%s: %w", StepRelocate, err)
		}
		b.logger.Debug("relocated library", logging.ArtifactFields(a.Name, a.Size, a.SHA256)...)
		artifacts = append(artifacts, a)
	}

	b.record(StepRelocate, "", time.Since(start))
	return artifacts, nil
}

// EmitLinkerDirectives writes LinkerEnvFile for the relocated artifacts
// and returns the directives.
func (b *Builder) EmitLinkerDirectives(artifacts []Artifact) (LinkerDirectives, string, error) {
	start := time.Now()
	d, err := linkerDirectives(b.cfg.Backend.String(), b.cfg.OutputDir, artifacts, b.cfg.GOOS, requiredLibraries(b.cfg.Backend))
	if err != nil {
		return LinkerDirectives{}, "", err
	}
	path, err := WriteLinkerEnv(b.cfg.OutputDir, d)
	if err != nil {
		return LinkerDirectives{}, "", err
	}
	b.record(StepLink, "", time.Since(start))
	b.logger.Info("linker directives written", zap.String("path", path), zap.String("cgo_ldflags", d.LDFlags()))
	return d, path, nil
}

// Run executes every step in order and stops at the first failure.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	if b.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.cfg.Timeout)
		defer cancel()
	}

	b.steps = nil
	buildID := uuid.NewString()
	m := &Manifest{
		BuildID:     buildID,
		ToolVersion: core.Version,
		Backend:     b.cfg.Backend.String(),
		GFXAPI:      b.cfg.Backend.GFXAPI(),
		BuildConfig: b.cfg.BuildConfig,
		Platform:    b.cfg.GOOS + "/" + runtime.GOARCH,
		SourceDir:   filepath.ToSlash(b.cfg.SourceDir),
		StartedAt:   b.now().UTC(),
	}
	log := b.logger.With(zap.String("build_id", buildID))
	log.Info("native build started", logging.BackendFields(m.Backend, m.GFXAPI, m.BuildConfig)...)

	fail := func(step string, err error) (*Result, error) {
		log.Error("native build failed", zap.String("step", step), zap.Error(err))
		m.Steps = b.Steps()
		m.FinishedAt = b.now().UTC()
		b.report(ctx, log, m, err)
		return nil, err
	}

	for _, step := range []struct {
		name string
		fn   func(context.Context) error
	}{
		{StepCheckout, b.Checkout},
		{StepConfigure, b.Configure},
		{StepCompile, b.Compile},
	} {
		if err := step.fn(ctx); err != nil {
			return fail(step.name, err)
		}
	}

	artifacts, err := b.Relocate(ctx)
	if err != nil {
		return fail(StepRelocate, err)
	}

	directives, linkerPath, err := b.EmitLinkerDirectives(artifacts)
	if err != nil {
		return fail(StepLink, err)
	}

	m.Steps = b.Steps()
	m.Artifacts = artifacts
	m.LDFlags = directives.LDFlags()
	m.FinishedAt = b.now().UTC()

	manifestPath, err := WriteManifest(b.cfg.OutputDir, m)
	if err != nil {
		return fail(StepManifest, err)
	}

	log.Info("native build finished", logging.BuildFields(logging.BuildMetrics{
		BuildID:       buildID,
		Backend:       m.Backend,
		BuildConfig:   m.BuildConfig,
		Steps:         len(m.Steps),
		Artifacts:     len(m.Artifacts),
		ArtifactBytes: m.ArtifactBytes(),
		Duration:      m.Duration(),
	}))
	b.report(ctx, log, m, nil)

	return &Result{
		Manifest:     m,
		Directives:   directives,
		ManifestPath: manifestPath,
		LinkerPath:   linkerPath,
	}, nil
}

// report hands the outcome to the recorder. It runs even when ctx was
// cancelled; recording failures are logged, never returned.
func (b *Builder) report(ctx context.Context, log *logging.Logger, m *Manifest, buildErr error) {
	if b.recorder == nil {
		return
	}
	if err := b.recorder.RecordBuild(context.WithoutCancel(ctx), m, buildErr); err != nil {
		log.Warn("failed to record build", zap.Error(err))
	}
}

func (b *Builder) checkSourceDir() error {
	info, err := os.Stat(b.cfg.SourceDir)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSourceMissing, b.cfg.SourceDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrSourceMissing, b.cfg.SourceDir)
	}
	return nil
}

// run executes one external step. A *ProcessError is returned unwrapped
// so that its message stays the process stderr.
func (b *Builder) run(ctx context.Context, step string, cmd Command) error {
	b.logger.Info("running "+step, logging.CommandField(cmd.Name, cmd.Args))
	start := time.Now()

	if _, err := b.runner.Run(ctx, cmd); err != nil {
		var pe *ProcessError
		if errors.As(err, &pe) {
			pe.Step = step
			return pe
		}
		return fmt.Errorf("%s: %w", step, err)
	}

	elapsed := time.Since(start)
	b.record(step, cmd.String(), elapsed)
	b.logger.Info(step+" finished", logging.StepFields(step, elapsed)...)
	return nil
}

func (b *Builder) record(step, command string, elapsed time.Duration) {
	b.steps = append(b.steps, StepRecord{Name: step, Command: command, Duration: elapsed})
}

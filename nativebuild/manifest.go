package nativebuild

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"go_fsr2/core"
)

// ManifestFile is written to the output directory after a build.
const ManifestFile = "fsr2-build.yaml"

// Manifest records what a build produced.
type Manifest struct {
	BuildID     string       `yaml:"build_id"`
	ToolVersion string       `yaml:"tool_version"`
	Backend     string       `yaml:"backend"`
	GFXAPI      string       `yaml:"gfx_api"`
	BuildConfig string       `yaml:"build_config"`
	Platform    string       `yaml:"platform"`
	SourceDir   string       `yaml:"source_dir"`
	StartedAt   time.Time    `yaml:"started_at"`
	FinishedAt  time.Time    `yaml:"finished_at"`
	Steps       []StepRecord `yaml:"steps"`
	Artifacts   []Artifact   `yaml:"artifacts"`
	LDFlags     string       `yaml:"cgo_ldflags"`
}

// StepRecord is one completed build step.
type StepRecord struct {
	Name     string        `yaml:"name"`
	Command  string        `yaml:"command,omitempty"`
	Duration time.Duration `yaml:"duration"`
}

// Duration returns the wall time of the build.
func (m *Manifest) Duration() time.Duration {
	return m.FinishedAt.Sub(m.StartedAt)
}

// ArtifactBytes returns the total size of the relocated libraries.
func (m *Manifest) ArtifactBytes() int64 {
	var n int64
	for _, a := range m.Artifacts {
		n += a.Size
	}
	return n
}

// WriteManifest writes m to ManifestFile in dir.
func WriteManifest(dir string, m *Manifest) (string, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode manifest: %w", err)
	}
	path := filepath.Join(dir, ManifestFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	return path, nil
}

// ReadManifest reads ManifestFile from dir.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}

// VerifyManifest checks every artifact listed in the manifest in dir
// against its recorded SHA-256. All failures are reported together.
func VerifyManifest(dir string) (*Manifest, error) {
	m, err := ReadManifest(dir)
	if err != nil {
		return nil, err
	}
	if len(m.Artifacts) == 0 {
		return m, fmt.Errorf("%w: manifest lists no artifacts", ErrArtifactMissing)
	}

	var errs []error
	for _, a := range m.Artifacts {
		ok, err := core.VerifyChecksum(filepath.Join(dir, a.Name), a.SHA256)
		switch {
		case errors.Is(err, os.ErrNotExist):
			errs = append(errs, fmt.Errorf("%w: %s", ErrArtifactMissing, a.Name))
		case err != nil:
			errs = append(errs, fmt.Errorf("%s: %w", a.Name, err))
		case !ok:
			errs = append(errs, fmt.Errorf("%w: %s", ErrChecksumMismatch, a.Name))
		}
	}
	return m, errors.Join(errs...)
}

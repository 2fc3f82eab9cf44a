package nativebuild

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// LinkerEnvFile is written to the output directory by EmitLinkerDirectives.
const LinkerEnvFile = "cgo_ldflags.env"

// LinkerDirectives names the relocated libraries and where to find them.
type LinkerDirectives struct {
	Backend    string
	SearchPath string   // absolute output directory
	Libraries  []string // link names in link order
	RPath      bool     // add the search path to the runtime search path
}

// Flags returns the linker arguments: the search path, then the backend
// library ahead of the core library it depends on.
func (d LinkerDirectives) Flags() []string {
	flags := []string{quoteFlag("-L" + d.SearchPath)}
	if d.RPath {
		flags = append(flags, quoteFlag("-Wl,-rpath,"+d.SearchPath))
	}
	for _, lib := range d.Libraries {
		flags = append(flags, "-l"+lib)
	}
	return flags
}

// LDFlags returns Flags as a CGO_LDFLAGS value.
func (d LinkerDirectives) LDFlags() string {
	return strings.Join(d.Flags(), " ")
}

// Env returns the variables written to LinkerEnvFile.
func (d LinkerDirectives) Env() map[string]string {
	return map[string]string{
		"CGO_LDFLAGS":  d.LDFlags(),
		"FSR2_LIB_DIR": d.SearchPath,
		"FSR2_BACKEND": d.Backend,
	}
}

// quoteFlag quotes a flag holding whitespace or quotes the way the go
// command splits CGO_LDFLAGS. The go command strips the quotes without
// unescaping anything, so backslashes in Windows paths stay single.
func quoteFlag(flag string) string {
	if !strings.ContainsAny(flag, " \t\n'\"") {
		return flag
	}
	if strings.Contains(flag, `"`) {
		return "'" + flag + "'"
	}
	return `"` + flag + `"`
}

// linkerDirectives derives the directives for artifacts relocated to dir.
func linkerDirectives(backend, dir string, artifacts []Artifact, goos string, required []string) (LinkerDirectives, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return LinkerDirectives{}, err
	}
	d := LinkerDirectives{Backend: backend, SearchPath: abs}

	// Required libraries are listed core first; link the backend first.
	for i := len(required) - 1; i >= 0; i-- {
		link, ok := resolveLinkName(artifacts, required[i])
		if !ok {
			return LinkerDirectives{}, fmt.Errorf("%w: %s", ErrArtifactMissing, required[i])
		}
		d.Libraries = append(d.Libraries, link)
	}

	if goos != "windows" {
		for _, a := range artifacts {
			if a.Shared() {
				d.RPath = true
				break
			}
		}
	}
	return d, nil
}

// resolveLinkName finds the artifact relocated for library. Relocation
// drops the debug suffix, so only the plain name is accepted.
func resolveLinkName(artifacts []Artifact, library string) (string, bool) {
	for _, a := range artifacts {
		if a.LinkName() == library {
			return library, true
		}
	}
	return "", false
}

// WriteLinkerEnv writes d to LinkerEnvFile in dir.
func WriteLinkerEnv(dir string, d LinkerDirectives) (string, error) {
	path := filepath.Join(dir, LinkerEnvFile)
	if err := godotenv.Write(d.Env(), path); err != nil {
		return "", fmt.Errorf("write %s: %w", LinkerEnvFile, err)
	}
	return path, nil
}

// ReadLinkerEnv reads the variables written by WriteLinkerEnv.
func ReadLinkerEnv(dir string) (map[string]string, error) {
	env, err := godotenv.Read(filepath.Join(dir, LinkerEnvFile))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", LinkerEnvFile, err)
	}
	return env, nil
}

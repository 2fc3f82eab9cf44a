package nativebuild

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go_fsr2/core"
	"go_fsr2/fsr2"
)

// libraryPrefix starts the name of every FSR2 library.
const libraryPrefix = "ffx_fsr2_api_"

// libraryExts are the file types relocated out of the vendor tree.
var libraryExts = map[string]bool{
	".lib":   true,
	".a":     true,
	".so":    true,
	".dll":   true,
	".dylib": true,
}

// Artifact is one relocated library.
type Artifact struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"` // relative to the source tree
	Size   int64  `yaml:"size"`
	SHA256 string `yaml:"sha256"`
}

// LinkName returns the name passed to -l: the file name without a "lib"
// prefix and without its extension.
func (a Artifact) LinkName() string {
	name, _ := libraryLinkName(a.Name)
	return name
}

// Shared reports whether the artifact is loaded at run time.
func (a Artifact) Shared() bool {
	switch filepath.Ext(a.Name) {
	case ".so", ".dll", ".dylib":
		return true
	}
	return false
}

func libraryLinkName(file string) (string, bool) {
	ext := filepath.Ext(file)
	if !libraryExts[ext] {
		return "", false
	}
	stem := strings.TrimPrefix(strings.TrimSuffix(file, ext), "lib")
	if !strings.HasPrefix(stem, libraryPrefix) {
		return "", false
	}
	return stem, true
}

// wantedLinkNames returns, in order of preference, the link names accepted
// for library under buildConfig. Debug builds of the SDK append a "d".
func wantedLinkNames(library, buildConfig string) []string {
	if buildConfig == "Debug" {
		return []string{library + "d", library}
	}
	return []string{library}
}

// requiredLibraries returns the core and backend library names for kind.
func requiredLibraries(kind fsr2.BackendKind) []string {
	return []string{fsr2.CoreLibraryName, kind.LibraryName()}
}

// findLibraries walks root for FSR2 libraries, skipping .git and skip.
// When a name occurs more than once the most recently modified file wins,
// so a stale library from an earlier build cannot shadow a fresh one. The
// paths passed over are returned as duplicates.
func findLibraries(root, skip string) (found map[string]string, duplicates []string, err error) {
	found = map[string]string{}
	modTimes := map[string]time.Time{}
	skipAbs, _ := filepath.Abs(skip)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			if abs, _ := filepath.Abs(path); skip != "" && abs == skipAbs {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := libraryLinkName(d.Name()); !ok {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		name := d.Name()
		if prev, seen := found[name]; seen {
			if !info.ModTime().After(modTimes[name]) {
				duplicates = append(duplicates, path)
				return nil
			}
			duplicates = append(duplicates, prev)
		}
		found[name] = path
		modTimes[name] = info.ModTime()
		return nil
	})
	sort.Strings(duplicates)
	return found, duplicates, err
}

// selectLibraries picks the files to relocate: for each required library
// the files of the most preferred link name found.
func selectLibraries(found map[string]string, kind fsr2.BackendKind, buildConfig string) ([]string, error) {
	byLinkName := map[string][]string{}
	for name := range found {
		link, _ := libraryLinkName(name)
		byLinkName[link] = append(byLinkName[link], name)
	}

	var selected []string
	for _, lib := range requiredLibraries(kind) {
		var names []string
		for _, want := range wantedLinkNames(lib, buildConfig) {
			if names = byLinkName[want]; len(names) > 0 {
				break
			}
		}
		if len(names) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrArtifactMissing, lib)
		}
		selected = append(selected, names...)
	}
	sort.Strings(selected)
	return selected, nil
}

// relocatedName returns the file name a library is copied to. The debug
// suffix of a required library is dropped so that the relocated files
// have the same names under every build configuration.
func relocatedName(file string, required []string) string {
	link, ok := libraryLinkName(file)
	if !ok {
		return file
	}
	for _, lib := range required {
		if link == lib+"d" {
			return strings.Replace(file, link, lib, 1)
		}
	}
	return file
}

// copyArtifact copies src into dir as name and returns the relocated
// artifact.
func copyArtifact(ctx context.Context, src, dir, name, sourceRoot string) (Artifact, error) {
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}

	dst := filepath.Join(dir, name)

	in, err := os.Open(src)
	if err != nil {
		return Artifact{}, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return Artifact{}, err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return Artifact{}, err
	}
	size, err := io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return Artifact{}, fmt.Errorf("copy %s: %w", name, err)
	}

	sum, err := core.ComputeSHA256(dst)
	if err != nil {
		return Artifact{}, err
	}

	rel, err := filepath.Rel(sourceRoot, src)
	if err != nil {
		rel = src
	}
	return Artifact{
		Name:   name,
		Source: filepath.ToSlash(rel),
		Size:   size,
		SHA256: sum,
	}, nil
}

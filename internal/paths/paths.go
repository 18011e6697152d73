package paths

import (
	"os"
	"path/filepath"
	"strings"

	"affected/internal/errors"
)

// ResolveRepoRoot makes path absolute and clean and checks that it names an
// existing directory. Failures are configuration errors.
func ResolveRepoRoot(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New(errors.ConfigurationError, "repository path is required", nil)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.New(errors.ConfigurationError, "cannot resolve repository path "+path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", errors.New(errors.ConfigurationError, "repository path does not exist: "+abs, err)
	}
	if !info.IsDir() {
		return "", errors.New(errors.ConfigurationError, "repository path is not a directory: "+abs, nil)
	}

	return abs, nil
}

// SourceRoot returns the directory to scan: sourceDir joined to repoRoot, or
// sourceDir itself when it is absolute.
func SourceRoot(repoRoot, sourceDir string) string {
	if filepath.IsAbs(sourceDir) {
		return filepath.Clean(sourceDir)
	}
	return filepath.Join(repoRoot, filepath.FromSlash(sourceDir))
}

// CanonicalizePath converts an absolute path to a repo-relative canonical path
// - Resolves symlinks to real paths
// - Makes path relative to repo root
// - Returns repo-relative path with forward slashes
func CanonicalizePath(absolutePath string, repoRoot string) (string, error) {
	resolved, err := evalOrKeep(absolutePath)
	if err != nil {
		return "", err
	}
	rootResolved, err := evalOrKeep(repoRoot)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(rootResolved, resolved)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// evalOrKeep resolves symlinks, keeping paths that do not exist as they are
func evalOrKeep(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		if os.IsNotExist(err) {
			return path, nil
		}
		return "", err
	}
	return resolved, nil
}

// IsWithinRepo checks if a path is within the repository root
func IsWithinRepo(path string, repoRoot string) bool {
	canonical, err := CanonicalizePath(path, repoRoot)
	if err != nil {
		return false
	}
	return canonical != ".." && !strings.HasPrefix(canonical, "../")
}

// RelativeOrAbsolute returns the repo-relative form of path when it lies
// inside repoRoot, and path unchanged otherwise.
func RelativeOrAbsolute(path, repoRoot string) string {
	if !IsWithinRepo(path, repoRoot) {
		return path
	}
	canonical, err := CanonicalizePath(path, repoRoot)
	if err != nil {
		return path
	}
	return canonical
}

package paths

import (
	"os"
	"path/filepath"
	"testing"

	"affected/internal/errors"
)

func TestResolveRepoRoot(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ResolveRepoRoot(dir)
	if err != nil {
		t.Fatalf("ResolveRepoRoot(%q) error = %v", dir, err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("expected absolute path, got %q", got)
	}

	tests := []struct {
		name string
		path string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"missing", filepath.Join(dir, "missing")},
		{"file", file},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveRepoRoot(tt.path)
			if !errors.Is(err, errors.ConfigurationError) {
				t.Errorf("ResolveRepoRoot(%q) error = %v, want CONFIGURATION_ERROR", tt.path, err)
			}
		})
	}
}

func TestResolveRepoRoot_Relative(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	got, err := ResolveRepoRoot(".")
	if err != nil {
		t.Fatalf("ResolveRepoRoot(.) error = %v", err)
	}

	want, _ := filepath.EvalSymlinks(dir)
	gotResolved, _ := filepath.EvalSymlinks(got)
	if gotResolved != want {
		t.Errorf("ResolveRepoRoot(.) = %q, want %q", gotResolved, want)
	}
}

func TestSourceRoot(t *testing.T) {
	root := filepath.FromSlash("/work/app")

	tests := []struct {
		sourceDir string
		want      string
	}{
		{"src", filepath.FromSlash("/work/app/src")},
		{"packages/web", filepath.FromSlash("/work/app/packages/web")},
		{".", root},
		{filepath.FromSlash("/elsewhere/src/"), filepath.FromSlash("/elsewhere/src")},
	}

	for _, tt := range tests {
		if got := SourceRoot(root, tt.sourceDir); got != tt.want {
			t.Errorf("SourceRoot(%q) = %q, want %q", tt.sourceDir, got, tt.want)
		}
	}
}

func TestCanonicalizePath(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "pages")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(nested, "home.ts")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := CanonicalizePath(file, root)
	if err != nil {
		t.Fatalf("CanonicalizePath() error = %v", err)
	}
	if got != "src/pages/home.ts" {
		t.Errorf("CanonicalizePath() = %q, want %q", got, "src/pages/home.ts")
	}

	// Paths that do not exist are used as-is
	missing := filepath.Join(root, "src", "gone.ts")
	got, err = CanonicalizePath(missing, root)
	if err != nil {
		t.Fatalf("CanonicalizePath(missing) error = %v", err)
	}
	if got != "src/gone.ts" {
		t.Errorf("CanonicalizePath(missing) = %q, want %q", got, "src/gone.ts")
	}
}

func TestIsWithinRepo(t *testing.T) {
	root := t.TempDir()
	inside := filepath.Join(root, "src", "a.ts")
	outside := filepath.Join(filepath.Dir(root), "other", "a.ts")
	sibling := root + "-sibling"

	if !IsWithinRepo(inside, root) {
		t.Errorf("%q should be within %q", inside, root)
	}
	if IsWithinRepo(outside, root) {
		t.Errorf("%q should not be within %q", outside, root)
	}
	if IsWithinRepo(sibling, root) {
		t.Errorf("%q should not be within %q", sibling, root)
	}
}

func TestRelativeOrAbsolute(t *testing.T) {
	root := t.TempDir()
	inside := filepath.Join(root, "src", "a.ts")
	outside := filepath.Join(filepath.Dir(root), "elsewhere.ts")

	if got := RelativeOrAbsolute(inside, root); got != "src/a.ts" {
		t.Errorf("RelativeOrAbsolute(inside) = %q", got)
	}
	if got := RelativeOrAbsolute(outside, root); got != outside {
		t.Errorf("RelativeOrAbsolute(outside) = %q, want %q", got, outside)
	}
}

// Package git obtains unified diff text from a working tree.
package git

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"affected/internal/errors"
)

const (
	// DefaultTimeout is the default timeout for git operations
	DefaultTimeout = 30 * time.Second

	// DefaultRef is compared against the working tree when no ref is given
	DefaultRef = "HEAD"
)

// Options configures an Adapter
type Options struct {
	Timeout time.Duration // Per-command timeout; DefaultTimeout when zero
	Staged  bool          // Diff the index instead of the working tree
}

// Adapter runs git against one repository
type Adapter struct {
	repoRoot string
	repo     *gogit.Repository
	timeout  time.Duration
	staged   bool
	logger   *slog.Logger
}

// NewAdapter opens the repository containing repoRoot. A path outside any
// repository is reported as GitUnavailable before any command runs.
func NewAdapter(repoRoot string, opts Options, logger *slog.Logger) (*Adapter, error) {
	if logger == nil {
		return nil, errors.New(errors.InternalError, "Logger is required for git Adapter", nil)
	}

	repo, err := gogit.PlainOpenWithOptions(repoRoot, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, errors.New(errors.GitUnavailable, "not a git repository: "+repoRoot, err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	adapter := &Adapter{
		repoRoot: repoRoot,
		repo:     repo,
		timeout:  timeout,
		staged:   opts.Staged,
		logger:   logger,
	}

	logger.Debug("Git adapter initialized",
		"repoRoot", repoRoot,
		"worktree", adapter.WorktreeRoot(),
		"timeout", timeout.String(),
		"staged", opts.Staged,
	)

	return adapter, nil
}

// WorktreeRoot returns the top-level directory of the working tree, or the
// configured root for bare repositories.
func (g *Adapter) WorktreeRoot() string {
	wt, err := g.repo.Worktree()
	if err != nil {
		return g.repoRoot
	}
	return wt.Filesystem.Root()
}

// ResolveRef resolves a single revision to a commit hash. go-git handles
// branches, tags, hashes and HEAD~n; anything it misses (":/message",
// "@{upstream}") is confirmed with git rev-parse before being reported unknown.
func (g *Adapter) ResolveRef(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		ref = DefaultRef
	}

	hash, err := g.repo.ResolveRevision(plumbing.Revision(ref))
	if err == nil {
		return hash.String(), nil
	}
	g.logger.Debug("go-git could not resolve revision, asking git",
		"ref", ref,
		"error", err.Error(),
	)

	out, gitErr := g.executeGitCommand(ctx, "rev-parse", "--verify", "--quiet", "--end-of-options", ref)
	if gitErr != nil {
		if errors.Is(gitErr, errors.GitCommandFailed) {
			return "", errors.New(errors.GitCommandFailed, "unknown revision "+ref, err).
				WithDetails(map[string]string{"ref": ref})
		}
		return "", gitErr
	}
	return strings.TrimSpace(out), nil
}

// IsRange reports whether ref is a revision range ("a..b", "a...b") that only
// the git CLI understands.
func IsRange(ref string) bool {
	return strings.Contains(ref, "..")
}

// DiffText returns the unified diff of the working tree (or index when staged)
// against ref. An empty ref compares against HEAD.
func (g *Adapter) DiffText(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		ref = DefaultRef
	}

	args := []string{"diff", "--no-color", "--no-ext-diff"}
	if g.staged {
		args = append(args, "--cached")
	}
	args = append(args, ref, "--")

	g.logger.Debug("Getting diff", "ref", ref, "staged", g.staged)

	return g.executeGitCommand(ctx, args...)
}

// executeGitCommand runs a git command with timeout and returns raw stdout
func (g *Adapter) executeGitCommand(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.repoRoot

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	g.logger.Debug("Executing git command",
		"args", args,
		"timeout", g.timeout.String(),
	)

	output, err := cmd.Output()
	if err != nil {
		if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", errors.New(errors.Timeout, "git command timed out", err).
				WithDetails(map[string]interface{}{"args": args})
		}

		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			return "", errors.New(errors.GitCommandFailed, "git command failed", err).
				WithDetails(map[string]interface{}{
					"args":   args,
					"stderr": strings.TrimSpace(stderr.String()),
				})
		}

		return "", errors.New(errors.GitUnavailable, "failed to execute git", err)
	}

	return string(output), nil
}

package impact

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gobwas/glob"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"affected/internal/errors"
)

// DefaultConcurrency bounds the number of directory and file handles open at once
const DefaultConcurrency = 64

// FileSystem is the read-only view of the filesystem used by TreeScanner
type FileSystem interface {
	ReadDir(name string) ([]fs.DirEntry, error)
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
}

// OSFileSystem reads from the host filesystem
type OSFileSystem struct{}

func (OSFileSystem) ReadDir(name string) ([]fs.DirEntry, error) { return os.ReadDir(name) }
func (OSFileSystem) Stat(name string) (fs.FileInfo, error)      { return os.Stat(name) }
func (OSFileSystem) ReadFile(name string) ([]byte, error)       { return os.ReadFile(name) }

// ScannerOptions configures a TreeScanner
type ScannerOptions struct {
	Exclude     []string     // Glob patterns matched against root-relative paths and base names
	Concurrency int          // Max open handles and file workers; DefaultConcurrency when <= 0
	MaxFileSize int64        // Files larger than this are skipped; 0 means unlimited
	FS          FileSystem   // Defaults to OSFileSystem
	Logger      *slog.Logger // Defaults to slog.Default()
}

// TreeScanner walks a source tree and correlates file contents with identifiers
type TreeScanner struct {
	fsys        FileSystem
	exclude     []glob.Glob
	concurrency int64
	maxFileSize int64
	logger      *slog.Logger
}

// NewTreeScanner creates a TreeScanner. Invalid exclude globs are a configuration error.
func NewTreeScanner(opts ScannerOptions) (*TreeScanner, error) {
	matchers := make([]glob.Glob, 0, len(opts.Exclude))
	for _, pattern := range opts.Exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, errors.New(errors.ConfigurationError, "invalid exclude pattern "+pattern, err)
		}
		matchers = append(matchers, g)
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = OSFileSystem{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &TreeScanner{
		fsys:        fsys,
		exclude:     matchers,
		concurrency: int64(concurrency),
		maxFileSize: opts.MaxFileSize,
		logger:      logger,
	}, nil
}

// Scan walks root recursively and returns every file whose content contains at
// least one identifier. Unreadable directories and files are recorded as issues
// and skipped; they never abort the scan. The only errors returned are an empty
// root and context cancellation.
func (s *TreeScanner) Scan(ctx context.Context, root string, ids *IdentifierSet) (*ScanResult, error) {
	if root == "" {
		return nil, errors.New(errors.ConfigurationError, "scan root is empty", nil)
	}

	run := &scanRun{
		scanner: s,
		root:    root,
		ids:     ids.Names(),
		sem:     semaphore.NewWeighted(s.concurrency),
		workers: semaphore.NewWeighted(s.concurrency),
	}

	s.logger.Debug("Scanning source tree",
		"root", root,
		"identifiers", len(run.ids),
	)

	c := run.scanDir(ctx, root)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if c.entries == nil {
		c.entries = []AffectedEntry{}
	}
	if c.issues == nil {
		c.issues = []ScanIssue{}
	}

	return &ScanResult{
		Entries:      c.entries,
		Issues:       c.issues,
		FilesScanned: c.files,
	}, nil
}

// MatchIdentifiers returns the identifiers occurring as substrings of content,
// in the order given.
func MatchIdentifiers(content string, ids []string) []string {
	var matched []string
	for _, id := range ids {
		if strings.Contains(content, id) {
			matched = append(matched, id)
		}
	}
	return matched
}

// contribution is the immutable outcome of one unit of scan work
type contribution struct {
	entries []AffectedEntry
	issues  []ScanIssue
	files   int
}

func (c *contribution) merge(o contribution) {
	c.entries = append(c.entries, o.entries...)
	c.issues = append(c.issues, o.issues...)
	c.files += o.files
}

// scanRun holds the per-invocation state of a scan
type scanRun struct {
	scanner *TreeScanner
	root    string
	ids     []string
	sem     *semaphore.Weighted // open handles
	workers *semaphore.Weighted // goroutines for non-directory entries
}

// scanDir processes every entry of dir concurrently and concatenates the
// results in enumeration order once all of them have finished. Subdirectories
// get a goroutine each; other entries share a pool bounded by the concurrency.
func (r *scanRun) scanDir(ctx context.Context, dir string) contribution {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return contribution{}
	}
	entries, err := r.scanner.fsys.ReadDir(dir)
	r.sem.Release(1)

	if err != nil {
		r.scanner.logger.Warn("Failed to read directory",
			"path", dir,
			"error", err.Error(),
		)
		return contribution{issues: []ScanIssue{{
			Path: dir,
			Kind: IssueDirectoryRead,
			Err:  errors.New(errors.DirectoryReadError, "failed to read directory "+dir, err),
		}}}
	}

	parts := make([]contribution, len(entries))

	// Only non-directory entries take a worker slot
	var g errgroup.Group
	for i, entry := range entries {
		if !entry.IsDir() {
			if err := r.workers.Acquire(ctx, 1); err != nil {
				break
			}
		}
		g.Go(func() error {
			if !entry.IsDir() {
				defer r.workers.Release(1)
			}
			parts[i] = r.scanEntry(ctx, filepath.Join(dir, entry.Name()), entry)
			return nil
		})
	}
	_ = g.Wait()

	var out contribution
	for _, p := range parts {
		out.merge(p)
	}
	return out
}

func (r *scanRun) scanEntry(ctx context.Context, path string, entry fs.DirEntry) contribution {
	if ctx.Err() != nil {
		return contribution{}
	}

	if r.excluded(path) {
		r.scanner.logger.Debug("Skipping excluded path", "path", path)
		return contribution{}
	}

	mode := entry.Type()
	if mode&fs.ModeSymlink != 0 {
		info, err := r.scanner.fsys.Stat(path)
		if err != nil {
			return r.fileIssue(path, "failed to resolve symlink "+path, err)
		}
		if info.IsDir() {
			// Symlinked directories are not descended so every file is visited once
			r.scanner.logger.Debug("Skipping symlinked directory", "path", path)
			return contribution{}
		}
		mode = info.Mode().Type()
	}

	switch {
	case mode.IsDir():
		return r.scanDir(ctx, path)
	case mode.IsRegular():
		return r.scanFile(ctx, path, entry)
	default:
		r.scanner.logger.Debug("Skipping irregular file", "path", path, "mode", mode.String())
		return contribution{}
	}
}

func (r *scanRun) scanFile(ctx context.Context, path string, entry fs.DirEntry) contribution {
	if r.scanner.maxFileSize > 0 {
		if info, err := entry.Info(); err == nil && info.Size() > r.scanner.maxFileSize {
			return r.fileIssue(path, "file exceeds size limit "+path, nil)
		}
	}

	if err := r.sem.Acquire(ctx, 1); err != nil {
		return contribution{}
	}
	data, err := r.scanner.fsys.ReadFile(path)
	r.sem.Release(1)

	if err != nil {
		return r.fileIssue(path, "failed to read file "+path, err)
	}
	if !utf8.Valid(data) {
		r.scanner.logger.Debug("Skipping non-text file", "path", path)
		return contribution{issues: []ScanIssue{{
			Path: path,
			Kind: IssueFileRead,
			Err:  errors.New(errors.FileReadError, "file is not valid UTF-8 text "+path, nil),
		}}}
	}

	c := contribution{files: 1}
	if matched := MatchIdentifiers(string(data), r.ids); len(matched) > 0 {
		c.entries = []AffectedEntry{{Path: path, MatchedIdentifiers: matched}}
	}
	return c
}

func (r *scanRun) fileIssue(path, message string, cause error) contribution {
	attrs := []any{"path", path}
	if cause != nil {
		attrs = append(attrs, "error", cause.Error())
	}
	r.scanner.logger.Warn("Failed to read file", attrs...)

	return contribution{issues: []ScanIssue{{
		Path: path,
		Kind: IssueFileRead,
		Err:  errors.New(errors.FileReadError, message, cause),
	}}}
}

// excluded matches path against the exclude globs, both as a root-relative
// slash path and as a base name.
func (r *scanRun) excluded(path string) bool {
	if len(r.scanner.exclude) == 0 {
		return false
	}

	rel, err := filepath.Rel(r.root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(path)

	for _, g := range r.scanner.exclude {
		if g.Match(rel) || g.Match(base) {
			return true
		}
	}
	return false
}

package main

import (
	"affected/internal/diff"
	"affected/internal/errors"
	"affected/internal/impact"
	"affected/internal/paths"
	"affected/internal/version"
)

// ReportCLI is the rendered result of one analysis run.
type ReportCLI struct {
	RunID           string                 `json:"runId" yaml:"runId"`
	Version         string                 `json:"version" yaml:"version"`
	RepositoryPath  string                 `json:"repositoryPath" yaml:"repositoryPath"`
	SourceRoot      string                 `json:"sourceRoot" yaml:"sourceRoot"`
	CommitToCompare string                 `json:"commitToCompare,omitempty" yaml:"commitToCompare,omitempty"`
	FilterPattern   string                 `json:"filterPattern,omitempty" yaml:"filterPattern,omitempty"`
	Diff            diff.Stats             `json:"diff" yaml:"diff"`
	Identifiers     []string               `json:"identifiers" yaml:"identifiers"`
	Affected        []impact.AffectedEntry `json:"affected" yaml:"affected"`
	Summary         []string               `json:"summary" yaml:"summary"`
	Groups          []impact.SummaryGroup  `json:"groups" yaml:"groups"`
	Skipped         []SkippedPathCLI       `json:"skipped" yaml:"skipped"`
	FilesScanned    int                    `json:"filesScanned" yaml:"filesScanned"`
	DurationMs      int64                  `json:"durationMs" yaml:"durationMs"`
	Limits          *impact.AnalysisLimits `json:"limits" yaml:"limits"`
}

// SkippedPathCLI describes a directory or file the scan could not read.
type SkippedPathCLI struct {
	Path    string           `json:"path" yaml:"path"`
	Kind    impact.IssueKind `json:"kind" yaml:"kind"`
	Code    errors.ErrorCode `json:"code" yaml:"code"`
	Message string           `json:"message" yaml:"message"`
}

type reportInput struct {
	RunID      string
	RepoRoot   string
	SourceRoot string
	Ref        string
	Pattern    string
	Relative   bool
	Stats      diff.Stats
	Result     *impact.AnalysisResult
	Summarizer *impact.Summarizer
}

// buildReport converts an analysis result to its CLI form. With Relative set,
// paths are shown relative to the repository and the summary is recomputed
// over those relative paths.
func buildReport(in reportInput) *ReportCLI {
	r := in.Result

	display := func(p string) string { return p }
	if in.Relative {
		display = func(p string) string { return paths.RelativeOrAbsolute(p, in.RepoRoot) }
	}

	affected := make([]impact.AffectedEntry, len(r.Entries))
	for i, e := range r.Entries {
		affected[i] = impact.AffectedEntry{Path: display(e.Path), MatchedIdentifiers: e.MatchedIdentifiers}
	}

	summary, groups := r.Summary, r.Groups
	if in.Relative && in.Summarizer != nil {
		summary = in.Summarizer.Summarize(affected)
		groups = in.Summarizer.Group(affected)
	}

	skipped := make([]SkippedPathCLI, len(r.Issues))
	for i, issue := range r.Issues {
		s := SkippedPathCLI{
			Path: display(issue.Path),
			Kind: issue.Kind,
			Code: errors.CodeOf(issue.Err),
		}
		if ae, ok := errors.As(issue.Err); ok {
			s.Message = ae.Message
		} else if issue.Err != nil {
			s.Message = issue.Err.Error()
		}
		skipped[i] = s
	}

	identifiers := r.Identifiers
	if identifiers == nil {
		identifiers = []string{}
	}

	repoPath, sourceRoot := in.RepoRoot, in.SourceRoot
	if in.Relative {
		repoPath = "."
		sourceRoot = display(in.SourceRoot)
	}

	return &ReportCLI{
		RunID:           in.RunID,
		Version:         version.Version,
		RepositoryPath:  repoPath,
		SourceRoot:      sourceRoot,
		CommitToCompare: in.Ref,
		FilterPattern:   in.Pattern,
		Diff:            in.Stats,
		Identifiers:     identifiers,
		Affected:        affected,
		Summary:         summary,
		Groups:          groups,
		Skipped:         skipped,
		FilesScanned:    r.FilesScanned,
		DurationMs:      r.Duration.Milliseconds(),
		Limits:          r.Limits,
	}
}

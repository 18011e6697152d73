// Package diff parses unified diffs into the hunk model used by impact analysis.
package diff

import (
	"fmt"
	"strings"

	godiff "github.com/sourcegraph/go-diff/diff"

	"affected/internal/errors"
	"affected/internal/impact"
)

// GitDiffParser parses unified git diffs into structured data
type GitDiffParser struct{}

// NewGitDiffParser creates a new GitDiffParser
func NewGitDiffParser() *GitDiffParser {
	return &GitDiffParser{}
}

// Parse parses a unified diff string into file diffs in diff order
func (p *GitDiffParser) Parse(diffContent string) ([]impact.FileDiff, error) {
	if strings.TrimSpace(diffContent) == "" {
		return []impact.FileDiff{}, nil
	}

	fileDiffs, err := godiff.ParseMultiFileDiff([]byte(diffContent))
	if err != nil {
		return nil, errors.New(errors.DiffParseError, "failed to parse diff", err)
	}

	result := make([]impact.FileDiff, 0, len(fileDiffs))
	for _, fd := range fileDiffs {
		result = append(result, p.parseFileDiff(fd))
	}

	return result, nil
}

// parseFileDiff converts a go-diff FileDiff to our FileDiff
func (p *GitDiffParser) parseFileDiff(fd *godiff.FileDiff) impact.FileDiff {
	f := impact.FileDiff{
		OldPath: cleanPath(fd.OrigName),
		NewPath: cleanPath(fd.NewName),
		Hunks:   make([]impact.Hunk, 0, len(fd.Hunks)),
	}

	for _, hunk := range fd.Hunks {
		f.Hunks = append(f.Hunks, p.parseHunk(hunk))
	}

	return f
}

// parseHunk converts a go-diff Hunk to our Hunk
func (p *GitDiffParser) parseHunk(hunk *godiff.Hunk) impact.Hunk {
	h := impact.Hunk{
		Content: hunkHeader(hunk),
		Changes: make([]impact.LineChange, 0),
	}

	body := strings.TrimSuffix(string(hunk.Body), "\n")
	if body == "" {
		return h
	}

	for _, line := range strings.Split(body, "\n") {
		if len(line) == 0 {
			// Some tools strip the space marker from blank context lines
			h.Changes = append(h.Changes, impact.LineChange{Kind: impact.ChangeContext})
			continue
		}

		switch line[0] {
		case '+':
			h.Changes = append(h.Changes, impact.LineChange{Kind: impact.ChangeInsert, Text: line[1:]})
		case '-':
			h.Changes = append(h.Changes, impact.LineChange{Kind: impact.ChangeDelete, Text: line[1:]})
		case ' ':
			h.Changes = append(h.Changes, impact.LineChange{Kind: impact.ChangeContext, Text: line[1:]})
		case '\\':
			// "\ No newline at end of file" - ignore
		}
	}

	return h
}

// hunkHeader rebuilds the "@@ -o,ol +n,nl @@ section" line
func hunkHeader(hunk *godiff.Hunk) string {
	header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", hunk.OrigStartLine, hunk.OrigLines, hunk.NewStartLine, hunk.NewLines)
	if hunk.Section != "" {
		header += " " + hunk.Section
	}
	return header
}

// cleanPath removes the a/ or b/ prefix from git diff paths; /dev/null becomes ""
func cleanPath(path string) string {
	if path == "" || path == "/dev/null" {
		return ""
	}
	if strings.HasPrefix(path, "a/") || strings.HasPrefix(path, "b/") {
		return path[2:]
	}
	return path
}

// Parse is a convenience function to parse a git diff string
func Parse(diffContent string) ([]impact.FileDiff, error) {
	return NewGitDiffParser().Parse(diffContent)
}

// EffectivePath returns the most relevant path for a changed file
func EffectivePath(f impact.FileDiff) string {
	if f.NewPath == "" {
		return f.OldPath
	}
	return f.NewPath
}

// Stats counts inserted and deleted lines across files
type Stats struct {
	Files     int `json:"files" yaml:"files"`
	Hunks     int `json:"hunks" yaml:"hunks"`
	Additions int `json:"additions" yaml:"additions"`
	Deletions int `json:"deletions" yaml:"deletions"`
}

// ComputeStats summarizes the size of a parsed diff
func ComputeStats(files []impact.FileDiff) Stats {
	s := Stats{Files: len(files)}
	for _, f := range files {
		s.Hunks += len(f.Hunks)
		for _, h := range f.Hunks {
			for _, c := range h.Changes {
				switch c.Kind {
				case impact.ChangeInsert:
					s.Additions++
				case impact.ChangeDelete:
					s.Deletions++
				}
			}
		}
	}
	return s
}

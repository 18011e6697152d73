package impact

import "fmt"

// MatchingMode describes how references were detected
type MatchingMode string

// MatchingTextual is substring containment over raw file content
const MatchingTextual MatchingMode = "textual"

// AnalysisLimits describes the limitations of the impact analysis
type AnalysisLimits struct {
	Matching MatchingMode `json:"matching" yaml:"matching"` // How references were detected
	Notes    []string     `json:"notes" yaml:"notes"`       // Additional notes about limitations
}

// NewAnalysisLimits creates a new AnalysisLimits with default values
func NewAnalysisLimits() *AnalysisLimits {
	return &AnalysisLimits{
		Matching: MatchingTextual,
		Notes:    make([]string, 0),
	}
}

// AddNote adds a limitation note to the analysis
func (al *AnalysisLimits) AddNote(note string) {
	al.Notes = append(al.Notes, note)
}

// AddNotef adds a formatted limitation note
func (al *AnalysisLimits) AddNotef(format string, args ...interface{}) {
	al.AddNote(fmt.Sprintf(format, args...))
}

// HasLimitations reports whether matching was textual or any note was added
func (al *AnalysisLimits) HasLimitations() bool {
	return al.Matching == MatchingTextual || len(al.Notes) > 0
}

// DescribeIssues adds one note per kind of skipped work
func (al *AnalysisLimits) DescribeIssues(issues []ScanIssue) {
	var dirs, files int
	for _, issue := range issues {
		switch issue.Kind {
		case IssueDirectoryRead:
			dirs++
		case IssueFileRead:
			files++
		}
	}

	if dirs > 0 {
		al.AddNotef("%d director%s could not be read; their files were not scanned", dirs, plural(dirs, "y", "ies"))
	}
	if files > 0 {
		al.AddNotef("%d file%s could not be read and contribute no results", files, plural(files, "", "s"))
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

package impact

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Analyzer runs extraction, scanning, and summarization in order
type Analyzer struct {
	scanner    *TreeScanner
	summarizer *Summarizer
	logger     *slog.Logger
}

// NewAnalyzer creates an Analyzer. A nil summarizer means passthrough.
func NewAnalyzer(scanner *TreeScanner, summarizer *Summarizer, logger *slog.Logger) *Analyzer {
	if summarizer == nil {
		summarizer = &Summarizer{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		scanner:    scanner,
		summarizer: summarizer,
		logger:     logger,
	}
}

// AnalyzeRequest is the input of one analysis run
type AnalyzeRequest struct {
	Files      []FileDiff // Parsed diff
	SourceRoot string     // Directory to scan, already resolved by the caller
}

// AnalysisResult contains the complete results of an analysis run
type AnalysisResult struct {
	Identifiers  []string        // Exported identifiers in first-seen order
	Entries      []AffectedEntry // Files referencing at least one identifier
	Issues       []ScanIssue     // Skipped directories and files
	Summary      []string        // Deduplicated summary values
	Groups       []SummaryGroup  // Summary values with their member paths
	FilesScanned int             // Files read during the scan
	Duration     time.Duration   // Wall time of the run
	Limits       *AnalysisLimits // Limitations of the analysis
}

// Analyze extracts identifiers from req.Files, scans req.SourceRoot for them,
// and summarizes the affected paths. When the diff exports no identifiers the
// scan is skipped.
func (a *Analyzer) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalysisResult, error) {
	if a.scanner == nil {
		return nil, fmt.Errorf("analyzer has no scanner")
	}

	start := time.Now()
	result := &AnalysisResult{
		Entries: make([]AffectedEntry, 0),
		Issues:  make([]ScanIssue, 0),
		Summary: make([]string, 0),
		Groups:  make([]SummaryGroup, 0),
		Limits:  NewAnalysisLimits(),
	}
	result.Limits.AddNote("references are matched by substring; aliased imports are missed and name collisions are reported")

	ids := ExtractIdentifiers(req.Files)
	result.Identifiers = ids.Names()

	a.logger.Info("Extracted exported identifiers",
		"files", len(req.Files),
		"identifiers", ids.Len(),
	)

	if ids.Len() == 0 {
		result.Limits.AddNote("the diff exports no identifiers; the source tree was not scanned")
		result.Duration = time.Since(start)
		return result, nil
	}

	scan, err := a.scanner.Scan(ctx, req.SourceRoot, ids)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", req.SourceRoot, err)
	}

	result.Entries = scan.Entries
	result.Issues = scan.Issues
	result.FilesScanned = scan.FilesScanned
	result.Limits.DescribeIssues(scan.Issues)

	result.Summary = a.summarizer.Summarize(scan.Entries)
	result.Groups = a.summarizer.Group(scan.Entries)
	result.Duration = time.Since(start)

	a.logger.Info("Impact analysis completed",
		"filesScanned", scan.FilesScanned,
		"affected", len(scan.Entries),
		"summary", len(result.Summary),
		"skipped", len(scan.Issues),
		"duration", result.Duration,
	)

	return result, nil
}

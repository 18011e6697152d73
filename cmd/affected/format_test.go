package main

import (
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"affected/internal/diff"
	"affected/internal/errors"
	"affected/internal/impact"
)

func sampleResult() *impact.AnalysisResult {
	limits := impact.NewAnalysisLimits()
	limits.AddNote("references are matched by substring")

	return &impact.AnalysisResult{
		Identifiers: []string{"Button", "formatPrice"},
		Entries: []impact.AffectedEntry{
			{Path: "/repo/src/modules/shop/pages/cart/index.ts", MatchedIdentifiers: []string{"Button", "formatPrice"}},
			{Path: "/repo/src/modules/shop/pages/cart/view.ts", MatchedIdentifiers: []string{"Button"}},
		},
		Issues: []impact.ScanIssue{{
			Path: "/repo/src/locked",
			Kind: impact.IssueDirectoryRead,
			Err:  errors.New(errors.DirectoryReadError, "failed to read directory /repo/src/locked", nil),
		}},
		Summary:      []string{"/repo/src/modules/shop/pages/cart/index.ts", "/repo/src/modules/shop/pages/cart/view.ts"},
		Groups:       []impact.SummaryGroup{},
		FilesScanned: 12,
		Duration:     42 * time.Millisecond,
		Limits:       limits,
	}
}

func sampleReport(t *testing.T, pattern string, relative bool) *ReportCLI {
	t.Helper()
	summarizer, err := impact.NewSummarizer(pattern)
	if err != nil {
		t.Fatal(err)
	}
	return buildReport(reportInput{
		RunID:      "run-1",
		RepoRoot:   "/repo",
		SourceRoot: "/repo/src",
		Ref:        "main",
		Pattern:    summarizer.Pattern(),
		Relative:   relative,
		Stats:      diff.Stats{Files: 1, Hunks: 1, Additions: 2, Deletions: 1},
		Result:     sampleResult(),
		Summarizer: summarizer,
	})
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"human", "json", "yaml", "list", "JSON"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q) error = %v", s, err)
		}
	}

	_, err := ParseFormat("xml")
	if !errors.Is(err, errors.ConfigurationError) {
		t.Errorf("ParseFormat(xml) error = %v, want CONFIGURATION_ERROR", err)
	}
}

func TestBuildReport_Absolute(t *testing.T) {
	r := sampleReport(t, "", false)

	if r.RepositoryPath != "/repo" || r.SourceRoot != "/repo/src" {
		t.Errorf("paths = %q, %q", r.RepositoryPath, r.SourceRoot)
	}
	if r.Affected[0].Path != "/repo/src/modules/shop/pages/cart/index.ts" {
		t.Errorf("Affected[0].Path = %q", r.Affected[0].Path)
	}
	if r.DurationMs != 42 {
		t.Errorf("DurationMs = %d, want 42", r.DurationMs)
	}
	if len(r.Skipped) != 1 {
		t.Fatalf("len(Skipped) = %d, want 1", len(r.Skipped))
	}
	s := r.Skipped[0]
	if s.Code != errors.DirectoryReadError || s.Kind != impact.IssueDirectoryRead {
		t.Errorf("Skipped[0] = %+v", s)
	}
	if s.Message != "failed to read directory /repo/src/locked" {
		t.Errorf("Skipped[0].Message = %q", s.Message)
	}
}

func TestBuildReport_RelativeResummarizes(t *testing.T) {
	r := sampleReport(t, `^src/modules/(.+?)/`, true)

	if r.RepositoryPath != "." || r.SourceRoot != "src" {
		t.Errorf("paths = %q, %q", r.RepositoryPath, r.SourceRoot)
	}
	if r.Affected[1].Path != "src/modules/shop/pages/cart/view.ts" {
		t.Errorf("Affected[1].Path = %q", r.Affected[1].Path)
	}
	if r.Skipped[0].Path != "src/locked" {
		t.Errorf("Skipped[0].Path = %q", r.Skipped[0].Path)
	}

	// The anchored pattern only matches the relative form
	if len(r.Summary) != 1 || r.Summary[0] != "shop" {
		t.Errorf("Summary = %v, want [shop]", r.Summary)
	}
	if len(r.Groups) != 1 || len(r.Groups[0].Paths) != 2 {
		t.Errorf("Groups = %+v", r.Groups)
	}
}

func TestFormatReport_JSON(t *testing.T) {
	out, err := FormatReport(sampleReport(t, "", false), FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{`"runId": "run-1"`, `"commitToCompare": "main"`, `"filesScanned": 12`, `"code": "DIRECTORY_READ_ERROR"`} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON output missing %s", want)
		}
	}
	if strings.Contains(out, "filterPattern") {
		t.Error("empty filterPattern should be omitted")
	}
}

func TestFormatReport_YAML(t *testing.T) {
	out, err := FormatReport(sampleReport(t, "", false), FormatYAML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded ReportCLI
	if err := yaml.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if decoded.RunID != "run-1" || len(decoded.Affected) != 2 {
		t.Errorf("decoded = %+v", decoded)
	}
	if decoded.Limits == nil || decoded.Limits.Matching != impact.MatchingTextual {
		t.Errorf("decoded limits = %+v", decoded.Limits)
	}
}

func TestFormatReport_List(t *testing.T) {
	out, err := FormatReport(sampleReport(t, `^src/modules/(.+?)/`, true), FormatList)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "shop\n" {
		t.Errorf("list output = %q, want %q", out, "shop\n")
	}
}

func TestFormatReport_Human(t *testing.T) {
	out, err := FormatReport(sampleReport(t, `^src/modules/(.+?)/`, true), FormatHuman)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{
		"Compared:   main",
		"Exported identifiers (2):",
		"  src/modules/shop/pages/cart/index.ts  [Button, formatPrice]",
		"Summary (1):\n  shop\n",
		"Skipped (1):\n  src/locked  directory-read: failed to read directory /repo/src/locked",
		"Limitations (textual matching):",
		"Scanned 12 files in 42ms",
	}
	for _, want := range expected {
		if !strings.Contains(out, want) {
			t.Errorf("human output missing %q\n%s", want, out)
		}
	}
}

func TestFormatReport_UnsupportedFormat(t *testing.T) {
	_, err := FormatReport(sampleReport(t, "", false), "xml")
	if err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Errorf("error = %v, want unsupported format", err)
	}
}

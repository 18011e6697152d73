package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"affected/internal/errors"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatHuman OutputFormat = "human"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
	FormatList  OutputFormat = "list"
)

// ParseFormat validates a --format value
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case FormatHuman, FormatJSON, FormatYAML, FormatList:
		return f, nil
	default:
		return "", errors.New(errors.ConfigurationError, fmt.Sprintf("unsupported format: %s", s), nil)
	}
}

// WriteReport renders report to w in the given format
func WriteReport(w io.Writer, report *ReportCLI, format OutputFormat) error {
	out, err := FormatReport(report, format)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// FormatReport formats a report according to the specified format
func FormatReport(report *ReportCLI, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(report)
	case FormatYAML:
		return formatYAML(report)
	case FormatList:
		return formatList(report), nil
	case FormatHuman:
		return formatHuman(report), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data) + "\n", nil
}

func formatYAML(v interface{}) (string, error) {
	var b strings.Builder
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return b.String(), nil
}

// formatList prints one summary value per line
func formatList(report *ReportCLI) string {
	var b strings.Builder
	for _, s := range report.Summary {
		b.WriteString(s)
		b.WriteByte('\n')
	}
	return b.String()
}

func formatHuman(r *ReportCLI) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("affected v%s\n", r.Version))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	b.WriteString(fmt.Sprintf("Repository: %s\n", r.RepositoryPath))
	b.WriteString(fmt.Sprintf("Source:     %s\n", r.SourceRoot))
	if r.CommitToCompare != "" {
		b.WriteString(fmt.Sprintf("Compared:   %s\n", r.CommitToCompare))
	}
	if r.FilterPattern != "" {
		b.WriteString(fmt.Sprintf("Pattern:    %s\n", r.FilterPattern))
	}
	b.WriteString(fmt.Sprintf("Diff:       %d files, +%d -%d\n\n",
		r.Diff.Files, r.Diff.Additions, r.Diff.Deletions))

	if len(r.Identifiers) == 0 {
		b.WriteString("No exported identifiers changed.\n")
	} else {
		b.WriteString(fmt.Sprintf("Exported identifiers (%d):\n", len(r.Identifiers)))
		for _, id := range r.Identifiers {
			b.WriteString("  " + id + "\n")
		}
	}
	b.WriteString("\n")

	if len(r.Affected) > 0 {
		b.WriteString(fmt.Sprintf("Affected files (%d):\n", len(r.Affected)))
		for _, e := range r.Affected {
			b.WriteString(fmt.Sprintf("  %s  [%s]\n", e.Path, strings.Join(e.MatchedIdentifiers, ", ")))
		}
		b.WriteString("\n")
	}

	if r.FilterPattern != "" || len(r.Summary) > 0 {
		b.WriteString(fmt.Sprintf("Summary (%d):\n", len(r.Summary)))
		for _, s := range r.Summary {
			b.WriteString("  " + s + "\n")
		}
		b.WriteString("\n")
	}

	if len(r.Skipped) > 0 {
		b.WriteString(fmt.Sprintf("Skipped (%d):\n", len(r.Skipped)))
		for _, s := range r.Skipped {
			b.WriteString(fmt.Sprintf("  %s  %s: %s\n", s.Path, s.Kind, s.Message))
		}
		b.WriteString("\n")
	}

	if r.Limits != nil && r.Limits.HasLimitations() {
		b.WriteString(fmt.Sprintf("Limitations (%s matching):\n", r.Limits.Matching))
		for _, note := range r.Limits.Notes {
			b.WriteString("  - " + note + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("Scanned %d files in %dms\n", r.FilesScanned, r.DurationMs))
	return b.String()
}

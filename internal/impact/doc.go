// Package impact provides textual change-impact analysis for source trees.
//
// The analysis runs in three steps:
//   - Extract exported identifier names from the hunks of a parsed diff
//   - Scan a source tree for files whose content contains any of those names
//   - Summarize the affected paths, optionally reducing each to a grouping key
//
// Basic usage:
//
//	scanner, err := impact.NewTreeScanner(impact.ScannerOptions{Logger: logger})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// The pattern is compiled up front; bad patterns fail here
//	summarizer, err := impact.NewSummarizer(`modules/(.+?/pages/.+?)/`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	analyzer := impact.NewAnalyzer(scanner, summarizer, logger)
//	result, err := analyzer.Analyze(ctx, impact.AnalyzeRequest{
//	    Files:      files, // from diff.Parse
//	    SourceRoot: "/work/app/src",
//	})
//
// Identifier Extraction:
//
// A hunk's header content and each inserted or deleted line is matched against
// "export (const|interface|type|default) <name>". Only the first declaration in
// a text is taken. Context lines are ignored unless they are the hunk header.
//
// Matching:
//
// Matching is substring containment over raw file content. It is deliberately
// permissive: aliased imports are missed and unrelated text with the same name
// is reported. This is not a dependency graph.
//
// Scanning:
//
// Each directory level processes its entries concurrently and merges their
// results in enumeration order after all of them finish. Unreadable
// directories and files become ScanIssues and never abort the scan.
package impact

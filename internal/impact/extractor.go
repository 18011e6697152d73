package impact

import "regexp"

// whitespace adds vertical tab and Unicode spaces to RE2's ASCII \s
const whitespace = `\s\v\p{Z}\x{FEFF}`

// exportPattern is a textual heuristic, not a declaration parser. The keyword
// match is case-insensitive; the identifier is the run of non-whitespace
// characters after it, captured verbatim.
var exportPattern = regexp.MustCompile(
	`(?i)export[` + whitespace + `](?:const|interface|type|default)[` + whitespace + `]([^` + whitespace + `]*)`,
)

// MatchExport returns the identifier bound by the first export declaration in text.
// Only the first declaration is considered, even when text holds several.
func MatchExport(text string) (string, bool) {
	m := exportPattern.FindStringSubmatch(text)
	if len(m) < 2 || m[1] == "" {
		return "", false
	}
	return m[1], true
}

// ExtractIdentifiers collects exported identifier names from a parsed diff.
//
// For every hunk the header content is checked first, then every inserted or
// deleted line. Context lines are never checked individually. The result is
// deduplicated and ordered by first appearance (files, then hunks, then lines).
func ExtractIdentifiers(files []FileDiff) *IdentifierSet {
	ids := NewIdentifierSet()

	for _, file := range files {
		for _, hunk := range file.Hunks {
			if name, ok := MatchExport(hunk.Content); ok {
				ids.Add(name)
			}

			for _, change := range hunk.Changes {
				if change.Kind == ChangeContext {
					continue
				}
				if name, ok := MatchExport(change.Text); ok {
					ids.Add(name)
				}
			}
		}
	}

	return ids
}

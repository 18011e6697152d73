package impact

// ChangeKind classifies a single line inside a hunk
type ChangeKind string

const (
	ChangeContext ChangeKind = "context" // Unchanged line shown for context
	ChangeInsert  ChangeKind = "insert"  // Line added by the change
	ChangeDelete  ChangeKind = "delete"  // Line removed by the change
)

// LineChange is one line within a hunk
type LineChange struct {
	Kind ChangeKind // Line classification
	Text string     // Line content without the leading diff marker
}

// Hunk is a contiguous changed region of a file
type Hunk struct {
	Content string       // Hunk header line, e.g. "@@ -1,3 +1,4 @@ export const Foo"
	Changes []LineChange // Lines in diff order
}

// FileDiff is one changed file in a diff.
// OldPath and NewPath are parser metadata; the analysis core never reads them.
type FileDiff struct {
	OldPath string
	NewPath string
	Hunks   []Hunk
}

// AffectedEntry is a file that textually references at least one identifier
type AffectedEntry struct {
	Path               string   `json:"path" yaml:"path"`
	MatchedIdentifiers []string `json:"matchedIdentifiers" yaml:"matchedIdentifiers"`
}

// IssueKind classifies a unit of scan work that could not be completed
type IssueKind string

const (
	IssueDirectoryRead IssueKind = "directory-read"
	IssueFileRead      IssueKind = "file-read"
)

// ScanIssue records a directory or file that was skipped during a scan
type ScanIssue struct {
	Path string
	Kind IssueKind
	Err  error
}

// ScanResult is the aggregated outcome of a tree scan
type ScanResult struct {
	Entries      []AffectedEntry // Files containing at least one identifier
	Issues       []ScanIssue     // Skipped directories and files
	FilesScanned int             // Files whose content was read and matched
}

// IdentifierSet is an insertion-ordered set of identifier names.
// Membership is case-sensitive exact string equality.
type IdentifierSet struct {
	names []string
	index map[string]struct{}
}

// NewIdentifierSet creates a set holding names in first-seen order
func NewIdentifierSet(names ...string) *IdentifierSet {
	s := &IdentifierSet{
		names: make([]string, 0, len(names)),
		index: make(map[string]struct{}, len(names)),
	}
	for _, name := range names {
		s.Add(name)
	}
	return s
}

// Add inserts name and reports whether it was not already present
func (s *IdentifierSet) Add(name string) bool {
	if _, ok := s.index[name]; ok {
		return false
	}
	s.index[name] = struct{}{}
	s.names = append(s.names, name)
	return true
}

// Contains reports whether name is in the set
func (s *IdentifierSet) Contains(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[name]
	return ok
}

// Len returns the number of identifiers
func (s *IdentifierSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Names returns a copy of the identifiers in first-seen order
func (s *IdentifierSet) Names() []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

package impact

import (
	"regexp"

	"affected/internal/errors"
)

// Summarizer reduces affected paths to grouping keys
type Summarizer struct {
	pattern *regexp.Regexp // nil means passthrough
}

// SummaryGroup is one summary key with the paths and identifiers that produced it
type SummaryGroup struct {
	Key         string   `json:"key" yaml:"key"`
	Paths       []string `json:"paths" yaml:"paths"`
	Identifiers []string `json:"identifiers" yaml:"identifiers"`
}

// NewSummarizer compiles pattern up front. An empty pattern yields a passthrough
// summarizer. A pattern that does not compile, or has no capturing group, is a
// PatternError.
func NewSummarizer(pattern string) (*Summarizer, error) {
	if pattern == "" {
		return &Summarizer{}, nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.New(errors.PatternError, "invalid filter pattern", err).
			WithDetails(map[string]string{"pattern": pattern})
	}
	if re.NumSubexp() < 1 {
		return nil, errors.New(errors.PatternError, "filter pattern has no capturing group", nil).
			WithDetails(map[string]string{"pattern": pattern})
	}

	return &Summarizer{pattern: re}, nil
}

// Pattern returns the source pattern, or "" for a passthrough summarizer
func (s *Summarizer) Pattern() string {
	if s.pattern == nil {
		return ""
	}
	return s.pattern.String()
}

// Key returns the summary value for one path. With no pattern the path is its
// own key. Otherwise the key is the first capturing group; a failed match or an
// empty group yields no key.
func (s *Summarizer) Key(path string) (string, bool) {
	if s.pattern == nil {
		return path, path != ""
	}

	m := s.pattern.FindStringSubmatch(path)
	if len(m) < 2 || m[1] == "" {
		return "", false
	}
	return m[1], true
}

// Summarize returns the deduplicated summary values of the entries' paths in
// first-occurrence order.
func (s *Summarizer) Summarize(entries []AffectedEntry) []string {
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return s.SummarizePaths(paths)
}

// SummarizePaths is Summarize over raw paths
func (s *Summarizer) SummarizePaths(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))

	for _, path := range paths {
		key, ok := s.Key(path)
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}

	return out
}

// Group buckets entries by summary key. Groups appear in first-occurrence
// order; each group lists its member paths and the union of their matched
// identifiers, both in first-occurrence order.
func (s *Summarizer) Group(entries []AffectedEntry) []SummaryGroup {
	groups := make([]SummaryGroup, 0)
	byKey := make(map[string]int)
	seenIDs := make(map[string]map[string]struct{})

	for _, e := range entries {
		key, ok := s.Key(e.Path)
		if !ok {
			continue
		}

		idx, exists := byKey[key]
		if !exists {
			idx = len(groups)
			byKey[key] = idx
			groups = append(groups, SummaryGroup{Key: key, Paths: []string{}, Identifiers: []string{}})
			seenIDs[key] = make(map[string]struct{})
		}

		g := &groups[idx]
		g.Paths = append(g.Paths, e.Path)
		for _, id := range e.MatchedIdentifiers {
			if _, dup := seenIDs[key][id]; dup {
				continue
			}
			seenIDs[key][id] = struct{}{}
			g.Identifiers = append(g.Identifiers, id)
		}
	}

	return groups
}

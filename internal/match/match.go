// Package match resolves free-text performance labels against the leaves of
// a performance catalog.
//
// Strategies run in order and the first one that finds anything decides the
// outcome: exact name, name prefix, name without its "P<n> - " prefix
// (equal, then contained either way), and finally edit-distance similarity.
// A stage that finds several candidates ends the cascade with an ambiguous
// result that the caller resolves.
package match

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"pavecraft/internal/network"
)

type Strategy string

const (
	StrategyExact  Strategy = "exact"
	StrategyPrefix Strategy = "prefix"
	StrategyName   Strategy = "name"
	StrategyFuzzy  Strategy = "fuzzy"
	StrategyNone   Strategy = "none"
)

const (
	DefaultFuzzyThreshold = 0.7
	DefaultFuzzyMargin    = 0.1

	// scoreEpsilon absorbs float error when comparing the lead margin.
	scoreEpsilon = 1e-9
)

type Config struct {
	// FuzzyThreshold is the lowest similarity a fuzzy candidate may have.
	FuzzyThreshold float64
	// FuzzyMargin is the lead the best fuzzy candidate needs over the
	// runner-up to be accepted on its own.
	FuzzyMargin float64
}

func DefaultConfig() Config {
	return Config{FuzzyThreshold: DefaultFuzzyThreshold, FuzzyMargin: DefaultFuzzyMargin}
}

type Result struct {
	InputLabel string                `json:"inputLabel"`
	Matched    *network.Performance  `json:"matchedPerformance"`
	Candidates []network.Performance `json:"candidates"`
	Strategy   Strategy              `json:"matchType"`
}

// Ambiguous reports whether the label is waiting for a caller decision.
func (r Result) Ambiguous() bool {
	return r.Matched == nil && len(r.Candidates) > 0
}

// Resolved reports whether the label was matched to exactly one entry.
func (r Result) Resolved() bool {
	return r.Matched != nil
}

type Matcher struct {
	cfg    Config
	leaves []network.Performance
}

// New prepares a matcher over the leaves of catalog. Zero config fields
// take their defaults.
func New(catalog []network.Performance, cfg Config) *Matcher {
	if cfg.FuzzyThreshold <= 0 {
		cfg.FuzzyThreshold = DefaultFuzzyThreshold
	}
	if cfg.FuzzyMargin <= 0 {
		cfg.FuzzyMargin = DefaultFuzzyMargin
	}
	return &Matcher{cfg: cfg, leaves: network.Leaves(catalog)}
}

func (m *Matcher) Match(label string) Result {
	trimmed := strings.TrimSpace(label)
	query := strings.ToLower(trimmed)

	if found := m.filter(func(p network.Performance) bool {
		return fullName(p) == query
	}); len(found) > 0 {
		return decide(trimmed, found, StrategyExact)
	}

	if found := m.filter(func(p network.Performance) bool {
		return strings.HasPrefix(fullName(p), query)
	}); len(found) > 0 {
		return decide(trimmed, found, StrategyPrefix)
	}

	if found := m.filter(func(p network.Performance) bool {
		return shortName(p) == query
	}); len(found) > 0 {
		return decide(trimmed, found, StrategyName)
	}

	if found := m.filter(func(p network.Performance) bool {
		name := shortName(p)
		return strings.Contains(name, query) || strings.Contains(query, name)
	}); len(found) > 0 {
		return decide(trimmed, found, StrategyName)
	}

	return m.fuzzy(trimmed, query)
}

type scored struct {
	perf       network.Performance
	similarity float64
}

func (m *Matcher) fuzzy(trimmed, query string) Result {
	var survivors []scored
	for _, p := range m.leaves {
		similarity := max(Similarity(query, fullName(p)), Similarity(query, shortName(p)))
		if similarity >= m.cfg.FuzzyThreshold {
			survivors = append(survivors, scored{perf: p, similarity: similarity})
		}
	}
	sort.SliceStable(survivors, func(i, j int) bool {
		return survivors[i].similarity > survivors[j].similarity
	})

	switch len(survivors) {
	case 0:
		return Result{InputLabel: trimmed, Candidates: []network.Performance{}, Strategy: StrategyNone}
	case 1:
		best := survivors[0].perf
		return Result{InputLabel: trimmed, Matched: &best, Candidates: []network.Performance{}, Strategy: StrategyFuzzy}
	}

	candidates := make([]network.Performance, len(survivors))
	for i, s := range survivors {
		candidates[i] = s.perf
	}
	result := Result{InputLabel: trimmed, Candidates: candidates, Strategy: StrategyFuzzy}
	if survivors[0].similarity-survivors[1].similarity+scoreEpsilon >= m.cfg.FuzzyMargin {
		best := survivors[0].perf
		result.Matched = &best
	}
	return result
}

func (m *Matcher) filter(keep func(network.Performance) bool) []network.Performance {
	var found []network.Performance
	for _, p := range m.leaves {
		if keep(p) {
			found = append(found, p)
		}
	}
	return found
}

func decide(label string, found []network.Performance, strategy Strategy) Result {
	if len(found) == 1 {
		matched := found[0]
		return Result{InputLabel: label, Matched: &matched, Candidates: []network.Performance{}, Strategy: strategy}
	}
	return Result{InputLabel: label, Candidates: found, Strategy: strategy}
}

// Similarity is 1 - distance/maxLen over runes, where distance is the
// Levenshtein edit distance. Two empty strings are identical.
func Similarity(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la == 0 && lb == 0 {
		return 1
	}
	if la == 0 || lb == 0 {
		return 0
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(max(la, lb))
}

func fullName(p network.Performance) string {
	return strings.ToLower(strings.TrimSpace(p.Name))
}

func shortName(p network.Performance) string {
	return strings.ToLower(p.ShortName())
}

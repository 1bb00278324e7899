// Package fuzzy ranks names by similarity to a query, for "did you mean"
// suggestions when a lookup misses.
package fuzzy

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// SearchResult represents a fuzzy search match with its score.
type SearchResult struct {
	Item  string `json:"item"`
	Score int    `json:"score"`
	Index int    `json:"-"`
}

// SearchOptions configures fuzzy search behavior.
type SearchOptions struct {
	// CaseSensitive enables case-sensitive matching
	CaseSensitive bool
	// MaxResults limits the number of results returned (0 = unlimited)
	MaxResults int
	// MinScore sets minimum score threshold (0-100)
	MinScore int
}

// DefaultSearchOptions returns sensible default search options.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		CaseSensitive: false,
		MaxResults:    5,
		MinScore:      50,
	}
}

// Search scores every item against the query and returns matches sorted by
// score (highest first), ties broken by original position.
func Search(query string, items []string, options SearchOptions) []SearchResult {
	query = strings.TrimSpace(query)
	if !options.CaseSensitive {
		query = strings.ToLower(query)
	}

	results := make([]SearchResult, 0)
	for i, item := range items {
		compareItem := item
		if !options.CaseSensitive {
			compareItem = strings.ToLower(item)
		}

		score := Score(query, compareItem)
		if score >= options.MinScore {
			results = append(results, SearchResult{Item: item, Score: score, Index: i})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Index < results[j].Index
	})

	if options.MaxResults > 0 && len(results) > options.MaxResults {
		results = results[:options.MaxResults]
	}
	return results
}

// Score returns a similarity between 0 and 100. Exact matches score 100,
// prefixes 90, substrings 80 or more depending on coverage; everything else
// falls back to edit distance.
func Score(query, target string) int {
	if query == target {
		return 100
	}
	if query == "" || target == "" {
		return 0
	}

	if strings.HasPrefix(target, query) {
		return 90
	}
	if strings.Contains(target, query) {
		return 80 + len(query)*10/len(target)
	}

	distance := levenshtein.ComputeDistance(query, target)
	maxLen := max(len([]rune(query)), len([]rune(target)))
	similarity := 100 - distance*100/maxLen
	if similarity < 0 {
		return 0
	}
	return similarity
}

// Items extracts the matched strings.
func Items(results []SearchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Item
	}
	return out
}

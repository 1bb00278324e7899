package fuzzy

import (
	"testing"
)

func TestScore(t *testing.T) {
	tests := []struct {
		query, target string
		min, max      int
	}{
		{"pikachu", "pikachu", 100, 100},
		{"pika", "pikachu", 90, 90},
		{"chu", "pikachu", 80, 89},
		{"pikachuu", "pikachu", 50, 99},
		{"zzzz", "pikachu", 0, 49},
		{"", "pikachu", 0, 0},
	}

	for _, tt := range tests {
		got := Score(tt.query, tt.target)
		if got < tt.min || got > tt.max {
			t.Errorf("Score(%q, %q) = %d, want between %d and %d", tt.query, tt.target, got, tt.min, tt.max)
		}
	}
}

func TestSearch(t *testing.T) {
	items := []string{"Charmander", "Charmeleon", "Charizard", "Squirtle"}

	results := Search("charmelon", items, DefaultSearchOptions())
	if len(results) == 0 {
		t.Fatal("Expected at least one result")
	}
	if results[0].Item != "Charmeleon" {
		t.Errorf("Expected Charmeleon first, got %s", results[0].Item)
	}
	if results[0].Index != 1 {
		t.Errorf("Expected index 1, got %d", results[0].Index)
	}
}

func TestSearch_MaxResults(t *testing.T) {
	items := []string{"Charmander", "Charmeleon", "Charizard"}

	results := Search("char", items, SearchOptions{MaxResults: 2, MinScore: 50})
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	// Equal scores keep input order.
	if results[0].Item != "Charmander" || results[1].Item != "Charmeleon" {
		t.Errorf("Expected input order for ties, got %v", Items(results))
	}
}

func TestSearch_MinScore(t *testing.T) {
	results := Search("xyz", []string{"Bulbasaur"}, DefaultSearchOptions())
	if len(results) != 0 {
		t.Errorf("Expected no results, got %v", Items(results))
	}
}

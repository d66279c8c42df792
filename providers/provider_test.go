package providers

import (
	"reflect"
	"testing"

	"platepick_server/models"
)

func TestExpandCuisinesSynonyms(t *testing.T) {
	got := expandCuisines(googleSynonyms, []string{"japanese"}, 6)
	want := []string{"japanese", "sushi", "ramen", "izakaya"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExpandCuisinesCap(t *testing.T) {
	got := expandCuisines(googleSynonyms, []string{"chinese", "japanese", "mexican"}, 6)
	if len(got) != 6 {
		t.Errorf("expansion should cap at 6, got %d: %v", len(got), got)
	}
}

func TestExpandCuisinesUnknownTermPassesThrough(t *testing.T) {
	got := expandCuisines(googleSynonyms, []string{"ethiopian"}, 6)
	if !reflect.DeepEqual(got, []string{"ethiopian"}) {
		t.Errorf("unknown terms should pass through unchanged, got %v", got)
	}
}

func TestExpandCuisinesDedupes(t *testing.T) {
	got := expandCuisines(googleSynonyms, []string{"korean", "bbq"}, 6)
	seen := map[string]int{}
	for _, term := range got {
		seen[term]++
	}
	if seen["korean bbq"] != 1 {
		t.Errorf("shared synonym should appear once, got %v", got)
	}
}

func TestDedupeByProviderID(t *testing.T) {
	list := []models.Place{
		{ProviderID: "a", Name: "First"},
		{ProviderID: "a", Name: "Duplicate"},
		{ProviderID: "b", Name: "Other"},
	}
	out := dedupeByProviderID(list)
	if len(out) != 2 {
		t.Fatalf("got %d places, want 2", len(out))
	}
	if out[0].Name != "First" {
		t.Errorf("first occurrence should win, got %q", out[0].Name)
	}
}

package services

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"testing"

	"platepick_server/config"
	"platepick_server/models"
)

func TestFilterByPreferencesPriceBand(t *testing.T) {
	places := []models.Place{
		{Name: "Cheap Eats", PriceLevel: 1},
		{Name: "Mid Range", PriceLevel: 2},
		{Name: "Fancy", PriceLevel: 3},
		{Name: "No Price", PriceLevel: 0},
	}

	out := FilterByPreferences(places, FilterOptions{PriceMin: 2, PriceMax: 2})
	if len(out) != 2 {
		t.Fatalf("got %d places, want 2", len(out))
	}
	if out[0].Name != "Mid Range" {
		t.Errorf("in-band place should survive, got %q", out[0].Name)
	}
	if out[1].Name != "No Price" {
		t.Errorf("undeclared price should never be excluded, got %q", out[1].Name)
	}
}

func TestFilterByPreferencesNoConstraints(t *testing.T) {
	places := []models.Place{{Name: "A", PriceLevel: 1}, {Name: "B", PriceLevel: 4}}
	if out := FilterByPreferences(places, FilterOptions{}); len(out) != 2 {
		t.Errorf("no constraints should keep everything, got %d", len(out))
	}
}

func TestWeightByFavoritesNoFavorites(t *testing.T) {
	places := []models.Place{{Name: "A", Rating: 4.8}, {Name: "B", Rating: 3.0}}
	out := WeightByFavorites(places, nil, config.DefaultRankingWeights())
	for _, p := range out {
		if p.Weight != 1.0 {
			t.Errorf("%s: got weight %v, want base 1.0", p.Name, p.Weight)
		}
	}
}

func TestWeightByFavoritesCuisineAffinity(t *testing.T) {
	favorites := []models.Place{
		{Name: "Thai Basil", Cuisines: []string{"thai"}, PriceLevel: 2},
		{Name: "Bangkok Garden", Cuisines: []string{"thai"}, PriceLevel: 2},
	}
	places := []models.Place{
		{Name: "Thai Spoon", Cuisines: []string{"thai"}, PriceLevel: 2, Rating: 4.0},
		{Name: "Pasta Casa", Cuisines: []string{"italian"}, PriceLevel: 2, Rating: 4.0},
	}

	out := WeightByFavorites(places, favorites, config.DefaultRankingWeights())
	if out[0].Weight <= out[1].Weight {
		t.Errorf("favorited cuisine should outrank: thai %.2f vs italian %.2f", out[0].Weight, out[1].Weight)
	}
	// thai: 1 + 2*0.5 cuisine + 1 price match + 0.5*0.2 rating
	want := 1 + 1.0 + 1.0 + 0.1
	if math.Abs(out[0].Weight-want) > 1e-9 {
		t.Errorf("thai weight: got %v, want %v", out[0].Weight, want)
	}
}

func TestWeightByFavoritesPriceDistance(t *testing.T) {
	favorites := []models.Place{{Name: "Fav", Cuisines: []string{"sushi"}, PriceLevel: 2}}
	places := []models.Place{
		{Name: "Same Price", PriceLevel: 2},
		{Name: "Far Price", PriceLevel: 4},
	}
	out := WeightByFavorites(places, favorites, config.DefaultRankingWeights())
	if out[0].Weight <= out[1].Weight {
		t.Errorf("closer price should score higher: %.2f vs %.2f", out[0].Weight, out[1].Weight)
	}
}

func TestFeatureSimilarity(t *testing.T) {
	a := models.FeatureVector{Cuisines: []string{"thai", "noodles"}, Price: 2, TimeOfDay: "dinner"}

	if got := FeatureSimilarity(a, a); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("identical vectors: got %v, want 1.0", got)
	}

	b := models.FeatureVector{Cuisines: []string{"italian"}, Price: 2, TimeOfDay: "lunch"}
	got := FeatureSimilarity(a, b)
	// overlap 0/2, price 1.0, time mismatch 0 -> 1/3
	if math.Abs(got-1.0/3) > 1e-9 {
		t.Errorf("disjoint cuisines: got %v, want 1/3", got)
	}

	if got := FeatureSimilarity(models.FeatureVector{}, models.FeatureVector{}); got != 0 {
		t.Errorf("empty vectors: got %v, want 0", got)
	}
}

func TestPlaceFeaturesDefaultsPrice(t *testing.T) {
	f := PlaceFeatures(models.Place{Name: "A"}, "dinner")
	if f.Price != 2 {
		t.Errorf("undeclared price should default to 2, got %d", f.Price)
	}
	if f.SchemaVersion != models.FeatureSchemaVersion {
		t.Errorf("schema version: got %d, want %d", f.SchemaVersion, models.FeatureSchemaVersion)
	}
}

func TestScoreByInteractions(t *testing.T) {
	w := config.DefaultRankingWeights()
	places := []models.Place{
		{Name: "Thai Spoon", Cuisines: []string{"thai"}, PriceLevel: 2, Weight: 1},
		{Name: "Pasta Casa", Cuisines: []string{"italian"}, PriceLevel: 2, Weight: 1},
	}
	interactions := []models.Interaction{
		{Label: models.LabelPositive, Features: models.FeatureVector{Cuisines: []string{"thai"}, Price: 2, TimeOfDay: "dinner"}},
		{Label: models.LabelNegative, Features: models.FeatureVector{Cuisines: []string{"italian"}, Price: 2, TimeOfDay: "dinner"}},
	}

	out := ScoreByInteractions(places, interactions, "dinner", w)
	if out[0].Weight <= 1 {
		t.Errorf("positive history should raise the thai weight, got %v", out[0].Weight)
	}
	if out[1].Weight >= 1 {
		t.Errorf("negative history should lower the italian weight, got %v", out[1].Weight)
	}
}

func TestScoreByInteractionsNoHistory(t *testing.T) {
	places := []models.Place{{Name: "A", Weight: 1.5}}
	out := ScoreByInteractions(places, nil, "dinner", config.DefaultRankingWeights())
	if out[0].Weight != 1.5 {
		t.Errorf("no history should leave weights alone, got %v", out[0].Weight)
	}
}

func TestSortWithJitterZeroJitterIsDeterministic(t *testing.T) {
	places := []models.Place{
		{Name: "Low", Weight: 1.0},
		{Name: "High", Weight: 2.0},
		{Name: "Mid", Weight: 1.5},
	}
	out := SortWithJitter(places, 0, rand.New(rand.NewSource(1)))
	want := []string{"High", "Mid", "Low"}
	for i, name := range want {
		if out[i].Name != name {
			t.Errorf("position %d: got %q, want %q", i, out[i].Name, name)
		}
	}
}

func TestSortWithJitterBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	places := []models.Place{{Name: "A", Weight: 1.0}}
	for i := 0; i < 100; i++ {
		out := SortWithJitter(places, 0.15, rng)
		if math.Abs(out[0].Weight-1.0) > 0.15 {
			t.Fatalf("jitter exceeded its bound: %v", out[0].Weight)
		}
	}
}

func TestSortWithJitterGapSurvivesJitter(t *testing.T) {
	// A 1.0 weight gap cannot be bridged by ±0.15 jitter.
	rng := rand.New(rand.NewSource(42))
	places := []models.Place{
		{Name: "Weak", Weight: 1.0},
		{Name: "Strong", Weight: 2.0},
	}
	for i := 0; i < 50; i++ {
		out := SortWithJitter(places, 0.15, rng)
		if out[0].Name != "Strong" {
			t.Fatalf("jitter flipped a decisive gap on run %d", i)
		}
	}
}

func TestRankForUserConcurrentRequests(t *testing.T) {
	rs := NewRecommendationService(nil, config.DefaultRankingWeights())
	places := []models.Place{
		{Name: "Thai Spoon", Weight: 1.2},
		{Name: "Pasta Casa", Weight: 1.0},
	}

	// Anonymous ranking still draws jitter; concurrent handlers share the
	// service's generator, so this must be safe under the race detector.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				ranked := rs.RankForUser(context.Background(), "", places, "lunch")
				if len(ranked) != 2 {
					t.Errorf("got %d places, want 2", len(ranked))
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestBuildReasons(t *testing.T) {
	place := models.Place{
		Name:     "Thai Spoon",
		Rating:   4.5,
		Cuisines: []string{"thai"},
	}
	prefs := &models.UserPreferences{PreferredCuisines: []string{"thai", "mexican"}}
	favorites := []models.Place{{Name: "Bangkok Garden", Cuisines: []string{"thai"}}}
	pattern := &models.UserPattern{TimeOfDay: "dinner", TopCuisines: []string{"thai"}}

	reasons := BuildReasons(place, prefs, favorites, pattern)
	want := []string{
		"Matches your thai preference",
		"Highly rated",
		"Similar to your favorites",
		"Matches your usual dinner choice",
	}
	if len(reasons) != len(want) {
		t.Fatalf("got %d reasons %v, want %d", len(reasons), reasons, len(want))
	}
	for i, r := range want {
		if reasons[i] != r {
			t.Errorf("reason %d: got %q, want %q", i, reasons[i], r)
		}
	}
}

func TestBuildReasonsEmpty(t *testing.T) {
	place := models.Place{Name: "Plain Diner", Rating: 3.9, Cuisines: []string{"american"}}
	if reasons := BuildReasons(place, nil, nil, nil); len(reasons) != 0 {
		t.Errorf("no signals should yield no reasons, got %v", reasons)
	}
}

func TestBuildReasonsRatingThreshold(t *testing.T) {
	below := models.Place{Name: "A", Rating: 4.2}
	if reasons := BuildReasons(below, nil, nil, nil); len(reasons) != 0 {
		t.Errorf("4.2 should not be highly rated, got %v", reasons)
	}
	at := models.Place{Name: "B", Rating: 4.3}
	reasons := BuildReasons(at, nil, nil, nil)
	if len(reasons) != 1 || reasons[0] != "Highly rated" {
		t.Errorf("4.3 should be highly rated, got %v", reasons)
	}
}

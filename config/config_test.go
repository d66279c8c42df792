package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("port: got %q, want 8080", cfg.Port)
	}
	if cfg.PrimaryProvider != "google" {
		t.Errorf("provider: got %q, want google", cfg.PrimaryProvider)
	}
	if cfg.MaxCuisinePhrases != 6 {
		t.Errorf("max phrases: got %d, want 6", cfg.MaxCuisinePhrases)
	}
	if !cfg.OSMFallbackOn {
		t.Error("OSM fallback should default on")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PROVIDER", "yelp")
	t.Setenv("OSM_FALLBACK", "0")
	t.Setenv("RANK_JITTER", "0.25")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("port: got %q, want 9090", cfg.Port)
	}
	if cfg.PrimaryProvider != "yelp" {
		t.Errorf("provider: got %q, want yelp", cfg.PrimaryProvider)
	}
	if cfg.OSMFallbackOn {
		t.Error("OSM_FALLBACK=0 should disable the fallback")
	}
	if cfg.Ranking.Jitter != 0.25 {
		t.Errorf("jitter: got %v, want 0.25", cfg.Ranking.Jitter)
	}
}

func TestRankingWeightDefaults(t *testing.T) {
	w := DefaultRankingWeights()
	if w.CuisineBoost != 0.5 || w.PriceDecay != 0.3 || w.RatingBoost != 0.2 {
		t.Errorf("unexpectedly tuned defaults: %+v", w)
	}
	if w.PositiveWeight != 0.3 || w.NegativeWeight != 0.2 || w.Jitter != 0.15 {
		t.Errorf("unexpectedly tuned defaults: %+v", w)
	}
}

func TestGetEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("PROVIDER_TIMEOUT_MS", "not-a-number")
	cfg := Load()
	if cfg.ProviderTimeout.Milliseconds() != 10000 {
		t.Errorf("garbage env should fall back to the default, got %v", cfg.ProviderTimeout)
	}
}

package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"platepick_server/models"
	"platepick_server/utils"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// PatternService mines a user's decision history into recurring
// (day-of-week, time-of-day) habits consumed by reason generation.
type PatternService struct {
	Dynamo  *DynamoService
	History *HistoryService
}

// BuildPatterns groups selected decisions into pattern buckets. A bucket is
// emitted only once it holds at least three occurrences; it carries the five
// most frequent cuisines, the mean of the historical price bounds, and a
// confidence of min(count/10, 1.0).
func BuildPatterns(userID string, decisions []models.Decision, now time.Time) []models.UserPattern {
	type bucket struct {
		dayOfWeek string
		timeOfDay string
		cuisines  map[string]int
		priceMins []int
		priceMaxs []int
		count     int
	}

	buckets := make(map[string]*bucket)
	var order []string
	for _, d := range decisions {
		// Only explicit selections mine; the pick path records shown rows
		// and nothing writes selected yet.
		if d.Action != models.InteractionSelected {
			continue
		}
		key := utils.PatternKey(d.DayOfWeek, d.TimeOfDay)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{dayOfWeek: d.DayOfWeek, timeOfDay: d.TimeOfDay, cuisines: make(map[string]int)}
			buckets[key] = b
			order = append(order, key)
		}
		b.count++
		for _, c := range d.FiltersApplied.Cuisines {
			b.cuisines[c]++
		}
		if d.FiltersApplied.PriceMin > 0 || d.FiltersApplied.PriceMax > 0 {
			min := d.FiltersApplied.PriceMin
			if min == 0 {
				min = 1
			}
			max := d.FiltersApplied.PriceMax
			if max == 0 {
				max = 4
			}
			b.priceMins = append(b.priceMins, min)
			b.priceMaxs = append(b.priceMaxs, max)
		}
	}

	var patterns []models.UserPattern
	for _, key := range order {
		b := buckets[key]
		if b.count < models.PatternMinOccurrences {
			continue
		}

		patterns = append(patterns, models.UserPattern{
			UserID:       userID,
			PatternKey:   key,
			DayOfWeek:    b.dayOfWeek,
			TimeOfDay:    b.timeOfDay,
			TopCuisines:  topCuisines(b.cuisines, 5),
			AvgPriceMin:  meanOr(b.priceMins, 1),
			AvgPriceMax:  meanOr(b.priceMaxs, 4),
			Frequency:    b.count,
			Confidence:   math.Min(float64(b.count)/10, 1.0),
			LastOccurred: now.UTC().Format(time.RFC3339),
		})
	}
	return patterns
}

func topCuisines(counts map[string]int, n int) []string {
	type entry struct {
		cuisine string
		count   int
	}
	entries := make([]entry, 0, len(counts))
	for c, cnt := range counts {
		entries = append(entries, entry{c, cnt})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].cuisine < entries[j].cuisine
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.cuisine
	}
	return out
}

func meanOr(values []int, fallback float64) float64 {
	if len(values) == 0 {
		return fallback
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

// MinePatterns recomputes the user's pattern buckets from the last 100
// selected decisions and upserts each qualifying bucket wholesale, with the
// stored frequency incrementing on re-mining.
func (ps *PatternService) MinePatterns(ctx context.Context, userID string) error {
	decisions, err := ps.History.RecentDecisions(ctx, userID, 100)
	if err != nil {
		return fmt.Errorf("failed to load decision history: %w", err)
	}
	if len(decisions) == 0 {
		return nil
	}

	now := time.Now()
	for _, pattern := range BuildPatterns(userID, decisions, now) {
		if err := ps.upsertPattern(ctx, pattern); err != nil {
			return err
		}
	}
	return nil
}

func (ps *PatternService) upsertPattern(ctx context.Context, p models.UserPattern) error {
	cuisines := make([]types.AttributeValue, len(p.TopCuisines))
	for i, c := range p.TopCuisines {
		cuisines[i] = StringAttr(c)
	}

	// Bucket fields are superseded wholesale; frequency alone carries over,
	// seeded with the mined count on first write and incremented afterwards.
	update := `SET dayOfWeek = :day, timeOfDay = :tod, topCuisines = :cuisines,
		avgPriceMin = :pmin, avgPriceMax = :pmax, confidence = :conf,
		lastOccurred = :seen, frequency = if_not_exists(frequency, :seed) + :inc`

	return ps.Dynamo.UpdateItem(ctx, models.UserPatternsTable, update,
		map[string]types.AttributeValue{
			"userId":     StringAttr(p.UserID),
			"patternKey": StringAttr(p.PatternKey),
		},
		map[string]types.AttributeValue{
			":day":      StringAttr(p.DayOfWeek),
			":tod":      StringAttr(p.TimeOfDay),
			":cuisines": &types.AttributeValueMemberL{Value: cuisines},
			":pmin":     NumberAttr(fmt.Sprintf("%g", p.AvgPriceMin)),
			":pmax":     NumberAttr(fmt.Sprintf("%g", p.AvgPriceMax)),
			":conf":     NumberAttr(fmt.Sprintf("%g", p.Confidence)),
			":seen":     StringAttr(p.LastOccurred),
			":seed":     NumberAttr(fmt.Sprintf("%d", p.Frequency-1)),
			":inc":      NumberAttr("1"),
		}, nil)
}

// GetPatterns returns all mined patterns for a user, highest confidence
// first.
func (ps *PatternService) GetPatterns(ctx context.Context, userID string) ([]models.UserPattern, error) {
	var patterns []models.UserPattern
	err := ps.Dynamo.QueryItems(ctx, models.UserPatternsTable, "userId = :uid",
		map[string]types.AttributeValue{":uid": StringAttr(userID)}, &patterns)
	if err != nil {
		return nil, err
	}
	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].Confidence != patterns[j].Confidence {
			return patterns[i].Confidence > patterns[j].Confidence
		}
		return patterns[i].Frequency > patterns[j].Frequency
	})
	return patterns, nil
}

// CurrentPattern looks up the user's pattern for the present day/time
// bucket, or nil when none is mined.
func (ps *PatternService) CurrentPattern(ctx context.Context, userID string, now time.Time) (*models.UserPattern, error) {
	key := utils.PatternKey(utils.DayOfWeek(now), utils.TimeOfDay(now))
	var pattern models.UserPattern
	err := ps.Dynamo.GetItem(ctx, models.UserPatternsTable, map[string]types.AttributeValue{
		"userId":     StringAttr(userID),
		"patternKey": StringAttr(key),
	}, &pattern)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pattern, nil
}

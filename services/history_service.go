package services

import (
	"context"
	"fmt"
	"time"

	"platepick_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// HistoryService records the append-only side of the pipeline: decision
// history, interaction records, favorites, dislikes and session exclusions.
// These writes are best-effort collaterals of the suggestion path; callers
// log and swallow failures rather than blocking a response on them.
type HistoryService struct {
	Dynamo *DynamoService
}

// SessionExclusionTTL is how long a "not right now" sticks to a session.
const SessionExclusionTTL = 24 * time.Hour

func historySortKey(now time.Time) string {
	return now.UTC().Format(time.RFC3339) + "#" + uuid.NewString()
}

// RecordDecision appends one decision history entry.
func (hs *HistoryService) RecordDecision(ctx context.Context, d models.Decision) error {
	now := time.Now()
	d.SortKey = historySortKey(now)
	d.CreatedAt = now.UTC().Format(time.RFC3339)
	return hs.Dynamo.PutItem(ctx, models.DecisionHistoryTable, d)
}

// RecordInteraction appends one interaction record.
func (hs *HistoryService) RecordInteraction(ctx context.Context, userID, placeKey, kind, label string, features models.FeatureVector) error {
	now := time.Now()
	features.SchemaVersion = models.FeatureSchemaVersion
	rec := models.Interaction{
		UserID:    userID,
		SortKey:   historySortKey(now),
		PlaceKey:  placeKey,
		Kind:      kind,
		Label:     label,
		Features:  features,
		CreatedAt: now.UTC().Format(time.RFC3339),
	}
	return hs.Dynamo.PutItem(ctx, models.InteractionsTable, rec)
}

// RecordFavorite upserts a favorite and appends the positive interaction.
func (hs *HistoryService) RecordFavorite(ctx context.Context, userID, placeKey string) error {
	fav := models.Favorite{
		UserID:    userID,
		PlaceKey:  placeKey,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := hs.Dynamo.PutItem(ctx, models.FavoritesTable, fav); err != nil {
		return err
	}
	return hs.RecordInteraction(ctx, userID, placeKey, models.InteractionFavorited, models.LabelPositive, models.FeatureVector{})
}

// RemoveFavorite deletes a favorite. The interaction history keeps the
// original signal; history rows are never deleted.
func (hs *HistoryService) RemoveFavorite(ctx context.Context, userID, placeKey string) error {
	return hs.Dynamo.DeleteItem(ctx, models.FavoritesTable, map[string]types.AttributeValue{
		"userId":   StringAttr(userID),
		"placeKey": StringAttr(placeKey),
	})
}

// RecordDislike upserts a standing dislike and appends the negative
// interaction.
func (hs *HistoryService) RecordDislike(ctx context.Context, userID, placeKey, reason string) error {
	dislike := models.Dislike{
		UserID:    userID,
		PlaceKey:  placeKey,
		Reason:    reason,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := hs.Dynamo.PutItem(ctx, models.DislikesTable, dislike); err != nil {
		return err
	}
	return hs.RecordInteraction(ctx, userID, placeKey, models.InteractionDisliked, models.LabelNegative, models.FeatureVector{})
}

// DislikedPlaceKeys returns the user's standing exclusions as a set.
func (hs *HistoryService) DislikedPlaceKeys(ctx context.Context, userID string) (map[string]bool, error) {
	var dislikes []models.Dislike
	err := hs.Dynamo.QueryItems(ctx, models.DislikesTable, "userId = :uid",
		map[string]types.AttributeValue{":uid": StringAttr(userID)}, &dislikes)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(dislikes))
	for _, d := range dislikes {
		set[d.PlaceKey] = true
	}
	return set, nil
}

// RecordSessionExclusion marks a place "not right now" for one session.
func (hs *HistoryService) RecordSessionExclusion(ctx context.Context, sessionID, userID, placeKey string) error {
	now := time.Now()
	excl := models.SessionExclusion{
		SessionID: sessionID,
		PlaceKey:  placeKey,
		UserID:    userID,
		ExpiresAt: now.Add(SessionExclusionTTL).Unix(),
		CreatedAt: now.UTC().Format(time.RFC3339),
	}
	return hs.Dynamo.PutItem(ctx, models.SessionExclusionsTable, excl)
}

// SessionExclusions returns the unexpired excluded place keys for a session.
func (hs *HistoryService) SessionExclusions(ctx context.Context, sessionID string, now time.Time) (map[string]bool, error) {
	var exclusions []models.SessionExclusion
	err := hs.Dynamo.QueryItems(ctx, models.SessionExclusionsTable, "sessionId = :sid",
		map[string]types.AttributeValue{":sid": StringAttr(sessionID)}, &exclusions)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(exclusions))
	for _, e := range exclusions {
		if now.Unix() < e.ExpiresAt {
			set[e.PlaceKey] = true
		}
	}
	return set, nil
}

// RecentDecisions loads the newest decision history rows for a user.
func (hs *HistoryService) RecentDecisions(ctx context.Context, userID string, limit int32) ([]models.Decision, error) {
	var decisions []models.Decision
	err := hs.Dynamo.QueryItemsWithOptions(ctx, models.DecisionHistoryTable, "userId = :uid",
		map[string]types.AttributeValue{":uid": StringAttr(userID)}, limit, true, &decisions)
	if err != nil {
		return nil, err
	}
	return decisions, nil
}

// UpsertPlaces batch-writes the returned candidates into the Places table so
// favorites and history can reference them by key later.
func (hs *HistoryService) UpsertPlaces(ctx context.Context, places []models.Place) error {
	if len(places) == 0 {
		return nil
	}
	requests := make([]types.WriteRequest, 0, len(places))
	for _, p := range places {
		item, err := attributevalue.MarshalMap(p.Sanitized())
		if err != nil {
			return fmt.Errorf("failed to marshal place %s: %w", p.Key(), err)
		}
		item["placeKey"] = StringAttr(p.Key())
		requests = append(requests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: item},
		})
	}
	return hs.Dynamo.BatchWriteItems(ctx, models.PlacesTable, requests)
}

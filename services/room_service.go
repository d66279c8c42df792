package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"platepick_server/models"
	"platepick_server/utils"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// ErrRoomNotFound signals a swipe or join against an unknown room.
var ErrRoomNotFound = errors.New("room not found")

// ErrInvalidSession signals a swipe with a token the room does not know.
var ErrInvalidSession = errors.New("invalid session")

// RoomStore is the room service's view of storage: keyed upserts, keyed and
// partition reads, and the conditional update behind the status transition.
// DynamoService satisfies it in production.
type RoomStore interface {
	PutItem(ctx context.Context, tableName string, item interface{}) error
	GetItem(ctx context.Context, tableName string, key map[string]types.AttributeValue, out interface{}) error
	QueryItems(ctx context.Context, tableName string, keyConditionExpression string,
		expressionAttributeValues map[string]types.AttributeValue, out interface{}) error
	UpdateItemConditionally(ctx context.Context, tableName string, updateExpression string,
		conditionExpression string, key map[string]types.AttributeValue,
		expressionAttributeValues map[string]types.AttributeValue,
		expressionAttributeNames map[string]string) (bool, error)
}

// RoomService runs the group decision rooms: a frozen candidate snapshot and
// a swipe-based consensus evaluation per candidate.
type RoomService struct {
	Dynamo     RoomStore
	Aggregator *AggregatorService
}

// SwipeTally counts the verdicts on one candidate.
type SwipeTally struct {
	Likes  int // like + super_like
	Vetoes int
	Total  int // all swipes on the candidate
}

// TallySwipes counts the verdicts for one place across a room's swipes.
// Swipes are unique per (participant, place), so every row is one voice.
func TallySwipes(swipes []models.RoomSwipe, placeKey string) SwipeTally {
	var tally SwipeTally
	for _, s := range swipes {
		if s.PlaceKey != placeKey {
			continue
		}
		tally.Total++
		switch s.Verdict {
		case models.VerdictLike, models.VerdictSuperLike:
			tally.Likes++
		case models.VerdictVeto:
			tally.Vetoes++
		}
	}
	return tally
}

// EvaluateConsensus classifies one candidate's aggregate swipe outcome. Any
// veto reports vetoed without ending the room; only unanimity among all
// participants decides it; a 2/3 supermajority is advisory.
func EvaluateConsensus(tally SwipeTally, totalParticipants int) string {
	if tally.Vetoes > 0 {
		return models.ConsensusVetoed
	}
	if totalParticipants > 0 && tally.Likes == totalParticipants {
		return models.ConsensusUnanimous
	}
	if tally.Likes > 0 && tally.Likes >= int(math.Ceil(models.MajorityThreshold*float64(totalParticipants))) {
		return models.ConsensusMajority
	}
	return models.ConsensusNone
}

// CreateRoom freezes a candidate snapshot from a fresh aggregation and opens
// the room. The snapshot never changes afterwards, even when a later
// aggregation for the same area would differ.
func (rs *RoomService) CreateRoom(ctx context.Context, creatorID, name string, query models.SearchQuery) (*models.DecisionRoom, error) {
	if name == "" {
		name = "Group Decision"
	}
	if query.Miles == 0 {
		query.Miles = 5
	}

	candidates := rs.Aggregator.FindCandidates(ctx, creatorID, query)
	if len(candidates) > models.RoomCandidateLimit {
		candidates = candidates[:models.RoomCandidateLimit]
	}
	snapshot := make([]models.Place, len(candidates))
	for i, p := range candidates {
		snapshot[i] = p.Sanitized()
	}

	room := models.DecisionRoom{
		Slug:        utils.RandomHex(6),
		CreatorID:   creatorID,
		Name:        name,
		Lat:         query.Lat,
		Lng:         query.Lng,
		RadiusMiles: query.Miles,
		Filters:     query.Filters(),
		Candidates:  snapshot,
		Status:      models.RoomStatusOpen,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}

	if err := rs.Dynamo.PutItem(ctx, models.DecisionRoomsTable, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	log.Printf("✅ Room %s created with %d candidates", room.Slug, len(snapshot))
	return &room, nil
}

// GetRoom loads a room with its participants and per-candidate verdict
// counts. Clients poll this; room state is never pushed.
func (rs *RoomService) GetRoom(ctx context.Context, slug string) (*models.DecisionRoom, []models.RoomParticipant, map[string]map[string]int, error) {
	room, err := rs.loadRoom(ctx, slug)
	if err != nil {
		return nil, nil, nil, err
	}

	participants, err := rs.participants(ctx, slug)
	if err != nil {
		return nil, nil, nil, err
	}

	swipes, err := rs.swipes(ctx, slug)
	if err != nil {
		return nil, nil, nil, err
	}
	counts := make(map[string]map[string]int)
	for _, s := range swipes {
		if counts[s.PlaceKey] == nil {
			counts[s.PlaceKey] = make(map[string]int)
		}
		counts[s.PlaceKey][s.Verdict]++
	}

	return room, participants, counts, nil
}

// JoinRoom issues a session token for a new participant. Rejoining with an
// existing token updates nickname and activity instead of adding a
// duplicate.
func (rs *RoomService) JoinRoom(ctx context.Context, slug, userID, nickname, sessionToken string) (*models.RoomParticipant, error) {
	if _, err := rs.loadRoom(ctx, slug); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)

	if sessionToken != "" {
		var existing models.RoomParticipant
		err := rs.Dynamo.GetItem(ctx, models.RoomParticipantsTable, map[string]types.AttributeValue{
			"roomSlug":     StringAttr(slug),
			"sessionToken": StringAttr(sessionToken),
		}, &existing)
		if err == nil {
			existing.Nickname = nickname
			existing.LastActive = now
			if err := rs.Dynamo.PutItem(ctx, models.RoomParticipantsTable, existing); err != nil {
				return nil, fmt.Errorf("failed to update participant: %w", err)
			}
			return &existing, nil
		}
		if !errors.Is(err, ErrItemNotFound) {
			return nil, err
		}
	}

	participant := models.RoomParticipant{
		RoomSlug:      slug,
		SessionToken:  utils.RandomHex(16),
		ParticipantID: uuid.NewString(),
		UserID:        userID,
		Nickname:      nickname,
		LastActive:    now,
	}
	if err := rs.Dynamo.PutItem(ctx, models.RoomParticipantsTable, participant); err != nil {
		return nil, fmt.Errorf("failed to join room: %w", err)
	}
	return &participant, nil
}

// RecordSwipe upserts one participant's verdict on one candidate and
// evaluates consensus for that candidate only. A unanimous outcome moves the
// room from open to decided exactly once; re-achieving unanimity on an
// already-decided room is a no-op.
func (rs *RoomService) RecordSwipe(ctx context.Context, slug, sessionToken, placeKey, verdict string) (string, error) {
	room, err := rs.loadRoom(ctx, slug)
	if err != nil {
		return "", err
	}

	participant, err := rs.participantByToken(ctx, slug, sessionToken)
	if err != nil {
		return "", err
	}

	swipe := models.RoomSwipe{
		RoomSlug:      slug,
		SortKey:       models.SwipeSortKey(participant.ParticipantID, placeKey),
		ParticipantID: participant.ParticipantID,
		PlaceKey:      placeKey,
		Verdict:       verdict,
		DecidedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if err := rs.Dynamo.PutItem(ctx, models.RoomSwipesTable, swipe); err != nil {
		return "", fmt.Errorf("failed to record swipe: %w", err)
	}

	swipes, err := rs.swipes(ctx, slug)
	if err != nil {
		return "", err
	}
	participants, err := rs.participants(ctx, slug)
	if err != nil {
		return "", err
	}

	consensus := EvaluateConsensus(TallySwipes(swipes, placeKey), len(participants))
	if consensus == models.ConsensusUnanimous {
		if err := rs.decideRoom(ctx, room.Slug, placeKey); err != nil {
			return "", err
		}
	}
	return consensus, nil
}

// decideRoom performs the one-way open→decided transition. The condition on
// the current status makes racing unanimity evaluations converge on the
// first winner; a failed condition is the expected idempotent path.
func (rs *RoomService) decideRoom(ctx context.Context, slug, winnerPlaceKey string) error {
	applied, err := rs.Dynamo.UpdateItemConditionally(ctx, models.DecisionRoomsTable,
		"SET #status = :decided, winnerPlaceKey = :winner, decidedAt = :now",
		"#status = :open",
		map[string]types.AttributeValue{"slug": StringAttr(slug)},
		map[string]types.AttributeValue{
			":decided": StringAttr(models.RoomStatusDecided),
			":open":    StringAttr(models.RoomStatusOpen),
			":winner":  StringAttr(winnerPlaceKey),
			":now":     StringAttr(time.Now().UTC().Format(time.RFC3339)),
		},
		map[string]string{"#status": "status"},
	)
	if err != nil {
		return fmt.Errorf("failed to decide room %s: %w", slug, err)
	}
	if applied {
		log.Printf("🎉 Room %s decided: %s wins", slug, winnerPlaceKey)
	}
	return nil
}

func (rs *RoomService) loadRoom(ctx context.Context, slug string) (*models.DecisionRoom, error) {
	var room models.DecisionRoom
	err := rs.Dynamo.GetItem(ctx, models.DecisionRoomsTable, map[string]types.AttributeValue{
		"slug": StringAttr(slug),
	}, &room)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (rs *RoomService) participantByToken(ctx context.Context, slug, sessionToken string) (*models.RoomParticipant, error) {
	var participant models.RoomParticipant
	err := rs.Dynamo.GetItem(ctx, models.RoomParticipantsTable, map[string]types.AttributeValue{
		"roomSlug":     StringAttr(slug),
		"sessionToken": StringAttr(sessionToken),
	}, &participant)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	return &participant, nil
}

func (rs *RoomService) participants(ctx context.Context, slug string) ([]models.RoomParticipant, error) {
	var participants []models.RoomParticipant
	err := rs.Dynamo.QueryItems(ctx, models.RoomParticipantsTable, "roomSlug = :slug",
		map[string]types.AttributeValue{":slug": StringAttr(slug)}, &participants)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants for %s: %w", slug, err)
	}
	return participants, nil
}

func (rs *RoomService) swipes(ctx context.Context, slug string) ([]models.RoomSwipe, error) {
	var swipes []models.RoomSwipe
	err := rs.Dynamo.QueryItems(ctx, models.RoomSwipesTable, "roomSlug = :slug",
		map[string]types.AttributeValue{":slug": StringAttr(slug)}, &swipes)
	if err != nil {
		return nil, fmt.Errorf("failed to load swipes for %s: %w", slug, err)
	}
	return swipes, nil
}

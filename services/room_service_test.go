package services

import (
	"context"
	"fmt"
	"testing"

	"platepick_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func swipe(participant, placeKey, verdict string) models.RoomSwipe {
	return models.RoomSwipe{
		RoomSlug:      "r1",
		SortKey:       models.SwipeSortKey(participant, placeKey),
		ParticipantID: participant,
		PlaceKey:      placeKey,
		Verdict:       verdict,
	}
}

func TestTallySwipes(t *testing.T) {
	swipes := []models.RoomSwipe{
		swipe("p1", "google#a", models.VerdictLike),
		swipe("p2", "google#a", models.VerdictSuperLike),
		swipe("p3", "google#a", models.VerdictDislike),
		swipe("p1", "google#b", models.VerdictVeto),
	}

	tally := TallySwipes(swipes, "google#a")
	if tally.Likes != 2 {
		t.Errorf("likes: got %d, want 2 (super_like counts)", tally.Likes)
	}
	if tally.Vetoes != 0 {
		t.Errorf("vetoes: got %d, want 0", tally.Vetoes)
	}
	if tally.Total != 3 {
		t.Errorf("total: got %d, want 3", tally.Total)
	}
}

func TestEvaluateConsensusUnanimous(t *testing.T) {
	tally := SwipeTally{Likes: 3, Total: 3}
	if got := EvaluateConsensus(tally, 3); got != models.ConsensusUnanimous {
		t.Errorf("3/3 likes: got %q, want unanimous", got)
	}
}

func TestEvaluateConsensusVetoBeatsLikes(t *testing.T) {
	tally := SwipeTally{Likes: 2, Vetoes: 1, Total: 3}
	if got := EvaluateConsensus(tally, 3); got != models.ConsensusVetoed {
		t.Errorf("any veto should report vetoed, got %q", got)
	}
}

func TestEvaluateConsensusMajority(t *testing.T) {
	// ceil(0.67*3) = 3, so 2 of 3 falls short; ceil(0.67*4) = 3, so 3 of 4
	// clears it without being unanimous.
	if got := EvaluateConsensus(SwipeTally{Likes: 2, Total: 2}, 3); got != models.ConsensusNone {
		t.Errorf("2 of 3: got %q, want none", got)
	}
	if got := EvaluateConsensus(SwipeTally{Likes: 3, Total: 3}, 4); got != models.ConsensusMajority {
		t.Errorf("3 of 4: got %q, want majority", got)
	}
}

func TestEvaluateConsensusNoParticipants(t *testing.T) {
	if got := EvaluateConsensus(SwipeTally{}, 0); got != models.ConsensusNone {
		t.Errorf("empty room: got %q, want none", got)
	}
}

func TestEvaluateConsensusSingleParticipant(t *testing.T) {
	if got := EvaluateConsensus(SwipeTally{Likes: 1, Total: 1}, 1); got != models.ConsensusUnanimous {
		t.Errorf("solo like is unanimous by definition, got %q", got)
	}
}

// fakeRoomStore keeps rooms, participants and swipes in maps keyed the way
// the tables are, so PutItem overwrites like DynamoDB does.
type fakeRoomStore struct {
	rooms        map[string]models.DecisionRoom
	participants map[string]models.RoomParticipant // slug#token
	swipes       map[string]models.RoomSwipe       // slug#sortKey
}

func newFakeRoomStore() *fakeRoomStore {
	return &fakeRoomStore{
		rooms:        map[string]models.DecisionRoom{},
		participants: map[string]models.RoomParticipant{},
		swipes:       map[string]models.RoomSwipe{},
	}
}

func attrString(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func (f *fakeRoomStore) PutItem(ctx context.Context, tableName string, item interface{}) error {
	switch v := item.(type) {
	case models.DecisionRoom:
		f.rooms[v.Slug] = v
	case models.RoomParticipant:
		f.participants[v.RoomSlug+"#"+v.SessionToken] = v
	case models.RoomSwipe:
		f.swipes[v.RoomSlug+"#"+v.SortKey] = v
	default:
		return fmt.Errorf("unexpected item type %T", item)
	}
	return nil
}

func (f *fakeRoomStore) GetItem(ctx context.Context, tableName string, key map[string]types.AttributeValue, out interface{}) error {
	switch v := out.(type) {
	case *models.DecisionRoom:
		room, ok := f.rooms[attrString(key["slug"])]
		if !ok {
			return ErrItemNotFound
		}
		*v = room
	case *models.RoomParticipant:
		p, ok := f.participants[attrString(key["roomSlug"])+"#"+attrString(key["sessionToken"])]
		if !ok {
			return ErrItemNotFound
		}
		*v = p
	default:
		return fmt.Errorf("unexpected out type %T", out)
	}
	return nil
}

func (f *fakeRoomStore) QueryItems(ctx context.Context, tableName, keyConditionExpression string,
	expressionAttributeValues map[string]types.AttributeValue, out interface{}) error {
	slug := attrString(expressionAttributeValues[":slug"])
	switch v := out.(type) {
	case *[]models.RoomParticipant:
		for _, p := range f.participants {
			if p.RoomSlug == slug {
				*v = append(*v, p)
			}
		}
	case *[]models.RoomSwipe:
		for _, s := range f.swipes {
			if s.RoomSlug == slug {
				*v = append(*v, s)
			}
		}
	default:
		return fmt.Errorf("unexpected out type %T", out)
	}
	return nil
}

func (f *fakeRoomStore) UpdateItemConditionally(ctx context.Context, tableName, updateExpression, conditionExpression string,
	key, expressionAttributeValues map[string]types.AttributeValue,
	expressionAttributeNames map[string]string) (bool, error) {
	room, ok := f.rooms[attrString(key["slug"])]
	if !ok {
		return false, ErrItemNotFound
	}
	if room.Status != attrString(expressionAttributeValues[":open"]) {
		return false, nil
	}
	room.Status = attrString(expressionAttributeValues[":decided"])
	room.WinnerPlaceKey = attrString(expressionAttributeValues[":winner"])
	room.DecidedAt = attrString(expressionAttributeValues[":now"])
	f.rooms[room.Slug] = room
	return true, nil
}

// openRoom seeds an open room with n participants and returns their session
// tokens in order.
func openRoom(store *fakeRoomStore, slug string, n int) []string {
	store.rooms[slug] = models.DecisionRoom{
		Slug:   slug,
		Name:   "Group Decision",
		Status: models.RoomStatusOpen,
	}
	tokens := make([]string, n)
	for i := 0; i < n; i++ {
		token := fmt.Sprintf("token-%d", i)
		store.participants[slug+"#"+token] = models.RoomParticipant{
			RoomSlug:      slug,
			SessionToken:  token,
			ParticipantID: fmt.Sprintf("p%d", i),
			Nickname:      fmt.Sprintf("guest-%d", i),
		}
		tokens[i] = token
	}
	return tokens
}

func TestRecordSwipeOverwrites(t *testing.T) {
	store := newFakeRoomStore()
	tokens := openRoom(store, "r1", 2)
	rs := &RoomService{Dynamo: store}
	ctx := context.Background()

	first, err := rs.RecordSwipe(ctx, "r1", tokens[0], "google#a", models.VerdictLike)
	if err != nil {
		t.Fatalf("first swipe: %v", err)
	}
	again, err := rs.RecordSwipe(ctx, "r1", tokens[0], "google#a", models.VerdictLike)
	if err != nil {
		t.Fatalf("repeat swipe: %v", err)
	}
	if first != again {
		t.Errorf("repeating the same swipe changed consensus: %q then %q", first, again)
	}
	if len(store.swipes) != 1 {
		t.Errorf("got %d swipe rows, want 1 (same sort key overwrites)", len(store.swipes))
	}

	// A changed mind replaces the row rather than adding a second voice.
	changed, err := rs.RecordSwipe(ctx, "r1", tokens[0], "google#a", models.VerdictVeto)
	if err != nil {
		t.Fatalf("re-swipe: %v", err)
	}
	if changed != models.ConsensusVetoed {
		t.Errorf("got %q after veto, want vetoed", changed)
	}
	if len(store.swipes) != 1 {
		t.Errorf("got %d swipe rows after re-swipe, want 1", len(store.swipes))
	}
}

func TestRecordSwipeUnanimityDecidesRoom(t *testing.T) {
	store := newFakeRoomStore()
	tokens := openRoom(store, "r1", 3)
	rs := &RoomService{Dynamo: store}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		consensus, err := rs.RecordSwipe(ctx, "r1", tokens[i], "google#a", models.VerdictLike)
		if err != nil {
			t.Fatalf("swipe %d: %v", i, err)
		}
		if consensus != models.ConsensusNone {
			t.Errorf("swipe %d of 3: got %q, want none", i+1, consensus)
		}
		if store.rooms["r1"].Status != models.RoomStatusOpen {
			t.Fatalf("room decided after %d of 3 likes", i+1)
		}
	}

	consensus, err := rs.RecordSwipe(ctx, "r1", tokens[2], "google#a", models.VerdictLike)
	if err != nil {
		t.Fatalf("final swipe: %v", err)
	}
	if consensus != models.ConsensusUnanimous {
		t.Errorf("3 of 3 likes: got %q, want unanimous", consensus)
	}
	room := store.rooms["r1"]
	if room.Status != models.RoomStatusDecided {
		t.Errorf("status: got %q, want decided", room.Status)
	}
	if room.WinnerPlaceKey != "google#a" {
		t.Errorf("winner: got %q, want google#a", room.WinnerPlaceKey)
	}
	if room.DecidedAt == "" {
		t.Error("decidedAt not set")
	}
}

func TestRecordSwipeAfterDecisionKeepsWinner(t *testing.T) {
	store := newFakeRoomStore()
	tokens := openRoom(store, "r1", 2)
	rs := &RoomService{Dynamo: store}
	ctx := context.Background()

	for _, token := range tokens {
		if _, err := rs.RecordSwipe(ctx, "r1", token, "google#a", models.VerdictLike); err != nil {
			t.Fatalf("swipe on google#a: %v", err)
		}
	}
	decided := store.rooms["r1"]
	if decided.Status != models.RoomStatusDecided || decided.WinnerPlaceKey != "google#a" {
		t.Fatalf("room not decided on google#a: %+v", decided)
	}

	// Unanimity on a second candidate still reports per-candidate consensus
	// but cannot re-decide the room.
	var last string
	for _, token := range tokens {
		consensus, err := rs.RecordSwipe(ctx, "r1", token, "google#b", models.VerdictLike)
		if err != nil {
			t.Fatalf("swipe on google#b: %v", err)
		}
		last = consensus
	}
	if last != models.ConsensusUnanimous {
		t.Errorf("consensus on the later candidate: got %q, want unanimous", last)
	}
	after := store.rooms["r1"]
	if after.Status != models.RoomStatusDecided {
		t.Errorf("status changed to %q after later swipes", after.Status)
	}
	if after.WinnerPlaceKey != "google#a" {
		t.Errorf("winner changed to %q, want google#a", after.WinnerPlaceKey)
	}
	if after.DecidedAt != decided.DecidedAt {
		t.Errorf("decidedAt changed from %q to %q", decided.DecidedAt, after.DecidedAt)
	}
}

func TestTallySwipesOverwriteSemantics(t *testing.T) {
	// A re-swipe replaces the row under the same sort key; the tally sees
	// only the latest verdict.
	byKey := map[string]models.RoomSwipe{}
	first := swipe("p1", "google#a", models.VerdictLike)
	byKey[first.SortKey] = first
	second := swipe("p1", "google#a", models.VerdictVeto)
	byKey[second.SortKey] = second

	var swipes []models.RoomSwipe
	for _, s := range byKey {
		swipes = append(swipes, s)
	}
	tally := TallySwipes(swipes, "google#a")
	if tally.Total != 1 || tally.Vetoes != 1 || tally.Likes != 0 {
		t.Errorf("re-swipe should count once as the latest verdict, got %+v", tally)
	}
}

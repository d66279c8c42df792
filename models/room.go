package models

// DecisionRoom holds a frozen candidate snapshot and the swipe-based
// consensus state shared by its participants. Candidates never change after
// creation; status moves exactly once from open to decided.
type DecisionRoom struct {
	Slug           string        `dynamodbav:"slug" json:"slug"` // Partition key, unguessable
	CreatorID      string        `dynamodbav:"creatorId,omitempty" json:"creatorId,omitempty"`
	Name           string        `dynamodbav:"name" json:"name"`
	Lat            float64       `dynamodbav:"lat" json:"lat"`
	Lng            float64       `dynamodbav:"lng" json:"lng"`
	RadiusMiles    float64       `dynamodbav:"radiusMiles" json:"radiusMiles"`
	Filters        SearchFilters `dynamodbav:"filters" json:"filters"`
	Candidates     []Place       `dynamodbav:"candidates" json:"candidates"` // Frozen at creation, max 20
	Status         string        `dynamodbav:"status" json:"status"`         // open or decided
	WinnerPlaceKey string        `dynamodbav:"winnerPlaceKey,omitempty" json:"winnerPlaceKey,omitempty"`
	CreatedAt      string        `dynamodbav:"createdAt" json:"createdAt"`
	DecidedAt      string        `dynamodbav:"decidedAt,omitempty" json:"decidedAt,omitempty"`
}

// DecisionRoomsTable is the DynamoDB table for rooms.
const DecisionRoomsTable = "DecisionRooms"

// RoomParticipant is one anonymous member of a room. One row per
// (room, sessionToken); rejoining with the same token updates nickname and
// activity instead of creating a duplicate.
type RoomParticipant struct {
	RoomSlug      string `dynamodbav:"roomSlug" json:"roomSlug"`         // Partition key
	SessionToken  string `dynamodbav:"sessionToken" json:"sessionToken"` // Sort key, unguessable
	ParticipantID string `dynamodbav:"participantId" json:"participantId"`
	UserID        string `dynamodbav:"userId,omitempty" json:"userId,omitempty"`
	Nickname      string `dynamodbav:"nickname" json:"nickname"`
	LastActive    string `dynamodbav:"lastActive" json:"lastActive"`
}

// RoomParticipantsTable is the DynamoDB table for participants.
const RoomParticipantsTable = "RoomParticipants"

// RoomSwipe is the current verdict of one participant on one candidate.
// The sort key makes re-swipes overwrite rather than accumulate.
type RoomSwipe struct {
	RoomSlug      string `dynamodbav:"roomSlug" json:"roomSlug"` // Partition key
	SortKey       string `dynamodbav:"sortKey" json:"sortKey"`   // participantId#placeKey
	ParticipantID string `dynamodbav:"participantId" json:"participantId"`
	PlaceKey      string `dynamodbav:"placeKey" json:"placeKey"`
	Verdict       string `dynamodbav:"verdict" json:"verdict"` // like, dislike, super_like, veto
	DecidedAt     string `dynamodbav:"decidedAt" json:"decidedAt"`
}

// SwipeSortKey builds the per-(participant, place) identity of a swipe.
func SwipeSortKey(participantID, placeKey string) string {
	return participantID + "#" + placeKey
}

// RoomSwipesTable is the DynamoDB table for swipes.
const RoomSwipesTable = "RoomSwipes"

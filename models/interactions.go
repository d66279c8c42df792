package models

// FeatureSchemaVersion tags the feature vector layout so stored interactions
// stay interpretable if the schema evolves.
const FeatureSchemaVersion = 1

// FeatureVector is the typed feature snapshot attached to an interaction.
// Similarity scoring and pattern mining operate on these fields directly,
// never on ad-hoc JSON blobs.
type FeatureVector struct {
	SchemaVersion int      `dynamodbav:"schemaVersion" json:"schemaVersion"`
	Cuisines      []string `dynamodbav:"cuisines,omitempty" json:"cuisines,omitempty"`
	Price         int      `dynamodbav:"price,omitempty" json:"price,omitempty"`
	Rating        float64  `dynamodbav:"rating,omitempty" json:"rating,omitempty"`
	TimeOfDay     string   `dynamodbav:"timeOfDay,omitempty" json:"time_of_day,omitempty"`
	DayOfWeek     string   `dynamodbav:"dayOfWeek,omitempty" json:"day_of_week,omitempty"`
	DistanceMiles float64  `dynamodbav:"distanceMiles,omitempty" json:"distance,omitempty"`
}

// Interaction is one append-only training-signal record. Rows are never
// mutated or deleted.
type Interaction struct {
	UserID    string        `dynamodbav:"userId" json:"userId"`   // Partition key
	SortKey   string        `dynamodbav:"sortKey" json:"sortKey"` // createdAt#uuid, newest-last
	PlaceKey  string        `dynamodbav:"placeKey,omitempty" json:"placeKey,omitempty"`
	Kind      string        `dynamodbav:"kind" json:"kind"` // shown, favorited, disliked
	Label     string        `dynamodbav:"label,omitempty" json:"label,omitempty"`
	Features  FeatureVector `dynamodbav:"features" json:"features"`
	CreatedAt string        `dynamodbav:"createdAt" json:"createdAt"`
}

// InteractionsTable is the DynamoDB table for interaction records.
const InteractionsTable = "Interactions"

// Decision is one entry of the user's decision history: what was shown or
// selected, under which filters, and in which time bucket. Pattern mining
// consumes these.
type Decision struct {
	UserID         string        `dynamodbav:"userId" json:"userId"`   // Partition key
	SortKey        string        `dynamodbav:"sortKey" json:"sortKey"` // createdAt#uuid
	SessionID      string        `dynamodbav:"sessionId,omitempty" json:"sessionId,omitempty"`
	PlaceKey       string        `dynamodbav:"placeKey" json:"placeKey"`
	Action         string        `dynamodbav:"action" json:"action"` // shown, selected
	SearchLat      float64       `dynamodbav:"searchLat" json:"searchLat"`
	SearchLng      float64       `dynamodbav:"searchLng" json:"searchLng"`
	SearchRadius   float64       `dynamodbav:"searchRadius" json:"searchRadius"`
	FiltersApplied SearchFilters `dynamodbav:"filtersApplied" json:"filtersApplied"`
	TimeOfDay      string        `dynamodbav:"timeOfDay" json:"timeOfDay"`
	DayOfWeek      string        `dynamodbav:"dayOfWeek" json:"dayOfWeek"`
	Reasons        []string      `dynamodbav:"reasons,omitempty" json:"reasons,omitempty"`
	CreatedAt      string        `dynamodbav:"createdAt" json:"createdAt"`
}

// DecisionHistoryTable is the DynamoDB table for decision history.
const DecisionHistoryTable = "DecisionHistory"

// Favorite marks a place the user saved. Ranking reads these to build the
// favorite-affinity profile; list management itself lives outside this core.
type Favorite struct {
	UserID    string `dynamodbav:"userId" json:"userId"`     // Partition key
	PlaceKey  string `dynamodbav:"placeKey" json:"placeKey"` // Sort key
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// FavoritesTable is the DynamoDB table for favorites.
const FavoritesTable = "Favorites"

// Dislike is a standing exclusion: the place never comes back for this user.
type Dislike struct {
	UserID    string `dynamodbav:"userId" json:"userId"`     // Partition key
	PlaceKey  string `dynamodbav:"placeKey" json:"placeKey"` // Sort key
	Reason    string `dynamodbav:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// DislikesTable is the DynamoDB table for dislikes.
const DislikesTable = "Dislikes"

// SessionExclusion is a short-lived "not right now" for one pick session.
type SessionExclusion struct {
	SessionID string `dynamodbav:"sessionId" json:"sessionId"` // Partition key
	PlaceKey  string `dynamodbav:"placeKey" json:"placeKey"`   // Sort key
	UserID    string `dynamodbav:"userId,omitempty" json:"userId,omitempty"`
	ExpiresAt int64  `dynamodbav:"expiresAt" json:"expiresAt"` // Unix seconds
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// SessionExclusionsTable is the DynamoDB table for session exclusions.
const SessionExclusionsTable = "SessionExclusions"

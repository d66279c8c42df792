package models

// UserPattern is a mined recurring habit for one (day-of-week, time-of-day)
// bucket. Buckets are recomputed wholesale whenever mining runs; a bucket is
// only persisted once it has at least three occurrences.
type UserPattern struct {
	UserID       string   `dynamodbav:"userId" json:"userId"`         // Partition key
	PatternKey   string   `dynamodbav:"patternKey" json:"patternKey"` // Sort key: day_timeofday
	DayOfWeek    string   `dynamodbav:"dayOfWeek" json:"day_of_week"`
	TimeOfDay    string   `dynamodbav:"timeOfDay" json:"time_of_day"`
	TopCuisines  []string `dynamodbav:"topCuisines,omitempty" json:"preferred_cuisines,omitempty"` // At most 5, by frequency
	AvgPriceMin  float64  `dynamodbav:"avgPriceMin" json:"avg_price_min"`
	AvgPriceMax  float64  `dynamodbav:"avgPriceMax" json:"avg_price_max"`
	Frequency    int      `dynamodbav:"frequency" json:"frequency"`
	Confidence   float64  `dynamodbav:"confidence" json:"confidence"` // min(count/10, 1.0)
	LastOccurred string   `dynamodbav:"lastOccurred" json:"last_occurred"`
}

// PatternMinOccurrences is the persistence threshold for a bucket.
const PatternMinOccurrences = 3

// UserPatternsTable is the DynamoDB table for mined patterns.
const UserPatternsTable = "UserPatterns"

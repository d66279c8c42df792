package models

// Swipe verdicts
const (
	VerdictLike      = "like"
	VerdictDislike   = "dislike"
	VerdictSuperLike = "super_like"
	VerdictVeto      = "veto"
)

// Consensus evaluation outcomes for one candidate
const (
	ConsensusVetoed    = "vetoed"
	ConsensusMajority  = "majority"
	ConsensusUnanimous = "unanimous"
	ConsensusNone      = ""
)

// Room statuses
const (
	RoomStatusOpen    = "open"
	RoomStatusDecided = "decided"
)

// Interaction kinds
const (
	InteractionShown     = "shown"
	InteractionFavorited = "favorited"
	InteractionDisliked  = "disliked"
	InteractionSelected  = "selected"
)

// Interaction labels
const (
	LabelPositive = "positive"
	LabelNegative = "negative"
)

// Time-of-day buckets for pattern mining
const (
	BucketBreakfast = "breakfast"
	BucketLunch     = "lunch"
	BucketDinner    = "dinner"
	BucketLateNight = "late_night"
)

// MajorityThreshold is the advisory consensus fraction of participants.
const MajorityThreshold = 0.67

// RoomCandidateLimit caps the candidate snapshot frozen at room creation.
const RoomCandidateLimit = 20

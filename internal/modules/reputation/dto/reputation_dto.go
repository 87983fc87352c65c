package dto

import "github.com/google/uuid"

// RankStatus is derived from a user's current reputation plus the points
// earned in the last seven days.
type RankStatus struct {
	RankName      string  `json:"rank_name"`
	NextRank      string  `json:"next_rank"`
	CurrentPoints int     `json:"current_points"`
	TargetPoints  int     `json:"target_points"`
	Progress      float64 `json:"progress"`
	WeeklyPoints  int     `json:"weekly_points"`
	WeeklyLabel   string  `json:"weekly_label"`
}

// LeaderboardEntry represents a single user entry in the leaderboard.
type LeaderboardEntry struct {
	UserID     uuid.UUID  `json:"user_id"`
	Username   string     `json:"username"`
	Role       string     `json:"role"`
	Position   int        `json:"position"` // 1-based
	Reputation int        `json:"reputation"`
	RankStatus RankStatus `json:"rank_status"`
}

type LogEntry struct {
	Delta       int       `json:"delta"`
	Reason      string    `json:"reason"`
	ReferenceID uuid.UUID `json:"reference_id"`
	CreatedAt   string    `json:"created_at"`
}

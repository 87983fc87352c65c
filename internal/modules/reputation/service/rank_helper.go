package service

import (
	"math"

	"slotskolan.se/forum/internal/modules/reputation/dto"
)

// Rank thresholds, by current reputation.
const (
	PointsLegend    = 3000
	PointsExpert    = 1000
	PointsConnoisse = 300
	PointsRegular   = 100
	PointsMember    = 25
)

// Weekly activity thresholds (reputation earned in the last 7 days).
const (
	WeeklyHot    = 60
	WeeklyRising = 30
	WeeklyActive = 10
)

type rankStep struct {
	min  int
	name string
}

// ordered from the top
var rankSteps = []rankStep{
	{PointsLegend, "Legend"},
	{PointsExpert, "Expert"},
	{PointsConnoisse, "Kännare"},
	{PointsRegular, "Stammis"},
	{PointsMember, "Medlem"},
	{math.MinInt, "Nybörjare"},
}

func GetRankStatus(points int) dto.RankStatus {
	return GetRankStatusWithWeekly(points, 0)
}

// GetRankStatusWithWeekly computes the rank for the current reputation. Reputation
// can be negative; such users stay at the lowest rank with zero progress.
func GetRankStatusWithWeekly(points, weeklyPoints int) dto.RankStatus {
	status := dto.RankStatus{
		CurrentPoints: points,
		WeeklyPoints:  weeklyPoints,
	}

	for i, step := range rankSteps {
		if points < step.min {
			continue
		}
		status.RankName = step.name
		if i == 0 {
			status.NextRank = "Max"
			status.TargetPoints = step.min
			status.Progress = 100
			break
		}
		next := rankSteps[i-1]
		status.NextRank = next.name
		status.TargetPoints = next.min
		if points > 0 {
			status.Progress = float64(points) / float64(next.min) * 100
		}
		break
	}

	switch {
	case weeklyPoints >= WeeklyHot:
		status.WeeklyLabel = "🔥 Het vecka"
	case weeklyPoints >= WeeklyRising:
		status.WeeklyLabel = "⚡ På gång"
	case weeklyPoints >= WeeklyActive:
		status.WeeklyLabel = "📈 Aktiv"
	}

	status.Progress = math.Round(status.Progress*100) / 100
	return status
}

// Package stats derives win/loss aggregates from stored game events.
// Every function here is pure; callers pass events ordered by CreatedAt ascending.
package stats

import (
	"sort"
	"time"

	"github.com/vytor/chesspulse/internal/models"
)

// Aggregate computes totals, per-bucket stats and streaks for events.
func Aggregate(events []models.GameEvent) models.AggregationResult {
	res := models.AggregationResult{
		Buckets:       Buckets(events),
		CurrentStreak: CurrentStreak(events),
	}

	for _, e := range events {
		switch e.Status {
		case models.Win:
			res.Wins++
		case models.Draw:
			res.Draws++
		case models.Loss:
			res.Losses++
		}
	}
	res.Total = len(events)
	res.WinRate = rate(res.Wins, res.Total)
	res.LongestWinStreak = LongestWinStreak(events)

	if len(res.Buckets) > 0 {
		most := res.Buckets[0]
		res.MostPlayed = &most
		weakest := Weakest(res.Buckets)
		res.Weakest = &weakest
	}
	return res
}

// Buckets groups events by time class, most played first. Buckets with the
// same number of games keep the order in which they were first seen.
func Buckets(events []models.GameEvent) []models.BucketStat {
	index := make(map[string]int)
	buckets := []models.BucketStat{}

	for _, e := range events {
		key := e.Bucket()
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, models.BucketStat{Key: key})
		}
		b := &buckets[i]
		b.Games++
		switch e.Status {
		case models.Win:
			b.Wins++
		case models.Draw:
			b.Draws++
		case models.Loss:
			b.Losses++
		}
	}

	for i := range buckets {
		buckets[i].WinRate = rate(buckets[i].Wins, buckets[i].Games)
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Games > buckets[j].Games
	})
	return buckets
}

// Weakest returns the bucket with the lowest win rate. On ties the bucket
// that comes first in buckets wins. buckets must not be empty.
func Weakest(buckets []models.BucketStat) models.BucketStat {
	weakest := buckets[0]
	for _, b := range buckets[1:] {
		if b.WinRate < weakest.WinRate {
			weakest = b
		}
	}
	return weakest
}

// CurrentStreak scans from the most recent event backward. Draws before the
// first win or loss are skipped; once the streak type is set, any other
// outcome ends it.
func CurrentStreak(events []models.GameEvent) models.Streak {
	streak := models.Streak{Type: models.StreakNone}

	for i := len(events) - 1; i >= 0; i-- {
		status := events[i].Status
		if streak.Type == models.StreakNone {
			switch status {
			case models.Win:
				streak = models.Streak{Type: models.StreakWin, Length: 1}
			case models.Loss:
				streak = models.Streak{Type: models.StreakLoss, Length: 1}
			}
			continue
		}
		if (streak.Type == models.StreakWin && status == models.Win) ||
			(streak.Type == models.StreakLoss && status == models.Loss) {
			streak.Length++
			continue
		}
		break
	}
	return streak
}

// LongestWinStreak returns the longest run of consecutive wins.
func LongestWinStreak(events []models.GameEvent) int {
	longest, run := 0, 0
	for _, e := range events {
		if e.Status != models.Win {
			run = 0
			continue
		}
		run++
		if run > longest {
			longest = run
		}
	}
	return longest
}

// Since returns the start of a window of the given number of days ending at now.
func Since(now time.Time, days int) time.Time {
	return now.Add(-time.Duration(days) * 24 * time.Hour)
}

// Filter keeps the events created at or after since.
func Filter(events []models.GameEvent, since time.Time) []models.GameEvent {
	out := make([]models.GameEvent, 0, len(events))
	for _, e := range events {
		if !e.CreatedAt.Before(since) {
			out = append(out, e)
		}
	}
	return out
}

func rate(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total)
}

package models

import "time"

type StatsFilter struct {
	Player string
	Days   int
}

type BucketStat struct {
	Key     string  `json:"key"`
	Games   int     `json:"games"`
	Wins    int     `json:"wins"`
	Draws   int     `json:"draws"`
	Losses  int     `json:"losses"`
	WinRate float64 `json:"winRate"`
}

type StreakType string

const (
	StreakNone StreakType = "none"
	StreakWin  StreakType = "win"
	StreakLoss StreakType = "loss"
)

type Streak struct {
	Type   StreakType `json:"type"`
	Length int        `json:"length"`
}

// AggregationResult is derived from events on every call and never persisted.
type AggregationResult struct {
	Player           string       `json:"player,omitempty"`
	WindowDays       int          `json:"windowDays"`
	Since            time.Time    `json:"since"`
	Total            int          `json:"total"`
	Wins             int          `json:"wins"`
	Draws            int          `json:"draws"`
	Losses           int          `json:"losses"`
	WinRate          float64      `json:"winRate"`
	Buckets          []BucketStat `json:"buckets"`
	MostPlayed       *BucketStat  `json:"mostPlayed,omitempty"`
	Weakest          *BucketStat  `json:"weakest,omitempty"`
	CurrentStreak    Streak       `json:"currentStreak"`
	LongestWinStreak int          `json:"longestWinStreak"`
}

const (
	NarrationSourceLLM       = "llm"
	NarrationSourceHeuristic = "heuristic"
)

type Narration struct {
	Text   string `json:"insight"`
	Source string `json:"source"`
}

type Summary struct {
	AggregationResult
	Insight string `json:"insight"`
	Source  string `json:"source"`
}

type DailyPoint struct {
	Date    string  `json:"date"`
	Games   int     `json:"games"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"winRate"`
}

type DashboardKPIs struct {
	Games        int        `json:"games"`
	Wins         int        `json:"wins"`
	WinRate      float64    `json:"winRate"`
	LastIngested *time.Time `json:"lastIngested,omitempty"`
}

type Dashboard struct {
	Player      string        `json:"player,omitempty"`
	Players     []string      `json:"players"`
	KPIs        DashboardKPIs `json:"kpis"`
	Daily       []DailyPoint  `json:"daily"`
	ByTimeClass []BucketStat  `json:"byTimeClass"`
}

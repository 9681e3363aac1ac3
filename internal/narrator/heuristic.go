package narrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/vytor/chesspulse/internal/models"
)

const defaultWindowDays = 7

var tips = map[string]string{
	"bullet": "In bullet, focus on pre-moves in obvious positions and maintain piece activity over material.",
	"blitz":  "In blitz, prioritize fast opening development and avoid complicated tactics under time pressure.",
	"rapid":  "In rapid, take time to calculate tactical sequences and avoid impulsive moves in the middlegame.",
}

// Heuristic builds a deterministic summary from the aggregation alone.
type Heuristic struct{}

func (Heuristic) Summarize(_ context.Context, res models.AggregationResult) (string, error) {
	days := res.WindowDays
	if days <= 0 {
		days = defaultWindowDays
	}
	if res.Total == 0 || res.MostPlayed == nil || res.Weakest == nil {
		return fmt.Sprintf("No games found in the last %d days. Play some games to see insights!", days), nil
	}

	best, worst := res.MostPlayed, res.Weakest

	var b strings.Builder
	fmt.Fprintf(&b, "Chess Performance (Last %d Days)\n\n", days)
	fmt.Fprintf(&b, "Record: %dW-%dD-%dL (%s win rate)\n", res.Wins, res.Draws, res.Losses, Percent(res.WinRate))
	fmt.Fprintf(&b, "Most played: %s (%d games, %s WR)\n", best.Key, best.Games, Percent(best.WinRate))
	fmt.Fprintf(&b, "Weakest format: %s (%s WR)\n", worst.Key, Percent(worst.WinRate))
	fmt.Fprintf(&b, "Current streak: %s\n\n", DescribeStreak(res.CurrentStreak))
	b.WriteString("Tips:\n")
	b.WriteString(Tip(best.Key))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Focus on your strongest time control (%s) for rating gains. Review your last 3 losses in %s to identify tactical patterns.", best.Key, worst.Key)

	return b.String(), nil
}

// Tip returns advice for the given time class.
func Tip(timeClass string) string {
	if tip, ok := tips[timeClass]; ok {
		return tip
	}
	return fmt.Sprintf("Your strongest format is %s. Keep playing it to maximize rating gains.", timeClass)
}

// DescribeStreak renders a streak as e.g. "3 wins" or "1 loss".
func DescribeStreak(s models.Streak) string {
	switch s.Type {
	case models.StreakWin:
		return plural(s.Length, "win", "wins")
	case models.StreakLoss:
		return plural(s.Length, "loss", "losses")
	default:
		return "none"
	}
}

// Percent formats a 0..1 ratio with one decimal.
func Percent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

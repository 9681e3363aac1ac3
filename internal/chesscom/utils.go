package chesscom

import (
	"path"
	"strings"

	"github.com/vytor/chesspulse/internal/models"
)

var outcomes = map[string]models.Outcome{
	"win": models.Win,

	"agreed":             models.Draw,
	"repetition":         models.Draw,
	"stalemate":          models.Draw,
	"insufficient":       models.Draw,
	"50move":             models.Draw,
	"timevsinsufficient": models.Draw,

	"checkmated": models.Loss,
	"timeout":    models.Loss,
	"resigned":   models.Loss,
	"abandoned":  models.Loss,
	"lose":       models.Loss,
}

// Classify maps a chess.com result code to an outcome. ok is false for codes
// outside the known sets, including variant results such as "kingofthehill".
func Classify(code string) (outcome models.Outcome, ok bool) {
	outcome, ok = outcomes[strings.ToLower(strings.TrimSpace(code))]
	return outcome, ok
}

// PlayerSide returns the side the given user played in mg.
func PlayerSide(username string, mg MonthlyGame) (Player, bool) {
	switch {
	case strings.EqualFold(mg.White.Username, username):
		return mg.White, true
	case strings.EqualFold(mg.Black.Username, username):
		return mg.Black, true
	default:
		return Player{}, false
	}
}

// GameID extracts the numeric game id from a chess.com game URL.
func GameID(gameURL string) string {
	if gameURL == "" {
		return ""
	}
	return path.Base(strings.TrimRight(gameURL, "/"))
}

// RecentArchives returns the last n archive URLs.
func RecentArchives(archives []string, n int) []string {
	if n <= 0 || len(archives) <= n {
		return archives
	}
	return archives[len(archives)-n:]
}

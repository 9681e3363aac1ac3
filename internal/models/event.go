package models

import "time"

const (
	// ServiceChess is the only service events are recorded under.
	ServiceChess = "chess"
	// EventTypeRequest is the fixed event type for ingested games.
	EventTypeRequest = "request"
	// UnknownTimeClass is used when the provider omits a time class.
	UnknownTimeClass = "unknown"
)

// Outcome is the result of a game from the tracked player's point of view.
type Outcome int

const (
	Loss Outcome = -1
	Draw Outcome = 0
	Win  Outcome = 1
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Draw:
		return "draw"
	case Loss:
		return "loss"
	default:
		return "unknown"
	}
}

// Valid reports whether o is one of the three storable outcomes.
func (o Outcome) Valid() bool {
	return o == Win || o == Draw || o == Loss
}

// GameEvent is one finished game, stored append-only.
type GameEvent struct {
	ID        int64     `json:"id"`
	Service   string    `json:"service"`
	Type      string    `json:"type"`
	Route     string    `json:"route"`
	Status    Outcome   `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	Player    string    `json:"player"`
}

// Bucket returns the time class the event was played in, without the leading slash.
func (e GameEvent) Bucket() string {
	return BucketFromRoute(e.Route)
}

// RouteFor builds the route stored for a time class.
func RouteFor(timeClass string) string {
	if timeClass == "" {
		timeClass = UnknownTimeClass
	}
	return "/" + timeClass
}

// BucketFromRoute strips the leading slash of a route; an empty route is "unknown".
func BucketFromRoute(route string) string {
	if route == "" {
		return UnknownTimeClass
	}
	if route[0] == '/' {
		return route[1:]
	}
	return route
}

// EventFilter narrows event queries. Zero values mean "no constraint".
type EventFilter struct {
	Service string
	Player  string
	Since   time.Time
	Until   time.Time
}

// IngestResult summarizes one ingestion run.
type IngestResult struct {
	Username        string `json:"username"`
	GamesIngested   int    `json:"gamesIngested"`
	TotalGames      int    `json:"totalGames"`
	SkippedExisting int    `json:"skippedExisting"`
	SkippedUnknown  int    `json:"skippedUnknown"`
	Message         string `json:"message"`
}

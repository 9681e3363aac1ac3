package stats

import (
	"time"

	"github.com/vytor/chesspulse/internal/models"
)

const (
	KPIWindowDays       = 7
	DailyWindowDays     = 30
	TimeClassWindowDays = 60
)

// Dashboard builds the dashboard payload from events covering the last
// TimeClassWindowDays, ordered by CreatedAt ascending.
func Dashboard(events []models.GameEvent, now time.Time) models.Dashboard {
	return models.Dashboard{
		KPIs:        KPIs(Filter(events, Since(now, KPIWindowDays)), events),
		Daily:       Daily(Filter(events, Since(now, DailyWindowDays)), now, DailyWindowDays),
		ByTimeClass: Buckets(events),
	}
}

// KPIs summarizes recent events. LastIngested is taken from all, the wider window.
func KPIs(recent, all []models.GameEvent) models.DashboardKPIs {
	kpis := models.DashboardKPIs{Games: len(recent)}
	for _, e := range recent {
		if e.Status == models.Win {
			kpis.Wins++
		}
	}
	kpis.WinRate = rate(kpis.Wins, kpis.Games)
	if len(all) > 0 {
		last := all[len(all)-1].CreatedAt
		kpis.LastIngested = &last
	}
	return kpis
}

// Daily returns one point per UTC date from now-days to now inclusive,
// with zero-filled days for dates without games.
func Daily(events []models.GameEvent, now time.Time, days int) []models.DailyPoint {
	byDate := make(map[string]*models.DailyPoint)
	for _, e := range events {
		key := e.CreatedAt.UTC().Format(time.DateOnly)
		p, ok := byDate[key]
		if !ok {
			p = &models.DailyPoint{Date: key}
			byDate[key] = p
		}
		p.Games++
		if e.Status == models.Win {
			p.Wins++
		}
	}

	points := make([]models.DailyPoint, 0, days+1)
	for i := days; i >= 0; i-- {
		key := now.Add(-time.Duration(i) * 24 * time.Hour).UTC().Format(time.DateOnly)
		p := models.DailyPoint{Date: key}
		if got, ok := byDate[key]; ok {
			p = *got
		}
		p.WinRate = rate(p.Wins, p.Games)
		points = append(points, p)
	}
	return points
}

package services

import (
	"sort"
	"time"
)

// DateWindow is one candidate stay: a start/end date pair with the fare at
// the start date. Windows compete on score; overlapping windows are allowed
// to rank side by side.
type DateWindow struct {
	Start string  `json:"start"`
	End   string  `json:"end"`
	Price float64 `json:"price"`
}

const topWindowCount = 3

// RankWindows scores every feasible stay of stayLen days against the grid
// and returns up to three windows, cheapest-looking first. grid is indexed
// by day offset from monthStart. Ties keep their original offset order.
func RankWindows(grid []PriceSample, monthStart time.Time, stats PriceStatistics, stayLen int) []DateWindow {
	type scored struct {
		score  float64
		window DateWindow
	}

	n := len(grid) - stayLen
	if n < 0 {
		n = 0
	}

	windows := make([]scored, 0, n)
	for i := 0; i < n; i++ {
		start := monthStart.AddDate(0, 0, i)
		end := start.AddDate(0, 0, stayLen)
		price := grid[i].Price

		windows = append(windows, scored{
			score: baselineScore(price, stats, weekdayBias(start)),
			window: DateWindow{
				Start: start.Format("2006-01-02"),
				End:   end.Format("2006-01-02"),
				Price: price,
			},
		})
	}

	sort.SliceStable(windows, func(i, j int) bool { return windows[i].score < windows[j].score })

	top := make([]DateWindow, 0, topWindowCount)
	for i := 0; i < len(windows) && i < topWindowCount; i++ {
		top = append(top, windows[i].window)
	}
	return top
}

// baselineScore measures how expensive a fare looks against the month's
// baseline; lower is better. Weights favour distance from the monthly
// minimum, then the lower quartile, then the median, with a penalty for
// rising prices and for weekend departures.
func baselineScore(price float64, stats PriceStatistics, bias float64) float64 {
	overMin := (price - stats.Min) / maxFloat(1.0, stats.Min)
	overP25 := (price - stats.P25) / maxFloat(1.0, stats.P25)
	overMed := (price - stats.Median) / maxFloat(1.0, stats.Median)

	score := 0.5*overMin + 0.3*overP25 + 0.2*overMed
	score += 0.2*stats.Trend3d + 0.05*bias
	return score
}

// weekdayBias penalizes weekend departures: demand pricing makes Friday to
// Sunday starts a little worse, Saturday most of all.
func weekdayBias(d time.Time) float64 {
	switch d.Weekday() {
	case time.Friday:
		return 0.05
	case time.Saturday:
		return 0.08
	case time.Sunday:
		return 0.06
	default:
		return 0.0
	}
}

package services

import (
	"fmt"
	"sort"
)

// PriceStatistics are the descriptive features derived from one month of
// fares. Field names follow the established wire format.
type PriceStatistics struct {
	Min     float64 `json:"pmin"`
	P25     float64 `json:"p25"`
	Median  float64 `json:"p50"`
	Trend3d float64 `json:"trend3d"`
}

// ComputeStats derives baseline features from a non-empty price sequence.
//
// The median and p25 use crude order-statistic indexes (len/2 and
// max(0, len/4-1)) rather than interpolated percentiles. Downstream scoring
// was tuned against these exact values, so they are kept as-is.
//
// Trend3d compares the mean of the last 3 samples against the mean of the 3
// before them, in the sequence's original (temporal) order; it is 0 when
// fewer than 6 samples exist.
func ComputeStats(prices []float64) (PriceStatistics, error) {
	if len(prices) == 0 {
		return PriceStatistics{}, fmt.Errorf("%w: empty price sequence", ErrInvalidArgument)
	}

	sorted := make([]float64, len(prices))
	copy(sorted, prices)
	sort.Float64s(sorted)

	stats := PriceStatistics{
		Min:    sorted[0],
		Median: sorted[len(sorted)/2],
		P25:    sorted[maxInt(0, len(sorted)/4-1)],
	}

	if len(prices) >= 6 {
		recent := mean(prices[len(prices)-3:])
		prev := mean(prices[len(prices)-6 : len(prices)-3])
		stats.Trend3d = (recent - prev) / maxFloat(1.0, prev)
	}

	return stats, nil
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

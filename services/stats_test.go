package services

import (
	"errors"
	"math"
	"testing"
)

func TestComputeStats_DecliningWeek(t *testing.T) {
	stats, err := ComputeStats([]float64{100, 90, 80, 70, 60, 50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.Min != 50 {
		t.Errorf("expected min 50, got %v", stats.Min)
	}
	if stats.Median != 80 {
		t.Errorf("expected median 80 (index len/2 of sorted), got %v", stats.Median)
	}
	if stats.P25 != 50 {
		t.Errorf("expected p25 50 (index max(0,len/4-1)), got %v", stats.P25)
	}

	// (mean(70,60,50) - mean(100,90,80)) / mean(100,90,80) = (60-90)/90
	want := -30.0 / 90.0
	if math.Abs(stats.Trend3d-want) > 1e-9 {
		t.Errorf("expected trend3d %.4f, got %.4f", want, stats.Trend3d)
	}
}

func TestComputeStats_TrendUsesTemporalOrder(t *testing.T) {
	// Same multiset as the declining series, but rising: trend must flip sign.
	stats, err := ComputeStats([]float64{50, 60, 70, 80, 90, 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Trend3d <= 0 {
		t.Errorf("expected positive trend for rising prices, got %v", stats.Trend3d)
	}
}

func TestComputeStats_ShortSequences(t *testing.T) {
	stats, err := ComputeStats([]float64{120, 80, 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Trend3d != 0 {
		t.Errorf("expected trend 0 below 6 samples, got %v", stats.Trend3d)
	}
	if stats.Min != 80 || stats.Median != 100 || stats.P25 != 80 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	single, err := ComputeStats([]float64{42})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if single.Min != 42 || single.Median != 42 || single.P25 != 42 {
		t.Errorf("single sample should pin all stats to 42: %+v", single)
	}
}

func TestComputeStats_Ordering(t *testing.T) {
	seqs := [][]float64{
		{1},
		{5, 5, 5, 5},
		{9, 3, 7, 1, 5, 2, 8},
		{100, 90, 80, 70, 60, 50},
		{0.5, 200, 13, 13, 13},
	}
	for _, seq := range seqs {
		stats, err := ComputeStats(seq)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stats.Min > stats.Median {
			t.Errorf("%v: min %v > median %v", seq, stats.Min, stats.Median)
		}
		if len(seq) >= 4 && stats.Min > stats.P25 {
			t.Errorf("%v: min %v > p25 %v", seq, stats.Min, stats.P25)
		}
	}
}

func TestComputeStats_EmptyIsInvalid(t *testing.T) {
	_, err := ComputeStats(nil)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

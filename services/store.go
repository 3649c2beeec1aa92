package services

import (
	"encoding/json"
	"fmt"
	"os"
)

// PriceStore holds the mock fare grids, keyed "ORIGIN->DEST:YYYY-MM".
// Loaded once at startup and read-only afterwards, so no locking is needed.
type PriceStore struct {
	grids map[string][]PriceSample
}

// NewPriceStore reads the mock dataset from path (default sample_prices.json,
// overridable via MOCK_PRICES_FILE).
func NewPriceStore(path string) (*PriceStore, error) {
	if path == "" {
		path = "sample_prices.json"
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mock prices: %w", err)
	}

	grids := make(map[string][]PriceSample)
	if err := json.Unmarshal(raw, &grids); err != nil {
		return nil, fmt.Errorf("failed to parse mock prices: %w", err)
	}

	return &PriceStore{grids: grids}, nil
}

// Lookup returns the fare grid for a route/month, if the dataset has one.
func (s *PriceStore) Lookup(origin, destination, month string) ([]PriceSample, bool) {
	key := fmt.Sprintf("%s->%s:%s", origin, destination, month)
	grid, ok := s.grids[key]
	return grid, ok
}

// Routes lists the keys the dataset covers, for the health endpoint.
func (s *PriceStore) Routes() int {
	return len(s.grids)
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request / response types ─────────────────────────────────────────────────

type ItineraryLeg struct {
	Departure string `json:"departure"`
	Arrival   string `json:"arrival"`
}

// Itinerary is one live fare option supplied by the caller, in the shape the
// round-trip search proxy emits.
type Itinerary struct {
	Price  float64        `json:"price"`
	Depart string         `json:"depart,omitempty"`
	Legs   []ItineraryLeg `json:"legs,omitempty"`
}

type RecommendRequest struct {
	Origin      string `json:"origin" binding:"required"`
	Destination string `json:"destination" binding:"required"`
	Month       string `json:"month" binding:"required"` // YYYY-MM
	StayLen     int    `json:"stay_len" binding:"required,gt=0"`

	// Live fare options; preferred over the mock dataset when at least one
	// carries a usable price.
	Itineraries []Itinerary `json:"itineraries,omitempty"`

	// Raw provider payload plus optional hints on where/how to read it.
	Data       map[string]any `json:"data,omitempty"`
	RootPath   string         `json:"root_path,omitempty"`
	DateField  string         `json:"date_field,omitempty"`
	PriceField string         `json:"price_field,omitempty"`
}

// PackagePlan is one packaged pricing tier for the trip.
type PackagePlan struct {
	Tier        string   `json:"tier"`
	TotalBudget float64  `json:"total_budget"`
	FlightPrice float64  `json:"flight_price"`
	HotelPrice  float64  `json:"hotel_price"`
	Activities  []string `json:"activities"`
}

// RecommendationResult is the sole artifact the orchestrator returns; it is
// built fresh per request and never mutated afterwards.
type RecommendationResult struct {
	Decision         string          `json:"decision"`
	Confidence       float64         `json:"confidence"`
	BestWindows      []DateWindow    `json:"best_windows"`
	Rationale        string          `json:"rationale"`
	BaselineFeatures PriceStatistics `json:"baseline_features"`
	Packages         []PackagePlan   `json:"packages"`
	Source           string          `json:"source"`
}

// recommendPayload is the structured exchange sent to the AI collaborator.
type recommendPayload struct {
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	Month       string          `json:"month"`
	StayLen     int             `json:"stay_len"`
	Source      string          `json:"source"`
	Stats       PriceStatistics `json:"stats"`
	BestWindows []DateWindow    `json:"best_windows"`
}

const maxActivities = 4

// ─── Recommender ─────────────────────────────────────────────────────────────

// Recommender turns a route/month request into a book-or-wait recommendation.
// The AI collaborator is injected; a nil Generator is legal and selects the
// deterministic heuristic path.
type Recommender struct {
	ai    Generator
	store *PriceStore
}

func NewRecommender(ai Generator, store *PriceStore) *Recommender {
	return &Recommender{ai: ai, store: store}
}

func (r *Recommender) Recommend(ctx context.Context, req RecommendRequest) (*RecommendationResult, error) {
	monthStart, err := time.Parse("2006-01", req.Month)
	if err != nil {
		return nil, fmt.Errorf("%w: month must be YYYY-MM", ErrInvalidArgument)
	}

	grid, source, err := r.resolveGrid(req, monthStart)
	if err != nil {
		return nil, err
	}

	prices := make([]float64, len(grid))
	for i, s := range grid {
		prices[i] = s.Price
	}

	stats, err := ComputeStats(prices)
	if err != nil {
		return nil, err
	}

	windows := RankWindows(grid, monthStart, stats, req.StayLen)

	payload := recommendPayload{
		Origin:      req.Origin,
		Destination: req.Destination,
		Month:       req.Month,
		StayLen:     req.StayLen,
		Source:      source,
		Stats:       stats,
		BestWindows: windows,
	}

	if r.ai == nil {
		return heuristicResult(payload), nil
	}

	raw, err := r.ai.Generate(ctx, buildRecommendPrompt(payload))
	if err != nil {
		return nil, &UpstreamError{Op: "recommend", Err: err}
	}

	var aiOut map[string]any
	cleaned := stripCodeFences(raw)
	if cleaned == "" || json.Unmarshal([]byte(cleaned), &aiOut) != nil {
		return nil, &UpstreamError{Op: "recommend", Raw: raw}
	}

	result := heuristicResult(payload)
	applyAIOutput(result, aiOut, stats)
	return result, nil
}

// resolveGrid picks the price source: inline provider blob, then live
// itineraries, then the mock dataset.
func (r *Recommender) resolveGrid(req RecommendRequest, monthStart time.Time) ([]PriceSample, string, error) {
	if req.Data != nil {
		grid, err := NormalizePriceGrid(req.Data, req.RootPath, req.DateField, req.PriceField)
		if err != nil {
			return nil, "", err
		}
		return grid, "inline", nil
	}

	if len(req.Itineraries) > 0 {
		if grid := itineraryGrid(req.Itineraries, monthStart); len(grid) > 0 {
			return grid, "live", nil
		}
		log.Println("⚠️  Supplied itineraries had no usable prices — falling back to mock data")
	}

	if grid, ok := r.store.Lookup(req.Origin, req.Destination, req.Month); ok {
		return grid, "mock", nil
	}
	return nil, "", ErrNotFound
}

// itineraryGrid converts live fare options into price samples. The departure
// date comes from the itinerary's depart field or its first leg; options
// without a resolvable date are placed on consecutive days from month start.
func itineraryGrid(its []Itinerary, monthStart time.Time) []PriceSample {
	out := make([]PriceSample, 0, len(its))
	for _, it := range its {
		if it.Price <= 0 {
			continue
		}

		date, ok := toISODate(it.Depart)
		if !ok && len(it.Legs) > 0 {
			date, ok = toISODate(it.Legs[0].Departure)
		}
		if !ok {
			date = monthStart.AddDate(0, 0, len(out)).Format("2006-01-02")
		}

		out = append(out, PriceSample{Date: date, Price: it.Price})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// ─── AI exchange ─────────────────────────────────────────────────────────────

func buildRecommendPrompt(p recommendPayload) string {
	payloadJSON, _ := json.MarshalIndent(p, "", "  ")

	return fmt.Sprintf(`You are a flight pricing analyst. Based on the statistics below, decide whether the traveler should book now or wait, and package the trip into pricing tiers.

%s

Respond with ONLY a JSON object, no prose and no Markdown fences:
{
  "decision": "book" or "wait",
  "confidence": number between 0 and 1,
  "rationale": "2-3 plain sentences referencing the numbers",
  "packages": [
    {"tier": "budget|comfort|luxury", "total_budget": number, "flight_price": number, "hotel_price": number, "activities": ["up to 4 short strings"]}
  ]
}`, payloadJSON)
}

// applyAIOutput overlays the model's decision onto the heuristic baseline,
// clamping anything out of range. The AI response is untrusted: wrong types
// and missing fields degrade to defaults instead of failing the request.
func applyAIOutput(result *RecommendationResult, aiOut map[string]any, stats PriceStatistics) {
	decision := strings.ToLower(strings.TrimSpace(coerceString(aiOut["decision"])))
	if decision != "book" && decision != "wait" {
		decision = "book"
	}
	result.Decision = decision

	confidence := 0.5
	if f, ok := toFloat(aiOut["confidence"]); ok {
		confidence = f
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	result.Confidence = confidence

	if rationale := strings.TrimSpace(coerceString(aiOut["rationale"])); rationale != "" {
		result.Rationale = rationale
	}

	if packages := validatePackages(aiOut["packages"]); len(packages) > 0 {
		result.Packages = packages
	}
}

// validatePackages keeps only well-formed package entries. Non-mapping
// entries are dropped, numeric fields coerced, activity lists truncated.
func validatePackages(raw any) []PackagePlan {
	list, ok := raw.([]any)
	if !ok {
		return nil
	}

	out := make([]PackagePlan, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}

		plan := PackagePlan{
			Tier:       strings.TrimSpace(coerceString(m["tier"])),
			Activities: []string{},
		}
		if plan.Tier == "" {
			continue
		}

		plan.TotalBudget, _ = toFloat(m["total_budget"])
		plan.FlightPrice, _ = toFloat(m["flight_price"])
		plan.HotelPrice, _ = toFloat(m["hotel_price"])
		if plan.TotalBudget <= 0 {
			continue
		}

		if acts, ok := m["activities"].([]any); ok {
			for _, a := range acts {
				if s := strings.TrimSpace(coerceString(a)); s != "" {
					plan.Activities = append(plan.Activities, s)
				}
				if len(plan.Activities) == maxActivities {
					break
				}
			}
		}

		out = append(out, plan)
	}
	return out
}

// ─── Heuristic fallback ──────────────────────────────────────────────────────

// heuristicResult builds a full recommendation without any AI involvement.
func heuristicResult(p recommendPayload) *RecommendationResult {
	topPrice := p.Stats.Min
	if len(p.BestWindows) > 0 {
		topPrice = p.BestWindows[0].Price
	}

	decision, confidence := SimpleRule(topPrice, p.Stats.Min, p.Stats.P25, p.Stats.Median, p.Stats.Trend3d)

	trendPhrase := "stable/rising"
	if p.Stats.Trend3d < 0 {
		trendPhrase = "falling"
	}
	advice := "book now."
	if decision == "wait" {
		advice = "wait briefly."
	}
	rationale := fmt.Sprintf(
		"Best window is near the monthly minimum (£%.0f vs min £%.0f). "+
			"Prices are %s over the last 3 days; therefore we recommend to %s",
		topPrice, p.Stats.Min, trendPhrase, advice,
	)

	return &RecommendationResult{
		Decision:         decision,
		Confidence:       confidence,
		BestWindows:      p.BestWindows,
		Rationale:        rationale,
		BaselineFeatures: p.Stats,
		Packages:         defaultPackages(p.Stats),
		Source:           p.Source,
	}
}

// defaultPackages synthesizes the three fixed tiers from the monthly
// baseline when the AI supplies none.
func defaultPackages(stats PriceStatistics) []PackagePlan {
	tiers := []struct {
		name       string
		total      float64
		activities []string
	}{
		{"budget", 0.95 * stats.Min, []string{
			"Free walking tour",
			"Local street food crawl",
			"Public beach or park day",
			"Self-guided old town loop",
		}},
		{"comfort", (stats.Min + stats.Median) / 2, []string{
			"Guided city tour",
			"Museum day pass",
			"Food market tasting",
			"Day trip by rail",
		}},
		{"luxury", 1.35 * stats.Median, []string{
			"Private city tour",
			"Fine dining experience",
			"Spa afternoon",
			"Sunset boat cruise",
		}},
	}

	out := make([]PackagePlan, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, PackagePlan{
			Tier:        t.name,
			TotalBudget: round2(t.total),
			FlightPrice: round2(0.55 * t.total),
			HotelPrice:  round2(0.35 * t.total),
			Activities:  t.activities,
		})
	}
	return out
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// stripCodeFences removes a Markdown code fence (``` or ```json) wrapping
// the model output, if present.
func stripCodeFences(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if i := strings.Index(t, "\n"); i >= 0 {
		t = t[i+1:] // drop the language tag line
	} else {
		t = ""
	}
	if i := strings.LastIndex(t, "```"); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}

func coerceString(v any) string {
	s, _ := v.(string)
	return s
}

func round2(x float64) float64 {
	f, _ := decimal.NewFromFloat(x).Round(2).Float64()
	return f
}

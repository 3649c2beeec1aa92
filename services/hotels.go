package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const defaultNightlyBudget = 200

type HotelRequest struct {
	Destination    string  `form:"destination" binding:"required"`
	ArrivalDate    string  `form:"arrival_date" binding:"required"`
	DepartureDate  string  `form:"departure_date" binding:"required"`
	BudgetPerNight float64 `form:"budget_per_night"`
	Travelers      int     `form:"travelers"`
	Purpose        string  `form:"purpose"`
	PropertyType   string  `form:"property_type"`
	Vibe           string  `form:"vibe"`
	MustHave       string  `form:"must_have"` // comma-separated amenities
}

type HotelIdea struct {
	Name                string   `json:"name"`
	Area                string   `json:"area"`
	ApproxPricePerNight float64  `json:"approx_price_per_night"`
	Suitability         string   `json:"suitability"`
	Pros                []string `json:"pros"`
	Cons                []string `json:"cons"`
	BookingLink         string   `json:"booking_link"`
}

type HotelDates struct {
	Arrival   string `json:"arrival"`
	Departure string `json:"departure"`
}

type HotelResponse struct {
	Destination string      `json:"destination"`
	Dates       HotelDates  `json:"dates"`
	Hotels      []HotelIdea `json:"hotels"`
	Notes       string      `json:"notes"`
}

// HotelFinder asks the AI collaborator for stay suggestions and cleans up
// whatever it returns. Unlike the recommender it has no deterministic
// fallback, so it requires a configured Generator.
type HotelFinder struct {
	ai Generator
}

func NewHotelFinder(ai Generator) *HotelFinder {
	return &HotelFinder{ai: ai}
}

func (h *HotelFinder) FindHotels(ctx context.Context, req HotelRequest) (*HotelResponse, error) {
	if req.BudgetPerNight <= 0 {
		req.BudgetPerNight = defaultNightlyBudget
	}
	if req.Travelers <= 0 {
		req.Travelers = 1
	}

	if h.ai == nil {
		return nil, &UpstreamError{Op: "hotels", Err: fmt.Errorf("no AI collaborator configured")}
	}

	raw, err := h.ai.Generate(ctx, buildHotelPrompt(req))
	if err != nil {
		return nil, &UpstreamError{Op: "hotels", Err: err}
	}

	hotels, notes, ok := parseHotelList(stripCodeFences(raw))
	if !ok {
		return nil, &UpstreamError{Op: "hotels", Raw: raw}
	}

	out := make([]HotelIdea, 0, len(hotels))
	for _, rec := range hotels {
		idea := HotelIdea{
			Name:        strings.TrimSpace(coerceString(rec["name"])),
			Area:        strings.TrimSpace(coerceString(rec["area"])),
			Suitability: strings.TrimSpace(coerceString(rec["suitability"])),
			Pros:        coerceStrings(rec["pros"]),
			Cons:        coerceStrings(rec["cons"]),
		}
		if idea.Name == "" {
			continue
		}

		// Models occasionally hand back price strings, ranges or nothing
		// at all; treat the requested budget as the floor of plausibility.
		price, ok := toFloat(rec["approx_price_per_night"])
		if !ok || price <= 0 {
			price = req.BudgetPerNight
		}
		idea.ApproxPricePerNight = round2(price)

		idea.BookingLink = bookingSearchURL(idea.Name, req.Destination, req.ArrivalDate, req.DepartureDate)
		out = append(out, idea)
	}

	return &HotelResponse{
		Destination: req.Destination,
		Dates:       HotelDates{Arrival: req.ArrivalDate, Departure: req.DepartureDate},
		Hotels:      out,
		Notes:       notes,
	}, nil
}

func buildHotelPrompt(req HotelRequest) string {
	amenities := strings.TrimSpace(req.MustHave)
	if amenities == "" {
		amenities = "clean, comfortable"
	}

	return fmt.Sprintf(`You are a travel concierge. Suggest up to 5 real, well-reviewed places to stay.

Destination: %s
Dates: %s to %s
Budget per night: %.0f
Travelers: %d
Purpose: %s
Property type: %s
Wanted vibe: %s
Must-have amenities: %s

Respond with ONLY a JSON object, no prose and no Markdown fences:
{
  "hotels": [
    {"name": "...", "area": "...", "approx_price_per_night": number, "suitability": "one sentence", "pros": ["..."], "cons": ["..."]}
  ],
  "notes": "one short paragraph of general advice"
}`,
		req.Destination, req.ArrivalDate, req.DepartureDate,
		req.BudgetPerNight, req.Travelers,
		orDefault(req.Purpose, "leisure"),
		orDefault(req.PropertyType, "Hotel"),
		orDefault(req.Vibe, "Modern"),
		amenities,
	)
}

// parseHotelList accepts either {"hotels": [...], "notes": "..."} or a bare
// list of hotel objects.
func parseHotelList(cleaned string) ([]map[string]any, string, bool) {
	if cleaned == "" {
		return nil, "", false
	}

	var root any
	if err := json.Unmarshal([]byte(cleaned), &root); err != nil {
		return nil, "", false
	}

	notes := ""
	var rawList []any
	switch v := root.(type) {
	case []any:
		rawList = v
	case map[string]any:
		rawList, _ = v["hotels"].([]any)
		notes = coerceString(v["notes"])
	default:
		return nil, "", false
	}

	hotels := make([]map[string]any, 0, len(rawList))
	for _, item := range rawList {
		if m, ok := item.(map[string]any); ok {
			hotels = append(hotels, m)
		}
	}
	return hotels, notes, true
}

// bookingSearchURL builds a deterministic booking.com search link from the
// hotel name, destination and stay date components.
func bookingSearchURL(name, destination, checkin, checkout string) string {
	q := url.Values{}
	q.Set("ss", name+" "+destination)

	if ci, err := time.Parse("2006-01-02", checkin); err == nil {
		q.Set("checkin_year", fmt.Sprintf("%d", ci.Year()))
		q.Set("checkin_month", fmt.Sprintf("%d", int(ci.Month())))
		q.Set("checkin_monthday", fmt.Sprintf("%d", ci.Day()))
	}
	if co, err := time.Parse("2006-01-02", checkout); err == nil {
		q.Set("checkout_year", fmt.Sprintf("%d", co.Year()))
		q.Set("checkout_month", fmt.Sprintf("%d", int(co.Month())))
		q.Set("checkout_monthday", fmt.Sprintf("%d", co.Day()))
	}

	return "https://www.booking.com/searchresults.html?" + q.Encode()
}

func coerceStrings(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s := strings.TrimSpace(coerceString(item)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

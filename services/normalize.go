package services

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// PriceSample is one point of a normalized price grid: an ISO date plus a
// fare for that day. Sequences are sorted ascending by date.
type PriceSample struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// Candidate keys tried, in order, when the caller gives no field hints.
// The order is part of the contract — upstream providers disagree on names,
// and the first match wins.
var (
	wrapperKeyCandidates = []string{"data", "results", "items", "flights", "prices"}
	dateKeyCandidates    = []string{"date", "day", "depart", "departureDate", "startDate", "dTimeUTC", "outboundDate"}
	priceKeyCandidates   = []string{"price", "amount", "fare", "value", "total", "minPrice"}
	nestedPriceKeys      = []string{"amount", "value", "total"}
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02 Jan 2006",
	"January 2, 2006",
}

// NormalizePriceGrid turns an arbitrarily-shaped JSON payload into an
// ordered sequence of (date, price) samples. It is a best-effort heuristic,
// not a schema validator: entries it cannot make sense of are dropped
// silently, and only a fully unusable payload is an error.
//
// rootPath is an optional dot-separated key path (e.g. "results.items") to
// the entry list; dateField and priceField override key guessing per entry.
func NormalizePriceGrid(blob any, rootPath, dateField, priceField string) ([]PriceSample, error) {
	arr := blob
	if rootPath != "" {
		arr = digPath(blob, rootPath)
	}

	// A mapping may wrap the list under a well-known key, or under anything.
	if m, ok := arr.(map[string]any); ok {
		found := false
		for _, k := range wrapperKeyCandidates {
			if list, ok := m[k].([]any); ok {
				arr = list
				found = true
				break
			}
		}
		if !found {
			for _, k := range sortedKeys(m) {
				if list, ok := m[k].([]any); ok {
					arr = list
					break
				}
			}
		}
	}

	list, ok := arr.([]any)
	if !ok {
		return nil, &ShapeError{Reason: "could not locate an array of entries in provided JSON"}
	}

	out := make([]PriceSample, 0, len(list))
	for _, item := range list {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}

		dateVal, ok := resolveDate(rec, dateField)
		if !ok {
			continue
		}
		priceVal, ok := resolvePrice(rec, priceField)
		if !ok {
			continue
		}

		out = append(out, PriceSample{Date: dateVal, Price: priceVal})
	}

	if len(out) == 0 {
		return nil, &ShapeError{Reason: "no valid (date, price) pairs found after normalization"}
	}

	// ISO-8601 is fixed-width, so lexicographic order is chronological order.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// digPath walks obj along a dot path like "results.items". Missing keys
// yield nil rather than an error; the caller falls through to its other
// location strategies.
func digPath(obj any, path string) any {
	cur := obj
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[part]
		if !ok {
			return nil
		}
	}
	return cur
}

// guessKey picks the first candidate present in rec, matching exactly first
// and case-insensitively second.
func guessKey(candidates []string, rec map[string]any) string {
	for _, c := range candidates {
		if _, ok := rec[c]; ok {
			return c
		}
	}
	lower := make(map[string]string, len(rec))
	for _, k := range sortedKeys(rec) {
		lk := strings.ToLower(k)
		if _, seen := lower[lk]; !seen {
			lower[lk] = k
		}
	}
	for _, c := range candidates {
		if k, ok := lower[strings.ToLower(c)]; ok {
			return k
		}
	}
	return ""
}

func resolveDate(rec map[string]any, hint string) (string, bool) {
	key := hint
	if key == "" {
		key = guessKey(dateKeyCandidates, rec)
	}
	if key != "" {
		return toISODate(rec[key])
	}
	// No recognizable key: accept the first string field that parses as a date.
	for _, k := range sortedKeys(rec) {
		if s, ok := rec[k].(string); ok {
			if iso, ok := toISODate(s); ok {
				return iso, true
			}
		}
	}
	return "", false
}

func resolvePrice(rec map[string]any, hint string) (float64, bool) {
	key := hint
	if key == "" {
		key = guessKey(priceKeyCandidates, rec)
	}

	var raw any
	if key != "" {
		raw = rec[key]
	}

	// Providers sometimes nest the fare inside a money object.
	if m, ok := raw.(map[string]any); ok {
		raw = nil
		for _, k := range nestedPriceKeys {
			if f, ok := toFloat(m[k]); ok && f != 0 {
				raw = f
				break
			}
		}
	}

	if raw == nil {
		// Last resort: first numeric field, looking one level into
		// mapping-valued fields as well.
		for _, k := range sortedKeys(rec) {
			v := rec[k]
			if f, ok := numeric(v); ok {
				raw = f
				break
			}
			if m, ok := v.(map[string]any); ok {
				for _, kk := range sortedKeys(m) {
					if f, ok := numeric(m[kk]); ok {
						raw = f
						break
					}
				}
				if raw != nil {
					break
				}
			}
		}
	}

	if raw == nil {
		return 0, false
	}
	return toFloat(raw)
}

// toISODate coerces a field value to a YYYY-MM-DD string. Accepts the usual
// date/datetime string layouts plus unix timestamps in seconds or millis
// (Kiwi-style dTimeUTC fields).
func toISODate(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return "", false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.Format("2006-01-02"), true
			}
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return unixToISO(n)
		}
		return "", false
	case float64:
		return unixToISO(int64(val))
	case int:
		return unixToISO(int64(val))
	case int64:
		return unixToISO(val)
	default:
		return "", false
	}
}

func unixToISO(n int64) (string, bool) {
	if n > 1e12 { // milliseconds
		n /= 1000
	}
	if n < 1e8 || n > 1e11 {
		return "", false
	}
	return time.Unix(n, 0).UTC().Format("2006-01-02"), true
}

// numeric reports whether v is a JSON number (not a numeric string).
func numeric(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	default:
		return 0, false
	}
}

// toFloat additionally coerces numeric strings ("123.45").
func toFloat(v any) (float64, bool) {
	if f, ok := numeric(v); ok {
		return f, true
	}
	if s, ok := v.(string); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// sortedKeys gives a stable iteration order over a decoded JSON object;
// Go maps would otherwise make the field scans nondeterministic.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

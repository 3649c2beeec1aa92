package services

// SimpleRule is the deterministic book/wait classifier used when no AI
// collaborator is available, and as the frame the orchestrator rationalizes
// against. Rules are checked in order; the first match wins.
func SimpleRule(price, pmin, p25, p50, trend float64) (string, float64) {
	if price <= minFloat(p25, pmin*1.08) {
		return "book", 0.8
	}
	if price >= p50*1.10 && trend < 0 {
		return "wait", 0.65
	}
	if trend < -0.03 {
		return "wait", 0.6
	}
	return "book", 0.55
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// ReportData feeds the downloadable recommendation report.
type ReportData struct {
	Origin      string
	Destination string
	Month       string
	StayLen     int
	Result      RecommendationResult
}

// GenerateReportBytes renders the recommendation as a branded PDF and
// returns raw bytes; nothing touches the filesystem.
func GenerateReportBytes(data ReportData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	// ── Header Bar ───────────────────────────────────────────
	pdf.SetFillColor(13, 24, 37)
	pdf.Rect(0, 0, 210, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(20, 8)
	pdf.CellFormat(100, 10, "FlyWise", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(212, 168, 67)
	pdf.SetXY(20, 18)
	pdf.CellFormat(170, 6, "AI Fare Intelligence Report", "", 1, "L", false, 0, "")

	pdf.SetY(35)
	pdf.SetTextColor(0, 0, 0)

	// ── Disclaimer ───────────────────────────────────────────
	pdf.SetFillColor(255, 248, 225)
	pdf.SetDrawColor(212, 168, 67)
	pdf.SetTextColor(130, 90, 20)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetLineWidth(0.4)
	y := pdf.GetY()
	pdf.Rect(20, y, 170, 12, "FD")
	pdf.SetXY(23, y+2)
	pdf.MultiCell(164, 4,
		"This is NOT a booking confirmation. Prices are statistical estimates and subject to change. Verify with providers before booking.",
		"", "C", false)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.2)
	pdf.Ln(6)

	// ── Section Helper ───────────────────────────────────────
	sectionHeader := func(title string) {
		pdf.SetFillColor(13, 24, 37)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(170, 8, "  "+title, "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(55, 7, label, "", 0, "L", false, 0, "")
		pdf.SetTextColor(20, 20, 20)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(115, 7, value, "", 1, "L", false, 0, "")
	}

	// ── Trip Overview ─────────────────────────────────────────
	sectionHeader("Trip Overview")
	row("Route", fmt.Sprintf("%s → %s", data.Origin, data.Destination))
	row("Month", data.Month)
	row("Stay length", fmt.Sprintf("%d days", data.StayLen))
	row("Generated", time.Now().Format("02 Jan 2006, 15:04 UTC"))
	pdf.Ln(4)

	// ── Verdict ──────────────────────────────────────────────
	sectionHeader("Verdict")
	verdict := "BOOK NOW"
	if data.Result.Decision == "wait" {
		verdict = "WAIT FOR A BETTER DEAL"
	}
	pdf.SetFillColor(212, 168, 67)
	pdf.SetTextColor(13, 24, 37)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(55, 9, verdict, "", 0, "L", true, 0, "")
	pdf.CellFormat(115, 9, fmt.Sprintf("Confidence %.0f%%", data.Result.Confidence*100), "", 1, "L", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(2)
	if data.Result.Rationale != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(40, 40, 40)
		pdf.MultiCell(170, 5, data.Result.Rationale, "", "L", false)
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(4)

	// ── Best Windows ─────────────────────────────────────────
	if len(data.Result.BestWindows) > 0 {
		sectionHeader("Best Travel Windows")
		for i, w := range data.Result.BestWindows {
			row(fmt.Sprintf("Option %d", i+1),
				fmt.Sprintf("%s → %s at £%.0f", fmtDateReadable(w.Start), fmtDateReadable(w.End), w.Price))
		}
		pdf.Ln(4)
	}

	// ── Market Snapshot ──────────────────────────────────────
	sectionHeader("Market Snapshot")
	stats := data.Result.BaselineFeatures
	row("Monthly minimum", fmt.Sprintf("£%.0f", stats.Min))
	row("25th percentile", fmt.Sprintf("£%.0f", stats.P25))
	row("Median", fmt.Sprintf("£%.0f", stats.Median))
	row("3-day trend", fmt.Sprintf("%+.1f%%", stats.Trend3d*100))
	pdf.Ln(4)

	// ── Packages ─────────────────────────────────────────────
	if len(data.Result.Packages) > 0 {
		sectionHeader("Curated Packages")
		for _, p := range data.Result.Packages {
			row(titleCase(p.Tier),
				fmt.Sprintf("£%.0f total (flight £%.0f, hotel £%.0f)", p.TotalBudget, p.FlightPrice, p.HotelPrice))
			if len(p.Activities) > 0 {
				pdf.SetFont("Helvetica", "", 9)
				pdf.SetTextColor(100, 100, 100)
				pdf.CellFormat(55, 5, "", "", 0, "L", false, 0, "")
				pdf.MultiCell(115, 5, strings.Join(p.Activities, " · "), "", "L", false)
				pdf.SetTextColor(0, 0, 0)
			}
		}
		pdf.Ln(4)
	}

	// ── Footer ────────────────────────────────────────────────
	pdf.SetY(-22)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.3)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(150, 150, 150)
	pdf.CellFormat(0, 8,
		"Generated by FlyWise Fare Intelligence · Not a booking confirmation · Prices subject to change",
		"", 0, "C", false, 0, "")

	// ── Write to buffer ───────────────────────────────────────
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF output failed: %w", err)
	}
	return buf.Bytes(), nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func fmtDateReadable(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02 Jan 2006")
}

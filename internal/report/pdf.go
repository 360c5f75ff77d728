// Package report renders risk assessments into PDF documents.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/jung-kurt/gofpdf"
	"github.com/montanaflynn/stats"

	"github.com/Anna948/WeatherWise-Pro/internal/observability"
	"github.com/Anna948/WeatherWise-Pro/internal/planner"
)

// Builder assembles weather risk PDF reports.
type Builder struct {
	clock   clockwork.Clock
	metrics *observability.Metrics
}

// NewBuilder creates a report builder.
func NewBuilder(clock clockwork.Clock, metrics *observability.Metrics) *Builder {
	return &Builder{clock: clock, metrics: metrics}
}

// Build renders a report for the primary assessment, with an optional
// comparison location on a second page, and returns the PDF bytes.
func (b *Builder) Build(primary planner.Assessment, comparison *planner.Assessment) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 12, "WeatherWise Weather Risk Report", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Arial", "I", 9)
	generated := b.clock.Now().UTC().Format("January 2, 2006 at 15:04 MST")
	pdf.CellFormat(0, 6, "Generated: "+generated, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	writeSection(pdf, primary, "Primary Location Analysis")

	if comparison != nil {
		pdf.AddPage()
		writeSection(pdf, *comparison, "Alternative Location Analysis")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	b.metrics.ReportsGenerated.Inc()
	return buf.Bytes(), nil
}

// writeSection adds one location's analysis: coordinates, risk
// percentages, recommendations, and a historical data summary.
func writeSection(pdf *gofpdf.Fpdf, a planner.Assessment, title string) {
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, cleanText(title), "", 1, "", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Coordinates: %.4f, %.4f", a.Location.Lat, a.Location.Lon), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Event window: %s to %s", a.Window.Start.Format("2006-01-02"), a.Window.End.Format("2006-01-02")), "", 1, "", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 8, "Weather Risk Analysis", "", 1, "", false, 0, "")
	pdf.Ln(1)

	writeRiskLine(pdf, fmt.Sprintf("Hot Day Risk (>%.0f deg C):", a.Thresholds.HotC), a.Risk.HotProb)
	writeRiskLine(pdf, fmt.Sprintf("Rainy Day Risk (>%.0f mm):", a.Thresholds.RainMM), a.Risk.RainProb)
	writeRiskLine(pdf, fmt.Sprintf("Cold Day Risk (<%.0f deg C):", a.Thresholds.ColdC), a.Risk.ColdProb)

	pdf.Ln(2)
	pdf.SetFont("Arial", "I", 9)
	pdf.MultiCell(0, 5, fmt.Sprintf("Analysis based on %d days of historical data from the NASA POWER Project (past 20 years)", a.Risk.TotalDays), "", "L", false)
	pdf.Ln(4)

	if len(a.Advice) > 0 {
		pdf.SetFont("Arial", "B", 13)
		pdf.CellFormat(0, 8, "Recommendations", "", 1, "", false, 0, "")
		pdf.Ln(1)

		pdf.SetFont("Arial", "", 10)
		for _, point := range a.Advice {
			if cleaned := cleanText(point); cleaned != "" {
				pdf.MultiCell(0, 5, "* "+cleaned, "", "L", false)
				pdf.Ln(1)
			}
		}
		pdf.Ln(3)
	}

	writeSummary(pdf, a)

	pdf.Ln(6)
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 5, "Data Sources: NASA POWER Project & Open-Meteo API", "", 1, "C", false, 0, "")
}

func writeRiskLine(pdf *gofpdf.Fpdf, label string, prob float64) {
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(90, 6, cleanText(label), "", 0, "", false, 0, "")
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("%.1f%%", prob), "", 1, "", false, 0, "")
}

// writeSummary renders descriptive statistics over the historical
// series backing the assessment.
func writeSummary(pdf *gofpdf.Fpdf, a planner.Assessment) {
	if len(a.Series) == 0 {
		return
	}

	temps := a.Series.MaxTemps()
	precips := a.Series.Precips()

	avgTemp, _ := stats.Mean(temps)
	maxTemp, _ := stats.Max(temps)
	minTemp, _ := stats.Min(temps)
	avgPrecip, _ := stats.Mean(precips)
	maxPrecip, _ := stats.Max(precips)

	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 8, "Historical Data Summary", "", 1, "", false, 0, "")
	pdf.Ln(1)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Average Maximum Temperature: %.1f deg C", avgTemp), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Highest Temperature: %.1f deg C", maxTemp), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Lowest Temperature: %.1f deg C", minTemp), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Average Daily Precipitation: %.1f mm", avgPrecip), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Maximum Daily Precipitation: %.1f mm", maxPrecip), "", 1, "", false, 0, "")
}

// cleanText makes a string safe for the PDF's Latin-1 fonts: degree
// notation is spelled out and any remaining non-Latin-1 runes (emoji,
// typographic punctuation) are dropped.
func cleanText(text string) string {
	text = strings.ReplaceAll(text, "°C", " deg C")
	text = strings.ReplaceAll(text, "°", " deg ")
	text = strings.ReplaceAll(text, "**", "")

	var b strings.Builder
	for _, r := range text {
		if r <= 0xFF {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"
)

const (
	reportTitle      = "Interview Summary Report"
	reportLineHeight = 14.0
	reportCellPad    = 4.0
)

var (
	reportHeaders      = []string{"Question", "Answer", "Score", "Feedback"}
	reportColumnWidths = []float64{150, 150, 50, 200}
)

type ReportService interface {
	RenderPDF(summary *Summary) ([]byte, error)
	RenderCSV(summary *Summary) ([]byte, error)
}

type reportService struct{}

func NewReportService() ReportService {
	return &reportService{}
}

// FormatScore prints an overall score the way it is shown to candidates: 7.0, 7.67.
func FormatScore(score float64) string {
	if score == float64(int64(score)) {
		return strconv.FormatFloat(score, 'f', 1, 64)
	}
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// RenderPDF implements ReportService.
func (r *reportService) RenderPDF(summary *Summary) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetTitle(reportTitle, true)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 28, reportTitle, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 22, fmt.Sprintf("Overall Score: %s/10", FormatScore(summary.OverallScore)), "", 1, "L", false, 0, "")
	pdf.Ln(20)

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottomMargin := pdf.GetMargins()
	maxY := pageHeight - bottomMargin

	drawRow := func(cells []string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)

		lines := 1
		for i, cell := range cells {
			if n := len(pdf.SplitText(tr(cell), reportColumnWidths[i])); n > lines {
				lines = n
			}
		}
		height := float64(lines)*reportLineHeight + 2*reportCellPad

		if pdf.GetY()+height > maxY {
			pdf.AddPage()
		}

		x, y := pdf.GetXY()
		for i, cell := range cells {
			w := reportColumnWidths[i]
			align := "L"
			if i == 2 && !bold {
				align = "C"
			}

			pdf.Rect(x, y, w, height, "D")
			pdf.SetXY(x, y+reportCellPad)
			pdf.MultiCell(w, reportLineHeight, tr(cell), "", align, false)
			x += w
		}
		pdf.SetXY(leftMargin(pdf), y+height)
	}

	drawRow(reportHeaders, true)
	for _, rec := range summary.Records {
		drawRow([]string{rec.Question, rec.Answer, strconv.Itoa(rec.Score), rec.Feedback}, false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF report: %w", err)
	}

	return buf.Bytes(), nil
}

func leftMargin(pdf *fpdf.Fpdf) float64 {
	left, _, _, _ := pdf.GetMargins()
	return left
}

// RenderCSV implements ReportService.
func (r *reportService) RenderCSV(summary *Summary) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"Overall Score", FormatScore(summary.OverallScore)},
		reportHeaders,
	}
	for _, rec := range summary.Records {
		rows = append(rows, []string{rec.Question, rec.Answer, strconv.Itoa(rec.Score), rec.Feedback})
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to render CSV report: %w", err)
	}

	return buf.Bytes(), nil
}

package services

import (
	"math"

	"alfredoptarigan/excel-interviewer/internal/models"
)

type Summary struct {
	OverallScore   float64
	TotalQuestions int
	UnparsedCount  int
	Records        []models.Record
}

// Summarize reduces a session's records into the overall score and table.
// The mean is rounded to 2 decimals; no records yields 0.
func Summarize(records []models.Record) Summary {
	table := make([]models.Record, len(records))
	copy(table, records)

	summary := Summary{
		TotalQuestions: len(table),
		Records:        table,
	}

	if len(table) == 0 {
		return summary
	}

	total := 0
	for _, r := range table {
		total += r.Score
		if !r.ScoreParsed {
			summary.UnparsedCount++
		}
	}

	summary.OverallScore = roundTo(float64(total)/float64(len(table)), 2)
	return summary
}

func roundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}

// ToResponse converts the summary into its JSON shape.
func (s Summary) ToResponse() *models.SummaryResponse {
	resp := &models.SummaryResponse{
		OverallScore:   s.OverallScore,
		TotalQuestions: s.TotalQuestions,
		UnparsedCount:  s.UnparsedCount,
		Records:        make([]models.RecordSummary, 0, len(s.Records)),
	}

	for _, r := range s.Records {
		resp.Records = append(resp.Records, models.RecordSummary{
			Question:       r.Question,
			Answer:         r.Answer,
			Score:          r.Score,
			Feedback:       r.Feedback,
			ScoreParsed:    r.ScoreParsed,
			FeedbackParsed: r.FeedbackParsed,
		})
	}

	return resp
}

package services

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	MaxScore            = 10
	MaxFeedbackLength   = 500
	FeedbackPlaceholder = "No feedback available."
	ellipsis            = "..."
)

var (
	scorePattern     = regexp.MustCompile(`(?i)\*{0,2}score\*{0,2}\s*:\s*\*{0,2}\s*(\d+)`)
	feedbackPattern  = regexp.MustCompile(`(?is)\*{0,2}feedback\*{0,2}\s*:\s*\*{0,2}\s*(.*)`)
	lineBreakPattern = regexp.MustCompile(`[ \t]*(?:\r\n|\r|\n)[ \t\r\n]*`)
)

// ParsedEvaluation is what could be recovered from a free-text evaluator reply.
// The Parsed flags tell a real zero score apart from a missing one.
type ParsedEvaluation struct {
	Score          int
	Feedback       string
	ScoreParsed    bool
	FeedbackParsed bool
}

// ParseEvaluation extracts the score and feedback from raw evaluator text.
// It never fails: a missing score becomes 0 and missing feedback becomes
// FeedbackPlaceholder.
func ParseEvaluation(raw string) ParsedEvaluation {
	result := ParsedEvaluation{
		Score:    0,
		Feedback: FeedbackPlaceholder,
	}

	if match := scorePattern.FindStringSubmatch(raw); match != nil {
		if score, err := strconv.Atoi(match[1]); err == nil {
			result.Score = clampScore(score)
			result.ScoreParsed = true
		} else {
			// Digit run too long for an int.
			result.Score = MaxScore
			result.ScoreParsed = true
		}
	}

	if match := feedbackPattern.FindStringSubmatch(raw); match != nil {
		feedback := normalizeFeedback(match[1])
		if feedback != "" {
			result.Feedback = feedback
			result.FeedbackParsed = true
		}
	}

	return result
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

func normalizeFeedback(text string) string {
	text = strings.TrimSpace(text)
	text = lineBreakPattern.ReplaceAllString(text, " ")

	if utf8.RuneCountInString(text) > MaxFeedbackLength {
		runes := []rune(text)
		text = string(runes[:MaxFeedbackLength]) + ellipsis
	}

	return text
}

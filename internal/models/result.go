package models

type StartRequest struct {
	PreviousSessionID string `json:"previous_session_id"`
}

type StartResponse struct {
	SessionID string `json:"session_id"`
	Index     int    `json:"index"`
	Question  string `json:"question"`
	Total     int    `json:"total"`
}

type SessionResponse struct {
	SessionID string  `json:"session_id"`
	Status    string  `json:"status"`
	Index     int     `json:"index"`
	Total     int     `json:"total"`
	Question  *string `json:"question,omitempty"`
}

type AnswerRequest struct {
	Index  *int   `json:"index" form:"index"`
	Answer string `json:"answer" form:"answer"`
}

type AnswerResponse struct {
	SessionID string           `json:"session_id"`
	Status    string           `json:"status"`
	Index     *int             `json:"index,omitempty"`
	Question  *string          `json:"question,omitempty"`
	Summary   *SummaryResponse `json:"summary,omitempty"`
}

type SummaryResponse struct {
	OverallScore   float64         `json:"overall_score"`
	TotalQuestions int             `json:"total_questions"`
	UnparsedCount  int             `json:"unparsed_count"`
	Records        []RecordSummary `json:"records"`
}

type RecordSummary struct {
	Question       string `json:"question"`
	Answer         string `json:"answer"`
	Score          int    `json:"score"`
	Feedback       string `json:"feedback"`
	ScoreParsed    bool   `json:"score_parsed"`
	FeedbackParsed bool   `json:"feedback_parsed"`
}

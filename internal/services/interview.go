package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/excel-interviewer/internal/models"
	"alfredoptarigan/excel-interviewer/internal/repositories"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrOutOfRange      = errors.New("session already complete or question out of range")
	ErrEmptyAnswer     = errors.New("answer is required")
)

type InterviewService interface {
	Start(ctx context.Context, previous uuid.UUID) (*models.Session, error)
	Get(id uuid.UUID) (*models.Session, error)
	CurrentQuestion(id uuid.UUID) (int, string, error)
	SubmitAnswer(ctx context.Context, id uuid.UUID, position int, answer string) (*Transition, error)
	Summary(id uuid.UUID) (*Summary, error)
	Discard(id uuid.UUID) error
	ExpireIdle(cutoff time.Time) int
}

// Transition tells the caller what to render after an accepted answer:
// the next question, or the final summary once Completed is set.
type Transition struct {
	Completed    bool
	NextIndex    int
	NextQuestion string
	Summary      *Summary
}

type sessionEntry struct {
	// submit serializes answer submissions for one session, evaluator call included.
	submit    sync.Mutex
	mu        sync.RWMutex
	session   *models.Session
	discarded bool
}

type interviewService struct {
	recordRepo    repositories.RecordRepository
	evaluator     EvaluatorService
	reportStorage ReportStorage
	questions     []string
	perSession    int
	perm          func(n int) []int
	now           func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*sessionEntry
}

// NewInterviewService builds the session state machine. reportStorage may be
// nil when no report files are kept.
func NewInterviewService(
	recordRepo repositories.RecordRepository,
	evaluator EvaluatorService,
	reportStorage ReportStorage,
	questions []string,
	perSession int,
) (InterviewService, error) {
	if err := ValidateQuestionBank(questions); err != nil {
		return nil, fmt.Errorf("invalid question bank: %w", err)
	}
	if perSession <= 0 || perSession > len(questions) {
		return nil, fmt.Errorf("questions per session must be between 1 and %d, got %d", len(questions), perSession)
	}

	return &interviewService{
		recordRepo:    recordRepo,
		evaluator:     evaluator,
		reportStorage: reportStorage,
		questions:     append([]string(nil), questions...),
		perSession:    perSession,
		perm:          rand.Perm,
		now:           time.Now,
		sessions:      make(map[uuid.UUID]*sessionEntry),
	}, nil
}

// Start implements InterviewService. A previous session, if given, is
// discarded together with its records.
func (s *interviewService) Start(ctx context.Context, previous uuid.UUID) (*models.Session, error) {
	if previous != uuid.Nil {
		err := s.Discard(previous)
		if errors.Is(err, ErrSessionNotFound) {
			// Gone from memory after a restart or expiry; its records may still be stored.
			err = s.purge(previous)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to discard previous session: %w", err)
		}
	}

	now := s.now()
	session := &models.Session{
		ID:        uuid.New(),
		Questions: s.sample(),
		Position:  0,
		Status:    models.StatusInProgress,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.sessions[session.ID] = &sessionEntry{session: session}
	s.mu.Unlock()

	log.Printf("🆕 Session %s started with %d questions", session.ID, session.Total())
	return session.Snapshot(), nil
}

func (s *interviewService) sample() []string {
	order := s.perm(len(s.questions))
	picked := make([]string, s.perSession)
	for i := range picked {
		picked[i] = s.questions[order[i]]
	}
	return picked
}

func (s *interviewService) entry(id uuid.UUID) (*sessionEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

// Get implements InterviewService.
func (s *interviewService) Get(id uuid.UUID) (*models.Session, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.session.Snapshot(), nil
}

// CurrentQuestion implements InterviewService.
func (s *interviewService) CurrentQuestion(id uuid.UUID) (int, string, error) {
	e, err := s.entry(id)
	if err != nil {
		return 0, "", err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.session.Position >= e.session.Total() {
		return 0, "", ErrOutOfRange
	}
	return e.session.Position, e.session.Questions[e.session.Position], nil
}

// SubmitAnswer implements InterviewService. Only the current position is
// accepted; anything else is rejected without touching the session.
func (s *interviewService) SubmitAnswer(ctx context.Context, id uuid.UUID, position int, answer string) (*Transition, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}

	e.submit.Lock()
	defer e.submit.Unlock()

	e.mu.RLock()
	discarded := e.discarded
	current := e.session.Position
	total := e.session.Total()
	completed := e.session.IsCompleted()
	var question string
	if current < total {
		question = e.session.Questions[current]
	}
	e.mu.RUnlock()

	if discarded {
		return nil, ErrSessionNotFound
	}
	if completed || position != current {
		return nil, fmt.Errorf("%w: submitted %d, current %d of %d", ErrOutOfRange, position, current, total)
	}
	if strings.TrimSpace(answer) == "" {
		return nil, ErrEmptyAnswer
	}

	evaluation := s.evaluator.Evaluate(ctx, question, answer)

	record := &models.Record{
		SessionID:        id,
		Position:         position,
		Question:         question,
		Answer:           answer,
		Score:            evaluation.Score,
		Feedback:         evaluation.Feedback,
		ScoreParsed:      evaluation.ScoreParsed,
		FeedbackParsed:   evaluation.FeedbackParsed,
		EvaluationFailed: evaluation.Failed,
		CreatedAt:        s.now(),
	}
	if err := s.recordRepo.Create(record); err != nil {
		return nil, fmt.Errorf("failed to save record: %w", err)
	}

	e.mu.Lock()
	e.session.Position++
	e.session.UpdatedAt = s.now()
	next := e.session.Position
	if next >= total {
		e.session.Status = models.StatusCompleted
	}
	e.mu.Unlock()

	log.Printf("📝 Session %s answer %d/%d scored %d", id, position+1, total, evaluation.Score)

	if next < total {
		return &Transition{
			NextIndex:    next,
			NextQuestion: e.session.Questions[next],
		}, nil
	}

	summary, err := s.summarize(id)
	if err != nil {
		return nil, err
	}

	log.Printf("🏁 Session %s completed with overall score %.2f", id, summary.OverallScore)
	return &Transition{
		Completed: true,
		NextIndex: next,
		Summary:   summary,
	}, nil
}

// Summary implements InterviewService.
func (s *interviewService) Summary(id uuid.UUID) (*Summary, error) {
	if _, err := s.entry(id); err != nil {
		return nil, err
	}
	return s.summarize(id)
}

func (s *interviewService) summarize(id uuid.UUID) (*Summary, error) {
	records, err := s.recordRepo.FindBySession(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}

	summary := Summarize(records)
	return &summary, nil
}

// Discard implements InterviewService. It waits for an in-flight submission
// on the same session to finish first.
func (s *interviewService) Discard(id uuid.UUID) error {
	e, err := s.entry(id)
	if err != nil {
		return err
	}

	e.submit.Lock()
	defer e.submit.Unlock()

	e.mu.Lock()
	e.discarded = true
	e.mu.Unlock()

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	if err := s.purge(id); err != nil {
		return err
	}

	log.Printf("🗑️  Session %s discarded", id)
	return nil
}

// purge removes the stored records and reports of a session.
func (s *interviewService) purge(id uuid.UUID) error {
	if err := s.recordRepo.DeleteBySession(id); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}

	if s.reportStorage != nil {
		if err := s.reportStorage.DeleteReports(id); err != nil {
			log.Printf("⚠️  Failed to delete reports for session %s: %v", id, err)
		}
	}

	return nil
}

// ExpireIdle implements InterviewService. Sessions untouched since cutoff are
// discarded; the number removed is returned.
func (s *interviewService) ExpireIdle(cutoff time.Time) int {
	s.mu.RLock()
	var stale []uuid.UUID
	for id, e := range s.sessions {
		e.mu.RLock()
		if e.session.UpdatedAt.Before(cutoff) {
			stale = append(stale, id)
		}
		e.mu.RUnlock()
	}
	s.mu.RUnlock()

	removed := 0
	for _, id := range stale {
		if err := s.Discard(id); err != nil {
			if !errors.Is(err, ErrSessionNotFound) {
				log.Printf("⚠️  Failed to expire session %s: %v", id, err)
			}
			continue
		}
		removed++
	}

	return removed
}

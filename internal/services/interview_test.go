package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/excel-interviewer/internal/models"
	"alfredoptarigan/excel-interviewer/internal/repositories"
)

func TestNewInterviewService_RejectsBadConfig(t *testing.T) {
	repo := repositories.NewMemoryRecordRepository()
	evaluator := NewEvaluatorService(&fakeLLM{}, EvaluatorOptions{})

	if _, err := NewInterviewService(repo, evaluator, nil, DefaultQuestions, 11); err == nil {
		t.Errorf("expected error when sampling more questions than the bank holds")
	}
	if _, err := NewInterviewService(repo, evaluator, nil, DefaultQuestions, 0); err == nil {
		t.Errorf("expected error for zero questions per session")
	}
	if _, err := NewInterviewService(repo, evaluator, nil, []string{"A?", "A?"}, 1); err == nil {
		t.Errorf("expected error for duplicate questions")
	}
}

func TestStart_SamplesUniqueQuestionsFromBank(t *testing.T) {
	svc := newTestInterview(t, &fakeLLM{}, nil)

	inBank := make(map[string]bool)
	for _, q := range DefaultQuestions {
		inBank[q] = true
	}

	for i := 0; i < 50; i++ {
		session := mustStart(t, svc, uuid.Nil)

		if session.Total() != 5 {
			t.Fatalf("Total() = %d, want 5", session.Total())
		}
		if session.Position != 0 || session.Status != models.StatusInProgress {
			t.Fatalf("new session at position %d status %s", session.Position, session.Status)
		}

		seen := make(map[string]bool)
		for _, q := range session.Questions {
			if !inBank[q] {
				t.Fatalf("question %q not from bank", q)
			}
			if seen[q] {
				t.Fatalf("question %q repeated", q)
			}
			seen[q] = true
		}
	}
}

func TestStart_UsesPermutationOrder(t *testing.T) {
	svc := newTestInterview(t, &fakeLLM{}, nil)
	svc.perm = func(n int) []int {
		order := make([]int, n)
		for i := range order {
			order[i] = n - 1 - i
		}
		return order
	}

	session := mustStart(t, svc, uuid.Nil)

	if session.Questions[0] != DefaultQuestions[9] || session.Questions[4] != DefaultQuestions[5] {
		t.Errorf("unexpected question order: %v", session.Questions)
	}
}

func TestStart_DiscardsPreviousSession(t *testing.T) {
	repo := repositories.NewMemoryRecordRepository()
	svc := newTestInterview(t, &fakeLLM{defaultOK: "Score: 5\nFeedback: fine"}, repo)

	first := mustStart(t, svc, uuid.Nil)
	for i := 0; i < 2; i++ {
		if _, err := svc.SubmitAnswer(context.Background(), first.ID, i, "answer"); err != nil {
			t.Fatalf("SubmitAnswer: %v", err)
		}
	}

	second := mustStart(t, svc, first.ID)

	records, _ := repo.FindBySession(first.ID)
	if len(records) != 0 {
		t.Errorf("previous session still has %d records", len(records))
	}
	if _, err := svc.Get(first.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("previous session still reachable, err = %v", err)
	}

	summary, err := svc.Summary(second.ID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if len(summary.Records) != 0 {
		t.Errorf("new session starts with %d records", len(summary.Records))
	}

	// Restarting with an unknown previous session is not an error.
	mustStart(t, svc, uuid.New())
}

func TestStart_ClearsRecordsOfSessionLostOnRestart(t *testing.T) {
	repo := repositories.NewMemoryRecordRepository()
	llm := &fakeLLM{defaultOK: "Score: 6\nFeedback: fine"}

	before := newTestInterview(t, llm, repo)
	old := mustStart(t, before, uuid.Nil)
	if _, err := before.SubmitAnswer(context.Background(), old.ID, 0, "answer"); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}

	// A fresh service over the same store has no memory of the old session.
	after := newTestInterview(t, llm, repo)
	mustStart(t, after, old.ID)

	records, err := repo.FindBySession(old.ID)
	if err != nil {
		t.Fatalf("FindBySession: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("records of the previous session survived the restart: %d", len(records))
	}
}

func TestSubmitAnswer_AdvancesOneAtATime(t *testing.T) {
	llm := &fakeLLM{replies: scoreReplies(8)}
	repo := repositories.NewMemoryRecordRepository()
	svc := newTestInterview(t, llm, repo)
	session := mustStart(t, svc, uuid.Nil)

	transition, err := svc.SubmitAnswer(context.Background(), session.ID, 0, "Use VLOOKUP with FALSE.")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if transition.Completed {
		t.Fatalf("session completed after one answer")
	}
	if transition.NextIndex != 1 || transition.NextQuestion != session.Questions[1] {
		t.Errorf("transition = %+v, want index 1 %q", transition, session.Questions[1])
	}

	records, _ := repo.FindBySession(session.ID)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Question != session.Questions[0] || records[0].Score != 8 {
		t.Errorf("record = %+v", records[0])
	}

	idx, q, err := svc.CurrentQuestion(session.ID)
	if err != nil || idx != 1 || q != session.Questions[1] {
		t.Errorf("CurrentQuestion = %d %q %v", idx, q, err)
	}
}

func TestSubmitAnswer_RejectsWrongPosition(t *testing.T) {
	llm := &fakeLLM{defaultOK: "Score: 5\nFeedback: fine"}
	repo := repositories.NewMemoryRecordRepository()
	svc := newTestInterview(t, llm, repo)
	session := mustStart(t, svc, uuid.Nil)

	for _, position := range []int{2, -1, 1, 5} {
		_, err := svc.SubmitAnswer(context.Background(), session.ID, position, "answer")
		if !errors.Is(err, ErrOutOfRange) {
			t.Errorf("position %d: err = %v, want ErrOutOfRange", position, err)
		}
	}

	records, _ := repo.FindBySession(session.ID)
	if len(records) != 0 {
		t.Errorf("rejected submissions created %d records", len(records))
	}
	got, _ := svc.Get(session.ID)
	if got.Position != 0 {
		t.Errorf("Position = %d, want 0", got.Position)
	}
	if llm.callCount() != 0 {
		t.Errorf("evaluator called %d times for rejected submissions", llm.callCount())
	}
}

func TestSubmitAnswer_ReplayRejected(t *testing.T) {
	svc := newTestInterview(t, &fakeLLM{defaultOK: "Score: 5\nFeedback: fine"}, nil)
	session := mustStart(t, svc, uuid.Nil)

	if _, err := svc.SubmitAnswer(context.Background(), session.ID, 0, "first"); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if _, err := svc.SubmitAnswer(context.Background(), session.ID, 0, "replay"); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("replay err = %v, want ErrOutOfRange", err)
	}
}

func TestSubmitAnswer_EmptyAnswer(t *testing.T) {
	svc := newTestInterview(t, &fakeLLM{}, nil)
	session := mustStart(t, svc, uuid.Nil)

	if _, err := svc.SubmitAnswer(context.Background(), session.ID, 0, "   "); !errors.Is(err, ErrEmptyAnswer) {
		t.Errorf("err = %v, want ErrEmptyAnswer", err)
	}
}

func TestSubmitAnswer_UnknownSession(t *testing.T) {
	svc := newTestInterview(t, &fakeLLM{}, nil)

	if _, err := svc.SubmitAnswer(context.Background(), uuid.New(), 0, "answer"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
	if _, _, err := svc.CurrentQuestion(uuid.New()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("CurrentQuestion err = %v, want ErrSessionNotFound", err)
	}
}

func TestSubmitAnswer_EvaluatorFailureStillAdvances(t *testing.T) {
	llm := &fakeLLM{replies: []fakeReply{{err: errors.New("connection refused")}}}
	repo := repositories.NewMemoryRecordRepository()
	svc := newTestInterview(t, llm, repo)
	session := mustStart(t, svc, uuid.Nil)

	transition, err := svc.SubmitAnswer(context.Background(), session.ID, 0, "answer")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if transition.NextIndex != 1 {
		t.Errorf("NextIndex = %d, want 1", transition.NextIndex)
	}

	records, _ := repo.FindBySession(session.ID)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.Score != 0 || rec.Feedback != FeedbackPlaceholder || !rec.EvaluationFailed {
		t.Errorf("record = %+v, want zero score, placeholder and failed flag", rec)
	}
}

func TestSubmitAnswer_PersistenceFailureDoesNotAdvance(t *testing.T) {
	repo := &failingRepo{RecordRepository: repositories.NewMemoryRecordRepository(), failCreate: true}
	svc := newTestInterview(t, &fakeLLM{defaultOK: "Score: 5\nFeedback: fine"}, repo)
	session := mustStart(t, svc, uuid.Nil)

	if _, err := svc.SubmitAnswer(context.Background(), session.ID, 0, "answer"); err == nil {
		t.Fatalf("expected error when the record cannot be saved")
	}

	got, _ := svc.Get(session.ID)
	if got.Position != 0 {
		t.Errorf("Position = %d, want 0 after failed save", got.Position)
	}

	repo.failCreate = false
	if _, err := svc.SubmitAnswer(context.Background(), session.ID, 0, "answer"); err != nil {
		t.Errorf("retry after failed save: %v", err)
	}
}

func TestSubmitAnswer_FullSession(t *testing.T) {
	llm := &fakeLLM{replies: scoreReplies(8, 6, 10, 4, 7)}
	svc := newTestInterview(t, llm, nil)
	session := mustStart(t, svc, uuid.Nil)

	var last *Transition
	for i := 0; i < 5; i++ {
		transition, err := svc.SubmitAnswer(context.Background(), session.ID, i, "answer")
		if err != nil {
			t.Fatalf("SubmitAnswer(%d): %v", i, err)
		}
		if i < 4 && transition.Completed {
			t.Fatalf("completed early at %d", i)
		}
		last = transition
	}

	if !last.Completed || last.Summary == nil {
		t.Fatalf("final transition = %+v", last)
	}
	if last.Summary.OverallScore != 7.0 {
		t.Errorf("OverallScore = %v, want 7.0", last.Summary.OverallScore)
	}
	if len(last.Summary.Records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(last.Summary.Records))
	}
	for i, rec := range last.Summary.Records {
		if rec.Question != session.Questions[i] {
			t.Errorf("Records[%d].Question = %q, want %q", i, rec.Question, session.Questions[i])
		}
	}

	got, _ := svc.Get(session.ID)
	if got.Status != models.StatusCompleted || got.Position != 5 {
		t.Errorf("session = %+v, want completed at 5", got)
	}
	if _, _, err := svc.CurrentQuestion(session.ID); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("CurrentQuestion after completion err = %v", err)
	}
	if _, err := svc.SubmitAnswer(context.Background(), session.ID, 5, "extra"); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("submit after completion err = %v", err)
	}
}

func TestSubmitAnswer_ConcurrentDuplicatesSerialized(t *testing.T) {
	llm := &fakeLLM{defaultOK: "Score: 5\nFeedback: fine"}
	repo := repositories.NewMemoryRecordRepository()
	svc := newTestInterview(t, llm, repo)
	session := mustStart(t, svc, uuid.Nil)

	const attempts = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.SubmitAnswer(context.Background(), session.ID, 0, "answer"); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if accepted != 1 {
		t.Errorf("accepted %d concurrent submissions for the same position, want 1", accepted)
	}
	records, _ := repo.FindBySession(session.ID)
	if len(records) != 1 {
		t.Errorf("expected 1 record, got %d", len(records))
	}
}

func TestSubmitAnswer_SurvivesCallerCancellation(t *testing.T) {
	svc := newTestInterview(t, &fakeLLM{defaultOK: "Score: 9\nFeedback: great"}, nil)
	session := mustStart(t, svc, uuid.Nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	transition, err := svc.SubmitAnswer(ctx, session.ID, 0, "answer")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if transition.NextIndex != 1 {
		t.Errorf("NextIndex = %d, want 1", transition.NextIndex)
	}
}

func TestExpireIdle(t *testing.T) {
	repo := repositories.NewMemoryRecordRepository()
	svc := newTestInterview(t, &fakeLLM{defaultOK: "Score: 5\nFeedback: fine"}, repo)

	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	stale := mustStart(t, svc, uuid.Nil)
	if _, err := svc.SubmitAnswer(context.Background(), stale.ID, 0, "answer"); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}

	svc.now = func() time.Time { return base.Add(3 * time.Hour) }
	fresh := mustStart(t, svc, uuid.Nil)

	removed := svc.ExpireIdle(base.Add(time.Hour))
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, err := svc.Get(stale.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("stale session still present")
	}
	if _, err := svc.Get(fresh.ID); err != nil {
		t.Errorf("fresh session removed: %v", err)
	}
	if records, _ := repo.FindBySession(stale.ID); len(records) != 0 {
		t.Errorf("stale records kept: %d", len(records))
	}
}

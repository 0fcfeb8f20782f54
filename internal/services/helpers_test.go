package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"

	"alfredoptarigan/excel-interviewer/internal/models"
	"alfredoptarigan/excel-interviewer/internal/repositories"
)

// fakeLLM replies from a queue of canned responses; an error entry fails the call.
type fakeLLM struct {
	mu        sync.Mutex
	replies   []fakeReply
	calls     int
	requests  []ChatRequest
	defaultOK string
}

type fakeReply struct {
	text string
	err  error
}

func (f *fakeLLM) Complete(ctx context.Context, req ChatRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.requests = append(f.requests, req)

	if len(f.replies) == 0 {
		if f.defaultOK != "" {
			return f.defaultOK, nil
		}
		return "", errors.New("no reply queued")
	}

	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply.text, reply.err
}

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// scoreReplies builds well-formed evaluator replies for the given scores.
func scoreReplies(scores ...int) []fakeReply {
	replies := make([]fakeReply, len(scores))
	for i, s := range scores {
		replies[i] = fakeReply{text: fmt.Sprintf("Score: %d\nFeedback: Answer %d reviewed.", s, i+1)}
	}
	return replies
}

// failingRepo wraps a repository and fails Create when failCreate is set.
type failingRepo struct {
	repositories.RecordRepository
	failCreate bool
}

func (r *failingRepo) Create(record *models.Record) error {
	if r.failCreate {
		return errors.New("disk full")
	}
	return r.RecordRepository.Create(record)
}

func newTestInterview(t *testing.T, llm LLMClient, repo repositories.RecordRepository) *interviewService {
	t.Helper()

	if repo == nil {
		repo = repositories.NewMemoryRecordRepository()
	}
	evaluator := NewEvaluatorService(llm, EvaluatorOptions{})

	svc, err := NewInterviewService(repo, evaluator, nil, DefaultQuestions, 5)
	if err != nil {
		t.Fatalf("NewInterviewService: %v", err)
	}
	return svc.(*interviewService)
}

func mustStart(t *testing.T, svc InterviewService, previous uuid.UUID) *models.Session {
	t.Helper()

	session, err := svc.Start(context.Background(), previous)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	return session
}

package services

import (
	"context"
	"fmt"
	"log"
	"time"
)

// SentinelResponse stands in for the evaluator reply whenever the call fails.
// It goes through ParseEvaluation like any real reply.
const SentinelResponse = "Error: Unable to get evaluation from API."

type EvaluatorService interface {
	Evaluate(ctx context.Context, question, answer string) Evaluation
}

// Evaluation is the parsed outcome of scoring one answer.
type Evaluation struct {
	ParsedEvaluation
	Raw    string
	Failed bool
}

type EvaluatorOptions struct {
	MaxTokens         int
	Timeout           time.Duration
	RetryMaxAttempts  int
	RetryInitialDelay time.Duration
}

type evaluatorService struct {
	client        LLMClient
	promptBuilder *PromptBuilder
	opts          EvaluatorOptions
}

func NewEvaluatorService(client LLMClient, opts EvaluatorOptions) EvaluatorService {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 300
	}
	if opts.RetryMaxAttempts < 1 {
		opts.RetryMaxAttempts = 1
	}

	return &evaluatorService{
		client:        client,
		promptBuilder: NewPromptBuilder(),
		opts:          opts,
	}
}

// Evaluate implements EvaluatorService. It never returns an error: transport
// and envelope failures degrade to the sentinel reply.
func (e *evaluatorService) Evaluate(ctx context.Context, question, answer string) Evaluation {
	req := e.promptBuilder.BuildAnswerEvaluationRequest(question, answer, e.opts.MaxTokens)

	// A started evaluation runs to completion even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	raw, err := e.completeWithRetry(ctx, req)
	if err != nil {
		log.Printf("❌ Evaluation failed, using sentinel response: %v", err)
		return Evaluation{
			ParsedEvaluation: ParseEvaluation(SentinelResponse),
			Raw:              SentinelResponse,
			Failed:           true,
		}
	}

	log.Printf("✅ Evaluation response received: %d characters", len(raw))

	parsed := ParseEvaluation(raw)
	if !parsed.ScoreParsed || !parsed.FeedbackParsed {
		log.Printf("⚠️  Evaluator reply not fully parsed (score=%t, feedback=%t)", parsed.ScoreParsed, parsed.FeedbackParsed)
	}

	return Evaluation{
		ParsedEvaluation: parsed,
		Raw:              raw,
	}
}

func (e *evaluatorService) completeWithRetry(ctx context.Context, req ChatRequest) (string, error) {
	var lastErr error
	delay := e.opts.RetryInitialDelay

	for attempt := 1; attempt <= e.opts.RetryMaxAttempts; attempt++ {
		result, err := e.complete(ctx, req)
		if err == nil {
			return result, nil
		}

		lastErr = err

		if attempt < e.opts.RetryMaxAttempts {
			log.Printf("⚠️  Attempt %d failed: %v. Retrying in %s...", attempt, err, delay)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return "", fmt.Errorf("failed after %d attempts: %w", e.opts.RetryMaxAttempts, lastErr)
}

func (e *evaluatorService) complete(ctx context.Context, req ChatRequest) (string, error) {
	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	return e.client.Complete(ctx, req)
}

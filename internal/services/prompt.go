package services

import (
	"fmt"
)

const evaluatorSystemRole = "You are an Excel interview expert."

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildAnswerEvaluationPrompt creates the user prompt for scoring one answer
func (pb *PromptBuilder) BuildAnswerEvaluationPrompt(question, answer string) string {
	return fmt.Sprintf(`You are an expert Excel interviewer. Evaluate the following candidate's response in terms of correctness, depth, and clarity.

Provide:
1. A score from 0 to 10.
2. A concise feedback of no more than 3 sentences.

Response format:
Score: <score out of 10>
Feedback: <short constructive feedback (max 3 sentences)>

Question: %s
Candidate's Answer: %s`,
		question, answer)
}

// BuildAnswerEvaluationRequest wraps the prompt with the system role and token cap
func (pb *PromptBuilder) BuildAnswerEvaluationRequest(question, answer string, maxTokens int) ChatRequest {
	return ChatRequest{
		Messages: []ChatMessage{
			{Role: RoleSystem, Content: evaluatorSystemRole},
			{Role: RoleUser, Content: pb.BuildAnswerEvaluationPrompt(question, answer)},
		},
		MaxTokens: maxTokens,
	}
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// AzureConfig locates one Azure OpenAI chat deployment.
type AzureConfig struct {
	APIKey     string
	BaseURL    string
	APIVersion string
	Deployment string
}

type azureOpenAIClient struct {
	client     *openai.Client
	deployment string
}

// NewAzureOpenAIClient talks to an Azure OpenAI chat completions deployment.
func NewAzureOpenAIClient(cfg AzureConfig, httpClient *http.Client) LLMClient {
	clientConfig := openai.DefaultAzureConfig(cfg.APIKey, cfg.BaseURL)
	if cfg.APIVersion != "" {
		clientConfig.APIVersion = cfg.APIVersion
	}
	clientConfig.AzureModelMapperFunc = func(string) string {
		return cfg.Deployment
	}
	if httpClient != nil {
		clientConfig.HTTPClient = httpClient
	}

	return &azureOpenAIClient{
		client:     openai.NewClientWithConfig(clientConfig),
		deployment: cfg.Deployment,
	}
}

// Complete implements LLMClient.
func (a *azureOpenAIClient) Complete(ctx context.Context, req ChatRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, msg := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     a.deployment,
		Messages:  messages,
		MaxTokens: req.MaxTokens,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("azure openai error (status %d): %s", apiErr.HTTPStatusCode, apiErr.Message)
		}

		// Non-2xx without a readable error envelope; may wrap a JSON error.
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return "", fmt.Errorf("azure openai error: status %d", reqErr.HTTPStatusCode)
		}

		// A 2xx body that does not decode as a completion.
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
			return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}

		return "", fmt.Errorf("error making request: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: no message content in response", ErrMalformedResponse)
	}

	return resp.Choices[0].Message.Content, nil
}

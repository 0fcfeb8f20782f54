package services

import (
	"fmt"

	"alfredoptarigan/excel-interviewer/internal/config"
)

// NewLLMClientFromConfig picks the evaluator backend named by EVALUATOR_PROVIDER.
func NewLLMClientFromConfig(cfg *config.Config) (LLMClient, error) {
	switch cfg.Evaluator.Provider {
	case "azure":
		if cfg.Evaluator.AzureAPIBase == "" || cfg.Evaluator.AzureDeployment == "" {
			return nil, fmt.Errorf("AZURE_API_BASE and MODEL_DEPLOYMENT_NAME are required for the azure evaluator")
		}
		return NewAzureOpenAIClient(AzureConfig{
			APIKey:     cfg.Evaluator.AzureAPIKey,
			BaseURL:    cfg.Evaluator.AzureAPIBase,
			APIVersion: cfg.Evaluator.AzureAPIVersion,
			Deployment: cfg.Evaluator.AzureDeployment,
		}, nil), nil
	case "gemini":
		if cfg.Evaluator.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini evaluator")
		}
		return NewGeminiClient(cfg.Evaluator.GeminiAPIKey, cfg.Evaluator.GeminiModel)
	default:
		return nil, fmt.Errorf("unknown evaluator provider: %s", cfg.Evaluator.Provider)
	}
}

// EvaluatorOptionsFromConfig maps evaluator settings onto EvaluatorOptions.
func EvaluatorOptionsFromConfig(cfg *config.Config) EvaluatorOptions {
	return EvaluatorOptions{
		MaxTokens:         cfg.Evaluator.MaxTokens,
		Timeout:           cfg.Evaluator.Timeout,
		RetryMaxAttempts:  cfg.Evaluator.RetryMaxAttempts,
		RetryInitialDelay: cfg.Evaluator.RetryInitialDelay,
	}
}

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Evaluator EvaluatorConfig
	Interview InterviewConfig
	Storage   StorageConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Driver   string
	Path     string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type EvaluatorConfig struct {
	Provider          string
	AzureAPIKey       string
	AzureAPIBase      string
	AzureAPIVersion   string
	AzureDeployment   string
	GeminiAPIKey      string
	GeminiModel       string
	MaxTokens         int
	Timeout           time.Duration
	RetryMaxAttempts  int
	RetryInitialDelay time.Duration
}

type InterviewConfig struct {
	QuestionsPerSession int
	QuestionBankPath    string
}

type StorageConfig struct {
	ReportPath string
}

type WorkerConfig struct {
	SessionTTL    time.Duration
	SweepInterval time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Path:     getEnv("DB_PATH", "database.db"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "excel_interviewer"),
		},
		Evaluator: EvaluatorConfig{
			Provider:          getEnv("EVALUATOR_PROVIDER", "azure"),
			AzureAPIKey:       getEnv("AZURE_API_KEY", ""),
			AzureAPIBase:      getEnv("AZURE_API_BASE", ""),
			AzureAPIVersion:   getEnv("AZURE_API_VERSION", ""),
			AzureDeployment:   getEnv("MODEL_DEPLOYMENT_NAME", ""),
			GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
			GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			MaxTokens:         getEnvAsInt("EVALUATOR_MAX_TOKENS", 300),
			Timeout:           getEnvAsDuration("EVALUATOR_TIMEOUT", "30s"),
			RetryMaxAttempts:  getEnvAsInt("EVALUATOR_MAX_ATTEMPTS", 1),
			RetryInitialDelay: getEnvAsDuration("EVALUATOR_RETRY_DELAY", "2s"),
		},
		Interview: InterviewConfig{
			QuestionsPerSession: getEnvAsInt("QUESTIONS_PER_SESSION", 5),
			QuestionBankPath:    getEnv("QUESTION_BANK_PATH", ""),
		},
		Storage: StorageConfig{
			ReportPath: getEnv("REPORT_PATH", "./reports"),
		},
		Worker: WorkerConfig{
			SessionTTL:    getEnvAsDuration("SESSION_TTL", "2h"),
			SweepInterval: getEnvAsDuration("SESSION_SWEEP_INTERVAL", "5m"),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	if c.Database.Driver == "sqlite" {
		return c.Database.Path
	}

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

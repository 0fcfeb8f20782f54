package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/excel-interviewer/internal/config"
	"alfredoptarigan/excel-interviewer/internal/handlers"
	"alfredoptarigan/excel-interviewer/internal/repositories"
	"alfredoptarigan/excel-interviewer/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	recordRepo := repositories.NewRecordRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	reportStorage := services.NewReportStorage(cfg.Storage.ReportPath)
	if err := reportStorage.EnsureReportDir(); err != nil {
		log.Fatalf("❌ Failed to create report directory: %v", err)
	}

	questions, err := services.LoadQuestionBank(cfg.Interview.QuestionBankPath)
	if err != nil {
		log.Fatalf("❌ Failed to load question bank: %v", err)
	}
	log.Printf("✅ Question bank loaded (%d questions)", len(questions))

	llmClient, err := services.NewLLMClientFromConfig(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize evaluator client: %v", err)
	}
	log.Printf("✅ Evaluator client initialized (%s)", cfg.Evaluator.Provider)

	evaluatorService := services.NewEvaluatorService(llmClient, services.EvaluatorOptionsFromConfig(cfg))

	interviewService, err := services.NewInterviewService(
		recordRepo,
		evaluatorService,
		reportStorage,
		questions,
		cfg.Interview.QuestionsPerSession,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize interview service: %v", err)
	}
	log.Println("✅ Services initialized successfully")

	// Start session sweeper
	worker := services.NewWorker(interviewService, cfg.Worker.SessionTTL, cfg.Worker.SweepInterval)
	worker.Start(context.Background())

	// Initialize Handlers
	interviewHandler := handlers.NewInterviewHandler(interviewService, cfg.Worker.SessionTTL)
	reportHandler := handlers.NewReportHandler(interviewService, services.NewReportService(), reportStorage)
	log.Println("✅ Handlers initialized")

	// The write timeout must outlast a full evaluator round trip including retries
	writeTimeout := cfg.Evaluator.Timeout*time.Duration(cfg.Evaluator.RetryMaxAttempts) + 30*time.Second

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Excel Interviewer API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: writeTimeout,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// Routes
	handlers.SetupRoutes(app.Group("/api/v1"), interviewHandler, reportHandler)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Excel Interviewer API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/interviews",
				"GET /api/v1/interviews/:id",
				"POST /api/v1/interviews/:id/answers",
				"GET /api/v1/interviews/:id/summary",
				"GET /api/v1/interviews/:id/report.pdf",
				"GET /api/v1/interviews/:id/report.csv",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

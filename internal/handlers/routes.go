package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes mounts the interview API on router.
func SetupRoutes(router fiber.Router, interviewHandler *InterviewHandler, reportHandler *ReportHandler) {
	router.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	interviews := router.Group("/interviews")
	interviews.Post("/", interviewHandler.HandleStart)
	interviews.Get("/:id", interviewHandler.HandleGetSession)
	interviews.Post("/:id/answers", interviewHandler.HandleAnswer)
	interviews.Get("/:id/summary", reportHandler.HandleSummary)
	interviews.Get("/:id/report.pdf", reportHandler.HandleDownloadPDF)
	interviews.Get("/:id/report.csv", reportHandler.HandleDownloadCSV)
}

func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}

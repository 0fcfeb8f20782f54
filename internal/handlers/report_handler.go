package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/excel-interviewer/internal/services"
)

type ReportHandler struct {
	interviewService services.InterviewService
	reportService    services.ReportService
	reportStorage    services.ReportStorage
}

func NewReportHandler(
	interviewService services.InterviewService,
	reportService services.ReportService,
	reportStorage services.ReportStorage,
) *ReportHandler {
	return &ReportHandler{
		interviewService: interviewService,
		reportService:    reportService,
		reportStorage:    reportStorage,
	}
}

// HandleSummary handles GET /interviews/:id/summary
func (h *ReportHandler) HandleSummary(c *fiber.Ctx) error {
	sessionID, err := parseSessionID(c)
	if err != nil {
		return err
	}

	summary, err := h.interviewService.Summary(sessionID)
	if err != nil {
		return sessionError(c, err)
	}

	return c.JSON(summary.ToResponse())
}

// HandleDownloadPDF handles GET /interviews/:id/report.pdf
func (h *ReportHandler) HandleDownloadPDF(c *fiber.Ctx) error {
	return h.download(c, ".pdf", h.reportService.RenderPDF)
}

// HandleDownloadCSV handles GET /interviews/:id/report.csv
func (h *ReportHandler) HandleDownloadCSV(c *fiber.Ctx) error {
	return h.download(c, ".csv", h.reportService.RenderCSV)
}

func (h *ReportHandler) download(c *fiber.Ctx, ext string, render func(*services.Summary) ([]byte, error)) error {
	sessionID, err := parseSessionID(c)
	if err != nil {
		return err
	}

	summary, err := h.interviewService.Summary(sessionID)
	if err != nil {
		return sessionError(c, err)
	}

	data, err := render(summary)
	if err != nil {
		log.Printf("❌ Failed to render report for session %s: %v", sessionID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate report",
		})
	}

	filename, filePath, err := h.reportStorage.SaveReport(sessionID, ext, data)
	if err != nil {
		log.Printf("❌ Failed to store report for session %s: %v", sessionID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to store report",
		})
	}

	log.Printf("📄 Report %s generated for session %s", filename, sessionID)
	return c.Download(filePath, "interview_summary_report"+ext)
}

package handlers

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/excel-interviewer/internal/models"
	"alfredoptarigan/excel-interviewer/internal/services"
)

const SessionCookie = "interview_session"

type InterviewHandler struct {
	interviewService services.InterviewService
	sessionTTL       time.Duration
}

func NewInterviewHandler(
	interviewService services.InterviewService,
	sessionTTL time.Duration,
) *InterviewHandler {
	return &InterviewHandler{
		interviewService: interviewService,
		sessionTTL:       sessionTTL,
	}
}

// HandleStart handles POST /interviews
func (h *InterviewHandler) HandleStart(c *fiber.Ctx) error {
	var req models.StartRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request payload",
			})
		}
	}

	previousRaw := req.PreviousSessionID
	if previousRaw == "" {
		previousRaw = c.Cookies(SessionCookie)
	}

	// An unreadable previous session id just means there is nothing to discard
	previous, err := uuid.Parse(previousRaw)
	if err != nil {
		previous = uuid.Nil
	}

	session, err := h.interviewService.Start(c.UserContext(), previous)
	if err != nil {
		log.Printf("❌ Failed to start session: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to start interview",
		})
	}

	cookie := &fiber.Cookie{
		Name:     SessionCookie,
		Value:    session.ID.String(),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if h.sessionTTL > 0 {
		cookie.Expires = time.Now().Add(h.sessionTTL)
	}
	c.Cookie(cookie)

	return c.Status(fiber.StatusCreated).JSON(models.StartResponse{
		SessionID: session.ID.String(),
		Index:     session.Position,
		Question:  session.Questions[session.Position],
		Total:     session.Total(),
	})
}

// HandleGetSession handles GET /interviews/:id
func (h *InterviewHandler) HandleGetSession(c *fiber.Ctx) error {
	sessionID, err := parseSessionID(c)
	if err != nil {
		return err
	}

	session, err := h.interviewService.Get(sessionID)
	if err != nil {
		return sessionError(c, err)
	}

	response := models.SessionResponse{
		SessionID: session.ID.String(),
		Status:    string(session.Status),
		Index:     session.Position,
		Total:     session.Total(),
	}
	if session.Position < session.Total() {
		question := session.Questions[session.Position]
		response.Question = &question
	}

	return c.JSON(response)
}

// HandleAnswer handles POST /interviews/:id/answers
func (h *InterviewHandler) HandleAnswer(c *fiber.Ctx) error {
	sessionID, err := parseSessionID(c)
	if err != nil {
		return err
	}

	var req models.AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.Index == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "index is required",
		})
	}

	if strings.TrimSpace(req.Answer) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "answer is required",
		})
	}

	transition, err := h.interviewService.SubmitAnswer(c.UserContext(), sessionID, *req.Index, req.Answer)
	if err != nil {
		return sessionError(c, err)
	}

	response := models.AnswerResponse{
		SessionID: sessionID.String(),
	}

	if transition.Completed {
		response.Status = string(models.StatusCompleted)
		response.Summary = transition.Summary.ToResponse()
		return c.JSON(response)
	}

	response.Status = string(models.StatusInProgress)
	response.Index = &transition.NextIndex
	response.Question = &transition.NextQuestion
	return c.JSON(response)
}

func parseSessionID(c *fiber.Ctx) (uuid.UUID, error) {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid session ID format")
	}
	return sessionID, nil
}

func sessionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	case errors.Is(err, services.ErrOutOfRange):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Session already complete or out of sync. Start a new interview or reload the current question.",
		})
	case errors.Is(err, services.ErrEmptyAnswer):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "answer is required",
		})
	default:
		log.Printf("❌ Interview request failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process interview request",
		})
	}
}

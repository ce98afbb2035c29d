package api

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

type chatRequest struct {
	Message string         `json:"message"`
	Context map[string]any `json:"context"`
}

type supportRequest struct {
	Concern string `json:"concern"`
}

type areaSafetyRequest struct {
	AreaName  *string  `json:"area_name"`
	TimeOfDay string   `json:"time_of_day"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Radius    int      `json:"radius"`
}

type threatRequest struct {
	Threat string `json:"threat"`
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"service":   "Sahaya Safety Backend",
		"timestamp": timestamp(),
	})
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "online",
		"service":   "Sahaya Safety Backend",
		"version":   "1.0.0",
		"timestamp": timestamp(),
	})
}

func (s *Server) handleChat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Missing message in request")
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return badRequest(c, "Message cannot be empty")
	}

	slog.Info("AI chat request", "message", preview(message))

	reply := s.assistantSvc.Chat(c.Context(), message)

	return c.JSON(fiber.Map{
		"success":    true,
		"response":   reply.Text,
		"timestamp":  timestamp(),
		"model_type": reply.ModelType,
	})
}

func (s *Server) handleSupport(c *fiber.Ctx) error {
	var req supportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Missing concern in request")
	}

	concern := strings.TrimSpace(req.Concern)
	if concern == "" {
		return badRequest(c, "Concern cannot be empty")
	}

	slog.Info("Emotional support request", "concern", preview(concern))

	reply := s.assistantSvc.Support(c.Context(), concern)

	return c.JSON(fiber.Map{
		"success":    true,
		"response":   reply.Text,
		"timestamp":  timestamp(),
		"model_type": reply.ModelType,
	})
}

func (s *Server) handleAreaSafety(c *fiber.Ctx) error {
	var req areaSafetyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Missing area_name or coordinates in request")
	}

	hasCoordinates := req.Latitude != nil && req.Longitude != nil
	if req.AreaName == nil && !hasCoordinates {
		return badRequest(c, "Missing area_name or coordinates in request")
	}

	response := fiber.Map{
		"success":   true,
		"timestamp": timestamp(),
	}

	var areaName, timeOfDay string

	if req.AreaName != nil {
		areaName = *req.AreaName
		timeOfDay = req.TimeOfDay
		if timeOfDay == "" {
			timeOfDay = time.Now().Format("03:04 PM")
		}
	} else {
		areaName = fmt.Sprintf("Area at (%v, %v)", *req.Latitude, *req.Longitude)
		timeOfDay = "unknown"

		radius := req.Radius
		if radius == 0 {
			radius = 500
		}

		response["area_analysis"] = s.areaSvc.AnalyzeCoordinates(*req.Latitude, *req.Longitude, radius)
	}

	slog.Info("Area safety request", "area", areaName, "time", timeOfDay)

	assessment := s.areaSvc.Assess(areaName, timeOfDay)
	response["safety_score"] = assessment.SafetyScore

	if hasCoordinates {
		// Coordinate requests come without a recognizable area name, so the
		// model gets a say alongside the heuristic score.
		reply := s.assistantSvc.AreaQuestion(c.Context(), areaName, timeOfDay)
		response["ai_analysis"] = reply.Text
	} else {
		response["ai_analysis"] = assessment.Analysis
	}

	return c.JSON(response)
}

func (s *Server) handleThreatAssessment(c *fiber.Ctx) error {
	var req threatRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Missing threat description")
	}

	threat := strings.TrimSpace(req.Threat)
	if threat == "" {
		return badRequest(c, "Threat description cannot be empty")
	}

	slog.Info("Threat assessment request", "threat", preview(threat))

	reply := s.assistantSvc.Threat(c.Context(), threat)

	return c.JSON(fiber.Map{
		"success":   true,
		"response":  reply.Text,
		"emergency": true,
		"timestamp": timestamp(),
	})
}

func (s *Server) handleHistory(c *fiber.Ctx) error {
	messages := s.historySvc.Snapshot()

	return c.JSON(fiber.Map{
		"success":   true,
		"messages":  messages,
		"count":     len(messages),
		"timestamp": timestamp(),
	})
}

func (s *Server) handleClear(c *fiber.Ctx) error {
	s.historySvc.Clear()

	slog.Info("Chat history cleared")

	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "Chat history cleared",
		"timestamp": timestamp(),
	})
}

func (s *Server) handleStats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success":   true,
		"stats":     s.historySvc.Stats(),
		"timestamp": timestamp(),
	})
}

func preview(s string) string {
	runes := []rune(s)
	if len(runes) <= 100 {
		return s
	}

	return string(runes[:100]) + "..."
}

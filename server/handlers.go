package server

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"bakuscan/models"
)

type analyzeRequest struct {
	Image string `json:"image"`
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleAnalyze identifies the posted photo and records the scan in the
// session history. The image may be raw base64 or a data URL.
func (s *Server) handleAnalyze(c *fiber.Ctx) error {
	var req analyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request format"})
	}
	if req.Image == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No image provided"})
	}

	raw := req.Image
	if strings.HasPrefix(raw, "data:") {
		if idx := strings.Index(raw, ","); idx != -1 {
			raw = raw[idx+1:]
		}
	}

	imageBytes, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Image is not valid base64"})
	}

	result := s.identifier.Identify(c.UserContext(), imageBytes)

	scan := &models.ScanRecord{
		ID:                   uuid.NewString(),
		SessionID:            sessionID(c),
		IdentificationResult: result,
		CreatedAt:            time.Now(),
	}
	s.store.Append(scan.SessionID, scan)

	s.logger.Info("[server] Scan %s — identified %q (confidence %.2f)", scan.ID, result.Name, result.Confidence)
	return c.JSON(scan)
}

// handleHistory returns the most recent scans for the caller's session,
// newest first.
func (s *Server) handleHistory(c *fiber.Ctx) error {
	scans := s.store.Recent(sessionID(c), s.cfg.HistoryLimit)
	if scans == nil {
		scans = []*models.ScanRecord{}
	}
	return c.JSON(scans)
}

// handleMarketData runs the pricing and image aggregation for a named
// Bakugan. It always returns 200 with a usable body; degraded sub-results
// are flagged via their estimated/error fields.
func (s *Server) handleMarketData(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No name provided"})
	}

	attribute := strings.TrimSpace(c.Query("attribute"))
	rarity := strings.TrimSpace(c.Query("rarity"))

	data := s.market.GetMarketData(c.UserContext(), name, attribute, rarity)
	return c.JSON(data)
}

// handlePricing runs the price scrape alone.
func (s *Server) handlePricing(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No name provided"})
	}

	summary := s.market.FetchPricing(c.UserContext(), name,
		strings.TrimSpace(c.Query("attribute")), s.cfg.ListingLimit, strings.TrimSpace(c.Query("rarity")))
	return c.JSON(summary)
}

// handleImages runs the image scrape alone.
func (s *Server) handleImages(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No name provided"})
	}

	result := s.market.FetchImages(c.UserContext(), name,
		strings.TrimSpace(c.Query("attribute")), s.cfg.ImageLimit)
	return c.JSON(result)
}

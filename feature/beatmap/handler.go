package beatmap

import (
	"encoding/hex"
	"fmt"

	"beatmap-cache/core/errors"
	"beatmap-cache/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for beatmaps.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the beatmap routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	maps := app.Group("/beatmaps")
	maps.Get("/md5/:md5", h.HandleGetByMD5)
	maps.Post("/md5/:md5/plays", h.HandleRecordPlay)
	maps.Get("/:id", h.HandleGetByID)

	app.Get("/beatmapsets/:id", h.HandleGetSet)
}

// HandleGetByMD5 returns one difficulty by checksum.
func (h *Handler) HandleGetByMD5(c *fiber.Ctx) error {
	md5 := c.Params("md5")
	if !validMD5(md5) {
		return badRequest(c, "md5 must be 32 hexadecimal characters")
	}

	b, err := h.service.FetchByMD5(c.UserContext(), md5)
	if err != nil {
		return h.fail(c, err, zap.String("md5", md5))
	}
	return c.JSON(b)
}

// HandleGetByID returns one difficulty by beatmap id.
func (h *Handler) HandleGetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id must be a positive integer")
	}

	b, err := h.service.FetchByID(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err, zap.Int("beatmap_id", id))
	}
	return c.JSON(b)
}

// HandleGetSet returns every difficulty of a set.
func (h *Handler) HandleGetSet(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "id must be a positive integer")
	}

	set, err := h.service.FetchSet(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err, zap.Int("beatmapset_id", id))
	}
	return c.JSON(set)
}

type playRequest struct {
	Passed bool `json:"passed"`
}

// HandleRecordPlay counts a play on the map and returns the updated record.
func (h *Handler) HandleRecordPlay(c *fiber.Ctx) error {
	md5 := c.Params("md5")
	if !validMD5(md5) {
		return badRequest(c, "md5 must be 32 hexadecimal characters")
	}

	var req playRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	b, err := h.service.FetchByMD5(c.UserContext(), md5)
	if err != nil {
		return h.fail(c, err, zap.String("md5", md5))
	}
	if b.MD5 != md5 {
		// the checksum was replaced by a new version of the map
		return h.fail(c, fmt.Errorf("beatmap %s was superseded by %s: %w", md5, b.MD5, errors.ErrNotFound), zap.String("md5", md5))
	}

	b, err = h.service.RecordPlay(c.UserContext(), b, req.Passed)
	if err != nil {
		return h.fail(c, err, zap.String("md5", md5))
	}
	return c.JSON(b)
}

func (h *Handler) fail(c *fiber.Ctx, err error, fields ...zap.Field) error {
	status := StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		l := logger.WithRayID(h.logger, c)
		l.Error("Beatmap request failed", append(fields, zap.Error(err))...)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// StatusFor maps a service error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, errors.ErrServiceUnavailable):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, errors.ErrTransientHTTP):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	})
}

func validMD5(s string) bool {
	if len(s) != 32 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

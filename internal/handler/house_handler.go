package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/haus-gg/haus-api/internal/dto"
	"github.com/haus-gg/haus-api/internal/service"
	"github.com/haus-gg/haus-api/internal/utils"
)

// HouseHandler wires house lifecycle HTTP routes.
type HouseHandler struct {
	service   service.HouseService
	stats     service.HouseStatsService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewHouseHandler constructs the handler.
func NewHouseHandler(service service.HouseService, stats service.HouseStatsService, validator *validator.Validate, logger zerolog.Logger) *HouseHandler {
	return &HouseHandler{
		service:   service,
		stats:     stats,
		validator: validator,
		logger:    logger.With().Str("component", "house_handler").Logger(),
	}
}

// Register attaches house endpoints to the router group. The create route is
// expected to sit behind the producer role guard.
func (h *HouseHandler) Register(router fiber.Router, createGuard fiber.Handler) {
	if createGuard != nil {
		router.Post("", createGuard, h.create)
	} else {
		router.Post("", h.create)
	}
	router.Get("/:id", h.get)
	router.Get("/:id/stats", h.getStats)
	router.Post("/:id/deactivate", h.deactivate)
	router.Post("/:id/leadership", h.transferLeadership)
}

func (h *HouseHandler) create(c *fiber.Ctx) error {
	var payload dto.HouseCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	house, err := h.service.Create(c.UserContext(), identityFromContext(c), payload)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "house created", house)
}

func (h *HouseHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	house, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "house retrieved", house)
}

func (h *HouseHandler) getStats(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	stats, err := h.stats.GetStats(c.UserContext(), id)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "house stats retrieved", stats)
}

func (h *HouseHandler) deactivate(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	house, err := h.service.Deactivate(c.UserContext(), identityFromContext(c), id)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "house deactivated", house)
}

func (h *HouseHandler) transferLeadership(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.LeadershipTransferRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	house, err := h.service.TransferLeadership(c.UserContext(), identityFromContext(c), id, payload)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "house leadership transferred", house)
}

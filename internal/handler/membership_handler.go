package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/haus-gg/haus-api/internal/service"
	"github.com/haus-gg/haus-api/internal/utils"
)

// MembershipHandler wires membership HTTP routes.
type MembershipHandler struct {
	service service.MembershipService
	logger  zerolog.Logger
}

// NewMembershipHandler constructs the handler.
func NewMembershipHandler(service service.MembershipService, logger zerolog.Logger) *MembershipHandler {
	return &MembershipHandler{
		service: service,
		logger:  logger.With().Str("component", "membership_handler").Logger(),
	}
}

// Register attaches membership endpoints to the house router group.
func (h *MembershipHandler) Register(router fiber.Router) {
	router.Get("/:id/members", h.list)
	router.Post("/:id/members", h.join)
	router.Delete("/:id/members/me", h.leave)
}

func (h *MembershipHandler) list(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	members, err := h.service.ListMembers(c.UserContext(), id)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "members retrieved", members)
}

func (h *MembershipHandler) join(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	member, err := h.service.Join(c.UserContext(), identityFromContext(c), id)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "joined house", member)
}

func (h *MembershipHandler) leave(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	member, err := h.service.Leave(c.UserContext(), identityFromContext(c), id)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "left house", member)
}

package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/haus-gg/haus-api/internal/dto"
	"github.com/haus-gg/haus-api/internal/service"
	"github.com/haus-gg/haus-api/internal/utils"
)

// ActivityHandler wires activity proposal, voting and completion routes.
type ActivityHandler struct {
	proposals   service.ProposalService
	voting      service.VotingService
	completions service.CompletionService
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(proposals service.ProposalService, voting service.VotingService, completions service.CompletionService, validator *validator.Validate, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		proposals:   proposals,
		voting:      voting,
		completions: completions,
		validator:   validator,
		logger:      logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register attaches activity endpoints to the house router group.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("/:id/activities", h.list)
	router.Post("/:id/activities", h.propose)
	router.Get("/:id/activities/:activityID", h.get)
	router.Post("/:id/activities/:activityID/votes", h.vote)
	router.Post("/:id/activities/:activityID/approve", h.leaderApprove)
	router.Post("/:id/activities/:activityID/completions", h.complete)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var req dto.ActivityListRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	activities, err := h.proposals.List(c.UserContext(), id, req)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "activities retrieved", activities)
}

func (h *ActivityHandler) propose(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ActivityProposeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	activity, err := h.proposals.Propose(c.UserContext(), identityFromContext(c), id, payload)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "activity proposed", activity)
}

func (h *ActivityHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	activityID, err := parseUintParam(c, "activityID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	activity, err := h.proposals.Get(c.UserContext(), id, activityID)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "activity retrieved", activity)
}

func (h *ActivityHandler) vote(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	activityID, err := parseUintParam(c, "activityID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.VoteRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "in_favor is required")
	}

	activity, err := h.voting.Vote(c.UserContext(), identityFromContext(c), id, activityID, *payload.InFavor)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "ballot recorded", activity)
}

func (h *ActivityHandler) leaderApprove(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	activityID, err := parseUintParam(c, "activityID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	activity, err := h.voting.LeaderApprove(c.UserContext(), identityFromContext(c), id, activityID)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "activity approved", activity)
}

func (h *ActivityHandler) complete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	activityID, err := parseUintParam(c, "activityID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	completion, err := h.completions.Complete(c.UserContext(), identityFromContext(c), id, activityID)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "activity completed", completion)
}

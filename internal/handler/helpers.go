package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/haus-gg/haus-api/internal/middleware"
	"github.com/haus-gg/haus-api/internal/service"
	"github.com/haus-gg/haus-api/internal/utils"
)

func parseUintParam(c *fiber.Ctx, key string) (uint, error) {
	raw := strings.TrimSpace(c.Params(key))
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || parsed == 0 {
		return 0, errors.New("invalid " + key)
	}
	return uint(parsed), nil
}

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func identityFromContext(c *fiber.Ctx) service.Identity {
	identity := service.Identity{}
	if v, ok := c.Locals(middleware.LocalWallet).(string); ok {
		identity.Wallet = v
	}
	if v, ok := c.Locals(middleware.LocalAvatarRef).(string); ok {
		identity.AvatarRef = v
	}
	if v, ok := c.Locals(middleware.LocalRole).(string); ok {
		identity.Role = v
	}
	return identity
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

// sendServiceError maps governance service errors to specific HTTP statuses
// so clients can present an actionable message.
func sendServiceError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	switch {
	case isValidationError(err),
		errors.Is(err, service.ErrEmptyContent):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrHouseNotFound),
		errors.Is(err, service.ErrActivityNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrNotAMember):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrHouseInactive),
		errors.Is(err, service.ErrHouseFull),
		errors.Is(err, service.ErrAlreadyMember),
		errors.Is(err, service.ErrActivityDecided),
		errors.Is(err, service.ErrAlreadyVoted),
		errors.Is(err, service.ErrActivityNotApproved),
		errors.Is(err, service.ErrAlreadyCompleted):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	default:
		requestLogger(logger, c).Error().Err(err).Msg("unhandled service error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

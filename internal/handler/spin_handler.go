package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/unionmart/lucky-wheel-service/internal/model"
	"github.com/unionmart/lucky-wheel-service/internal/service"
)

// SpinServiceInterface defines the interface for the authoritative spin engine.
type SpinServiceInterface interface {
	Spin(ctx context.Context, userID string) (*model.SpinResult, error)
	RetryReward(ctx context.Context, userID, attemptID string) (*model.SpinResult, error)
}

// SpinHandler handles HTTP requests for spin attempts.
type SpinHandler struct {
	service   SpinServiceInterface
	validator *validator.Validate
}

// NewSpinHandler creates a new SpinHandler with the given service and validator.
func NewSpinHandler(svc SpinServiceInterface, v *validator.Validate) *SpinHandler {
	return &SpinHandler{service: svc, validator: v}
}

// Spin handles POST /api/lucky-wheel/spin requests.
// Denials are expected control flow: cooldown maps to 429 with the remaining
// wait, an exhausted allowance and a disabled wheel map to 400. A consumed
// spin whose reward failed maps to 500 with the attempt id so the client can
// retry reward application without spending another spin.
func (h *SpinHandler) Spin(c *fiber.Ctx) error {
	var req model.SpinRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": formatValidationError(err)})
	}

	result, err := h.service.Spin(c.Context(), req.UserID)
	if err != nil {
		var cooldownErr *service.CooldownError
		if errors.As(err, &cooldownErr) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success":           false,
				"message":           fmt.Sprintf("Please wait %d seconds before next spin", cooldownErr.RetryAfterSeconds),
				"retryAfterSeconds": cooldownErr.RetryAfterSeconds,
			})
		}
		if errors.Is(err, service.ErrNoSpinsLeft) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "No remaining spins for today"})
		}
		if errors.Is(err, service.ErrWheelDisabled) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Lucky wheel is disabled"})
		}
		if errors.Is(err, service.ErrWheelNotConfigured) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Lucky wheel data not found"})
		}
		var rewardErr *service.RewardError
		if errors.As(err, &rewardErr) {
			log.Error().
				Err(err).
				Str("request_id", c.GetRespHeader("X-Request-ID")).
				Str("user_id", req.UserID).
				Str("attempt_id", rewardErr.AttemptID).
				Msg("spin consumed but reward not applied")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success":   false,
				"message":   "Spin recorded but reward could not be applied, please retry",
				"attemptId": rewardErr.AttemptID,
			})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("user_id", req.UserID).
			Msg("failed to process spin")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Internal server error"})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("user_id", req.UserID).
		Str("prize_id", result.Prize.ID).
		Int("points_earned", result.Log.PointsEarned).
		Msg("spin processed")

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": result})
}

// RetryReward handles POST /api/lucky-wheel/spin/retry requests. The attempt
// id comes from the error payload of a spin whose reward failed; reward
// application is idempotent under that id, so the client can retry freely
// without spending another spin.
func (h *SpinHandler) RetryReward(c *fiber.Ctx) error {
	var req model.RetryRewardRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": formatValidationError(err)})
	}

	result, err := h.service.RetryReward(c.Context(), req.UserID, req.AttemptID)
	if err != nil {
		if errors.Is(err, service.ErrAttemptNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Spin attempt not found"})
		}
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "User not found"})
		}
		if errors.Is(err, service.ErrWheelNotConfigured) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Lucky wheel data not found"})
		}
		var rewardErr *service.RewardError
		if errors.As(err, &rewardErr) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success":   false,
				"message":   "Spin recorded but reward could not be applied, please retry",
				"attemptId": rewardErr.AttemptID,
			})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("user_id", req.UserID).
			Str("attempt_id", req.AttemptID).
			Msg("failed to retry reward application")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Internal server error"})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("user_id", req.UserID).
		Str("attempt_id", req.AttemptID).
		Str("prize_id", result.Prize.ID).
		Msg("reward retry processed")

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": result})
}

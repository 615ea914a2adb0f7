package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/unionmart/lucky-wheel-service/internal/model"
	"github.com/unionmart/lucky-wheel-service/internal/service"
)

// UserServiceInterface defines the interface for user entitlement and voucher
// ledger operations.
type UserServiceInterface interface {
	Get(ctx context.Context, userID string) (*model.UserResponse, error)
	Update(ctx context.Context, req *model.UpdateUserRequest) (*model.UserResponse, error)
	AddVoucher(ctx context.Context, userID, voucherID string) (*model.UserResponse, error)
	RedeemVoucher(ctx context.Context, req *model.RedeemVoucherRequest) (*model.RedemptionResult, error)
}

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	service   UserServiceInterface
	validator *validator.Validate
}

// NewUserHandler creates a new UserHandler with the given service and validator.
func NewUserHandler(svc UserServiceInterface, v *validator.Validate) *UserHandler {
	return &UserHandler{service: svc, validator: v}
}

// GetUser handles GET /api/user requests. The user id comes from the userId
// query parameter.
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	userID := c.Query("userId")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid request: userId is required"})
	}

	user, err := h.service.Get(c.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "User not found"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("user_id", userID).
			Msg("failed to get user")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Internal server error"})
	}

	return c.JSON(fiber.Map{"success": true, "data": user})
}

// UpdateUser handles PUT /api/user requests. Only the fields present in the
// body are changed; the user record is created when it doesn't exist yet.
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	var req model.UpdateUserRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": formatValidationError(err)})
	}

	user, err := h.service.Update(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid request"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("user_id", req.ID).
			Msg("failed to update user")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Internal server error"})
	}

	return c.JSON(fiber.Map{"success": true, "data": user})
}

// AddVoucher handles POST /api/user/add-voucher requests. Granting the same
// voucher twice is a no-op, so the endpoint is safe to retry.
func (h *UserHandler) AddVoucher(c *fiber.Ctx) error {
	var req model.AddVoucherRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": formatValidationError(err)})
	}

	user, err := h.service.AddVoucher(c.Context(), req.UserID, req.VoucherID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "User not found"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("user_id", req.UserID).
			Str("voucher_id", req.VoucherID).
			Msg("failed to add voucher")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Internal server error"})
	}

	return c.JSON(fiber.Map{"success": true, "data": user})
}

// RedeemVoucher handles POST /api/user/redeem-voucher requests. An already
// redeemed voucher maps to 409 so a double-submitted checkout fails loudly
// instead of discounting twice.
func (h *UserHandler) RedeemVoucher(c *fiber.Ctx) error {
	var req model.RedeemVoucherRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": formatValidationError(err)})
	}

	result, err := h.service.RedeemVoucher(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "User not found"})
		}
		if errors.Is(err, service.ErrVoucherNotClaimed) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Voucher not claimed by user"})
		}
		if errors.Is(err, service.ErrVoucherUsed) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "message": "Voucher already used"})
		}
		if errors.Is(err, service.ErrVoucherNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Voucher not found"})
		}
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid request"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("user_id", req.UserID).
			Str("voucher_id", req.VoucherID).
			Msg("failed to redeem voucher")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Internal server error"})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("user_id", req.UserID).
		Str("voucher_id", req.VoucherID).
		Int64("discount", result.Discount).
		Msg("voucher redeemed")

	return c.JSON(fiber.Map{"success": true, "data": result})
}

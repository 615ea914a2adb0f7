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

// WheelServiceInterface defines the interface for wheel document operations.
type WheelServiceInterface interface {
	GetWheel(ctx context.Context) (*model.WheelResponse, error)
	UpdateConfig(ctx context.Context, req *model.UpdateWheelConfigRequest) (*model.WheelConfig, error)
	AppendSpinLog(ctx context.Context, req *model.AppendSpinLogRequest) (*model.SpinLogEntry, error)
	GetVoucherTemplate(ctx context.Context, voucherID string) (*model.VoucherTemplate, error)
}

// WheelHandler handles HTTP requests for the wheel document, config updates
// and the client-computed spin-log fallback.
type WheelHandler struct {
	service   WheelServiceInterface
	validator *validator.Validate
}

// NewWheelHandler creates a new WheelHandler with the given service and validator.
func NewWheelHandler(svc WheelServiceInterface, v *validator.Validate) *WheelHandler {
	return &WheelHandler{service: svc, validator: v}
}

// formatValidationError converts validator errors to client-facing messages.
func formatValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			field := jsonFieldName(fe.Field())
			switch fe.Tag() {
			case "required":
				return "invalid request: " + field + " is required"
			case "notblank":
				return "invalid request: " + field + " cannot be whitespace only"
			case "max":
				return "invalid request: " + field + " exceeds maximum length"
			case "gte":
				return "invalid request: " + field + " must be at least " + fe.Param()
			case "lte":
				return "invalid request: " + field + " must be at most " + fe.Param()
			case "resettime":
				return "invalid request: " + field + " must be in HH:MM format"
			default:
				return "invalid request: " + field + " is invalid"
			}
		}
	}
	return "invalid request"
}

// jsonFieldName lowercases the first rune so messages use the wire name
// (userId, resetTime) rather than the Go field name.
func jsonFieldName(field string) string {
	if field == "" {
		return field
	}
	b := []byte(field)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}

// GetWheel handles GET /api/lucky-wheel requests.
func (h *WheelHandler) GetWheel(c *fiber.Ctx) error {
	wheel, err := h.service.GetWheel(c.Context())
	if err != nil {
		if errors.Is(err, service.ErrWheelNotConfigured) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Lucky wheel data not found"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("failed to get wheel")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Internal server error"})
	}
	return c.JSON(fiber.Map{"success": true, "data": wheel})
}

// UpdateConfig handles PUT /api/lucky-wheel/config requests. Only the fields
// present in the body are changed.
func (h *WheelHandler) UpdateConfig(c *fiber.Ctx) error {
	var req model.UpdateWheelConfigRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": formatValidationError(err)})
	}

	cfg, err := h.service.UpdateConfig(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrWheelNotConfigured) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Lucky wheel data not found"})
		}
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid request"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("failed to update wheel config")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Internal server error"})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Bool("enabled", cfg.Enabled).
		Str("reset_time", cfg.ResetTime).
		Int("spin_cooldown_minutes", cfg.SpinCooldownMinutes).
		Msg("wheel config updated")

	return c.JSON(fiber.Map{"success": true, "data": cfg})
}

// AppendSpinLog handles POST /api/lucky-wheel/spin-log requests, the fallback
// path where the client computed the outcome itself.
func (h *WheelHandler) AppendSpinLog(c *fiber.Ctx) error {
	var req model.AppendSpinLogRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": formatValidationError(err)})
	}

	entry, err := h.service.AppendSpinLog(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid request"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("user_id", req.UserID).
			Msg("failed to append spin log")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Internal server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": entry})
}

// GetVoucherTemplate handles GET /api/lucky-wheel/voucher-templates/:voucherId requests.
func (h *WheelHandler) GetVoucherTemplate(c *fiber.Ctx) error {
	voucherID := c.Params("voucherId")
	if voucherID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid request: voucherId is required"})
	}

	template, err := h.service.GetVoucherTemplate(c.Context(), voucherID)
	if err != nil {
		if errors.Is(err, service.ErrVoucherNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Voucher not found"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("voucher_id", voucherID).
			Msg("failed to get voucher template")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Internal server error"})
	}

	return c.JSON(fiber.Map{"success": true, "data": template})
}

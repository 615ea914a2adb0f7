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

// VoucherServiceInterface defines the interface for voucher template catalog operations.
type VoucherServiceInterface interface {
	ListVoucherTemplates(ctx context.Context) ([]model.VoucherTemplate, error)
	CreateVoucherTemplate(ctx context.Context, req *model.CreateVoucherTemplateRequest) (*model.VoucherTemplate, error)
}

// VoucherHandler handles HTTP requests for the voucher template catalog.
type VoucherHandler struct {
	service   VoucherServiceInterface
	validator *validator.Validate
}

// NewVoucherHandler creates a new VoucherHandler with the given service and validator.
func NewVoucherHandler(svc VoucherServiceInterface, v *validator.Validate) *VoucherHandler {
	return &VoucherHandler{service: svc, validator: v}
}

// ListVouchers handles GET /api/vouchers requests.
func (h *VoucherHandler) ListVouchers(c *fiber.Ctx) error {
	templates, err := h.service.ListVoucherTemplates(c.Context())
	if err != nil {
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("failed to list voucher templates")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Internal server error"})
	}
	return c.JSON(fiber.Map{"success": true, "data": templates})
}

// CreateVoucher handles POST /api/vouchers requests.
func (h *VoucherHandler) CreateVoucher(c *fiber.Ctx) error {
	var req model.CreateVoucherTemplateRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": formatValidationError(err)})
	}

	template, err := h.service.CreateVoucherTemplate(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid request"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("voucher_code", req.Code).
			Msg("failed to create voucher template")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Internal server error"})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("voucher_id", template.ID).
		Str("voucher_code", template.Code).
		Int("quantity", template.Quantity).
		Msg("voucher template created")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": template})
}

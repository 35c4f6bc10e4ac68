package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	models "github.com/zdziszkee/swiftatlas/internal/models"
	service "github.com/zdziszkee/swiftatlas/internal/services"
	"github.com/zdziszkee/swiftatlas/internal/store"
)

// SwiftHandler handles API requests for SWIFT codes
type SwiftHandler struct {
	service service.SwiftService
	logger  *zap.Logger
}

// NewSwiftHandler creates a new handler instance
func NewSwiftHandler(service service.SwiftService, logger *zap.Logger) *SwiftHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SwiftHandler{service: service, logger: logger.Named("handler")}
}

// GetByCode returns a code; headquarters include their branches.
func (h *SwiftHandler) GetByCode(c fiber.Ctx) error {
	code := c.Params("swiftCode")

	details, err := h.service.GetSwiftCodeDetails(c.Context(), code)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(details)
}

// GetByCountry handles requests for all SWIFT codes by country
func (h *SwiftHandler) GetByCountry(c fiber.Ctx) error {
	countryCode := c.Params("countryISO2code")

	group, err := h.service.GetSwiftCodesByCountry(c.Context(), countryCode)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(group)
}

// Create handles creation of a new SWIFT code
func (h *SwiftHandler) Create(c fiber.Ctx) error {
	var code models.SwiftCodeDetailed
	if err := c.Bind().Body(&code); err != nil {
		return invalidBody(c)
	}

	id, err := h.service.CreateSwiftCode(c.Context(), code)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "SWIFT code created successfully",
		"id":      id,
	})
}

// Update applies a partial update. Only document fields may be patched.
func (h *SwiftHandler) Update(c fiber.Ctx) error {
	var patch map[string]any
	if err := c.Bind().Body(&patch); err != nil {
		return invalidBody(c)
	}
	for field := range patch {
		if !store.IsKnownField(field) || field == store.FieldID {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Unknown field: " + field,
			})
		}
	}

	updated, err := h.service.UpdateSwiftCode(c.Context(), c.Params("swiftCode"), store.Patch(patch))
	if err != nil {
		return h.handleError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

// Replace overwrites the document stored under the given identity.
func (h *SwiftHandler) Replace(c fiber.Ctx) error {
	var code models.SwiftCodeDetailed
	if err := c.Bind().Body(&code); err != nil {
		return invalidBody(c)
	}

	if err := h.service.ReplaceSwiftCode(c.Context(), c.Params("id"), code); err != nil {
		return h.handleError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "SWIFT code replaced successfully",
	})
}

// Delete handles deletion of a SWIFT code
func (h *SwiftHandler) Delete(c fiber.Ctx) error {
	code := c.Params("swiftCode")

	if err := h.service.DeleteSwiftCode(c.Context(), code); err != nil {
		return h.handleError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "SWIFT code deleted successfully",
	})
}

func invalidBody(c fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
	})
}

// handleError maps service errors to status codes. Invalid input carries the
// validation detail.
func (h *SwiftHandler) handleError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "SWIFT code not found",
		})
	case errors.Is(err, service.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.Is(err, service.ErrAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "SWIFT code already exists",
		})
	default:
		h.logger.Error("unhandled service error", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}
}

package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Detail writes the uniform JSON error body used across the API.
func Detail(c *fiber.Ctx, status int, detail string) error {
	return c.Status(status).JSON(fiber.Map{"detail": detail})
}

// ValidationDetail converts validator errors into a single detail string
// listing the failing fields.
func ValidationDetail(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return Detail(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	fields := make([]string, len(validationErrors))
	for i, ve := range validationErrors {
		fields[i] = ve.Field() + " (" + ve.Tag() + ")"
	}

	return Detail(c, fiber.StatusUnprocessableEntity, "campos inválidos: "+strings.Join(fields, ", "))
}

// ParseID reads the numeric :id route param.
func ParseID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, MsgInvalidID)
	}

	return uint(id), nil
}

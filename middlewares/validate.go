package middlewares

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// BindAndValidate parses the request body into dst and validates it with the
// shared validator instance. Parse failures are a 400; validation failures
// surface as validator.ValidationErrors for the global ErrorHandler (422).
// Nested slices (sale items, payments) are validated via `dive` tags.
func BindAndValidate(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return validate.Struct(dst)
}

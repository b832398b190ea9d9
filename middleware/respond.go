package middleware

import (
	"errors"

	"edutrek/utils"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse maps a typed domain error onto the JSON envelope. Unknown
// errors become a 500 without leaking internals.
func ErrorResponse(c *fiber.Ctx, err error) error {
	var (
		validationErr *utils.ValidationError
		authErr       *utils.AuthError
		permErr       *utils.PermissionError
		notFoundErr   *utils.NotFoundError
		upstreamErr   *utils.UpstreamError
	)

	switch {
	case errors.As(err, &validationErr):
		return JsonResponse(c, fiber.StatusBadRequest, false, validationErr.Msg, nil)
	case errors.As(err, &authErr):
		return JsonResponse(c, fiber.StatusUnauthorized, false, authErr.Msg, nil)
	case errors.As(err, &permErr):
		return JsonResponse(c, fiber.StatusForbidden, false, permErr.Msg, nil)
	case errors.As(err, &notFoundErr):
		return JsonResponse(c, fiber.StatusNotFound, false, notFoundErr.Msg, nil)
	case errors.As(err, &upstreamErr):
		return JsonResponse(c, fiber.StatusBadGateway, false, upstreamErr.Msg, nil)
	default:
		return JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong!", nil)
	}
}

package handlers

import (
	"errors"
	"strings"

	"vitrine/internal/apperrors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

// ErrorHandler renders every error returned by a handler as {"code","message"}.
func ErrorHandler(logger *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			if appErr.Status >= fiber.StatusInternalServerError {
				logger.WithError(err).WithFields(logrus.Fields{
					"method": c.Method(),
					"path":   c.Path(),
				}).Error("request failed")
			}
			return c.Status(appErr.Status).JSON(appErr)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code := strings.ToUpper(strings.ReplaceAll(utils.StatusMessage(fiberErr.Code), " ", "_"))
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"code":    code,
				"message": fiberErr.Message,
			})
		}

		logger.WithError(err).WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
		}).Error("unhandled error")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"code":    "INTERNAL_ERROR",
			"message": "Internal server error",
		})
	}
}

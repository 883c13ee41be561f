package middleware

import (
	"time"

	"vitrine/pkg/cache"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// KeyFunc derives a cache key from a request.
type KeyFunc func(c *fiber.Ctx) string

// StaticKey always uses key.
func StaticKey(key string) KeyFunc {
	return func(*fiber.Ctx) string { return key }
}

// ListKey uses base followed by the raw query string, so every page and
// filter combination is cached separately and base works as a prefix.
func ListKey(base string) KeyFunc {
	return func(c *fiber.Ctx) string {
		return base + ":" + string(c.Request().URI().QueryString())
	}
}

// ParamKey uses base followed by the route parameter param.
func ParamKey(base, param string) KeyFunc {
	return func(c *fiber.Ctx) string {
		return base + ":" + c.Params(param)
	}
}

// CacheResponse serves GET requests from store and stores successful JSON
// responses under keyFunc(c) for ttl. Store errors never fail the request.
func CacheResponse(store cache.Store, ttl time.Duration, keyFunc KeyFunc, logger *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodGet {
			return c.Next()
		}

		key := keyFunc(c)
		body, ok, err := store.Get(c.UserContext(), key)
		if err != nil {
			logger.WithError(err).WithField("key", key).Warn("cache read failed")
		}
		if ok {
			logger.WithField("key", key).Debug("serving from cache")
			c.Set("X-Cache", "HIT")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
			return c.Send(body)
		}

		logger.WithField("key", key).Debug("serving from handler")
		if err := c.Next(); err != nil {
			return err
		}

		if c.Response().StatusCode() == fiber.StatusOK {
			payload := append([]byte(nil), c.Response().Body()...)
			if err := store.Set(c.UserContext(), key, payload, ttl); err != nil {
				logger.WithError(err).WithField("key", key).Warn("cache write failed")
			}
		}
		c.Set("X-Cache", "MISS")
		return nil
	}
}

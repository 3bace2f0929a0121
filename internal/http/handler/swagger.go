package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"convertapi/docs"
)

// Swagger serves the Swagger UI and doc.json. The advertised host follows
// the request's Host header and falls back to defaultHost (APP_HOST).
func Swagger(defaultHost string) fiber.Handler {
	docs.SwaggerInfo.Host = defaultHost

	return func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}

		docs.SwaggerInfo.Host = swaggerHost(c.Get("X-Forwarded-Host"), c.Get(fiber.HeaderHost), defaultHost)
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	}
}

func swaggerHost(forwarded, host, fallback string) string {
	if forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if host != "" {
		return host
	}
	return fallback
}

package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/meinhoongagan/conectados/controllers"
)

type AppConfig struct {
	CORSOrigins string
	AccessLog   bool
}

// NewApp builds the fiber app with the shared middleware stack and every route.
func NewApp(cfg AppConfig, h Handlers) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "conectados",
		ErrorHandler: controllers.ErrorHandler,
		UnescapePath: true, // categories and emails arrive percent-encoded
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	if cfg.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
		}))
	}
	origins := cfg.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("conectados API")
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	Setup(app, h)
	return app
}

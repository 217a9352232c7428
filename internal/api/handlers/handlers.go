package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/acme/call-screening/internal/app"
	rulessvc "github.com/acme/call-screening/internal/service/rules"
	screensvc "github.com/acme/call-screening/internal/service/screening"
)

// HandlerSet bundles all HTTP handlers.
type HandlerSet struct {
	container *app.Container
	screening *screensvc.Service
	rules     *rulessvc.Service
}

// NewHandlerSet creates a new handler bundle.
func NewHandlerSet(container *app.Container) *HandlerSet {
	services := container.Services()
	return &HandlerSet{
		container: container,
		screening: services.Screening,
		rules:     services.Rules,
	}
}

// Register wires all routes onto the fiber app.
func (h *HandlerSet) Register(app *fiber.App) {
	app.Get("/healthz", h.health)

	api := app.Group("/api")
	v1 := api.Group("/v1")

	v1.Post("/screen", h.screenCall)

	lists := v1.Group("/lists")
	lists.Get("/whitelist", h.whitelist)
	lists.Post("/whitelist", h.addWhitelisted)
	lists.Delete("/whitelist/:number", h.removeWhitelisted)
	lists.Get("/blocklist", h.blocklist)
	lists.Post("/blocklist", h.addBlocked)
	lists.Delete("/blocklist/:number", h.removeBlocked)

	patterns := v1.Group("/patterns")
	patterns.Get("/", h.patterns)
	patterns.Post("/", h.addPattern)
	patterns.Delete("/:pattern", h.removePattern)

	contacts := v1.Group("/contacts")
	contacts.Put("/", h.syncContacts)

	v1.Get("/verdicts", h.listVerdicts)
	v1.Get("/stats", h.stats)
}

// ErrorHandler provides centralized error responses.
func (h *HandlerSet) ErrorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()

	if fiberErr, ok := err.(*fiber.Error); ok {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	if code == fiber.StatusInternalServerError {
		h.container.Logger.Error("request failed", zap.Error(err))
	}

	return ctx.Status(code).JSON(fiber.Map{
		"error":    message,
		"trace_id": ctx.GetRespHeader("Trace-Id"),
	})
}

func (h *HandlerSet) health(ctx *fiber.Ctx) error {
	healthCtx, cancel := context.WithTimeout(ctx.Context(), 2*time.Second)
	defer cancel()

	errs := make(map[string]string)

	if err := h.container.Postgres.DB().PingContext(healthCtx); err != nil {
		errs["postgres"] = err.Error()
	}

	if err := h.container.Redis.Inner().Ping(healthCtx).Err(); err != nil {
		errs["redis"] = err.Error()
	}

	if err := h.container.Scylla.Session().Query("SELECT now() FROM system.local").WithContext(healthCtx).Exec(); err != nil {
		errs["scylla"] = err.Error()
	}

	status := fiber.StatusOK
	if len(errs) > 0 {
		status = fiber.StatusServiceUnavailable
	}

	return ctx.Status(status).JSON(fiber.Map{"status": "ok", "errors": errs})
}

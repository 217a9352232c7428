package handlers

import (
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"
)

type listEntryRequest struct {
	Number string `json:"number"`
}

type patternRequest struct {
	Pattern string `json:"pattern"`
}

func (h *HandlerSet) whitelist(ctx *fiber.Ctx) error {
	numbers, err := h.rules.Whitelist(ctx.Context())
	if err != nil {
		return translateError(err)
	}
	return ctx.Status(http.StatusOK).JSON(fiber.Map{"numbers": numbers})
}

func (h *HandlerSet) addWhitelisted(ctx *fiber.Ctx) error {
	var req listEntryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.rules.AddWhitelisted(ctx.Context(), req.Number); err != nil {
		return translateError(err)
	}
	return ctx.Status(http.StatusCreated).JSON(fiber.Map{"number": req.Number})
}

func (h *HandlerSet) removeWhitelisted(ctx *fiber.Ctx) error {
	number, err := url.PathUnescape(ctx.Params("number"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid number")
	}
	if err := h.rules.RemoveWhitelisted(ctx.Context(), number); err != nil {
		return translateError(err)
	}
	return ctx.Status(http.StatusNoContent).Send(nil)
}

func (h *HandlerSet) blocklist(ctx *fiber.Ctx) error {
	numbers, err := h.rules.Blocklist(ctx.Context())
	if err != nil {
		return translateError(err)
	}
	return ctx.Status(http.StatusOK).JSON(fiber.Map{"numbers": numbers})
}

func (h *HandlerSet) addBlocked(ctx *fiber.Ctx) error {
	var req listEntryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.rules.AddBlocked(ctx.Context(), req.Number); err != nil {
		return translateError(err)
	}
	return ctx.Status(http.StatusCreated).JSON(fiber.Map{"number": req.Number})
}

func (h *HandlerSet) removeBlocked(ctx *fiber.Ctx) error {
	number, err := url.PathUnescape(ctx.Params("number"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid number")
	}
	if err := h.rules.RemoveBlocked(ctx.Context(), number); err != nil {
		return translateError(err)
	}
	return ctx.Status(http.StatusNoContent).Send(nil)
}

func (h *HandlerSet) patterns(ctx *fiber.Ctx) error {
	patterns, err := h.rules.Patterns(ctx.Context())
	if err != nil {
		return translateError(err)
	}
	return ctx.Status(http.StatusOK).JSON(fiber.Map{"patterns": patterns})
}

func (h *HandlerSet) addPattern(ctx *fiber.Ctx) error {
	var req patternRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.rules.AddPattern(ctx.Context(), req.Pattern); err != nil {
		return translateError(err)
	}
	return ctx.Status(http.StatusCreated).JSON(fiber.Map{"pattern": req.Pattern})
}

func (h *HandlerSet) removePattern(ctx *fiber.Ctx) error {
	pattern, err := url.PathUnescape(ctx.Params("pattern"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid pattern")
	}
	if err := h.rules.RemovePattern(ctx.Context(), pattern); err != nil {
		return translateError(err)
	}
	return ctx.Status(http.StatusNoContent).Send(nil)
}

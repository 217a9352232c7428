package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/acme/call-screening/internal/domain"
	"github.com/acme/call-screening/internal/repository"
)

type screenRequest struct {
	Number             string `json:"number"`
	Handle             string `json:"handle"`
	GatewayAddress     string `json:"gateway_address"`
	IntentAddress      string `json:"intent_address"`
	VerificationFailed bool   `json:"verification_failed"`
}

func (h *HandlerSet) screenCall(ctx *fiber.Ctx) error {
	var req screenRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}

	details := domain.CallDetails{
		DirectNumber:       req.Number,
		Handle:             req.Handle,
		GatewayAddress:     req.GatewayAddress,
		IntentAddress:      req.IntentAddress,
		VerificationFailed: req.VerificationFailed,
	}

	verdict, err := h.screening.Screen(ctx.Context(), details)
	if err != nil {
		return translateError(err)
	}

	return ctx.Status(http.StatusOK).JSON(verdict)
}

type syncContactsRequest struct {
	Contacts []contactEntry `json:"contacts"`
}

type contactEntry struct {
	Number      string `json:"number"`
	DisplayName string `json:"display_name"`
}

func (h *HandlerSet) syncContacts(ctx *fiber.Ctx) error {
	var req syncContactsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}

	records := make([]repository.ContactRecord, 0, len(req.Contacts))
	for _, c := range req.Contacts {
		records = append(records, repository.ContactRecord{
			Normalized:  domain.Normalize(c.Number),
			DisplayName: c.DisplayName,
		})
	}

	if err := h.container.Repositories().Contacts.ReplaceAll(ctx.Context(), records); err != nil {
		return translateError(err)
	}

	return ctx.Status(http.StatusNoContent).Send(nil)
}

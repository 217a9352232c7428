package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/acme/call-screening/internal/domain"
	"github.com/acme/call-screening/internal/service/common"
)

type verdictResponse struct {
	ID          uuid.UUID     `json:"id"`
	Number      string        `json:"number"`
	IsSpam      bool          `json:"is_spam"`
	Reason      domain.Reason `json:"reason"`
	Action      domain.Action `json:"action"`
	EvaluatedAt time.Time     `json:"evaluated_at"`
}

func (h *HandlerSet) listVerdicts(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 50)

	pagingState, err := common.DecodeBase64(ctx.Query("page_token"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid page token")
	}

	records, nextState, err := h.container.Repositories().Verdicts.ListRecent(ctx.Context(), limit, pagingState)
	if err != nil {
		return translateError(err)
	}

	items := make([]verdictResponse, 0, len(records))
	for _, r := range records {
		items = append(items, verdictResponse{
			ID:          r.ID,
			Number:      r.Number,
			IsSpam:      r.IsSpam,
			Reason:      r.Reason,
			Action:      r.Action,
			EvaluatedAt: r.EvaluatedAt,
		})
	}

	resp := fiber.Map{"verdicts": items}
	if len(nextState) > 0 {
		resp["next_page_token"] = common.EncodeBase64(nextState)
	}
	return ctx.Status(http.StatusOK).JSON(resp)
}

func (h *HandlerSet) stats(ctx *fiber.Ctx) error {
	stats, err := h.container.Repositories().Stats.Get(ctx.Context())
	if err != nil {
		return translateError(err)
	}
	return ctx.Status(http.StatusOK).JSON(stats)
}

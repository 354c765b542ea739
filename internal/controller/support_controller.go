package controller

import (
	"bufio"
	"context"
	"errors"
	"time"

	"support-chat-be/internal/dto"
	"support-chat-be/internal/pkg/serverutils"
	"support-chat-be/internal/service"
	"support-chat-be/pkg/llm"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type ISupportController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	LatestSnapshot(ctx *fiber.Ctx) error
}

type supportController struct {
	supportService service.ISupportService
	historyService service.IHistoryService
	turnTimeout    time.Duration
}

func NewSupportController(
	supportService service.ISupportService,
	historyService service.IHistoryService,
	turnTimeout time.Duration,
) ISupportController {
	return &supportController{
		supportService: supportService,
		historyService: historyService,
		turnTimeout:    turnTimeout,
	}
}

func (c *supportController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/support")
	h.Post("", c.Chat)
	h.Get("history/latest", c.LatestSnapshot)
}

// Chat handles one support turn. The reply is streamed back as chunked
// plain text; stream-level failures surface as a terminal error line inside
// the already-open 200 response.
func (c *supportController) Chat(ctx *fiber.Ctx) error {
	var req dto.SupportChatRequest
	if err := ctx.BodyParser(&req); err != nil || len(req.Messages) == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Messages are required",
		})
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	history := make([]llm.Message, len(req.Messages))
	for i, m := range req.Messages {
		history[i] = llm.Message{
			Role:    m.Role,
			Content: m.Content,
		}
	}

	turn, err := c.supportService.BuildTurn(ctx.Context(), history)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process your request",
		})
	}

	ctx.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")

	streamer := c.supportService
	timeout := c.turnTimeout
	// The stream writer runs after this handler returns, so it must not
	// touch the fiber context again.
	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		streamCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		err := streamer.StreamReply(streamCtx, turn, func(delta string) error {
			if _, err := w.WriteString(delta); err != nil {
				return err
			}
			return w.Flush()
		})
		if err != nil {
			message := llm.ErrorMessage(err)
			if errors.Is(err, context.DeadlineExceeded) {
				message = "request timed out"
			}
			_, _ = w.WriteString("\n\nError: " + message)
			_ = w.Flush()
		}
	}))

	return nil
}

func (c *supportController) LatestSnapshot(ctx *fiber.Ctx) error {
	res, err := c.historyService.Latest(ctx.Context())
	if err != nil {
		if errors.Is(err, service.ErrHistoryDisabled) || errors.Is(err, service.ErrNoSnapshots) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get latest snapshot", res))
}

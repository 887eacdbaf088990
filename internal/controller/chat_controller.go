package controller

import (
	"bufio"
	"encoding/json"
	"fmt"

	"rag-qa-be/internal/dto"
	"rag-qa-be/internal/pkg/logger"
	"rag-qa-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router, authGuard fiber.Handler)
	Chat(ctx *fiber.Ctx) error
	ChatStream(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
	logger  logger.ILogger
}

func NewChatController(service service.IChatService, log logger.ILogger) IChatController {
	return &chatController{
		service: service,
		logger:  log,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router, authGuard fiber.Handler) {
	r.Post("/chat", authGuard, c.Chat)
	r.Post("/chat/stream", authGuard, c.ChatStream)
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": "invalid request body",
		})
	}

	res, err := c.service.Answer(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"code":    500,
			"message": err.Error(),
		})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "OK",
		"data":    res,
	})
}

// ChatStream delivers the answer as Server-Sent Events. Each frame carries
// either a content fragment or the single terminal done/error object.
func (c *chatController) ChatStream(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": "invalid request body",
		})
	}

	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")
	ctx.Set("X-Accel-Buffering", "no") // disable nginx buffering

	// The fasthttp RequestCtx doubles as the request context; it is
	// cancelled when the client disconnects, which aborts generation.
	reqCtx := ctx.Context()

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		emit := func(ev dto.StreamEvent) error {
			payload, err := json.Marshal(frameFor(ev))
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return err
			}
			// Flush per frame so fragments reach the client as they are
			// generated; a slow consumer blocks here instead of buffering.
			return w.Flush()
		}

		if err := c.service.AnswerStream(reqCtx, &req, emit); err != nil {
			c.logger.Warn("chat", "stream aborted", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}))

	return nil
}

func frameFor(ev dto.StreamEvent) fiber.Map {
	switch {
	case ev.Err != "":
		return fiber.Map{"error": ev.Err, "done": true}
	case ev.Done && ev.Content != "":
		// Terminal frame of the blank-question short circuit.
		return fiber.Map{"content": ev.Content, "done": true}
	case ev.Done:
		sources := ev.Sources
		if sources == nil {
			sources = []dto.SourceItem{}
		}
		return fiber.Map{"done": true, "sources": sources}
	default:
		return fiber.Map{"content": ev.Content}
	}
}

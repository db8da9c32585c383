package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/relaybot/internal/telegram"
)

// NewDispatchHandler returns the default handler. It feeds every message
// update to the relay engine, one update at a time per chat.
func NewDispatchHandler(deps HandlerDeps) bot.HandlerFunc {
	if deps.Queue == nil {
		deps.Queue = NewKeyedQueue()
	}
	return dispatchHandler{deps}.Handle
}

type dispatchHandler struct {
	deps HandlerDeps
}

func (h dispatchHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "dispatch")

	in, ok := telegram.ToInbound(update)
	if !ok {
		log.DebugContext(ctx, "Skipping update without message", "update_id", updateID(update))
		return
	}

	err := h.deps.Queue.Run(ctx, in.ChatID, func(ctx context.Context) error {
		kind := h.deps.Engine.Dispatch(ctx, in)
		log.DebugContext(ctx, "Update dispatched", "update_id", in.UpdateID, "chat_id", in.ChatID, "kind", kind.String())
		return nil
	})
	if err != nil {
		log.WarnContext(ctx, "Update dropped while waiting for chat queue", "update_id", in.UpdateID, "chat_id", in.ChatID, "error", err)
	}
}

func updateID(update *models.Update) int64 {
	if update == nil {
		return 0
	}
	return update.ID
}

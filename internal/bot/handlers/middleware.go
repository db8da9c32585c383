// Package handlers contains the Telegram update handlers, the per-chat
// queue that serializes them, and their middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// KnownChatsOnly drops message updates that come neither from a private chat
// nor from the admin chat. Other updates pass through.
func KnownChatsOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			if update == nil || update.Message == nil {
				next(ctx, bot, update)
				return
			}

			chat := update.Message.Chat
			if chat.Type != models.ChatTypePrivate && chat.ID != deps.Config.Telegram.AdminChatID {
				deps.Logger.DebugContext(ctx, "Ignoring message from unknown chat",
					"middleware", "KnownChatsOnly", "chat_id", chat.ID, "chat_type", string(chat.Type))
				return
			}

			next(ctx, bot, update)
		}
	}
}

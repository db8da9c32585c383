package telegram

import (
	"github.com/go-telegram/bot/models"

	"github.com/edgard/relaybot/internal/relay"
)

// ToInbound converts a Telegram update into a relay.Inbound. It returns false
// for updates that carry no message, such as edits or callback queries.
func ToInbound(update *models.Update) (relay.Inbound, bool) {
	if update == nil || update.Message == nil {
		return relay.Inbound{}, false
	}
	msg := update.Message

	in := relay.Inbound{
		UpdateID:  update.ID,
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Private:   msg.Chat.Type == models.ChatTypePrivate,
		Text:      msg.Text,
		Caption:   msg.Caption,
		HasMedia:  msg.Text == "",
	}
	if msg.From != nil {
		in.UserID = msg.From.ID
		in.Username = msg.From.Username
		in.FirstName = msg.From.FirstName
	}
	if msg.ReplyToMessage != nil {
		in.ReplyToMessageID = msg.ReplyToMessage.ID
	}
	return in, true
}

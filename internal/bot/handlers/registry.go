package handlers

import (
	"github.com/go-telegram/bot/models"

	"github.com/edgard/relaybot/internal/relay"
)

// UserCommands returns the command menu shown in private chats.
func UserCommands() []models.BotCommand {
	return []models.BotCommand{
		{Command: relay.CommandStart, Description: "Show the welcome message"},
	}
}

// AdminCommands returns the command menu shown in the admin chat.
func AdminCommands() []models.BotCommand {
	return []models.BotCommand{
		{Command: relay.CommandStart, Description: "Show the admin keyboard"},
		{Command: relay.CommandReply, Description: "Reply to a user by id"},
		{Command: relay.CommandCancel, Description: "Cancel a pending reply"},
	}
}

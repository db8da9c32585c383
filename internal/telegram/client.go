package telegram

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/relaybot/internal/config"
	"github.com/edgard/relaybot/internal/relay"
)

// API is the subset of *bot.Bot used by Client.
type API interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	DeleteMessage(ctx context.Context, params *bot.DeleteMessageParams) (bool, error)
	ForwardMessage(ctx context.Context, params *bot.ForwardMessageParams) (*models.Message, error)
}

// Client implements relay.Transport on top of the Telegram Bot API.
type Client struct {
	api     API
	buttons config.ButtonsConfig
}

var _ relay.Transport = (*Client)(nil)

// NewClient returns a Client that renders keyboards with the given button texts.
func NewClient(api API, buttons config.ButtonsConfig) *Client {
	return &Client{api: api, buttons: buttons}
}

// Send sends a plain text message and returns its id.
func (c *Client) Send(ctx context.Context, msg relay.Outgoing) (int, error) {
	params := &bot.SendMessageParams{
		ChatID: msg.ChatID,
		Text:   msg.Text,
	}
	if markup := c.keyboard(msg.Keyboard); markup != nil {
		params.ReplyMarkup = markup
	}

	sent, err := c.api.SendMessage(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("send message to chat %d: %w", msg.ChatID, err)
	}
	if sent == nil {
		return 0, nil
	}
	return sent.ID, nil
}

// Delete deletes a message.
func (c *Client) Delete(ctx context.Context, chatID int64, messageID int) error {
	ok, err := c.api.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: messageID})
	if err != nil {
		return fmt.Errorf("delete message %d in chat %d: %w", messageID, chatID, err)
	}
	if !ok {
		return fmt.Errorf("delete message %d in chat %d: %w", messageID, chatID, errNotDeleted)
	}
	return nil
}

// Forward forwards a message natively and returns the id of the copy.
func (c *Client) Forward(ctx context.Context, fromChatID, toChatID int64, messageID int) (int, error) {
	fwd, err := c.api.ForwardMessage(ctx, &bot.ForwardMessageParams{
		ChatID:     toChatID,
		FromChatID: fromChatID,
		MessageID:  messageID,
	})
	if err != nil {
		return 0, fmt.Errorf("forward message %d from chat %d to chat %d: %w", messageID, fromChatID, toChatID, err)
	}
	if fwd == nil {
		return 0, nil
	}
	return fwd.ID, nil
}

var errNotDeleted = errors.New("telegram reported the message was not deleted")

func (c *Client) keyboard(kb relay.Keyboard) models.ReplyMarkup {
	switch kb {
	case relay.KeyboardUser:
		return &models.ReplyKeyboardMarkup{
			Keyboard: [][]models.KeyboardButton{
				{{Text: c.buttons.ComposeNew}, {Text: c.buttons.Delete}},
			},
			ResizeKeyboard: true,
		}
	case relay.KeyboardAdmin:
		return &models.ReplyKeyboardMarkup{
			Keyboard:       [][]models.KeyboardButton{{{Text: c.buttons.AdminReply}}},
			ResizeKeyboard: true,
		}
	case relay.KeyboardForceReply:
		return &models.ForceReply{ForceReply: true, InputFieldPlaceholder: "<user id> <text>"}
	default:
		return nil
	}
}

// IsClientError reports whether err is a Bot API rejection of one request,
// such as a user who blocked the bot or a message that is already gone,
// rather than a failure of the API itself.
func IsClientError(err error) bool {
	return errors.Is(err, errNotDeleted) ||
		errors.Is(err, bot.ErrorBadRequest) ||
		errors.Is(err, bot.ErrorForbidden) ||
		errors.Is(err, bot.ErrorNotFound)
}

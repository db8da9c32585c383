package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/edgard/relaybot/internal/config"
)

// EngineConfig holds the static settings of an Engine.
type EngineConfig struct {
	AdminChatID int64
	Buttons     Buttons
	Messages    config.MessagesConfig
}

// Engine relays user messages to the admin chat and routes delete and reply
// actions back to the right user. Callers must not run two updates for the
// same chat concurrently.
type Engine struct {
	logger    *slog.Logger
	cfg       EngineConfig
	store     SessionStore
	transport Transport
	journal   Journal
	flow      *ReplyFlow
	now       func() time.Time
}

// NewEngine creates an Engine. A nil journal disables journaling.
func NewEngine(logger *slog.Logger, cfg EngineConfig, store SessionStore, transport Transport, journal Journal) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if journal == nil {
		journal = NopJournal{}
	}
	return &Engine{
		logger:    logger.With("component", "relay_engine"),
		cfg:       cfg,
		store:     store,
		transport: transport,
		journal:   journal,
		flow:      NewReplyFlow(),
		now:       time.Now,
	}
}

// ReplyState returns the admin reply state of chatID.
func (e *Engine) ReplyState(chatID int64) ReplyState {
	return e.flow.State(chatID)
}

// Dispatch classifies in and runs the matching action. It returns the kind
// that was handled.
func (e *Engine) Dispatch(ctx context.Context, in Inbound) Kind {
	kind := Classify(in, e.cfg.AdminChatID, e.flow.State(in.ChatID), e.cfg.Buttons)

	switch kind {
	case KindStart:
		e.Start(ctx, in)
	case KindComposeNew:
		e.ComposeNew(ctx, in)
	case KindDelete:
		e.Delete(ctx, in)
	case KindAdminReply:
		e.BeginReply(ctx, in)
	case KindReplyBody:
		e.HandleReplyBody(ctx, in)
	case KindCancel:
		e.CancelReply(ctx, in)
	case KindQuickReply:
		e.QuickReply(ctx, in)
	case KindRelay:
		e.Relay(ctx, in)
	default:
		e.logger.DebugContext(ctx, "Ignoring message", "chat_id", in.ChatID, "user_id", in.UserID, "message_id", in.MessageID)
	}
	return kind
}

// Start greets the user, or the admin in the admin chat.
func (e *Engine) Start(ctx context.Context, in Inbound) {
	if in.ChatID == e.cfg.AdminChatID {
		e.send(ctx, in.ChatID, e.cfg.Messages.AdminWelcome, KeyboardAdmin)
		return
	}
	e.send(ctx, in.ChatID, e.cfg.Messages.Welcome, KeyboardUser)
}

// ComposeNew prompts the user for another message.
func (e *Engine) ComposeNew(ctx context.Context, in Inbound) {
	e.send(ctx, in.ChatID, e.cfg.Messages.ComposePrompt, KeyboardUser)
}

// Relay records the user's message as their session, confirms it, and
// delivers it to the admin chat: text as a quote, anything else as a native
// forward followed by an annotation. Delivery failures are reported to the
// user; the confirmation is not retracted.
func (e *Engine) Relay(ctx context.Context, in Inbound) {
	log := e.logger.With("user_id", in.UserID, "message_id", in.MessageID)

	session := Session{
		UserID:            in.UserID,
		OriginalMessageID: in.MessageID,
		Text:              in.Text,
		Caption:           in.Caption,
		DisplayName:       in.DisplayName(),
		CreatedAt:         e.now().UTC(),
		Media:             in.Text == "",
	}
	if session.Media {
		session.Text = MediaSentinel
	}

	if err := e.store.Put(ctx, session); err != nil {
		log.ErrorContext(ctx, "Failed to store relay session", "error", err)
		e.send(ctx, in.ChatID, e.cfg.Messages.RelayFailed, KeyboardUser)
		return
	}

	e.send(ctx, in.ChatID, e.cfg.Messages.Confirmation, KeyboardUser)

	deliverErr := e.deliver(ctx, in, &session)

	// Keep whatever copies reached the admin chat so delete can find them.
	if session.ForwardedMessageID != 0 || session.NoteMessageID != 0 {
		if err := e.store.Put(ctx, session); err != nil {
			log.ErrorContext(ctx, "Failed to update relay session", "error", err)
		}
	}

	if deliverErr != nil {
		log.ErrorContext(ctx, "Failed to relay message to admin", "error", deliverErr, "admin_chat_id", e.cfg.AdminChatID)
		e.record(ctx, JournalRelayFailed, in.UserID, in.MessageID, session.Text)
		e.send(ctx, in.ChatID, e.cfg.Messages.RelayFailed, KeyboardUser)
		return
	}

	log.InfoContext(ctx, "Relayed message to admin", "media", session.IsMedia(), "forwarded_message_id", session.ForwardedMessageID)
	e.record(ctx, JournalRelay, in.UserID, in.MessageID, session.Text)
}

func (e *Engine) deliver(ctx context.Context, in Inbound, session *Session) error {
	admin := e.cfg.AdminChatID

	if !session.IsMedia() {
		text := fmt.Sprintf(e.cfg.Messages.RelayTextFmt, session.DisplayName, in.UserID, session.Text)
		id, err := e.transport.Send(ctx, Outgoing{ChatID: admin, Text: text})
		if err != nil {
			return fmt.Errorf("send quote: %w", err)
		}
		session.ForwardedMessageID = id
		return nil
	}

	id, err := e.transport.Forward(ctx, in.ChatID, admin, in.MessageID)
	if err != nil {
		return fmt.Errorf("forward media: %w", err)
	}
	session.ForwardedMessageID = id

	captionLine := ""
	if session.Caption != "" {
		captionLine = ":\n\n" + session.Caption
	}
	note := fmt.Sprintf(e.cfg.Messages.RelayMediaFmt, session.DisplayName, in.UserID, captionLine)
	noteID, err := e.transport.Send(ctx, Outgoing{ChatID: admin, Text: note})
	if err != nil {
		return fmt.Errorf("send media note: %w", err)
	}
	session.NoteMessageID = noteID
	return nil
}

// Delete removes the user's latest message and its admin-side copies. On any
// failure the session stays, with the copies already deleted cleared, so a
// retry only attempts what is left.
func (e *Engine) Delete(ctx context.Context, in Inbound) {
	log := e.logger.With("user_id", in.UserID)

	session, ok, err := e.store.Get(ctx, in.UserID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load relay session", "error", err)
		e.send(ctx, in.ChatID, e.cfg.Messages.DeleteFailed, KeyboardUser)
		return
	}
	if !ok {
		e.send(ctx, in.ChatID, e.cfg.Messages.NothingToDelete, KeyboardUser)
		return
	}

	originalID := session.OriginalMessageID
	targets := []struct {
		chatID int64
		id     *int
	}{
		{session.UserID, &session.OriginalMessageID},
		{e.cfg.AdminChatID, &session.ForwardedMessageID},
		{e.cfg.AdminChatID, &session.NoteMessageID},
	}

	var errs []error
	for _, target := range targets {
		if *target.id == 0 {
			continue
		}
		if err := e.transport.Delete(ctx, target.chatID, *target.id); err != nil {
			errs = append(errs, fmt.Errorf("delete message %d in chat %d: %w", *target.id, target.chatID, err))
			continue
		}
		*target.id = 0
	}

	if err := errors.Join(errs...); err != nil {
		log.ErrorContext(ctx, "Failed to delete relayed message", "error", err)
		if putErr := e.store.Put(ctx, session); putErr != nil {
			log.ErrorContext(ctx, "Failed to update relay session", "error", putErr)
		}
		e.send(ctx, in.ChatID, e.cfg.Messages.DeleteFailed, KeyboardUser)
		return
	}

	if err := e.store.Remove(ctx, in.UserID); err != nil {
		log.ErrorContext(ctx, "Failed to remove relay session", "error", err)
	}
	log.InfoContext(ctx, "Deleted relayed message")
	e.record(ctx, JournalDelete, in.UserID, originalID, session.Text)
	e.send(ctx, in.ChatID, e.cfg.Messages.DeleteSuccess, KeyboardUser)
}

// BeginReply opens the two-step reply interaction in the admin chat.
func (e *Engine) BeginReply(ctx context.Context, in Inbound) {
	e.flow.Begin(in.ChatID)
	e.send(ctx, in.ChatID, e.cfg.Messages.ReplyPrompt, KeyboardForceReply)
}

// CancelReply aborts the reply interaction.
func (e *Engine) CancelReply(ctx context.Context, in Inbound) {
	e.flow.Reset(in.ChatID)
	e.send(ctx, in.ChatID, e.cfg.Messages.ReplyCancelled, KeyboardAdmin)
}

// HandleReplyBody parses "<userId> <text>" and delivers the reply. The
// interaction ends on every outcome, including a format error.
func (e *Engine) HandleReplyBody(ctx context.Context, in Inbound) {
	e.flow.Reset(in.ChatID)

	userID, text, err := ParseReply(in.Text)
	if err != nil {
		e.logger.InfoContext(ctx, "Rejected malformed admin reply", "chat_id", in.ChatID, "error", err)
		e.send(ctx, in.ChatID, e.cfg.Messages.ReplyFormatError, KeyboardAdmin)
		return
	}
	e.deliverReply(ctx, in.ChatID, userID, text)
}

// QuickReply answers the user whose relayed copy the admin replied to.
func (e *Engine) QuickReply(ctx context.Context, in Inbound) {
	userID, ok, err := e.store.FindUserByCopy(ctx, in.ReplyToMessageID)
	if err != nil {
		e.logger.ErrorContext(ctx, "Failed to look up relayed copy", "error", err, "reply_to", in.ReplyToMessageID)
		e.send(ctx, in.ChatID, e.cfg.Messages.ReplyFailed, KeyboardAdmin)
		return
	}
	if !ok {
		e.send(ctx, in.ChatID, e.cfg.Messages.SessionNotFound, KeyboardAdmin)
		return
	}
	e.deliverReply(ctx, in.ChatID, userID, in.Text)
}

func (e *Engine) deliverReply(ctx context.Context, adminChatID, userID int64, text string) {
	log := e.logger.With("target_user_id", userID)

	id, err := e.transport.Send(ctx, Outgoing{
		ChatID:   userID,
		Text:     fmt.Sprintf(e.cfg.Messages.ReplyTextFmt, text),
		Keyboard: KeyboardUser,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to deliver admin reply", "error", err)
		e.send(ctx, adminChatID, e.cfg.Messages.ReplyFailed, KeyboardAdmin)
		return
	}

	log.InfoContext(ctx, "Delivered admin reply", "message_id", id)
	e.record(ctx, JournalReply, userID, id, text)
	e.send(ctx, adminChatID, fmt.Sprintf(e.cfg.Messages.ReplySentFmt, userID), KeyboardAdmin)
}

func (e *Engine) send(ctx context.Context, chatID int64, text string, kb Keyboard) {
	if _, err := e.transport.Send(ctx, Outgoing{ChatID: chatID, Text: text, Keyboard: kb}); err != nil {
		e.logger.ErrorContext(ctx, "Failed to send message", "error", err, "chat_id", chatID)
	}
}

func (e *Engine) record(ctx context.Context, kind JournalKind, userID int64, messageID int, text string) {
	entry := JournalEntry{Kind: kind, UserID: userID, MessageID: messageID, Text: text, CreatedAt: e.now().UTC()}
	if err := e.journal.Record(ctx, entry); err != nil {
		e.logger.WarnContext(ctx, "Failed to write journal entry", "error", err, "kind", kind, "user_id", userID)
	}
}

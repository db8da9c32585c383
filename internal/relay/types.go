// Package relay implements the relay session manager: it tracks each user's
// latest message and its copy in the admin chat, classifies inbound updates,
// and drives the relay, delete and admin reply flows through a Transport.
package relay

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// MediaSentinel is the display text of a session created from a message
// without text. It never decides how a message is relayed; Session.Media does.
const MediaSentinel = "media message"

// Session links a user's latest message to its relayed copies in the admin chat.
// A zero message ID means the message is not tracked (or was already deleted).
type Session struct {
	UserID             int64
	OriginalMessageID  int
	ForwardedMessageID int
	NoteMessageID      int
	Text               string
	Caption            string
	DisplayName        string
	CreatedAt          time.Time

	// Media is set when the message had no text and was relayed as a native
	// forward plus a note.
	Media bool
}

// IsMedia reports whether the session was created from a non-text message.
func (s Session) IsMedia() bool {
	return s.Media
}

// Inbound is a transport-neutral view of one incoming message.
type Inbound struct {
	UpdateID  int64
	ChatID    int64
	UserID    int64
	MessageID int
	Private   bool
	Username  string
	FirstName string
	Text      string
	Caption   string
	HasMedia  bool

	// ReplyToMessageID is the message this one answers in Telegram, 0 if none.
	ReplyToMessageID int
}

// DisplayName returns a best-effort human-readable sender identity.
func (in Inbound) DisplayName() string {
	first := strings.TrimSpace(in.FirstName)
	user := strings.TrimPrefix(strings.TrimSpace(in.Username), "@")

	switch {
	case first != "" && user != "":
		return fmt.Sprintf("%s (@%s)", first, user)
	case first != "":
		return first
	case user != "":
		return "@" + user
	default:
		return fmt.Sprintf("user %d", in.UserID)
	}
}

// Keyboard selects the reply keyboard attached to an outgoing message.
type Keyboard int

const (
	KeyboardNone Keyboard = iota
	KeyboardUser
	KeyboardAdmin
	// KeyboardForceReply opens a reply to the sent message in the client.
	KeyboardForceReply
)

// Outgoing is a text message to send through the Transport.
type Outgoing struct {
	ChatID   int64
	Text     string
	Keyboard Keyboard
}

// Transport is the messaging capability the relay needs from the chat platform.
type Transport interface {
	Send(ctx context.Context, msg Outgoing) (int, error)
	Delete(ctx context.Context, chatID int64, messageID int) error
	Forward(ctx context.Context, fromChatID, toChatID int64, messageID int) (int, error)
}

// JournalKind labels an audit journal entry.
type JournalKind string

const (
	JournalRelay       JournalKind = "relay"
	JournalRelayFailed JournalKind = "relay_failed"
	JournalDelete      JournalKind = "delete"
	JournalReply       JournalKind = "reply"
)

// JournalEntry is one line of the relay audit trail.
type JournalEntry struct {
	Kind      JournalKind
	UserID    int64
	MessageID int
	Text      string
	CreatedAt time.Time
}

// Journal records relay activity. It is write-only: sessions are never
// rebuilt from it.
type Journal interface {
	Record(ctx context.Context, entry JournalEntry) error
}

// NopJournal discards every entry.
type NopJournal struct{}

// Record implements Journal.
func (NopJournal) Record(context.Context, JournalEntry) error { return nil }

package relay

import "strings"

// Kind is the classification of one inbound message.
type Kind int

const (
	KindIgnore Kind = iota
	KindStart
	KindComposeNew
	KindDelete
	KindAdminReply
	KindReplyBody
	KindCancel
	KindQuickReply
	KindRelay
)

var kindNames = map[Kind]string{
	KindIgnore:     "ignore",
	KindStart:      "start",
	KindComposeNew: "compose_new",
	KindDelete:     "delete",
	KindAdminReply: "admin_reply",
	KindReplyBody:  "reply_body",
	KindCancel:     "cancel",
	KindQuickReply: "quick_reply",
	KindRelay:      "relay",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Command names recognized by Classify.
const (
	CommandStart  = "start"
	CommandReply  = "reply"
	CommandCancel = "cancel"
)

// Buttons holds the literal keyboard texts that trigger actions.
type Buttons struct {
	ComposeNew string
	Delete     string
	AdminReply string
}

// Classify maps an inbound message to exactly one Kind. Messages in the admin
// chat are classified first, using the admin's reply state. In private chats
// commands and exact button texts win over the catch-all relay, and unknown
// commands are relayed as ordinary content.
func Classify(in Inbound, adminChatID int64, state ReplyState, buttons Buttons) Kind {
	if in.ChatID == 0 {
		return KindIgnore
	}

	text := strings.TrimSpace(in.Text)
	cmd := command(text)

	if in.ChatID == adminChatID {
		isReply := cmd == CommandReply || buttons.AdminReply != "" && text == buttons.AdminReply
		if state == StateAwaitingReplyBody {
			switch {
			case cmd == CommandCancel:
				return KindCancel
			case isReply:
				return KindAdminReply
			}
			return KindReplyBody
		}
		switch {
		case isReply:
			return KindAdminReply
		case cmd == CommandStart:
			return KindStart
		case in.ReplyToMessageID != 0 && text != "":
			return KindQuickReply
		}
		return KindIgnore
	}

	if !in.Private || in.UserID == 0 {
		return KindIgnore
	}

	switch {
	case cmd == CommandStart:
		return KindStart
	case buttons.ComposeNew != "" && text == buttons.ComposeNew:
		return KindComposeNew
	case buttons.Delete != "" && text == buttons.Delete:
		return KindDelete
	}
	return KindRelay
}

// command returns the lower-cased command name of a "/cmd@bot args" text,
// or "" when the text is not a command.
func command(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	name := strings.Fields(text)[0][1:]
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	return strings.ToLower(name)
}

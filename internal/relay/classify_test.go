package relay

import "testing"

func TestClassify(t *testing.T) {
	t.Parallel()

	const admin int64 = -500
	buttons := Buttons{ComposeNew: "Write another", Delete: "Delete message", AdminReply: "Reply to user"}
	private := func(text string) Inbound {
		return Inbound{ChatID: 42, UserID: 42, MessageID: 1, Private: true, Text: text}
	}
	fromAdmin := func(text string) Inbound {
		return Inbound{ChatID: admin, UserID: 7, MessageID: 1, Text: text}
	}

	tests := []struct {
		name  string
		in    Inbound
		state ReplyState
		want  Kind
	}{
		{"start command", private("/start"), StateIdle, KindStart},
		{"start with bot suffix", private("/start@relay_bot"), StateIdle, KindStart},
		{"start with payload", private("/start ref123"), StateIdle, KindStart},
		{"start upper case", private("/START"), StateIdle, KindStart},
		{"compose button", private("Write another"), StateIdle, KindComposeNew},
		{"delete button", private("Delete message"), StateIdle, KindDelete},
		{"delete button with spaces", private("  Delete message "), StateIdle, KindDelete},
		{"delete button prefix is relayed", private("Delete message please"), StateIdle, KindRelay},
		{"plain text", private("hello"), StateIdle, KindRelay},
		{"unknown command", private("/help"), StateIdle, KindRelay},
		{"cancel from user", private("/cancel"), StateIdle, KindRelay},
		{"media", Inbound{ChatID: 42, UserID: 42, Private: true, HasMedia: true}, StateIdle, KindRelay},
		{"group chat", Inbound{ChatID: -9, UserID: 42, Text: "hello"}, StateIdle, KindIgnore},
		{"no sender", Inbound{ChatID: 42, Private: true, Text: "hello"}, StateIdle, KindIgnore},
		{"empty update", Inbound{}, StateIdle, KindIgnore},
		{"admin reply command", fromAdmin("/reply"), StateIdle, KindAdminReply},
		{"admin reply button", fromAdmin("Reply to user"), StateIdle, KindAdminReply},
		{"admin start", fromAdmin("/start"), StateIdle, KindStart},
		{"admin free text", fromAdmin("42 hello"), StateIdle, KindIgnore},
		{"admin delete button", fromAdmin("Delete message"), StateIdle, KindIgnore},
		{"admin quick reply", Inbound{ChatID: admin, Text: "thanks", ReplyToMessageID: 99}, StateIdle, KindQuickReply},
		{"admin reply body", fromAdmin("42 hello"), StateAwaitingReplyBody, KindReplyBody},
		{"admin reply body looks like command", fromAdmin("/start"), StateAwaitingReplyBody, KindReplyBody},
		{"admin cancel", fromAdmin("/cancel"), StateAwaitingReplyBody, KindCancel},
		{"admin reply button while awaiting", fromAdmin("Reply to user"), StateAwaitingReplyBody, KindAdminReply},
		{"admin reply command while awaiting", fromAdmin("/reply@relay_bot"), StateAwaitingReplyBody, KindAdminReply},
		{"admin cancel idle", fromAdmin("/cancel"), StateIdle, KindIgnore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tt.in, admin, tt.state, buttons); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"/start", "start"},
		{"/Start@MyBot extra", "start"},
		{"/", ""},
		{"start", ""},
		{"", ""},
		{"/reply 42 hi", "reply"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := command(tt.input); got != tt.expected {
				t.Errorf("command(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()

	if KindRelay.String() != "relay" || KindQuickReply.String() != "quick_reply" {
		t.Errorf("unexpected names %q %q", KindRelay, KindQuickReply)
	}
	if Kind(99).String() != "unknown" {
		t.Errorf("Kind(99).String() = %q", Kind(99).String())
	}
}

package relay

import (
	"errors"
	"strconv"
	"strings"
	"sync"
	"unicode"
)

// ErrInvalidReplyFormat is returned by ParseReply for input not shaped like "<userId> <text>".
var ErrInvalidReplyFormat = errors.New("invalid reply format")

// ReplyState is the admin reply interaction state.
type ReplyState int

const (
	StateIdle ReplyState = iota
	StateAwaitingReplyBody
)

func (s ReplyState) String() string {
	if s == StateAwaitingReplyBody {
		return "awaiting_reply_body"
	}
	return "idle"
}

// ReplyFlow tracks the two-step reply interaction per admin chat.
type ReplyFlow struct {
	mu     sync.Mutex
	states map[int64]ReplyState
}

// NewReplyFlow returns a ReplyFlow with every chat Idle.
func NewReplyFlow() *ReplyFlow {
	return &ReplyFlow{states: make(map[int64]ReplyState)}
}

// State returns the current state for chatID.
func (f *ReplyFlow) State(chatID int64) ReplyState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.states[chatID]
}

// Begin moves chatID to AwaitingReplyBody.
func (f *ReplyFlow) Begin(chatID int64) {
	f.mu.Lock()
	f.states[chatID] = StateAwaitingReplyBody
	f.mu.Unlock()
}

// Reset moves chatID back to Idle.
func (f *ReplyFlow) Reset(chatID int64) {
	f.mu.Lock()
	delete(f.states, chatID)
	f.mu.Unlock()
}

// ParseReply splits "<userId> <text>" on the first run of whitespace.
func ParseReply(input string) (int64, string, error) {
	input = strings.TrimSpace(input)
	idx := strings.IndexFunc(input, unicode.IsSpace)
	if idx < 0 {
		return 0, "", ErrInvalidReplyFormat
	}

	userID, err := strconv.ParseInt(input[:idx], 10, 64)
	if err != nil || userID <= 0 {
		return 0, "", ErrInvalidReplyFormat
	}

	text := strings.TrimSpace(input[idx:])
	if text == "" {
		return 0, "", ErrInvalidReplyFormat
	}
	return userID, text, nil
}

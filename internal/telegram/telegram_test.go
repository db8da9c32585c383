package telegram

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/relaybot/internal/config"
	"github.com/edgard/relaybot/internal/relay"
)

type fakeAPI struct {
	sent      []*bot.SendMessageParams
	deleted   []*bot.DeleteMessageParams
	forwarded []*bot.ForwardMessageParams

	sendErr    error
	deleteOK   bool
	deleteErr  error
	forwardErr error
}

func (f *fakeAPI) SendMessage(_ context.Context, p *bot.SendMessageParams) (*models.Message, error) {
	f.sent = append(f.sent, p)
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return &models.Message{ID: 100 + len(f.sent)}, nil
}

func (f *fakeAPI) DeleteMessage(_ context.Context, p *bot.DeleteMessageParams) (bool, error) {
	f.deleted = append(f.deleted, p)
	return f.deleteOK, f.deleteErr
}

func (f *fakeAPI) ForwardMessage(_ context.Context, p *bot.ForwardMessageParams) (*models.Message, error) {
	f.forwarded = append(f.forwarded, p)
	if f.forwardErr != nil {
		return nil, f.forwardErr
	}
	return &models.Message{ID: 500}, nil
}

var testButtons = config.ButtonsConfig{ComposeNew: "new", Delete: "del", AdminReply: "reply"}

func TestClientSend_Keyboards(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		keyboard relay.Keyboard
		check    func(t *testing.T, markup models.ReplyMarkup)
	}{
		{
			name:     "none",
			keyboard: relay.KeyboardNone,
			check: func(t *testing.T, markup models.ReplyMarkup) {
				if markup != nil {
					t.Errorf("ReplyMarkup = %#v, want nil", markup)
				}
			},
		},
		{
			name:     "user",
			keyboard: relay.KeyboardUser,
			check: func(t *testing.T, markup models.ReplyMarkup) {
				kb, ok := markup.(*models.ReplyKeyboardMarkup)
				if !ok {
					t.Fatalf("ReplyMarkup type = %T, want *models.ReplyKeyboardMarkup", markup)
				}
				if len(kb.Keyboard) != 1 || len(kb.Keyboard[0]) != 2 {
					t.Fatalf("keyboard layout = %v, want one row of two buttons", kb.Keyboard)
				}
				if kb.Keyboard[0][0].Text != "new" || kb.Keyboard[0][1].Text != "del" {
					t.Errorf("buttons = %q, %q", kb.Keyboard[0][0].Text, kb.Keyboard[0][1].Text)
				}
			},
		},
		{
			name:     "admin",
			keyboard: relay.KeyboardAdmin,
			check: func(t *testing.T, markup models.ReplyMarkup) {
				kb, ok := markup.(*models.ReplyKeyboardMarkup)
				if !ok {
					t.Fatalf("ReplyMarkup type = %T, want *models.ReplyKeyboardMarkup", markup)
				}
				if len(kb.Keyboard) != 1 || len(kb.Keyboard[0]) != 1 || kb.Keyboard[0][0].Text != "reply" {
					t.Errorf("keyboard = %v, want single reply button", kb.Keyboard)
				}
			},
		},
		{
			name:     "force reply",
			keyboard: relay.KeyboardForceReply,
			check: func(t *testing.T, markup models.ReplyMarkup) {
				fr, ok := markup.(*models.ForceReply)
				if !ok || !fr.ForceReply {
					t.Errorf("ReplyMarkup = %#v, want force reply", markup)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			api := &fakeAPI{}
			c := NewClient(api, testButtons)

			id, err := c.Send(context.Background(), relay.Outgoing{ChatID: 7, Text: "hi", Keyboard: tt.keyboard})
			if err != nil {
				t.Fatalf("Send() error = %v", err)
			}
			if id != 101 {
				t.Errorf("Send() id = %d, want 101", id)
			}
			if len(api.sent) != 1 {
				t.Fatalf("sent %d messages, want 1", len(api.sent))
			}
			if api.sent[0].ChatID != int64(7) || api.sent[0].Text != "hi" {
				t.Errorf("params = %+v", api.sent[0])
			}
			tt.check(t, api.sent[0].ReplyMarkup)
		})
	}
}

func TestClientSend_Error(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	c := NewClient(&fakeAPI{sendErr: boom}, testButtons)
	if _, err := c.Send(context.Background(), relay.Outgoing{ChatID: 1, Text: "x"}); !errors.Is(err, boom) {
		t.Errorf("Send() error = %v, want wrapped boom", err)
	}
}

func TestClientDelete(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	tests := []struct {
		name    string
		ok      bool
		err     error
		wantErr bool
	}{
		{name: "deleted", ok: true},
		{name: "not deleted", ok: false, wantErr: true},
		{name: "api error", err: boom, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			api := &fakeAPI{deleteOK: tt.ok, deleteErr: tt.err}
			err := NewClient(api, testButtons).Delete(context.Background(), 5, 9)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Delete() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.err != nil && !errors.Is(err, tt.err) {
				t.Errorf("Delete() error = %v, want wrapped %v", err, tt.err)
			}
			if len(api.deleted) != 1 || api.deleted[0].ChatID != int64(5) || api.deleted[0].MessageID != 9 {
				t.Errorf("delete params = %+v", api.deleted)
			}
		})
	}
}

func TestClientForward(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	id, err := NewClient(api, testButtons).Forward(context.Background(), 10, -20, 3)
	if err != nil {
		t.Fatalf("Forward() error = %v", err)
	}
	if id != 500 {
		t.Errorf("Forward() id = %d, want 500", id)
	}
	p := api.forwarded[0]
	if p.FromChatID != int64(10) || p.ChatID != int64(-20) || p.MessageID != 3 {
		t.Errorf("forward params = %+v", p)
	}

	api.forwardErr = errors.New("forbidden")
	if _, err := NewClient(api, testButtons).Forward(context.Background(), 10, -20, 3); err == nil {
		t.Error("Forward() error = nil, want error")
	}
}

func TestToInbound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		update *models.Update
		wantOK bool
		want   relay.Inbound
	}{
		{name: "nil update", update: nil},
		{name: "no message", update: &models.Update{ID: 1}},
		{
			name: "private text",
			update: &models.Update{ID: 2, Message: &models.Message{
				ID:   11,
				Chat: models.Chat{ID: 42, Type: models.ChatTypePrivate},
				From: &models.User{ID: 42, Username: "ann", FirstName: "Ann"},
				Text: "hello",
			}},
			wantOK: true,
			want: relay.Inbound{
				UpdateID: 2, ChatID: 42, UserID: 42, MessageID: 11, Private: true,
				Username: "ann", FirstName: "Ann", Text: "hello",
			},
		},
		{
			name: "photo with caption",
			update: &models.Update{ID: 3, Message: &models.Message{
				ID:      12,
				Chat:    models.Chat{ID: 42, Type: models.ChatTypePrivate},
				From:    &models.User{ID: 42},
				Caption: "look",
			}},
			wantOK: true,
			want: relay.Inbound{
				UpdateID: 3, ChatID: 42, UserID: 42, MessageID: 12, Private: true,
				Caption: "look", HasMedia: true,
			},
		},
		{
			name: "group reply without sender",
			update: &models.Update{ID: 4, Message: &models.Message{
				ID:             13,
				Chat:           models.Chat{ID: -100, Type: models.ChatTypeSupergroup},
				Text:           "thanks",
				ReplyToMessage: &models.Message{ID: 7},
			}},
			wantOK: true,
			want: relay.Inbound{
				UpdateID: 4, ChatID: -100, MessageID: 13, Text: "thanks", ReplyToMessageID: 7,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ToInbound(tt.update)
			if ok != tt.wantOK {
				t.Fatalf("ToInbound() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ToInbound() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTokenPrefix(t *testing.T) {
	t.Parallel()

	if got := tokenPrefix("short"); got != "..." {
		t.Errorf("tokenPrefix(short) = %q", got)
	}
	if got := tokenPrefix("123456789:abcdef"); got != "12345678..." {
		t.Errorf("tokenPrefix(long) = %q", got)
	}
}

func TestNewTelegramBot_EmptyToken(t *testing.T) {
	t.Parallel()

	if _, err := NewTelegramBot("", nil); err == nil {
		t.Error("NewTelegramBot(\"\") error = nil, want error")
	}
}

func TestIsClientError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "forbidden", err: fmt.Errorf("send: %w", bot.ErrorForbidden), want: true},
		{name: "bad request", err: fmt.Errorf("delete: %w", bot.ErrorBadRequest), want: true},
		{name: "not deleted", err: fmt.Errorf("delete: %w", errNotDeleted), want: true},
		{name: "network", err: errors.New("connection reset"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsClientError(tt.err); got != tt.want {
				t.Errorf("IsClientError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

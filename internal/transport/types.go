package transport

import (
	"context"
	"errors"
)

// ErrForbidden marks a delivery failure where the recipient can never be
// reached again (blocked the bot, deactivated account, kicked it from the
// chat). Callers use errors.Is to decide whether to drop the recipient.
var ErrForbidden = errors.New("recipient forbidden")

type ChatTarget struct {
	ChatID int64
}

type SendOptions struct {
	ParseMode      string
	DisablePreview bool
}

// Sender is the outbound half of a chat transport.
type Sender interface {
	SendText(ctx context.Context, to ChatTarget, text string, opt *SendOptions) error
}

// Handler receives the bot's inbound commands. The transport adapter owns
// command parsing and replies; the handler owns the semantics.
type Handler interface {
	// HandleStart subscribes the chat and returns the welcome text.
	HandleStart(ctx context.Context, chatID int64) string

	// HandleLatest returns the rendered newest posting, or "" when none found.
	HandleLatest(ctx context.Context) string

	// HandleRecent returns rendered messages for the last postings, newest
	// first. May take many sequential fetches; the adapter acknowledges the
	// command before calling it.
	HandleRecent(ctx context.Context) []string
}

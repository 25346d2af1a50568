// Package notify renders postings into announcement messages and fans them
// out to subscribers plus the fixed broadcast channel.
package notify

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"jobwatch/internal/subscribers"
	"jobwatch/internal/transport"
	"jobwatch/pkg/logx"
)

type Config struct {
	// ChannelID is the fixed broadcast channel; 0 disables it.
	ChannelID int64

	// RatePerSec caps outbound sends (Telegram throttles bots around 30/s).
	RatePerSec int
}

// Summary reports one Broadcast call's outcome.
type Summary struct {
	Sent    int
	Failed  int
	Removed int
}

type Notifier struct {
	cfg     Config
	sender  transport.Sender
	reg     *subscribers.Registry
	limiter *rate.Limiter
	log     logx.Logger
}

func New(cfg Config, sender transport.Sender, reg *subscribers.Registry, log logx.Logger) *Notifier {
	rps := cfg.RatePerSec
	if rps <= 0 {
		rps = 10
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Notifier{
		cfg:     cfg,
		sender:  sender,
		reg:     reg,
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
		log:     log,
	}
}

// Broadcast delivers text to every current subscriber and then to the fixed
// channel. Deliveries are independent: one recipient's failure never aborts
// the rest. A forbidden-classified failure unsubscribes that recipient; any
// other failure is logged and otherwise ignored (no retry this cycle). The
// fixed channel is never removed, its failures are logged only.
func (n *Notifier) Broadcast(ctx context.Context, text string) Summary {
	start := time.Now()
	targets := n.reg.All()

	var sum Summary
	for _, chatID := range targets {
		err := n.sendOne(ctx, chatID, text)
		if err == nil {
			sum.Sent++
			continue
		}
		sum.Failed++
		if errors.Is(err, transport.ErrForbidden) {
			n.reg.Remove(chatID)
			sum.Removed++
			n.log.Info("subscriber unreachable; removed", logx.Int64("chat_id", chatID), logx.Err(err))
			continue
		}
		n.log.Warn("delivery failed", logx.Int64("chat_id", chatID), logx.Err(err))
	}

	if n.cfg.ChannelID != 0 {
		if err := n.sendOne(ctx, n.cfg.ChannelID, text); err != nil {
			sum.Failed++
			n.log.Warn("channel delivery failed", logx.Int64("chat_id", n.cfg.ChannelID), logx.Err(err))
		} else {
			sum.Sent++
		}
	}

	n.log.Info("broadcast finished",
		logx.Int("subscribers", len(targets)),
		logx.Int("sent", sum.Sent),
		logx.Int("failed", sum.Failed),
		logx.Int("removed", sum.Removed),
		logx.Duration("dur", time.Since(start)),
	)
	return sum
}

func (n *Notifier) sendOne(ctx context.Context, chatID int64, text string) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return err
	}
	return n.sender.SendText(ctx, transport.ChatTarget{ChatID: chatID}, text, &transport.SendOptions{
		DisablePreview: true,
	})
}

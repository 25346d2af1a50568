package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	tele "gopkg.in/telebot.v4"

	"jobwatch/internal/transport"
	"jobwatch/pkg/logx"
)

type Config struct {
	Token       string
	PollTimeout time.Duration
}

// Adapter owns the telebot instance: inbound command dispatch and outbound
// sends. It implements transport.Sender.
type Adapter struct {
	log logx.Logger
	bot *tele.Bot

	runMu   sync.Mutex
	running bool
}

func New(cfg Config, h transport.Handler, log logx.Logger) (*Adapter, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	timeout := cfg.PollTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	b, err := tele.NewBot(tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: timeout},
	})
	if err != nil {
		return nil, err
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	a := &Adapter{log: log, bot: b}
	a.registerHandlers(h)
	return a, nil
}

func (a *Adapter) registerHandlers(h transport.Handler) {
	a.bot.Handle("/start", func(c tele.Context) error {
		if c.Chat() == nil {
			return nil
		}
		text := h.HandleStart(context.Background(), c.Chat().ID)
		return c.Send(text)
	})

	a.bot.Handle("/latest", func(c tele.Context) error {
		text := h.HandleLatest(context.Background())
		if text == "" {
			return c.Send("No job updates found.")
		}
		return c.Send(text, &tele.SendOptions{DisableWebPagePreview: true})
	})

	a.bot.Handle("/recent", func(c tele.Context) error {
		// Recent walks detail pages one by one; tell the user before the wait.
		if err := c.Send("Working on it, fetching recent postings..."); err != nil {
			return err
		}
		msgs := h.HandleRecent(context.Background())
		if len(msgs) == 0 {
			return c.Send("No job updates found.")
		}
		for _, m := range msgs {
			if err := c.Send(m, &tele.SendOptions{DisableWebPagePreview: true}); err != nil {
				return err
			}
		}
		return nil
	})
}

// Start launches the long-poll loop. It returns immediately; the loop runs
// until Stop.
func (a *Adapter) Start() {
	a.runMu.Lock()
	defer a.runMu.Unlock()
	if a.running {
		return
	}
	a.running = true
	go func() {
		a.log.Info("polling started")
		a.bot.Start()
		a.log.Info("polling stopped")
	}()
}

func (a *Adapter) Stop() {
	a.runMu.Lock()
	defer a.runMu.Unlock()
	if !a.running {
		return
	}
	a.running = false
	a.bot.Stop()
}

const textLimit = 4000

func (a *Adapter) SendText(ctx context.Context, to transport.ChatTarget, text string, opt *transport.SendOptions) error {
	if opt == nil {
		opt = &transport.SendOptions{}
	}
	chat := &tele.Chat{ID: to.ChatID}
	sendOpt := &tele.SendOptions{
		ParseMode:             opt.ParseMode,
		DisableWebPagePreview: opt.DisablePreview,
	}

	for _, chunk := range splitText(text, textLimit) {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		if _, err := a.bot.Send(chat, chunk, sendOpt); err != nil {
			return classify(err)
		}
	}
	return nil
}

// classify wraps permanently-unreachable recipients with transport.ErrForbidden
// so callers can prune them without knowing telebot error codes.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var terr *tele.Error
	if errors.As(err, &terr) && terr.Code == 403 {
		return fmt.Errorf("%w: %v", transport.ErrForbidden, err)
	}
	if errors.Is(err, tele.ErrBlockedByUser) ||
		errors.Is(err, tele.ErrUserIsDeactivated) ||
		errors.Is(err, tele.ErrKickedFromGroup) ||
		errors.Is(err, tele.ErrKickedFromSuperGroup) ||
		errors.Is(err, tele.ErrKickedFromChannel) {
		return fmt.Errorf("%w: %v", transport.ErrForbidden, err)
	}
	return err
}

// splitText splits long messages into chunks that are safe to send to
// Telegram, preferring newline boundaries.
func splitText(s string, limit int) []string {
	if limit <= 0 {
		limit = textLimit
	}
	rs := []rune(s)
	if len(rs) <= limit {
		return []string{s}
	}

	out := make([]string, 0, (len(rs)+limit-1)/limit)
	start := 0
	for start < len(rs) {
		end := start + limit
		if end > len(rs) {
			end = len(rs)
		}

		// Prefer splitting on a newline near the end of the window.
		if end < len(rs) {
			for i := end - 1; i > start; i-- {
				if rs[i] == '\n' {
					// Avoid extremely small chunks.
					if i-start >= limit/3 {
						end = i + 1
					}
					break
				}
			}
		}

		chunk := strings.TrimRight(string(rs[start:end]), "\n")
		out = append(out, chunk)

		start = end
		for start < len(rs) && rs[start] == '\n' {
			start++
		}
	}
	return out
}

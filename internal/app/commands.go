package app

import (
	"context"

	"jobwatch/internal/notify"
	"jobwatch/pkg/logx"
)

// The bot's inbound commands. On-demand scrapes are read-only with respect
// to the seen-set: only the poll loop marks postings as announced.

const welcomeText = "Welcome to the Job Updates Bot! " +
	"You are subscribed to new postings. Use /latest to get the latest job update " +
	"or /recent for the last few."

func (a *App) HandleStart(_ context.Context, chatID int64) string {
	if a.registry.Add(chatID) {
		a.log.Info("subscriber added", logx.Int64("chat_id", chatID), logx.Int("subscribers", a.registry.Len()))
	}
	return welcomeText
}

func (a *App) HandleLatest(ctx context.Context) string {
	p, err := a.scraper.Latest(ctx)
	if err != nil {
		a.log.Warn("latest: source unavailable", logx.Err(err))
		return ""
	}
	if p == nil {
		return ""
	}
	return notify.Render(*p)
}

func (a *App) HandleRecent(ctx context.Context) []string {
	limit := a.cfgMgr.Get().RecentLimit()
	postings, err := a.scraper.Recent(ctx, limit)
	if err != nil {
		a.log.Warn("recent: source unavailable", logx.Err(err))
		return nil
	}
	out := make([]string, 0, len(postings))
	for _, p := range postings {
		out = append(out, notify.Render(p))
	}
	return out
}

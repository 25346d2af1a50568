// Package app wires the bot together. Every component is an owned instance
// constructed here and passed down explicitly; nothing hangs off package
// globals.
package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"jobwatch/internal/config"
	"jobwatch/internal/notify"
	"jobwatch/internal/poll"
	"jobwatch/internal/scrape"
	"jobwatch/internal/store"
	"jobwatch/internal/subscribers"
	"jobwatch/internal/transport/telegram"
	"jobwatch/pkg/logx"
)

type App struct {
	cfgMgr *config.Manager
	logSvc *logx.Service
	log    logx.Logger

	registry *subscribers.Registry
	scraper  *scrape.Scraper
	seen     store.Store
	notifier *notify.Notifier
	loop     *poll.Loop
	adapter  *telegram.Adapter

	cron    *cron.Cron
	entryID cron.EntryID

	mu        sync.Mutex
	pollEvery string // last applied poll.every, for hot reload

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(cfgPath string) (*App, error) {
	cfgMgr := config.NewManager(cfgPath, logx.NewConsole("info"))
	cfg, err := cfgMgr.Load()
	if err != nil {
		return nil, err
	}

	logSvc, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})

	a := &App{
		cfgMgr:   cfgMgr,
		logSvc:   logSvc,
		log:      log,
		registry: subscribers.NewRegistry(),
	}

	a.scraper = scrape.New(scrape.Config{
		IndexURL:     cfg.Source.IndexURL,
		LinkSelector: cfg.LinkSelector(),
		UserAgent:    cfg.Source.UserAgent,
		FetchTimeout: cfg.FetchTimeout(),
	}, scrape.LabelExtractor{}, log.With(logx.String("comp", "scrape")))

	seenCfg := store.Config{Driver: cfg.Storage.Driver, Path: cfg.Storage.Path}
	if d, err := config.ParseDurationField("storage.busy_timeout", cfg.Storage.BusyTimeout); err == nil {
		seenCfg.BusyTimeout = d
	}
	a.seen, err = store.Open(seenCfg, log.With(logx.String("comp", "store")))
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	pollTimeout, _ := config.ParseDurationField("telegram.poll_timeout", cfg.Telegram.PollTimeout)
	a.adapter, err = telegram.New(telegram.Config{
		Token:       cfg.Telegram.Token,
		PollTimeout: pollTimeout,
	}, a, log.With(logx.String("comp", "telegram")))
	if err != nil {
		_ = a.seen.Close()
		return nil, fmt.Errorf("telegram: %w", err)
	}

	a.notifier = notify.New(notify.Config{
		ChannelID: cfg.Telegram.ChannelID,
	}, a.adapter, a.registry, log.With(logx.String("comp", "notify")))

	a.loop = poll.NewLoop(a.scraper, a.seen, a.notifier, log.With(logx.String("comp", "poll")))

	return a, nil
}

func (a *App) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	cfg := a.cfgMgr.Get()

	a.adapter.Start()

	if cfg.Poll.Enabled {
		a.cron = cron.New()
		if err := a.schedulePoll(runCtx, cfg); err != nil {
			cancel()
			return err
		}
		a.cron.Start()
		a.log.Info("poll loop scheduled", logx.Duration("every", cfg.PollEvery()))
	} else {
		a.log.Warn("poll loop disabled; only on-demand commands are served")
	}

	// Hot reload: logging knobs and the poll period apply live.
	updates := a.cfgMgr.Subscribe()
	a.wg.Add(2)
	go func() {
		defer a.wg.Done()
		a.cfgMgr.Watch(runCtx)
	}()
	go func() {
		defer a.wg.Done()
		for {
			select {
			case <-runCtx.Done():
				return
			case next := <-updates:
				a.applyUpdate(runCtx, next)
			}
		}
	}()

	a.log.Info("started")
	return nil
}

func (a *App) schedulePoll(ctx context.Context, cfg *config.Config) error {
	spec := fmt.Sprintf("@every %s", cfg.PollEvery())
	id, err := a.cron.AddFunc(spec, func() { a.loop.Tick(ctx) })
	if err != nil {
		return fmt.Errorf("schedule poll: %w", err)
	}
	a.mu.Lock()
	a.entryID = id
	a.pollEvery = cfg.Poll.Every
	a.mu.Unlock()
	return nil
}

func (a *App) applyUpdate(ctx context.Context, cfg *config.Config) {
	a.logSvc.Apply(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})

	a.mu.Lock()
	changed := a.cron != nil && cfg.Poll.Every != a.pollEvery
	id := a.entryID
	a.mu.Unlock()
	if changed {
		a.cron.Remove(id)
		if err := a.schedulePoll(ctx, cfg); err != nil {
			a.log.Warn("poll period change rejected", logx.Err(err))
			return
		}
		a.log.Info("poll period updated", logx.Duration("every", cfg.PollEvery()))
	}
}

func (a *App) Stop(ctx context.Context) error {
	if a.cancel != nil {
		a.cancel()
	}
	if a.cron != nil {
		<-a.cron.Stop().Done()
	}
	a.adapter.Stop()
	a.wg.Wait()
	if err := a.seen.Flush(ctx); err != nil {
		a.log.Warn("final seen-set flush failed", logx.Err(err))
	}
	if err := a.seen.Close(); err != nil {
		a.log.Warn("storage close failed", logx.Err(err))
	}
	_ = a.logSvc.Close()
	return nil
}

package cli

import (
	"fmt"

	"github.com/pfrederiksen/boatrace-odds/internal/board"
	"github.com/pfrederiksen/boatrace-odds/internal/extract"
	"github.com/pfrederiksen/boatrace-odds/internal/logger"
	"github.com/pfrederiksen/boatrace-odds/internal/notifier"
	"github.com/pfrederiksen/boatrace-odds/internal/scraper"
	"github.com/pfrederiksen/boatrace-odds/internal/service"
	"github.com/pfrederiksen/boatrace-odds/internal/storage"
)

func (a *app) newService() (*service.Service, error) {
	ext, err := extract.New(a.cfg.ExtractorConfig())
	if err != nil {
		return nil, fmt.Errorf("configuring extractor: %w", err)
	}
	fetcher := scraper.New(scraper.Options{
		BaseURL:   a.cfg.Upstream.BaseURL,
		UserAgent: a.cfg.Upstream.UserAgent,
		Timeout:   a.cfg.Upstream.Timeout,
	})
	return service.New(fetcher, ext), nil
}

func (a *app) newBoard(svc *service.Service) *board.Board {
	return board.New(svc, board.Config{
		Concurrency:    a.cfg.Board.Concurrency,
		AlertThreshold: a.cfg.Board.AlertThreshold,
	})
}

// newNotifier builds the configured alert channels behind a deduper. It
// returns a nil Notifier when no channel is configured. Without Redis, marks
// live in memory for a server and in the state directory for one-shot runs.
// The returned func releases the dedup store and is always safe to call.
func (a *app) newNotifier(dryRun, oneShot bool) (notifier.Notifier, func(), error) {
	noop := func() {}
	if dryRun {
		return notifier.NewDryRunNotifier(a.out), noop, nil
	}

	alert := a.cfg.Alert
	var channels notifier.Multi

	if alert.WebhookURL != "" {
		n, err := notifier.NewWebhookNotifier(alert.WebhookURL, a.cfg.Upstream.Timeout)
		if err != nil {
			return nil, noop, fmt.Errorf("webhook channel: %w", err)
		}
		channels = append(channels, n)
	}
	if alert.SMTP.Host != "" {
		n, err := notifier.NewEmailNotifier(notifier.SMTPConfig{
			Host:     alert.SMTP.Host,
			Port:     alert.SMTP.Port,
			Username: alert.SMTP.Username,
			Password: alert.SMTP.Password,
			From:     alert.SMTP.From,
			To:       alert.SMTP.To,
		})
		if err != nil {
			return nil, noop, fmt.Errorf("email channel: %w", err)
		}
		channels = append(channels, n)
	}
	if alert.Twitter.APIKey != "" {
		n, err := notifier.NewTwitterNotifier(notifier.TwitterCredentials{
			APIKey:       alert.Twitter.APIKey,
			APISecret:    alert.Twitter.APISecret,
			AccessToken:  alert.Twitter.AccessToken,
			AccessSecret: alert.Twitter.AccessSecret,
		})
		if err != nil {
			return nil, noop, fmt.Errorf("twitter channel: %w", err)
		}
		channels = append(channels, n)
	}
	if alert.Telegram.BotToken != "" {
		n, err := notifier.NewTelegramNotifier(alert.Telegram.BotToken, alert.Telegram.ChatID)
		if err != nil {
			return nil, noop, fmt.Errorf("telegram channel: %w", err)
		}
		channels = append(channels, n)
	}

	if len(channels) == 0 {
		return nil, noop, nil
	}

	store, backend, closeStore, err := a.newDedupStore(oneShot)
	if err != nil {
		return nil, noop, fmt.Errorf("dedup store: %w", err)
	}
	logger.Info("alert channels configured", logger.Fields{"channels": len(channels), "dedup": backend})
	return notifier.NewDeduper(channels, store, alert.DedupTTL), closeStore, nil
}

// Dedup backends, as logged
const (
	dedupRedis  = "redis"
	dedupFile   = "file"
	dedupMemory = "memory"
)

// newDedupStore picks Redis when configured, else the state directory for
// one-shot runs, else memory.
func (a *app) newDedupStore(oneShot bool) (notifier.DedupStore, string, func(), error) {
	noop := func() {}
	alert := a.cfg.Alert

	switch {
	case alert.RedisURL != "":
		store, err := notifier.NewRedisDedupStore(alert.RedisURL)
		if err != nil {
			return nil, "", noop, err
		}
		closeStore := func() {
			if err := store.Close(); err != nil {
				logger.Warn("failed to close dedup store", logger.Fields{"error": err.Error()})
			}
		}
		return store, dedupRedis, closeStore, nil
	case oneShot && alert.StateDir != "":
		store, err := storage.New(alert.StateDir)
		if err != nil {
			return nil, "", noop, err
		}
		return store, dedupFile, noop, nil
	default:
		return notifier.NewMemoryDedupStore(), dedupMemory, noop, nil
	}
}

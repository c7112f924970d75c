package bot

import (
	"context"
	"time"

	"gopkg.in/telebot.v4"
)

// statsHandler shows the catalog statistics to administrators.
func (b *Bot) statsHandler(tCtx telebot.Context) error {
	b.metrics.CommandReceived.WithLabelValues("/admin").Inc()
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	b.log.InfoContext(ctx, "Admin requested catalog statistics", "telegram_id", tCtx.Sender().ID)

	start := time.Now()
	stats, err := b.catalog.Stats(ctx)
	b.metrics.DBQueryDuration.WithLabelValues("stats").Observe(time.Since(start).Seconds())
	if err != nil {
		b.log.ErrorContext(ctx, "Failed to get catalog statistics", "error", err)
		return b.sendInternalError(tCtx)
	}

	return b.send(tCtx, "stats", b.formatStats(b.lang(tCtx), stats))
}

package bot

import (
	"context"

	"gopkg.in/telebot.v4"
)

// AdminMiddleware lets only stored administrators through.
func (b *Bot) AdminMiddleware(next telebot.HandlerFunc) telebot.HandlerFunc {
	return func(tCtx telebot.Context) error {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		userID := tCtx.Sender().ID
		isAdmin, err := b.directory.IsAdmin(ctx, userID)
		if err != nil {
			b.log.ErrorContext(ctx, "Failed to check admin rights", "telegram_id", userID, "error", err)
			return b.sendInternalError(tCtx)
		}

		if !isAdmin {
			b.log.InfoContext(ctx, "Access denied", "username", tCtx.Sender().Username, "telegram_id", userID)
			if tCtx.Callback() != nil {
				_ = tCtx.Respond(&telebot.CallbackResponse{
					Text:      b.t(tCtx, "admin.denied"),
					ShowAlert: true,
				})
				return nil
			}
			return b.send(tCtx, "denied", b.t(tCtx, "admin.denied"))
		}

		return next(tCtx)
	}
}

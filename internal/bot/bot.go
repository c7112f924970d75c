package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/equipbot/internal/i18n"
	"github.com/UnknownOlympus/equipbot/internal/metrics"
	"github.com/UnknownOlympus/equipbot/internal/models"
	"gopkg.in/telebot.v4"
)

// Catalog is the read side of the catalog service used by the bot.
type Catalog interface {
	Get(ctx context.Context, id int64) (*models.Equipment, error)
	Search(ctx context.Context, filter models.SearchFilter, offset, limit int) ([]models.Equipment, error)
	Stats(ctx context.Context) (models.CatalogStats, error)
	RecommendedCategories() []string
	PageSize() int
}

// Directory resolves Telegram senders to stored users.
type Directory interface {
	GetOrCreate(ctx context.Context, telegramID int64, profile models.UserProfile) (*models.User, bool, error)
	IsAdmin(ctx context.Context, telegramID int64) (bool, error)
}

// Bot contains the bot API instance and other information.
type Bot struct {
	bot          *telebot.Bot
	log          *slog.Logger
	catalog      Catalog
	directory    Directory
	metrics      *metrics.Metrics
	stateManager *StateManager
	localizer    *i18n.Localizer
}

var (
	// inline buttons, the payload travels in the callback data.
	btnEquipment = telebot.InlineButton{Unique: "equipment"}
	btnCategory  = telebot.InlineButton{Unique: "category"}
	btnMore      = telebot.InlineButton{Unique: "more"}
	btnSimilar   = telebot.InlineButton{Unique: "similar"}
)

// NewBot creates a new bot with the given token.
func NewBot(
	log *slog.Logger,
	catalog Catalog,
	directory Directory,
	metrics *metrics.Metrics,
	token string,
	poller time.Duration,
) (*Bot, error) {
	bot, err := telebot.NewBot(telebot.Settings{
		Token:  token,
		Poller: &telebot.LongPoller{Timeout: poller},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	log.Info("Authorized on account", "account", bot.Me.Username)

	botInstance, err := newBot(log, catalog, directory, metrics)
	if err != nil {
		return nil, err
	}
	botInstance.bot = bot
	botInstance.registerRoutes()

	return botInstance, nil
}

func newBot(log *slog.Logger, catalog Catalog, directory Directory, metrics *metrics.Metrics) (*Bot, error) {
	localizer, err := i18n.NewLocalizer()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize localizer: %w", err)
	}

	return &Bot{
		log:          log,
		catalog:      catalog,
		directory:    directory,
		metrics:      metrics,
		stateManager: NewStateManager(),
		localizer:    localizer,
	}, nil
}

// Start launches the bot to listen for updates.
func (b *Bot) Start() {
	b.log.Info("Telegram bot is starting...")
	b.bot.Start()
}

// Stop gracefully stops the Telegram bot and logs the action.
func (b *Bot) Stop() {
	b.log.Info("Telegram bot is stopped...")
	b.bot.Stop()
}

// registerRoutes configures all routes (commands).
func (b *Bot) registerRoutes() {
	b.bot.Handle("/start", b.startHandler)
	b.bot.Handle("/help", b.helpHandler)
	b.bot.Handle("/search", b.searchHandler)
	b.bot.Handle("/categories", b.categoriesHandler)
	b.bot.Handle("/admin", b.statsHandler, b.AdminMiddleware)
	b.bot.Handle(telebot.OnText, b.textHandler)

	b.bot.Handle(&btnEquipment, b.equipmentHandler)
	b.bot.Handle(&btnCategory, b.categoryHandler)
	b.bot.Handle(&btnMore, b.moreHandler)
	b.bot.Handle(&btnSimilar, b.similarHandler)
}

// lang picks the message catalog from the sender's Telegram settings.
func (b *Bot) lang(tCtx telebot.Context) string {
	if sender := tCtx.Sender(); sender != nil {
		return i18n.NormalizeLanguageCode(sender.LanguageCode)
	}
	return i18n.DefaultLanguage
}

// t is a shorthand method for getting translations.
func (b *Bot) t(tCtx telebot.Context, key string) string {
	return b.localizer.Get(b.lang(tCtx), key)
}

// tWithData is a shorthand method for getting translations with placeholder data.
func (b *Bot) tWithData(tCtx telebot.Context, key string, data map[string]any) string {
	return b.localizer.GetWithData(b.lang(tCtx), key, data)
}

// send delivers an HTML message and counts it under kind.
func (b *Bot) send(tCtx telebot.Context, kind, text string, opts ...any) error {
	b.metrics.SentMessages.WithLabelValues(kind).Inc()
	return tCtx.Send(text, append([]any{telebot.ModeHTML}, opts...)...)
}

// sendInternalError reports a failed request to the user.
func (b *Bot) sendInternalError(tCtx telebot.Context) error {
	return b.send(tCtx, "error", b.t(tCtx, "error.internal"))
}

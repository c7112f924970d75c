package bot

import (
	"context"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/equipbot/internal/models"
	"gopkg.in/telebot.v4"
)

const requestTimeout = 5 * time.Second

// startHandler registers the sender on first contact and greets them.
func (b *Bot) startHandler(tCtx telebot.Context) error {
	b.metrics.CommandReceived.WithLabelValues("/start").Inc()
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	sender := tCtx.Sender()
	start := time.Now()
	user, created, err := b.directory.GetOrCreate(ctx, sender.ID, profileOf(sender))
	b.metrics.DBQueryDuration.WithLabelValues("get_or_create").Observe(time.Since(start).Seconds())
	if err != nil {
		b.log.ErrorContext(ctx, "Failed to register user", "telegram_id", sender.ID, "error", err)
		return b.sendInternalError(tCtx)
	}
	if created {
		b.metrics.NewUsers.Inc()
	}
	b.log.InfoContext(ctx, "User started the bot", "telegram_id", sender.ID, "username", sender.Username)

	text := b.tWithData(tCtx, "welcome", map[string]any{"name": html.EscapeString(displayName(user, sender))})
	return b.send(tCtx, "text", text, b.buildMainMenu(tCtx))
}

// helpHandler lists the usage hints and the recommended categories.
func (b *Bot) helpHandler(tCtx telebot.Context) error {
	b.metrics.CommandReceived.WithLabelValues("/help").Inc()

	lines := make([]string, 0, len(b.catalog.RecommendedCategories()))
	for _, category := range b.catalog.RecommendedCategories() {
		lines = append(lines, "• "+html.EscapeString(category))
	}

	text := b.tWithData(tCtx, "help", map[string]any{"categories": strings.Join(lines, "\n")})
	return b.send(tCtx, "text", text)
}

// searchHandler handles "/search <query>". Without a query it explains the usage.
func (b *Bot) searchHandler(tCtx telebot.Context) error {
	b.metrics.CommandReceived.WithLabelValues("/search").Inc()

	query := strings.TrimSpace(tCtx.Data())
	if query == "" {
		return b.send(tCtx, "text", b.t(tCtx, "search.prompt"))
	}
	return b.searchByQuery(tCtx, query)
}

// categoriesHandler offers the recommended categories as inline buttons.
func (b *Bot) categoriesHandler(tCtx telebot.Context) error {
	b.metrics.CommandReceived.WithLabelValues("/categories").Inc()

	return b.send(tCtx, "text", b.t(tCtx, "category.choose"), buildCategoriesMenu(b.catalog.RecommendedCategories()))
}

// textHandler routes reply keyboard buttons and treats any other text as a search query.
func (b *Bot) textHandler(tCtx telebot.Context) error {
	text := strings.TrimSpace(tCtx.Text())

	switch text {
	case "":
		return nil
	case b.t(tCtx, "menu.search"):
		return b.send(tCtx, "text", b.t(tCtx, "search.prompt"))
	case b.t(tCtx, "menu.categories"):
		return b.categoriesHandler(tCtx)
	case b.t(tCtx, "menu.help"):
		return b.helpHandler(tCtx)
	}

	if strings.HasPrefix(text, "/") {
		return b.helpHandler(tCtx)
	}

	b.metrics.CommandReceived.WithLabelValues("text").Inc()
	return b.searchByQuery(tCtx, text)
}

// equipmentHandler shows the card of the record referenced by the callback.
func (b *Bot) equipmentHandler(tCtx telebot.Context) error {
	b.metrics.CommandReceived.WithLabelValues("equipment").Inc()
	_ = tCtx.Respond()
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	item, err := b.lookup(ctx, tCtx.Data())
	if err != nil {
		b.log.ErrorContext(ctx, "Failed to get equipment", "data", tCtx.Data(), "error", err)
		return b.sendInternalError(tCtx)
	}
	if item == nil {
		return b.send(tCtx, "not_found", b.t(tCtx, "equipment.not_found"))
	}

	return b.sendCard(tCtx, *item)
}

// categoryHandler lists the category whose index is carried by the callback.
func (b *Bot) categoryHandler(tCtx telebot.Context) error {
	b.metrics.CommandReceived.WithLabelValues("category").Inc()
	_ = tCtx.Respond()

	categories := b.catalog.RecommendedCategories()
	idx, err := strconv.Atoi(tCtx.Data())
	if err != nil || idx < 0 || idx >= len(categories) {
		return b.categoriesHandler(tCtx)
	}
	category := categories[idx]

	session := SearchSession{
		Filter: models.SearchFilter{Category: &category},
		Header: b.tWithData(tCtx, "category.results", map[string]any{"category": html.EscapeString(category)}),
	}
	empty := b.tWithData(tCtx, "category.empty", map[string]any{"category": html.EscapeString(category)})

	return b.runSession(tCtx, session, empty)
}

// similarHandler lists the other records of the same category as the referenced one.
func (b *Bot) similarHandler(tCtx telebot.Context) error {
	b.metrics.CommandReceived.WithLabelValues("similar").Inc()
	_ = tCtx.Respond()
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	item, err := b.lookup(ctx, tCtx.Data())
	if err != nil {
		b.log.ErrorContext(ctx, "Failed to get equipment", "data", tCtx.Data(), "error", err)
		return b.sendInternalError(tCtx)
	}
	if item == nil {
		return b.send(tCtx, "not_found", b.t(tCtx, "equipment.not_found"))
	}

	category := item.Category
	session := SearchSession{
		Filter:    models.SearchFilter{Category: &category},
		Header:    b.tWithData(tCtx, "category.results", map[string]any{"category": html.EscapeString(category)}),
		ExcludeID: item.ID,
	}
	empty := b.tWithData(tCtx, "category.empty", map[string]any{"category": html.EscapeString(category)})

	return b.runSession(tCtx, session, empty)
}

// moreHandler shows the next window of the last search.
func (b *Bot) moreHandler(tCtx telebot.Context) error {
	b.metrics.CommandReceived.WithLabelValues("more").Inc()
	_ = tCtx.Respond()
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	userID := tCtx.Sender().ID
	session, ok := b.stateManager.Get(userID)
	if !ok {
		return b.send(tCtx, "text", b.t(tCtx, "search.expired"))
	}

	session.Offset += b.catalog.PageSize()
	page, err := b.search(ctx, session.Filter, session.Offset)
	if err != nil {
		b.log.ErrorContext(ctx, "Failed to load next page", "telegram_id", userID, "error", err)
		return b.sendInternalError(tCtx)
	}
	if len(page) == 0 {
		b.stateManager.Clear(userID)
		return b.send(tCtx, "text", b.t(tCtx, "search.no_more"))
	}

	b.stateManager.Set(userID, session)
	return b.sendList(tCtx, session, page)
}

// searchByQuery runs a free-text search and presents the first window.
func (b *Bot) searchByQuery(tCtx telebot.Context, query string) error {
	session := SearchSession{
		Filter: models.SearchFilter{Query: &query},
	}
	empty := b.tWithData(tCtx, "search.not_found", map[string]any{"query": html.EscapeString(query)})

	return b.runSession(tCtx, session, empty)
}

// runSession fetches the first window of session and presents it:
// nothing as the empty text, a single record as its card, anything else as a list.
func (b *Bot) runSession(tCtx telebot.Context, session SearchSession, empty string) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	userID := tCtx.Sender().ID
	page, err := b.search(ctx, session.Filter, session.Offset)
	if err != nil {
		b.log.ErrorContext(ctx, "Failed to search equipment", "telegram_id", userID, "error", err)
		return b.sendInternalError(tCtx)
	}

	items := visible(page, session.ExcludeID)
	switch {
	case len(items) == 0:
		b.stateManager.Clear(userID)
		return b.send(tCtx, "not_found", empty)
	case len(items) == 1 && len(page) < b.catalog.PageSize():
		b.stateManager.Clear(userID)
		return b.sendCard(tCtx, items[0])
	}

	if session.Filter.Query != nil {
		session.Header = b.tWithData(tCtx, "search.results", map[string]any{
			"count": len(items),
			"query": html.EscapeString(*session.Filter.Query),
		})
	}
	b.stateManager.Set(userID, session)

	return b.sendList(tCtx, session, page)
}

// search runs one windowed catalog search and records its metrics.
func (b *Bot) search(ctx context.Context, filter models.SearchFilter, offset int) ([]models.Equipment, error) {
	start := time.Now()
	items, err := b.catalog.Search(ctx, filter, offset, b.catalog.PageSize())
	b.metrics.DBQueryDuration.WithLabelValues("search").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	b.metrics.SearchResults.Observe(float64(len(items)))
	return items, nil
}

// lookup resolves callback data to a record. Malformed ids resolve to nothing.
func (b *Bot) lookup(ctx context.Context, data string) (*models.Equipment, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(data), 10, 64)
	if err != nil {
		return nil, nil //nolint:nilnil // malformed callback data behaves as an absent record
	}

	start := time.Now()
	item, err := b.catalog.Get(ctx, id)
	b.metrics.DBQueryDuration.WithLabelValues("get").Observe(time.Since(start).Seconds())

	return item, err
}

func (b *Bot) sendCard(tCtx telebot.Context, item models.Equipment) error {
	return b.send(tCtx, "card", b.formatCard(b.lang(tCtx), item), b.buildCardMenu(tCtx, item))
}

// sendList presents page. A full page means another one may follow.
func (b *Bot) sendList(tCtx telebot.Context, session SearchSession, page []models.Equipment) error {
	hasMore := len(page) >= b.catalog.PageSize()
	items := visible(page, session.ExcludeID)

	text := formatList(session.Header, items, session.Offset)
	return b.send(tCtx, "list", text, b.buildResultsMenu(tCtx, items, session.Offset, hasMore))
}

// visible drops the excluded record from page.
func visible(page []models.Equipment, excludeID int64) []models.Equipment {
	if excludeID == 0 {
		return page
	}

	items := make([]models.Equipment, 0, len(page))
	for _, item := range page {
		if item.ID != excludeID {
			items = append(items, item)
		}
	}
	return items
}

// profileOf extracts the profile fields Telegram reports for a sender.
func profileOf(sender *telebot.User) models.UserProfile {
	return models.UserProfile{
		Username:  &sender.Username,
		FirstName: &sender.FirstName,
		LastName:  &sender.LastName,
	}
}

// displayName prefers the stored first name, then the Telegram one.
func displayName(user *models.User, sender *telebot.User) string {
	if user != nil && user.FirstName != nil {
		return *user.FirstName
	}
	if sender.FirstName != "" {
		return sender.FirstName
	}
	return sender.Username
}

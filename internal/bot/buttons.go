package bot

import (
	"slices"
	"strconv"

	"github.com/UnknownOlympus/equipbot/internal/models"
	"gopkg.in/telebot.v4"
)

// buildMainMenu creates the reply keyboard shown after /start.
func (b *Bot) buildMainMenu(tCtx telebot.Context) *telebot.ReplyMarkup {
	menu := &telebot.ReplyMarkup{ResizeKeyboard: true}

	btnSearch := menu.Text(b.t(tCtx, "menu.search"))
	btnCategories := menu.Text(b.t(tCtx, "menu.categories"))
	btnHelp := menu.Text(b.t(tCtx, "menu.help"))

	menu.Reply(
		menu.Row(btnSearch, btnCategories),
		menu.Row(btnHelp),
	)

	return menu
}

// buildCategoriesMenu offers one button per recommended category, two per row.
// The callback carries the category index.
func buildCategoriesMenu(categories []string) *telebot.ReplyMarkup {
	menu := &telebot.ReplyMarkup{}

	buttons := make([]telebot.Btn, 0, len(categories))
	for i, category := range categories {
		buttons = append(buttons, menu.Data(category, btnCategory.Unique, strconv.Itoa(i)))
	}

	const perRow = 2
	menu.Inline(menu.Split(perRow, buttons)...)

	return menu
}

// buildResultsMenu links every listed record to its card and adds a "more"
// button when another page may exist.
func (b *Bot) buildResultsMenu(
	tCtx telebot.Context,
	items []models.Equipment,
	offset int,
	hasMore bool,
) *telebot.ReplyMarkup {
	menu := &telebot.ReplyMarkup{}

	rows := make([]telebot.Row, 0, len(items)+1)
	for i, item := range items {
		btn := menu.Data(buttonLabel(offset+i+1, item.Name), btnEquipment.Unique, strconv.FormatInt(item.ID, 10))
		rows = append(rows, menu.Row(btn))
	}
	if hasMore {
		rows = append(rows, menu.Row(menu.Data(b.t(tCtx, "search.more"), btnMore.Unique)))
	}
	menu.Inline(rows...)

	return menu
}

// buildCardMenu offers similar items and, for recommended categories, the
// whole category.
func (b *Bot) buildCardMenu(tCtx telebot.Context, item models.Equipment) *telebot.ReplyMarkup {
	menu := &telebot.ReplyMarkup{}

	rows := []telebot.Row{
		menu.Row(menu.Data(b.t(tCtx, "equipment.similar"), btnSimilar.Unique, strconv.FormatInt(item.ID, 10))),
	}
	if idx := slices.Index(b.catalog.RecommendedCategories(), item.Category); idx >= 0 {
		rows = append(rows,
			menu.Row(menu.Data(b.t(tCtx, "equipment.open_category"), btnCategory.Unique, strconv.Itoa(idx))))
	}
	menu.Inline(rows...)

	return menu
}

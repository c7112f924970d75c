package bot

import (
	"fmt"
	"html"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/equipbot/internal/models"
)

const (
	buttonNameLimit = 30
	topCategories   = 5
)

// formatPrice renders a price rounded to whole units with comma separated thousands.
func formatPrice(price float64, currency string) string {
	digits := strconv.FormatFloat(math.Round(math.Abs(price)), 'f', 0, 64)

	var sb strings.Builder
	if price < 0 && digits != "0" {
		sb.WriteByte('-')
	}
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}

	if currency != "" {
		sb.WriteByte(' ')
		sb.WriteString(currency)
	}
	return sb.String()
}

// formatSpecValue prints numbers without exponent notation.
func formatSpecValue(value any) string {
	switch v := value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return "-"
	default:
		return fmt.Sprint(v)
	}
}

// buttonLabel numbers a result and shortens long names.
func buttonLabel(position int, name string) string {
	runes := []rune(name)
	if len(runes) > buttonNameLimit {
		name = string(runes[:buttonNameLimit]) + "…"
	}
	return fmt.Sprintf("%d. %s", position, name)
}

// formatCard renders the detail card of a single record.
func (b *Bot) formatCard(lang string, item models.Equipment) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "🔧 <b>%s</b>\n\n", html.EscapeString(item.Name))
	sb.WriteString(b.localizer.GetWithData(lang, "equipment.price", map[string]any{
		"price": formatPrice(item.Price, item.Currency),
	}) + "\n")
	sb.WriteString(b.localizer.GetWithData(lang, "equipment.category", map[string]any{
		"category": html.EscapeString(item.Category),
	}) + "\n")
	if item.Brand != nil {
		sb.WriteString(b.localizer.GetWithData(lang, "equipment.brand", map[string]any{
			"brand": html.EscapeString(*item.Brand),
		}) + "\n")
	}
	if item.Model != nil {
		sb.WriteString(b.localizer.GetWithData(lang, "equipment.model", map[string]any{
			"model": html.EscapeString(*item.Model),
		}) + "\n")
	}

	if item.Description != nil {
		sb.WriteString("\n" + b.localizer.Get(lang, "equipment.description") + "\n")
		sb.WriteString(html.EscapeString(*item.Description) + "\n")
	}

	if len(item.Specifications) > 0 {
		sb.WriteString("\n" + b.localizer.Get(lang, "equipment.specifications") + "\n")
		keys := make([]string, 0, len(item.Specifications))
		for key := range item.Specifications {
			keys = append(keys, key)
		}
		slices.Sort(keys)
		for _, key := range keys {
			fmt.Fprintf(&sb, "• %s: %s\n",
				html.EscapeString(key), html.EscapeString(formatSpecValue(item.Specifications[key])))
		}
	}

	status := b.localizer.Get(lang, "equipment.unavailable")
	if item.Availability {
		status = b.localizer.Get(lang, "equipment.available")
	}
	sb.WriteString("\n" + b.localizer.GetWithData(lang, "equipment.availability", map[string]any{"status": status}))

	return sb.String()
}

// formatList renders a numbered result window starting at offset.
func formatList(header string, items []models.Equipment, offset int) string {
	var sb strings.Builder
	sb.WriteString(header + "\n\n")

	for i, item := range items {
		fmt.Fprintf(&sb, "%d. <b>%s</b>\n", offset+i+1, html.EscapeString(item.Name))
		fmt.Fprintf(&sb, "   💰 %s\n", formatPrice(item.Price, item.Currency))
		if item.Brand != nil {
			sb.WriteString("   🏷️ " + html.EscapeString(*item.Brand))
			if item.Model != nil {
				sb.WriteString(" " + html.EscapeString(*item.Model))
			}
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "   📂 %s\n\n", html.EscapeString(item.Category))
	}

	return strings.TrimRight(sb.String(), "\n")
}

// formatStats renders the administrator statistics screen.
func (b *Bot) formatStats(lang string, stats models.CatalogStats) string {
	count := func(key string, n int) string {
		return b.localizer.GetWithData(lang, key, map[string]any{"count": n})
	}

	lines := []string{
		b.localizer.Get(lang, "admin.stats.title"),
		"",
		count("admin.stats.total", stats.Total),
		count("admin.stats.available", stats.Available),
		count("admin.stats.unavailable", stats.Unavailable),
		count("admin.stats.categories", len(stats.Categories)),
		count("admin.stats.brands", stats.Brands),
	}

	if len(stats.Categories) > 0 {
		lines = append(lines, "", b.localizer.Get(lang, "admin.stats.top"))
		for _, category := range stats.Categories[:min(topCategories, len(stats.Categories))] {
			lines = append(lines, fmt.Sprintf("• %s: %d", html.EscapeString(category.Category), category.Count))
		}
	}

	return strings.Join(lines, "\n")
}

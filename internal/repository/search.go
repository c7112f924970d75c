package repository

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/equipbot/internal/models"
)

// textSearchColumns are the columns the free-text criterion is matched against.
var textSearchColumns = []string{"name", "description", "brand", "model"}

// likeEscaper makes user input match literally inside an ILIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// BuildSearchQuery translates a search filter into one parameterized SELECT.
// Present criteria are joined with AND. The free-text criterion expands into an OR
// over the text columns, each a case-insensitive substring match. An empty filter
// produces the plain listing query. Rows are ordered newest first and windowed by
// offset and limit.
func BuildSearchQuery(filter models.SearchFilter, offset, limit int) (string, []any) {
	filter = filter.Normalize()

	var (
		conditions []string
		args       []any
	)
	bind := func(value any) string {
		args = append(args, value)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Query != nil {
		placeholder := bind(containsPattern(*filter.Query))
		matches := make([]string, 0, len(textSearchColumns))
		for _, column := range textSearchColumns {
			matches = append(matches, fmt.Sprintf("%s ILIKE %s", column, placeholder))
		}
		conditions = append(conditions, "("+strings.Join(matches, " OR ")+")")
	}
	if filter.Category != nil {
		conditions = append(conditions, "category = "+bind(*filter.Category))
	}
	if filter.MinPrice != nil {
		conditions = append(conditions, "price >= "+bind(*filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		conditions = append(conditions, "price <= "+bind(*filter.MaxPrice))
	}
	if filter.Brand != nil {
		conditions = append(conditions, "brand ILIKE "+bind(containsPattern(*filter.Brand)))
	}
	if filter.Availability != nil {
		conditions = append(conditions, "availability = "+bind(*filter.Availability))
	}

	var builder strings.Builder
	builder.WriteString("SELECT " + equipmentColumns + " FROM equipment")
	if len(conditions) > 0 {
		builder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY created_at DESC, id DESC")
	builder.WriteString(" LIMIT " + bind(limit))
	builder.WriteString(" OFFSET " + bind(offset))

	return builder.String(), args
}

func containsPattern(value string) string {
	return "%" + likeEscaper.Replace(value) + "%"
}

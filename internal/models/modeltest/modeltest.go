// Package modeltest provides in-memory helpers for tests that fake the record store.
package modeltest

import (
	"strings"

	"github.com/UnknownOlympus/equipbot/internal/models"
)

// Matches evaluates filter against a single record with the semantics of the
// store query: criteria are combined with AND, the query matches name,
// description, brand or model by case-insensitive substring.
func Matches(filter models.SearchFilter, item models.Equipment) bool {
	filter = filter.Normalize()

	if filter.Query != nil {
		needle := strings.ToLower(*filter.Query)
		if !containsFold(&item.Name, needle) && !containsFold(item.Description, needle) &&
			!containsFold(item.Brand, needle) && !containsFold(item.Model, needle) {
			return false
		}
	}
	if filter.Category != nil && item.Category != *filter.Category {
		return false
	}
	if filter.MinPrice != nil && item.Price < *filter.MinPrice {
		return false
	}
	if filter.MaxPrice != nil && item.Price > *filter.MaxPrice {
		return false
	}
	if filter.Brand != nil && !containsFold(item.Brand, strings.ToLower(*filter.Brand)) {
		return false
	}
	if filter.Availability != nil && item.Availability != *filter.Availability {
		return false
	}

	return true
}

func containsFold(value *string, lowerNeedle string) bool {
	if value == nil {
		return false
	}
	return strings.Contains(strings.ToLower(*value), lowerNeedle)
}

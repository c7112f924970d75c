package admin

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/equipbot/internal/models"
	"github.com/UnknownOlympus/equipbot/internal/specs"
)

// equipmentRequest is the body of create and update calls.
// Specifications may be a JSON object or a string holding JSON object text.
type equipmentRequest struct {
	Name           *string         `json:"name"`
	Category       *string         `json:"category"`
	Description    *string         `json:"description"`
	Price          *float64        `json:"price"`
	Currency       *string         `json:"currency"`
	Brand          *string         `json:"brand"`
	Model          *string         `json:"model"`
	Specifications json.RawMessage `json:"specifications"`
	Availability   *bool           `json:"availability"`
}

func (r equipmentRequest) toInput() models.EquipmentInput {
	return models.EquipmentInput{
		Name:           deref(r.Name),
		Category:       deref(r.Category),
		Description:    r.Description,
		Price:          r.Price,
		Currency:       deref(r.Currency),
		Brand:          r.Brand,
		Model:          r.Model,
		Specifications: specs.ParseRaw(r.Specifications),
		Availability:   r.Availability,
	}
}

// toPatch maps the body onto a sparse update. A specifications key that is
// present but null or unparsable clears the stored map.
func (r equipmentRequest) toPatch() models.EquipmentPatch {
	patch := models.EquipmentPatch{
		Name:         r.Name,
		Category:     r.Category,
		Description:  r.Description,
		Price:        r.Price,
		Currency:     r.Currency,
		Brand:        r.Brand,
		Model:        r.Model,
		Availability: r.Availability,
	}

	if len(bytes.TrimSpace(r.Specifications)) > 0 {
		patch.Specifications = specs.ParseRaw(r.Specifications)
		if patch.Specifications == nil {
			patch.Specifications = models.Specifications{}
		}
	}

	return patch
}

// parseFilter reads the search criteria from the query string.
// Blank parameters count as absent.
func parseFilter(query url.Values) (models.SearchFilter, *models.ValidationError) {
	var filter models.SearchFilter

	filter.Query = optionalParam(query, "query")
	filter.Category = optionalParam(query, "category")
	filter.Brand = optionalParam(query, "brand")

	for _, bound := range []struct {
		name   string
		target **float64
	}{
		{name: "min_price", target: &filter.MinPrice},
		{name: "max_price", target: &filter.MaxPrice},
	} {
		raw := optionalParam(query, bound.name)
		if raw == nil {
			continue
		}
		value, err := strconv.ParseFloat(*raw, 64)
		if err != nil {
			return filter, &models.ValidationError{Field: bound.name, Reason: "must be a number"}
		}
		*bound.target = &value
	}

	if raw := optionalParam(query, "availability"); raw != nil {
		value, err := strconv.ParseBool(*raw)
		if err != nil {
			return filter, &models.ValidationError{Field: "availability", Reason: "must be a boolean"}
		}
		filter.Availability = &value
	}

	return filter, nil
}

// parsePage reads 1-based page and limit parameters. The limit is capped at
// maxLimit so that consecutive pages stay contiguous.
func parsePage(query url.Values, defaultLimit, maxLimit int) (int, int, *models.ValidationError) {
	page, limit := 1, defaultLimit

	if raw := optionalParam(query, "page"); raw != nil {
		value, err := strconv.Atoi(*raw)
		if err != nil || value < 1 {
			return 0, 0, &models.ValidationError{Field: "page", Reason: "must be a positive integer"}
		}
		page = value
	}
	if raw := optionalParam(query, "limit"); raw != nil {
		value, err := strconv.Atoi(*raw)
		if err != nil || value < 1 {
			return 0, 0, &models.ValidationError{Field: "limit", Reason: "must be a positive integer"}
		}
		limit = min(value, maxLimit)
	}

	return page, limit, nil
}

func optionalParam(query url.Values, name string) *string {
	value := strings.TrimSpace(query.Get(name))
	if value == "" {
		return nil
	}
	return &value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

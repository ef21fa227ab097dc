package services

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/baharkarakas/storefront-backend/internal/models"
)

// ParseCartItems reads the storefront's cart snapshot for the email body.
// Quantities and prices may be numbers or numeric strings. Rows that are not
// objects or have no name are skipped; anything that is not an array
// yields nil.
func ParseCartItems(raw json.RawMessage) []models.CartItem {
	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil
	}

	out := make([]models.CartItem, 0, len(rows))
	for _, r := range rows {
		dec := json.NewDecoder(bytes.NewReader(r))
		dec.UseNumber()
		var row map[string]any
		if err := dec.Decode(&row); err != nil {
			continue
		}
		name := strings.TrimSpace(scalarText(row["name"]))
		if name == "" {
			continue
		}
		out = append(out, models.CartItem{
			Name:     name,
			Quantity: parseQuantity(scalarText(row["quantity"])),
			Price:    ParseAmount(scalarText(row["price"])),
		})
	}
	return out
}

func scalarText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	}
	return ""
}

// parseQuantity defaults to 1 and truncates fractional input.
func parseQuantity(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 1 {
		return int(f)
	}
	return 1
}

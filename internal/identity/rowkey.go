package identity

import "strings"

const (
	NoSize  = "no-size"
	NoColor = "no-color"

	rowKeySep = "__"
)

// RowKey identifies a cart line for a product selection. A nil or blank
// size/color resolves to the same default token.
func RowKey(productID string, size, color *string) string {
	return strings.Join([]string{
		strings.TrimSpace(productID),
		rowKeyPart(size, NoSize),
		rowKeyPart(color, NoColor),
	}, rowKeySep)
}

// RowKeyFor is RowKey over plain strings, where "" means absent.
func RowKeyFor(productID, size, color string) string {
	return RowKey(productID, &size, &color)
}

func rowKeyPart(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	s := strings.ToLower(strings.TrimSpace(*v))
	if s == "" {
		return fallback
	}
	return s
}

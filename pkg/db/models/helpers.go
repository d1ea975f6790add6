package models

import "strings"

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// All lists the models owned by the storefront schema.
func All() []any {
	return []any{&Product{}, &CartLine{}, &Order{}, &OutboxEvent{}}
}

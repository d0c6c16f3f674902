package models

// All lists the models owned by the catalog schema, in dependency order.
func All() []any {
	return []any{&Product{}, &ProductDiscount{}}
}

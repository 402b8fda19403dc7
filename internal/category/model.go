// File: internal/category/model.go
package category

// Category is one entry of the fixed directory taxonomy.
type Category struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Icon        string   `json:"icon"`
	Description string   `json:"description"`
	SubServices []string `json:"subServices,omitempty"` // optional; none of the built-in entries set it
}

// CategoryResponse is a Category plus how many listings currently use it.
type CategoryResponse struct {
	Category
	ProviderCount *int64 `json:"providerCount,omitempty"`
}

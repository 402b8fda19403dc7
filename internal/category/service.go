// File: internal/category/service.go
package category

import (
	"strings"

	"local_services_backend/internal/common"

	"github.com/gosimple/slug"
)

var (
	byID   = make(map[string]Category, len(categories))
	byName = make(map[string]Category, len(categories))
)

func init() {
	for _, c := range categories {
		byID[c.ID] = c
		byName[c.Name] = c
	}
}

// All returns the taxonomy in display order.
func All() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Lookup resolves a category id. Ids are normalized with slug rules first, so
// "Home Services" and "HOME-SERVICES" both resolve to home-services.
func Lookup(id string) (Category, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Category{}, false
	}
	if c, ok := byID[id]; ok {
		return c, true
	}
	c, ok := byID[slug.Make(id)]
	return c, ok
}

// NameOf maps a category id to the display name stored on provider records.
// Unknown ids map to "".
func NameOf(id string) string {
	c, ok := Lookup(id)
	if !ok {
		return ""
	}
	return c.Name
}

// IsValidName reports whether name is one of the display names a provider may carry.
func IsValidName(name string) bool {
	_, ok := byName[name]
	return ok
}

// ByName returns the category with the given display name.
func ByName(name string) (Category, bool) {
	c, ok := byName[name]
	return c, ok
}

// Get is Lookup returning the directory's not-found error.
func Get(id string) (Category, error) {
	c, ok := Lookup(id)
	if !ok {
		return Category{}, common.ErrNotFound.WithDetails("Category not found.")
	}
	return c, nil
}

// File: internal/provider/filter.go
package provider

import (
	"strings"

	"local_services_backend/internal/category"
)

// Criteria narrows a set of listings. Blank fields are ignored.
type Criteria struct {
	Keyword    string `form:"q" json:"q,omitempty"`
	Location   string `form:"loc" json:"loc,omitempty"`
	CategoryID string `form:"cat" json:"cat,omitempty"`
}

// CriteriaFromQuery derives the filter from search inputs. Re-run it whenever
// the inputs change and filter the current snapshot again.
func CriteriaFromQuery(q, loc, cat string) Criteria {
	return Criteria{
		Keyword:    strings.TrimSpace(q),
		Location:   strings.TrimSpace(loc),
		CategoryID: strings.TrimSpace(cat),
	}
}

// IsEmpty reports whether no criterion is set.
func (c Criteria) IsEmpty() bool {
	return strings.TrimSpace(c.Keyword) == "" &&
		strings.TrimSpace(c.Location) == "" &&
		strings.TrimSpace(c.CategoryID) == ""
}

// Filter returns the records matching every set criterion, in input order.
// Keyword and location match as case-insensitive substrings; the category
// must equal the id's display name. An unknown category id is ignored.
// With no criteria the input is returned as is.
func Filter(records []Provider, c Criteria) []Provider {
	if c.IsEmpty() {
		return records
	}
	m := newMatcher(c)
	out := make([]Provider, 0, len(records))
	for i := range records {
		if m.match(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

type matcher struct {
	keyword      string
	location     string
	categoryName string
	byCategory   bool
}

func newMatcher(c Criteria) matcher {
	m := matcher{
		keyword:  strings.ToLower(strings.TrimSpace(c.Keyword)),
		location: strings.ToLower(strings.TrimSpace(c.Location)),
	}
	if name := category.NameOf(strings.TrimSpace(c.CategoryID)); name != "" {
		m.byCategory = true
		m.categoryName = name
	}
	return m
}

func (m matcher) match(p *Provider) bool {
	if m.byCategory {
		if p.Category != m.categoryName {
			return false
		}
	}
	if m.keyword != "" && !m.matchKeyword(p) {
		return false
	}
	if m.location != "" && !contains(p.Location, m.location) {
		return false
	}
	return true
}

func (m matcher) matchKeyword(p *Provider) bool {
	if contains(p.Name, m.keyword) || contains(p.Tagline, m.keyword) {
		return true
	}
	for _, s := range p.Services {
		if contains(s, m.keyword) {
			return true
		}
	}
	return false
}

// contains expects needle already lower-cased.
func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

// File: internal/review/aggregate.go
package review

import "encoding/json"

// Summary is the rating aggregate shown next to a listing.
type Summary struct {
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
}

// IsNew reports whether there is nothing to average; clients show "New".
func (s Summary) IsNew() bool {
	return s.ReviewCount == 0
}

// MarshalJSON adds the isNew flag so clients need not derive it.
func (s Summary) MarshalJSON() ([]byte, error) {
	type plain Summary
	return json.Marshal(struct {
		plain
		IsNew bool `json:"isNew"`
	}{plain(s), s.IsNew()})
}

// Aggregate computes count and mean rating. No reviews gives {0, 0}.
func Aggregate(reviews []Review) Summary {
	if len(reviews) == 0 {
		return Summary{}
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return Summary{
		AverageRating: float64(sum) / float64(len(reviews)),
		ReviewCount:   len(reviews),
	}
}

// AggregateByProvider groups reviews by listing and aggregates each group.
func AggregateByProvider(reviews []Review) map[string]Summary {
	groups := make(map[string][]Review)
	for _, r := range reviews {
		groups[r.ProviderID] = append(groups[r.ProviderID], r)
	}
	out := make(map[string]Summary, len(groups))
	for id, rs := range groups {
		out[id] = Aggregate(rs)
	}
	return out
}

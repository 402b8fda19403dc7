// File: internal/review/model.go
package review

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating and comment bounds.
const (
	MinRating        = 1
	MaxRating        = 5
	MinCommentLength = 10
	MaxCommentLength = 500
)

// Review is a star rating plus comment left on a listing. Reviews are never
// edited; they go away only with their listing.
type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProviderID string    `gorm:"type:varchar(128);not null;index" json:"providerId"`
	UserID     string    `gorm:"type:varchar(128);not null;index" json:"userId"`
	Author     string    `gorm:"type:varchar(255);not null" json:"author"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt  time.Time `gorm:"column:created_at;not null;autoCreateTime" json:"createdAt"`
}

// TableName specifies the table name for the Review model.
func (Review) TableName() string {
	return "reviews"
}

// BeforeCreate assigns an id when the caller did not.
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// AuthorInitial is the avatar letter for a review: the first character of the
// author's name, or of the local part of an email.
func AuthorInitial(author string) string {
	author = strings.TrimSpace(author)
	if i := strings.IndexByte(author, '@'); i >= 0 {
		author = author[:i]
	}
	r, size := utf8.DecodeRuneInString(author)
	if size == 0 || r == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(r))
}

// --- DTOs ---

// CreateReviewRequest is the review form.
type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,gte=1,lte=5"`
	Comment string `json:"comment" binding:"required,min=10,max=500"`
	Author  string `json:"author" binding:"omitempty,max=255"`
}

// ReviewResponse defines the structure for review data sent in API responses.
type ReviewResponse struct {
	Review
	AuthorInitial string `json:"authorInitial"`
}

// ToReviewResponse converts a Review model to a ReviewResponse DTO.
func ToReviewResponse(r *Review) ReviewResponse {
	return ReviewResponse{Review: *r, AuthorInitial: AuthorInitial(r.Author)}
}

// ListResponse is a listing's reviews with their aggregate.
type ListResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
	Summary Summary          `json:"summary"`
}

// File: internal/provider/model.go
package provider

import (
	"net/url"
	"strings"

	"local_services_backend/internal/common"
	"local_services_backend/internal/review"

	"gorm.io/datatypes"
)

// Provider is a business listing. ID is the owner's user id, which keeps
// listings at one per user.
type Provider struct {
	ID          string                      `gorm:"type:varchar(128);primaryKey" json:"id"`
	UserID      string                      `gorm:"type:varchar(128);not null;index" json:"userId"`
	Name        string                      `gorm:"type:varchar(255);not null" json:"name"`
	Category    string                      `gorm:"type:varchar(100);not null;index" json:"category"`
	Location    string                      `gorm:"type:varchar(255);not null" json:"location"`
	Tagline     string                      `gorm:"type:varchar(100)" json:"tagline"`
	Address     string                      `gorm:"type:varchar(500)" json:"address"`
	Phone       string                      `gorm:"type:varchar(50)" json:"phone"`
	WhatsApp    string                      `gorm:"column:whatsapp;type:varchar(50)" json:"whatsapp"`
	Website     string                      `gorm:"type:varchar(2048)" json:"website"`
	Email       string                      `gorm:"type:varchar(255)" json:"email"`
	Description string                      `gorm:"type:text" json:"description"`
	Services    datatypes.JSONSlice[string] `gorm:"not null;default:'[]'" json:"services"`
	ImageURL    string                      `gorm:"column:image_url;type:text" json:"imageUrl"`
	common.Timestamps
}

// TableName specifies the table name for the Provider model.
func (Provider) TableName() string {
	return "providers"
}

// Path is the record's address in diagnostics.
func (p *Provider) Path() string {
	return "providers/" + p.ID
}

// Normalize fills defaults for absent optional fields. Records read from the
// store pass through it so callers never see a nil services list.
func (p *Provider) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Location = strings.TrimSpace(p.Location)
	p.Tagline = strings.TrimSpace(p.Tagline)
	p.WhatsApp = DigitsOnly(p.WhatsApp)
	if p.Services == nil {
		p.Services = datatypes.JSONSlice[string]{}
	}
}

// --- DTOs ---

// CreateProviderRequest is the listing form. Services is the raw comma-separated input.
type CreateProviderRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=255"`
	Category    string `json:"category" binding:"required,category"`
	Tagline     string `json:"tagline" binding:"omitempty,max=100"`
	Location    string `json:"location" binding:"required,min=2,max=255"`
	Address     string `json:"address" binding:"omitempty,max=500"`
	Phone       string `json:"phone" binding:"omitempty,max=50"`
	WhatsApp    string `json:"whatsapp" binding:"omitempty,max=50"`
	Website     string `json:"website" binding:"omitempty,url"`
	Email       string `json:"email" binding:"omitempty,email"`
	Description string `json:"description" binding:"omitempty,max=1000"`
	Services    string `json:"services" binding:"omitempty,max=2000"`
	ImageURL    string `json:"imageUrl" binding:"omitempty,url|datauri"`
}

// UpdateProviderRequest merges into an existing listing; nil fields are left as stored.
type UpdateProviderRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=255"`
	Category    *string `json:"category" binding:"omitempty,category"`
	Tagline     *string `json:"tagline" binding:"omitempty,max=100"`
	Location    *string `json:"location" binding:"omitempty,min=2,max=255"`
	Address     *string `json:"address" binding:"omitempty,max=500"`
	Phone       *string `json:"phone" binding:"omitempty,max=50"`
	WhatsApp    *string `json:"whatsapp" binding:"omitempty,max=50"`
	Website     *string `json:"website" binding:"omitempty,url"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Services    *string `json:"services" binding:"omitempty,max=2000"`
	ImageURL    *string `json:"imageUrl" binding:"omitempty,url|datauri"`
}

// ContactLinks are ready-to-use hrefs for the contact buttons on a listing.
type ContactLinks struct {
	Phone    string `json:"phone,omitempty"`
	WhatsApp string `json:"whatsapp,omitempty"`
	Email    string `json:"email,omitempty"`
	Website  string `json:"website,omitempty"`
}

// ProviderResponse is a listing with its rating summary.
type ProviderResponse struct {
	Provider
	Rating   review.Summary `json:"rating"`
	Contacts ContactLinks   `json:"contacts"`
}

// ToProviderResponse converts a Provider model to its API shape.
func ToProviderResponse(p *Provider, summary review.Summary) ProviderResponse {
	return ProviderResponse{
		Provider: *p,
		Rating:   summary,
		Contacts: ContactLinksFor(p),
	}
}

// ContactLinksFor builds tel:, wa.me, mailto: and website links for p.
func ContactLinksFor(p *Provider) ContactLinks {
	var links ContactLinks
	if phone := strings.TrimSpace(p.Phone); phone != "" {
		links.Phone = "tel:" + phone
	}
	if digits := DigitsOnly(p.WhatsApp); digits != "" {
		links.WhatsApp = "https://wa.me/" + digits
	}
	if p.Email != "" {
		links.Email = (&url.URL{Scheme: "mailto", Opaque: p.Email}).String()
	}
	if p.Website != "" {
		links.Website = p.Website
	}
	return links
}

// EntryAction tells a client what the "list your business" entry point should show.
type EntryAction string

const (
	EntryRedirectToLogin EntryAction = "redirect_to_login"
	EntryShowForm        EntryAction = "show_form"
	EntryEditListing     EntryAction = "edit_listing"
)

// EntryResponse is the outcome of the "list your business" entry point.
type EntryResponse struct {
	Action   EntryAction            `json:"action"`
	Location string                 `json:"location,omitempty"`
	Form     *CreateProviderRequest `json:"form,omitempty"`
	Listing  *Provider              `json:"listing,omitempty"`
}

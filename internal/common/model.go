// File: internal/common/model.go
package common

import "time"

// Timestamps defines the audit columns shared by GORM models.
type Timestamps struct {
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime" json:"updatedAt"`
}

// File: internal/user/model.go
package user

import (
	"local_services_backend/internal/common"
)

// User is the directory's record of an identity-provider account. ID is the
// identity provider's user id.
type User struct {
	ID    string `gorm:"type:varchar(128);primaryKey" json:"id"`
	Email string `gorm:"type:varchar(255);index" json:"email"`
	common.Timestamps
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

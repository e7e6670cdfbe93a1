package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/project-management-api/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// AcceptedMembers narrows a TeamMembership query to accepted rows. A
// pending or declined membership never grants resource visibility.
func AcceptedMembers(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", "accepted")
}

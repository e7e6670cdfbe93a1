package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxTaskFileSize is the largest accepted attachment, in bytes.
const MaxTaskFileSize = 5 * 1024 * 1024

// TaskFile holds attachment metadata. Two uploads with the same name
// coexist as distinct records; there is no dedup.
type TaskFile struct {
	ID         uint64         `gorm:"primarykey" json:"id"`
	TaskID     uint64         `gorm:"not null;index" json:"task_id"`
	UploaderID uint64         `gorm:"not null" json:"uploader_id"`
	FileName   string         `gorm:"type:varchar(255);not null" json:"file_name"`
	Size       int64          `gorm:"not null" json:"size"`
	CreatedAt  time.Time      `json:"uploaded_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Task     Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	Uploader User `gorm:"foreignKey:UploaderID" json:"uploader,omitempty"`
}

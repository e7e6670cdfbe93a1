package models

import "time"

// TimeEntry records minutes a user spent on a task on a given date.
// One entry per (user, task, date).
type TimeEntry struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_time_entries_user_task_date" json:"user_id"`
	TaskID    uint64    `gorm:"not null;uniqueIndex:idx_time_entries_user_task_date" json:"task_id"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:idx_time_entries_user_task_date" json:"date"`
	Minutes   uint      `gorm:"not null;default:0" json:"minutes"`
	Note      string    `gorm:"type:text" json:"note"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Task Task `gorm:"foreignKey:TaskID" json:"-"`
}

package model

import (
	"time"
)

// 会籍状态
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
	StatusExpired  = "Expired"
)

// User 健身房会员。MembershipStatus 是缓存字段，
// 真实状态始终由 PlanAssignment 的日期在读取时推导。
type User struct {
	UserID           int       `gorm:"primaryKey;column:user_id" json:"user_id"`
	Name             string    `gorm:"size:100;not null" json:"name"`
	Age              int       `json:"age"`
	Gender           string    `gorm:"size:10" json:"gender"`
	ContactNumber    string    `gorm:"size:20;index" json:"contact_number"`
	MembershipStatus string    `gorm:"size:20;default:Inactive" json:"membership_status"`
	JoiningDate      time.Time `gorm:"not null" json:"joining_date"`
	PhotoURL         string    `gorm:"size:500" json:"photo_url"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

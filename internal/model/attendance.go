package model

import (
	"time"
)

// Attendance 考勤记录，每个会员每天至多一条。
// CheckOutTime 为空表示已签到未签退。
type Attendance struct {
	AttendanceID int64      `gorm:"primaryKey;column:attendance_id" json:"attendance_id"`
	UserID       int        `gorm:"not null;uniqueIndex:idx_attendance_user_day" json:"user_id"`
	Day          time.Time  `gorm:"not null;uniqueIndex:idx_attendance_user_day;index" json:"day"`
	CheckInTime  time.Time  `gorm:"not null" json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty"`
	MinutesSpent int        `json:"minutes_spent"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (Attendance) TableName() string {
	return "attendance"
}

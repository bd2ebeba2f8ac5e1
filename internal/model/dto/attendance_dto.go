package dto

type AttendanceToggleRequest struct {
	UserID int `json:"user_id" binding:"required"`
}

type AttendanceInfo struct {
	AttendanceID int64  `json:"attendance_id"`
	UserID       int    `json:"user_id"`
	UserName     string `json:"user_name"`
	Day          string `json:"day"`
	CheckInTime  string `json:"check_in_time"`
	CheckOutTime string `json:"check_out_time,omitempty"`
	MinutesSpent int    `json:"minutes_spent"`
	CheckedOut   bool   `json:"checked_out"`
}

// DailyCount 某一天的到馆人次
type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

package dto

// DateLayout 所有日期字段统一使用 yyyy-MM-dd
const DateLayout = "2006-01-02"

type CreateUserRequest struct {
	UserID        *int   `json:"user_id"` // 缺省时生成唯一 6 位编号
	Name          string `json:"name" binding:"required"`
	Age           int    `json:"age" binding:"required,gt=0"`
	Gender        string `json:"gender" binding:"required"`
	ContactNumber string `json:"contact_number" binding:"required,numeric,len=10"`
	JoiningDate   string `json:"joining_date"` // 缺省为今天
	PlanID        *int   `json:"plan_id"`
}

type UpdateUserRequest struct {
	Name          string `json:"name" binding:"required"`
	Age           int    `json:"age" binding:"required,gt=0"`
	Gender        string `json:"gender" binding:"required"`
	ContactNumber string `json:"contact_number" binding:"required,numeric,len=10"`
	JoiningDate   string `json:"joining_date"`
	PlanID        *int   `json:"plan_id"` // nil 表示选择"无套餐"
}

// AssignedPlanInfo 会员名下的一条套餐绑定
type AssignedPlanInfo struct {
	AssignmentID int64  `json:"assignment_id"`
	PlanID       int    `json:"plan_id"`
	PlanName     string `json:"plan_name"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	IsActive     bool   `json:"is_active"`
}

type UserInfo struct {
	UserID           int                `json:"user_id"`
	Name             string             `json:"name"`
	Age              int                `json:"age"`
	Gender           string             `json:"gender"`
	ContactNumber    string             `json:"contact_number"`
	MembershipStatus string             `json:"membership_status"`
	JoiningDate      string             `json:"joining_date"`
	PhotoURL         string             `json:"photo_url,omitempty"`
	AssignedPlans    []AssignedPlanInfo `json:"assigned_plans"`
}

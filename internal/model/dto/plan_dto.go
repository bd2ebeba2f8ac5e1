package dto

type PlanRequest struct {
	PlanName       string  `json:"plan_name" binding:"required"`
	Price          float64 `json:"price" binding:"required,gte=0"`
	DurationMonths int     `json:"duration_months" binding:"required,gt=0"`
	FeaturesList   string  `json:"features_list"`
}

// AssignmentInfo 套餐绑定详情（带会员与套餐名称的显式联查结果）
type AssignmentInfo struct {
	AssignmentID int64  `json:"assignment_id"`
	UserID       int    `json:"user_id"`
	UserName     string `json:"user_name"`
	PlanID       int    `json:"plan_id"`
	PlanName     string `json:"plan_name"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	IsActive     bool   `json:"is_active"`
}

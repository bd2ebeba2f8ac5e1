package dto

type DashboardSummary struct {
	TotalMembers   int64 `json:"total_members"`
	ActiveMembers  int64 `json:"active_members"`
	TotalPlans     int64 `json:"total_plans"`
	CheckedInToday int64 `json:"checked_in_today"`
	ExpiringSoon   int64 `json:"expiring_soon"`
}

// PlanDistributionItem 某套餐当前生效的会员数
type PlanDistributionItem struct {
	PlanID   int    `json:"plan_id"`
	PlanName string `json:"plan_name"`
	Count    int64  `json:"count"`
}

// ExpiringMembership 即将到期的会籍
type ExpiringMembership struct {
	UserID   int    `json:"user_id"`
	UserName string `json:"user_name"`
	PlanID   int    `json:"plan_id"`
	PlanName string `json:"plan_name"`
	EndDate  string `json:"end_date"`
	DaysLeft int    `json:"days_left"`
}

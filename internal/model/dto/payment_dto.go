package dto

type CreatePaymentRequest struct {
	UserID              int     `json:"user_id" binding:"required"`
	Amount              float64 `json:"amount" binding:"required,gte=0"`
	PaymentDate         string  `json:"payment_date" binding:"required"`
	PaymentMethod       string  `json:"payment_method" binding:"required"`
	PaymentMethodDetail string  `json:"payment_method_detail"`
	MembershipPlanID    *int    `json:"membership_plan_id"`
	OriginalPaymentID   *int64  `json:"original_payment_id"` // 补缴时指向原欠款记录
	TransactionID       string  `json:"transaction_id"`
	Notes               string  `json:"notes"`
}

type PaymentInfo struct {
	PaymentID           int64   `json:"payment_id"`
	UserID              int     `json:"user_id"`
	UserName            string  `json:"user_name"`
	Amount              float64 `json:"amount"`
	DueAmount           float64 `json:"due_amount"`
	PaymentDate         string  `json:"payment_date"`
	PaymentMethod       string  `json:"payment_method"`
	PaymentMethodDetail string  `json:"payment_method_detail,omitempty"`
	MembershipPlanID    *int    `json:"membership_plan_id,omitempty"`
	MembershipPlanName  string  `json:"membership_plan_name,omitempty"`
	OriginalPaymentID   *int64  `json:"original_payment_id,omitempty"`
	TransactionID       string  `json:"transaction_id,omitempty"`
	Notes               string  `json:"notes,omitempty"`
}

// PaymentAnalytics 指定日期区间内的收款统计
type PaymentAnalytics struct {
	TotalAmountCollected float64            `json:"total_amount_collected"`
	TotalPaymentsCount   int64              `json:"total_payments_count"`
	TotalDueAmount       float64            `json:"total_due_amount"`
	TotalExpectedAmount  float64            `json:"total_expected_amount"`
	AmountByMethod       map[string]float64 `json:"amount_by_payment_method"`
	CountByMethod        map[string]int64   `json:"count_by_payment_method"`
	AmountByPlan         map[string]float64 `json:"amount_by_membership_plan"`
}

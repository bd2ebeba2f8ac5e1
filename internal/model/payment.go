package model

import (
	"time"
)

// 支付方式
const (
	MethodCash   = "Cash"
	MethodCard   = "Card"
	MethodOnline = "Online"
)

// Payment 收款记录。DueAmount 是针对本条记录的欠款
// （套餐价 - 实付金额，下限 0）；OriginalPaymentID 非空时
// 表示本条是对另一条记录欠款的补缴。
type Payment struct {
	PaymentID           int64      `gorm:"primaryKey;column:payment_id" json:"payment_id"`
	UserID              int        `gorm:"not null;index" json:"user_id"`
	Amount              float64    `gorm:"type:decimal(10,2);not null" json:"amount"`
	DueAmount           float64    `gorm:"type:decimal(10,2);not null" json:"due_amount"`
	PaymentDate         time.Time  `gorm:"not null;index" json:"payment_date"`
	PaymentMethod       string     `gorm:"size:20;not null" json:"payment_method"`
	PaymentMethodDetail string     `gorm:"size:100" json:"payment_method_detail,omitempty"`
	MembershipPlanID    *int       `json:"membership_plan_id,omitempty"`
	OriginalPaymentID   *int64     `json:"original_payment_id,omitempty"`
	TransactionID       string     `gorm:"size:100" json:"transaction_id,omitempty"`
	Notes               string     `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}

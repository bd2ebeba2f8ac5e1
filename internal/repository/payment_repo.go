package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
)

// 允许的排序字段白名单（防止任意列名注入）
var paymentSortFields = map[string]string{
	"payment_date": "payment_date",
	"amount":       "amount",
	"due_amount":   "due_amount",
	"payment_id":   "payment_id",
}

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(payment *model.Payment) error {
	return r.db.Create(payment).Error
}

func (r *PaymentRepository) GetByID(id int64) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.Where("payment_id = ?", id).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) ExistsByID(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Payment{}).Where("payment_id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *PaymentRepository) Update(payment *model.Payment) error {
	return r.db.Save(payment).Error
}

func (r *PaymentRepository) Delete(id int64) error {
	return r.db.Where("payment_id = ?", id).Delete(&model.Payment{}).Error
}

// List 分页查询，排序字段限定在白名单内，非法字段回退到 payment_date
func (r *PaymentRepository) List(page, pageSize int, sortField string, descending bool) ([]*model.Payment, int64, error) {
	var payments []*model.Payment
	var total int64

	if err := r.db.Model(&model.Payment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := paymentSortFields[sortField]
	if !ok {
		column = "payment_date"
	}
	order := column + " ASC"
	if descending {
		order = column + " DESC"
	}

	offset := (page - 1) * pageSize
	err := r.db.Order(order).Offset(offset).Limit(pageSize).Find(&payments).Error
	if err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

func (r *PaymentRepository) ListByUserID(userID int) ([]*model.Payment, error) {
	var payments []*model.Payment
	err := r.db.Where("user_id = ?", userID).
		Order("payment_date DESC").Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// ListByDateRange 查询支付日期落在区间内的记录（收款统计）
func (r *PaymentRepository) ListByDateRange(start, end time.Time) ([]*model.Payment, error) {
	var payments []*model.Payment
	err := r.db.Where("payment_date >= ? AND payment_date <= ?", start, end).
		Order("payment_date ASC").Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

package testutil

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
)

// Today 本地时区的今天零点
func Today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// TestUser 创建测试会员
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	user := &model.User{
		UserID:           100000 + rand.Intn(900000),
		Name:             fmt.Sprintf("测试会员%d", time.Now().UnixNano()%10000),
		Age:              28,
		Gender:           "Male",
		ContactNumber:    "1380000000",
		MembershipStatus: model.StatusInactive,
		JoiningDate:      Today(),
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUserID 指定会员编号
func WithUserID(id int) func(*model.User) {
	return func(u *model.User) {
		u.UserID = id
	}
}

// WithName 指定姓名
func WithName(name string) func(*model.User) {
	return func(u *model.User) {
		u.Name = name
	}
}

// WithStatus 指定缓存的会籍状态
func WithStatus(status string) func(*model.User) {
	return func(u *model.User) {
		u.MembershipStatus = status
	}
}

// WithContactNumber 指定联系电话
func WithContactNumber(number string) func(*model.User) {
	return func(u *model.User) {
		u.ContactNumber = number
	}
}

// TestPlan 创建测试套餐
func TestPlan(t *testing.T, db *gorm.DB, opts ...func(*model.MembershipPlan)) *model.MembershipPlan {
	t.Helper()

	plan := &model.MembershipPlan{
		PlanName:       fmt.Sprintf("测试套餐%d", time.Now().UnixNano()%10000),
		Price:          1000,
		DurationMonths: 1,
		FeaturesList:   "器械区,操课",
	}

	for _, opt := range opts {
		opt(plan)
	}

	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("Failed to create test plan: %v", err)
	}

	return plan
}

// WithPrice 指定套餐价格
func WithPrice(price float64) func(*model.MembershipPlan) {
	return func(p *model.MembershipPlan) {
		p.Price = price
	}
}

// WithDuration 指定套餐时长（月）
func WithDuration(months int) func(*model.MembershipPlan) {
	return func(p *model.MembershipPlan) {
		p.DurationMonths = months
	}
}

// TestAssignment 创建测试套餐绑定
func TestAssignment(t *testing.T, db *gorm.DB, userID, planID int, opts ...func(*model.PlanAssignment)) *model.PlanAssignment {
	t.Helper()

	start := Today()
	assignment := &model.PlanAssignment{
		UserID:    userID,
		PlanID:    planID,
		StartDate: start,
		EndDate:   start.AddDate(0, 1, 0),
	}

	for _, opt := range opts {
		opt(assignment)
	}

	if err := db.Create(assignment).Error; err != nil {
		t.Fatalf("Failed to create test assignment: %v", err)
	}

	return assignment
}

// WithDates 指定绑定起止日期
func WithDates(start, end time.Time) func(*model.PlanAssignment) {
	return func(a *model.PlanAssignment) {
		a.StartDate = start
		a.EndDate = end
	}
}

// TestAttendance 创建测试考勤记录
func TestAttendance(t *testing.T, db *gorm.DB, userID int, opts ...func(*model.Attendance)) *model.Attendance {
	t.Helper()

	record := &model.Attendance{
		UserID:      userID,
		Day:         Today(),
		CheckInTime: time.Now().Add(-time.Hour),
	}

	for _, opt := range opts {
		opt(record)
	}

	if err := db.Create(record).Error; err != nil {
		t.Fatalf("Failed to create test attendance: %v", err)
	}

	return record
}

// WithCheckIn 指定签到时间（同时对齐所属日期）
func WithCheckIn(checkIn time.Time) func(*model.Attendance) {
	return func(a *model.Attendance) {
		a.CheckInTime = checkIn
		a.Day = time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, checkIn.Location())
	}
}

// WithCheckOut 指定签退时间
func WithCheckOut(checkOut time.Time, minutes int) func(*model.Attendance) {
	return func(a *model.Attendance) {
		a.CheckOutTime = &checkOut
		a.MinutesSpent = minutes
	}
}

// TestPayment 创建测试收款记录
func TestPayment(t *testing.T, db *gorm.DB, userID int, opts ...func(*model.Payment)) *model.Payment {
	t.Helper()

	payment := &model.Payment{
		UserID:        userID,
		Amount:        1000,
		PaymentDate:   Today(),
		PaymentMethod: model.MethodCash,
	}

	for _, opt := range opts {
		opt(payment)
	}

	if err := db.Create(payment).Error; err != nil {
		t.Fatalf("Failed to create test payment: %v", err)
	}

	return payment
}

// WithAmount 指定实收与欠款
func WithAmount(amount, due float64) func(*model.Payment) {
	return func(p *model.Payment) {
		p.Amount = amount
		p.DueAmount = due
	}
}

// WithPlanID 指定关联套餐
func WithPlanID(planID int) func(*model.Payment) {
	return func(p *model.Payment) {
		p.MembershipPlanID = &planID
	}
}

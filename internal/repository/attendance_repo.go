package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
)

type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) Create(record *model.Attendance) error {
	return r.db.Create(record).Error
}

func (r *AttendanceRepository) GetByID(id int64) (*model.Attendance, error) {
	var record model.Attendance
	err := r.db.Where("attendance_id = ?", id).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetByUserAndDay 查询会员某天的考勤记录
func (r *AttendanceRepository) GetByUserAndDay(userID int, day time.Time) (*model.Attendance, error) {
	var record model.Attendance
	err := r.db.Where("user_id = ? AND day = ?", userID, day).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *AttendanceRepository) Update(record *model.Attendance) error {
	return r.db.Save(record).Error
}

// ListOpenByDay 查询某天所有已签到未签退的记录
func (r *AttendanceRepository) ListOpenByDay(day time.Time) ([]*model.Attendance, error) {
	var records []*model.Attendance
	err := r.db.Where("day = ? AND check_out_time IS NULL", day).Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// List 分页查询，最近签到在前
func (r *AttendanceRepository) List(page, pageSize int) ([]*model.Attendance, int64, error) {
	var records []*model.Attendance
	var total int64

	if err := r.db.Model(&model.Attendance{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := r.db.Order("check_in_time DESC").Offset(offset).Limit(pageSize).Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *AttendanceRepository) ListByUserID(userID int) ([]*model.Attendance, error) {
	var records []*model.Attendance
	err := r.db.Where("user_id = ?", userID).
		Order("check_in_time DESC").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ListByDayRange 查询签到日期落在区间内的记录（到馆人次统计）
func (r *AttendanceRepository) ListByDayRange(start, end time.Time) ([]*model.Attendance, error) {
	var records []*model.Attendance
	err := r.db.Where("day >= ? AND day <= ?", start, end).Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *AttendanceRepository) CountByDay(day time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.Attendance{}).Where("day = ?", day).Count(&count).Error
	return count, err
}

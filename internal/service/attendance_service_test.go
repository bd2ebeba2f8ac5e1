package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/config"
	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/repository"
	"github.com/qs3c/gym_go_server/internal/testutil"
)

func newAttendanceService(db *gorm.DB) *AttendanceService {
	return NewAttendanceService(
		db,
		repository.NewAttendanceRepository(db),
		repository.NewUserRepository(db),
		newMembershipService(db),
		nil,
		config.AttendanceConfig{MinStayMinutes: 10, RequireActivePlan: true},
	)
}

// activeUser 创建一个有生效套餐的会员
func activeUser(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()
	user := testutil.TestUser(t, db, testutil.WithStatus(model.StatusActive))
	plan := testutil.TestPlan(t, db)
	testutil.TestAssignment(t, db, user.UserID, plan.PlanID)
	return user
}

func TestAttendanceService_Toggle(t *testing.T) {
	t.Run("first toggle checks in", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newAttendanceService(db)

		user := activeUser(t, db)
		checkIn := time.Date(2025, 6, 1, 9, 0, 0, 0, time.Local)
		svc.now = func() time.Time { return checkIn }

		info, checkedIn, err := svc.Toggle(user.UserID)
		require.NoError(t, err)

		assert.True(t, checkedIn)
		assert.False(t, info.CheckedOut)
		assert.Equal(t, "2025-06-01", info.Day)
		assert.Equal(t, user.Name, info.UserName)
	})

	t.Run("checkout before min stay is rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newAttendanceService(db)

		user := activeUser(t, db)
		checkIn := time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local)
		svc.now = func() time.Time { return checkIn }

		_, _, err := svc.Toggle(user.UserID)
		require.NoError(t, err)

		// 10:05 签退：停留 5 分钟 < 最短 10 分钟
		svc.now = func() time.Time { return checkIn.Add(5 * time.Minute) }
		_, _, err = svc.Toggle(user.UserID)
		assert.ErrorIs(t, err, ErrCheckoutTooEarly)

		// 10:11 签退成功，时长取整分钟
		svc.now = func() time.Time { return checkIn.Add(11*time.Minute + 30*time.Second) }
		info, checkedIn, err := svc.Toggle(user.UserID)
		require.NoError(t, err)
		assert.False(t, checkedIn)
		assert.True(t, info.CheckedOut)
		assert.Equal(t, 11, info.MinutesSpent)
	})

	t.Run("checkout before check-in time is rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newAttendanceService(db)

		user := activeUser(t, db)
		checkIn := time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local)
		svc.now = func() time.Time { return checkIn }

		_, _, err := svc.Toggle(user.UserID)
		require.NoError(t, err)

		// 时钟回拨到签到之前
		svc.now = func() time.Time { return checkIn.Add(-30 * time.Minute) }
		_, _, err = svc.Toggle(user.UserID)
		assert.ErrorIs(t, err, ErrCheckoutBeforeCheckin)
	})

	t.Run("third toggle on same day is rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newAttendanceService(db)

		user := activeUser(t, db)
		checkIn := time.Date(2025, 6, 1, 8, 0, 0, 0, time.Local)
		svc.now = func() time.Time { return checkIn }

		_, _, err := svc.Toggle(user.UserID)
		require.NoError(t, err)

		svc.now = func() time.Time { return checkIn.Add(time.Hour) }
		_, _, err = svc.Toggle(user.UserID)
		require.NoError(t, err)

		_, _, err = svc.Toggle(user.UserID)
		assert.ErrorIs(t, err, ErrAlreadyCheckedOut)
	})

	t.Run("next day starts a fresh record", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newAttendanceService(db)

		user := activeUser(t, db)
		day1 := time.Date(2025, 6, 1, 8, 0, 0, 0, time.Local)
		svc.now = func() time.Time { return day1 }
		_, _, err := svc.Toggle(user.UserID)
		require.NoError(t, err)
		svc.now = func() time.Time { return day1.Add(time.Hour) }
		_, _, err = svc.Toggle(user.UserID)
		require.NoError(t, err)

		day2 := day1.AddDate(0, 0, 1)
		svc.now = func() time.Time { return day2 }
		info, checkedIn, err := svc.Toggle(user.UserID)
		require.NoError(t, err)
		assert.True(t, checkedIn)
		assert.Equal(t, "2025-06-02", info.Day)
	})

	t.Run("inactive member cannot check in", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newAttendanceService(db)

		user := testutil.TestUser(t, db)
		_, _, err := svc.Toggle(user.UserID)
		assert.ErrorIs(t, err, ErrMemberNotActive)
	})

	t.Run("gating disabled allows inactive member", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newAttendanceService(db)
		svc.cfg.RequireActivePlan = false

		user := testutil.TestUser(t, db)
		_, checkedIn, err := svc.Toggle(user.UserID)
		require.NoError(t, err)
		assert.True(t, checkedIn)
	})

	t.Run("unknown member", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := newAttendanceService(db)

		_, _, err := svc.Toggle(999999)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestAttendanceService_BulkCheckout(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newAttendanceService(db)

	now := time.Date(2025, 6, 1, 23, 0, 0, 0, time.Local)
	svc.now = func() time.Time { return now }

	// 符合条件：有生效套餐，停留超过最短时间
	eligible := activeUser(t, db)
	testutil.TestAttendance(t, db, eligible.UserID,
		testutil.WithCheckIn(now.Add(-2*time.Hour)))

	// 跳过：停留不足最短时间
	tooShort := activeUser(t, db)
	testutil.TestAttendance(t, db, tooShort.UserID,
		testutil.WithCheckIn(now.Add(-5*time.Minute)))

	// 跳过：会籍未生效
	inactive := testutil.TestUser(t, db)
	testutil.TestAttendance(t, db, inactive.UserID,
		testutil.WithCheckIn(now.Add(-2*time.Hour)))

	// 跳过：已签退
	done := activeUser(t, db)
	checkOut := now.Add(-time.Hour)
	testutil.TestAttendance(t, db, done.UserID,
		testutil.WithCheckIn(now.Add(-3*time.Hour)),
		testutil.WithCheckOut(checkOut, 120))

	closed, err := svc.BulkCheckout()
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)
	record, err := repository.NewAttendanceRepository(db).GetByUserAndDay(eligible.UserID, day)
	require.NoError(t, err)
	require.NotNil(t, record.CheckOutTime)
	assert.Equal(t, 120, record.MinutesSpent)

	// 不符合条件的记录保持未签退
	skipped, err := repository.NewAttendanceRepository(db).GetByUserAndDay(tooShort.UserID, day)
	require.NoError(t, err)
	assert.Nil(t, skipped.CheckOutTime)
}

func TestAttendanceService_ListByUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newAttendanceService(db)

	user := testutil.TestUser(t, db, testutil.WithName("考勤会员"))
	testutil.TestAttendance(t, db, user.UserID,
		testutil.WithCheckIn(time.Date(2025, 6, 1, 9, 0, 0, 0, time.Local)))
	testutil.TestAttendance(t, db, user.UserID,
		testutil.WithCheckIn(time.Date(2025, 6, 2, 9, 0, 0, 0, time.Local)))

	infos, err := svc.ListByUser(user.UserID)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "考勤会员", infos[0].UserName)

	_, err = svc.ListByUser(999999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAttendanceService_DailyCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newAttendanceService(db)

	u1 := testutil.TestUser(t, db)
	u2 := testutil.TestUser(t, db)

	day1 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.Local)
	day2 := time.Date(2025, 6, 2, 9, 0, 0, 0, time.Local)

	testutil.TestAttendance(t, db, u1.UserID, testutil.WithCheckIn(day1))
	testutil.TestAttendance(t, db, u2.UserID, testutil.WithCheckIn(day1.Add(time.Hour)))
	testutil.TestAttendance(t, db, u1.UserID, testutil.WithCheckIn(day2))

	counts, err := svc.DailyCounts(day1, day2.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.Len(t, counts, 2)

	assert.Equal(t, "2025-06-01", counts[0].Date)
	assert.Equal(t, int64(2), counts[0].Count)
	assert.Equal(t, "2025-06-02", counts[1].Date)
	assert.Equal(t, int64(1), counts[1].Count)
}

package cron

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/gym_go_server/config"
	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/pkg/queue"
	"github.com/qs3c/gym_go_server/internal/repository"
	"github.com/qs3c/gym_go_server/internal/service"
	"github.com/qs3c/gym_go_server/internal/testutil"
)

func TestCronService_RunNow(t *testing.T) {
	db := testutil.SetupTestDB(t)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewPlanRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)

	membershipService := service.NewMembershipService(db, userRepo, planRepo, assignmentRepo)
	attendanceService := service.NewAttendanceService(db, attendanceRepo, userRepo, membershipService, nil,
		config.AttendanceConfig{MinStayMinutes: 10, RequireActivePlan: true})
	dashboardService := service.NewDashboardService(userRepo, planRepo, assignmentRepo, attendanceRepo, nil, 7)
	reminderQueue := queue.NewQueue(rdb, "reminders")

	svc := NewService(attendanceService, dashboardService, reminderQueue)

	plan := testutil.TestPlan(t, db)
	today := testutil.Today()

	// 在馆未签退的会员
	user := testutil.TestUser(t, db, testutil.WithStatus(model.StatusActive))
	testutil.TestAssignment(t, db, user.UserID, plan.PlanID)
	testutil.TestAttendance(t, db, user.UserID,
		testutil.WithCheckIn(time.Now().Add(-2*time.Hour)))

	// 3 天后到期的会籍
	expiring := testutil.TestUser(t, db)
	testutil.TestAssignment(t, db, expiring.UserID, plan.PlanID,
		testutil.WithDates(today.AddDate(0, -1, 0), today.AddDate(0, 0, 3)))

	require.NoError(t, svc.RunNow())

	// 考勤已签退
	record, err := attendanceRepo.GetByUserAndDay(user.UserID, today)
	require.NoError(t, err)
	assert.NotNil(t, record.CheckOutTime)

	// 只有窗口内的会籍进入提醒队列（user 的绑定一个月后到期）
	length, err := reminderQueue.Length(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), length)

	msg, err := reminderQueue.Pop(context.Background(), time.Second)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, expiring.UserID, msg.UserID)
	assert.Equal(t, 3, msg.DaysLeft)
}

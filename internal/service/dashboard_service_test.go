package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/repository"
	"github.com/qs3c/gym_go_server/internal/testutil"
)

func newDashboardService(t *testing.T, db *gorm.DB, withRedis bool) *DashboardService {
	t.Helper()

	var rdb *redis.Client
	if withRedis {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		t.Cleanup(mr.Close)

		rdb = redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { rdb.Close() })
	}

	return NewDashboardService(
		repository.NewUserRepository(db),
		repository.NewPlanRepository(db),
		repository.NewAssignmentRepository(db),
		repository.NewAttendanceRepository(db),
		rdb,
		7,
	)
}

func TestDashboardService_Summary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newDashboardService(t, db, true)

	plan := testutil.TestPlan(t, db)
	today := testutil.Today()

	active := testutil.TestUser(t, db)
	testutil.TestAssignment(t, db, active.UserID, plan.PlanID,
		testutil.WithDates(today, today.AddDate(0, 1, 0)))

	expiring := testutil.TestUser(t, db)
	testutil.TestAssignment(t, db, expiring.UserID, plan.PlanID,
		testutil.WithDates(today.AddDate(0, -1, 0), today.AddDate(0, 0, 3)))

	testutil.TestUser(t, db) // 无套餐

	testutil.TestAttendance(t, db, active.UserID, testutil.WithCheckIn(time.Now()))

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), summary.TotalMembers)
	assert.Equal(t, int64(2), summary.ActiveMembers)
	assert.Equal(t, int64(1), summary.TotalPlans)
	assert.Equal(t, int64(1), summary.CheckedInToday)
	assert.Equal(t, int64(1), summary.ExpiringSoon)

	// 第二次读取走缓存：新增数据不影响结果
	testutil.TestUser(t, db)
	cached, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), cached.TotalMembers)
}

func TestDashboardService_SummaryWithoutRedis(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newDashboardService(t, db, false)

	testutil.TestUser(t, db)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.TotalMembers)
}

func TestDashboardService_ListExpiring(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newDashboardService(t, db, false)

	plan := testutil.TestPlan(t, db)
	today := testutil.Today()

	// 3 天后到期：在窗口内
	soon := testutil.TestUser(t, db, testutil.WithName("快到期"))
	testutil.TestAssignment(t, db, soon.UserID, plan.PlanID,
		testutil.WithDates(today.AddDate(0, -1, 0), today.AddDate(0, 0, 3)))

	// 30 天后到期：窗口外
	later := testutil.TestUser(t, db)
	testutil.TestAssignment(t, db, later.UserID, plan.PlanID,
		testutil.WithDates(today, today.AddDate(0, 0, 30)))

	// 今天到期：已不在 (今天, 今天+7] 窗口内
	ending := testutil.TestUser(t, db)
	testutil.TestAssignment(t, db, ending.UserID, plan.PlanID,
		testutil.WithDates(today.AddDate(0, -1, 0), today))

	expiring, err := svc.ListExpiring()
	require.NoError(t, err)
	require.Len(t, expiring, 1)

	assert.Equal(t, soon.UserID, expiring[0].UserID)
	assert.Equal(t, "快到期", expiring[0].UserName)
	assert.Equal(t, plan.PlanName, expiring[0].PlanName)
	assert.Equal(t, 3, expiring[0].DaysLeft)
}

func TestDashboardService_PlanDistribution(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newDashboardService(t, db, false)

	monthly := testutil.TestPlan(t, db)
	yearly := testutil.TestPlan(t, db, testutil.WithDuration(12))
	today := testutil.Today()

	// 月卡两个生效会员，年卡一个
	for i := 0; i < 2; i++ {
		u := testutil.TestUser(t, db)
		testutil.TestAssignment(t, db, u.UserID, monthly.PlanID)
	}
	yearlyUser := testutil.TestUser(t, db)
	testutil.TestAssignment(t, db, yearlyUser.UserID, yearly.PlanID,
		testutil.WithDates(today, today.AddDate(1, 0, 0)))

	// 已过期的绑定不计入
	expired := testutil.TestUser(t, db)
	testutil.TestAssignment(t, db, expired.UserID, monthly.PlanID,
		testutil.WithDates(today.AddDate(0, -2, 0), today.AddDate(0, -1, 0)))

	distribution, err := svc.PlanDistribution()
	require.NoError(t, err)
	require.Len(t, distribution, 2)

	counts := make(map[int]int64)
	for _, item := range distribution {
		counts[item.PlanID] = item.Count
	}
	assert.Equal(t, int64(2), counts[monthly.PlanID])
	assert.Equal(t, int64(1), counts[yearly.PlanID])
}

package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return client, cleanup
}

func TestNewQueue(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "reminders")

	assert.NotNil(t, q)
	assert.Equal(t, "reminders", q.queueName)
	assert.Equal(t, client, q.client)
}

func TestQueue_Push(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "reminders")
	ctx := context.Background()

	t.Run("push single message", func(t *testing.T) {
		msg := &ReminderMessage{
			UserID:   123456,
			UserName: "张三",
			PlanID:   1,
			PlanName: "月卡",
			EndDate:  "2025-07-01",
			DaysLeft: 5,
		}

		err := q.Push(ctx, msg)
		require.NoError(t, err)

		length, err := q.Length(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), length)
	})

	t.Run("push multiple messages", func(t *testing.T) {
		client.Del(ctx, "reminders2")

		q2 := NewQueue(client, "reminders2")

		for i := 0; i < 5; i++ {
			msg := &ReminderMessage{
				UserID: 100000 + i,
			}
			err := q2.Push(ctx, msg)
			require.NoError(t, err)
		}

		length, err := q2.Length(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(5), length)
	})
}

func TestQueue_Pop(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("pop returns pushed message", func(t *testing.T) {
		q := NewQueue(client, "pop_queue")

		msg := &ReminderMessage{
			UserID:   654321,
			UserName: "李四",
			PlanID:   2,
			PlanName: "年卡",
			EndDate:  "2025-12-31",
			DaysLeft: 7,
		}

		err := q.Push(ctx, msg)
		require.NoError(t, err)

		result, err := q.Pop(ctx, time.Second)
		require.NoError(t, err)
		require.NotNil(t, result)

		assert.Equal(t, 654321, result.UserID)
		assert.Equal(t, "李四", result.UserName)
		assert.Equal(t, 2, result.PlanID)
		assert.Equal(t, "年卡", result.PlanName)
		assert.Equal(t, "2025-12-31", result.EndDate)
		assert.Equal(t, 7, result.DaysLeft)
	})

	t.Run("pop FIFO order", func(t *testing.T) {
		q := NewQueue(client, "fifo_queue")

		for i := 1; i <= 3; i++ {
			msg := &ReminderMessage{UserID: i}
			err := q.Push(ctx, msg)
			require.NoError(t, err)
		}

		for i := 1; i <= 3; i++ {
			result, err := q.Pop(ctx, time.Second)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, i, result.UserID)
		}
	})

	t.Run("pop from empty queue times out", func(t *testing.T) {
		q := NewQueue(client, "empty_queue")

		result, err := q.Pop(ctx, 10*time.Millisecond)

		// miniredis 对 BRPop 超时的处理与真实 Redis 略有差异
		if err == nil {
			assert.Nil(t, result)
		}
	})
}

func TestQueue_Length(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("length of empty queue", func(t *testing.T) {
		q := NewQueue(client, "length_empty")

		length, err := q.Length(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), length)
	})

	t.Run("length after push and pop", func(t *testing.T) {
		q := NewQueue(client, "length_ops")

		for i := 0; i < 3; i++ {
			msg := &ReminderMessage{UserID: i}
			err := q.Push(ctx, msg)
			require.NoError(t, err)
		}

		length, err := q.Length(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), length)

		_, err = q.Pop(ctx, time.Second)
		require.NoError(t, err)

		length, err = q.Length(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), length)
	})
}

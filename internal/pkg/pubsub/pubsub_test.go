package pubsub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttendanceEvent_JSON(t *testing.T) {
	event := &AttendanceEvent{
		Type:         EventCheckOut,
		UserID:       123456,
		UserName:     "张三",
		Time:         "2025-06-01T18:30:00+08:00",
		MinutesSpent: 95,
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	// snake_case 字段名
	var raw map[string]interface{}
	err = json.Unmarshal(data, &raw)
	require.NoError(t, err)

	assert.Contains(t, raw, "user_id")
	assert.Contains(t, raw, "user_name")
	assert.Contains(t, raw, "minutes_spent")

	var decoded AttendanceEvent
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, event.UserID, decoded.UserID)
	assert.Equal(t, event.UserName, decoded.UserName)
	assert.Equal(t, event.MinutesSpent, decoded.MinutesSpent)
}

func TestAttendanceEvent_OmitEmpty(t *testing.T) {
	event := &AttendanceEvent{
		Type:   EventCheckIn,
		UserID: 1,
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	// 签到事件没有停留时长
	var raw map[string]interface{}
	err = json.Unmarshal(data, &raw)
	require.NoError(t, err)

	_, hasMinutes := raw["minutes_spent"]
	assert.False(t, hasMinutes, "zero minutes_spent should be omitted")
}

func TestPublisherSubscriber(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	publisher := NewPublisher(client)
	subscriber := NewSubscriber(client)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received := make(chan *AttendanceEvent, 1)

	go func() {
		subscriber.Subscribe(ctx, func(event *AttendanceEvent) {
			received <- event
		})
	}()

	// 等待订阅建立
	time.Sleep(100 * time.Millisecond)

	event := &AttendanceEvent{
		Type:     EventCheckIn,
		UserID:   123456,
		UserName: "王五",
		Time:     "2025-06-01T09:00:00+08:00",
	}

	err = publisher.PublishAttendance(ctx, event)
	require.NoError(t, err)

	select {
	case got := <-received:
		assert.Equal(t, EventCheckIn, got.Type)
		assert.Equal(t, 123456, got.UserID)
		assert.Equal(t, "王五", got.UserName)
	case <-ctx.Done():
		t.Fatal("Timeout waiting for attendance event")
	}
}

package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelAttendanceFeed = "attendance_feed"
)

// 考勤事件类型
const (
	EventCheckIn  = "check_in"
	EventCheckOut = "check_out"
)

// AttendanceEvent 考勤实时事件，推给前台大屏
type AttendanceEvent struct {
	Type         string `json:"type"`
	UserID       int    `json:"user_id"`
	UserName     string `json:"user_name"`
	Time         string `json:"time"`
	MinutesSpent int    `json:"minutes_spent,omitempty"`
}

// Publisher Redis 发布者
type Publisher struct {
	client *redis.Client
}

// NewPublisher 创建发布者
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishAttendance 发布考勤事件
func (p *Publisher) PublishAttendance(ctx context.Context, event *AttendanceEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal attendance event: %w", err)
	}

	return p.client.Publish(ctx, ChannelAttendanceFeed, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅考勤事件
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*AttendanceEvent)) error {
	pubsub := s.client.Subscribe(ctx, ChannelAttendanceFeed)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var event AttendanceEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue // 忽略解析错误
			}

			handler(&event)
		}
	}
}

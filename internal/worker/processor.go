package worker

import (
	"context"
	"fmt"
	"log"

	"github.com/qs3c/gym_go_server/internal/pkg/email"
	"github.com/qs3c/gym_go_server/internal/pkg/queue"
)

// Processor 提醒任务处理器：消费到期提醒并发送邮件
type Processor struct {
	emailService *email.Service
}

func NewProcessor(emailService *email.Service) *Processor {
	return &Processor{emailService: emailService}
}

// Process 处理一条到期提醒
func (p *Processor) Process(ctx context.Context, msg *queue.ReminderMessage) error {
	item := &email.ExpiryItem{
		UserID:   msg.UserID,
		UserName: msg.UserName,
		PlanName: msg.PlanName,
		EndDate:  msg.EndDate,
		DaysLeft: msg.DaysLeft,
	}

	if err := p.emailService.SendExpiryReminder(item); err != nil {
		return fmt.Errorf("failed to send expiry reminder for user %d: %w", msg.UserID, err)
	}

	log.Printf("Expiry reminder sent for user %d (%s), plan %s, %d days left",
		msg.UserID, msg.UserName, msg.PlanName, msg.DaysLeft)
	return nil
}

package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/qs3c/gym_go_server/config"
)

type Service struct {
	cfg *config.EmailConfig
}

func NewService(cfg *config.EmailConfig) *Service {
	return &Service{cfg: cfg}
}

// ExpiryItem 提醒邮件中的一条到期会籍
type ExpiryItem struct {
	UserID   int
	UserName string
	PlanName string
	EndDate  string
	DaysLeft int
}

// SendExpiryReminder 向前台/运营邮箱发送单条会籍到期提醒
func (s *Service) SendExpiryReminder(item *ExpiryItem) error {
	subject := fmt.Sprintf("会籍到期提醒 - %s（%d 天后到期）", item.UserName, item.DaysLeft)
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">会籍到期提醒</h2>
        <p>以下会员的套餐即将到期，请及时联系续费：</p>
        <table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
            <tr><td style="padding: 8px; background-color: #f3f4f6;">会员编号</td><td style="padding: 8px;">%d</td></tr>
            <tr><td style="padding: 8px; background-color: #f3f4f6;">姓名</td><td style="padding: 8px;">%s</td></tr>
            <tr><td style="padding: 8px; background-color: #f3f4f6;">套餐</td><td style="padding: 8px;">%s</td></tr>
            <tr><td style="padding: 8px; background-color: #f3f4f6;">到期日</td><td style="padding: 8px;">%s</td></tr>
            <tr><td style="padding: 8px; background-color: #f3f4f6;">剩余天数</td><td style="padding: 8px;">%d 天</td></tr>
        </table>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, item.UserID, item.UserName, item.PlanName, item.EndDate, item.DaysLeft)

	return s.sendHTML(s.cfg.NotifyTo, subject, body)
}

// SendExpiryDigest 发送到期会籍汇总邮件
func (s *Service) SendExpiryDigest(items []*ExpiryItem) error {
	if len(items) == 0 {
		return nil
	}

	var rows strings.Builder
	for _, item := range items {
		rows.WriteString(fmt.Sprintf(`
            <tr>
                <td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%d</td>
                <td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td>
                <td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td>
                <td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td>
                <td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%d 天</td>
            </tr>`, item.UserID, item.UserName, item.PlanName, item.EndDate, item.DaysLeft))
	}

	subject := fmt.Sprintf("会籍到期汇总 - 共 %d 位会员即将到期", len(items))
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">会籍到期汇总</h2>
        <p>以下会员的套餐即将到期：</p>
        <table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
            <tr style="background-color: #f3f4f6;">
                <th style="padding: 8px; text-align: left;">编号</th>
                <th style="padding: 8px; text-align: left;">姓名</th>
                <th style="padding: 8px; text-align: left;">套餐</th>
                <th style="padding: 8px; text-align: left;">到期日</th>
                <th style="padding: 8px; text-align: left;">剩余</th>
            </tr>%s
        </table>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, rows.String())

	return s.sendHTML(s.cfg.NotifyTo, subject, body)
}

// sendHTML 发送 HTML 邮件
func (s *Service) sendHTML(to, subject, body string) error {
	headers := make(map[string]string)
	headers["From"] = s.cfg.From
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var msg strings.Builder
	for k, v := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	msg.WriteString("\r\n")
	msg.WriteString(body)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg.String()))
}

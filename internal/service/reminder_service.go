package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"quizdrill/internal/repository"
)

// ReminderService emails users a digest of how many questions are due,
// via Amazon SES. Disabled when no sender address is configured.
type ReminderService struct {
	client     *sesv2.Client
	userRepo   *repository.UserRepository
	statsSvc   *StatsService
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
}

// NewReminderService creates a reminder service. An empty fromEmail yields
// a disabled service that skips all sends.
func NewReminderService(userRepo *repository.UserRepository, statsSvc *StatsService, awsRegion, fromEmail, fromName, appBaseURL string) (*ReminderService, error) {
	if fromEmail == "" {
		log.Println("Reminder service disabled: SES_FROM_EMAIL not configured")
		return &ReminderService{enabled: false}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Reminder service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &ReminderService{
		client:     sesv2.NewFromConfig(cfg),
		userRepo:   userRepo,
		statsSvc:   statsSvc,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
	}, nil
}

// IsEnabled returns whether the reminder service is enabled
func (s *ReminderService) IsEnabled() bool {
	return s.enabled
}

// SendDueDigests emails every user who has at least one question due.
// Per-user failures are logged and skipped so one bad address does not
// block the rest of the run.
func (s *ReminderService) SendDueDigests(ctx context.Context) error {
	if !s.enabled {
		return nil
	}

	users, err := s.userRepo.ListUsers()
	if err != nil {
		return fmt.Errorf("failed to list users for digest: %w", err)
	}

	for _, user := range users {
		dueCount, err := s.statsSvc.DueCount(user.ID)
		if err != nil {
			log.Printf("Skipping digest for user %d: %v", user.ID, err)
			continue
		}
		if dueCount == 0 {
			continue
		}

		if err := s.sendDueDigest(ctx, user.Email, user.Name, dueCount); err != nil {
			log.Printf("Failed to send digest to %s: %v", user.Email, err)
		}
	}

	return nil
}

// sendDueDigest sends a single due-review reminder email
func (s *ReminderService) sendDueDigest(ctx context.Context, toEmail, toName string, dueCount int) error {
	noun := "questions"
	if dueCount == 1 {
		noun = "question"
	}

	subject := fmt.Sprintf("You have %d %s due for review", dueCount, noun)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h2>Time to review</h2>
		<p>Hi %s,</p>
		<p>You have <strong>%d %s</strong> scheduled for review today. A short
		session now keeps them fresh before they fade.</p>
		<p><a href="%s" style="display: inline-block; padding: 12px 30px; background-color: #4a90e2; color: white; text-decoration: none; border-radius: 5px;">Start studying</a></p>
		<p style="font-size: 12px; color: #666;">This is an automated email from QuizDrill. Please do not reply.</p>
	</div>
</body>
</html>
`, toName, dueCount, noun, s.appBaseURL)

	textBody := fmt.Sprintf(`Hi %s,

You have %d %s scheduled for review today. A short session now keeps them
fresh before they fade.

Start studying: %s

---
This is an automated email from QuizDrill. Please do not reply.
`, toName, dueCount, noun, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *ReminderService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	log.Printf("Reminder sent: to=%s, subject=%s", toEmail, subject)
	return nil
}

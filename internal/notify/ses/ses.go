// Package ses emails job outcome notifications to the operator through
// Amazon SES.
package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"cargoscan/internal/config"
	"cargoscan/internal/domain"
	"cargoscan/internal/port"
)

type sesNotifier struct {
	client      *sesv2.Client
	fromAddress string
	toAddress   string
}

// NewNotifier creates a new SES-backed Notifier.
func NewNotifier(cfg config.NotifyConfig) (port.Notifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return &sesNotifier{
		client:      sesv2.NewFromConfig(awsCfg),
		fromAddress: cfg.FromAddress,
		toAddress:   cfg.ToAddress,
	}, nil
}

func (s *sesNotifier) SendJobCompleted(ctx context.Context, job *domain.ScanJob) error {
	subject := fmt.Sprintf("Scan job %s completed", job.ID)
	body := fmt.Sprintf(
		"Scan job %s finished successfully.\n\nDocument: %s\nType: %s\nAttempts: %d\n",
		job.ID, job.DocumentID, job.DocumentType, job.Attempts)
	return s.send(ctx, subject, body)
}

func (s *sesNotifier) SendJobFailed(ctx context.Context, job *domain.ScanJob, failure domain.JobFailure) error {
	subject := fmt.Sprintf("Scan job %s failed", job.ID)
	body := fmt.Sprintf(
		"Scan job %s failed permanently.\n\nFailure code: %s\nAttempts: %d\nLast error: %s\n",
		job.ID, failure.Code, failure.Attempts, failure.Message)
	return s.send(ctx, subject, body)
}

func (s *sesNotifier) send(ctx context.Context, subject, textBody string) error {
	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &s.fromAddress,
		Destination: &types.Destination{
			ToAddresses: []string{s.toAddress},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}
